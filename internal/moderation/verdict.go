package moderation

// VerdictKind tags the outcome of one message evaluation.
type VerdictKind int

const (
	VerdictClean VerdictKind = iota
	VerdictBanned
	VerdictSpam
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictBanned:
		return "banned"
	case VerdictSpam:
		return "spam"
	default:
		return "clean"
	}
}

// Verdict is the engine's per-message decision. Exactly one kind per
// evaluation; Reason is set for non-clean kinds only.
type Verdict struct {
	Kind   VerdictKind
	Reason string
}

func Clean() Verdict {
	return Verdict{Kind: VerdictClean}
}

func Banned(reason string) Verdict {
	return Verdict{Kind: VerdictBanned, Reason: reason}
}

func Spam(reason string) Verdict {
	return Verdict{Kind: VerdictSpam, Reason: reason}
}

func (v Verdict) IsClean() bool {
	return v.Kind == VerdictClean
}

const (
	ReasonTemporarilyBanned = "User is temporarily banned"
	ReasonRateLimitExceeded = "Message rate limit exceeded"
	ReasonExcessiveLinks    = "Excessive links detected"
	ReasonExcessiveCaps     = "Excessive capital letters"
)
