package moderation

import (
	"regexp"
	"strings"
)

const (
	maxAllowedLinks = 2
	capsMinLength   = 11
	capsMaxRatio    = 0.7
)

var linkPattern = regexp.MustCompile(`https?://\S+`)

// Classifier runs the fixed rule chain over message text: keyword match,
// link count, caps ratio. First match wins, later rules don't run.
type Classifier struct {
	keywords []string
}

func NewClassifier(keywords []string) *Classifier {
	lowered := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		lowered = append(lowered, keyword)
	}
	return &Classifier{keywords: lowered}
}

func (c *Classifier) Classify(text string) Verdict {
	lowerText := strings.ToLower(text)
	for _, keyword := range c.keywords {
		if strings.Contains(lowerText, keyword) {
			return Spam("Spam keyword detected: " + keyword)
		}
	}

	if len(linkPattern.FindAllStringIndex(text, -1)) > maxAllowedLinks {
		return Spam(ReasonExcessiveLinks)
	}

	var total, upper int
	for _, r := range text {
		total++
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	if total >= capsMinLength && float64(upper)/float64(total) > capsMaxRatio {
		return Spam(ReasonExcessiveCaps)
	}

	return Clean()
}
