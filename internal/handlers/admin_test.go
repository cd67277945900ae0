package handlers

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/iamwavecut/guardbot/internal/errors"
)

func TestParseBanArgs(t *testing.T) {
	t.Parallel()

	defaultDuration := time.Hour

	cases := []struct {
		name    string
		args    string
		wantID  int64
		wantDur time.Duration
		wantErr bool
	}{
		{"id only uses default duration", "12345", 12345, time.Hour, false},
		{"id with duration", "12345 600", 12345, 10 * time.Minute, false},
		{"extra whitespace", "  12345   600  ", 12345, 10 * time.Minute, false},
		{"empty args", "", 0, 0, true},
		{"bad user id", "bob", 0, 0, true},
		{"zero duration rejected", "12345 0", 0, 0, true},
		{"negative duration rejected", "12345 -5", 0, 0, true},
		{"non-numeric duration rejected", "12345 soon", 0, 0, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			id, dur, err := parseBanArgs(tc.args, defaultDuration)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseBanArgs(%q) expected error", tc.args)
				}
				if !errors.Is(err, apperrors.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBanArgs(%q): %v", tc.args, err)
			}
			if id != tc.wantID || dur != tc.wantDur {
				t.Fatalf("parseBanArgs(%q) = (%d, %v), want (%d, %v)", tc.args, id, dur, tc.wantID, tc.wantDur)
			}
		})
	}
}

func TestParseUserIDArg(t *testing.T) {
	t.Parallel()

	if _, err := parseUserIDArg(""); err == nil {
		t.Fatal("expected error for empty args")
	}
	if _, err := parseUserIDArg("nope"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
	id, err := parseUserIDArg(" 777 ")
	if err != nil {
		t.Fatalf("parseUserIDArg: %v", err)
	}
	if id != 777 {
		t.Fatalf("expected 777, got %d", id)
	}
}
