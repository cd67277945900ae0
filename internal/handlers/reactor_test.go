package handlers

import (
	"testing"

	api "github.com/OvyFlash/telegram-bot-api"
)

func TestShouldModerate(t *testing.T) {
	t.Parallel()

	group := &api.Chat{ID: -100, Type: "supergroup"}
	private := &api.Chat{ID: 42, Type: "private"}

	cases := []struct {
		name string
		msg  *api.Message
		chat *api.Chat
		want bool
	}{
		{"plain group message", &api.Message{Text: "hello"}, group, true},
		{"private chat skipped", &api.Message{Text: "hello"}, private, false},
		{
			"command skipped",
			&api.Message{Text: "/stats", Entities: []api.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}},
			group,
			false,
		},
		{"caption-only media message", &api.Message{Caption: "look at this"}, group, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := shouldModerate(tc.msg, tc.chat); got != tc.want {
				t.Fatalf("shouldModerate(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
