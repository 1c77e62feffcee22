package dto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		msg        IncomingMessage
		wantClass  MessageClass
		wantHandle string
	}{
		{
			name:      "plain text",
			msg:       IncomingMessage{Text: "hello there"},
			wantClass: ClassPlain,
		},
		{
			name: "forwarded channel",
			msg: IncomingMessage{
				Forward: &ForwardedChat{Type: "channel", TelegramID: "-1001", Title: "News"},
			},
			wantClass: ClassForwardedChannel,
		},
		{
			name: "forwarded group is ignored",
			msg: IncomingMessage{
				Text:    "https://t.me/somechannel",
				Forward: &ForwardedChat{Type: "supergroup", TelegramID: "-2001", Title: "Group"},
			},
			wantClass: ClassPlain,
		},
		{
			name:       "https link",
			msg:        IncomingMessage{Text: "https://t.me/newschannel"},
			wantClass:  ClassLinkCandidate,
			wantHandle: "newschannel",
		},
		{
			name:       "http link",
			msg:        IncomingMessage{Text: "http://t.me/news_channel_1"},
			wantClass:  ClassLinkCandidate,
			wantHandle: "news_channel_1",
		},
		{
			name:       "link inside text",
			msg:        IncomingMessage{Text: "глянь https://t.me/newschannel классный канал"},
			wantClass:  ClassLinkCandidate,
			wantHandle: "newschannel",
		},
		{
			name:       "only first link is used",
			msg:        IncomingMessage{Text: "https://t.me/first https://t.me/second"},
			wantClass:  ClassLinkCandidate,
			wantHandle: "first",
		},
		{
			name:      "other host is not a channel link",
			msg:       IncomingMessage{Text: "https://example.com/newschannel"},
			wantClass: ClassPlain,
		},
		{
			name:       "trailing path cut at first invalid rune",
			msg:        IncomingMessage{Text: "https://t.me/newschannel/123"},
			wantClass:  ClassLinkCandidate,
			wantHandle: "newschannel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(&tt.msg)
			require.Equal(t, tt.wantClass, got.Class)
			if tt.wantHandle != "" {
				require.Equal(t, tt.wantHandle, got.Handle)
			}
			if tt.wantClass == ClassForwardedChannel {
				require.NotNil(t, got.Channel)
				require.Equal(t, tt.msg.Forward.TelegramID, got.Channel.TelegramID)
			}
		})
	}
}
