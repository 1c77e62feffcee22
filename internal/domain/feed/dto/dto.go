// Package dto contains data transfer objects for the feed domain
package dto

import "regexp"

// channelLinkRe matches a public channel link; only the first match in a
// message is used
var channelLinkRe = regexp.MustCompile(`https?://t\.me/([A-Za-z0-9_]+)`)

// IncomingMessage is the transport-agnostic shape of a user message
type IncomingMessage struct {
	UserTelegramID string
	Username       string
	Text           string
	Forward        *ForwardedChat
}

// ForwardedChat carries forward-origin metadata of a message
type ForwardedChat struct {
	Type       string
	TelegramID string
	Title      string
	Username   string
}

// MessageClass tags the classification of an incoming message
type MessageClass int

const (
	// ClassPlain is a message with no channel reference; it is ignored
	ClassPlain MessageClass = iota
	// ClassForwardedChannel is a message forwarded from a channel
	ClassForwardedChannel
	// ClassLinkCandidate is a message containing a public channel link
	ClassLinkCandidate
)

// Classified is the tagged classification result
type Classified struct {
	Class   MessageClass
	Channel *ChannelRef // set for ClassForwardedChannel
	Handle  string      // set for ClassLinkCandidate
}

// Classify determines how an incoming message references a channel.
// Forwarded-origin metadata wins over link text; forwards from anything
// other than a channel are treated as plain.
func Classify(msg *IncomingMessage) Classified {
	if msg.Forward != nil {
		if msg.Forward.Type != "channel" {
			return Classified{Class: ClassPlain}
		}
		return Classified{
			Class: ClassForwardedChannel,
			Channel: &ChannelRef{
				TelegramID: msg.Forward.TelegramID,
				Title:      msg.Forward.Title,
				Username:   msg.Forward.Username,
			},
		}
	}

	if m := channelLinkRe.FindStringSubmatch(msg.Text); m != nil {
		return Classified{Class: ClassLinkCandidate, Handle: m[1]}
	}

	return Classified{Class: ClassPlain}
}

// ChannelRef is the normalized channel reference produced by resolution
type ChannelRef struct {
	TelegramID string
	Title      string
	Username   string
}

// ChatInfo is the result of an external chat lookup by handle
type ChatInfo struct {
	TelegramID string
	Type       string
	Title      string
	Username   string
}

// CommandResponse represents a plain text reply for bot commands
type CommandResponse struct {
	Message string
}

// Button represents an inline keyboard button; exactly one of CallbackData
// and URL is set
type Button struct {
	Text         string
	CallbackData string
	URL          string
}

// View is a rendered menu screen: message text plus inline keyboard rows.
// Empty Buttons means a plain text message.
type View struct {
	Message string
	Buttons [][]Button
}

// CallbackResponse is the outcome of a callback interaction: a short
// notification shown to the user and an optional message edit
type CallbackResponse struct {
	Notice string
	Edit   *View
}
