package router

import "strings"

// Kind classifies an inbound event for the binding pipeline.
type Kind string

const (
	KindBindAttempt  Kind = "bind_attempt"
	KindUnbind       Kind = "unbind"
	KindReissueToken Kind = "reissue_token"
	KindStatus       Kind = "status"
	KindHelp         Kind = "help"
)

// Event is the normalized view of one inbound message.
type Event struct {
	ChannelID string
	Kind      Kind
	Code      string
}

// ParseCommand classifies raw message text. Slash commands map to their
// event kinds; /start carries an optional deep-link payload treated as a
// bind code; any other non-command text is a bind attempt with the whole
// text as the candidate code.
func ParseCommand(raw string) (Kind, string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return KindHelp, ""
	}
	if !strings.HasPrefix(text, "/") {
		return KindBindAttempt, text
	}
	command, rest, _ := strings.Cut(text, " ")
	// Telegram appends the bot name in groups: /link@chatlink_bot
	command, _, _ = strings.Cut(command, "@")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(command) {
	case "/link", "/bind":
		return KindBindAttempt, rest
	case "/start":
		if rest == "" {
			return KindHelp, ""
		}
		return KindBindAttempt, rest
	case "/unlink", "/unbind":
		return KindUnbind, ""
	case "/token":
		return KindReissueToken, ""
	case "/status":
		return KindStatus, ""
	default:
		return KindHelp, ""
	}
}
