package channel

import (
	"fmt"
	"strings"
	"time"
)

// Type identifies a messaging platform.
type Type string

func (t Type) String() string {
	return string(t)
}

func normalizeType(raw string) Type {
	normalized := strings.TrimSpace(strings.ToLower(raw))
	if normalized == "" {
		return ""
	}
	return Type(normalized)
}

// Identity describes the sender of an inbound message as the platform
// reports it.
type Identity struct {
	ExternalID  string
	DisplayName string
	Attributes  map[string]string
}

func (i Identity) Attribute(key string) string {
	if i.Attributes == nil {
		return ""
	}
	return strings.TrimSpace(i.Attributes[key])
}

type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
)

type Attachment struct {
	Type    AttachmentType `json:"type"`
	URL     string         `json:"url,omitempty"`
	Name    string         `json:"name,omitempty"`
	Caption string         `json:"caption,omitempty"`
}

type Message struct {
	ID          string       `json:"id,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == "" && len(m.Attachments) == 0
}

func (m Message) PlainText() string {
	return strings.TrimSpace(m.Text)
}

// InboundMessage is a platform message normalized for processing.
// ReplyTarget is the chat identifier replies should be addressed to; it is
// also the channel identity a registration binds to.
type InboundMessage struct {
	Channel     Type
	Message     Message
	ReplyTarget string
	Sender      Identity
	ReceivedAt  time.Time
	Source      string
}

type OutboundMessage struct {
	Target  string  `json:"target"`
	Message Message `json:"message"`
}

// ChannelConfig carries the credentials for one platform connection.
type ChannelConfig struct {
	ID          string
	ChannelType Type
	Credentials map[string]string
}

func (c ChannelConfig) Credential(key string) string {
	if c.Credentials == nil {
		return ""
	}
	return strings.TrimSpace(c.Credentials[key])
}

// ParseType validates a raw channel type against the registered adapters.
func (r *Registry) ParseType(raw string) (Type, error) {
	ct := normalizeType(raw)
	if ct == "" {
		return "", fmt.Errorf("unsupported channel type: %s", raw)
	}
	if _, ok := r.Get(ct); !ok {
		return "", fmt.Errorf("unsupported channel type: %s", raw)
	}
	return ct, nil
}
