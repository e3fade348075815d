// Package router turns inbound channel messages into binding operations
// and renders each outcome as a reply.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chatlinkhq/chatlink/internal/channel"
	"github.com/chatlinkhq/chatlink/internal/linktoken"
	"github.com/chatlinkhq/chatlink/internal/registration"
)

// BindingService is the slice of the registration service the processor
// needs.
type BindingService interface {
	Bind(ctx context.Context, channelID, rawCode string) (registration.BindOutcome, error)
	Unbind(ctx context.Context, channelID string) (registration.Registration, error)
	GetByChannel(ctx context.Context, channelID string) (registration.Registration, error)
}

// TokenIssuer produces a signed link token for a bound chat.
type TokenIssuer interface {
	Issue(channelID string, now time.Time) linktoken.Payload
}

// Replier delivers a reply back over a channel. *channel.Manager satisfies it.
type Replier interface {
	Send(ctx context.Context, channelType channel.Type, msg channel.OutboundMessage) error
}

type Processor struct {
	logger  *slog.Logger
	service BindingService
	issuer  TokenIssuer
	replier Replier
	now     func() time.Time
}

func NewProcessor(log *slog.Logger, service BindingService, issuer TokenIssuer) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		logger:  log.With(slog.String("component", "router")),
		service: service,
		issuer:  issuer,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetReplier wires the outbound side. The manager is constructed with this
// processor's Handle as its inbound handler, so the replier arrives after
// construction.
func (p *Processor) SetReplier(r Replier) {
	p.replier = r
}

// Handle is the channel.InboundHandler entrypoint.
func (p *Processor) Handle(ctx context.Context, cfg channel.ChannelConfig, msg channel.InboundMessage) error {
	channelID := strings.TrimSpace(msg.ReplyTarget)
	if channelID == "" {
		return fmt.Errorf("inbound message has no reply target")
	}
	kind, code := ParseCommand(msg.Message.PlainText())
	event := Event{ChannelID: channelID, Kind: kind, Code: code}
	reply := p.Process(ctx, event)
	if reply == "" {
		return nil
	}
	return p.reply(ctx, msg.Channel, channelID, reply)
}

// Process runs one event through the binding pipeline and returns the
// reply text.
func (p *Processor) Process(ctx context.Context, event Event) string {
	switch event.Kind {
	case KindBindAttempt:
		return p.processBind(ctx, event)
	case KindUnbind:
		return p.processUnbind(ctx, event)
	case KindReissueToken:
		return p.processToken(ctx, event)
	case KindStatus:
		return p.processStatus(ctx, event)
	default:
		return helpText
	}
}

func (p *Processor) processBind(ctx context.Context, event Event) string {
	out, err := p.service.Bind(ctx, event.ChannelID, event.Code)
	if err != nil {
		p.logger.Info("bind rejected",
			slog.String("channel_id", event.ChannelID),
			slog.Any("error", err))
		return bindErrorText(err)
	}
	token, tokenErr := p.encodeToken(event.ChannelID)
	if tokenErr != nil {
		p.logger.Error("issue token failed", slog.String("channel_id", event.ChannelID), slog.Any("error", tokenErr))
		token = ""
	}
	label := strings.TrimSpace(out.Registration.Label)
	if label == "" {
		label = "your device"
	}
	var b strings.Builder
	if out.Rebound {
		fmt.Fprintf(&b, "This chat is already linked to %s.", label)
	} else {
		fmt.Fprintf(&b, "Linked this chat to %s.", label)
	}
	if token != "" {
		fmt.Fprintf(&b, "\n\nDevice link token (valid ~10 minutes):\n%s", token)
	}
	return b.String()
}

func (p *Processor) processUnbind(ctx context.Context, event Event) string {
	reg, err := p.service.Unbind(ctx, event.ChannelID)
	if err != nil {
		p.logger.Info("unbind rejected",
			slog.String("channel_id", event.ChannelID),
			slog.Any("error", err))
		return unbindErrorText(err)
	}
	label := strings.TrimSpace(reg.Label)
	if label == "" {
		label = "your device"
	}
	return fmt.Sprintf("Unlinked this chat from %s. Send a new code to link again.", label)
}

func (p *Processor) processToken(ctx context.Context, event Event) string {
	if _, err := p.service.GetByChannel(ctx, event.ChannelID); err != nil {
		if errors.Is(err, registration.ErrNotBound) {
			return "This chat is not linked yet. Send your registration code first."
		}
		p.logger.Error("token lookup failed", slog.String("channel_id", event.ChannelID), slog.Any("error", err))
		return storeUnavailableText
	}
	token, err := p.encodeToken(event.ChannelID)
	if err != nil {
		p.logger.Error("issue token failed", slog.String("channel_id", event.ChannelID), slog.Any("error", err))
		return storeUnavailableText
	}
	return fmt.Sprintf("Device link token (valid ~10 minutes):\n%s", token)
}

func (p *Processor) processStatus(ctx context.Context, event Event) string {
	reg, err := p.service.GetByChannel(ctx, event.ChannelID)
	if err != nil {
		if errors.Is(err, registration.ErrNotBound) {
			return "This chat is not linked. Send your registration code to link it."
		}
		p.logger.Error("status lookup failed", slog.String("channel_id", event.ChannelID), slog.Any("error", err))
		return storeUnavailableText
	}
	label := strings.TrimSpace(reg.Label)
	if label == "" {
		label = "a device"
	}
	return fmt.Sprintf("This chat is linked to %s since %s.", label, reg.BoundAt.Format("2006-01-02"))
}

func (p *Processor) encodeToken(channelID string) (string, error) {
	if p.issuer == nil {
		return "", fmt.Errorf("token issuer not configured")
	}
	payload := p.issuer.Issue(channelID, p.now())
	return payload.Encode()
}

func (p *Processor) reply(ctx context.Context, channelType channel.Type, target, text string) error {
	if p.replier == nil {
		return fmt.Errorf("replier not configured")
	}
	return p.replier.Send(ctx, channelType, channel.OutboundMessage{
		Target:  target,
		Message: channel.Message{Text: text},
	})
}

const helpText = "Send your registration code to link this chat.\n" +
	"/link CODE - link this chat to a device\n" +
	"/unlink - remove the link\n" +
	"/token - get a fresh device link token\n" +
	"/status - show the current link"

const storeUnavailableText = "Something went wrong on our side. Please try again in a moment."

// bindErrorText maps binding errors to user-facing replies. Unknown errors
// are treated as transient store failures and worded as retryable.
func bindErrorText(err error) string {
	switch {
	case errors.Is(err, registration.ErrInvalidFormat):
		return "That does not look like a registration code. Codes are 6-64 letters, digits, or dashes."
	case errors.Is(err, registration.ErrCodeNotFound):
		return "Unknown registration code. Check for typos and try again."
	case errors.Is(err, registration.ErrNotActive):
		return "This registration is not active. Contact support to re-enable it."
	case errors.Is(err, registration.ErrNotStarted):
		return "This registration is not valid yet. Try again on its start date."
	case errors.Is(err, registration.ErrExpired):
		return "This registration has expired."
	case errors.Is(err, registration.ErrAlreadyLinked):
		return "This code is already linked to another chat. Unlink it there first."
	case errors.Is(err, registration.ErrChannelBusy):
		return "This chat is already linked to another device. Send /unlink first."
	default:
		return storeUnavailableText
	}
}

func unbindErrorText(err error) string {
	switch {
	case errors.Is(err, registration.ErrNotBound):
		return "This chat is not linked to anything."
	case errors.Is(err, registration.ErrNotOwner):
		return "Only the linked chat can remove this link."
	default:
		return storeUnavailableText
	}
}
