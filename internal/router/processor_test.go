package router

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlinkhq/chatlink/internal/channel"
	"github.com/chatlinkhq/chatlink/internal/linktoken"
	"github.com/chatlinkhq/chatlink/internal/registration"
)

type fakeService struct {
	bindOut   registration.BindOutcome
	bindErr   error
	unbindOut registration.Registration
	unbindErr error
	getOut    registration.Registration
	getErr    error

	bindChannel string
	bindCode    string
}

func (s *fakeService) Bind(ctx context.Context, channelID, rawCode string) (registration.BindOutcome, error) {
	s.bindChannel, s.bindCode = channelID, rawCode
	return s.bindOut, s.bindErr
}

func (s *fakeService) Unbind(ctx context.Context, channelID string) (registration.Registration, error) {
	return s.unbindOut, s.unbindErr
}

func (s *fakeService) GetByChannel(ctx context.Context, channelID string) (registration.Registration, error) {
	return s.getOut, s.getErr
}

type fakeReplier struct {
	sent []channel.OutboundMessage
}

func (r *fakeReplier) Send(ctx context.Context, channelType channel.Type, msg channel.OutboundMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

func newTestProcessor(svc *fakeService) (*Processor, *fakeReplier) {
	p := NewProcessor(nil, svc, linktoken.NewIssuer("secret"))
	replier := &fakeReplier{}
	p.SetReplier(replier)
	p.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return p, replier
}

func inbound(text string) channel.InboundMessage {
	return channel.InboundMessage{
		Channel:     "telegram",
		Message:     channel.Message{Text: text},
		ReplyTarget: "42",
	}
}

func TestProcessorFreshBindRepliesWithToken(t *testing.T) {
	svc := &fakeService{
		bindOut: registration.BindOutcome{
			Registration: registration.Registration{Label: "printer-7", BoundChannelID: "42"},
		},
	}
	p, replier := newTestProcessor(svc)

	err := p.Handle(context.Background(), channel.ChannelConfig{}, inbound("abc 123"))
	require.NoError(t, err)
	require.Len(t, replier.sent, 1)

	assert.Equal(t, "42", svc.bindChannel)
	assert.Equal(t, "abc 123", svc.bindCode)

	reply := replier.sent[0]
	assert.Equal(t, "42", reply.Target)
	assert.Contains(t, reply.Message.Text, "Linked this chat to printer-7")

	lines := strings.Split(reply.Message.Text, "\n")
	encoded := lines[len(lines)-1]
	payload, err := linktoken.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "42", payload.ChannelID)
	assert.NoError(t, linktoken.NewIssuer("secret").Verify(payload, p.now(), 0))
}

func TestProcessorReboundReply(t *testing.T) {
	svc := &fakeService{
		bindOut: registration.BindOutcome{
			Registration: registration.Registration{Label: "printer-7", BoundChannelID: "42"},
			Rebound:      true,
		},
	}
	p, replier := newTestProcessor(svc)

	require.NoError(t, p.Handle(context.Background(), channel.ChannelConfig{}, inbound("/link ABC123")))
	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0].Message.Text, "already linked to printer-7")
	// Re-confirmation still carries a fresh token.
	assert.Contains(t, replier.sent[0].Message.Text, "link token")
}

func TestProcessorBindErrorReplies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid format", registration.ErrInvalidFormat, "does not look like"},
		{"not found", registration.ErrCodeNotFound, "Unknown registration code"},
		{"not active", registration.ErrNotActive, "not active"},
		{"not started", registration.ErrNotStarted, "not valid yet"},
		{"expired", registration.ErrExpired, "expired"},
		{"already linked", registration.ErrAlreadyLinked, "another chat"},
		{"channel busy", registration.ErrChannelBusy, "/unlink"},
		{"store failure", context.DeadlineExceeded, "try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, replier := newTestProcessor(&fakeService{bindErr: tt.err})
			require.NoError(t, p.Handle(context.Background(), channel.ChannelConfig{}, inbound("ABC123")))
			require.Len(t, replier.sent, 1)
			assert.Contains(t, replier.sent[0].Message.Text, tt.want)
		})
	}
}

func TestProcessorUnbind(t *testing.T) {
	p, replier := newTestProcessor(&fakeService{
		unbindOut: registration.Registration{Label: "printer-7"},
	})
	require.NoError(t, p.Handle(context.Background(), channel.ChannelConfig{}, inbound("/unlink")))
	require.Len(t, replier.sent, 1)
	text := replier.sent[0].Message.Text
	assert.Contains(t, text, "Unlinked this chat from printer-7")
	// Unbind confirmations never carry a token.
	assert.NotContains(t, text, "link token")
}

func TestProcessorUnbindNotBound(t *testing.T) {
	p, replier := newTestProcessor(&fakeService{unbindErr: registration.ErrNotBound})
	require.NoError(t, p.Handle(context.Background(), channel.ChannelConfig{}, inbound("/unlink")))
	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0].Message.Text, "not linked")
}

func TestProcessorTokenCommand(t *testing.T) {
	p, replier := newTestProcessor(&fakeService{
		getOut: registration.Registration{Label: "printer-7", BoundChannelID: "42"},
	})
	require.NoError(t, p.Handle(context.Background(), channel.ChannelConfig{}, inbound("/token")))
	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0].Message.Text, "link token")
}

func TestProcessorTokenCommandUnbound(t *testing.T) {
	p, replier := newTestProcessor(&fakeService{getErr: registration.ErrNotBound})
	require.NoError(t, p.Handle(context.Background(), channel.ChannelConfig{}, inbound("/token")))
	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0].Message.Text, "not linked yet")
}

func TestProcessorHelp(t *testing.T) {
	p, replier := newTestProcessor(&fakeService{})
	require.NoError(t, p.Handle(context.Background(), channel.ChannelConfig{}, inbound("/help")))
	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0].Message.Text, "/link CODE")
}

func TestProcessorRequiresReplyTarget(t *testing.T) {
	p, _ := newTestProcessor(&fakeService{})
	msg := channel.InboundMessage{Message: channel.Message{Text: "ABC123"}}
	assert.Error(t, p.Handle(context.Background(), channel.ChannelConfig{}, msg))
}
