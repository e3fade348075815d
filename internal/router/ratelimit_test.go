package router

import (
	"context"
	"testing"

	"golang.org/x/time/rate"

	"github.com/chatlinkhq/chatlink/internal/channel"
)

func TestRateLimitMiddleware(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, cfg channel.ChannelConfig, msg channel.InboundMessage) error {
		calls++
		return nil
	}
	limited := RateLimitMiddleware(nil, rate.Limit(1), 2)(handler)

	msg := channel.InboundMessage{ReplyTarget: "42"}
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := limited(ctx, channel.ChannelConfig{}, msg); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want burst of 2", calls)
	}

	// A different chat has its own budget.
	other := channel.InboundMessage{ReplyTarget: "99"}
	if err := limited(ctx, channel.ChannelConfig{}, other); err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRateLimitMiddlewareSkipsBlankTarget(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, cfg channel.ChannelConfig, msg channel.InboundMessage) error {
		calls++
		return nil
	}
	limited := RateLimitMiddleware(nil, rate.Limit(1), 1)(handler)
	for i := 0; i < 3; i++ {
		if err := limited(context.Background(), channel.ChannelConfig{}, channel.InboundMessage{}); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 3 {
		t.Errorf("calls = %d, blank targets must not be limited", calls)
	}
}
