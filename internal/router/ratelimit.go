package router

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/chatlinkhq/chatlink/internal/channel"
)

// RateLimitMiddleware drops inbound messages from chats that exceed the
// per-chat rate. Limiters are kept per reply target; a dropped message is
// not an error, the chat simply gets no reply.
func RateLimitMiddleware(log *slog.Logger, limit rate.Limit, burst int) channel.Middleware {
	if log == nil {
		log = slog.Default()
	}
	var mu sync.Mutex
	limiters := map[string]*rate.Limiter{}

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(limit, burst)
			limiters[key] = limiter
		}
		return limiter
	}

	return func(next channel.InboundHandler) channel.InboundHandler {
		return func(ctx context.Context, cfg channel.ChannelConfig, msg channel.InboundMessage) error {
			key := strings.TrimSpace(msg.ReplyTarget)
			if key == "" {
				return next(ctx, cfg, msg)
			}
			if !limiterFor(key).Allow() {
				log.Warn("inbound rate limited",
					slog.String("channel", msg.Channel.String()),
					slog.String("chat_id", key))
				return nil
			}
			return next(ctx, cfg, msg)
		}
	}
}
