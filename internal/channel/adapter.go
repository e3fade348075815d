package channel

import (
	"context"
	"errors"
	"sync/atomic"
)

var ErrStopNotSupported = errors.New("channel connection stop not supported")

// InboundHandler processes one normalized inbound message.
type InboundHandler func(ctx context.Context, cfg ChannelConfig, msg InboundMessage) error

// Middleware wraps an InboundHandler.
type Middleware func(next InboundHandler) InboundHandler

// Adapter is the minimal contract a platform integration satisfies.
// Adapters additionally implement Sender, Receiver, or both.
type Adapter interface {
	Type() Type
}

type Sender interface {
	Send(ctx context.Context, cfg ChannelConfig, msg OutboundMessage) error
}

type Receiver interface {
	Connect(ctx context.Context, cfg ChannelConfig, handler InboundHandler) (Connection, error)
}

type Connection interface {
	ConfigID() string
	ChannelType() Type
	Stop(ctx context.Context) error
	Running() bool
}

type BaseConnection struct {
	configID    string
	channelType Type
	stop        func(ctx context.Context) error
	running     atomic.Bool
}

func NewConnection(cfg ChannelConfig, stop func(ctx context.Context) error) *BaseConnection {
	conn := &BaseConnection{
		configID:    cfg.ID,
		channelType: cfg.ChannelType,
		stop:        stop,
	}
	conn.running.Store(true)
	return conn
}

func (c *BaseConnection) ConfigID() string {
	return c.configID
}

func (c *BaseConnection) ChannelType() Type {
	return c.channelType
}

func (c *BaseConnection) Stop(ctx context.Context) error {
	if c.stop == nil {
		return ErrStopNotSupported
	}
	err := c.stop(ctx)
	if err == nil {
		c.running.Store(false)
	}
	return err
}

func (c *BaseConnection) Running() bool {
	return c.running.Load()
}
