package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Manager owns the live platform connections. It wires each configured
// channel to its receiver, chains the registered middlewares in front of
// the inbound handler, and dispatches outbound sends.
type Manager struct {
	registry    *Registry
	handler     InboundHandler
	logger      *slog.Logger
	middlewares []Middleware

	mu          sync.Mutex
	configs     map[string]ChannelConfig
	connections map[string]*connectionEntry
}

type connectionEntry struct {
	config     ChannelConfig
	connection Connection
}

func NewManager(log *slog.Logger, registry *Registry, handler InboundHandler) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		registry:    registry,
		handler:     handler,
		logger:      log.With(slog.String("component", "channel")),
		middlewares: []Middleware{},
		configs:     map[string]ChannelConfig{},
		connections: map[string]*connectionEntry{},
	}
}

// Use registers inbound middlewares. Must be called before Start.
func (m *Manager) Use(mw ...Middleware) {
	m.middlewares = append(m.middlewares, mw...)
}

// AddConfig registers a channel configuration to be connected on Start.
func (m *Manager) AddConfig(cfg ChannelConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("channel config id is required")
	}
	if _, ok := m.registry.Get(cfg.ChannelType); !ok {
		return fmt.Errorf("unsupported channel type: %s", cfg.ChannelType)
	}
	m.mu.Lock()
	m.configs[cfg.ID] = cfg
	m.mu.Unlock()
	return nil
}

// Start connects every registered configuration whose adapter can receive.
// Connection failures are logged and skipped so one bad credential does not
// take the rest of the channels down.
func (m *Manager) Start(ctx context.Context) {
	m.logger.Info("manager start")
	handler := m.chainedHandler()

	m.mu.Lock()
	configs := make([]ChannelConfig, 0, len(m.configs))
	for _, cfg := range m.configs {
		configs = append(configs, cfg)
	}
	m.mu.Unlock()

	for _, cfg := range configs {
		receiver, ok := m.registry.GetReceiver(cfg.ChannelType)
		if !ok {
			m.logger.Warn("channel cannot receive", slog.String("config_id", cfg.ID), slog.String("channel", cfg.ChannelType.String()))
			continue
		}
		conn, err := receiver.Connect(ctx, cfg, handler)
		if err != nil {
			m.logger.Error("connect failed", slog.String("config_id", cfg.ID), slog.String("channel", cfg.ChannelType.String()), slog.Any("error", err))
			continue
		}
		m.mu.Lock()
		m.connections[cfg.ID] = &connectionEntry{config: cfg, connection: conn}
		m.mu.Unlock()
		m.logger.Info("channel connected", slog.String("config_id", cfg.ID), slog.String("channel", cfg.ChannelType.String()))
	}
}

// Stop shuts down all live connections.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.connections {
		if entry != nil && entry.connection != nil {
			if err := entry.connection.Stop(ctx); err != nil {
				m.logger.Warn("stop connection failed", slog.String("config_id", id), slog.Any("error", err))
			}
		}
		delete(m.connections, id)
	}
	m.logger.Info("manager stop")
}

// Send delivers an outbound message over the first configured channel of
// the given type.
func (m *Manager) Send(ctx context.Context, channelType Type, msg OutboundMessage) error {
	sender, ok := m.registry.GetSender(channelType)
	if !ok {
		return fmt.Errorf("unsupported channel type: %s", channelType)
	}
	if strings.TrimSpace(msg.Target) == "" {
		return fmt.Errorf("target is required")
	}
	if msg.Message.IsEmpty() {
		return fmt.Errorf("message is required")
	}
	cfg, err := m.configForType(channelType)
	if err != nil {
		return err
	}
	if err := sender.Send(ctx, cfg, msg); err != nil {
		m.logger.Error("send outbound failed", slog.String("channel", channelType.String()), slog.Any("error", err))
		return err
	}
	return nil
}

// Running reports whether the named configuration holds a live connection.
func (m *Manager) Running(configID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.connections[configID]
	return ok && entry.connection != nil && entry.connection.Running()
}

func (m *Manager) configForType(channelType Type) (ChannelConfig, error) {
	ct := normalizeType(channelType.String())
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cfg := range m.configs {
		if normalizeType(cfg.ChannelType.String()) == ct {
			return cfg, nil
		}
	}
	return ChannelConfig{}, fmt.Errorf("no configuration for channel type: %s", channelType)
}

func (m *Manager) chainedHandler() InboundHandler {
	handler := m.handler
	if handler == nil {
		handler = func(ctx context.Context, cfg ChannelConfig, msg InboundMessage) error {
			return fmt.Errorf("inbound handler not configured")
		}
	}
	for i := len(m.middlewares) - 1; i >= 0; i-- {
		handler = m.middlewares[i](handler)
	}
	return handler
}
