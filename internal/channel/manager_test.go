package channel

import (
	"context"
	"errors"
	"testing"
)

func newTestManager(t *testing.T, handler InboundHandler) (*Manager, *fakeAdapter) {
	t.Helper()
	adapter := &fakeAdapter{channelType: "telegram"}
	registry := NewRegistry()
	registry.MustRegister(adapter)
	return NewManager(nil, registry, handler), adapter
}

func TestManagerAddConfig(t *testing.T) {
	m, _ := newTestManager(t, nil)

	cfg := ChannelConfig{ID: "tg-main", ChannelType: "telegram"}
	if err := m.AddConfig(cfg); err != nil {
		t.Fatalf("AddConfig() error = %v", err)
	}
	if err := m.AddConfig(ChannelConfig{ID: "x", ChannelType: "discord"}); err == nil {
		t.Error("unregistered channel type should fail")
	}
	if err := m.AddConfig(ChannelConfig{ChannelType: "telegram"}); err == nil {
		t.Error("missing config id should fail")
	}
}

func TestManagerStartStop(t *testing.T) {
	m, _ := newTestManager(t, nil)
	if err := m.AddConfig(ChannelConfig{ID: "tg-main", ChannelType: "telegram"}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	m.Start(ctx)
	if !m.Running("tg-main") {
		t.Error("connection should be running after Start")
	}
	m.Stop(ctx)
	if m.Running("tg-main") {
		t.Error("connection should be stopped after Stop")
	}
}

func TestManagerStartSkipsFailedConnect(t *testing.T) {
	adapter := &fakeAdapter{channelType: "telegram", connectErr: errors.New("bad token")}
	registry := NewRegistry()
	registry.MustRegister(adapter)
	m := NewManager(nil, registry, nil)
	if err := m.AddConfig(ChannelConfig{ID: "tg-main", ChannelType: "telegram"}); err != nil {
		t.Fatal(err)
	}

	m.Start(context.Background())
	if m.Running("tg-main") {
		t.Error("failed connect must not register a connection")
	}
}

func TestManagerSend(t *testing.T) {
	m, adapter := newTestManager(t, nil)
	if err := m.AddConfig(ChannelConfig{ID: "tg-main", ChannelType: "telegram"}); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	msg := OutboundMessage{Target: "42", Message: Message{Text: "hello"}}
	if err := m.Send(ctx, "telegram", msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(adapter.sent) != 1 || adapter.sent[0].Target != "42" {
		t.Errorf("sent = %+v", adapter.sent)
	}

	if err := m.Send(ctx, "discord", msg); err == nil {
		t.Error("unsupported channel should fail")
	}
	if err := m.Send(ctx, "telegram", OutboundMessage{Message: Message{Text: "x"}}); err == nil {
		t.Error("missing target should fail")
	}
	if err := m.Send(ctx, "telegram", OutboundMessage{Target: "42"}); err == nil {
		t.Error("empty message should fail")
	}
}

func TestManagerMiddlewareOrder(t *testing.T) {
	var order []string
	handler := func(ctx context.Context, cfg ChannelConfig, msg InboundMessage) error {
		order = append(order, "handler")
		return nil
	}
	m, _ := newTestManager(t, handler)
	m.Use(func(next InboundHandler) InboundHandler {
		return func(ctx context.Context, cfg ChannelConfig, msg InboundMessage) error {
			order = append(order, "first")
			return next(ctx, cfg, msg)
		}
	})
	m.Use(func(next InboundHandler) InboundHandler {
		return func(ctx context.Context, cfg ChannelConfig, msg InboundMessage) error {
			order = append(order, "second")
			return next(ctx, cfg, msg)
		}
	})

	chained := m.chainedHandler()
	if err := chained(context.Background(), ChannelConfig{}, InboundMessage{}); err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
