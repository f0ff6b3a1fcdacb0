package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"gridconsole/internal/config"
	"gridconsole/internal/livechannel"
	"gridconsole/internal/models"
	"gridconsole/internal/session"
	"gridconsole/internal/ui"
	"gridconsole/internal/views"
)

type stubFirewallAPI struct {
	status      models.FirewallStatus
	statusCalls atomic.Int64
	listCalls   atomic.Int64
}

func (s *stubFirewallAPI) ListRules(context.Context) ([]models.FirewallRule, error) {
	s.listCalls.Add(1)
	return nil, nil
}

func (s *stubFirewallAPI) CreateRule(context.Context, models.FirewallRule) error { return nil }

func (s *stubFirewallAPI) UpdateRule(context.Context, string, models.FirewallRule) error {
	return nil
}

func (s *stubFirewallAPI) DeleteRule(context.Context, string) error { return nil }

func (s *stubFirewallAPI) Status(context.Context) (models.FirewallStatus, error) {
	s.statusCalls.Add(1)
	return s.status, nil
}

func (s *stubFirewallAPI) SetIPS(context.Context, bool) error { return nil }

func (s *stubFirewallAPI) Login(context.Context, string, string) (models.LoginResult, error) {
	return models.LoginResult{}, nil
}

func (s *stubFirewallAPI) Logout(context.Context) error { return nil }

type stubScadaAPI struct {
	statusCalls atomic.Int64
}

func (s *stubScadaAPI) Status(context.Context) (models.ScadaStatus, error) {
	s.statusCalls.Add(1)
	return models.ScadaStatus{}, nil
}

func (s *stubScadaAPI) Devices(context.Context) ([]models.Device, error) { return nil, nil }

func (s *stubScadaAPI) Device(context.Context, string) (models.Device, error) {
	return models.Device{}, nil
}

func (s *stubScadaAPI) Command(context.Context, models.CommandRequest) (models.CommandResult, error) {
	return models.CommandResult{}, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	levels   []ui.Level
	messages []string
}

func (n *recordingNotifier) Notify(level ui.Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func (n *recordingNotifier) find(message string) (ui.Level, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, msg := range n.messages {
		if msg == message {
			return n.levels[i], true
		}
	}
	return "", false
}

type scriptedConn struct {
	messages chan []byte
	closed   chan struct{}
	once     sync.Once
}

func (c *scriptedConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-c.messages:
		return 1, msg, nil
	case <-c.closed:
		return 0, nil, errors.New("connection closed")
	}
}

func (c *scriptedConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

type scriptedDialer struct {
	conn *scriptedConn
}

func (d *scriptedDialer) DialContext(context.Context, string) (livechannel.Conn, error) {
	return d.conn, nil
}

// Compromise pushes are the trainee's win condition, so they surface as
// success toasts, open the access gates and reload the affected panels.
func TestCompromiseEventsNotifySuccessAndOpenGates(t *testing.T) {
	firewallAPI := &stubFirewallAPI{status: models.FirewallStatus{Compromised: true}}
	scadaAPI := &stubScadaAPI{}
	access := session.NewAccessState()
	notes := &recordingNotifier{}
	logger := zap.NewNop()

	firewall := views.NewFirewallView(firewallAPI, access, notes, ui.AutoConfirm{}, logger, nil)
	devices := views.NewDeviceView(scadaAPI, access, notes, ui.AcceptDefault{}, nil, logger, nil)

	conn := &scriptedConn{messages: make(chan []byte, 2), closed: make(chan struct{})}
	conn.messages <- []byte(`{"type":"firewall_compromised"}`)
	conn.messages <- []byte(`{"type":"scada_compromised"}`)

	channel := livechannel.NewClient("ws://backend/ws", &scriptedDialer{conn: conn}, 5*time.Millisecond, logger, nil)
	registerPushHandlers(channel, &config.Config{}, firewall, devices, access, notes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- channel.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return notes.count() >= 2 })
	cancel()
	<-done

	if level, ok := notes.find("Firewall compromised! Access granted."); !ok || level != ui.LevelSuccess {
		t.Fatalf("expected a success toast for the firewall compromise, got %q (found=%v)", level, ok)
	}
	if level, ok := notes.find("SCADA system compromised!"); !ok || level != ui.LevelSuccess {
		t.Fatalf("expected a success toast for the SCADA compromise, got %q (found=%v)", level, ok)
	}

	flags := access.Snapshot()
	if !flags.FirewallCompromised || !flags.ScadaAccessGranted {
		t.Fatalf("expected compromise pushes to open the access gates, got %+v", flags)
	}
	if firewallAPI.statusCalls.Load() == 0 || scadaAPI.statusCalls.Load() == 0 {
		t.Fatalf("expected compromise pushes to reload both statuses")
	}
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
