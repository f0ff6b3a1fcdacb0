package ui

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level classifies a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notifier surfaces short user-facing messages. The original UI used
// toasts; the console shows them in the notification feed and the log.
type Notifier interface {
	Notify(level Level, message string)
}

// Confirmer asks the operator a yes/no question before destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// NumberPrompter collects a numeric value from the operator.
type NumberPrompter interface {
	PromptNumber(prompt string, def float64) (float64, bool)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns notifier backed by logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message at a level matching its severity.
func (n *LogNotifier) Notify(level Level, message string) {
	switch level {
	case LevelError:
		n.logger.Error("notification", zap.String("kind", string(level)), zap.String("message", message))
	case LevelWarning:
		n.logger.Warn("notification", zap.String("kind", string(level)), zap.String("message", message))
	default:
		n.logger.Info("notification", zap.String("kind", string(level)), zap.String("message", message))
	}
}

// Notification is one feed entry served to the console page.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed keeps the most recent notifications for the console UI.
type Feed struct {
	mu      sync.Mutex
	entries []Notification
	limit   int
}

// NewFeed returns a feed retaining up to limit entries.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit}
}

// Notify appends an entry, evicting the oldest past the limit.
func (f *Feed) Notify(level Level, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, Notification{Level: level, Message: message, At: time.Now()})
	if len(f.entries) > f.limit {
		f.entries = f.entries[len(f.entries)-f.limit:]
	}
}

// Recent returns a copy of the retained entries, newest last.
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	return out
}

// MultiNotifier fans a notification out to several sinks.
type MultiNotifier []Notifier

// Notify delivers to every sink in order.
func (m MultiNotifier) Notify(level Level, message string) {
	for _, n := range m {
		n.Notify(level, message)
	}
}

// AutoConfirm approves every confirmation. Used when the console is driven
// from the web UI, where the browser dialog already happened.
type AutoConfirm struct{}

// Confirm always returns true.
func (AutoConfirm) Confirm(string) bool { return true }

// AcceptDefault answers every number prompt with the suggested default.
// Web-driven commands carry explicit parameters instead of prompting.
type AcceptDefault struct{}

// PromptNumber returns the default value.
func (AcceptDefault) PromptNumber(_ string, def float64) (float64, bool) { return def, true }
