// Package notify is the passive, user-facing notification channel. Managers
// push warnings here (for example when the cart could not be saved) without
// interrupting the caller.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type Notification struct {
	Level   Level
	Source  string
	Message string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Warn is a shorthand for a warning notification.
func Warn(ctx context.Context, n Notifier, source, msg string) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notification{Level: LevelWarn, Source: source, Message: msg})
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	lvl := slog.LevelInfo
	switch n.Level {
	case LevelWarn:
		lvl = slog.LevelWarn
	case LevelError:
		lvl = slog.LevelError
	}
	l.log.Log(ctx, lvl, n.Message, slog.String("source", n.Source), slog.String("channel", "notification"))
}

// Recorder keeps every notification in memory, in arrival order.
type Recorder struct {
	mu   sync.Mutex
	list []Notification
}

func (r *Recorder) Notify(ctx context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

// Drain returns the recorded notifications and resets the recorder.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.list
	r.list = nil
	return out
}

// Fanout delivers each notification to every wrapped notifier.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) {
	for _, x := range f {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}
