package notifications

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

// Notification is a transient message for the shopper.
type Notification struct {
	Level   enums.NotificationLevel
	Message string
	At      time.Time
}

// Notifier publishes shopper-facing messages.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success publishes a success message.
func Success(ctx context.Context, n Notifier, message string) {
	publish(ctx, n, enums.NotificationLevelSuccess, message)
}

// Info publishes an informational message.
func Info(ctx context.Context, n Notifier, message string) {
	publish(ctx, n, enums.NotificationLevelInfo, message)
}

// Failure publishes the shopper-facing text of err. Nil errors are ignored.
func Failure(ctx context.Context, n Notifier, err error) {
	if err == nil {
		return
	}
	publish(ctx, n, enums.NotificationLevelError, pkgerrors.UserMessage(err))
}

func publish(ctx context.Context, n Notifier, level enums.NotificationLevel, message string) {
	if n == nil || strings.TrimSpace(message) == "" {
		return
	}
	n.Notify(ctx, Notification{Level: level, Message: message, At: time.Now().UTC()})
}

type logNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier writes notifications to the structured log.
func NewLogNotifier(logg *logger.Logger) (Notifier, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &logNotifier{logg: logg}, nil
}

func (l *logNotifier) Notify(ctx context.Context, n Notification) {
	ctx = l.logg.WithField(ctx, "notification_level", string(n.Level))
	if n.Level == enums.NotificationLevelError {
		l.logg.Warn(ctx, n.Message)
		return
	}
	l.logg.Info(ctx, n.Message)
}

type consoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier prints one line per notification, prefixed by its level.
func NewConsoleNotifier(out io.Writer) Notifier {
	return &consoleNotifier{out: out}
}

func (c *consoleNotifier) Notify(_ context.Context, n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, "[%s] %s\n", strings.ToUpper(string(n.Level)), n.Message)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Fanout delivers to every notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) {
	for _, target := range f {
		if target != nil {
			target.Notify(ctx, n)
		}
	}
}
