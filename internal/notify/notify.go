// Package notify delivers user-visible notifications produced by gitplus
// actions.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/daichongdev/gitplus/internal/log"
	"github.com/daichongdev/gitplus/internal/models"
	"github.com/fatih/color"
)

// Sink receives notifications. Implementations must not block for long;
// callers do not inspect any result.
type Sink interface {
	Notify(title, message string, severity models.Severity)
}

// Func adapts a function to Sink.
type Func func(title, message string, severity models.Severity)

// Notify calls f.
func (f Func) Notify(title, message string, severity models.Severity) {
	f(title, message, severity)
}

// Console writes notifications to a terminal, colouring errors red and
// informational messages green.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	errw    io.Writer
	info    *color.Color
	failure *color.Color
}

// NewConsole returns a Console writing info to out and errors to errw.
// Colour follows fatih/color's terminal detection unless noColor is set.
func NewConsole(out, errw io.Writer, noColor bool) *Console {
	info := color.New(color.FgGreen)
	failure := color.New(color.FgRed, color.Bold)
	if noColor {
		info.DisableColor()
		failure.DisableColor()
	}
	return &Console{out: out, errw: errw, info: info, failure: failure}
}

// Notify prints one line per notification.
func (c *Console) Notify(title, message string, severity models.Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := message
	if title != "" && title != message {
		text = fmt.Sprintf("%s: %s", title, message)
	}

	if severity == models.SeverityError {
		_, _ = c.failure.Fprintln(c.errw, text)
		return
	}
	_, _ = c.info.Fprintln(c.out, text)
}

// Channel forwards notifications onto a buffered channel so the goroutine
// that owns presentation can render them.
type Channel struct {
	ch chan models.Notification
}

// NewChannel returns a Channel with the given buffer size.
func NewChannel(size int) *Channel {
	return &Channel{ch: make(chan models.Notification, size)}
}

// Notify enqueues the notification, dropping it when the buffer is full.
// Workers must never block on a reader that has gone away, since they hold
// the repository lock while reporting. Dropped notes are kept in the debug
// log.
func (c *Channel) Notify(title, message string, severity models.Severity) {
	select {
	case c.ch <- models.Notification{Title: title, Message: message, Severity: severity}:
	default:
		log.Debug().Str("severity", string(severity)).Str("title", title).Msg("notify: dropped " + message)
	}
}

// C returns the receive side of the channel.
func (c *Channel) C() <-chan models.Notification {
	return c.ch
}

// Recorder keeps notifications until they are replayed, so output from
// concurrent actions can be printed in a fixed order.
type Recorder struct {
	mu    sync.Mutex
	notes []models.Notification
}

// Notify records the notification.
func (r *Recorder) Notify(title, message string, severity models.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, models.Notification{Title: title, Message: message, Severity: severity})
}

// Replay sends the recorded notifications to sink in arrival order and
// returns how many there were.
func (r *Recorder) Replay(sink Sink) int {
	r.mu.Lock()
	notes := append([]models.Notification(nil), r.notes...)
	r.mu.Unlock()
	for _, n := range notes {
		sink.Notify(n.Title, n.Message, n.Severity)
	}
	return len(notes)
}
