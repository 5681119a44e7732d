// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package console

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/caffix/queue"
	"github.com/gosuri/uilive"
	"github.com/muesli/termenv"
)

// Severity of a console message, deciding its rendering.
type Severity int

// The supported message severities.
const (
	Info    Severity = iota // plain.
	Success                 // all good.
	Warning                 // something's fishy.
	Error                   // something's broken.
)

// Message is a single line of text with a severity. Status messages are
// rendered in place of the previous status message when live updating the
// console, while other messages simply scroll by.
type Message struct {
	Severity Severity
	Text     string
	Status   bool
}

// Sink is the single serialized console output of dnsload. Messages posted
// from many goroutines are queued without blocking the posters and are
// written one after another, so lines never interleave.
type Sink struct {
	mu     sync.Mutex // serializes writing to the terminal.
	out    io.Writer
	live   *uilive.Writer
	styles map[Severity]termenv.Style

	messages queue.Queue
	appended atomic.Int64 // each Append raises exactly one queue signal.
	done     chan struct{}
	drained  chan struct{}
	stopOnce sync.Once
	closed   bool // protected by mu
}

// SinkOption can be passed to New when creating new [Sink] objects.
type SinkOption func(*sinkConfig)

type sinkConfig struct {
	profile termenv.Profile
	live    bool
}

// WithProfile sets the terminal color profile to render messages with,
// overriding the color profile detected for the output writer.
func WithProfile(p termenv.Profile) SinkOption {
	return func(c *sinkConfig) {
		c.profile = p
	}
}

// WithLiveStatus renders status messages in place, overwriting the previous
// status message, instead of letting them scroll by.
func WithLiveStatus() SinkOption {
	return func(c *sinkConfig) {
		c.live = true
	}
}

// New returns a new Sink writing to w. Unless told otherwise, the color
// profile is detected from w and its environment. The caller must Close the
// Sink after use in order to flush pending messages and to release background
// resources.
func New(w io.Writer, options ...SinkOption) *Sink {
	cfg := sinkConfig{profile: termenv.NewOutput(w).Profile}
	for _, opt := range options {
		opt(&cfg)
	}
	s := &Sink{
		out: w,
		styles: map[Severity]termenv.Style{
			Info:    cfg.profile.String(),
			Success: cfg.profile.String().Foreground(termenv.ANSIGreen),
			Warning: cfg.profile.String().Foreground(termenv.ANSIYellow),
			Error:   cfg.profile.String().Foreground(termenv.ANSIRed).Bold(),
		},
		messages: queue.NewQueue(),
		done:     make(chan struct{}),
		drained:  make(chan struct{}),
	}
	if cfg.live {
		s.live = uilive.New()
		s.live.Out = w
	}
	go s.drain()
	return s
}

// Post a message for output. Post never blocks on the terminal. After the Sink
// has been closed, messages are written synchronously.
func (s *Sink) Post(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.write(msg)
		return
	}
	s.appended.Add(1)
	s.messages.Append(msg)
}

// Infof posts an informational message.
func (s *Sink) Infof(format string, args ...interface{}) {
	s.Post(Message{Severity: Info, Text: fmt.Sprintf(format, args...)})
}

// Warnf posts a warning message.
func (s *Sink) Warnf(format string, args ...interface{}) {
	s.Post(Message{Severity: Warning, Text: fmt.Sprintf(format, args...)})
}

// Errorf posts an error message.
func (s *Sink) Errorf(format string, args ...interface{}) {
	s.Post(Message{Severity: Error, Text: fmt.Sprintf(format, args...)})
}

// Status posts a status message with the specified severity.
func (s *Sink) Status(sev Severity, text string) {
	s.Post(Message{Severity: sev, Text: text, Status: true})
}

// Close writes all pending messages and then stops the background writer.
// Close can be called multiple times.
func (s *Sink) Close() {
	s.stopOnce.Do(func() {
		// No more appends after this point, so the drainer knows how many
		// signals it still has to consume.
		s.mu.Lock()
		s.closed = true
		s.writePending()
		s.mu.Unlock()
		close(s.done)
		<-s.drained
	})
}

// drain writes the queued messages as they come in, until the Sink gets
// closed. It then consumes the signals still pending, as otherwise the queue
// would be left with goroutines blocked on sending them.
func (s *Sink) drain() {
	defer close(s.drained)
	var signalled int64
loop:
	for {
		select {
		case <-s.messages.Signal():
			signalled++
			s.mu.Lock()
			s.writePending()
			s.mu.Unlock()
		case <-s.done:
			break loop
		}
	}
	for pending := s.appended.Load() - signalled; pending > 0; pending-- {
		<-s.messages.Signal()
	}
}

// writePending writes all queued messages; the caller must hold mu.
func (s *Sink) writePending() {
	s.messages.Process(func(element interface{}) {
		if msg, ok := element.(Message); ok {
			s.write(msg)
		}
	})
}

// write a single message; the caller must hold mu.
func (s *Sink) write(msg Message) {
	style, ok := s.styles[msg.Severity]
	if !ok {
		style = s.styles[Info]
	}
	text := style.Styled(msg.Text)
	switch {
	case s.live == nil:
		fmt.Fprintln(s.out, text)
	case msg.Status:
		fmt.Fprintln(s.live, text)
		_ = s.live.Flush()
	default:
		fmt.Fprintln(s.live.Bypass(), text)
	}
}
