// Package share implements the copy-share-link control: a trigger copies the
// current value of a text source to the clipboard and a status display shows
// a transient confirmation or a persistent failure hint.
package share

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"tripshare/internal/clipboard"
	"tripshare/internal/config"
	"tripshare/internal/logging"
)

// Control binds a trigger, a text source and an optional status display
type Control struct {
	writer    clipboard.Writer
	source    TextSource
	display   StatusDisplay
	scheduler Scheduler
	log       logrus.FieldLogger
	ctx       context.Context

	// displayMu orders display updates and is taken before mu. The display
	// is only called with displayMu held, never mu.
	displayMu sync.Mutex
	mu        sync.Mutex
	status    *Status
	pending   Timer

	inflight sync.WaitGroup
	copying  atomic.Int32
	bound    bool
}

// Option configures a Control
type Option func(*Control)

// WithPolicy replaces the default outcome policy
func WithPolicy(p Policy) Option {
	return func(c *Control) { c.status = NewStatus(p) }
}

// WithScheduler replaces the timer source used to clear messages
func WithScheduler(s Scheduler) Option {
	return func(c *Control) { c.scheduler = s }
}

// WithLogger sets the logger used for failed writes
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Control) { c.log = l }
}

// WithContext sets the context passed to clipboard writes started by the
// trigger
func WithContext(ctx context.Context) Option {
	return func(c *Control) { c.ctx = ctx }
}

// New creates a control and binds it to el.Trigger. When the trigger or the
// source is missing the control stays inert: nothing is bound and Activate
// does nothing.
func New(el Elements, w clipboard.Writer, opts ...Option) *Control {
	c := &Control{
		writer:    w,
		source:    el.Source,
		display:   el.Status,
		scheduler: SystemScheduler,
		log:       logging.Discard(),
		ctx:       context.Background(),
		status:    NewStatus(DefaultPolicy(MessagesFor(config.DefaultLocale), config.StatusClearDelay)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if el.Trigger == nil || el.Source == nil || w == nil {
		return c
	}

	c.bound = true
	el.Trigger.OnActivate(func() {
		c.inflight.Add(1)
		go func() {
			defer c.inflight.Done()
			c.Activate(c.ctx)
		}()
	})
	return c
}

// Bound reports whether the control is wired to its trigger
func (c *Control) Bound() bool { return c.bound }

// Activate copies the source's current value and reports the outcome on the
// status display. Failures end here; nothing is returned.
func (c *Control) Activate(ctx context.Context) {
	if !c.bound {
		return
	}

	c.copying.Add(1)
	text := c.source.Value()
	outcome := OutcomeSuccess
	if err := c.writer.WriteText(ctx, text); err != nil {
		outcome = OutcomeFailure
		c.log.WithError(err).Debug("share link copy failed")
	}
	c.copying.Add(-1)

	c.report(outcome)
}

// Copying reports how many clipboard writes are still running
func (c *Control) Copying() int {
	return int(c.copying.Load())
}

// Wait blocks until every activation started by the trigger has finished
func (c *Control) Wait() {
	c.inflight.Wait()
}

// State returns the current status state
func (c *Control) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.State()
}

// Close cancels a pending clear
func (c *Control) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Control) report(o Outcome) {
	c.displayMu.Lock()
	defer c.displayMu.Unlock()

	c.mu.Lock()
	// A newer outcome supersedes any clear still pending
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}

	text, clearAfter, gen := c.status.Apply(o)
	if clearAfter > 0 {
		c.pending = c.scheduler.AfterFunc(clearAfter, func() { c.clear(gen) })
	}
	c.mu.Unlock()

	if c.display != nil {
		c.display.SetText(text)
	}
}

func (c *Control) clear(gen uint64) {
	c.displayMu.Lock()
	defer c.displayMu.Unlock()

	c.mu.Lock()
	// Stop can lose the race with a timer that already fired
	if !c.status.Clear(gen) {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()

	if c.display != nil {
		c.display.SetText("")
	}
}
