// Package conversation keeps the chat transcript and drives the
// send / await / settle cycle against the inference service.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/lulu/internal/client/client"
	"github.com/dmitrijs2005/lulu/internal/client/models"
	"github.com/dmitrijs2005/lulu/internal/logging"
)

// State of the request cycle.
type State int

const (
	Idle State = iota
	Awaiting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Awaiting:
		return "awaiting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome reports how a Send settled.
type Outcome int

const (
	// OutcomeNone: the send was refused and no request was issued.
	OutcomeNone Outcome = iota
	// OutcomeReplied: an assistant turn was appended.
	OutcomeReplied
	// OutcomeFailed: a system-error turn was appended and the error slate set.
	OutcomeFailed
	// OutcomeDiscarded: the conversation was reset while awaiting; nothing changed.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeReplied:
		return "replied"
	case OutcomeFailed:
		return "failed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MsgResponseFailed is the text of the system-error turn.
const MsgResponseFailed = "Failed to get response. Please try again."

const errSlatePrefix = "Failed to send message: "

var (
	ErrBusy         = errors.New("a message is already awaiting a reply")
	ErrEmptyMessage = errors.New("message is empty")
)

type Snapshot struct {
	State      State
	Transcript []models.Turn
	Pending    string
	Err        string
	Epoch      uint64
}

type Controller struct {
	inference client.InferenceClient
	logger    logging.Logger

	mu         sync.Mutex
	state      State
	transcript []models.Turn
	pending    string
	errMsg     string
	epoch      uint64

	onChange func(Snapshot)
}

type Option func(*Controller)

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithOnChange registers fn to be called, outside the lock, after every
// state mutation.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(inference client.InferenceClient, opts ...Option) *Controller {
	c := &Controller{inference: inference, logger: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("module", "conversation")
	return c
}

// Compose replaces the pending input.
func (c *Controller) Compose(text string) {
	c.mu.Lock()
	c.pending = text
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// Send submits the pending input and blocks until the reply settles.
//
// While it blocks other goroutines may Compose, read, or Reset. A Reset
// during the wait makes the reply stale: it is dropped and Send returns
// OutcomeDiscarded.
func (c *Controller) Send(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.state == Awaiting {
		c.mu.Unlock()
		return OutcomeNone, ErrBusy
	}
	text := strings.TrimSpace(c.pending)
	if text == "" {
		c.mu.Unlock()
		return OutcomeNone, ErrEmptyMessage
	}

	c.pending = ""
	c.transcript = append(c.transcript, models.Turn{Role: models.RoleUser, Text: text})
	c.state = Awaiting
	c.errMsg = ""
	epoch := c.epoch
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	reply, err := c.inference.Invoke(ctx, text)

	c.mu.Lock()
	var outcome Outcome
	switch {
	case c.epoch != epoch:
		c.mu.Unlock()
		c.logger.Debug(ctx, "discarding stale reply", "sent_epoch", epoch, "error", err)
		return OutcomeDiscarded, nil
	case err != nil:
		c.transcript = append(c.transcript, models.Turn{Role: models.RoleSystemError, Text: MsgResponseFailed})
		c.errMsg = errSlatePrefix + err.Error()
		c.state = Idle
		outcome = OutcomeFailed
		c.logger.Warn(ctx, "send failed", "error", err)
	default:
		c.transcript = append(c.transcript, models.Turn{Role: models.RoleAssistant, Text: reply})
		c.state = Idle
		outcome = OutcomeReplied
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	if err != nil {
		return outcome, fmt.Errorf("invoke: %w", err)
	}
	return outcome, nil
}

// Reset empties the conversation and invalidates any reply still in flight.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.transcript = nil
	c.pending = ""
	c.errMsg = ""
	c.state = Idle
	c.epoch++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug(context.Background(), "conversation reset", "epoch", snap.Epoch)
	c.notify(snap)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript returns a copy of the turns in insertion order.
func (c *Controller) Transcript() []models.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Turn(nil), c.transcript...)
}

func (c *Controller) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *Controller) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:      c.state,
		Transcript: append([]models.Turn(nil), c.transcript...),
		Pending:    c.pending,
		Err:        c.errMsg,
		Epoch:      c.epoch,
	}
}

func (c *Controller) notify(s Snapshot) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
