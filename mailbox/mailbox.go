// Package mailbox implements the single-slot command channel between the live
// surface controls and the application. Controls post a command; the
// application takes it at most once.
package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trueinspo/babytimer/internal/apperr"
	"github.com/trueinspo/babytimer/internal/models"
)

// Action is a command posted by a surface control.
type Action string

const (
	ActionTogglePause Action = "toggle-live-pause"
	ActionStop        Action = "stop-live-timer"
)

// CommandKey is the key of the pending command slot.
const CommandKey = "live.pendingAction"

var ErrCorruptCommand = &apperr.Error{
	Message: "pending command could not be read and was dropped",
}

// KV is a string-keyed store visible to every process that shares it. Each
// call is atomic for its key; Take reads and removes in one step.
type KV interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Remove(ctx context.Context, key string) error
	Take(ctx context.Context, key string) ([]byte, bool, error)
}

// Command is a pending request from a surface control.
type Command struct {
	PostedAt  time.Time   `json:"posted_at"`
	Action    Action      `json:"action"`
	SessionID string      `json:"session_id,omitempty"`
	TimerKind models.Kind `json:"timer_kind,omitempty"`
}

// Valid reports whether the command names a known action.
func (c *Command) Valid() bool {
	return c.Action == ActionTogglePause || c.Action == ActionStop
}

// Mailbox wraps a KV with the command slot.
type Mailbox struct {
	kv  KV
	now func() time.Time
}

// New returns a mailbox backed by kv.
func New(kv KV) *Mailbox {
	return &Mailbox{
		kv:  kv,
		now: time.Now,
	}
}

// KV exposes the underlying store for components that keep their own keys
// next to the command slot.
func (m *Mailbox) KV() KV {
	return m.kv
}

// Post writes cmd into the slot, replacing any command not yet taken.
func (m *Mailbox) Post(ctx context.Context, cmd Command) error {
	if !cmd.Valid() {
		return fmt.Errorf("post: unknown action %q", cmd.Action)
	}

	if cmd.PostedAt.IsZero() {
		cmd.PostedAt = m.now()
	}

	b, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	return m.kv.Set(ctx, CommandKey, b)
}

// Take removes and returns the pending command. It returns nil when the slot
// is empty. A command that cannot be decoded is still removed and reported
// as ErrCorruptCommand.
func (m *Mailbox) Take(ctx context.Context) (*Command, error) {
	b, ok, err := m.kv.Take(ctx, CommandKey)
	if err != nil {
		return nil, fmt.Errorf("take command: %w", err)
	}

	if !ok {
		return nil, nil
	}

	var cmd Command

	if err := json.Unmarshal(b, &cmd); err != nil {
		return nil, ErrCorruptCommand.Wrap(err)
	}

	if !cmd.Valid() {
		return nil, ErrCorruptCommand.Wrap(fmt.Errorf("unknown action %q", cmd.Action))
	}

	return &cmd, nil
}

// Peek returns the pending command without removing it.
func (m *Mailbox) Peek(ctx context.Context) (*Command, error) {
	b, ok, err := m.kv.Get(ctx, CommandKey)
	if err != nil || !ok {
		return nil, err
	}

	var cmd Command

	if err := json.Unmarshal(b, &cmd); err != nil {
		return nil, ErrCorruptCommand.Wrap(err)
	}

	return &cmd, nil
}
