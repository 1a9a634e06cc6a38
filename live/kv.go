package live

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trueinspo/babytimer/mailbox"
)

// ActivityKey is where a KVSurface keeps its display.
const ActivityKey = "live.activity"

// Phase is the lifecycle stage of a stored display.
type Phase string

const (
	PhaseActive Phase = "active"
	PhaseEnded  Phase = "ended"
)

// SurfaceState is the stored display. Authoritative holds what the
// application last pushed; Speculative holds a control's optimistic patch.
// Every authoritative write clears the speculative layer.
type SurfaceState struct {
	UpdatedAt     time.Time     `json:"updated_at"`
	DismissAt     *time.Time    `json:"dismiss_at,omitempty"`
	Speculative   *ContentState `json:"speculative,omitempty"`
	Attributes    Attributes    `json:"attributes"`
	Phase         Phase         `json:"phase"`
	Authoritative ContentState  `json:"authoritative"`
}

// Effective is the state a renderer should draw.
func (s *SurfaceState) Effective() ContentState {
	if s.Speculative != nil {
		return *s.Speculative
	}

	return s.Authoritative
}

// Visible reports whether the display should be drawn at now.
func (s *SurfaceState) Visible(now time.Time) bool {
	if s.Phase == PhaseActive {
		return true
	}

	return s.DismissAt != nil && now.Before(*s.DismissAt)
}

// KVSurface keeps the display in a shared key-value store, where a status
// bar renderer in another process reads it.
type KVSurface struct {
	kv  mailbox.KV
	now func() time.Time
}

// NewKVSurface returns a surface stored in kv.
func NewKVSurface(kv mailbox.KV) *KVSurface {
	return &KVSurface{kv: kv, now: time.Now}
}

func (s *KVSurface) Supported() bool {
	return s.kv != nil
}

func (s *KVSurface) Request(
	ctx context.Context,
	attrs Attributes,
	state ContentState,
) (Activity, error) {
	err := s.Save(ctx, &SurfaceState{
		Attributes:    attrs,
		Authoritative: state,
		Phase:         PhaseActive,
	})
	if err != nil {
		return nil, err
	}

	return &kvActivity{surface: s, attrs: attrs}, nil
}

// Current returns the display that is still active, if any.
func (s *KVSurface) Current(ctx context.Context) (Activity, bool, error) {
	st, err := s.Load(ctx)
	if err != nil || st == nil || st.Phase != PhaseActive {
		return nil, false, err
	}

	return &kvActivity{surface: s, attrs: st.Attributes}, true, nil
}

// Load reads the stored display. It returns nil when there is none.
func (s *KVSurface) Load(ctx context.Context) (*SurfaceState, error) {
	b, ok, err := s.kv.Get(ctx, ActivityKey)
	if err != nil || !ok {
		return nil, err
	}

	var st SurfaceState

	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decoding live display: %w", err)
	}

	return &st, nil
}

// Save writes st as the stored display.
func (s *KVSurface) Save(ctx context.Context, st *SurfaceState) error {
	st.UpdatedAt = s.now()

	b, err := json.Marshal(st)
	if err != nil {
		return err
	}

	return s.kv.Set(ctx, ActivityKey, b)
}

// Clear removes the stored display.
func (s *KVSurface) Clear(ctx context.Context) error {
	return s.kv.Remove(ctx, ActivityKey)
}

type kvActivity struct {
	surface *KVSurface
	attrs   Attributes
}

func (a *kvActivity) Attributes() Attributes {
	return a.attrs
}

func (a *kvActivity) load(ctx context.Context) (*SurfaceState, error) {
	st, err := a.surface.Load(ctx)
	if err != nil {
		return nil, err
	}

	if st == nil || st.Phase != PhaseActive ||
		st.Attributes.SessionID != a.attrs.SessionID {
		return nil, errActivityGone.Fmt(a.attrs.SessionID)
	}

	return st, nil
}

func (a *kvActivity) Update(ctx context.Context, state ContentState) error {
	st, err := a.load(ctx)
	if err != nil {
		return err
	}

	st.Authoritative = state
	st.Speculative = nil

	return a.surface.Save(ctx, st)
}

func (a *kvActivity) End(
	ctx context.Context,
	state ContentState,
	policy DismissalPolicy,
) error {
	st, err := a.load(ctx)
	if err != nil {
		return err
	}

	if policy.After <= 0 {
		return a.surface.Clear(ctx)
	}

	dismissAt := a.surface.now().Add(policy.After)

	st.Phase = PhaseEnded
	st.Authoritative = state
	st.Speculative = nil
	st.DismissAt = &dismissAt

	return a.surface.Save(ctx, st)
}
