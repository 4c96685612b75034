package crisis

import (
	"context"
	"sync"

	"github.com/alexanderramin/guardian/internal/policy"
)

// State is the crisis intervention state. Created the first time a
// moderation result intersects the crisis categories; stays active until a
// verified-adult unlock. There is no automatic timeout.
type State struct {
	Active      bool
	TriggeredBy []policy.SafetyCategory
	Message     string
	Resources   []string
}

// Recorder receives crisis interventions for the parent-facing event log.
// Recording is best-effort and never affects the lockout.
type Recorder interface {
	RecordIntervention(ctx context.Context, categories policy.CategorySet)
}

// Stats summarizes interventions for the parent dashboard.
type Stats struct {
	TotalInterventions int
	CurrentlyLocked    bool
	LastTrigger        []policy.SafetyCategory
}

// Manager holds the only mutable crisis state and is the sole owner of
// unlock authority. It performs no PIN logic itself: the pin_verified flag
// must come from AgeGate.VerifyPIN in the same call chain, so the trust
// boundary exists exactly once.
//
// The manager only holds and reports state. Callers must check IsLocked
// before every new moderation request; nothing here intercepts I/O.
type Manager struct {
	mu       sync.Mutex
	state    *State
	count    int
	recorder Recorder // may be nil
}

// NewManager creates a Manager in the NORMAL state.
func NewManager(recorder Recorder) *Manager {
	return &Manager{recorder: recorder}
}

// Check inspects a moderation result and transitions to LOCKED if its
// categories intersect the crisis set. Returns true when a crisis was
// detected on this call. The interventions counter is monotonic: repeated
// crises while already locked still count.
func (m *Manager) Check(ctx context.Context, result policy.ModResult) bool {
	if !result.IsCrisis() {
		return false
	}

	card := policy.NewCrisisCard()

	m.mu.Lock()
	m.count++
	m.state = &State{
		Active:      true,
		TriggeredBy: result.Categories.Slice(),
		Message:     card.Message,
		Resources:   card.Resources,
	}
	recorder := m.recorder
	m.mu.Unlock()

	if recorder != nil {
		recorder.RecordIntervention(ctx, result.Categories)
	}
	return true
}

// IsLocked reports whether the system is in crisis lockout.
func (m *Manager) IsLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != nil && m.state.Active
}

// UnlockWithPIN clears the lockout when pinVerified is true. The flag must
// be the direct result of a PIN verification; passing true from anywhere
// else is a caller bug, not a path this package can detect.
func (m *Manager) UnlockWithPIN(pinVerified bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pinVerified && m.state != nil && m.state.Active {
		m.state.Active = false
		return true
	}
	return false
}

// Interventions returns the monotonic intervention count. It never resets.
func (m *Manager) Interventions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// GetStats returns intervention statistics for the parent dashboard.
func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		TotalInterventions: m.count,
		CurrentlyLocked:    m.state != nil && m.state.Active,
	}
	if m.state != nil {
		s.LastTrigger = append([]policy.SafetyCategory(nil), m.state.TriggeredBy...)
	}
	return s
}

// Card returns the fixed crisis intervention card.
func (m *Manager) Card() policy.CrisisCard {
	return policy.NewCrisisCard()
}
