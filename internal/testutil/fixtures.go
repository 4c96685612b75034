package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/guardian/internal/policy"
	"github.com/alexanderramin/guardian/internal/repository"
)

// Event options
type EventOption func(*repository.SafetyEvent)

func WithCategories(cats ...policy.SafetyCategory) EventOption {
	return func(e *repository.SafetyEvent) {
		e.Categories = cats
	}
}

func WithRationale(r string) EventOption {
	return func(e *repository.SafetyEvent) {
		e.Rationale = r
	}
}

func WithAgeBand(b policy.AgeBand) EventOption {
	return func(e *repository.SafetyEvent) {
		e.AgeBand = b
	}
}

func WithCreatedAt(t time.Time) EventOption {
	return func(e *repository.SafetyEvent) {
		e.CreatedAt = t
	}
}

// NewTestDenialEvent builds a denial event with sensible defaults.
func NewTestDenialEvent(direction string, opts ...EventOption) *repository.SafetyEvent {
	e := &repository.SafetyEvent{
		ID:         uuid.New().String(),
		Kind:       repository.EventDenial,
		Direction:  direction,
		Categories: []policy.SafetyCategory{policy.CategoryOtherSensitive},
		Rationale:  "test denial",
		AgeBand:    policy.BandUnder13,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTestCrisisEvent builds a crisis intervention event.
func NewTestCrisisEvent(opts ...EventOption) *repository.SafetyEvent {
	e := &repository.SafetyEvent{
		ID:         uuid.New().String(),
		Kind:       repository.EventCrisis,
		Categories: []policy.SafetyCategory{policy.CategorySelfHarm},
		AgeBand:    policy.BandUnder13,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
