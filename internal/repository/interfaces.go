package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/guardian/internal/policy"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// EventKind distinguishes the two recorded event types.
type EventKind string

const (
	EventDenial EventKind = "denial"
	EventCrisis EventKind = "crisis"
)

// SafetyEvent is one appended entry in the parent-facing safety log. It
// never carries the moderated text itself, only the decision metadata.
type SafetyEvent struct {
	ID         string
	Kind       EventKind
	Direction  string // "input" or "output" for denials, empty for crisis
	Categories []policy.SafetyCategory
	Rationale  string
	AgeBand    policy.AgeBand
	CreatedAt  time.Time
}

// SafetyStats is the aggregate view backing the parent dashboard.
type SafetyStats struct {
	TotalDenials       int
	TotalInterventions int
	DenialsByCategory  map[policy.SafetyCategory]int
	LastEventAt        *time.Time
}

type SafetyEventRepo interface {
	Record(ctx context.Context, e *SafetyEvent) error
	GetByID(ctx context.Context, id string) (*SafetyEvent, error)
	ListRecent(ctx context.Context, limit int) ([]*SafetyEvent, error)
	Stats(ctx context.Context) (*SafetyStats, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
