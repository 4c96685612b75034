package repository

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/guardian/internal/policy"
)

// SafetyRecorder adapts the event repository to the recorder hooks of the
// moderation pipeline and the crisis manager. Appends are best effort: a
// failed write is logged and never blocks or changes a safety decision.
type SafetyRecorder struct {
	repo SafetyEventRepo
	band policy.AgeBand
	now  func() time.Time
}

// NewSafetyRecorder creates a recorder stamping events with the active age band.
func NewSafetyRecorder(repo SafetyEventRepo, band policy.AgeBand) *SafetyRecorder {
	return &SafetyRecorder{repo: repo, band: band, now: time.Now}
}

// RecordDenial appends a denial event for one moderated direction.
func (r *SafetyRecorder) RecordDenial(ctx context.Context, direction string, result policy.ModResult) {
	e := &SafetyEvent{
		ID:         uuid.New().String(),
		Kind:       EventDenial,
		Direction:  direction,
		Categories: result.Categories.Slice(),
		Rationale:  result.Rationale,
		AgeBand:    r.band,
		CreatedAt:  r.now(),
	}
	if err := r.repo.Record(ctx, e); err != nil {
		log.Printf("safety event log: recording denial: %v", err)
	}
}

// RecordIntervention appends a crisis intervention event.
func (r *SafetyRecorder) RecordIntervention(ctx context.Context, categories policy.CategorySet) {
	e := &SafetyEvent{
		ID:         uuid.New().String(),
		Kind:       EventCrisis,
		Categories: categories.Slice(),
		AgeBand:    r.band,
		CreatedAt:  r.now(),
	}
	if err := r.repo.Record(ctx, e); err != nil {
		log.Printf("safety event log: recording intervention: %v", err)
	}
}
