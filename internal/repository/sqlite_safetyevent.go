package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/guardian/internal/db"
	"github.com/alexanderramin/guardian/internal/policy"
)

// SQLiteSafetyEventRepo implements SafetyEventRepo using a SQLite database.
// Record runs the event insert and the per-category count upsert in one
// transaction so the aggregate table never drifts from the event log.
type SQLiteSafetyEventRepo struct {
	db  *sql.DB
	uow db.UnitOfWork
}

// NewSQLiteSafetyEventRepo creates a new SQLiteSafetyEventRepo.
func NewSQLiteSafetyEventRepo(database *sql.DB) *SQLiteSafetyEventRepo {
	return NewSQLiteSafetyEventRepoWithUoW(database, db.NewSQLiteUnitOfWork(database))
}

// NewSQLiteSafetyEventRepoWithUoW creates a repo with a caller-supplied
// UnitOfWork. Tests use this to inject failures mid-transaction.
func NewSQLiteSafetyEventRepoWithUoW(database *sql.DB, uow db.UnitOfWork) *SQLiteSafetyEventRepo {
	return &SQLiteSafetyEventRepo{db: database, uow: uow}
}

func (r *SQLiteSafetyEventRepo) Record(ctx context.Context, e *SafetyEvent) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		query := `INSERT INTO safety_events (id, kind, direction, categories, rationale, age_band, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.ExecContext(ctx, query,
			e.ID,
			string(e.Kind),
			e.Direction,
			joinCategories(e.Categories),
			e.Rationale,
			string(e.AgeBand),
			e.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting safety event: %w", err)
		}

		if e.Kind != EventDenial {
			return nil
		}
		for _, c := range e.Categories {
			_, err := tx.ExecContext(ctx, `INSERT INTO safety_category_counts (category, denials)
				VALUES (?, 1)
				ON CONFLICT(category) DO UPDATE SET denials = denials + 1`, string(c))
			if err != nil {
				return fmt.Errorf("updating category counts: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteSafetyEventRepo) GetByID(ctx context.Context, id string) (*SafetyEvent, error) {
	query := `SELECT id, kind, direction, categories, rationale, age_band, created_at
		FROM safety_events WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanEvent(row)
}

func (r *SQLiteSafetyEventRepo) ListRecent(ctx context.Context, limit int) ([]*SafetyEvent, error) {
	query := `SELECT id, kind, direction, categories, rationale, age_band, created_at
		FROM safety_events ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent safety events: %w", err)
	}
	defer rows.Close()
	return r.scanEvents(rows)
}

func (r *SQLiteSafetyEventRepo) Stats(ctx context.Context) (*SafetyStats, error) {
	stats := &SafetyStats{DenialsByCategory: map[policy.SafetyCategory]int{}}

	query := `SELECT
		COUNT(CASE WHEN kind = 'denial' THEN 1 END),
		COUNT(CASE WHEN kind = 'crisis' THEN 1 END),
		MAX(created_at)
	FROM safety_events`
	var lastAt sql.NullString
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalDenials, &stats.TotalInterventions, &lastAt)
	if err != nil {
		return nil, fmt.Errorf("counting safety events: %w", err)
	}
	if lastAt.Valid && lastAt.String != "" {
		t, parseErr := time.Parse(time.RFC3339, lastAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing last event time: %w", parseErr)
		}
		stats.LastEventAt = &t
	}

	rows, err := r.db.QueryContext(ctx, `SELECT category, denials FROM safety_category_counts WHERE denials > 0`)
	if err != nil {
		return nil, fmt.Errorf("listing category counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var denials int
		if err := rows.Scan(&category, &denials); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		stats.DenialsByCategory[policy.SafetyCategory(category)] = denials
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category counts: %w", err)
	}

	return stats, nil
}

func (r *SQLiteSafetyEventRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM safety_events WHERE created_at < ?`,
		before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("pruning safety events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned safety events: %w", err)
	}
	return n, nil
}

// scanEvent scans a single event from a *sql.Row.
func (r *SQLiteSafetyEventRepo) scanEvent(row *sql.Row) (*SafetyEvent, error) {
	var e SafetyEvent
	var kind, categories, band, createdAtStr string

	err := row.Scan(&e.ID, &kind, &e.Direction, &categories, &e.Rationale, &band, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("safety event: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning safety event: %w", err)
	}

	return r.populateEvent(&e, kind, categories, band, createdAtStr)
}

// scanEvents scans multiple events from *sql.Rows.
func (r *SQLiteSafetyEventRepo) scanEvents(rows *sql.Rows) ([]*SafetyEvent, error) {
	var events []*SafetyEvent
	for rows.Next() {
		var e SafetyEvent
		var kind, categories, band, createdAtStr string

		err := rows.Scan(&e.ID, &kind, &e.Direction, &categories, &e.Rationale, &band, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning safety event row: %w", err)
		}

		event, parseErr := r.populateEvent(&e, kind, categories, band, createdAtStr)
		if parseErr != nil {
			return nil, parseErr
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating safety events: %w", err)
	}
	return events, nil
}

// populateEvent fills in parsed fields after scanning raw strings.
func (r *SQLiteSafetyEventRepo) populateEvent(e *SafetyEvent, kind, categories, band, createdAtStr string) (*SafetyEvent, error) {
	e.Kind = EventKind(kind)
	e.Categories = splitCategories(categories)
	e.AgeBand = policy.AgeBand(band)

	var parseErr error
	e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return e, nil
}
