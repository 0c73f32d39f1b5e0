package triage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nursle/platform/internal/shared/errors"
	"github.com/nursle/platform/internal/shared/metrics"
)

// Repository provides database operations for triage records
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new triage repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Available reports whether the backing database is configured. Engine
// endpoints keep serving without it; persistence and analytics do not.
func (r *Repository) Available() bool {
	return r != nil && r.pool != nil
}

// CreateRecord stores a triage record
func (r *Repository) CreateRecord(ctx context.Context, rec *Record) error {
	if !r.Available() {
		return errors.Unavailable("database not available")
	}

	start := time.Now()
	defer metrics.RecordDBQuery("triage.create_record", time.Since(start))

	query := `
		INSERT INTO triage_records (
			id, patient_id, nurse_id, kind, symptoms,
			priority, top_condition, confidence, predicted_outcome
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.PatientID, rec.NurseID, rec.Kind, rec.Symptoms,
		rec.Priority, rec.TopCondition, rec.Confidence, rec.PredictedOutcome,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create triage record")
	}

	return nil
}

// Stats aggregates the trailing seven days of triage records
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	if !r.Available() {
		return nil, errors.Unavailable("database not available")
	}

	start := time.Now()
	defer metrics.RecordDBQuery("triage.stats", time.Since(start))

	stats := &Stats{
		ByPriority: make(map[string]int),
		Daily:      make([]DailyCount, 0, 7),
	}

	summary := `
		SELECT COUNT(*), COALESCE(AVG(confidence), 0)
		FROM triage_records
		WHERE created_at >= NOW() - INTERVAL '7 days'`
	if err := r.pool.QueryRow(ctx, summary).Scan(&stats.TotalLast7Days, &stats.AverageConfidence); err != nil {
		return nil, errors.Wrap(err, "failed to aggregate triage records")
	}

	byPriority := `
		SELECT priority, COUNT(*)
		FROM triage_records
		WHERE created_at >= NOW() - INTERVAL '7 days'
		GROUP BY priority`
	rows, err := r.pool.Query(ctx, byPriority)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate by priority")
	}
	defer rows.Close()

	for rows.Next() {
		var priority string
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan priority count")
		}
		stats.ByPriority[priority] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read priority counts")
	}

	daily := `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM triage_records
		WHERE created_at >= NOW() - INTERVAL '7 days'
		GROUP BY day
		ORDER BY day`
	dayRows, err := r.pool.Query(ctx, daily)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate daily counts")
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var dc DailyCount
		if err := dayRows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan daily count")
		}
		stats.Daily = append(stats.Daily, dc)
	}

	return stats, dayRows.Err()
}
