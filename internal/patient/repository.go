package patient

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nursle/platform/internal/shared/errors"
	"github.com/nursle/platform/internal/shared/metrics"
	"github.com/nursle/platform/internal/shared/types"
)

// Repository provides database operations for patients and their history
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new patient repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreatePatient stores a new patient record
func (r *Repository) CreatePatient(ctx context.Context, p *Patient) error {
	if r.pool == nil {
		return errors.Unavailable("database not available")
	}

	start := time.Now()
	defer metrics.RecordDBQuery("patient.create", time.Since(start))

	query := `
		INSERT INTO patients (id, first_name, last_name, age, gender)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.FirstName, p.LastName, p.Age, p.Gender)
	if err != nil {
		return errors.Wrap(err, "failed to create patient")
	}

	return nil
}

// GetPatient retrieves a patient by ID
func (r *Repository) GetPatient(ctx context.Context, id types.ID) (*Patient, error) {
	if r.pool == nil {
		return nil, errors.Unavailable("database not available")
	}

	query := `
		SELECT id, first_name, last_name, age, gender, created_at, updated_at
		FROM patients
		WHERE id = $1`

	var p Patient
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Age, &p.Gender, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("patient", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get patient")
	}

	return &p, nil
}

// ListPatients lists patients, newest first
func (r *Repository) ListPatients(ctx context.Context, limit, offset int) ([]Patient, int, error) {
	if r.pool == nil {
		return nil, 0, errors.Unavailable("database not available")
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count patients")
	}

	query := `
		SELECT id, first_name, last_name, age, gender, created_at, updated_at
		FROM patients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list patients")
	}
	defer rows.Close()

	patients := make([]Patient, 0, limit)
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Age, &p.Gender, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan patient")
		}
		patients = append(patients, p)
	}

	return patients, total, rows.Err()
}

// FindPatientByName finds a patient by exact name, case-insensitive. The
// legacy HIS identifies patients by name only.
func (r *Repository) FindPatientByName(ctx context.Context, firstName, lastName string) (*Patient, error) {
	if r.pool == nil {
		return nil, errors.Unavailable("database not available")
	}

	query := `
		SELECT id, first_name, last_name, age, gender, created_at, updated_at
		FROM patients
		WHERE LOWER(first_name) = LOWER($1) AND LOWER(last_name) = LOWER($2)
		ORDER BY created_at DESC
		LIMIT 1`

	var p Patient
	err := r.pool.QueryRow(ctx, query, firstName, lastName).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Age, &p.Gender, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("patient", firstName+" "+lastName)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find patient by name")
	}

	return &p, nil
}

// AddHistory stores a medical history entry for a patient
func (r *Repository) AddHistory(ctx context.Context, h *MedicalHistory) error {
	if r.pool == nil {
		return errors.Unavailable("database not available")
	}

	query := `
		INSERT INTO medical_history (id, patient_id, condition, diagnosis_date, treatment, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		h.ID, h.PatientID, h.Condition, h.DiagnosisDate, h.Treatment, h.Status, h.Source,
	)
	if err != nil {
		return errors.Wrap(err, "failed to add medical history")
	}

	return nil
}

// ListHistory lists a patient's medical history, newest diagnosis first
func (r *Repository) ListHistory(ctx context.Context, patientID types.ID) ([]MedicalHistory, error) {
	if r.pool == nil {
		return nil, errors.Unavailable("database not available")
	}

	query := `
		SELECT id, patient_id, condition, diagnosis_date, treatment, status, source, created_at
		FROM medical_history
		WHERE patient_id = $1
		ORDER BY diagnosis_date DESC`

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list medical history")
	}
	defer rows.Close()

	entries := make([]MedicalHistory, 0)
	for rows.Next() {
		var h MedicalHistory
		if err := rows.Scan(&h.ID, &h.PatientID, &h.Condition, &h.DiagnosisDate,
			&h.Treatment, &h.Status, &h.Source, &h.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan medical history")
		}
		entries = append(entries, h)
	}

	return entries, rows.Err()
}
