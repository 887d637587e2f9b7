// Package postgres implements PostgreSQL persistence layer for the
// residency training hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MEDICAL SHIFT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ShiftRepository implements training.ShiftRepository for PostgreSQL.
type ShiftRepository struct {
	conn *Connection
}

// NewShiftRepository creates a new ShiftRepository.
func NewShiftRepository(conn *Connection) *ShiftRepository {
	return &ShiftRepository{conn: conn}
}

const shiftColumns = `
	id, internship_id, shift_date, duration_hours, duration_minutes,
	location, sync_status, created_at, updated_at
`

// Create creates a medical shift.
func (r *ShiftRepository) Create(ctx context.Context, s *training.MedicalShift) error {
	query := `
		INSERT INTO medical_shifts (` + shiftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.InternshipID,
		s.Date,
		s.Duration.Hours,
		s.Duration.Minutes,
		s.Location,
		string(s.SyncStatus),
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical shift: %w", err)
	}

	return nil
}

// GetByID returns a medical shift by ID.
func (r *ShiftRepository) GetByID(ctx context.Context, id string) (*training.MedicalShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM medical_shifts WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanShift(row)
}

// GetByInternship returns shifts of an internship in date order.
func (r *ShiftRepository) GetByInternship(ctx context.Context, internshipID string) ([]*training.MedicalShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM medical_shifts
		WHERE internship_id = $1
		ORDER BY shift_date
	`

	rows, err := r.conn.Query(ctx, query, internshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to query medical shifts: %w", err)
	}
	defer rows.Close()

	return r.collectShifts(rows)
}

// GetByInternshipAndRange returns shifts of an internship whose start time
// falls within [from, to].
func (r *ShiftRepository) GetByInternshipAndRange(ctx context.Context, internshipID string, from, to time.Time) ([]*training.MedicalShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM medical_shifts
		WHERE internship_id = $1 AND shift_date >= $2 AND shift_date <= $3
		ORDER BY shift_date
	`

	rows, err := r.conn.Query(ctx, query, internshipID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query medical shifts: %w", err)
	}
	defer rows.Close()

	return r.collectShifts(rows)
}

// Update updates a medical shift.
func (r *ShiftRepository) Update(ctx context.Context, s *training.MedicalShift) error {
	query := `
		UPDATE medical_shifts SET
			shift_date = $1,
			duration_hours = $2,
			duration_minutes = $3,
			location = $4,
			sync_status = $5,
			updated_at = $6
		WHERE id = $7
	`

	result, err := r.conn.Exec(ctx, query,
		s.Date,
		s.Duration.Hours,
		s.Duration.Minutes,
		s.Location,
		string(s.SyncStatus),
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical shift: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrShiftNotFound
	}

	return nil
}

// Delete deletes a medical shift.
func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM medical_shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medical shift: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrShiftNotFound
	}

	return nil
}

func (r *ShiftRepository) collectShifts(rows pgx.Rows) ([]*training.MedicalShift, error) {
	var result []*training.MedicalShift
	for rows.Next() {
		s, err := r.scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *ShiftRepository) scanShift(row pgx.Row) (*training.MedicalShift, error) {
	var s training.MedicalShift
	var syncStatus string

	err := row.Scan(
		&s.ID,
		&s.InternshipID,
		&s.Date,
		&s.Duration.Hours,
		&s.Duration.Minutes,
		&s.Location,
		&syncStatus,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to scan medical shift: %w", err)
	}

	s.SyncStatus = shared.SyncStatus(syncStatus)
	return &s, nil
}
