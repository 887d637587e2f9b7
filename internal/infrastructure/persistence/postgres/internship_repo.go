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
// INTERNSHIP REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// InternshipRepository implements training.InternshipRepository for PostgreSQL.
type InternshipRepository struct {
	conn *Connection
}

// NewInternshipRepository creates a new InternshipRepository.
func NewInternshipRepository(conn *Connection) *InternshipRepository {
	return &InternshipRepository{conn: conn}
}

const internshipColumns = `
	id, module_id, specialization_id, name, institution, department,
	start_date, end_date, planned_days, is_completed, created_at, updated_at
`

// Create creates an internship.
func (r *InternshipRepository) Create(ctx context.Context, i *training.Internship) error {
	query := `
		INSERT INTO internships (` + internshipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.conn.Exec(ctx, query,
		i.ID,
		i.ModuleID,
		i.SpecializationID,
		i.Name,
		i.Institution,
		i.Department,
		i.StartDate,
		i.EndDate,
		i.PlannedDays,
		i.IsCompleted,
		i.CreatedAt,
		i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create internship: %w", err)
	}

	return nil
}

// GetByID returns an internship by ID.
func (r *InternshipRepository) GetByID(ctx context.Context, id string) (*training.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanInternship(row)
}

// GetByModule returns internships of a module in start order.
func (r *InternshipRepository) GetByModule(ctx context.Context, moduleID string) ([]*training.Internship, error) {
	query := `
		SELECT ` + internshipColumns + `
		FROM internships
		WHERE module_id = $1
		ORDER BY start_date
	`

	rows, err := r.conn.Query(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query internships: %w", err)
	}
	defer rows.Close()

	var result []*training.Internship
	for rows.Next() {
		i, err := r.scanInternship(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, i)
	}
	return result, rows.Err()
}

// Update updates an internship.
func (r *InternshipRepository) Update(ctx context.Context, i *training.Internship) error {
	query := `
		UPDATE internships SET
			name = $1,
			institution = $2,
			department = $3,
			start_date = $4,
			end_date = $5,
			planned_days = $6,
			is_completed = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.conn.Exec(ctx, query,
		i.Name,
		i.Institution,
		i.Department,
		i.StartDate,
		i.EndDate,
		i.PlannedDays,
		i.IsCompleted,
		time.Now().UTC(),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update internship: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrInternshipNotFound
	}

	return nil
}

// Delete deletes an internship and, via cascade, its shifts and procedures.
func (r *InternshipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM internships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete internship: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrInternshipNotFound
	}

	return nil
}

func (r *InternshipRepository) scanInternship(row pgx.Row) (*training.Internship, error) {
	var i training.Internship

	err := row.Scan(
		&i.ID,
		&i.ModuleID,
		&i.SpecializationID,
		&i.Name,
		&i.Institution,
		&i.Department,
		&i.StartDate,
		&i.EndDate,
		&i.PlannedDays,
		&i.IsCompleted,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrInternshipNotFound
		}
		return nil, fmt.Errorf("failed to scan internship: %w", err)
	}

	return &i, nil
}
