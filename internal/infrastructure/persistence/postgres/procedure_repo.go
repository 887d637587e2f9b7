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
// PROCEDURE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProcedureRepository implements training.ProcedureRepository for PostgreSQL.
type ProcedureRepository struct {
	conn *Connection
}

// NewProcedureRepository creates a new ProcedureRepository.
func NewProcedureRepository(conn *Connection) *ProcedureRepository {
	return &ProcedureRepository{conn: conn}
}

const procedureColumns = `
	id, internship_id, module_id, procedure_date, code, role, status,
	smk_version, performing_person, supervisor, training_year,
	requirement_id, location, patient_initials, sync_status,
	created_at, updated_at
`

// Create creates a procedure record.
func (r *ProcedureRepository) Create(ctx context.Context, p *training.Procedure) error {
	query := `
		INSERT INTO procedures (` + procedureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID,
		p.InternshipID,
		p.ModuleID,
		p.Date,
		p.Code,
		string(p.Role),
		string(p.Status),
		string(p.SmkVersion),
		p.PerformingPerson,
		p.Supervisor,
		int(p.TrainingYear),
		p.RequirementID,
		p.Location,
		p.PatientInitials,
		string(p.SyncStatus),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create procedure: %w", err)
	}

	return nil
}

// GetByID returns a procedure by ID.
func (r *ProcedureRepository) GetByID(ctx context.Context, id string) (*training.Procedure, error) {
	query := `SELECT ` + procedureColumns + ` FROM procedures WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanProcedure(row)
}

// GetByInternship returns procedures of an internship in date order.
func (r *ProcedureRepository) GetByInternship(ctx context.Context, internshipID string) ([]*training.Procedure, error) {
	query := `
		SELECT ` + procedureColumns + `
		FROM procedures
		WHERE internship_id = $1
		ORDER BY procedure_date
	`

	rows, err := r.conn.Query(ctx, query, internshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to query procedures: %w", err)
	}
	defer rows.Close()

	return r.collectProcedures(rows)
}

// GetByModule returns procedures of a module in date order.
func (r *ProcedureRepository) GetByModule(ctx context.Context, moduleID string) ([]*training.Procedure, error) {
	query := `
		SELECT ` + procedureColumns + `
		FROM procedures
		WHERE module_id = $1
		ORDER BY procedure_date
	`

	rows, err := r.conn.Query(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query procedures: %w", err)
	}
	defer rows.Close()

	return r.collectProcedures(rows)
}

// CountByCodeAndDate returns how many procedures with the given code the
// internship already holds on the given calendar day.
func (r *ProcedureRepository) CountByCodeAndDate(ctx context.Context, internshipID, code string, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM procedures
		WHERE internship_id = $1 AND code = $2 AND procedure_date = $3
	`

	var count int
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	err := r.conn.QueryRow(ctx, query, internshipID, code, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count procedures: %w", err)
	}

	return count, nil
}

// Update updates a procedure record.
func (r *ProcedureRepository) Update(ctx context.Context, p *training.Procedure) error {
	query := `
		UPDATE procedures SET
			procedure_date = $1,
			code = $2,
			role = $3,
			status = $4,
			performing_person = $5,
			supervisor = $6,
			training_year = $7,
			requirement_id = $8,
			location = $9,
			patient_initials = $10,
			sync_status = $11,
			updated_at = $12
		WHERE id = $13
	`

	result, err := r.conn.Exec(ctx, query,
		p.Date,
		p.Code,
		string(p.Role),
		string(p.Status),
		p.PerformingPerson,
		p.Supervisor,
		int(p.TrainingYear),
		p.RequirementID,
		p.Location,
		p.PatientInitials,
		string(p.SyncStatus),
		time.Now().UTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update procedure: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrProcedureNotFound
	}

	return nil
}

// Delete deletes a procedure record.
func (r *ProcedureRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM procedures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete procedure: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrProcedureNotFound
	}

	return nil
}

func (r *ProcedureRepository) collectProcedures(rows pgx.Rows) ([]*training.Procedure, error) {
	var result []*training.Procedure
	for rows.Next() {
		p, err := r.scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *ProcedureRepository) scanProcedure(row pgx.Row) (*training.Procedure, error) {
	var p training.Procedure
	var role, status, smkVersion, syncStatus string
	var trainingYear int

	err := row.Scan(
		&p.ID,
		&p.InternshipID,
		&p.ModuleID,
		&p.Date,
		&p.Code,
		&role,
		&status,
		&smkVersion,
		&p.PerformingPerson,
		&p.Supervisor,
		&trainingYear,
		&p.RequirementID,
		&p.Location,
		&p.PatientInitials,
		&syncStatus,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProcedureNotFound
		}
		return nil, fmt.Errorf("failed to scan procedure: %w", err)
	}

	p.Role = shared.ExecutionRole(role)
	p.Status = training.ProcedureStatus(status)
	p.SmkVersion = shared.SmkVersion(smkVersion)
	p.TrainingYear = shared.TrainingYear(trainingYear)
	p.SyncStatus = shared.SyncStatus(syncStatus)

	return &p, nil
}
