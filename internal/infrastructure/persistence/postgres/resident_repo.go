// Package postgres implements PostgreSQL persistence layer for the
// residency training hub.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/resident"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESIDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ResidentRepository implements resident.Repository for PostgreSQL.
type ResidentRepository struct {
	conn *Connection
}

// NewResidentRepository creates a new ResidentRepository.
func NewResidentRepository(conn *Connection) *ResidentRepository {
	return &ResidentRepository{conn: conn}
}

// Create creates a new resident.
func (r *ResidentRepository) Create(ctx context.Context, res *resident.Resident) error {
	query := `
		INSERT INTO residents (
			id, email, password_hash, full_name, license_number,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		res.ID,
		res.Email,
		res.PasswordHash,
		res.FullName,
		res.LicenseNumber,
		string(res.Status),
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrResidentAlreadyExists
		}
		return fmt.Errorf("failed to create resident: %w", err)
	}

	return nil
}

// GetByID returns a resident by ID.
func (r *ResidentRepository) GetByID(ctx context.Context, id string) (*resident.Resident, error) {
	query := `
		SELECT id, email, password_hash, full_name, license_number,
			   status, created_at, updated_at
		FROM residents
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanResident(row)
}

// GetByEmail returns a resident by email.
func (r *ResidentRepository) GetByEmail(ctx context.Context, email string) (*resident.Resident, error) {
	query := `
		SELECT id, email, password_hash, full_name, license_number,
			   status, created_at, updated_at
		FROM residents
		WHERE email = $1
	`

	row := r.conn.QueryRow(ctx, query, email)
	return r.scanResident(row)
}

// Update updates a resident.
func (r *ResidentRepository) Update(ctx context.Context, res *resident.Resident) error {
	query := `
		UPDATE residents SET
			email = $1,
			password_hash = $2,
			full_name = $3,
			license_number = $4,
			status = $5,
			updated_at = $6
		WHERE id = $7
	`

	result, err := r.conn.Exec(ctx, query,
		res.Email,
		res.PasswordHash,
		res.FullName,
		res.LicenseNumber,
		string(res.Status),
		time.Now().UTC(),
		res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resident: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrResidentNotFound
	}

	return nil
}

// Delete removes a resident and, via cascade, their specializations.
// Used as enrollment saga compensation.
func (r *ResidentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM residents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resident: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrResidentNotFound
	}

	return nil
}

// scanResident scans a single resident row.
func (r *ResidentRepository) scanResident(row pgx.Row) (*resident.Resident, error) {
	var res resident.Resident
	var status string

	err := row.Scan(
		&res.ID,
		&res.Email,
		&res.PasswordHash,
		&res.FullName,
		&res.LicenseNumber,
		&status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrResidentNotFound
		}
		return nil, fmt.Errorf("failed to scan resident: %w", err)
	}

	res.Status = resident.Status(status)
	return &res, nil
}
