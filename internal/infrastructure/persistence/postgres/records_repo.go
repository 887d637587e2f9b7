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
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements training.CourseRepository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

const courseColumns = `
	id, module_id, specialization_id, name, kind, start_date, end_date,
	is_completed, counts_toward_required, certificate_number,
	created_at, updated_at
`

// Create creates a course record.
func (r *CourseRepository) Create(ctx context.Context, c *training.Course) error {
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID,
		c.ModuleID,
		c.SpecializationID,
		c.Name,
		string(c.Kind),
		c.StartDate,
		c.EndDate,
		c.IsCompleted,
		c.CountsTowardRequired,
		c.CertificateNumber,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetByModule returns courses of a module in start order.
func (r *CourseRepository) GetByModule(ctx context.Context, moduleID string) ([]*training.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE module_id = $1
		ORDER BY start_date
	`

	rows, err := r.conn.Query(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var result []*training.Course
	for rows.Next() {
		c, err := r.scanCourse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// Update updates a course record.
func (r *CourseRepository) Update(ctx context.Context, c *training.Course) error {
	query := `
		UPDATE courses SET
			name = $1,
			kind = $2,
			start_date = $3,
			end_date = $4,
			is_completed = $5,
			counts_toward_required = $6,
			certificate_number = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.conn.Exec(ctx, query,
		c.Name,
		string(c.Kind),
		c.StartDate,
		c.EndDate,
		c.IsCompleted,
		c.CountsTowardRequired,
		c.CertificateNumber,
		time.Now().UTC(),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// Delete deletes a course record.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}

	return nil
}

func (r *CourseRepository) scanCourse(row pgx.Row) (*training.Course, error) {
	var c training.Course
	var kind string

	err := row.Scan(
		&c.ID,
		&c.ModuleID,
		&c.SpecializationID,
		&c.Name,
		&kind,
		&c.StartDate,
		&c.EndDate,
		&c.IsCompleted,
		&c.CountsTowardRequired,
		&c.CertificateNumber,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	c.Kind = training.CourseKind(kind)
	return &c, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SELF-EDUCATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SelfEducationRepository implements training.SelfEducationRepository for PostgreSQL.
type SelfEducationRepository struct {
	conn *Connection
}

// NewSelfEducationRepository creates a new SelfEducationRepository.
func NewSelfEducationRepository(conn *Connection) *SelfEducationRepository {
	return &SelfEducationRepository{conn: conn}
}

// Create creates a self-education record.
func (r *SelfEducationRepository) Create(ctx context.Context, s *training.SelfEducation) error {
	query := `
		INSERT INTO self_education (
			id, specialization_id, title, kind, activity_date,
			duration_days, counts_toward_required, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.SpecializationID,
		s.Title,
		string(s.Kind),
		s.Date,
		s.DurationDays,
		s.CountsTowardRequired,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create self-education record: %w", err)
	}

	return nil
}

// GetBySpecialization returns self-education records of a specialization.
func (r *SelfEducationRepository) GetBySpecialization(ctx context.Context, specializationID string) ([]*training.SelfEducation, error) {
	query := `
		SELECT id, specialization_id, title, kind, activity_date,
			   duration_days, counts_toward_required, created_at, updated_at
		FROM self_education
		WHERE specialization_id = $1
		ORDER BY activity_date
	`

	rows, err := r.conn.Query(ctx, query, specializationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query self-education records: %w", err)
	}
	defer rows.Close()

	var result []*training.SelfEducation
	for rows.Next() {
		var s training.SelfEducation
		var kind string

		err := rows.Scan(
			&s.ID,
			&s.SpecializationID,
			&s.Title,
			&kind,
			&s.Date,
			&s.DurationDays,
			&s.CountsTowardRequired,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan self-education record: %w", err)
		}

		s.Kind = training.SelfEducationKind(kind)
		result = append(result, &s)
	}
	return result, rows.Err()
}

// Delete deletes a self-education record.
func (r *SelfEducationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM self_education WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete self-education record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ABSENCE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AbsenceRepository implements training.AbsenceRepository for PostgreSQL.
type AbsenceRepository struct {
	conn *Connection
}

// NewAbsenceRepository creates a new AbsenceRepository.
func NewAbsenceRepository(conn *Connection) *AbsenceRepository {
	return &AbsenceRepository{conn: conn}
}

const absenceColumns = `
	id, specialization_id, kind, start_date, end_date, description,
	created_at, updated_at
`

// Create creates an absence.
func (r *AbsenceRepository) Create(ctx context.Context, a *training.Absence) error {
	query := `
		INSERT INTO absences (` + absenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		a.ID,
		a.SpecializationID,
		string(a.Kind),
		a.StartDate,
		a.EndDate,
		a.Description,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create absence: %w", err)
	}

	return nil
}

// GetByID returns an absence by ID.
func (r *AbsenceRepository) GetByID(ctx context.Context, id string) (*training.Absence, error) {
	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanAbsence(row)
}

// GetBySpecialization returns absences of a specialization in start order.
func (r *AbsenceRepository) GetBySpecialization(ctx context.Context, specializationID string) ([]*training.Absence, error) {
	query := `
		SELECT ` + absenceColumns + `
		FROM absences
		WHERE specialization_id = $1
		ORDER BY start_date
	`

	rows, err := r.conn.Query(ctx, query, specializationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var result []*training.Absence
	for rows.Next() {
		a, err := r.scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Update updates an absence.
func (r *AbsenceRepository) Update(ctx context.Context, a *training.Absence) error {
	query := `
		UPDATE absences SET
			kind = $1,
			start_date = $2,
			end_date = $3,
			description = $4,
			updated_at = $5
		WHERE id = $6
	`

	result, err := r.conn.Exec(ctx, query,
		string(a.Kind),
		a.StartDate,
		a.EndDate,
		a.Description,
		time.Now().UTC(),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update absence: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrAbsenceNotFound
	}

	return nil
}

// Delete deletes an absence.
func (r *AbsenceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrAbsenceNotFound
	}

	return nil
}

func (r *AbsenceRepository) scanAbsence(row pgx.Row) (*training.Absence, error) {
	var a training.Absence
	var kind string

	err := row.Scan(
		&a.ID,
		&a.SpecializationID,
		&kind,
		&a.StartDate,
		&a.EndDate,
		&a.Description,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrAbsenceNotFound
		}
		return nil, fmt.Errorf("failed to scan absence: %w", err)
	}

	a.Kind = shared.AbsenceKind(kind)
	return &a, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PUBLICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PublicationRepository implements training.PublicationRepository for PostgreSQL.
type PublicationRepository struct {
	conn *Connection
}

// NewPublicationRepository creates a new PublicationRepository.
func NewPublicationRepository(conn *Connection) *PublicationRepository {
	return &PublicationRepository{conn: conn}
}

// Create creates a publication.
func (r *PublicationRepository) Create(ctx context.Context, p *training.Publication) error {
	query := `
		INSERT INTO publications (
			id, specialization_id, title, kind, publication_date,
			counts_toward_required, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID,
		p.SpecializationID,
		p.Title,
		string(p.Kind),
		p.Date,
		p.CountsTowardRequired,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}

	return nil
}

// GetBySpecialization returns publications of a specialization.
func (r *PublicationRepository) GetBySpecialization(ctx context.Context, specializationID string) ([]*training.Publication, error) {
	query := `
		SELECT id, specialization_id, title, kind, publication_date,
			   counts_toward_required, created_at, updated_at
		FROM publications
		WHERE specialization_id = $1
		ORDER BY publication_date
	`

	rows, err := r.conn.Query(ctx, query, specializationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query publications: %w", err)
	}
	defer rows.Close()

	var result []*training.Publication
	for rows.Next() {
		var p training.Publication
		var kind string

		err := rows.Scan(
			&p.ID,
			&p.SpecializationID,
			&p.Title,
			&kind,
			&p.Date,
			&p.CountsTowardRequired,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}

		p.Kind = training.PublicationKind(kind)
		result = append(result, &p)
	}
	return result, rows.Err()
}

// Delete deletes a publication.
func (r *PublicationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete publication: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}

	return nil
}
