// Package postgres implements PostgreSQL persistence layer for the
// residency training hub.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// COUNTERS SERIALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// countersRow is the JSONB representation of specialization.Counters.
type countersRow struct {
	CompletedInternships       int     `json:"completed_internships"`
	RequiredInternships        int     `json:"required_internships"`
	CompletedCourses           int     `json:"completed_courses"`
	RequiredCourses            int     `json:"required_courses"`
	CompletedProceduresA       int     `json:"completed_procedures_a"`
	RequiredProceduresA        int     `json:"required_procedures_a"`
	CompletedProceduresB       int     `json:"completed_procedures_b"`
	RequiredProceduresB        int     `json:"required_procedures_b"`
	CompletedShiftHours        float64 `json:"completed_shift_hours"`
	RequiredShiftHours         float64 `json:"required_shift_hours"`
	CompletedSelfEducationDays int     `json:"completed_self_education_days"`
	RequiredSelfEducationDays  int     `json:"required_self_education_days"`
}

func countersToJSON(c specialization.Counters) ([]byte, error) {
	return json.Marshal(countersRow{
		CompletedInternships:       c.CompletedInternships,
		RequiredInternships:        c.RequiredInternships,
		CompletedCourses:           c.CompletedCourses,
		RequiredCourses:            c.RequiredCourses,
		CompletedProceduresA:       c.CompletedProceduresA,
		RequiredProceduresA:        c.RequiredProceduresA,
		CompletedProceduresB:       c.CompletedProceduresB,
		RequiredProceduresB:        c.RequiredProceduresB,
		CompletedShiftHours:        c.CompletedShiftHours,
		RequiredShiftHours:         c.RequiredShiftHours,
		CompletedSelfEducationDays: c.CompletedSelfEducationDays,
		RequiredSelfEducationDays:  c.RequiredSelfEducationDays,
	})
}

func countersFromJSON(raw []byte) (specialization.Counters, error) {
	var row countersRow
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &row); err != nil {
			return specialization.Counters{}, fmt.Errorf("failed to unmarshal counters: %w", err)
		}
	}
	return specialization.Counters{
		CompletedInternships:       row.CompletedInternships,
		RequiredInternships:        row.RequiredInternships,
		CompletedCourses:           row.CompletedCourses,
		RequiredCourses:            row.RequiredCourses,
		CompletedProceduresA:       row.CompletedProceduresA,
		RequiredProceduresA:        row.RequiredProceduresA,
		CompletedProceduresB:       row.CompletedProceduresB,
		RequiredProceduresB:        row.RequiredProceduresB,
		CompletedShiftHours:        row.CompletedShiftHours,
		RequiredShiftHours:         row.RequiredShiftHours,
		CompletedSelfEducationDays: row.CompletedSelfEducationDays,
		RequiredSelfEducationDays:  row.RequiredSelfEducationDays,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SPECIALIZATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SpecializationRepository implements specialization.Repository for PostgreSQL.
type SpecializationRepository struct {
	conn *Connection
}

// NewSpecializationRepository creates a new SpecializationRepository.
func NewSpecializationRepository(conn *Connection) *SpecializationRepository {
	return &SpecializationRepository{conn: conn}
}

const specializationColumns = `
	id, resident_id, name, program_code, smk_version, start_date,
	nominal_duration_days, planned_end_date, counters, archived,
	created_at, updated_at
`

// Create creates a new specialization.
func (r *SpecializationRepository) Create(ctx context.Context, s *specialization.Specialization) error {
	query := `
		INSERT INTO specializations (` + specializationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	countersJSON, err := countersToJSON(s.Counters)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, query,
		s.ID,
		s.ResidentID,
		s.Name,
		string(s.ProgramCode),
		string(s.SmkVersion),
		s.StartDate,
		s.NominalDurationDays,
		s.PlannedEndDate,
		countersJSON,
		s.Archived,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create specialization: %w", err)
	}

	return nil
}

// GetByID returns a specialization by ID.
func (r *SpecializationRepository) GetByID(ctx context.Context, id string) (*specialization.Specialization, error) {
	query := `SELECT ` + specializationColumns + ` FROM specializations WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanSpecialization(row)
}

// GetByResident returns all specializations of a resident, newest first.
func (r *SpecializationRepository) GetByResident(ctx context.Context, residentID string) ([]*specialization.Specialization, error) {
	query := `
		SELECT ` + specializationColumns + `
		FROM specializations
		WHERE resident_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.conn.Query(ctx, query, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query specializations: %w", err)
	}
	defer rows.Close()

	return r.collectSpecializations(rows)
}

// GetAll returns all non-archived specializations. Used by the background
// recompute worker.
func (r *SpecializationRepository) GetAll(ctx context.Context) ([]*specialization.Specialization, error) {
	query := `
		SELECT ` + specializationColumns + `
		FROM specializations
		WHERE NOT archived
		ORDER BY created_at
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query specializations: %w", err)
	}
	defer rows.Close()

	return r.collectSpecializations(rows)
}

// Update updates a specialization (counters, planned end date, archival).
func (r *SpecializationRepository) Update(ctx context.Context, s *specialization.Specialization) error {
	query := `
		UPDATE specializations SET
			name = $1,
			start_date = $2,
			nominal_duration_days = $3,
			planned_end_date = $4,
			counters = $5,
			archived = $6,
			updated_at = $7
		WHERE id = $8
	`

	countersJSON, err := countersToJSON(s.Counters)
	if err != nil {
		return err
	}

	result, err := r.conn.Exec(ctx, query,
		s.Name,
		s.StartDate,
		s.NominalDurationDays,
		s.PlannedEndDate,
		countersJSON,
		s.Archived,
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update specialization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrSpecializationNotFound
	}

	return nil
}

func (r *SpecializationRepository) collectSpecializations(rows pgx.Rows) ([]*specialization.Specialization, error) {
	var result []*specialization.Specialization
	for rows.Next() {
		s, err := r.scanSpecialization(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *SpecializationRepository) scanSpecialization(row pgx.Row) (*specialization.Specialization, error) {
	var s specialization.Specialization
	var programCode, smkVersion string
	var countersJSON []byte

	err := row.Scan(
		&s.ID,
		&s.ResidentID,
		&s.Name,
		&programCode,
		&smkVersion,
		&s.StartDate,
		&s.NominalDurationDays,
		&s.PlannedEndDate,
		&countersJSON,
		&s.Archived,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSpecializationNotFound
		}
		return nil, fmt.Errorf("failed to scan specialization: %w", err)
	}

	s.ProgramCode = shared.ProgramCode(programCode)
	s.SmkVersion = shared.SmkVersion(smkVersion)
	s.Counters, err = countersFromJSON(countersJSON)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MODULE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ModuleRepository implements specialization.ModuleRepository for PostgreSQL.
type ModuleRepository struct {
	conn *Connection
}

// NewModuleRepository creates a new ModuleRepository.
func NewModuleRepository(conn *Connection) *ModuleRepository {
	return &ModuleRepository{conn: conn}
}

const moduleColumns = `
	id, specialization_id, name, module_type, smk_version, template_code,
	start_date, nominal_duration_days, end_date, structure_snapshot,
	counters, created_at, updated_at
`

// Create creates a module.
func (r *ModuleRepository) Create(ctx context.Context, m *specialization.Module) error {
	query := `
		INSERT INTO modules (` + moduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	countersJSON, err := countersToJSON(m.Counters)
	if err != nil {
		return err
	}

	snapshot := m.StructureSnapshot
	if len(snapshot) == 0 {
		snapshot = []byte("{}")
	}

	_, err = r.conn.Exec(ctx, query,
		m.ID,
		m.SpecializationID,
		m.Name,
		string(m.Type),
		string(m.SmkVersion),
		m.TemplateCode,
		m.StartDate,
		m.NominalDurationDays,
		m.EndDate,
		snapshot,
		countersJSON,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create module: %w", err)
	}

	return nil
}

// GetByID returns a module by ID.
func (r *ModuleRepository) GetByID(ctx context.Context, id string) (*specialization.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanModule(row)
}

// GetBySpecialization returns modules of a specialization in start order.
func (r *ModuleRepository) GetBySpecialization(ctx context.Context, specializationID string) ([]*specialization.Module, error) {
	query := `
		SELECT ` + moduleColumns + `
		FROM modules
		WHERE specialization_id = $1
		ORDER BY start_date
	`

	rows, err := r.conn.Query(ctx, query, specializationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	var result []*specialization.Module
	for rows.Next() {
		m, err := r.scanModule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// Update updates a module (counters, recomputed end date).
func (r *ModuleRepository) Update(ctx context.Context, m *specialization.Module) error {
	query := `
		UPDATE modules SET
			name = $1,
			start_date = $2,
			nominal_duration_days = $3,
			end_date = $4,
			counters = $5,
			updated_at = $6
		WHERE id = $7
	`

	countersJSON, err := countersToJSON(m.Counters)
	if err != nil {
		return err
	}

	result, err := r.conn.Exec(ctx, query,
		m.Name,
		m.StartDate,
		m.NominalDurationDays,
		m.EndDate,
		countersJSON,
		time.Now().UTC(),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrModuleNotFound
	}

	return nil
}

func (r *ModuleRepository) scanModule(row pgx.Row) (*specialization.Module, error) {
	var m specialization.Module
	var moduleType, smkVersion string
	var countersJSON []byte

	err := row.Scan(
		&m.ID,
		&m.SpecializationID,
		&m.Name,
		&moduleType,
		&smkVersion,
		&m.TemplateCode,
		&m.StartDate,
		&m.NominalDurationDays,
		&m.EndDate,
		&m.StructureSnapshot,
		&countersJSON,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrModuleNotFound
		}
		return nil, fmt.Errorf("failed to scan module: %w", err)
	}

	m.Type = specialization.ModuleType(moduleType)
	m.SmkVersion = shared.SmkVersion(smkVersion)
	m.Counters, err = countersFromJSON(countersJSON)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
