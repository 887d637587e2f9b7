// Package saga contains complex business processes that orchestrate
// multiple domain operations in a coordinated manner.
// Sagas ensure consistency across operations and handle compensation on failures.
package saga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/program"
	"github.com/smk-hub/residency-training-hub/internal/domain/resident"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT SAGA
// Complex business process: enrolling a resident into a specialization.
// Flow: Validate → Check Existence → Load Template → Create Resident →
//
//	Create Specialization → Create Modules
//
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEmailAlreadyRegistered is returned when the email is taken.
	ErrEmailAlreadyRegistered = errors.New("enrollment: email already registered")

	// ErrUnknownProgram is returned when no template exists for the
	// requested programme code and SMK version.
	ErrUnknownProgram = errors.New("enrollment: unknown specialization programme")
)

// EnrollmentInput contains all data required to enroll a resident.
type EnrollmentInput struct {
	// Email - email for authentication (required).
	Email string

	// Password - password for authentication (required).
	Password string

	// FullName - resident's full name (required).
	FullName string

	// LicenseNumber - medical license number (PWZ).
	LicenseNumber string

	// ProgramCode - specialization programme code (required).
	ProgramCode shared.ProgramCode

	// SmkVersion - SMK revision the programme runs under (required).
	SmkVersion shared.SmkVersion

	// StartDate - first day of the programme (required).
	StartDate time.Time
}

// Validate checks if the input is valid for enrollment.
func (i EnrollmentInput) Validate() error {
	if i.Email == "" {
		return errors.New("enrollment: email is required")
	}
	if i.Password == "" {
		return errors.New("enrollment: password is required")
	}
	if i.FullName == "" {
		return errors.New("enrollment: full name is required")
	}
	if !i.ProgramCode.IsValid() {
		return errors.New("enrollment: invalid programme code")
	}
	if !i.SmkVersion.IsValid() {
		return errors.New("enrollment: invalid SMK version")
	}
	if i.StartDate.IsZero() {
		return errors.New("enrollment: start date is required")
	}
	return nil
}

// EnrollmentResult contains the result of a successful enrollment.
type EnrollmentResult struct {
	// Resident - the newly created resident entity.
	Resident *resident.Resident

	// Specialization - the created specialization.
	Specialization *specialization.Specialization

	// Modules - the modules instantiated from the programme template.
	Modules []*specialization.Module

	// EnrolledAt - timestamp of successful enrollment.
	EnrolledAt time.Time
}

// EnrollmentStep represents a step in the enrollment process.
type EnrollmentStep string

const (
	StepValidateInput        EnrollmentStep = "validate_input"
	StepCheckExistence       EnrollmentStep = "check_existence"
	StepLoadTemplate         EnrollmentStep = "load_template"
	StepCreateResident       EnrollmentStep = "create_resident"
	StepCreateSpecialization EnrollmentStep = "create_specialization"
	StepCreateModules        EnrollmentStep = "create_modules"
	StepComplete             EnrollmentStep = "complete"
)

// EnrollmentState tracks the current state of the enrollment saga.
type EnrollmentState struct {
	CurrentStep    EnrollmentStep
	Input          EnrollmentInput
	Template       *program.Template
	Resident       *resident.Resident
	Specialization *specialization.Specialization
	Modules        []*specialization.Module
	StartedAt      time.Time
	CompletedAt    *time.Time
	Error          error
	FailedStep     EnrollmentStep
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	// GenerateID generates a new unique ID.
	GenerateID() string
}

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT SAGA IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentSaga orchestrates the complete resident registration process.
// It follows the Saga pattern: a failure after the resident row exists
// compensates by deleting it, so a half-enrolled resident never survives.
type EnrollmentSaga struct {
	residentRepo resident.Repository
	specRepo     specialization.Repository
	moduleRepo   specialization.ModuleRepository
	templates    program.Store
	idGenerator  IDGenerator

	bcryptCost int
}

// EnrollmentSagaConfig contains configuration for the enrollment saga.
type EnrollmentSagaConfig struct {
	BcryptCost int
}

// DefaultEnrollmentConfig returns default configuration.
func DefaultEnrollmentConfig() EnrollmentSagaConfig {
	return EnrollmentSagaConfig{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// NewEnrollmentSaga creates a new enrollment saga with all dependencies.
func NewEnrollmentSaga(
	residentRepo resident.Repository,
	specRepo specialization.Repository,
	moduleRepo specialization.ModuleRepository,
	templates program.Store,
	idGenerator IDGenerator,
	config EnrollmentSagaConfig,
) *EnrollmentSaga {
	if config.BcryptCost == 0 {
		config = DefaultEnrollmentConfig()
	}

	return &EnrollmentSaga{
		residentRepo: residentRepo,
		specRepo:     specRepo,
		moduleRepo:   moduleRepo,
		templates:    templates,
		idGenerator:  idGenerator,
		bcryptCost:   config.BcryptCost,
	}
}

// Execute runs the complete enrollment process.
func (s *EnrollmentSaga) Execute(ctx context.Context, input EnrollmentInput) (*EnrollmentResult, error) {
	state := &EnrollmentState{
		CurrentStep: StepValidateInput,
		Input:       input,
		StartedAt:   time.Now().UTC(),
	}

	// Step 1: Validate input
	if err := state.Input.Validate(); err != nil {
		return nil, s.fail(state, StepValidateInput, err)
	}

	// Step 2: Check if the email is already registered
	state.CurrentStep = StepCheckExistence
	if err := s.stepCheckExistence(ctx, state); err != nil {
		return nil, err
	}

	// Step 3: Load the programme template
	state.CurrentStep = StepLoadTemplate
	if err := s.stepLoadTemplate(ctx, state); err != nil {
		return nil, err
	}

	// Step 4: Create the resident account
	state.CurrentStep = StepCreateResident
	if err := s.stepCreateResident(ctx, state); err != nil {
		return nil, err
	}

	// Step 5: Create the specialization
	state.CurrentStep = StepCreateSpecialization
	if err := s.stepCreateSpecialization(ctx, state); err != nil {
		s.rollbackResident(ctx, state)
		return nil, err
	}

	// Step 6: Instantiate modules from the template
	state.CurrentStep = StepCreateModules
	if err := s.stepCreateModules(ctx, state); err != nil {
		s.rollbackResident(ctx, state)
		return nil, err
	}

	state.CurrentStep = StepComplete
	now := time.Now().UTC()
	state.CompletedAt = &now

	return &EnrollmentResult{
		Resident:       state.Resident,
		Specialization: state.Specialization,
		Modules:        state.Modules,
		EnrolledAt:     now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SAGA STEPS
// ══════════════════════════════════════════════════════════════════════════════

func (s *EnrollmentSaga) stepCheckExistence(ctx context.Context, state *EnrollmentState) error {
	_, err := s.residentRepo.GetByEmail(ctx, state.Input.Email)
	if err == nil {
		return s.fail(state, StepCheckExistence, ErrEmailAlreadyRegistered)
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return s.fail(state, StepCheckExistence, fmt.Errorf("failed to check email existence: %w", err))
	}
	return nil
}

func (s *EnrollmentSaga) stepLoadTemplate(ctx context.Context, state *EnrollmentState) error {
	tmpl, err := s.templates.GetTemplate(ctx, state.Input.ProgramCode, state.Input.SmkVersion)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.fail(state, StepLoadTemplate, fmt.Errorf("%w: %s/%s",
				ErrUnknownProgram, state.Input.ProgramCode, state.Input.SmkVersion))
		}
		return s.fail(state, StepLoadTemplate, fmt.Errorf("failed to load programme template: %w", err))
	}
	state.Template = tmpl
	return nil
}

func (s *EnrollmentSaga) stepCreateResident(ctx context.Context, state *EnrollmentState) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(state.Input.Password), s.bcryptCost)
	if err != nil {
		return s.fail(state, StepCreateResident, fmt.Errorf("failed to hash password: %w", err))
	}

	res, err := resident.NewResident(resident.NewResidentParams{
		ID:            s.idGenerator.GenerateID(),
		Email:         state.Input.Email,
		PasswordHash:  string(hash),
		FullName:      state.Input.FullName,
		LicenseNumber: state.Input.LicenseNumber,
	})
	if err != nil {
		return s.fail(state, StepCreateResident, err)
	}

	if err := s.residentRepo.Create(ctx, res); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.fail(state, StepCreateResident, ErrEmailAlreadyRegistered)
		}
		return s.fail(state, StepCreateResident, fmt.Errorf("failed to create resident: %w", err))
	}

	state.Resident = res
	return nil
}

func (s *EnrollmentSaga) stepCreateSpecialization(ctx context.Context, state *EnrollmentState) error {
	nominalDays := 0
	for _, m := range state.Template.Modules {
		nominalDays += m.DurationDays
	}

	spec, err := specialization.NewSpecialization(specialization.NewSpecializationParams{
		ID:                  s.idGenerator.GenerateID(),
		ResidentID:          state.Resident.ID,
		Name:                state.Template.Name,
		ProgramCode:         state.Input.ProgramCode,
		SmkVersion:          state.Input.SmkVersion,
		StartDate:           state.Input.StartDate,
		NominalDurationDays: nominalDays,
	})
	if err != nil {
		return s.fail(state, StepCreateSpecialization, err)
	}

	if err := s.specRepo.Create(ctx, spec); err != nil {
		return s.fail(state, StepCreateSpecialization, fmt.Errorf("failed to create specialization: %w", err))
	}

	state.Specialization = spec
	return nil
}

func (s *EnrollmentSaga) stepCreateModules(ctx context.Context, state *EnrollmentState) error {
	modules, err := s.buildModules(state)
	if err != nil {
		return s.fail(state, StepCreateModules, err)
	}

	for _, m := range modules {
		if err := s.moduleRepo.Create(ctx, m); err != nil {
			return s.fail(state, StepCreateModules, fmt.Errorf("failed to create module %s: %w", m.TemplateCode, err))
		}
	}

	state.Modules = modules
	return nil
}

// buildModules instantiates template modules back to back starting at the
// programme start date, with required counters seeded from the template.
func (s *EnrollmentSaga) buildModules(state *EnrollmentState) ([]*specialization.Module, error) {
	now := time.Now().UTC()
	start := state.Input.StartDate
	modules := make([]*specialization.Module, 0, len(state.Template.Modules))

	for i := range state.Template.Modules {
		mt := &state.Template.Modules[i]

		snapshot, err := json.Marshal(mt)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot module template %s: %w", mt.Code, err)
		}

		requiredA, requiredB := mt.RequiredProcedureCounts()
		requiredCourses := 0
		for _, c := range mt.Courses {
			if c.Required {
				requiredCourses++
			}
		}

		var totalHours, weeklyHours float64
		if mt.MedicalShifts != nil {
			totalHours = mt.MedicalShifts.RequiredShiftHours
			weeklyHours = mt.MedicalShifts.HoursPerWeek
		}

		m := &specialization.Module{
			ID:                  s.idGenerator.GenerateID(),
			SpecializationID:    state.Specialization.ID,
			Name:                mt.Name,
			Type:                specialization.ModuleType(mt.ModuleType),
			SmkVersion:          state.Input.SmkVersion,
			TemplateCode:        mt.Code,
			StartDate:           start,
			NominalDurationDays: mt.DurationDays,
			EndDate:             start.AddDate(0, 0, mt.DurationDays-1),
			StructureSnapshot:   snapshot,
			Counters: specialization.Counters{
				RequiredInternships:       len(mt.Internships),
				RequiredCourses:           requiredCourses,
				RequiredProceduresA:       requiredA,
				RequiredProceduresB:       requiredB,
				RequiredShiftHours:        specialization.RequiredShiftHours(totalHours, weeklyHours, mt.DurationDays),
				RequiredSelfEducationDays: mt.SelfEducationDays(),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		modules = append(modules, m)
		start = m.EndDate.AddDate(0, 0, 1)
	}

	return modules, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPENSATION
// ══════════════════════════════════════════════════════════════════════════════

// rollbackResident removes the resident created earlier in the saga.
// Specializations and modules cascade with the resident row.
func (s *EnrollmentSaga) rollbackResident(ctx context.Context, state *EnrollmentState) {
	if state.Resident == nil {
		return
	}
	_ = s.residentRepo.Delete(ctx, state.Resident.ID)
}

func (s *EnrollmentSaga) fail(state *EnrollmentState, step EnrollmentStep, err error) error {
	state.FailedStep = step
	state.Error = err
	return err
}
