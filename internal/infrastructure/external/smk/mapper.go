// Package smk implements loading of specialization programme documents.
package smk

import (
	"fmt"

	"github.com/smk-hub/residency-training-hub/internal/domain/program"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO to Domain Template transformations
// ══════════════════════════════════════════════════════════════════════════════

// Mapper handles transformation between programme documents and domain
// templates. This follows the Anti-Corruption Layer pattern from DDD,
// protecting the domain from changes in the published document format.
// All defaulting happens here, once, at load time: downstream code reads
// fully resolved templates.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// TemplateFromDocument converts a programme DocumentDTO into a domain
// template. Structural problems return ErrMalformedDocument so callers
// can distinguish a broken document from a missing one.
func (m *Mapper) TemplateFromDocument(dto *DocumentDTO) (*program.Template, error) {
	if dto == nil {
		return nil, ErrNilDTO
	}

	code, err := shared.NewProgramCode(dto.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: programme code %q: %v", ErrMalformedDocument, dto.Code, err)
	}
	version, err := shared.ParseSmkVersion(dto.SmkVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: smk version %q: %v", ErrMalformedDocument, dto.SmkVersion, err)
	}
	if dto.Name == "" {
		return nil, fmt.Errorf("%w: missing specialization name", ErrMalformedDocument)
	}
	if len(dto.Modules) == 0 {
		return nil, fmt.Errorf("%w: document has no modules", ErrMalformedDocument)
	}

	modules := make([]program.ModuleTemplate, 0, len(dto.Modules))
	for i := range dto.Modules {
		mod, err := m.moduleFromDTO(&dto.Modules[i])
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", dto.Modules[i].Code, err)
		}
		modules = append(modules, *mod)
	}

	return &program.Template{
		ProgramCode: code,
		SmkVersion:  version,
		Name:        dto.Name,
		Modules:     modules,
	}, nil
}

func (m *Mapper) moduleFromDTO(dto *ModuleDTO) (*program.ModuleTemplate, error) {
	if dto.Code == "" {
		return nil, fmt.Errorf("%w: missing module code", ErrMalformedDocument)
	}

	switch dto.ModuleType {
	case "basic", "specialistic":
	default:
		return nil, fmt.Errorf("%w: unknown module type %q", ErrMalformedDocument, dto.ModuleType)
	}

	days, err := m.durationDays(dto)
	if err != nil {
		return nil, err
	}

	internships := make([]program.InternshipTemplate, 0, len(dto.Internships))
	for _, in := range dto.Internships {
		durationDays := in.DurationDays
		if durationDays == 0 {
			durationDays = in.DurationWeeks * 7
		}
		internships = append(internships, program.InternshipTemplate{
			ID:           in.ID,
			Name:         in.Name,
			DurationDays: durationDays,
		})
	}

	courses := make([]program.CourseTemplate, 0, len(dto.Courses))
	for _, c := range dto.Courses {
		// Omitted "required" means obligatory.
		required := c.Required == nil || *c.Required
		courses = append(courses, program.CourseTemplate{
			ID:       c.ID,
			Name:     c.Name,
			Required: required,
		})
	}

	procedures := make([]program.ProcedureRequirement, 0, len(dto.Procedures))
	for _, p := range dto.Procedures {
		if p.Code == "" {
			return nil, fmt.Errorf("%w: procedure requirement %q has no code", ErrMalformedDocument, p.ID)
		}
		procedures = append(procedures, program.ProcedureRequirement{
			ID:             p.ID,
			Code:           p.Code,
			Name:           p.Name,
			RequiredCountA: p.RequiredCountA,
			RequiredCountB: p.RequiredCountB,
		})
	}

	var shifts *program.ShiftRequirement
	if dto.MedicalShifts != nil {
		shifts = &program.ShiftRequirement{
			RequiredShiftHours: dto.MedicalShifts.RequiredShiftHours,
			HoursPerWeek:       dto.MedicalShifts.HoursPerWeek,
			Description:        dto.MedicalShifts.Description,
		}
	}

	var selfEducation *program.SelfEducationRequirement
	if dto.SelfEducation != nil {
		selfEducation = &program.SelfEducationRequirement{
			TotalDays:   dto.SelfEducation.TotalDays,
			DaysPerYear: dto.SelfEducation.DaysPerYear,
		}
	}

	return &program.ModuleTemplate{
		Code:          dto.Code,
		Name:          dto.Name,
		ModuleType:    dto.ModuleType,
		DurationDays:  days,
		Internships:   internships,
		Courses:       courses,
		Procedures:    procedures,
		MedicalShifts: shifts,
		SelfEducation: selfEducation,
	}, nil
}

// durationDays resolves the two duration forms into calendar days.
// The structured {years, months} form wins over the flat month count.
// Months convert at 365/12 with integer truncation, matching how the
// upstream system rounds nominal durations.
func (m *Mapper) durationDays(dto *ModuleDTO) (int, error) {
	months := dto.Duration.TotalMonths()
	if months == 0 {
		months = dto.DurationMonths
	}
	if months <= 0 {
		return 0, fmt.Errorf("%w: module %q has no duration", ErrMalformedDocument, dto.Code)
	}
	return months * 365 / 12, nil
}
