// Package smk implements loading of specialization programme documents.
// Programme templates are published as JSON documents, one per
// (programme code, SMK version) pair, and this package handles fetching
// and decoding them before they are mapped into the domain model.
package smk

import (
	"encoding/json"
	"errors"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNilDTO is returned when a nil DTO is passed to the mapper.
	ErrNilDTO = errors.New("smk: nil dto")

	// ErrDocumentNotFound is returned when no document exists for the
	// requested programme code and SMK version.
	ErrDocumentNotFound = errors.New("smk: document not found")

	// ErrMalformedDocument is returned when a document exists but cannot
	// be decoded or fails structural validation.
	ErrMalformedDocument = errors.New("smk: malformed document")
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRAMME DOCUMENT DTOs
// ══════════════════════════════════════════════════════════════════════════════

// DocumentDTO is the top-level programme document as published upstream.
// This is the external representation that needs to be mapped to the
// domain template model.
type DocumentDTO struct {
	// Code is the numeric programme code, e.g. "0730".
	Code string `json:"code"`

	// SmkVersion is the system version the document targets: "old" or "new".
	SmkVersion string `json:"smkVersion"`

	// Name is the human-readable specialization name.
	Name string `json:"name"`

	// Modules lists the programme modules in curriculum order.
	Modules []ModuleDTO `json:"modules"`
}

// ModuleDTO describes a single programme module.
type ModuleDTO struct {
	// Code is the module identifier within the programme document.
	Code string `json:"code"`

	// Name is the module display name.
	Name string `json:"name"`

	// ModuleType is "basic" or "specialistic".
	ModuleType string `json:"moduleType"`

	// Duration is the nominal module duration. Documents use either the
	// structured form or the flat DurationMonths field; when both are
	// present the structured form wins.
	Duration *DurationDTO `json:"duration,omitempty"`

	// DurationMonths is the flat duration form used by older documents.
	DurationMonths int `json:"durationMonths,omitempty"`

	// Internships lists required internships.
	Internships []InternshipDTO `json:"internships,omitempty"`

	// Courses lists required courses.
	Courses []CourseDTO `json:"courses,omitempty"`

	// Procedures lists procedure requirements.
	Procedures []ProcedureDTO `json:"procedures,omitempty"`

	// MedicalShifts describes the duty-hour requirement, if any.
	MedicalShifts *MedicalShiftsDTO `json:"medicalShifts,omitempty"`

	// SelfEducation describes the self-education allowance, if any.
	SelfEducation *SelfEducationDTO `json:"selfEducation,omitempty"`
}

// DurationDTO is the structured duration form: years plus months.
type DurationDTO struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// TotalMonths collapses the structured form into whole months.
func (d *DurationDTO) TotalMonths() int {
	if d == nil {
		return 0
	}
	return d.Years*12 + d.Months
}

// InternshipDTO describes a required internship placement.
type InternshipDTO struct {
	ID string `json:"id"`

	Name string `json:"name"`

	// DurationWeeks is the planned placement length in weeks.
	DurationWeeks int `json:"durationWeeks,omitempty"`

	// DurationDays is an alternative length form used by some documents.
	DurationDays int `json:"durationDays,omitempty"`
}

// CourseDTO describes a required course.
type CourseDTO struct {
	ID string `json:"id"`

	Name string `json:"name"`

	// Required marks whether the course is obligatory. Documents omit the
	// field for obligatory courses, so absence means required.
	Required *bool `json:"required,omitempty"`
}

// ProcedureDTO describes a procedure requirement with per-role counts.
type ProcedureDTO struct {
	ID string `json:"id"`

	// Code is the procedure code records are matched against.
	Code string `json:"code"`

	Name string `json:"name"`

	// RequiredCountA is the required executions as operator.
	RequiredCountA int `json:"requiredCountA"`

	// RequiredCountB is the required executions as assistant.
	RequiredCountB int `json:"requiredCountB"`
}

// MedicalShiftsDTO describes the duty-hour requirement of a module.
type MedicalShiftsDTO struct {
	// RequiredShiftHours is the explicit total for the module, when the
	// document states one.
	RequiredShiftHours float64 `json:"requiredShiftHours,omitempty"`

	// HoursPerWeek is the weekly norm; zero means the statutory default
	// applies.
	HoursPerWeek float64 `json:"hoursPerWeek,omitempty"`

	Description string `json:"description,omitempty"`
}

// SelfEducationDTO describes the self-education day allowance.
type SelfEducationDTO struct {
	// TotalDays is the explicit total for the module.
	TotalDays int `json:"totalDays,omitempty"`

	// DaysPerYear is the per-training-year allowance.
	DaysPerYear int `json:"daysPerYear,omitempty"`
}

// DecodeDocument parses raw JSON into a DocumentDTO.
func DecodeDocument(raw []byte) (*DocumentDTO, error) {
	var dto DocumentDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.Join(ErrMalformedDocument, err)
	}
	return &dto, nil
}
