// Package program содержит модель шаблона программы специализации:
// структурное определение обязательных модулей, стажей, курсов, процедур
// и дежурств для пары (код программы, ревизия SMK).
// Шаблоны только читаются; источник и кеширование - в infrastructure.
package program

import (
	"context"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
)

// Template - структурное определение программы для (код, ревизия SMK).
type Template struct {
	// ProgramCode - код программы.
	ProgramCode shared.ProgramCode

	// SmkVersion - ревизия SMK.
	SmkVersion shared.SmkVersion

	// Name - название специализации.
	Name string

	// Modules - упорядоченный список шаблонных модулей.
	Modules []ModuleTemplate
}

// ModuleTemplate - шаблон одного модуля программы.
type ModuleTemplate struct {
	// Code - код шаблонного модуля.
	Code string

	// Name - название модуля.
	Name string

	// ModuleType - тип модуля ("basic" | "specialistic").
	ModuleType string

	// DurationDays - длительность модуля в днях (после применения
	// правил умолчаний загрузчика).
	DurationDays int

	// Internships - обязательные стажи.
	Internships []InternshipTemplate

	// Courses - обязательные курсы.
	Courses []CourseTemplate

	// Procedures - требования по процедурам.
	Procedures []ProcedureRequirement

	// MedicalShifts - требования по дежурствам (nil = не заданы).
	MedicalShifts *ShiftRequirement

	// SelfEducation - требования по самообразованию (nil = не заданы).
	SelfEducation *SelfEducationRequirement
}

// InternshipTemplate - обязательный стаж модуля.
type InternshipTemplate struct {
	// ID - идентификатор пункта в шаблоне.
	ID string

	// Name - название стажа.
	Name string

	// DurationDays - длительность стажа в днях.
	DurationDays int
}

// CourseTemplate - курс модуля.
type CourseTemplate struct {
	// ID - идентификатор пункта в шаблоне.
	ID string

	// Name - название курса.
	Name string

	// Required - курс обязателен. Пропущенный в документе признак
	// трактуется загрузчиком как обязательный.
	Required bool
}

// ProcedureRequirement - требование по процедуре с раздельными
// количествами для ролей оператора (A) и ассистента (B).
type ProcedureRequirement struct {
	// ID - идентификатор пункта в шаблоне (на него ссылаются
	// процедуры новой ревизии SMK).
	ID string

	// Code - код процедуры.
	Code string

	// Name - название процедуры.
	Name string

	// RequiredCountA - требуется выполнений в роли оператора.
	RequiredCountA int

	// RequiredCountB - требуется выполнений в роли ассистента.
	RequiredCountB int
}

// ShiftRequirement - требования модуля по дежурствам.
type ShiftRequirement struct {
	// RequiredShiftHours - явное общее количество часов (0 = не задано).
	RequiredShiftHours float64

	// HoursPerWeek - недельная норма часов (0 = не задана).
	HoursPerWeek float64

	// Description - пояснение из программы.
	Description string
}

// SelfEducationRequirement - требования модуля по самообразованию.
type SelfEducationRequirement struct {
	// TotalDays - всего дней за модуль (0 = не задано).
	TotalDays int

	// DaysPerYear - дней в год (0 = не задано).
	DaysPerYear int
}

// ══════════════════════════════════════════════════════════════════════════════
// LOOKUPS
// Простые поиски внутри загруженной структуры - без отдельного кеширования.
// ══════════════════════════════════════════════════════════════════════════════

// ModuleByCode возвращает шаблон модуля по коду.
func (t *Template) ModuleByCode(code string) (*ModuleTemplate, bool) {
	for i := range t.Modules {
		if t.Modules[i].Code == code {
			return &t.Modules[i], true
		}
	}
	return nil, false
}

// ProcedureRequirementByID ищет требование по процедуре по идентификатору
// пункта шаблона во всех модулях.
func (t *Template) ProcedureRequirementByID(id string) (*ProcedureRequirement, bool) {
	for i := range t.Modules {
		for j := range t.Modules[i].Procedures {
			if t.Modules[i].Procedures[j].ID == id {
				return &t.Modules[i].Procedures[j], true
			}
		}
	}
	return nil, false
}

// CourseByID ищет курс по идентификатору пункта шаблона.
func (t *Template) CourseByID(id string) (*CourseTemplate, bool) {
	for i := range t.Modules {
		for j := range t.Modules[i].Courses {
			if t.Modules[i].Courses[j].ID == id {
				return &t.Modules[i].Courses[j], true
			}
		}
	}
	return nil, false
}

// InternshipByID ищет стаж по идентификатору пункта шаблона.
func (t *Template) InternshipByID(id string) (*InternshipTemplate, bool) {
	for i := range t.Modules {
		for j := range t.Modules[i].Internships {
			if t.Modules[i].Internships[j].ID == id {
				return &t.Modules[i].Internships[j], true
			}
		}
	}
	return nil, false
}

// RequiredProcedureCounts возвращает суммарные требуемые количества
// процедур модуля по ролям A и B.
func (m *ModuleTemplate) RequiredProcedureCounts() (requiredA, requiredB int) {
	for _, p := range m.Procedures {
		requiredA += p.RequiredCountA
		requiredB += p.RequiredCountB
	}
	return requiredA, requiredB
}

// SelfEducationDays возвращает требуемые дни самообразования модуля:
// явное общее количество либо годовая норма, умноженная на годы модуля.
func (m *ModuleTemplate) SelfEducationDays() int {
	if m.SelfEducation == nil {
		return 0
	}
	if m.SelfEducation.TotalDays > 0 {
		return m.SelfEducation.TotalDays
	}
	years := m.DurationDays / 365
	if years < 1 {
		years = 1
	}
	return m.SelfEducation.DaysPerYear * years
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Store определяет доступ к шаблонам программ.
// Отсутствующий шаблон - нормальный результат (shared.ErrTemplateNotFound),
// а не сбой: вызывающая сторона решает, падать или деградировать.
type Store interface {
	// GetTemplate возвращает шаблон для пары (код программы, ревизия SMK).
	GetTemplate(ctx context.Context, code shared.ProgramCode, version shared.SmkVersion) (*Template, error)
}
