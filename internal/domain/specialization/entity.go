// Package specialization содержит доменную модель специализации резидента:
// саму специализацию, её модули и чистую математику прогресса и календаря.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package specialization

import (
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// ModuleType определяет тип модуля специализации.
type ModuleType string

const (
	// ModuleTypeBasic - базовый модуль (общая подготовка).
	ModuleTypeBasic ModuleType = "basic"

	// ModuleTypeSpecialistic - специалистический модуль.
	ModuleTypeSpecialistic ModuleType = "specialistic"
)

// IsValid проверяет корректность типа модуля.
func (m ModuleType) IsValid() bool {
	return m == ModuleTypeBasic || m == ModuleTypeSpecialistic
}

// String возвращает строковое представление типа.
func (m ModuleType) String() string {
	return string(m)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS COUNTERS
// ══════════════════════════════════════════════════════════════════════════════

// Counters хранит агрегированные счётчики выполненного и требуемого.
// Счётчики пересчитываются агрегатором при каждом изменении листовых записей.
// Превышение требуемого допустимо: completed > required не является ошибкой,
// при отображении процент ограничивается сверху 100%.
type Counters struct {
	// CompletedInternships - завершено стажей.
	CompletedInternships int

	// RequiredInternships - требуется стажей (из шаблона программы).
	RequiredInternships int

	// CompletedCourses - завершено курсов.
	CompletedCourses int

	// RequiredCourses - требуется курсов (из шаблона программы).
	RequiredCourses int

	// CompletedProceduresA - выполнено процедур в роли оператора (код A).
	CompletedProceduresA int

	// RequiredProceduresA - требуется процедур в роли оператора.
	RequiredProceduresA int

	// CompletedProceduresB - выполнено процедур в роли ассистента (код B).
	CompletedProceduresB int

	// RequiredProceduresB - требуется процедур в роли ассистента.
	RequiredProceduresB int

	// CompletedShiftHours - подтверждённые часы дежурств.
	CompletedShiftHours float64

	// RequiredShiftHours - требуемые часы дежурств.
	RequiredShiftHours float64

	// CompletedSelfEducationDays - дни самообразования.
	CompletedSelfEducationDays int

	// RequiredSelfEducationDays - требуемые дни самообразования.
	RequiredSelfEducationDays int
}

// Add складывает счётчики (используется при сворачивании модулей в специализацию).
func (c Counters) Add(other Counters) Counters {
	return Counters{
		CompletedInternships:       c.CompletedInternships + other.CompletedInternships,
		RequiredInternships:        c.RequiredInternships + other.RequiredInternships,
		CompletedCourses:           c.CompletedCourses + other.CompletedCourses,
		RequiredCourses:            c.RequiredCourses + other.RequiredCourses,
		CompletedProceduresA:       c.CompletedProceduresA + other.CompletedProceduresA,
		RequiredProceduresA:        c.RequiredProceduresA + other.RequiredProceduresA,
		CompletedProceduresB:       c.CompletedProceduresB + other.CompletedProceduresB,
		RequiredProceduresB:        c.RequiredProceduresB + other.RequiredProceduresB,
		CompletedShiftHours:        c.CompletedShiftHours + other.CompletedShiftHours,
		RequiredShiftHours:         c.RequiredShiftHours + other.RequiredShiftHours,
		CompletedSelfEducationDays: c.CompletedSelfEducationDays + other.CompletedSelfEducationDays,
		RequiredSelfEducationDays:  c.RequiredSelfEducationDays + other.RequiredSelfEducationDays,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SPECIALIZATION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Specialization представляет многолетнюю программу обучения резидента.
// Создаётся при зачислении, мутируется агрегатором прогресса,
// никогда не удаляется физически (только мягкий жизненный цикл).
type Specialization struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// ResidentID - владелец специализации.
	ResidentID string

	// Name - название специализации (например, "Kardiologia").
	Name string

	// ProgramCode - код программы обучения.
	ProgramCode shared.ProgramCode

	// SmkVersion - ревизия SMK, по которой ведётся программа.
	SmkVersion shared.SmkVersion

	// StartDate - дата начала программы.
	StartDate time.Time

	// NominalDurationDays - номинальная длительность программы в днях.
	NominalDurationDays int

	// PlannedEndDate - расчётная дата окончания с учётом отсутствий.
	PlannedEndDate time.Time

	// Counters - агрегированные счётчики по всем модулям.
	Counters Counters

	// Archived - программа закрыта (мягкое удаление).
	Archived bool

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// NewSpecializationParams - параметры создания специализации.
type NewSpecializationParams struct {
	ID                  string
	ResidentID          string
	Name                string
	ProgramCode         shared.ProgramCode
	SmkVersion          shared.SmkVersion
	StartDate           time.Time
	NominalDurationDays int
}

// NewSpecialization создаёт новую специализацию с валидацией.
func NewSpecialization(params NewSpecializationParams) (*Specialization, error) {
	if params.ID == "" || params.ResidentID == "" {
		return nil, shared.ErrInvalidID
	}
	if !params.ProgramCode.IsValid() {
		return nil, shared.ErrInvalidProgramCode
	}
	if !params.SmkVersion.IsValid() {
		return nil, shared.ErrInvalidSmkVersion
	}
	if params.NominalDurationDays <= 0 {
		return nil, shared.ErrInvalidDuration
	}
	if params.StartDate.IsZero() {
		return nil, shared.ErrEmptyValue
	}

	now := time.Now().UTC()
	return &Specialization{
		ID:                  params.ID,
		ResidentID:          params.ResidentID,
		Name:                params.Name,
		ProgramCode:         params.ProgramCode,
		SmkVersion:          params.SmkVersion,
		StartDate:           params.StartDate,
		NominalDurationDays: params.NominalDurationDays,
		PlannedEndDate:      params.StartDate.AddDate(0, 0, params.NominalDurationDays-1),
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// NominalEndDate возвращает дату окончания без учёта отсутствий.
func (s *Specialization) NominalEndDate() time.Time {
	return s.StartDate.AddDate(0, 0, s.NominalDurationDays-1)
}

// DurationYears возвращает длительность программы в годах (с округлением вверх).
func (s *Specialization) DurationYears() int {
	years := s.NominalDurationDays / 365
	if s.NominalDurationDays%365 != 0 {
		years++
	}
	return years
}

// Archive закрывает специализацию (мягкое удаление).
func (s *Specialization) Archive() {
	s.Archived = true
	s.UpdatedAt = time.Now().UTC()
}

// ══════════════════════════════════════════════════════════════════════════════
// MODULE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Module представляет именованную фазу специализации со своей длительностью
// и требованиями. Создаётся при инициализации специализации из шаблона
// (один или два модуля в зависимости от кода программы).
type Module struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// SpecializationID - родительская специализация.
	SpecializationID string

	// Name - название модуля.
	Name string

	// Type - тип модуля (базовый или специалистический).
	Type ModuleType

	// SmkVersion - ревизия SMK.
	SmkVersion shared.SmkVersion

	// TemplateCode - код шаблонного модуля, из которого создан.
	TemplateCode string

	// StartDate - дата начала модуля.
	StartDate time.Time

	// NominalDurationDays - номинальная длительность модуля в днях.
	NominalDurationDays int

	// EndDate - расчётная дата окончания; пересчитывается календарём
	// при каждом изменении отсутствий.
	EndDate time.Time

	// StructureSnapshot - сериализованный фрагмент шаблона на момент создания.
	StructureSnapshot []byte

	// Counters - счётчики модуля.
	Counters Counters

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// NominalEndDate возвращает дату окончания модуля без учёта отсутствий.
func (m *Module) NominalEndDate() time.Time {
	return m.StartDate.AddDate(0, 0, m.NominalDurationDays-1)
}

// Contains проверяет, попадает ли дата в окно модуля [StartDate, EndDate].
func (m *Module) Contains(date time.Time) bool {
	return !date.Before(m.StartDate) && !date.After(m.EndDate)
}
