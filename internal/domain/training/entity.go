// Package training содержит листовые записи обучения резидента: стажи,
// дежурства, процедуры, курсы, самообразование, отсутствия и публикации.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package training

import (
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// ProcedureStatus - статус процедуры в жизненном цикле SMK.
type ProcedureStatus string

const (
	// ProcedureStatusPending - процедура запланирована или не подтверждена.
	ProcedureStatusPending ProcedureStatus = "pending"

	// ProcedureStatusCompleted - процедура выполнена.
	ProcedureStatusCompleted ProcedureStatus = "completed"

	// ProcedureStatusPartiallyCompleted - выполнена частично.
	ProcedureStatusPartiallyCompleted ProcedureStatus = "partially_completed"

	// ProcedureStatusApproved - подтверждена руководителем/SMK.
	ProcedureStatusApproved ProcedureStatus = "approved"

	// ProcedureStatusNotApproved - отклонена.
	ProcedureStatusNotApproved ProcedureStatus = "not_approved"
)

// IsValid проверяет корректность статуса.
func (s ProcedureStatus) IsValid() bool {
	switch s {
	case ProcedureStatusPending, ProcedureStatusCompleted, ProcedureStatusPartiallyCompleted,
		ProcedureStatusApproved, ProcedureStatusNotApproved:
		return true
	}
	return false
}

// CountsAsCompleted возвращает true, если статус учитывается
// в счётчиках выполненных процедур.
func (s ProcedureStatus) CountsAsCompleted() bool {
	return s == ProcedureStatusCompleted || s == ProcedureStatusApproved
}

// String returns the string representation.
func (s ProcedureStatus) String() string {
	return string(s)
}

// CourseKind - категория курса.
type CourseKind string

const (
	// CourseKindObligatory - обязательный курс программы.
	CourseKindObligatory CourseKind = "obligatory"

	// CourseKindAttestation - аттестационный курс.
	CourseKindAttestation CourseKind = "attestation"

	// CourseKindOptional - факультативный курс.
	CourseKindOptional CourseKind = "optional"
)

// SelfEducationKind - категория самообразования.
type SelfEducationKind string

const (
	// SelfEducationConference - участие в конференции.
	SelfEducationConference SelfEducationKind = "conference"

	// SelfEducationWorkshop - практический семинар.
	SelfEducationWorkshop SelfEducationKind = "workshop"

	// SelfEducationLiterature - работа с литературой.
	SelfEducationLiterature SelfEducationKind = "literature"

	// SelfEducationOther - прочее.
	SelfEducationOther SelfEducationKind = "other"
)

// PublicationKind - тип публикации.
type PublicationKind string

const (
	// PublicationArticle - статья в журнале.
	PublicationArticle PublicationKind = "article"

	// PublicationAbstract - тезисы доклада.
	PublicationAbstract PublicationKind = "abstract"

	// PublicationChapter - глава в монографии.
	PublicationChapter PublicationKind = "chapter"
)

// ══════════════════════════════════════════════════════════════════════════════
// INTERNSHIP
// ══════════════════════════════════════════════════════════════════════════════

// Internship - стаж (курс практики) в учреждении. Листовая сущность для
// прогресса: задаёт дневной/часовой знаменатель для дежурств.
type Internship struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// ModuleID - родительский модуль.
	ModuleID string

	// SpecializationID - родительская специализация.
	SpecializationID string

	// Name - название стажа.
	Name string

	// Institution - учреждение.
	Institution string

	// Department - отделение.
	Department string

	// StartDate - дата начала.
	StartDate time.Time

	// EndDate - дата окончания.
	EndDate time.Time

	// PlannedDays - запланированное количество рабочих дней.
	PlannedDays int

	// IsCompleted - стаж завершён.
	IsCompleted bool

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// Contains проверяет, попадает ли дата в окно стажа [StartDate, EndDate].
func (i *Internship) Contains(date time.Time) bool {
	return !date.Before(i.StartDate) && !date.After(i.EndDate)
}

// ══════════════════════════════════════════════════════════════════════════════
// MEDICAL SHIFT
// ══════════════════════════════════════════════════════════════════════════════

// MedicalShift - медицинское дежурство.
// Дежурство, отправленное или подтверждённое в SMK, становится неизменяемым.
type MedicalShift struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// InternshipID - родительский стаж.
	InternshipID string

	// Date - дата и время начала дежурства.
	Date time.Time

	// Duration - длительность дежурства. Минуты могут превышать 59 и
	// нормализуются только при отображении и агрегации.
	Duration ShiftDuration

	// Location - место дежурства.
	Location string

	// SyncStatus - состояние синхронизации с SMK.
	SyncStatus shared.SyncStatus

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// IsLocked возвращает true, если дежурство нельзя менять или удалять.
func (s *MedicalShift) IsLocked() bool {
	return s.SyncStatus.Locks()
}

// IsApproved возвращает true, если дежурство подтверждено SMK.
func (s *MedicalShift) IsApproved() bool {
	return s.SyncStatus == shared.SyncStatusApproved
}

// ══════════════════════════════════════════════════════════════════════════════
// PROCEDURE
// ══════════════════════════════════════════════════════════════════════════════

// Procedure - медицинская процедура (запись о выполнении).
// Одна запись для обеих ревизий SMK: версия определяется тегом SmkVersion,
// а версионно-специфичные поля заполняются только для своей ревизии
// (TrainingYear для старой, RequirementID для новой). Правила ветвятся по
// тегу в валидаторе, без виртуальной диспетчеризации.
type Procedure struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// InternshipID - родительский стаж.
	InternshipID string

	// ModuleID - модуль, к которому отнесена процедура.
	ModuleID string

	// Date - дата выполнения.
	Date time.Time

	// Code - код процедуры по классификатору.
	Code string

	// Role - роль исполнения (оператор A / ассистент B).
	Role shared.ExecutionRole

	// Status - статус процедуры.
	Status ProcedureStatus

	// SmkVersion - ревизия SMK записи.
	SmkVersion shared.SmkVersion

	// PerformingPerson - исполнитель (обязателен для завершённых
	// процедур старой ревизии).
	PerformingPerson string

	// Supervisor - руководитель (обязателен для завершённых
	// процедур новой ревизии).
	Supervisor string

	// TrainingYear - год обучения (только старая ревизия; 0 = не назначен).
	TrainingYear shared.TrainingYear

	// RequirementID - ссылка на пункт требований шаблона (только новая ревизия).
	RequirementID string

	// Location - место выполнения.
	Location string

	// PatientInitials - инициалы пациента.
	PatientInitials string

	// SyncStatus - состояние синхронизации с SMK.
	SyncStatus shared.SyncStatus

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// IsLocked возвращает true, если процедуру нельзя менять или удалять.
func (p *Procedure) IsLocked() bool {
	return p.SyncStatus.Locks()
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE / SELF-EDUCATION / ABSENCE / PUBLICATION
// ══════════════════════════════════════════════════════════════════════════════

// Course - курс повышения квалификации.
type Course struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// ModuleID - родительский модуль.
	ModuleID string

	// SpecializationID - родительская специализация.
	SpecializationID string

	// Name - название курса.
	Name string

	// Kind - категория курса.
	Kind CourseKind

	// StartDate - дата начала.
	StartDate time.Time

	// EndDate - дата окончания.
	EndDate time.Time

	// IsCompleted - курс завершён.
	IsCompleted bool

	// CountsTowardRequired - учитывается в требуемых итогах программы.
	CountsTowardRequired bool

	// CertificateNumber - номер сертификата.
	CertificateNumber string

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// SelfEducation - активность самообразования.
type SelfEducation struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// SpecializationID - родительская специализация.
	SpecializationID string

	// Title - название активности.
	Title string

	// Kind - категория.
	Kind SelfEducationKind

	// Date - дата активности.
	Date time.Time

	// DurationDays - длительность в днях.
	DurationDays int

	// CountsTowardRequired - учитывается в требуемых итогах программы.
	CountsTowardRequired bool

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// Absence - интервал отсутствия резидента.
// В зависимости от вида продлевает или сокращает расчётный срок программы.
type Absence struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// SpecializationID - родительская специализация.
	SpecializationID string

	// Kind - вид отсутствия.
	Kind shared.AbsenceKind

	// StartDate - первый день отсутствия.
	StartDate time.Time

	// EndDate - последний день отсутствия.
	EndDate time.Time

	// Description - комментарий.
	Description string

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// AffectsTimeline возвращает true, если отсутствие влияет на срок программы.
func (a *Absence) AffectsTimeline() bool {
	return a.Kind.TimelineEffect() != shared.EffectNone
}

// Publication - научная публикация резидента.
type Publication struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// SpecializationID - родительская специализация.
	SpecializationID string

	// Title - название публикации.
	Title string

	// Kind - тип публикации.
	Kind PublicationKind

	// Date - дата публикации.
	Date time.Time

	// CountsTowardRequired - учитывается в требуемых итогах программы.
	CountsTowardRequired bool

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}
