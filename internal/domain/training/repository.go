package training

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// InternshipRepository определяет операции хранения стажей.
type InternshipRepository interface {
	// Create создаёт стаж.
	Create(ctx context.Context, i *Internship) error

	// GetByID возвращает стаж по ID.
	// Возвращает shared.ErrInternshipNotFound, если не найден.
	GetByID(ctx context.Context, id string) (*Internship, error)

	// GetByModule возвращает стажи модуля.
	GetByModule(ctx context.Context, moduleID string) ([]*Internship, error)

	// Update обновляет стаж.
	Update(ctx context.Context, i *Internship) error

	// Delete удаляет стаж.
	Delete(ctx context.Context, id string) error
}

// ProcedureRepository определяет операции хранения процедур.
type ProcedureRepository interface {
	// Create создаёт процедуру.
	Create(ctx context.Context, p *Procedure) error

	// GetByID возвращает процедуру по ID.
	// Возвращает shared.ErrProcedureNotFound, если не найдена.
	GetByID(ctx context.Context, id string) (*Procedure, error)

	// GetByInternship возвращает процедуры стажа.
	GetByInternship(ctx context.Context, internshipID string) ([]*Procedure, error)

	// GetByModule возвращает процедуры модуля.
	GetByModule(ctx context.Context, moduleID string) ([]*Procedure, error)

	// CountByCodeAndDate возвращает количество процедур стажа
	// с данным кодом за данный календарный день.
	CountByCodeAndDate(ctx context.Context, internshipID, code string, date time.Time) (int, error)

	// Update обновляет процедуру.
	Update(ctx context.Context, p *Procedure) error

	// Delete удаляет процедуру.
	Delete(ctx context.Context, id string) error
}

// ShiftRepository определяет операции хранения дежурств.
type ShiftRepository interface {
	// Create создаёт дежурство.
	Create(ctx context.Context, s *MedicalShift) error

	// GetByID возвращает дежурство по ID.
	// Возвращает shared.ErrShiftNotFound, если не найдено.
	GetByID(ctx context.Context, id string) (*MedicalShift, error)

	// GetByInternship возвращает дежурства стажа.
	GetByInternship(ctx context.Context, internshipID string) ([]*MedicalShift, error)

	// GetByInternshipAndRange возвращает дежурства стажа в интервале дат.
	GetByInternshipAndRange(ctx context.Context, internshipID string, from, to time.Time) ([]*MedicalShift, error)

	// Update обновляет дежурство.
	Update(ctx context.Context, s *MedicalShift) error

	// Delete удаляет дежурство.
	Delete(ctx context.Context, id string) error
}

// CourseRepository определяет операции хранения курсов.
type CourseRepository interface {
	// Create создаёт курс.
	Create(ctx context.Context, c *Course) error

	// GetByModule возвращает курсы модуля.
	GetByModule(ctx context.Context, moduleID string) ([]*Course, error)

	// Update обновляет курс.
	Update(ctx context.Context, c *Course) error

	// Delete удаляет курс.
	Delete(ctx context.Context, id string) error
}

// SelfEducationRepository определяет операции хранения самообразования.
type SelfEducationRepository interface {
	// Create создаёт запись самообразования.
	Create(ctx context.Context, s *SelfEducation) error

	// GetBySpecialization возвращает записи специализации.
	GetBySpecialization(ctx context.Context, specializationID string) ([]*SelfEducation, error)

	// Delete удаляет запись.
	Delete(ctx context.Context, id string) error
}

// AbsenceRepository определяет операции хранения отсутствий.
type AbsenceRepository interface {
	// Create создаёт отсутствие.
	Create(ctx context.Context, a *Absence) error

	// GetByID возвращает отсутствие по ID.
	// Возвращает shared.ErrAbsenceNotFound, если не найдено.
	GetByID(ctx context.Context, id string) (*Absence, error)

	// GetBySpecialization возвращает отсутствия специализации.
	GetBySpecialization(ctx context.Context, specializationID string) ([]*Absence, error)

	// Update обновляет отсутствие.
	Update(ctx context.Context, a *Absence) error

	// Delete удаляет отсутствие.
	Delete(ctx context.Context, id string) error
}

// PublicationRepository определяет операции хранения публикаций.
type PublicationRepository interface {
	// Create создаёт публикацию.
	Create(ctx context.Context, p *Publication) error

	// GetBySpecialization возвращает публикации специализации.
	GetBySpecialization(ctx context.Context, specializationID string) ([]*Publication, error)

	// Delete удаляет публикацию.
	Delete(ctx context.Context, id string) error
}
