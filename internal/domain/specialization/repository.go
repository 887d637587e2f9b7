package specialization

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения специализаций.
type Repository interface {
	// Create создаёт новую специализацию.
	// Возвращает shared.ErrAlreadyExists, если специализация уже существует.
	Create(ctx context.Context, s *Specialization) error

	// GetByID возвращает специализацию по ID.
	// Возвращает shared.ErrSpecializationNotFound, если не найдена.
	GetByID(ctx context.Context, id string) (*Specialization, error)

	// GetByResident возвращает специализации резидента.
	GetByResident(ctx context.Context, residentID string) ([]*Specialization, error)

	// Update обновляет специализацию (счётчики, расчётные даты).
	Update(ctx context.Context, s *Specialization) error

	// GetAll возвращает все активные специализации (для фонового пересчёта).
	GetAll(ctx context.Context) ([]*Specialization, error)
}

// ModuleRepository определяет операции хранения модулей.
type ModuleRepository interface {
	// Create создаёт модуль.
	Create(ctx context.Context, m *Module) error

	// GetByID возвращает модуль по ID.
	// Возвращает shared.ErrModuleNotFound, если не найден.
	GetByID(ctx context.Context, id string) (*Module, error)

	// GetBySpecialization возвращает модули специализации
	// в порядке их дат начала.
	GetBySpecialization(ctx context.Context, specializationID string) ([]*Module, error)

	// Update обновляет модуль (счётчики, расчётную дату окончания).
	Update(ctx context.Context, m *Module) error
}
