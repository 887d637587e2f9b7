package resident

import "context"

// Repository определяет операции хранения резидентов.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// Create создаёт резидента.
	// Возвращает shared.ErrResidentAlreadyExists при дубликате email.
	Create(ctx context.Context, r *Resident) error

	// GetByID возвращает резидента по ID.
	// Возвращает shared.ErrResidentNotFound, если не найден.
	GetByID(ctx context.Context, id string) (*Resident, error)

	// GetByEmail возвращает резидента по email.
	// Возвращает shared.ErrResidentNotFound, если не найден.
	GetByEmail(ctx context.Context, email string) (*Resident, error)

	// Update обновляет резидента.
	Update(ctx context.Context, r *Resident) error

	// Delete удаляет резидента (компенсация зачисления).
	Delete(ctx context.Context, id string) error
}
