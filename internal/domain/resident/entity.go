// Package resident содержит доменную модель резидента - владельца
// специализаций. Здесь нет внешних зависимостей.
package resident

import (
	"strings"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
)

// Status определяет текущий статус резидента в программе.
type Status string

const (
	// StatusActive - резидент активно обучается.
	StatusActive Status = "active"

	// StatusSuspended - обучение приостановлено.
	StatusSuspended Status = "suspended"

	// StatusGraduated - резидент завершил специализацию.
	StatusGraduated Status = "graduated"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusSuspended || s == StatusGraduated
}

// Resident представляет врача-резидента.
type Resident struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// Email - адрес для входа.
	Email string

	// PasswordHash - bcrypt-хеш пароля, задаётся при зачислении.
	PasswordHash string

	// FullName - полное имя.
	FullName string

	// LicenseNumber - номер врачебной лицензии (PWZ).
	LicenseNumber string

	// Status - текущий статус.
	Status Status

	// CreatedAt - время создания.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// NewResidentParams - параметры создания резидента.
type NewResidentParams struct {
	ID            string
	Email         string
	PasswordHash  string
	FullName      string
	LicenseNumber string
}

// NewResident создаёт нового резидента с валидацией.
func NewResident(params NewResidentParams) (*Resident, error) {
	if params.ID == "" {
		return nil, shared.ErrInvalidID
	}
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.ErrInvalidEmail
	}
	if strings.TrimSpace(params.FullName) == "" {
		return nil, shared.ErrEmptyValue
	}

	now := time.Now().UTC()
	return &Resident{
		ID:            params.ID,
		Email:         email,
		PasswordHash:  params.PasswordHash,
		FullName:      strings.TrimSpace(params.FullName),
		LicenseNumber: strings.TrimSpace(params.LicenseNumber),
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Graduate помечает резидента завершившим программу.
func (r *Resident) Graduate() {
	r.Status = StatusGraduated
	r.UpdatedAt = time.Now().UTC()
}
