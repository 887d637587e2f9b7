// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// EntityID represents a unique entity identifier (UUID format).
type EntityID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the ID is a valid UUID.
func (e EntityID) IsValid() bool {
	return uuidRegex.MatchString(string(e))
}

// String returns the string representation.
func (e EntityID) String() string {
	return string(e)
}

// IsEmpty checks if the ID is empty.
func (e EntityID) IsEmpty() bool {
	return e == ""
}

// NewEntityID creates an EntityID with validation.
func NewEntityID(id string) (EntityID, error) {
	e := EntityID(strings.TrimSpace(id))
	if !e.IsValid() {
		return "", ErrInvalidID
	}
	return e, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// SMK Version
// ═══════════════════════════════════════════════════════════════════════════

// SmkVersion различает две несовместимые ревизии государственной системы SMK.
// От версии зависят обязательные поля записей и семантика года обучения.
type SmkVersion string

const (
	// SmkVersionOld - старая ревизия SMK (год обучения на процедуре, исполнитель обязателен).
	SmkVersionOld SmkVersion = "old"

	// SmkVersionNew - новая ревизия SMK (ссылка на пункт шаблона, руководитель обязателен).
	SmkVersionNew SmkVersion = "new"
)

// IsValid проверяет корректность версии.
func (v SmkVersion) IsValid() bool {
	return v == SmkVersionOld || v == SmkVersionNew
}

// String returns the string representation.
func (v SmkVersion) String() string {
	return string(v)
}

// ParseSmkVersion парсит строку в SmkVersion.
func ParseSmkVersion(s string) (SmkVersion, error) {
	v := SmkVersion(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", ErrInvalidSmkVersion
	}
	return v, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Program Code
// ═══════════════════════════════════════════════════════════════════════════

// ProgramCode - код программы специализации (например, "703" - кардиология).
type ProgramCode string

var programCodeRegex = regexp.MustCompile(`^[0-9]{3,4}$`)

// IsValid проверяет формат кода программы.
func (p ProgramCode) IsValid() bool {
	return programCodeRegex.MatchString(string(p))
}

// String returns the string representation.
func (p ProgramCode) String() string {
	return string(p)
}

// NewProgramCode создаёт ProgramCode с валидацией.
func NewProgramCode(code string) (ProgramCode, error) {
	p := ProgramCode(strings.TrimSpace(code))
	if !p.IsValid() {
		return "", ErrInvalidProgramCode
	}
	return p, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Execution Role
// ═══════════════════════════════════════════════════════════════════════════

// ExecutionRole - роль резидента при выполнении процедуры.
// Роль бинарна: либо оператор (A), либо ассистент (B).
type ExecutionRole string

const (
	// RoleOperator - резидент выполнял процедуру самостоятельно (код A).
	RoleOperator ExecutionRole = "A"

	// RoleAssistant - резидент ассистировал (код B).
	RoleAssistant ExecutionRole = "B"
)

// IsValid проверяет корректность роли.
func (r ExecutionRole) IsValid() bool {
	return r == RoleOperator || r == RoleAssistant
}

// String returns the string representation.
func (r ExecutionRole) String() string {
	return string(r)
}

// ParseExecutionRole парсит строку в ExecutionRole.
func ParseExecutionRole(s string) (ExecutionRole, error) {
	r := ExecutionRole(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Training Year
// ═══════════════════════════════════════════════════════════════════════════

// TrainingYear - год обучения, к которому отнесена процедура (1..N).
// Значение 0 означает "не назначен" и не является календарным годом даты.
type TrainingYear int

const (
	// TrainingYearUnassigned - год обучения не назначен.
	TrainingYearUnassigned TrainingYear = 0

	// MaxTrainingYears - максимальная длительность программы в годах.
	MaxTrainingYears = 8
)

// IsValid проверяет, что год в допустимом диапазоне.
func (y TrainingYear) IsValid() bool {
	return y >= 0 && y <= MaxTrainingYears
}

// IsAssigned возвращает true, если год назначен.
func (y TrainingYear) IsAssigned() bool {
	return y != TrainingYearUnassigned
}

// Int returns the underlying int value.
func (y TrainingYear) Int() int {
	return int(y)
}

// String returns the string representation.
func (y TrainingYear) String() string {
	if y == TrainingYearUnassigned {
		return "unassigned"
	}
	return fmt.Sprintf("%d", int(y))
}

// ═══════════════════════════════════════════════════════════════════════════
// Sync State
// ═══════════════════════════════════════════════════════════════════════════

// SyncStatus - состояние синхронизации записи с внешней системой SMK.
// Запись, подтверждённая SMK, становится неизменяемой.
type SyncStatus string

const (
	// SyncStatusNotSynced - запись существует только локально.
	SyncStatusNotSynced SyncStatus = "not_synced"

	// SyncStatusSubmitted - запись отправлена в SMK и ждёт решения.
	SyncStatusSubmitted SyncStatus = "submitted"

	// SyncStatusApproved - запись подтверждена SMK.
	SyncStatusApproved SyncStatus = "approved"

	// SyncStatusRejected - запись отклонена SMK.
	SyncStatusRejected SyncStatus = "rejected"
)

// IsValid проверяет корректность состояния.
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusNotSynced, SyncStatusSubmitted, SyncStatusApproved, SyncStatusRejected:
		return true
	}
	return false
}

// Locks возвращает true, если состояние делает запись неизменяемой.
// Отправленные и подтверждённые записи нельзя редактировать или удалять.
func (s SyncStatus) Locks() bool {
	return s == SyncStatusSubmitted || s == SyncStatusApproved
}

// String returns the string representation.
func (s SyncStatus) String() string {
	return string(s)
}
