// Package compliance реализует проверку записей обучения на соответствие
// правилам SMK. Правила зависят от ревизии программы (old/new) и ветвятся
// по тегу версии записи - без виртуальной диспетчеризации. Вердикт
// возвращается структурой с машиночитаемыми кодами причин, чтобы вызывающая
// сторона могла показать все ошибки и предупреждения сразу.
package compliance

// Reason - машиночитаемый код причины ошибки или предупреждения.
type Reason string

const (
	// ReasonRecordLocked - запись синхронизирована с SMK и неизменяема.
	ReasonRecordLocked Reason = "record_locked"

	// ReasonMissingPerformingPerson - для завершённой процедуры старой
	// ревизии не указан исполнитель.
	ReasonMissingPerformingPerson Reason = "missing_performing_person"

	// ReasonMissingSupervisor - для завершённой процедуры новой ревизии
	// не указан руководитель.
	ReasonMissingSupervisor Reason = "missing_supervisor"

	// ReasonYearOutOfRange - год обучения вне доступного диапазона.
	ReasonYearOutOfRange Reason = "training_year_out_of_range"

	// ReasonYearNotAllowed - в новой ревизии год обучения должен быть 0;
	// ненулевое значение терпимо для обратной совместимости (предупреждение).
	ReasonYearNotAllowed Reason = "training_year_not_allowed"

	// ReasonDateOutsideInternship - дата записи вне окна родительского стажа.
	ReasonDateOutsideInternship Reason = "date_outside_internship"

	// ReasonInvalidRole - роль исполнения не является ни A, ни B.
	ReasonInvalidRole Reason = "invalid_execution_role"

	// ReasonInvalidStatus - неизвестный статус процедуры.
	ReasonInvalidStatus Reason = "invalid_status"

	// ReasonInvalidDuration - недопустимая длительность дежурства.
	ReasonInvalidDuration Reason = "invalid_shift_duration"

	// ReasonInternshipMissing - родительский стаж не найден или удалён.
	ReasonInternshipMissing Reason = "internship_missing"

	// ReasonLikelyDuplicate - подозрение на дубликат: больше трёх процедур
	// одного кода за один календарный день.
	ReasonLikelyDuplicate Reason = "likely_duplicate"

	// ReasonDailyLimitExceeded - превышен настроенный дневной лимит по коду.
	ReasonDailyLimitExceeded Reason = "daily_limit_exceeded"

	// ReasonWeeklyHoursExceeded - недельные часы дежурств превышают норму.
	ReasonWeeklyHoursExceeded Reason = "weekly_hours_exceeded"

	// ReasonMonthlyHoursDeficit - подтверждённых часов за месяц меньше нормы.
	ReasonMonthlyHoursDeficit Reason = "monthly_hours_deficit"
)

// Пороговые значения числовых правил.
const (
	// SameDayDuplicateThreshold - количество процедур одного кода за день,
	// свыше которого запись помечается как вероятный дубликат.
	SameDayDuplicateThreshold = 3

	// WeeklyShiftHoursCap - максимальные часы дежурств в неделю.
	WeeklyShiftHoursCap = 48.0

	// MonthlyApprovedHoursMinimum - минимальные подтверждённые часы в месяц.
	MonthlyApprovedHoursMinimum = 160.0
)
