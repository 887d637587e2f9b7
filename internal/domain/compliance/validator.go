package compliance

import (
	"fmt"
	"strings"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESULT
// ══════════════════════════════════════════════════════════════════════════════

// Issue - одна найденная проблема с машиночитаемым кодом.
type Issue struct {
	// Code - код причины.
	Code Reason

	// Field - имя поля, к которому относится проблема (если применимо).
	Field string

	// Detail - человекочитаемое пояснение.
	Detail string
}

// Result - вердикт проверки. Ошибки блокируют сохранение записи,
// предупреждения возвращаются вместе с успешным результатом и носят
// рекомендательный характер.
type Result struct {
	// Errors - блокирующие нарушения.
	Errors []Issue

	// Warnings - рекомендательные замечания.
	Warnings []Issue
}

// Valid возвращает true, если блокирующих нарушений нет.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// FirstError возвращает первое блокирующее нарушение (для краткого
// сообщения пользователю) либо nil.
func (r Result) FirstError() *Issue {
	if len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

func (r *Result) addError(code Reason, field, detail string) {
	r.Errors = append(r.Errors, Issue{Code: code, Field: field, Detail: detail})
}

func (r *Result) addWarning(code Reason, field, detail string) {
	r.Warnings = append(r.Warnings, Issue{Code: code, Field: field, Detail: detail})
}

// ══════════════════════════════════════════════════════════════════════════════
// VALIDATOR
// ══════════════════════════════════════════════════════════════════════════════

// Validator проверяет записи обучения на соответствие правилам SMK.
type Validator struct {
	// dailyCodeLimits - настроенные дневные лимиты по кодам процедур.
	// Код, отсутствующий в карте, лимита не имеет.
	dailyCodeLimits map[string]int
}

// NewValidator создаёт валидатор без настроенных дневных лимитов.
func NewValidator() *Validator {
	return &Validator{dailyCodeLimits: map[string]int{}}
}

// NewValidatorWithLimits создаёт валидатор с дневными лимитами по кодам.
func NewValidatorWithLimits(dailyCodeLimits map[string]int) *Validator {
	if dailyCodeLimits == nil {
		dailyCodeLimits = map[string]int{}
	}
	return &Validator{dailyCodeLimits: dailyCodeLimits}
}

// EnsureMutable проверяет замок записи. Вызывается первой, до всех
// остальных правил: попытка изменить или удалить запись, подтверждённую
// SMK, завершается shared.ErrRecordLocked.
func (v *Validator) EnsureMutable(status shared.SyncStatus) error {
	if status.Locks() {
		return shared.ErrRecordLocked
	}
	return nil
}

// ValidateProcedure проверяет процедуру в контексте её специализации и
// родительского стажа. now задаёт момент вычисления доступных лет обучения.
func (v *Validator) ValidateProcedure(
	p *training.Procedure,
	spec *specialization.Specialization,
	internship *training.Internship,
	now time.Time,
) Result {
	var result Result

	// Роль бинарна: либо оператор, либо ассистент.
	if !p.Role.IsValid() {
		result.addError(ReasonInvalidRole, "role",
			fmt.Sprintf("execution role %q is neither A nor B", p.Role))
	}

	if !p.Status.IsValid() {
		result.addError(ReasonInvalidStatus, "status",
			fmt.Sprintf("unknown procedure status %q", p.Status))
	}

	// Временное включение: дата процедуры должна попадать в окно стажа.
	if internship == nil {
		result.addError(ReasonInternshipMissing, "internship_id",
			"parent internship does not exist or was deleted")
	} else if !internship.Contains(p.Date) {
		result.addError(ReasonDateOutsideInternship, "date", fmt.Sprintf(
			"procedure date %s is outside internship window %s..%s",
			p.Date.Format("2006-01-02"),
			internship.StartDate.Format("2006-01-02"),
			internship.EndDate.Format("2006-01-02"),
		))
	}

	v.validateVersionFields(p, spec, now, &result)

	return result
}

// validateVersionFields применяет правила, зависящие от ревизии SMK.
func (v *Validator) validateVersionFields(
	p *training.Procedure,
	spec *specialization.Specialization,
	now time.Time,
	result *Result,
) {
	completed := p.Status.CountsAsCompleted()

	switch p.SmkVersion {
	case shared.SmkVersionOld:
		// Завершённая процедура старой ревизии требует исполнителя.
		if completed && strings.TrimSpace(p.PerformingPerson) == "" {
			result.addError(ReasonMissingPerformingPerson, "performing_person",
				"performing person is required for a completed procedure")
		}

		// Назначенный год должен попадать в доступный диапазон;
		// ноль означает "не назначен" и диапазон не проверяется.
		if p.TrainingYear.IsAssigned() {
			minYear, maxYear := specialization.AvailableYearRange(spec, now)
			year := p.TrainingYear.Int()
			if year < minYear || year > maxYear {
				result.addError(ReasonYearOutOfRange, "training_year", fmt.Sprintf(
					"training year %d is outside the available range %d..%d",
					year, minYear, maxYear))
			}
		}

	case shared.SmkVersionNew:
		// Завершённая процедура новой ревизии требует руководителя.
		if completed && strings.TrimSpace(p.Supervisor) == "" {
			result.addError(ReasonMissingSupervisor, "supervisor",
				"supervisor is required for a completed procedure")
		}

		// Год обучения в новой ревизии не используется. Ненулевое значение
		// терпимо для записей, перенесённых из старой ревизии.
		if p.TrainingYear.IsAssigned() {
			result.addWarning(ReasonYearNotAllowed, "training_year",
				"training year is ignored in the new SMK revision")
		}

	default:
		result.addError(ReasonInvalidStatus, "smk_version",
			fmt.Sprintf("unknown SMK version %q", p.SmkVersion))
	}
}

// ValidateShift проверяет дежурство в контексте родительского стажа.
func (v *Validator) ValidateShift(s *training.MedicalShift, internship *training.Internship) Result {
	var result Result

	if !s.Duration.IsValid() {
		result.addError(ReasonInvalidDuration, "duration",
			"shift duration must be positive")
	}

	if internship == nil {
		result.addError(ReasonInternshipMissing, "internship_id",
			"parent internship does not exist or was deleted")
	} else if !internship.Contains(s.Date) {
		result.addError(ReasonDateOutsideInternship, "date", fmt.Sprintf(
			"shift date %s is outside internship window %s..%s",
			s.Date.Format("2006-01-02"),
			internship.StartDate.Format("2006-01-02"),
			internship.EndDate.Format("2006-01-02"),
		))
	}

	return result
}

// ══════════════════════════════════════════════════════════════════════════════
// NUMERIC CAPS
// Числовые пороги поверх агрегатов. Всегда предупреждения, не ошибки:
// они вычисляются статистическим слоем и носят информационный характер.
// ══════════════════════════════════════════════════════════════════════════════

// CheckSameDayCount помечает вероятный дубликат: sameDayCount - количество
// уже существующих процедур того же кода за тот же календарный день.
// Предупреждение появляется на пятой одинаковой записи за день (когда
// существующих уже больше SameDayDuplicateThreshold), не на четвёртой.
func (v *Validator) CheckSameDayCount(code string, sameDayCount int) *Issue {
	if sameDayCount > SameDayDuplicateThreshold {
		return &Issue{
			Code:  ReasonLikelyDuplicate,
			Field: "code",
			Detail: fmt.Sprintf("%d procedures with code %s on the same day look like duplicates",
				sameDayCount+1, code),
		}
	}

	if limit, ok := v.dailyCodeLimits[code]; ok && sameDayCount >= limit {
		return &Issue{
			Code:  ReasonDailyLimitExceeded,
			Field: "code",
			Detail: fmt.Sprintf("daily limit of %d for code %s exceeded", limit, code),
		}
	}

	return nil
}

// CheckWeeklyHours помечает превышение недельной нормы часов дежурств.
func (v *Validator) CheckWeeklyHours(weekKey string, hours float64) *Issue {
	if hours > WeeklyShiftHoursCap {
		return &Issue{
			Code:  ReasonWeeklyHoursExceeded,
			Field: "duration",
			Detail: fmt.Sprintf("week %s has %.1f shift hours, above the %.0f hour cap",
				weekKey, hours, WeeklyShiftHoursCap),
		}
	}
	return nil
}

// CheckMonthlyApprovedHours помечает дефицит подтверждённых часов за месяц.
func (v *Validator) CheckMonthlyApprovedHours(approvedHours float64) *Issue {
	if approvedHours < MonthlyApprovedHoursMinimum {
		return &Issue{
			Code:  ReasonMonthlyHoursDeficit,
			Field: "duration",
			Detail: fmt.Sprintf("only %.1f approved hours this month, below the %.0f hour norm",
				approvedHours, MonthlyApprovedHoursMinimum),
		}
	}
	return nil
}
