package specialization

import (
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CALENDAR (Date Calculator)
// Чистые функции расчёта дат программы с учётом отсутствий.
// Больничные и декретные отпуска продлевают срок, признанный стаж сокращает,
// остальные виды отсутствий на срок не влияют.
// ══════════════════════════════════════════════════════════════════════════════

// AbsenceWindow - интервал отсутствия для календарных расчётов.
// Даты трактуются как календарные дни включительно с обеих сторон.
type AbsenceWindow struct {
	// Kind - вид отсутствия (определяет влияние на срок).
	Kind shared.AbsenceKind

	// Start - первый день отсутствия.
	Start time.Time

	// End - последний день отсутствия.
	End time.Time
}

// Days возвращает длительность интервала в днях (включительно).
func (w AbsenceWindow) Days() int {
	return timeutil.DaysBetween(w.Start, w.End)
}

// clip обрезает интервал по окну [from, to]. Возвращает ноль дней,
// если интервал целиком вне окна.
func (w AbsenceWindow) clip(from, to time.Time) AbsenceWindow {
	clipped := w
	if clipped.Start.Before(from) {
		clipped.Start = from
	}
	if clipped.End.After(to) {
		clipped.End = to
	}
	return clipped
}

// ComputeEndDate вычисляет дату окончания программы или модуля.
// База: start + nominalDays − 1. Каждое продлевающее отсутствие добавляет
// свою длительность, признанный стаж вычитает. Итог никогда не раньше start.
func ComputeEndDate(start time.Time, nominalDays int, absences []AbsenceWindow) time.Time {
	end := start.AddDate(0, 0, nominalDays-1)

	for _, a := range absences {
		days := a.Days()
		if days <= 0 {
			continue
		}
		switch a.Kind.TimelineEffect() {
		case shared.EffectExtends:
			end = end.AddDate(0, 0, days)
		case shared.EffectReduces:
			end = end.AddDate(0, 0, -days)
		}
	}

	if end.Before(start) {
		return start
	}
	return end
}

// ComputeModuleEndDate вычисляет дату окончания модуля. В отличие от
// ComputeEndDate каждый интервал сначала обрезается по номинальному окну
// модуля: отсутствие, пересекающее несколько модулей, учитывается в каждом
// только теми днями, которые реально попадают в его окно.
func ComputeModuleEndDate(start time.Time, nominalDays int, absences []AbsenceWindow) time.Time {
	nominalEnd := start.AddDate(0, 0, nominalDays-1)

	clipped := make([]AbsenceWindow, 0, len(absences))
	for _, a := range absences {
		c := a.clip(start, nominalEnd)
		if c.Days() <= 0 {
			continue
		}
		clipped = append(clipped, c)
	}

	return ComputeEndDate(start, nominalDays, clipped)
}

// WorkingDaysBetween возвращает количество будних дней в [start, end]
// включительно. Используется для дневных знаменателей стажей.
func WorkingDaysBetween(start, end time.Time) int {
	return timeutil.WorkingDaysBetween(start, end)
}

// AvailableYearRange возвращает диапазон доступных лет обучения [1..N]
// на дату now: сколько лет программы уже началось, но не больше полной
// длительности. До начала программы доступен только первый год.
func AvailableYearRange(s *Specialization, now time.Time) (minYear, maxYear int) {
	if s == nil {
		return 1, 1
	}

	elapsed := timeutil.MonthsBetween(s.StartDate, now)
	years := elapsed/12 + 1

	total := s.DurationYears()
	if years > total {
		years = total
	}
	if years < 1 {
		years = 1
	}
	return 1, years
}

// ══════════════════════════════════════════════════════════════════════════════
// IMPORTANT DATES
// ══════════════════════════════════════════════════════════════════════════════

// MilestoneKind - тип вехи программы.
type MilestoneKind string

const (
	// MilestoneSpecializationStart - начало специализации.
	MilestoneSpecializationStart MilestoneKind = "specialization_start"

	// MilestoneModuleStart - начало модуля.
	MilestoneModuleStart MilestoneKind = "module_start"

	// MilestoneModuleEnd - расчётное окончание модуля.
	MilestoneModuleEnd MilestoneKind = "module_end"

	// MilestoneSpecializationEnd - расчётное окончание специализации.
	MilestoneSpecializationEnd MilestoneKind = "specialization_end"
)

// Milestone - одна веха в хронологии программы.
type Milestone struct {
	// Kind - тип вехи.
	Kind MilestoneKind

	// Date - расчётная дата.
	Date time.Time

	// Label - подпись (название модуля и т.п.).
	Label string
}

// BuildTimeline строит хронологию ключевых дат программы с учётом отсутствий.
// Вехи возвращаются в хронологическом порядке построения: начало программы,
// границы модулей, затем окончание программы.
func BuildTimeline(s *Specialization, modules []*Module, absences []AbsenceWindow) []Milestone {
	if s == nil {
		return nil
	}

	timeline := []Milestone{
		{Kind: MilestoneSpecializationStart, Date: s.StartDate, Label: s.Name},
	}

	for _, m := range modules {
		timeline = append(timeline,
			Milestone{Kind: MilestoneModuleStart, Date: m.StartDate, Label: m.Name},
			Milestone{
				Kind:  MilestoneModuleEnd,
				Date:  ComputeModuleEndDate(m.StartDate, m.NominalDurationDays, absences),
				Label: m.Name,
			},
		)
	}

	timeline = append(timeline, Milestone{
		Kind:  MilestoneSpecializationEnd,
		Date:  ComputeEndDate(s.StartDate, s.NominalDurationDays, absences),
		Label: s.Name,
	})

	return timeline
}
