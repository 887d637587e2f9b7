package specialization

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS CALCULATIONS
// Взвешенный процент выполнения модуля. Формула и веса перенесены из
// действующих правил продукта и не подлежат самостоятельной "починке":
// 0.35·стажи + 0.25·курсы + 0.30·процедуры + 0.10 (вклад прочей активности).
// ══════════════════════════════════════════════════════════════════════════════

// Веса компонент общего прогресса. Политика продукта, не выводимая величина.
const (
	WeightInternships = 0.35
	WeightCourses     = 0.25
	WeightProcedures  = 0.30
	WeightOther       = 0.10
)

// DefaultWeeklyShiftHours - недельная норма дежурств, применяемая когда шаблон
// не задаёт ни общего количества часов, ни недельной нормы (10 часов 5 минут).
const DefaultWeeklyShiftHours = 10.083

// Ratio возвращает отношение completed/required, ограниченное [0, 1].
// При required <= 0 возвращает 0. Перевыполнение даёт 1.0, а не больше.
func Ratio(completed, required int) float64 {
	if required <= 0 {
		return 0
	}
	r := float64(completed) / float64(required)
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}

// HoursRatio - то же для дробных величин (часы дежурств).
func HoursRatio(completed, required float64) float64 {
	if required <= 0 {
		return 0
	}
	r := completed / required
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}

// ProcedureRatio возвращает средневзвешенное по ролям отношение выполненных
// процедур: вес каждой роли равен её требуемому количеству. Если по обеим
// ролям ничего не требуется, возвращает 0.
func ProcedureRatio(c Counters) float64 {
	totalRequired := c.RequiredProceduresA + c.RequiredProceduresB
	if totalRequired <= 0 {
		return 0
	}

	ratioA := Ratio(c.CompletedProceduresA, c.RequiredProceduresA)
	ratioB := Ratio(c.CompletedProceduresB, c.RequiredProceduresB)

	weightA := float64(c.RequiredProceduresA) / float64(totalRequired)
	weightB := float64(c.RequiredProceduresB) / float64(totalRequired)

	return ratioA*weightA + ratioB*weightB
}

// progressEpsilon поглощает погрешность сложения весов: сумма
// 0.35+0.25+0.30+0.10 в float64 чуть меньше единицы, а полностью
// выполненный модуль обязан давать ровно 1.0.
const progressEpsilon = 1e-9

// OverallProgress вычисляет взвешенный общий прогресс модуля в [0, 1].
// Постоянное слагаемое WeightOther отражает немоделируемую "прочую"
// активность; итог ограничен сверху 1.0.
func OverallProgress(c Counters) float64 {
	progress := WeightInternships*Ratio(c.CompletedInternships, c.RequiredInternships) +
		WeightCourses*Ratio(c.CompletedCourses, c.RequiredCourses) +
		WeightProcedures*ProcedureRatio(c) +
		WeightOther

	if progress >= 1-progressEpsilon {
		return 1
	}
	return progress
}

// RequiredShiftHours выводит требуемое количество часов дежурств для модуля.
// Приоритет: явное общее количество из шаблона; иначе недельная норма шаблона
// (или DefaultWeeklyShiftHours) умножается на число полных недель модуля,
// но не меньше одной недели.
func RequiredShiftHours(templateTotalHours, templateWeeklyHours float64, moduleDurationDays int) float64 {
	if templateTotalHours > 0 {
		return templateTotalHours
	}

	weekly := templateWeeklyHours
	if weekly <= 0 {
		weekly = DefaultWeeklyShiftHours
	}

	weeks := moduleDurationDays / 7
	if weeks < 1 {
		weeks = 1
	}
	return weekly * float64(weeks)
}

// RollupCounters сворачивает счётчики модулей в счётчики специализации.
// Это плоская сумма, а не повторный вывод из шаблонов.
func RollupCounters(modules []*Module) Counters {
	var total Counters
	for _, m := range modules {
		total = total.Add(m.Counters)
	}
	return total
}
