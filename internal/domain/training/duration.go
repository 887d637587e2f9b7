package training

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// SHIFT DURATION
// Длительность дежурства хранится как часы + минуты в том виде, в котором её
// ввёл резидент: минуты могут превышать 59 (например "10 часов 90 минут").
// Нормализация выполняется только при отображении и агрегации - никогда
// молча при записи.
// ══════════════════════════════════════════════════════════════════════════════

// ShiftDuration - длительность дежурства в часах и минутах.
type ShiftDuration struct {
	// Hours - часы (неотрицательные).
	Hours int

	// Minutes - минуты; могут превышать 59 до нормализации.
	Minutes int
}

// IsValid проверяет, что компоненты неотрицательны и длительность ненулевая.
func (d ShiftDuration) IsValid() bool {
	return d.Hours >= 0 && d.Minutes >= 0 && (d.Hours > 0 || d.Minutes > 0)
}

// TotalMinutes возвращает полную длительность в минутах.
func (d ShiftDuration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// Normalized возвращает эквивалентную длительность с минутами в [0, 59].
func (d ShiftDuration) Normalized() ShiftDuration {
	total := d.TotalMinutes()
	return ShiftDuration{Hours: total / 60, Minutes: total % 60}
}

// Add складывает две длительности без нормализации компонент.
func (d ShiftDuration) Add(other ShiftDuration) ShiftDuration {
	return ShiftDuration{Hours: d.Hours + other.Hours, Minutes: d.Minutes + other.Minutes}
}

// HoursFloat возвращает длительность в часах как дробное число.
func (d ShiftDuration) HoursFloat() float64 {
	return float64(d.TotalMinutes()) / 60.0
}

// String возвращает нормализованное представление "ЧЧ:ММ".
func (d ShiftDuration) String() string {
	n := d.Normalized()
	return fmt.Sprintf("%02d:%02d", n.Hours, n.Minutes)
}
