package shared

// TimelineEffect описывает влияние отсутствия на расчётный срок программы.
type TimelineEffect int

const (
	// EffectNone - отсутствие не влияет на срок.
	EffectNone TimelineEffect = iota

	// EffectExtends - отсутствие продлевает программу на свою длительность.
	EffectExtends

	// EffectReduces - зачтённый стаж сокращает программу.
	EffectReduces
)

// AbsenceKind - вид отсутствия резидента.
type AbsenceKind string

const (
	// AbsenceSickLeave - больничный (L4).
	AbsenceSickLeave AbsenceKind = "sick_leave"

	// AbsenceMaternityLeave - декретный отпуск.
	AbsenceMaternityLeave AbsenceKind = "maternity_leave"

	// AbsencePaternityLeave - отпуск по уходу за ребёнком для отца.
	AbsencePaternityLeave AbsenceKind = "paternity_leave"

	// AbsenceRecognition - признание предыдущего стажа обучения.
	AbsenceRecognition AbsenceKind = "recognition"

	// AbsenceVacation - ежегодный отпуск.
	AbsenceVacation AbsenceKind = "vacation"

	// AbsenceUnpaid - отпуск без сохранения оплаты.
	AbsenceUnpaid AbsenceKind = "unpaid"

	// AbsenceTraining - командировка на обучение.
	AbsenceTraining AbsenceKind = "training"

	// AbsenceOther - прочее.
	AbsenceOther AbsenceKind = "other"
)

// IsValid проверяет корректность вида отсутствия.
func (k AbsenceKind) IsValid() bool {
	switch k {
	case AbsenceSickLeave, AbsenceMaternityLeave, AbsencePaternityLeave,
		AbsenceRecognition, AbsenceVacation, AbsenceUnpaid, AbsenceTraining, AbsenceOther:
		return true
	}
	return false
}

// TimelineEffect возвращает влияние вида отсутствия на срок программы.
// Больничный и декретные отпуска продлевают срок, признание стажа сокращает,
// остальные виды (отпуск, неоплачиваемый, обучение, прочее) на срок не влияют.
func (k AbsenceKind) TimelineEffect() TimelineEffect {
	switch k {
	case AbsenceSickLeave, AbsenceMaternityLeave, AbsencePaternityLeave:
		return EffectExtends
	case AbsenceRecognition:
		return EffectReduces
	default:
		return EffectNone
	}
}

// String returns the string representation.
func (k AbsenceKind) String() string {
	return string(k)
}
