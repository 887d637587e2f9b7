// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smk-hub/residency-training-hub/internal/domain/compliance"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MONTHLY SHIFT STATISTICS QUERY
// Месячная статистика дежурств стажа: разбивка часов по статусам
// синхронизации, средняя длительность, выходные и ночные дежурства,
// недельная раскладка с отметкой превышения 48-часовой нормы.
//
// Часы считаются через decimal: длительности хранятся в минутах, и
// накопление float по многим записям даёт видимый дрейф копеек.
// ══════════════════════════════════════════════════════════════════════════════

// StatsCache абстрагирует кеш производных представлений.
// Реализуется redis-кешем; nil отключает кеширование.
type StatsCache interface {
	// Get читает значение по ключу; промах возвращает ошибку.
	Get(ctx context.Context, key string, dest interface{}) error

	// Set сохраняет значение с TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// minutesPerHour - знаменатель перевода минут в часы.
var minutesPerHour = decimal.NewFromInt(60)

// hoursFromDuration переводит длительность дежурства в десятичные часы.
func hoursFromDuration(d training.ShiftDuration) decimal.Decimal {
	return decimal.NewFromInt(int64(d.TotalMinutes())).Div(minutesPerHour)
}

// GetMonthlyShiftStatsQuery содержит параметры запроса месячной статистики.
type GetMonthlyShiftStatsQuery struct {
	// InternshipID - стаж, по которому собирается статистика.
	InternshipID string

	// Year - календарный год.
	Year int

	// Month - календарный месяц.
	Month time.Month
}

// Validate проверяет корректность параметров.
func (q *GetMonthlyShiftStatsQuery) Validate() error {
	if q.InternshipID == "" {
		return errors.New("internship_id must be provided")
	}
	if q.Year < 2000 || q.Year > 2100 {
		return fmt.Errorf("year %d is out of range", q.Year)
	}
	if q.Month < time.January || q.Month > time.December {
		return fmt.Errorf("month %d is out of range", q.Month)
	}
	return nil
}

// WeekStatsDTO - часы одной ISO-недели месяца.
type WeekStatsDTO struct {
	// Hours - суммарные часы недели (включая записи соседних месяцев
	// той же недели не входят - раскладка строится по записям месяца).
	Hours decimal.Decimal `json:"hours"`

	// ShiftCount - количество дежурств.
	ShiftCount int `json:"shift_count"`

	// OverWeeklyCap - неделя превышает 48-часовую норму.
	OverWeeklyCap bool `json:"over_weekly_cap"`
}

// MonthlyShiftStatsDTO - месячная статистика дежурств.
type MonthlyShiftStatsDTO struct {
	// InternshipID - стаж.
	InternshipID string `json:"internship_id"`

	// Year - год.
	Year int `json:"year"`

	// Month - месяц (1-12).
	Month int `json:"month"`

	// ─────────────────────────────────────────────────────────────────────────
	// Часы по статусам синхронизации
	// ─────────────────────────────────────────────────────────────────────────

	// TotalHours - все часы месяца.
	TotalHours decimal.Decimal `json:"total_hours"`

	// ApprovedHours - подтверждённые SMK часы.
	ApprovedHours decimal.Decimal `json:"approved_hours"`

	// PendingHours - часы записей, ещё не подтверждённых (локальные
	// и отправленные).
	PendingHours decimal.Decimal `json:"pending_hours"`

	// RejectedHours - часы отклонённых записей.
	RejectedHours decimal.Decimal `json:"rejected_hours"`

	// ─────────────────────────────────────────────────────────────────────────
	// Счётчики
	// ─────────────────────────────────────────────────────────────────────────

	// ShiftCount - количество дежурств.
	ShiftCount int `json:"shift_count"`

	// AverageHours - средняя длительность дежурства.
	AverageHours decimal.Decimal `json:"average_hours"`

	// WeekendShifts - дежурства, начавшиеся в субботу или воскресенье.
	WeekendShifts int `json:"weekend_shifts"`

	// NightShifts - дежурства, начавшиеся в ночные часы (22:00-06:00).
	NightShifts int `json:"night_shifts"`

	// Weeks - раскладка по ISO-неделям.
	Weeks map[string]WeekStatsDTO `json:"weeks"`

	// Warnings - найденные несоответствия нормам (дефицит подтверждённых
	// часов, превышение недельной нормы).
	Warnings []compliance.Issue `json:"warnings,omitempty"`

	// GeneratedAt - время построения статистики.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetMonthlyShiftStatsHandler обрабатывает запросы месячной статистики.
type GetMonthlyShiftStatsHandler struct {
	shiftRepo training.ShiftRepository
	validator *compliance.Validator
	cache     StatsCache
	cacheKey  func(internshipID string, year int, month time.Month) string
	cacheTTL  time.Duration
}

// NewGetMonthlyShiftStatsHandler создаёт новый обработчик.
// cacheKey и cacheTTL задают политику кеширования; cache может быть nil.
func NewGetMonthlyShiftStatsHandler(
	shiftRepo training.ShiftRepository,
	validator *compliance.Validator,
	cache StatsCache,
	cacheKey func(internshipID string, year int, month time.Month) string,
	cacheTTL time.Duration,
) *GetMonthlyShiftStatsHandler {
	return &GetMonthlyShiftStatsHandler{
		shiftRepo: shiftRepo,
		validator: validator,
		cache:     cache,
		cacheKey:  cacheKey,
		cacheTTL:  cacheTTL,
	}
}

// Handle выполняет запрос месячной статистики.
func (h *GetMonthlyShiftStatsHandler) Handle(ctx context.Context, query GetMonthlyShiftStatsQuery) (*MonthlyShiftStatsDTO, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("monthly_shift_stats: %w", err)
	}

	key := ""
	if h.cache != nil && h.cacheKey != nil {
		key = h.cacheKey(query.InternshipID, query.Year, query.Month)
		var cached MonthlyShiftStatsDTO
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	from, to := timeutil.MonthWindow(query.Year, query.Month)
	shifts, err := h.shiftRepo.GetByInternshipAndRange(ctx, query.InternshipID, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly_shift_stats: failed to load shifts: %w", err)
	}

	dto := h.build(query, shifts)

	if h.cache != nil && key != "" {
		// Кеш best-effort: статистика не обязана переживать рестарт Redis.
		_ = h.cache.Set(ctx, key, dto, h.cacheTTL)
	}

	return dto, nil
}

// build собирает DTO из записей месяца.
func (h *GetMonthlyShiftStatsHandler) build(query GetMonthlyShiftStatsQuery, shifts []*training.MedicalShift) *MonthlyShiftStatsDTO {
	dto := &MonthlyShiftStatsDTO{
		InternshipID: query.InternshipID,
		Year:         query.Year,
		Month:        int(query.Month),
		Weeks:        make(map[string]WeekStatsDTO),
		GeneratedAt:  timeutil.Now().UTC(),
	}

	for _, s := range shifts {
		hours := hoursFromDuration(s.Duration)
		dto.TotalHours = dto.TotalHours.Add(hours)
		dto.ShiftCount++

		switch s.SyncStatus {
		case shared.SyncStatusApproved:
			dto.ApprovedHours = dto.ApprovedHours.Add(hours)
		case shared.SyncStatusRejected:
			dto.RejectedHours = dto.RejectedHours.Add(hours)
		default:
			dto.PendingHours = dto.PendingHours.Add(hours)
		}

		local := timeutil.ToWarsaw(s.Date)
		if timeutil.IsWeekend(local) {
			dto.WeekendShifts++
		}
		if timeutil.IsNightHour(local) {
			dto.NightShifts++
		}

		weekKey := timeutil.ISOWeekKey(s.Date)
		week := dto.Weeks[weekKey]
		week.Hours = week.Hours.Add(hours)
		week.ShiftCount++
		dto.Weeks[weekKey] = week
	}

	if dto.ShiftCount > 0 {
		dto.AverageHours = dto.TotalHours.Div(decimal.NewFromInt(int64(dto.ShiftCount))).Round(2)
	}

	for weekKey, week := range dto.Weeks {
		if issue := h.validator.CheckWeeklyHours(weekKey, week.Hours.InexactFloat64()); issue != nil {
			week.OverWeeklyCap = true
			dto.Weeks[weekKey] = week
			dto.Warnings = append(dto.Warnings, *issue)
		}
	}

	if issue := h.validator.CheckMonthlyApprovedHours(dto.ApprovedHours.InexactFloat64()); issue != nil {
		dto.Warnings = append(dto.Warnings, *issue)
	}

	return dto
}
