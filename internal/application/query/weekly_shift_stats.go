package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smk-hub/residency-training-hub/internal/domain/compliance"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY SHIFT STATISTICS QUERY
// Статистика дежурств одной ISO-недели: суммарные часы, раскладка по дням
// и предупреждения о превышении 48-часовой нормы.
// ══════════════════════════════════════════════════════════════════════════════

// GetWeeklyShiftStatsQuery содержит параметры запроса недельной статистики.
type GetWeeklyShiftStatsQuery struct {
	// InternshipID - стаж, по которому собирается статистика.
	InternshipID string

	// Date - любой день интересующей недели.
	Date time.Time
}

// Validate проверяет корректность параметров.
func (q *GetWeeklyShiftStatsQuery) Validate() error {
	if q.InternshipID == "" {
		return errors.New("internship_id must be provided")
	}
	if q.Date.IsZero() {
		q.Date = timeutil.Now()
	}
	return nil
}

// DayStatsDTO - часы одного дня недели.
type DayStatsDTO struct {
	// Date - дата.
	Date time.Time `json:"date"`

	// Hours - суммарные часы дня.
	Hours decimal.Decimal `json:"hours"`

	// ShiftCount - количество дежурств.
	ShiftCount int `json:"shift_count"`
}

// WeeklyShiftStatsDTO - недельная статистика дежурств.
type WeeklyShiftStatsDTO struct {
	// InternshipID - стаж.
	InternshipID string `json:"internship_id"`

	// Week - ISO-ключ недели ("2026-W14").
	Week string `json:"week"`

	// WeekStart - понедельник недели.
	WeekStart time.Time `json:"week_start"`

	// TotalHours - суммарные часы недели.
	TotalHours decimal.Decimal `json:"total_hours"`

	// ShiftCount - количество дежурств.
	ShiftCount int `json:"shift_count"`

	// Days - раскладка по дням (только дни с дежурствами).
	Days []DayStatsDTO `json:"days"`

	// Warnings - найденные несоответствия нормам.
	Warnings []compliance.Issue `json:"warnings,omitempty"`

	// GeneratedAt - время построения статистики.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetWeeklyShiftStatsHandler обрабатывает запросы недельной статистики.
type GetWeeklyShiftStatsHandler struct {
	shiftRepo training.ShiftRepository
	validator *compliance.Validator
	cache     StatsCache
	cacheKey  func(internshipID, isoWeek string) string
	cacheTTL  time.Duration
}

// NewGetWeeklyShiftStatsHandler создаёт новый обработчик.
func NewGetWeeklyShiftStatsHandler(
	shiftRepo training.ShiftRepository,
	validator *compliance.Validator,
	cache StatsCache,
	cacheKey func(internshipID, isoWeek string) string,
	cacheTTL time.Duration,
) *GetWeeklyShiftStatsHandler {
	return &GetWeeklyShiftStatsHandler{
		shiftRepo: shiftRepo,
		validator: validator,
		cache:     cache,
		cacheKey:  cacheKey,
		cacheTTL:  cacheTTL,
	}
}

// Handle выполняет запрос недельной статистики.
func (h *GetWeeklyShiftStatsHandler) Handle(ctx context.Context, query GetWeeklyShiftStatsQuery) (*WeeklyShiftStatsDTO, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("weekly_shift_stats: %w", err)
	}

	isoWeek := timeutil.ISOWeekKey(query.Date)

	key := ""
	if h.cache != nil && h.cacheKey != nil {
		key = h.cacheKey(query.InternshipID, isoWeek)
		var cached WeeklyShiftStatsDTO
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	from := timeutil.StartOfWeek(query.Date)
	to := timeutil.EndOfWeek(query.Date)

	shifts, err := h.shiftRepo.GetByInternshipAndRange(ctx, query.InternshipID, from, to)
	if err != nil {
		return nil, fmt.Errorf("weekly_shift_stats: failed to load shifts: %w", err)
	}

	dto := &WeeklyShiftStatsDTO{
		InternshipID: query.InternshipID,
		Week:         isoWeek,
		WeekStart:    from,
		GeneratedAt:  timeutil.Now().UTC(),
	}

	perDay := make(map[string]*DayStatsDTO)
	for _, s := range shifts {
		hours := hoursFromDuration(s.Duration)
		dto.TotalHours = dto.TotalHours.Add(hours)
		dto.ShiftCount++

		dayKey := timeutil.FormatDateStr(s.Date)
		day, ok := perDay[dayKey]
		if !ok {
			day = &DayStatsDTO{Date: timeutil.StartOfDay(s.Date)}
			perDay[dayKey] = day
		}
		day.Hours = day.Hours.Add(hours)
		day.ShiftCount++
	}

	// Дни в хронологическом порядке обхода недели.
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if day, ok := perDay[timeutil.FormatDateStr(d)]; ok {
			dto.Days = append(dto.Days, *day)
		}
	}

	if issue := h.validator.CheckWeeklyHours(isoWeek, dto.TotalHours.InexactFloat64()); issue != nil {
		dto.Warnings = append(dto.Warnings, *issue)
	}

	if h.cache != nil && key != "" {
		_ = h.cache.Set(ctx, key, dto, h.cacheTTL)
	}

	return dto, nil
}
