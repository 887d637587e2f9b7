package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORTANT DATES QUERY
// Хронология ключевых дат программы: начало, границы модулей и расчётное
// окончание с учётом отсутствий. Используется интерфейсными слоями для
// показа "что дальше" резиденту.
// ══════════════════════════════════════════════════════════════════════════════

// GetImportantDatesQuery содержит параметры запроса хронологии.
type GetImportantDatesQuery struct {
	// SpecializationID - специализация.
	SpecializationID string

	// Now - момент оценки оставшихся дней (пустой = сейчас).
	Now time.Time
}

// Validate проверяет корректность параметров.
func (q *GetImportantDatesQuery) Validate() error {
	if q.SpecializationID == "" {
		return errors.New("specialization_id must be provided")
	}
	if q.Now.IsZero() {
		q.Now = timeutil.Now()
	}
	return nil
}

// MilestoneDTO - одна веха хронологии.
type MilestoneDTO struct {
	// Kind - тип вехи.
	Kind string `json:"kind"`

	// Date - расчётная дата.
	Date time.Time `json:"date"`

	// Label - подпись.
	Label string `json:"label"`

	// IsPast - веха уже позади.
	IsPast bool `json:"is_past"`
}

// ImportantDatesDTO - хронология программы.
type ImportantDatesDTO struct {
	// SpecializationID - специализация.
	SpecializationID string `json:"specialization_id"`

	// Milestones - вехи в хронологическом порядке построения.
	Milestones []MilestoneDTO `json:"milestones"`

	// DaysRemaining - дней до расчётного окончания (0, если позади).
	DaysRemaining int `json:"days_remaining"`

	// PlannedEndDate - расчётная дата окончания.
	PlannedEndDate time.Time `json:"planned_end_date"`

	// GeneratedAt - время построения.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetImportantDatesHandler обрабатывает запросы хронологии.
type GetImportantDatesHandler struct {
	specRepo    specialization.Repository
	moduleRepo  specialization.ModuleRepository
	absenceRepo training.AbsenceRepository
	cache       StatsCache
	cacheKey    func(specializationID string) string
	cacheTTL    time.Duration
}

// NewGetImportantDatesHandler создаёт новый обработчик.
func NewGetImportantDatesHandler(
	specRepo specialization.Repository,
	moduleRepo specialization.ModuleRepository,
	absenceRepo training.AbsenceRepository,
	cache StatsCache,
	cacheKey func(specializationID string) string,
	cacheTTL time.Duration,
) *GetImportantDatesHandler {
	return &GetImportantDatesHandler{
		specRepo:    specRepo,
		moduleRepo:  moduleRepo,
		absenceRepo: absenceRepo,
		cache:       cache,
		cacheKey:    cacheKey,
		cacheTTL:    cacheTTL,
	}
}

// Handle выполняет запрос хронологии.
func (h *GetImportantDatesHandler) Handle(ctx context.Context, query GetImportantDatesQuery) (*ImportantDatesDTO, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("important_dates: %w", err)
	}

	key := ""
	if h.cache != nil && h.cacheKey != nil {
		key = h.cacheKey(query.SpecializationID)
		var cached ImportantDatesDTO
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	spec, err := h.specRepo.GetByID(ctx, query.SpecializationID)
	if err != nil {
		return nil, fmt.Errorf("important_dates: failed to load specialization: %w", err)
	}

	modules, err := h.moduleRepo.GetBySpecialization(ctx, query.SpecializationID)
	if err != nil {
		return nil, fmt.Errorf("important_dates: failed to load modules: %w", err)
	}

	absences, err := h.absenceRepo.GetBySpecialization(ctx, query.SpecializationID)
	if err != nil {
		return nil, fmt.Errorf("important_dates: failed to load absences: %w", err)
	}

	windows := make([]specialization.AbsenceWindow, 0, len(absences))
	for _, a := range absences {
		windows = append(windows, specialization.AbsenceWindow{
			Kind:  a.Kind,
			Start: a.StartDate,
			End:   a.EndDate,
		})
	}

	timeline := specialization.BuildTimeline(spec, modules, windows)

	dto := &ImportantDatesDTO{
		SpecializationID: spec.ID,
		PlannedEndDate:   spec.PlannedEndDate,
		GeneratedAt:      timeutil.Now().UTC(),
	}

	for _, milestone := range timeline {
		dto.Milestones = append(dto.Milestones, MilestoneDTO{
			Kind:   string(milestone.Kind),
			Date:   milestone.Date,
			Label:  milestone.Label,
			IsPast: milestone.Date.Before(query.Now),
		})
	}

	if spec.PlannedEndDate.After(query.Now) {
		dto.DaysRemaining = timeutil.DaysBetween(query.Now, spec.PlannedEndDate)
	}

	if h.cache != nil && key != "" {
		_ = h.cache.Set(ctx, key, dto, h.cacheTTL)
	}

	return dto, nil
}
