package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MODULE PROGRESS QUERY
// Прогресс одного модуля: взвешенный процент выполнения, отношения по
// компонентам и статус относительно календаря. Перевыполнение счётчиков
// допускается при записи, но отображаемый процент ограничен 100%.
// ══════════════════════════════════════════════════════════════════════════════

// ModuleStatus - статус модуля относительно календаря и прогресса.
type ModuleStatus string

const (
	// ModuleStatusNotStarted - модуль ещё не начался.
	ModuleStatusNotStarted ModuleStatus = "not_started"

	// ModuleStatusInProgress - модуль идёт в нормальном темпе.
	ModuleStatusInProgress ModuleStatus = "in_progress"

	// ModuleStatusNearCompletion - прошло не менее 80% календарного окна.
	ModuleStatusNearCompletion ModuleStatus = "near_completion"

	// ModuleStatusDelayed - набранные часы дежурств отстают от
	// пропорциональной календарю нормы более чем на 20%.
	ModuleStatusDelayed ModuleStatus = "delayed"

	// ModuleStatusCompleted - все требования выполнены.
	ModuleStatusCompleted ModuleStatus = "completed"
)

// GetModuleProgressQuery содержит параметры запроса прогресса модуля.
type GetModuleProgressQuery struct {
	// ModuleID - модуль.
	ModuleID string

	// Now - момент оценки календаря (пустой = сейчас).
	Now time.Time
}

// Validate проверяет корректность параметров.
func (q *GetModuleProgressQuery) Validate() error {
	if q.ModuleID == "" {
		return errors.New("module_id must be provided")
	}
	if q.Now.IsZero() {
		q.Now = timeutil.Now()
	}
	return nil
}

// ModuleProgressDTO - прогресс модуля.
type ModuleProgressDTO struct {
	// ModuleID - модуль.
	ModuleID string `json:"module_id"`

	// Name - название модуля.
	Name string `json:"name"`

	// Type - тип модуля.
	Type string `json:"type"`

	// ─────────────────────────────────────────────────────────────────────────
	// Прогресс
	// ─────────────────────────────────────────────────────────────────────────

	// ProgressPercent - взвешенный процент выполнения [0, 100].
	ProgressPercent float64 `json:"progress_percent"`

	// InternshipRatio - доля завершённых стажей [0, 1].
	InternshipRatio float64 `json:"internship_ratio"`

	// CourseRatio - доля завершённых курсов [0, 1].
	CourseRatio float64 `json:"course_ratio"`

	// ProcedureRatio - средневзвешенная доля процедур A/B [0, 1].
	ProcedureRatio float64 `json:"procedure_ratio"`

	// ShiftHoursRatio - доля набранных часов дежурств [0, 1].
	ShiftHoursRatio float64 `json:"shift_hours_ratio"`

	// ─────────────────────────────────────────────────────────────────────────
	// Календарь
	// ─────────────────────────────────────────────────────────────────────────

	// ElapsedRatio - прошедшая доля календарного окна модуля [0, 1].
	ElapsedRatio float64 `json:"elapsed_ratio"`

	// StartDate - начало модуля.
	StartDate time.Time `json:"start_date"`

	// EndDate - расчётное окончание с учётом отсутствий.
	EndDate time.Time `json:"end_date"`

	// Status - статус модуля.
	Status ModuleStatus `json:"status"`

	// GeneratedAt - время построения.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetModuleProgressHandler обрабатывает запросы прогресса модуля.
type GetModuleProgressHandler struct {
	moduleRepo specialization.ModuleRepository
	cache      StatsCache
	cacheKey   func(moduleID string) string
	cacheTTL   time.Duration
}

// NewGetModuleProgressHandler создаёт новый обработчик.
func NewGetModuleProgressHandler(
	moduleRepo specialization.ModuleRepository,
	cache StatsCache,
	cacheKey func(moduleID string) string,
	cacheTTL time.Duration,
) *GetModuleProgressHandler {
	return &GetModuleProgressHandler{
		moduleRepo: moduleRepo,
		cache:      cache,
		cacheKey:   cacheKey,
		cacheTTL:   cacheTTL,
	}
}

// Handle выполняет запрос прогресса модуля.
func (h *GetModuleProgressHandler) Handle(ctx context.Context, query GetModuleProgressQuery) (*ModuleProgressDTO, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("module_progress: %w", err)
	}

	key := ""
	if h.cache != nil && h.cacheKey != nil {
		key = h.cacheKey(query.ModuleID)
		var cached ModuleProgressDTO
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	m, err := h.moduleRepo.GetByID(ctx, query.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("module_progress: failed to load module: %w", err)
	}

	dto := buildModuleProgress(m, query.Now)

	if h.cache != nil && key != "" {
		_ = h.cache.Set(ctx, key, dto, h.cacheTTL)
	}

	return dto, nil
}

// buildModuleProgress собирает DTO из счётчиков и календаря модуля.
func buildModuleProgress(m *specialization.Module, now time.Time) *ModuleProgressDTO {
	progress := specialization.OverallProgress(m.Counters)
	elapsed := elapsedRatio(m.StartDate, m.EndDate, now)
	hours := specialization.HoursRatio(m.Counters.CompletedShiftHours, m.Counters.RequiredShiftHours)

	return &ModuleProgressDTO{
		ModuleID:        m.ID,
		Name:            m.Name,
		Type:            m.Type.String(),
		ProgressPercent: progress * 100,
		InternshipRatio: specialization.Ratio(m.Counters.CompletedInternships, m.Counters.RequiredInternships),
		CourseRatio:     specialization.Ratio(m.Counters.CompletedCourses, m.Counters.RequiredCourses),
		ProcedureRatio:  specialization.ProcedureRatio(m.Counters),
		ShiftHoursRatio: hours,
		ElapsedRatio:    elapsed,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		Status:          moduleStatus(progress, hours, elapsed),
		GeneratedAt:     timeutil.Now().UTC(),
	}
}

// moduleStatus выводит статус из прогресса, часов дежурств и календаря.
// Отставание по часам (меньше 80% от пропорциональной календарю нормы)
// важнее близости к концу окна, поэтому проверяется раньше.
func moduleStatus(progress, hoursRatio, elapsed float64) ModuleStatus {
	switch {
	case progress >= 1:
		return ModuleStatusCompleted
	case elapsed <= 0:
		return ModuleStatusNotStarted
	case hoursRatio < 0.8*elapsed:
		return ModuleStatusDelayed
	case elapsed >= 0.8:
		return ModuleStatusNearCompletion
	default:
		return ModuleStatusInProgress
	}
}

// elapsedRatio возвращает прошедшую долю окна [start, end], ограниченную [0, 1].
func elapsedRatio(start, end time.Time, now time.Time) float64 {
	if !now.After(start) {
		return 0
	}
	if !now.Before(end) {
		return 1
	}
	total := end.Sub(start)
	if total <= 0 {
		return 1
	}
	return float64(now.Sub(start)) / float64(total)
}
