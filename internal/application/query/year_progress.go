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
// YEAR PROGRESS QUERY
// Прогресс специализации на заданный год обучения: средний процент
// выполнения по модулям плюс структурированный список отстающих областей.
// Области возвращаются кодами, а не свободным текстом: вызывающая сторона
// сама решает, как их показывать.
// ══════════════════════════════════════════════════════════════════════════════

// DeficientAreaCode - код отстающей области.
type DeficientAreaCode string

const (
	// AreaInternships - завершено меньше стажей, чем прошло календаря.
	AreaInternships DeficientAreaCode = "internships"

	// AreaCourses - отставание по курсам.
	AreaCourses DeficientAreaCode = "courses"

	// AreaProceduresA - отставание по процедурам в роли оператора.
	AreaProceduresA DeficientAreaCode = "procedures_a"

	// AreaProceduresB - отставание по процедурам в роли ассистента.
	AreaProceduresB DeficientAreaCode = "procedures_b"

	// AreaShiftHours - отставание по часам дежурств.
	AreaShiftHours DeficientAreaCode = "shift_hours"

	// AreaSelfEducation - отставание по дням самообразования.
	AreaSelfEducation DeficientAreaCode = "self_education"
)

// DeficientArea - одна отстающая область с деталями.
type DeficientArea struct {
	// Area - код области.
	Area DeficientAreaCode `json:"area"`

	// Completed - выполнено.
	Completed float64 `json:"completed"`

	// Required - требуется.
	Required float64 `json:"required"`

	// Detail - человекочитаемое пояснение.
	Detail string `json:"detail"`
}

// GetYearProgressQuery содержит параметры запроса годового прогресса.
type GetYearProgressQuery struct {
	// SpecializationID - специализация.
	SpecializationID string

	// Year - год обучения (0 = текущий доступный год).
	Year int

	// Now - момент оценки (пустой = сейчас).
	Now time.Time
}

// Validate проверяет корректность параметров.
func (q *GetYearProgressQuery) Validate() error {
	if q.SpecializationID == "" {
		return errors.New("specialization_id must be provided")
	}
	if q.Year < 0 {
		return fmt.Errorf("training year %d is out of range", q.Year)
	}
	if q.Now.IsZero() {
		q.Now = timeutil.Now()
	}
	return nil
}

// YearProgressDTO - годовой прогресс специализации.
type YearProgressDTO struct {
	// SpecializationID - специализация.
	SpecializationID string `json:"specialization_id"`

	// Year - оцениваемый год обучения.
	Year int `json:"year"`

	// AvailableYears - верхняя граница доступных лет на момент оценки.
	AvailableYears int `json:"available_years"`

	// MeanModulePercent - средний процент выполнения модулей [0, 100].
	MeanModulePercent float64 `json:"mean_module_percent"`

	// Modules - прогресс по каждому модулю.
	Modules []ModuleProgressDTO `json:"modules"`

	// DeficientAreas - области, отстающие от прошедшей доли календаря.
	DeficientAreas []DeficientArea `json:"deficient_areas,omitempty"`

	// PlannedEndDate - расчётная дата окончания программы.
	PlannedEndDate time.Time `json:"planned_end_date"`

	// GeneratedAt - время построения.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetYearProgressHandler обрабатывает запросы годового прогресса.
type GetYearProgressHandler struct {
	specRepo   specialization.Repository
	moduleRepo specialization.ModuleRepository
	cache      StatsCache
	cacheKey   func(specializationID string, year int) string
	cacheTTL   time.Duration
}

// NewGetYearProgressHandler создаёт новый обработчик.
func NewGetYearProgressHandler(
	specRepo specialization.Repository,
	moduleRepo specialization.ModuleRepository,
	cache StatsCache,
	cacheKey func(specializationID string, year int) string,
	cacheTTL time.Duration,
) *GetYearProgressHandler {
	return &GetYearProgressHandler{
		specRepo:   specRepo,
		moduleRepo: moduleRepo,
		cache:      cache,
		cacheKey:   cacheKey,
		cacheTTL:   cacheTTL,
	}
}

// Handle выполняет запрос годового прогресса.
func (h *GetYearProgressHandler) Handle(ctx context.Context, query GetYearProgressQuery) (*YearProgressDTO, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("year_progress: %w", err)
	}

	spec, err := h.specRepo.GetByID(ctx, query.SpecializationID)
	if err != nil {
		return nil, fmt.Errorf("year_progress: failed to load specialization: %w", err)
	}

	_, maxYear := specialization.AvailableYearRange(spec, query.Now)
	year := query.Year
	if year == 0 {
		year = maxYear
	}
	if year > maxYear {
		return nil, fmt.Errorf("year_progress: training year %d is not yet available (max %d)", year, maxYear)
	}

	key := ""
	if h.cache != nil && h.cacheKey != nil {
		key = h.cacheKey(query.SpecializationID, year)
		var cached YearProgressDTO
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	modules, err := h.moduleRepo.GetBySpecialization(ctx, query.SpecializationID)
	if err != nil {
		return nil, fmt.Errorf("year_progress: failed to load modules: %w", err)
	}

	dto := &YearProgressDTO{
		SpecializationID: spec.ID,
		Year:             year,
		AvailableYears:   maxYear,
		PlannedEndDate:   spec.PlannedEndDate,
		GeneratedAt:      timeutil.Now().UTC(),
	}

	var percentSum float64
	for _, m := range modules {
		mp := buildModuleProgress(m, query.Now)
		dto.Modules = append(dto.Modules, *mp)
		percentSum += mp.ProgressPercent
	}
	if len(modules) > 0 {
		dto.MeanModulePercent = percentSum / float64(len(modules))
	}

	elapsed := elapsedRatio(spec.StartDate, spec.PlannedEndDate, query.Now)
	dto.DeficientAreas = deficientAreas(spec.Counters, elapsed)

	if h.cache != nil && key != "" {
		_ = h.cache.Set(ctx, key, dto, h.cacheTTL)
	}

	return dto, nil
}

// deficientAreas находит счётчики, отстающие от прошедшей доли календаря.
// Область считается отстающей, когда её доля выполнения меньше elapsed.
func deficientAreas(c specialization.Counters, elapsed float64) []DeficientArea {
	var areas []DeficientArea

	check := func(area DeficientAreaCode, completed, required float64, ratio float64) {
		if required <= 0 || ratio >= elapsed {
			return
		}
		areas = append(areas, DeficientArea{
			Area:      area,
			Completed: completed,
			Required:  required,
			Detail:    fmt.Sprintf("%.0f of %.0f completed", completed, required),
		})
	}

	check(AreaInternships,
		float64(c.CompletedInternships), float64(c.RequiredInternships),
		specialization.Ratio(c.CompletedInternships, c.RequiredInternships))
	check(AreaCourses,
		float64(c.CompletedCourses), float64(c.RequiredCourses),
		specialization.Ratio(c.CompletedCourses, c.RequiredCourses))
	check(AreaProceduresA,
		float64(c.CompletedProceduresA), float64(c.RequiredProceduresA),
		specialization.Ratio(c.CompletedProceduresA, c.RequiredProceduresA))
	check(AreaProceduresB,
		float64(c.CompletedProceduresB), float64(c.RequiredProceduresB),
		specialization.Ratio(c.CompletedProceduresB, c.RequiredProceduresB))
	check(AreaShiftHours,
		c.CompletedShiftHours, c.RequiredShiftHours,
		specialization.HoursRatio(c.CompletedShiftHours, c.RequiredShiftHours))
	check(AreaSelfEducation,
		float64(c.CompletedSelfEducationDays), float64(c.RequiredSelfEducationDays),
		specialization.Ratio(c.CompletedSelfEducationDays, c.RequiredSelfEducationDays))

	return areas
}
