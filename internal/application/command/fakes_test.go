package command

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
)

// In-memory repositories for handler tests. They mirror the contracts of
// the postgres implementations closely enough for the handlers: not-found
// lookups return the same shared errors.

type fakeIDGen struct{ n int }

func (g *fakeIDGen) GenerateID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// ─────────────────────────────────────────────────────────────────────────────

type memSpecRepo struct {
	items map[string]*specialization.Specialization
}

func newMemSpecRepo() *memSpecRepo {
	return &memSpecRepo{items: map[string]*specialization.Specialization{}}
}

func (r *memSpecRepo) Create(_ context.Context, s *specialization.Specialization) error {
	r.items[s.ID] = s
	return nil
}

func (r *memSpecRepo) GetByID(_ context.Context, id string) (*specialization.Specialization, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, shared.ErrSpecializationNotFound
	}
	return s, nil
}

func (r *memSpecRepo) GetByResident(_ context.Context, residentID string) ([]*specialization.Specialization, error) {
	var out []*specialization.Specialization
	for _, s := range r.items {
		if s.ResidentID == residentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSpecRepo) Update(_ context.Context, s *specialization.Specialization) error {
	if _, ok := r.items[s.ID]; !ok {
		return shared.ErrSpecializationNotFound
	}
	r.items[s.ID] = s
	return nil
}

func (r *memSpecRepo) GetAll(_ context.Context) ([]*specialization.Specialization, error) {
	var out []*specialization.Specialization
	for _, s := range r.items {
		if !s.Archived {
			out = append(out, s)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memModuleRepo struct {
	items map[string]*specialization.Module
}

func newMemModuleRepo() *memModuleRepo {
	return &memModuleRepo{items: map[string]*specialization.Module{}}
}

func (r *memModuleRepo) Create(_ context.Context, m *specialization.Module) error {
	r.items[m.ID] = m
	return nil
}

func (r *memModuleRepo) GetByID(_ context.Context, id string) (*specialization.Module, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, shared.ErrModuleNotFound
	}
	return m, nil
}

func (r *memModuleRepo) GetBySpecialization(_ context.Context, specializationID string) ([]*specialization.Module, error) {
	var out []*specialization.Module
	for _, m := range r.items {
		if m.SpecializationID == specializationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *memModuleRepo) Update(_ context.Context, m *specialization.Module) error {
	if _, ok := r.items[m.ID]; !ok {
		return shared.ErrModuleNotFound
	}
	r.items[m.ID] = m
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memInternshipRepo struct {
	items map[string]*training.Internship
}

func newMemInternshipRepo() *memInternshipRepo {
	return &memInternshipRepo{items: map[string]*training.Internship{}}
}

func (r *memInternshipRepo) Create(_ context.Context, i *training.Internship) error {
	r.items[i.ID] = i
	return nil
}

func (r *memInternshipRepo) GetByID(_ context.Context, id string) (*training.Internship, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, shared.ErrInternshipNotFound
	}
	return i, nil
}

func (r *memInternshipRepo) GetByModule(_ context.Context, moduleID string) ([]*training.Internship, error) {
	var out []*training.Internship
	for _, i := range r.items {
		if i.ModuleID == moduleID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *memInternshipRepo) Update(_ context.Context, i *training.Internship) error {
	if _, ok := r.items[i.ID]; !ok {
		return shared.ErrInternshipNotFound
	}
	r.items[i.ID] = i
	return nil
}

func (r *memInternshipRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memProcedureRepo struct {
	items map[string]*training.Procedure
}

func newMemProcedureRepo() *memProcedureRepo {
	return &memProcedureRepo{items: map[string]*training.Procedure{}}
}

func (r *memProcedureRepo) Create(_ context.Context, p *training.Procedure) error {
	r.items[p.ID] = p
	return nil
}

func (r *memProcedureRepo) GetByID(_ context.Context, id string) (*training.Procedure, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrProcedureNotFound
	}
	return p, nil
}

func (r *memProcedureRepo) GetByInternship(_ context.Context, internshipID string) ([]*training.Procedure, error) {
	var out []*training.Procedure
	for _, p := range r.items {
		if p.InternshipID == internshipID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProcedureRepo) GetByModule(_ context.Context, moduleID string) ([]*training.Procedure, error) {
	var out []*training.Procedure
	for _, p := range r.items {
		if p.ModuleID == moduleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProcedureRepo) CountByCodeAndDate(_ context.Context, internshipID, code string, date time.Time) (int, error) {
	count := 0
	for _, p := range r.items {
		if p.InternshipID == internshipID && p.Code == code && sameDay(p.Date, date) {
			count++
		}
	}
	return count, nil
}

func (r *memProcedureRepo) Update(_ context.Context, p *training.Procedure) error {
	if _, ok := r.items[p.ID]; !ok {
		return shared.ErrProcedureNotFound
	}
	r.items[p.ID] = p
	return nil
}

func (r *memProcedureRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrProcedureNotFound
	}
	delete(r.items, id)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ─────────────────────────────────────────────────────────────────────────────

type memShiftRepo struct {
	items map[string]*training.MedicalShift
}

func newMemShiftRepo() *memShiftRepo {
	return &memShiftRepo{items: map[string]*training.MedicalShift{}}
}

func (r *memShiftRepo) Create(_ context.Context, s *training.MedicalShift) error {
	r.items[s.ID] = s
	return nil
}

func (r *memShiftRepo) GetByID(_ context.Context, id string) (*training.MedicalShift, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, shared.ErrShiftNotFound
	}
	return s, nil
}

func (r *memShiftRepo) GetByInternship(_ context.Context, internshipID string) ([]*training.MedicalShift, error) {
	var out []*training.MedicalShift
	for _, s := range r.items {
		if s.InternshipID == internshipID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memShiftRepo) GetByInternshipAndRange(_ context.Context, internshipID string, from, to time.Time) ([]*training.MedicalShift, error) {
	var out []*training.MedicalShift
	for _, s := range r.items {
		if s.InternshipID == internshipID && !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memShiftRepo) Update(_ context.Context, s *training.MedicalShift) error {
	if _, ok := r.items[s.ID]; !ok {
		return shared.ErrShiftNotFound
	}
	r.items[s.ID] = s
	return nil
}

func (r *memShiftRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrShiftNotFound
	}
	delete(r.items, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memCourseRepo struct {
	items map[string]*training.Course
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{items: map[string]*training.Course{}}
}

func (r *memCourseRepo) Create(_ context.Context, c *training.Course) error {
	r.items[c.ID] = c
	return nil
}

func (r *memCourseRepo) GetByModule(_ context.Context, moduleID string) ([]*training.Course, error) {
	var out []*training.Course
	for _, c := range r.items {
		if c.ModuleID == moduleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCourseRepo) Update(_ context.Context, c *training.Course) error {
	r.items[c.ID] = c
	return nil
}

func (r *memCourseRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memSelfEduRepo struct {
	items map[string]*training.SelfEducation
}

func newMemSelfEduRepo() *memSelfEduRepo {
	return &memSelfEduRepo{items: map[string]*training.SelfEducation{}}
}

func (r *memSelfEduRepo) Create(_ context.Context, s *training.SelfEducation) error {
	r.items[s.ID] = s
	return nil
}

func (r *memSelfEduRepo) GetBySpecialization(_ context.Context, specializationID string) ([]*training.SelfEducation, error) {
	var out []*training.SelfEducation
	for _, s := range r.items {
		if s.SpecializationID == specializationID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSelfEduRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memAbsenceRepo struct {
	items map[string]*training.Absence
}

func newMemAbsenceRepo() *memAbsenceRepo {
	return &memAbsenceRepo{items: map[string]*training.Absence{}}
}

func (r *memAbsenceRepo) Create(_ context.Context, a *training.Absence) error {
	r.items[a.ID] = a
	return nil
}

func (r *memAbsenceRepo) GetByID(_ context.Context, id string) (*training.Absence, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, shared.ErrAbsenceNotFound
	}
	return a, nil
}

func (r *memAbsenceRepo) GetBySpecialization(_ context.Context, specializationID string) ([]*training.Absence, error) {
	var out []*training.Absence
	for _, a := range r.items {
		if a.SpecializationID == specializationID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAbsenceRepo) Update(_ context.Context, a *training.Absence) error {
	if _, ok := r.items[a.ID]; !ok {
		return shared.ErrAbsenceNotFound
	}
	r.items[a.ID] = a
	return nil
}

func (r *memAbsenceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrAbsenceNotFound
	}
	delete(r.items, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memPublicationRepo struct {
	items map[string]*training.Publication
}

func newMemPublicationRepo() *memPublicationRepo {
	return &memPublicationRepo{items: map[string]*training.Publication{}}
}

func (r *memPublicationRepo) Create(_ context.Context, p *training.Publication) error {
	r.items[p.ID] = p
	return nil
}

func (r *memPublicationRepo) GetBySpecialization(_ context.Context, specializationID string) ([]*training.Publication, error) {
	var out []*training.Publication
	for _, p := range r.items {
		if p.SpecializationID == specializationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPublicationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type noopInvalidator struct {
	modules         []string
	internships     []string
	specializations []string
}

func (i *noopInvalidator) InvalidateModule(_ context.Context, moduleID string) error {
	i.modules = append(i.modules, moduleID)
	return nil
}

func (i *noopInvalidator) InvalidateInternship(_ context.Context, internshipID string) error {
	i.internships = append(i.internships, internshipID)
	return nil
}

func (i *noopInvalidator) InvalidateSpecialization(_ context.Context, specializationID string) error {
	i.specializations = append(i.specializations, specializationID)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

// testEnv bundles the fakes behind a real recompute handler so record
// handler tests observe actual counter updates.
type testEnv struct {
	specRepo    *memSpecRepo
	moduleRepo  *memModuleRepo
	internRepo  *memInternshipRepo
	procRepo    *memProcedureRepo
	shiftRepo   *memShiftRepo
	courseRepo  *memCourseRepo
	selfEduRepo *memSelfEduRepo
	absenceRepo *memAbsenceRepo
	invalidator *noopInvalidator
	idGen       *fakeIDGen
	recomputer  *RecomputeProgressHandler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		specRepo:    newMemSpecRepo(),
		moduleRepo:  newMemModuleRepo(),
		internRepo:  newMemInternshipRepo(),
		procRepo:    newMemProcedureRepo(),
		shiftRepo:   newMemShiftRepo(),
		courseRepo:  newMemCourseRepo(),
		selfEduRepo: newMemSelfEduRepo(),
		absenceRepo: newMemAbsenceRepo(),
		invalidator: &noopInvalidator{},
		idGen:       &fakeIDGen{},
	}
	env.recomputer = NewRecomputeProgressHandler(
		env.specRepo, env.moduleRepo, env.internRepo,
		env.procRepo, env.shiftRepo, env.courseRepo,
		env.selfEduRepo, env.absenceRepo,
	)
	return env
}

// seedSpecialization creates a specialization with one module and one
// internship spanning the whole of 2026.
func (env *testEnv) seedSpecialization() (*specialization.Specialization, *specialization.Module, *training.Internship) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	spec := &specialization.Specialization{
		ID:                  "spec-1",
		ResidentID:          "res-1",
		Name:                "Kardiologia",
		ProgramCode:         "0730",
		SmkVersion:          shared.SmkVersionNew,
		StartDate:           start,
		NominalDurationDays: 365,
		PlannedEndDate:      end,
	}
	env.specRepo.items[spec.ID] = spec

	module := &specialization.Module{
		ID:                  "mod-1",
		SpecializationID:    spec.ID,
		Name:                "Moduł specjalistyczny",
		Type:                specialization.ModuleTypeSpecialistic,
		SmkVersion:          spec.SmkVersion,
		StartDate:           start,
		NominalDurationDays: 365,
		EndDate:             end,
		Counters: specialization.Counters{
			RequiredInternships: 2,
			RequiredCourses:     2,
			RequiredProceduresA: 10,
			RequiredProceduresB: 5,
			RequiredShiftHours:  520,
		},
	}
	env.moduleRepo.items[module.ID] = module

	internship := &training.Internship{
		ID:               "int-1",
		ModuleID:         module.ID,
		SpecializationID: spec.ID,
		Name:             "Oddział kardiologii",
		StartDate:        start,
		EndDate:          end,
	}
	env.internRepo.items[internship.ID] = internship

	return spec, module, internship
}
