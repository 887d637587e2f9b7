package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/domain/specialization"
	"github.com/smk-hub/residency-training-hub/internal/domain/training"
)

// Read-side fakes. Repositories serve fixed slices and count calls so
// tests can tell a cache hit from a recompute.

type stubShiftRepo struct {
	shifts []*training.MedicalShift
	calls  int
}

func (r *stubShiftRepo) Create(context.Context, *training.MedicalShift) error { return nil }

func (r *stubShiftRepo) GetByID(context.Context, string) (*training.MedicalShift, error) {
	return nil, shared.ErrShiftNotFound
}

func (r *stubShiftRepo) GetByInternship(context.Context, string) ([]*training.MedicalShift, error) {
	return r.shifts, nil
}

func (r *stubShiftRepo) GetByInternshipAndRange(_ context.Context, _ string, from, to time.Time) ([]*training.MedicalShift, error) {
	r.calls++
	var out []*training.MedicalShift
	for _, s := range r.shifts {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubShiftRepo) Update(context.Context, *training.MedicalShift) error { return nil }
func (r *stubShiftRepo) Delete(context.Context, string) error                 { return nil }

type stubSpecRepo struct {
	spec *specialization.Specialization
}

func (r *stubSpecRepo) Create(context.Context, *specialization.Specialization) error { return nil }

func (r *stubSpecRepo) GetByID(_ context.Context, id string) (*specialization.Specialization, error) {
	if r.spec == nil || r.spec.ID != id {
		return nil, shared.ErrSpecializationNotFound
	}
	return r.spec, nil
}

func (r *stubSpecRepo) GetByResident(context.Context, string) ([]*specialization.Specialization, error) {
	return nil, nil
}

func (r *stubSpecRepo) Update(context.Context, *specialization.Specialization) error { return nil }

func (r *stubSpecRepo) GetAll(context.Context) ([]*specialization.Specialization, error) {
	return nil, nil
}

type stubModuleRepo struct {
	modules []*specialization.Module
	calls   int
}

func (r *stubModuleRepo) Create(context.Context, *specialization.Module) error { return nil }

func (r *stubModuleRepo) GetByID(_ context.Context, id string) (*specialization.Module, error) {
	r.calls++
	for _, m := range r.modules {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrModuleNotFound
}

func (r *stubModuleRepo) GetBySpecialization(context.Context, string) ([]*specialization.Module, error) {
	return r.modules, nil
}

func (r *stubModuleRepo) Update(context.Context, *specialization.Module) error { return nil }

type stubAbsenceRepo struct {
	absences []*training.Absence
}

func (r *stubAbsenceRepo) Create(context.Context, *training.Absence) error { return nil }

func (r *stubAbsenceRepo) GetByID(context.Context, string) (*training.Absence, error) {
	return nil, shared.ErrAbsenceNotFound
}

func (r *stubAbsenceRepo) GetBySpecialization(context.Context, string) ([]*training.Absence, error) {
	return r.absences, nil
}

func (r *stubAbsenceRepo) Update(context.Context, *training.Absence) error { return nil }
func (r *stubAbsenceRepo) Delete(context.Context, string) error            { return nil }

// memCache is a map-backed StatsCache. Values round-trip through JSON the
// way the redis cache does, so type mismatches surface in tests.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return shared.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}
