package redis

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INVALIDATOR
// Drops derived views after a write touches their source records. Deletion
// is pattern-based where the key carries the entity ID, so a stale view is
// at worst one TTL away even if a pattern misses.
// ══════════════════════════════════════════════════════════════════════════════

// Invalidator invalidates cached training views. Satisfies the command
// layer's CacheInvalidator interface.
type Invalidator struct {
	cache *Cache
}

// NewInvalidator creates a new Invalidator.
func NewInvalidator(cache *Cache) *Invalidator {
	return &Invalidator{cache: cache}
}

// InvalidateModule drops the cached progress rollup of a module.
func (i *Invalidator) InvalidateModule(ctx context.Context, moduleID string) error {
	return i.cache.Delete(ctx, ModuleProgressKey(moduleID))
}

// InvalidateInternship drops all cached shift statistics of an internship.
func (i *Invalidator) InvalidateInternship(ctx context.Context, internshipID string) error {
	return i.cache.DeleteByPattern(ctx, PrefixStats+"*"+internshipID+"*")
}

// InvalidateSpecialization drops every derived key carrying the
// specialization ID: year progress and the important-dates view.
func (i *Invalidator) InvalidateSpecialization(ctx context.Context, specializationID string) error {
	return i.cache.DeleteByPattern(ctx, SpecializationPattern(specializationID))
}
