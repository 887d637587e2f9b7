// Package template implements the caching programme template store.
// Templates are immutable once published, so the store loads each
// (programme code, SMK version) pair at most once per process and serves
// every later request from memory.
package template

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/smk-hub/residency-training-hub/internal/domain/program"
	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/infrastructure/external/smk"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHING STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store is a caching implementation of program.Store backed by a
// document source. Concurrent requests for the same unseen key share a
// single load; the winner's result is cached for everyone.
type Store struct {
	source smk.DocumentSource
	mapper *smk.Mapper
	logger *slog.Logger

	mu      sync.Mutex
	entries map[storeKey]*entry
}

type storeKey struct {
	code    shared.ProgramCode
	version shared.SmkVersion
}

// entry holds the result of a single load. The ready channel closes when
// the load finishes, so waiters block without holding the store mutex.
type entry struct {
	ready    chan struct{}
	template *program.Template
	err      error
}

// NewStore creates a caching store over the given document source.
func NewStore(source smk.DocumentSource, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		source:  source,
		mapper:  smk.NewMapper(),
		logger:  logger,
		entries: make(map[storeKey]*entry),
	}
}

// GetTemplate returns the template for the (programme code, SMK version)
// pair. A missing or malformed document is reported as
// shared.ErrTemplateNotFound; malformed documents are additionally logged
// so operators can fix the published bundle.
func (s *Store) GetTemplate(ctx context.Context, code shared.ProgramCode, version shared.SmkVersion) (*program.Template, error) {
	key := storeKey{code: code, version: version}

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		s.entries[key] = e
		s.mu.Unlock()
		s.load(ctx, key, e)
	} else {
		s.mu.Unlock()
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if e.err != nil {
		return nil, e.err
	}
	return e.template, nil
}

// load performs the actual fetch and decode, fills the entry and closes
// its ready channel. Failed loads are evicted so a later request retries
// instead of caching the failure forever.
func (s *Store) load(ctx context.Context, key storeKey, e *entry) {
	defer close(e.ready)

	tmpl, err := s.fetch(ctx, key.code, key.version)
	if err != nil {
		e.err = err
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return
	}
	e.template = tmpl
}

func (s *Store) fetch(ctx context.Context, code shared.ProgramCode, version shared.SmkVersion) (*program.Template, error) {
	raw, err := s.source.Load(ctx, code, version)
	if err != nil {
		if errors.Is(err, smk.ErrDocumentNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", shared.ErrTemplateNotFound, code, version)
		}
		return nil, fmt.Errorf("load programme document %s/%s: %w", code, version, err)
	}

	dto, err := smk.DecodeDocument(raw)
	if err == nil {
		var tmpl *program.Template
		tmpl, err = s.mapper.TemplateFromDocument(dto)
		if err == nil {
			s.logger.Info("programme template loaded",
				"program_code", string(code),
				"smk_version", string(version),
				"modules", len(tmpl.Modules))
			return tmpl, nil
		}
	}

	// A document that exists but cannot be mapped is unusable; to callers
	// that is the same as having no template at all.
	s.logger.Error("programme document is malformed",
		"program_code", string(code),
		"smk_version", string(version),
		"error", err)
	return nil, fmt.Errorf("%w: %s/%s", shared.ErrTemplateNotFound, code, version)
}
