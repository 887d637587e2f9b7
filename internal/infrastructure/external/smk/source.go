// Package smk implements loading of specialization programme documents.
package smk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/pkg/circuitbreaker"
	"github.com/smk-hub/residency-training-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT SOURCE
// ══════════════════════════════════════════════════════════════════════════════

// DocumentSource fetches the raw programme document for a programme code
// and SMK version. A missing document is reported as ErrDocumentNotFound.
type DocumentSource interface {
	Load(ctx context.Context, code shared.ProgramCode, version shared.SmkVersion) ([]byte, error)
}

// documentFileName builds the canonical document file name,
// e.g. "0730_new.json".
func documentFileName(code shared.ProgramCode, version shared.SmkVersion) string {
	return fmt.Sprintf("%s_%s.json", code, version)
}

// ══════════════════════════════════════════════════════════════════════════════
// FILE SOURCE
// ══════════════════════════════════════════════════════════════════════════════

// FileSource reads programme documents from a local directory. This is the
// source used in deployments where the document bundle ships alongside the
// service.
type FileSource struct {
	dir    string
	logger *slog.Logger
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{dir: dir, logger: logger}
}

// Load reads the document for the given programme code and version.
func (s *FileSource) Load(_ context.Context, code shared.ProgramCode, version shared.SmkVersion) ([]byte, error) {
	path := filepath.Join(s.dir, documentFileName(code, version))

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, code, version)
		}
		return nil, fmt.Errorf("read programme document %s: %w", path, err)
	}

	s.logger.Debug("loaded programme document",
		"path", path,
		"size", len(raw))

	return raw, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP SOURCE
// ══════════════════════════════════════════════════════════════════════════════

// HTTPSourceConfig contains configuration for the HTTP document source.
type HTTPSourceConfig struct {
	// BaseURL is the document registry base URL
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// MaxAttempts bounds retries on transient failures
	MaxAttempts int

	// Logger for structured logging
	Logger *slog.Logger
}

// DefaultHTTPSourceConfig returns sensible defaults.
func DefaultHTTPSourceConfig(baseURL string) HTTPSourceConfig {
	return HTTPSourceConfig{
		BaseURL:     baseURL,
		Timeout:     15 * time.Second,
		MaxAttempts: 3,
	}
}

// HTTPSource fetches programme documents from the central document
// registry over HTTP. Transient failures (5xx, network errors) are
// retried with exponential backoff; a 404 is permanent and maps to
// ErrDocumentNotFound. A circuit breaker shields the registry when it
// is down for longer than a single retry budget.
type HTTPSource struct {
	config     HTTPSourceConfig
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewHTTPSource creates a new HTTP document source.
func NewHTTPSource(config HTTPSourceConfig) *HTTPSource {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	logger := config.Logger
	breaker := circuitbreaker.RegistryBreaker(
		func(name string, from, to circuitbreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
		// A missing document is a valid answer, not a registry outage.
		circuitbreaker.WithIsFailure(func(err error) bool {
			return !errors.Is(err, ErrDocumentNotFound)
		}),
	)

	return &HTTPSource{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// Load fetches the document for the given programme code and version.
func (s *HTTPSource) Load(ctx context.Context, code shared.ProgramCode, version shared.SmkVersion) ([]byte, error) {
	url := fmt.Sprintf("%s/programmes/%s", s.config.BaseURL, documentFileName(code, version))

	var raw []byte
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		raw, err = retry.DoWithData(ctx, func(ctx context.Context) ([]byte, error) {
			return s.fetch(ctx, url)
		},
			retry.WithMaxAttempts(s.config.MaxAttempts),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched programme document",
		"url", url,
		"size", len(raw))

	return raw, nil
}

func (s *HTTPSource) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, retry.Retryable(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, retry.Retryable(fmt.Errorf("read response: %w", err))
		}
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, retry.Permanent(ErrDocumentNotFound)
	case resp.StatusCode >= 500:
		return nil, retry.Retryable(fmt.Errorf("registry returned status %d", resp.StatusCode))
	default:
		return nil, retry.Permanent(fmt.Errorf("registry returned status %d", resp.StatusCode))
	}
}
