package template

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smk-hub/residency-training-hub/internal/domain/shared"
	"github.com/smk-hub/residency-training-hub/internal/infrastructure/external/smk"
)

// stubSource serves canned documents and counts loads.
type stubSource struct {
	docs  map[string][]byte
	loads atomic.Int64
}

func (s *stubSource) Load(_ context.Context, code shared.ProgramCode, version shared.SmkVersion) ([]byte, error) {
	s.loads.Add(1)
	raw, ok := s.docs[string(code)+"_"+string(version)]
	if !ok {
		return nil, smk.ErrDocumentNotFound
	}
	return raw, nil
}

const validDocument = `{
  "code": "0730",
  "smkVersion": "new",
  "name": "Kardiologia",
  "modules": [
    {"code": "MOD-1", "name": "Moduł podstawowy", "moduleType": "basic", "durationMonths": 24}
  ]
}`

func TestStore_CachesLoadedTemplate(t *testing.T) {
	source := &stubSource{docs: map[string][]byte{"0730_new": []byte(validDocument)}}
	store := NewStore(source, nil)

	ctx := context.Background()
	first, err := store.GetTemplate(ctx, "0730", shared.SmkVersionNew)
	require.NoError(t, err)
	second, err := store.GetTemplate(ctx, "0730", shared.SmkVersionNew)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), source.loads.Load())
}

func TestStore_ConcurrentRequestsShareOneLoad(t *testing.T) {
	source := &stubSource{docs: map[string][]byte{"0730_new": []byte(validDocument)}}
	store := NewStore(source, nil)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.GetTemplate(context.Background(), "0730", shared.SmkVersionNew)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), source.loads.Load())
}

func TestStore_MissingDocument(t *testing.T) {
	source := &stubSource{docs: map[string][]byte{}}
	store := NewStore(source, nil)

	_, err := store.GetTemplate(context.Background(), "0999", shared.SmkVersionOld)
	assert.ErrorIs(t, err, shared.ErrTemplateNotFound)
}

func TestStore_MalformedDocumentTreatedAsMissing(t *testing.T) {
	source := &stubSource{docs: map[string][]byte{"0730_new": []byte(`{"code": "0730"`)}}
	store := NewStore(source, nil)

	_, err := store.GetTemplate(context.Background(), "0730", shared.SmkVersionNew)
	assert.ErrorIs(t, err, shared.ErrTemplateNotFound)
}

func TestStore_FailedLoadIsRetried(t *testing.T) {
	source := &stubSource{docs: map[string][]byte{}}
	store := NewStore(source, nil)

	ctx := context.Background()
	_, err := store.GetTemplate(ctx, "0730", shared.SmkVersionNew)
	require.ErrorIs(t, err, shared.ErrTemplateNotFound)

	// Publish the document and ask again: the failure must not be cached.
	source.docs["0730_new"] = []byte(validDocument)
	tmpl, err := store.GetTemplate(ctx, "0730", shared.SmkVersionNew)
	require.NoError(t, err)
	assert.Equal(t, "Kardiologia", tmpl.Name)
	assert.Equal(t, int64(2), source.loads.Load())
}
