package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/flowforge/internal/core/model"
)

// fixedEmbedder returns a canned vector per text so similarity is
// controllable in tests.
type fixedEmbedder struct {
	vectors map[string][]float32
	fall    []float32
}

func (f *fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.fall, nil
}

func TestSQLiteStore_PutAndGet(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	err = s.Put(ctx, []model.Artifact{
		{ID: "a-1", Name: "Order Split", DocumentName: "orders.docx", ChunkType: "step", Content: "split orders"},
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Order Split", got.Name)
	assert.Equal(t, "orders.docx", got.DocumentName)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SearchWithEmbeddings(t *testing.T) {
	embedder := &fixedEmbedder{
		vectors: map[string][]float32{
			"Order Split\nsplit orders":   {1, 0, 0},
			"Invoice Check\ncheck totals": {0, 1, 0},
			"order split":                 {1, 0, 0},
		},
		fall: []float32{0, 0, 1},
	}

	s, err := NewSQLiteStore(":memory:", embedder)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, []model.Artifact{
		{Name: "Order Split", DocumentName: "d1", ChunkType: "step", Content: "split orders"},
		{Name: "Invoice Check", DocumentName: "d2", ChunkType: "step", Content: "check totals"},
	}))

	results, err := s.SearchSimilar(ctx, "order split", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The exact-direction match maps to confidence 1.0, the orthogonal
	// one to 0.5.
	assert.Equal(t, "Order Split", results[0].Name)
	assert.InDelta(t, 1.0, results[0].Confidence, 1e-9)
	assert.InDelta(t, 0.5, results[1].Confidence, 1e-9)
}

func TestSQLiteStore_SearchWithoutEmbedderUsesTextScore(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, []model.Artifact{
		{Name: "customer onboarding", DocumentName: "d1", ChunkType: "step"},
		{Name: "invoice validation", DocumentName: "d2", ChunkType: "step"},
	}))

	results, err := s.SearchSimilar(ctx, "invoice validation", 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "invoice validation", results[0].Name)
	assert.InDelta(t, 1.0, results[0].Confidence, 1e-9)
}

func TestSQLiteStore_SearchFiltersByChunkType(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, []model.Artifact{
		{Name: "mapping spec", ChunkType: "mapping"},
		{Name: "mapping step", ChunkType: "step"},
	}))

	results, err := s.SearchSimilar(ctx, "mapping", 10, []string{"step"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mapping step", results[0].Name)
}

func TestSQLiteStore_SearchEmptyStore(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()

	results, err := s.SearchSimilar(context.Background(), "anything", 5, nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSQLiteStore_ClosedStore(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.SearchSimilar(context.Background(), "x", 1, nil)
	assert.ErrorIs(t, err, ErrStoreClosed)

	err = s.Put(context.Background(), []model.Artifact{{Name: "x"}})
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.75}
	assert.Equal(t, vec, decodeVector(encodeVector(vec)))
}
