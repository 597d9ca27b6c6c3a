package badger

import (
	"context"
	"testing"
	"time"

	"github.com/shanxter/Agastya/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestFindSimilar_NoChunks(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	vector := []float32{0.1, 0.2, 0.3}

	results, err := backend.FindSimilar(ctx, vector, 0.5, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_WithChunks(t *testing.T) {
	chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	chunks := []*core.ContentChunk{
		{
			SourceIdentity: "pubmed:1",
			ChunkIndex:     0,
			Text:           "First abstract",
			PublishedAt:    now.AddDate(0, -1, 0),
			Vector:         []float32{1.0, 0.0, 0.0}, // Very similar to query
		},
		{
			SourceIdentity: "pubmed:2",
			ChunkIndex:     0,
			Text:           "Second abstract",
			PublishedAt:    now.AddDate(0, -2, 0),
			Vector:         []float32{0.9, 0.1, 0.0}, // Somewhat similar
		},
		{
			SourceIdentity: "pubmed:3",
			ChunkIndex:     0,
			Text:           "Third abstract",
			PublishedAt:    now.AddDate(0, -3, 0),
			Vector:         []float32{0.0, 0.0, 1.0}, // Not similar
		},
	}

	_, err = chunkRepo.UpsertChunks(ctx, chunks...)
	require.NoError(t, err)

	query := []float32{1.0, 0.0, 0.0}
	results, err := backend.FindSimilar(ctx, query, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ordered by similarity descending
	assert.Equal(t, "pubmed:1", results[0].Chunk.SourceIdentity)
	assert.Equal(t, "pubmed:2", results[1].Chunk.SourceIdentity)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestFindSimilar_RecencyBreaksTies(t *testing.T) {
	chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	older := &core.ContentChunk{
		SourceIdentity: "pubmed:old",
		ChunkIndex:     0,
		Text:           "Older study",
		PublishedAt:    now.AddDate(-2, 0, 0),
		Vector:         []float32{1.0, 0.0, 0.0},
	}
	newer := &core.ContentChunk{
		SourceIdentity: "pubmed:new",
		ChunkIndex:     0,
		Text:           "Newer study",
		PublishedAt:    now.AddDate(0, -1, 0),
		Vector:         []float32{1.0, 0.0, 0.0}, // identical vector, identical score
	}

	_, err = chunkRepo.UpsertChunks(ctx, older, newer)
	require.NoError(t, err)

	results, err := backend.FindSimilar(ctx, []float32{1.0, 0.0, 0.0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "pubmed:new", results[0].Chunk.SourceIdentity)
	assert.Equal(t, "pubmed:old", results[1].Chunk.SourceIdentity)
}

func TestFindSimilar_RespectsLimit(t *testing.T) {
	chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err = chunkRepo.UpsertChunks(ctx, &core.ContentChunk{
			SourceIdentity: "pubmed:batch",
			ChunkIndex:     i,
			Text:           "Chunk text",
			Vector:         []float32{1.0, 0.0, 0.0},
		})
		require.NoError(t, err)
	}

	results, err := backend.FindSimilar(ctx, []float32{1.0, 0.0, 0.0}, 0.5, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDotProduct(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"identical unit", []float32{1, 0}, []float32{1, 0}, 1},
		{"mismatched lengths", []float32{1, 1, 1}, []float32{1, 1}, 2},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dotProduct(tt.a, tt.b))
		})
	}
}
