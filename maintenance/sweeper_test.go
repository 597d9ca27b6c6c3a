package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage/badger"
)

func TestSweep_RemovesOnlyAgedChunks(t *testing.T) {
	chunkRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	old := &core.ContentChunk{
		SourceIdentity: "pubmed:old",
		ChunkIndex:     0,
		Source:         "pubmed",
		Text:           "old study",
		PublishedAt:    time.Now().AddDate(-3, 0, 0),
	}
	fresh := &core.ContentChunk{
		SourceIdentity: "pubmed:fresh",
		ChunkIndex:     0,
		Source:         "pubmed",
		Text:           "fresh study",
		PublishedAt:    time.Now().AddDate(0, -1, 0),
	}
	_, err = chunkRepo.UpsertChunks(context.Background(), old, fresh)
	require.NoError(t, err)

	sweeper, err := NewRetentionSweeper(chunkRepo, nil)
	require.NoError(t, err)

	removed, err := sweeper.Sweep(context.Background(), DefaultMaxAge)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	remaining, err := chunkRepo.CountChunks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	chunks, err := chunkRepo.GetChunksByIdentity(context.Background(), "pubmed:fresh")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestSweep_KeepsIdentityFingerprints(t *testing.T) {
	chunkRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	chunk := &core.ContentChunk{
		SourceIdentity: "pubmed:old",
		ChunkIndex:     0,
		Source:         "pubmed",
		Text:           "old study",
		PublishedAt:    time.Now().AddDate(-3, 0, 0),
	}
	_, err = chunkRepo.UpsertChunks(context.Background(), chunk)
	require.NoError(t, err)
	require.NoError(t, chunkRepo.SetIdentityFingerprint(context.Background(), "pubmed:old", 42))

	sweeper, err := NewRetentionSweeper(chunkRepo, nil)
	require.NoError(t, err)
	_, err = sweeper.Sweep(context.Background(), DefaultMaxAge)
	require.NoError(t, err)

	// the swept document must still be recognized as already ingested
	fp, err := chunkRepo.IdentityFingerprint(context.Background(), "pubmed:old")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), fp)
}

func TestSweep_InvalidMaxAge(t *testing.T) {
	chunkRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	sweeper, err := NewRetentionSweeper(chunkRepo, nil)
	require.NoError(t, err)

	_, err = sweeper.Sweep(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidMaxAge)
}

func TestNewRetentionSweeper_RequiresRepository(t *testing.T) {
	_, err := NewRetentionSweeper(nil, nil)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)
}
