package badger

import (
	"context"
	"testing"
	"time"

	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermark_GetUnknownSource(t *testing.T) {
	_, wmRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = wmRepo.GetWatermark(context.Background(), "pubmed")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWatermark_SetAndGet(t *testing.T) {
	_, wmRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	position := time.Now().UTC().AddDate(0, 0, -1).Truncate(time.Microsecond)

	err = wmRepo.SetWatermark(ctx, &core.Watermark{
		Source:   "pubmed",
		Position: position,
	})
	require.NoError(t, err)

	got, err := wmRepo.GetWatermark(ctx, "pubmed")
	require.NoError(t, err)
	assert.Equal(t, "pubmed", got.Source)
	assert.True(t, got.Position.Equal(position))
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestWatermark_Overwrite(t *testing.T) {
	_, wmRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	first := time.Now().UTC().AddDate(0, 0, -7).Truncate(time.Microsecond)
	second := first.AddDate(0, 0, 3)

	require.NoError(t, wmRepo.SetWatermark(ctx, &core.Watermark{Source: "who_news", Position: first}))
	require.NoError(t, wmRepo.SetWatermark(ctx, &core.Watermark{Source: "who_news", Position: second}))

	got, err := wmRepo.GetWatermark(ctx, "who_news")
	require.NoError(t, err)
	assert.True(t, got.Position.Equal(second))
}

func TestWatermark_RejectsEmptySource(t *testing.T) {
	_, wmRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	err = wmRepo.SetWatermark(context.Background(), &core.Watermark{})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
