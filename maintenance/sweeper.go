package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shanxter/Agastya/storage"
)

// DefaultMaxAge is how old a chunk's publication date may be before the
// sweeper removes it.
const DefaultMaxAge = 2 * 365 * 24 * time.Hour

// ErrInvalidMaxAge is returned when the sweep age is not positive.
var ErrInvalidMaxAge = errors.New("max age must be greater than zero")

// RetentionSweeper deletes chunks whose publication date has aged out.
// Identity fingerprints are kept, so a swept document that reappears
// upstream is still recognized as already seen.
type RetentionSweeper struct {
	repo   storage.ChunkRepository
	logger *slog.Logger
}

// NewRetentionSweeper creates a sweeper over the chunk corpus.
func NewRetentionSweeper(repo storage.ChunkRepository, logger *slog.Logger) (*RetentionSweeper, error) {
	if repo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionSweeper{
		repo:   repo,
		logger: logger.With("component", "retention_sweeper"),
	}, nil
}

// Sweep removes all chunks published more than maxAge ago and reports
// how many were removed.
func (s *RetentionSweeper) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, ErrInvalidMaxAge
	}

	cutoff := time.Now().Add(-maxAge)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping chunks older than %s: %w", cutoff.Format(time.DateOnly), err)
	}

	s.logger.InfoContext(ctx, "retention sweep complete",
		"cutoff", cutoff.Format(time.DateOnly), "removed", removed)
	return removed, nil
}
