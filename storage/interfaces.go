package storage

import (
	"context"
	"time"

	"github.com/shanxter/Agastya/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for the indexed content corpus.
type ChunkRepository interface {
	Repository

	// UpsertChunks inserts or replaces chunks keyed by their
	// (SourceIdentity, ChunkIndex) identity. Chunks with Id=0 get a
	// content-derived id. Sets IngestedAt if not already set.
	// Returns the chunks with ids and timestamps populated.
	UpsertChunks(ctx context.Context, chunks ...*core.ContentChunk) ([]*core.ContentChunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.ContentChunk, error)

	// GetChunksByIdentity retrieves all chunks for one source identity,
	// ordered by chunk index. Returns an empty slice when none exist.
	GetChunksByIdentity(ctx context.Context, sourceIdentity string) ([]*core.ContentChunk, error)

	// IdentityFingerprint returns the stored content fingerprint for a
	// source identity, used by ingestion for duplicate detection.
	// Returns ErrNotFound when the identity has never been indexed.
	IdentityFingerprint(ctx context.Context, sourceIdentity string) (uint64, error)

	// SetIdentityFingerprint records the content fingerprint for a source
	// identity. Fingerprints survive retention sweeps so aged-out
	// documents are not re-ingested.
	SetIdentityFingerprint(ctx context.Context, sourceIdentity string, fingerprint uint64) error

	// FindSimilar finds chunks similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first); ties are
	// broken by publication recency.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// DeleteOlderThan removes chunks whose publication date is before
	// cutoff, along with their identity index entries.
	// Returns the number of chunks removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// ForEachChunk streams every stored chunk to fn in key order.
	// Iteration stops on the first error from fn.
	ForEachChunk(ctx context.Context, fn func(*core.ContentChunk) error) error
}

// WatermarkRepository tracks per-source ingestion progress.
type WatermarkRepository interface {
	// GetWatermark returns the stored watermark for a source.
	// Returns ErrNotFound when the source has never completed a cycle.
	GetWatermark(ctx context.Context, source string) (*core.Watermark, error)

	// SetWatermark stores the watermark for a source, overwriting any
	// previous value. UpdatedAt is set if zero.
	SetWatermark(ctx context.Context, wm *core.Watermark) error
}

// CorpusStore is the full storage surface the ingestion pipeline and
// retrieval handler depend on.
type CorpusStore interface {
	ChunkRepository
	WatermarkRepository
}
