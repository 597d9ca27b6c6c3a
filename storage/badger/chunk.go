package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertChunks inserts or replaces chunks keyed by their identity.
func (r *ChunkRepository) UpsertChunks(ctx context.Context, chunks ...*core.ContentChunk) ([]*core.ContentChunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}

			// Content-based ID from the chunk identity
			if chunk.Id == 0 {
				chunk.Id = core.ChunkID(chunk.SourceIdentity, chunk.ChunkIndex)
			}
			if chunk.TextHash == 0 {
				chunk.TextHash = core.Fingerprint(chunk.Text)
			}
			if chunk.IngestedAt.IsZero() {
				chunk.IngestedAt = time.Now().UTC()
			}

			key := makeChunkKey(chunk.Id)

			// Read any previous version to keep the date index consistent
			old, err := r.readChunk(tx, key)
			if err != nil {
				return err
			}
			if old != nil && !old.PublishedAt.Equal(chunk.PublishedAt) {
				if err := tx.Delete(makeChunkPubDateKey(old.PublishedAt, old.Id)); err != nil {
					return err
				}
			}

			// Store primary record
			value := storage.MarshalChunk(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update identity index
			identKey := makeChunkIdentityKey(chunk.SourceIdentity, chunk.ChunkIndex)
			if err := tx.Set(identKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}

			// Update publication date index
			dateKey := makeChunkPubDateKey(chunk.PublishedAt, chunk.Id)
			if err := tx.Set(dateKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.ContentChunk, error) {
	var result *core.ContentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeChunkKey(id)
		var err error
		result, err = r.readChunk(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunksByIdentity retrieves all chunks for one source identity,
// ordered by chunk index.
func (r *ChunkRepository) GetChunksByIdentity(ctx context.Context, sourceIdentity string) ([]*core.ContentChunk, error) {
	var results []*core.ContentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialChunkIdentityKey(sourceIdentity)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			// Check if key still has our identity prefix
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			// Read the ID from the index
			var chunkID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full chunk
			chunk, err := r.readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)

	return results, err
}

// IdentityFingerprint returns the stored content fingerprint for a source identity.
func (r *ChunkRepository) IdentityFingerprint(ctx context.Context, sourceIdentity string) (uint64, error) {
	var fp uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIdentityHashKey(sourceIdentity))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) < 8 {
				return storage.ErrTruncatedData
			}
			fp = binary.BigEndian.Uint64(val)
			return nil
		})
	}, false)
	return fp, err
}

// SetIdentityFingerprint records the content fingerprint for a source identity.
func (r *ChunkRepository) SetIdentityFingerprint(ctx context.Context, sourceIdentity string, fingerprint uint64) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], fingerprint)
		if err := tx.Set(makeIdentityHashKey(sourceIdentity), buf[:]); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteOlderThan removes chunks published before cutoff.
// Identity fingerprints are retained so swept documents are not re-ingested.
func (r *ChunkRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	deleted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		endKey := makePartialChunkPubDateKey(cutoff)
		prefix := []byte(chunkPubDatePrefix + ":")

		// The iterator must be closed before tx.Commit/Discard, so it is
		// closed explicitly after the scan rather than deferred.
		iter := tx.NewIterator(badger.DefaultIteratorOptions)

		type victim struct {
			dateKey []byte
			id      core.ID
		}
		var victims []victim

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}
			// Stop once the indexed timestamp reaches the cutoff
			if slices.Compare(key[:len(endKey)], endKey) >= 0 {
				break
			}

			var chunkID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				iter.Close()
				return err
			}
			victims = append(victims, victim{dateKey: slices.Clone(key), id: chunkID})
		}
		iter.Close()

		for _, v := range victims {
			chunk, err := r.readChunk(tx, makeChunkKey(v.id))
			if err != nil {
				return err
			}
			if chunk != nil {
				identKey := makeChunkIdentityKey(chunk.SourceIdentity, chunk.ChunkIndex)
				if err := tx.Delete(identKey); err != nil {
					return err
				}
				if err := tx.Delete(makeChunkKey(v.id)); err != nil {
					return err
				}
				deleted++
			}
			if err := tx.Delete(v.dateKey); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// CountChunks returns the number of stored chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		identPrefix := []byte(chunkIdentityPrefix)
		datePrefix := []byte(chunkPubDatePrefix)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if bytes.HasPrefix(key, identPrefix) || bytes.HasPrefix(key, datePrefix) {
				continue
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// ForEachChunk streams every stored chunk to fn in key order.
func (r *ChunkRepository) ForEachChunk(ctx context.Context, fn func(*core.ContentChunk) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		identPrefix := []byte(chunkIdentityPrefix)
		datePrefix := []byte(chunkPubDatePrefix)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := iter.Item().Key()
			if bytes.HasPrefix(key, identPrefix) || bytes.HasPrefix(key, datePrefix) {
				continue
			}

			var chunk *core.ContentChunk
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			}); err != nil {
				return err
			}
			if chunk == nil {
				continue
			}
			if err := fn(chunk); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Helper methods

// readChunk reads a content chunk from the transaction.
func (r *ChunkRepository) readChunk(tx *badger.Txn, key []byte) (*core.ContentChunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.ContentChunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
