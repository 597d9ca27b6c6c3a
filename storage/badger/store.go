package badger

import (
	"github.com/shanxter/Agastya/storage"
)

// Store combines the chunk and watermark repositories over one backend
// and implements storage.CorpusStore.
type Store struct {
	*ChunkRepository
	*WatermarkRepository
	backend *Backend
}

var _ storage.CorpusStore = (*Store)(nil)

// NewStore opens a persistent corpus store at the given path.
func NewStore(path string) (storage.CorpusStore, error) {
	return newStore(path, false)
}

// NewMemoryStore opens an in-memory corpus store for testing.
func NewMemoryStore() (storage.CorpusStore, error) {
	return newStore("", true)
}

func newStore(path string, inMemory bool) (*Store, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	chunks, err := NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	watermarks, err := NewWatermarkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Store{
		ChunkRepository:     chunks,
		WatermarkRepository: watermarks,
		backend:             backend,
	}, nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
