package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage"
)

// WatermarkRepository implements storage.WatermarkRepository for BadgerDB.
type WatermarkRepository struct {
	backend *Backend
}

var _ storage.WatermarkRepository = (*WatermarkRepository)(nil)

// NewWatermarkRepository creates a new WatermarkRepository.
func NewWatermarkRepository(backend *Backend) (*WatermarkRepository, error) {
	return &WatermarkRepository{
		backend: backend,
	}, nil
}

// GetWatermark returns the stored watermark for a source.
func (r *WatermarkRepository) GetWatermark(ctx context.Context, source string) (*core.Watermark, error) {
	var result *core.Watermark
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeWatermarkKey(source))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalWatermark(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// SetWatermark stores the watermark for a source, overwriting any previous value.
func (r *WatermarkRepository) SetWatermark(ctx context.Context, wm *core.Watermark) error {
	if wm == nil || wm.Source == "" {
		return storage.ErrInvalidQuery
	}
	if wm.UpdatedAt.IsZero() {
		wm.UpdatedAt = time.Now().UTC()
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeWatermarkKey(wm.Source), storage.MarshalWatermark(wm)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
