// Copyright 2025 ZoomRx, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package maintenance

import (
	"context"

	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage"
)

// DefaultBatchSize is the default number of chunks handled per batch.
const DefaultBatchSize = 100

// ChunkIterator streams the whole corpus in batches so maintenance jobs
// never hold every chunk in memory at once.
type ChunkIterator struct {
	repo      storage.ChunkRepository
	batchSize int
}

// NewChunkIterator creates a chunk iterator.
// batchSize: number of chunks per batch (must be > 0)
func NewChunkIterator(repo storage.ChunkRepository, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ChunkIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all chunks, calling fn for each full batch and
// once more for the final partial batch. Iteration stops on the first
// error from fn; context cancellation is honored between chunks.
func (it *ChunkIterator) ForEach(ctx context.Context, fn func([]*core.ContentChunk) error) error {
	batch := make([]*core.ContentChunk, 0, it.batchSize)

	err := it.repo.ForEachChunk(ctx, func(chunk *core.ContentChunk) error {
		batch = append(batch, chunk)
		if len(batch) < it.batchSize {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	})
	if err != nil {
		return err
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
