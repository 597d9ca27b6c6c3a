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
	"fmt"
	"io"
	"time"

	"github.com/shanxter/Agastya/ai"
	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage"
)

// Config holds configuration for the reembedding job.
type Config struct {
	// BatchSize is the number of chunks to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the embedding vector of every stored chunk,
// typically after switching embedding models. Chunk ids and text are
// untouched; only vectors change.
type Reembedder struct {
	repo     storage.ChunkRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	iterator *ChunkIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.ChunkRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
		iterator: NewChunkIterator(repo, config.BatchSize),
	}, nil
}

// Run executes the reembedding job over the whole corpus.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.repo.CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found in corpus (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(chunks []*core.ContentChunk) error {
		if err := r.processBatch(ctx, chunks); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(chunks)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}

// processBatch embeds one batch of chunk texts and writes the vectors
// back, retrying both steps with backoff.
func (r *Reembedder) processBatch(ctx context.Context, chunks []*core.ContentChunk) error {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = r.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d",
			len(chunks), len(embeddings))
	}

	for i := range chunks {
		chunks[i].Vector = embeddings[i]
	}

	err = RetryWithBackoff(ctx, func() error {
		_, upsertErr := r.repo.UpsertChunks(ctx, chunks...)
		return upsertErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("storing reembedded chunks: %w", err)
	}
	return nil
}
