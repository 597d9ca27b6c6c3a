package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/shanxter/Agastya/ai"
	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage"
)

// Pipeline orchestrates corpus ingestion: fetching documents from each
// registered source since its watermark, chunking, duplicate detection,
// embedding, and indexing. Sources run concurrently and fail
// independently; a failed source keeps its watermark so the next cycle
// retries the same window.
type Pipeline struct {
	store    storage.CorpusStore
	embedder ai.Embedder
	sources  []Source
	chunker  *Chunker
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent source fetches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking overrides the chunk size and overlap.
func WithChunking(chunkSize, chunkOverlap int) Option {
	return func(p *Pipeline) error {
		p.chunker = NewChunker(chunkSize, chunkOverlap)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given sources.
func NewPipeline(
	store storage.CorpusStore,
	embedder ai.Embedder,
	sources []Source,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if len(sources) == 0 {
		return nil, ErrSourceRequired
	}
	for _, source := range sources {
		if source == nil || source.Name() == "" {
			return nil, ErrSourceRequired
		}
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:    store,
		embedder: embedder,
		sources:  sources,
		chunker:  NewChunker(DefaultChunkSize, DefaultChunkOverlap),
		pool:     pool,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// RunCycle runs one full ingestion pass over every source and reports
// what happened. Per-source failures land in Report.Failed instead of
// failing the cycle; RunCycle itself errors only when the cycle could
// not run at all.
func (p *Pipeline) RunCycle(ctx context.Context) (*core.IngestionReport, error) {
	report := &core.IngestionReport{Failed: make(map[string]string)}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, source := range p.sources {
		source := source
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			fetched, skipped, indexed, err := p.runSource(ctx, source)

			mu.Lock()
			defer mu.Unlock()
			report.Fetched += fetched
			report.SkippedDuplicate += skipped
			report.NewlyIndexed += indexed
			if err != nil {
				p.logger.ErrorContext(ctx, "source failed, watermark unchanged",
					"source", source.Name(), "err", err)
				report.Failed[source.Name()] = err.Error()
			}
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("submitting source %q: %w", source.Name(), err)
		}
	}
	wg.Wait()

	p.logger.InfoContext(ctx, "ingestion cycle complete",
		"fetched", report.Fetched,
		"skipped_duplicate", report.SkippedDuplicate,
		"newly_indexed", report.NewlyIndexed,
		"failed_sources", len(report.Failed))
	return report, nil
}

// runSource ingests one source. The watermark advances only after every
// fetched document has either been indexed or recognized as a
// duplicate, so a mid-batch failure is retried next cycle.
func (p *Pipeline) runSource(ctx context.Context, source Source) (fetched, skipped, indexed int, err error) {
	since := time.Time{}
	wm, err := p.store.GetWatermark(ctx, source.Name())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return 0, 0, 0, fmt.Errorf("reading watermark: %w", err)
	}
	if wm != nil {
		since = wm.Position
	}

	docs, err := source.Fetch(ctx, since)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("fetching: %w", err)
	}
	fetched = len(docs)

	position := since
	for i := range docs {
		doc := &docs[i]
		isDup, docErr := p.ingestDocument(ctx, doc)
		if docErr != nil {
			return fetched, skipped, indexed,
				fmt.Errorf("document %q: %w", doc.Identity(), docErr)
		}
		if isDup {
			skipped++
		} else {
			indexed++
		}
		if doc.PublishedAt.After(position) {
			position = doc.PublishedAt
		}
	}

	if err := p.store.SetWatermark(ctx, &core.Watermark{
		Source:   source.Name(),
		Position: position,
	}); err != nil {
		return fetched, skipped, indexed, fmt.Errorf("advancing watermark: %w", err)
	}
	return fetched, skipped, indexed, nil
}

// ingestDocument indexes one document unless its content fingerprint is
// already recorded. Reports whether the document was a duplicate.
func (p *Pipeline) ingestDocument(ctx context.Context, doc *core.SourceDocument) (bool, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return false, err
	}

	identity := doc.Identity()
	fingerprint := core.Fingerprint(doc.Body)

	stored, err := p.store.IdentityFingerprint(ctx, identity)
	switch {
	case err == nil && stored == fingerprint:
		p.logger.DebugContext(ctx, "skipping duplicate document", "identity", identity)
		return true, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return false, fmt.Errorf("reading fingerprint: %w", err)
	}

	chunks, err := p.chunker.Chunk(doc)
	if err != nil {
		return false, err
	}
	if len(chunks) == 0 {
		return false, core.ErrEmptyBody
	}

	// A changed document is re-chunked, but chunks whose text survived
	// the change keep their stored embedding. Identical text always maps
	// to the same vector, so matching by text hash is enough even when
	// the chunk moved to a different index.
	priorVectors, err := p.storedVectorsByTextHash(ctx, identity)
	if err != nil {
		return false, err
	}

	var pending []*core.ContentChunk
	var texts []string
	for _, chunk := range chunks {
		chunk.TextHash = core.Fingerprint(chunk.Text)
		if vector, ok := priorVectors[chunk.TextHash]; ok {
			chunk.Vector = vector
			continue
		}
		pending = append(pending, chunk)
		texts = append(texts, chunk.Text)
	}

	if len(pending) > 0 {
		embeddings, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return false, fmt.Errorf("embedding chunks: %w", err)
		}
		if len(embeddings) != len(pending) {
			return false, fmt.Errorf("embedding result mismatch. expected %d, received %d",
				len(pending), len(embeddings))
		}
		for i := range pending {
			pending[i].Vector = embeddings[i]
		}
	}
	if reused := len(chunks) - len(pending); reused > 0 {
		p.logger.DebugContext(ctx, "reused stored embeddings for unchanged chunks",
			"identity", identity, "reused", reused, "embedded", len(pending))
	}

	if _, err := p.store.UpsertChunks(ctx, chunks...); err != nil {
		return false, fmt.Errorf("upserting chunks: %w", err)
	}
	if err := p.store.SetIdentityFingerprint(ctx, identity, fingerprint); err != nil {
		return false, fmt.Errorf("recording fingerprint: %w", err)
	}
	return false, nil
}

// storedVectorsByTextHash maps the text hash of every stored chunk of
// an identity to its embedding.
func (p *Pipeline) storedVectorsByTextHash(ctx context.Context, identity string) (map[uint64][]float32, error) {
	stored, err := p.store.GetChunksByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("reading stored chunks: %w", err)
	}
	vectors := make(map[uint64][]float32, len(stored))
	for _, chunk := range stored {
		if chunk.TextHash != 0 && len(chunk.Vector) > 0 {
			vectors[chunk.TextHash] = chunk.Vector
		}
	}
	return vectors, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
