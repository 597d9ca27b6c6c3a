package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanxter/Agastya/ai/mock"
	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage"
	"github.com/shanxter/Agastya/storage/badger"
)

// failingSource always errors on Fetch.
type failingSource struct {
	name string
}

func (s *failingSource) Name() string { return s.name }

func (s *failingSource) Fetch(context.Context, time.Time) ([]core.SourceDocument, error) {
	return nil, errors.New("upstream unreachable")
}

func testDocs() []core.SourceDocument {
	return []core.SourceDocument{
		{
			Source:      "pubmed",
			ExternalID:  "38000001",
			Title:       "Semaglutide outcomes in type 2 diabetes",
			Body:        "Semaglutide improved glycemic control across all study arms.",
			PublishedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			URL:         "https://pubmed.example.org/38000001",
		},
		{
			Source:      "pubmed",
			ExternalID:  "38000002",
			Title:       "Statin adherence in primary care",
			Body:        "Adherence varied widely across cohorts and payer types.",
			PublishedAt: time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			URL:         "https://pubmed.example.org/38000002",
		},
	}
}

func newTestPipeline(t *testing.T, sources ...Source) (*Pipeline, storage.CorpusStore) {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	p, err := NewPipeline(store, mock.NewMockEmbedder(), sources)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return p, store
}

func TestNewPipeline_Guards(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	source := &SliceSource{SourceName: "pubmed"}

	_, err = NewPipeline(nil, mock.NewMockEmbedder(), []Source{source})
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(store, nil, []Source{source})
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(store, mock.NewMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewPipeline(store, mock.NewMockEmbedder(), []Source{&SliceSource{}})
	assert.ErrorIs(t, err, ErrSourceRequired)
}

func TestRunCycle_IndexesNewDocuments(t *testing.T) {
	p, store := newTestPipeline(t, &SliceSource{SourceName: "pubmed", Documents: testDocs()})

	report, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, 2, report.NewlyIndexed)
	assert.Equal(t, 0, report.SkippedDuplicate)
	assert.Empty(t, report.Failed)

	count, err := store.CountChunks(context.Background())
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	chunks, err := store.GetChunksByIdentity(context.Background(), "pubmed:38000001")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Text, "Title: Semaglutide outcomes")
	assert.NotEmpty(t, chunks[0].Vector)
}

func TestRunCycle_SecondRunSkipsEverything(t *testing.T) {
	docs := testDocs()
	// Re-serve the same documents regardless of watermark to exercise
	// fingerprint-based deduplication.
	alwaysServe := &SliceSource{SourceName: "pubmed", Documents: docs}
	p, _ := newTestPipeline(t, alwaysServe)

	_, err := p.RunCycle(context.Background())
	require.NoError(t, err)

	// Reset publication dates past the watermark so Fetch re-serves them
	// with identical bodies.
	for i := range alwaysServe.Documents {
		alwaysServe.Documents[i].PublishedAt = alwaysServe.Documents[i].PublishedAt.AddDate(0, 1, 0)
	}

	report, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, 0, report.NewlyIndexed)
	assert.Equal(t, report.Fetched, report.SkippedDuplicate)
}

func TestRunCycle_WatermarkAdvancesToNewestDocument(t *testing.T) {
	p, store := newTestPipeline(t, &SliceSource{SourceName: "pubmed", Documents: testDocs()})

	_, err := p.RunCycle(context.Background())
	require.NoError(t, err)

	wm, err := store.GetWatermark(context.Background(), "pubmed")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC), wm.Position)
}

func TestRunCycle_WatermarkFiltersSecondFetch(t *testing.T) {
	source := &SliceSource{SourceName: "pubmed", Documents: testDocs()}
	p, _ := newTestPipeline(t, source)

	_, err := p.RunCycle(context.Background())
	require.NoError(t, err)

	report, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Fetched)
}

func TestRunCycle_FailedSourceKeepsWatermark(t *testing.T) {
	p, store := newTestPipeline(t,
		&SliceSource{SourceName: "pubmed", Documents: testDocs()},
		&failingSource{name: "fda"},
	)

	report, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.NewlyIndexed)
	require.Contains(t, report.Failed, "fda")
	assert.Contains(t, report.Failed["fda"], "upstream unreachable")

	// healthy source advanced, failed source did not
	_, err = store.GetWatermark(context.Background(), "pubmed")
	assert.NoError(t, err)
	_, err = store.GetWatermark(context.Background(), "fda")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunCycle_ChangedContentReindexes(t *testing.T) {
	docs := testDocs()[:1]
	source := &SliceSource{SourceName: "pubmed", Documents: docs}
	p, _ := newTestPipeline(t, source)

	_, err := p.RunCycle(context.Background())
	require.NoError(t, err)

	source.Documents[0].Body = "Revised abstract with corrected endpoints."
	source.Documents[0].PublishedAt = source.Documents[0].PublishedAt.AddDate(0, 1, 0)

	report, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.NewlyIndexed)
	assert.Equal(t, 0, report.SkippedDuplicate)
}

func TestRunCycle_TailEditKeepsStoredEmbeddings(t *testing.T) {
	// Two paragraphs, each near the chunk size, so the splitter keeps
	// them as separate chunks and a tail-only edit leaves the first
	// chunk's text byte-identical.
	head := strings.TrimSpace(strings.Repeat("Stable first chunk sentence. ", 30))
	tail := strings.TrimSpace(strings.Repeat("Closing tail sentence. ", 30))
	doc := core.SourceDocument{
		Source:      "pubmed",
		ExternalID:  "38000003",
		Title:       "Chunk reuse study",
		Body:        head + "\n\n" + tail,
		PublishedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		URL:         "https://pubmed.example.org/38000003",
	}
	source := &SliceSource{SourceName: "pubmed", Documents: []core.SourceDocument{doc}}

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	embedCounts := make(map[string]int)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			embedCounts[text]++
			out[i] = []float32{float32(len(text)), 1, 0}
		}
		return out, nil
	}

	p, err := NewPipeline(store, embedder, []Source{source})
	require.NoError(t, err)
	t.Cleanup(p.Release)

	_, err = p.RunCycle(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(embedCounts), 2, "document should split into multiple chunks")

	source.Documents[0].Body = doc.Body + " Amended conclusion."
	source.Documents[0].PublishedAt = doc.PublishedAt.AddDate(0, 1, 0)

	report, err := p.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.NewlyIndexed)

	for text, count := range embedCounts {
		assert.Equalf(t, 1, count, "text embedded %d times: %.60q", count, text)
	}

	// the reused head chunk still carries its stored vector
	chunks, err := store.GetChunksByIdentity(context.Background(), "pubmed:38000003")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Vector)
	}
}

func TestChunker_PrependsTitleAndCarriesMetadata(t *testing.T) {
	chunker := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	doc := testDocs()[0]

	chunks, err := chunker.Chunk(&doc)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "pubmed:38000001", chunks[0].SourceIdentity)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Contains(t, chunks[0].Text, "Title: Semaglutide outcomes")
	assert.Equal(t, doc.PublishedAt, chunks[0].PublishedAt)
	assert.Equal(t, doc.URL, chunks[0].URL)
}

func TestChunker_SplitsLongBodies(t *testing.T) {
	chunker := NewChunker(200, 20)
	doc := testDocs()[0]
	doc.Body = ""
	for i := 0; i < 100; i++ {
		doc.Body += "Sentence number with enough words to build length. "
	}

	chunks, err := chunker.Chunk(&doc)
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
	}
}

func TestChunker_RejectsInvalidDocument(t *testing.T) {
	chunker := NewChunker(DefaultChunkSize, DefaultChunkOverlap)

	_, err := chunker.Chunk(&core.SourceDocument{Source: "pubmed"})
	assert.ErrorIs(t, err, core.ErrEmptyBody)
}
