package ingestion

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/shanxter/Agastya/core"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is how much neighboring chunks share.
	DefaultChunkOverlap = 150
)

// Chunker splits a normalized document into indexable chunks.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

// NewChunker creates a Chunker with the given size and overlap.
// Non-positive values fall back to the defaults.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// Chunk splits the document body and carries the document metadata onto
// every chunk. The title is prepended to each chunk's text so embeddings
// keep the document topic even for mid-document chunks.
func (c *Chunker) Chunk(doc *core.SourceDocument) ([]*core.ContentChunk, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	pieces, err := c.splitter.SplitText(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("splitting document %q: %w", doc.Identity(), err)
	}

	identity := doc.Identity()
	chunks := make([]*core.ContentChunk, 0, len(pieces))
	for i, piece := range pieces {
		text := piece
		if doc.Title != "" {
			text = "Title: " + doc.Title + "\n\n" + piece
		}
		chunks = append(chunks, &core.ContentChunk{
			SourceIdentity: identity,
			ChunkIndex:     i,
			Source:         doc.Source,
			Title:          doc.Title,
			URL:            doc.URL,
			PublishedAt:    doc.PublishedAt,
			Text:           text,
		})
	}
	return chunks, nil
}
