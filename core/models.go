package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so identical content
// always maps to the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint computes the content fingerprint used for duplicate detection.
func Fingerprint(text string) uint64 {
	return uint64(IDFromContent(text))
}

// Category classifies a user query into one of the supported routes.
// Ambiguous is a valid terminal classification, not an error state.
type Category string

const (
	// CategoryPanelSupport covers questions about the user's own panel
	// activity: earnings, completed surveys, participation, time spent.
	CategoryPanelSupport Category = "panel_support"
	// CategoryConferenceInfo covers questions about medical conferences.
	CategoryConferenceInfo Category = "conference_info"
	// CategoryResearchLookup covers medical and scientific questions
	// answered from the indexed corpus.
	CategoryResearchLookup Category = "research_lookup"
	// CategoryAmbiguous means no category scored decisively; the system
	// asks the user to clarify rather than guessing.
	CategoryAmbiguous Category = "ambiguous"
)

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryPanelSupport, CategoryConferenceInfo, CategoryResearchLookup, CategoryAmbiguous:
		return true
	}
	return false
}

// SourceDocument is the normalized record every document source must
// produce before its output enters the ingestion pipeline. Downstream
// stages never see source-specific formats.
type SourceDocument struct {
	Source      string // e.g. "pubmed", "clinicaltrials", "who_news"
	ExternalID  string // stable identifier within the source (PMID, NCT number, article URL)
	Title       string
	Body        string
	Authors     []string
	PublishedAt time.Time
	URL         string
}

// Identity derives the deduplication key for the document.
// Documents without a stable external id fall back to their URL.
func (d *SourceDocument) Identity() string {
	if d.ExternalID != "" {
		return d.Source + ":" + d.ExternalID
	}
	return d.Source + ":" + d.URL
}

// ContentChunk is the atomic unit of retrieval: a bounded span of source
// text with its embedding and enough metadata to cite the original.
type ContentChunk struct {
	Id             ID
	SourceIdentity string // dedup key; unique together with ChunkIndex
	ChunkIndex     int
	Source         string
	Title          string
	URL            string
	PublishedAt    time.Time
	Text           string
	TextHash       uint64 // fingerprint of Text, guards against redundant re-embedding
	Vector         []float32
	IngestedAt     time.Time
}

// ChunkID computes the storage identity for a (source identity, chunk index) pair.
func ChunkID(sourceIdentity string, chunkIndex int) ID {
	return IDFromContent(sourceIdentity + "#" + strconv.Itoa(chunkIndex))
}

// SourceRef is a citation carried from retrieval through to the final answer.
type SourceRef struct {
	Title string
	URL   string
}

// ToolResult is the normalized unit every route handler produces,
// regardless of which backing service answered. The router guarantees
// the assembler always receives one.
type ToolResult struct {
	Category    Category
	ContextText string
	Sources     []SourceRef
	Confidence  float64
	// Degraded marks results synthesized from a handler failure
	// rather than real data.
	Degraded bool
}

// FinalAnswer is the assembled response returned to the caller.
type FinalAnswer struct {
	Text    string
	Sources []SourceRef
}

// Event records one query/classification/tool outcome within a session.
type Event struct {
	Query       string
	Category    Category
	Confidence  float64
	Tool        string
	ToolSummary string
	Timestamp   time.Time
}

// SimilarityMatch represents a chunk match from vector similarity search.
type SimilarityMatch struct {
	ChunkId ID
	Score   float32
}

// SearchResult pairs a retrieved chunk with its relevance score.
type SearchResult struct {
	Chunk *ContentChunk
	Score float32
}

// IngestionReport summarizes one pipeline cycle.
type IngestionReport struct {
	Fetched          int
	SkippedDuplicate int
	NewlyIndexed     int
	// Failed maps source name to the fetch error message. Failed sources
	// keep their watermark and are retried on the next cycle.
	Failed map[string]string
}
