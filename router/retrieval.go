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


package router

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shanxter/Agastya/ai"
	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/storage"
)

const (
	// DefaultTopK is how many chunks a retrieval answer draws on.
	DefaultTopK = 5

	// DefaultMinSimilarity filters out weakly related chunks.
	DefaultMinSimilarity = 0.60

	// DefaultContextCharBudget bounds the assembled context text.
	DefaultContextCharBudget = 6000

	// verbatimBoost rewards chunks containing every content word of the
	// query on top of their similarity score.
	verbatimBoost = 0.3
)

// RetrievalHandler answers research questions from the indexed corpus:
// it embeds the query, finds the most similar chunks, reranks them with
// a verbatim keyword boost, and assembles their text into context for
// the answer stage.
type RetrievalHandler struct {
	chunks        storage.ChunkRepository
	embedder      ai.Embedder
	topK          int
	minSimilarity float32
	charBudget    int
	logger        *slog.Logger
}

// RetrievalOption configures a RetrievalHandler.
type RetrievalOption func(*RetrievalHandler) error

// WithTopK overrides how many chunks are retrieved.
func WithTopK(topK int) RetrievalOption {
	return func(h *RetrievalHandler) error {
		if topK > 0 {
			h.topK = topK
		}
		return nil
	}
}

// WithMinSimilarity overrides the similarity threshold.
func WithMinSimilarity(minSimilarity float32) RetrievalOption {
	return func(h *RetrievalHandler) error {
		h.minSimilarity = minSimilarity
		return nil
	}
}

// WithContextCharBudget overrides the context text size bound.
func WithContextCharBudget(budget int) RetrievalOption {
	return func(h *RetrievalHandler) error {
		if budget > 0 {
			h.charBudget = budget
		}
		return nil
	}
}

// WithRetrievalLogger sets a custom logger.
// Default is slog.Default().
func WithRetrievalLogger(logger *slog.Logger) RetrievalOption {
	return func(h *RetrievalHandler) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// NewRetrievalHandler creates a retrieval handler over the chunk corpus.
func NewRetrievalHandler(chunks storage.ChunkRepository, embedder ai.Embedder, opts ...RetrievalOption) (*RetrievalHandler, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	h := &RetrievalHandler{
		chunks:        chunks,
		embedder:      embedder,
		topK:          DefaultTopK,
		minSimilarity: DefaultMinSimilarity,
		charBudget:    DefaultContextCharBudget,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

var _ Handler = (*RetrievalHandler)(nil)

// Fetch retrieves corpus context for a research query. An empty corpus
// or no sufficiently similar chunk is a normal outcome, not a failure.
func (h *RetrievalHandler) Fetch(ctx context.Context, query string, _ int64, _ []core.Event) (*core.ToolResult, error) {
	embedding, err := h.embedder.EmbedText(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "error generating embedding for query", "err", err)
		return nil, core.NewFailure(core.FailureUpstreamUnavailable,
			fmt.Errorf("embedding query: %w", err))
	}

	// Over-fetch so the verbatim boost can promote matches from beyond
	// the final cut.
	matches, err := h.chunks.FindSimilar(ctx, embedding, h.minSimilarity, h.topK*2)
	if err != nil {
		h.logger.ErrorContext(ctx, "error querying for similar chunks", "err", err)
		return nil, core.NewFailure(core.FailureUpstreamUnavailable,
			fmt.Errorf("similarity search: %w", err))
	}

	if len(matches) == 0 {
		return &core.ToolResult{
			Category: core.CategoryResearchLookup,
			ContextText: "No indexed publications matched this question. " +
				"The corpus may not cover this topic yet.",
			Confidence: 0,
		}, nil
	}

	results := rerank(matches, query)
	if len(results) > h.topK {
		results = results[:h.topK]
	}

	contextText, sources := h.assemble(results)

	// Confidence reports the raw similarity of the best chunk actually
	// returned, not its boosted ranking score.
	confidence := float64(results[0].Score)
	if confidence > 1 {
		confidence = 1
	}
	return &core.ToolResult{
		Category:    core.CategoryResearchLookup,
		ContextText: contextText,
		Sources:     sources,
		Confidence:  confidence,
	}, nil
}

// rerank orders matches by similarity plus the verbatim keyword boost.
// The boost affects ordering only; the returned results keep their raw
// similarity scores.
func rerank(matches []*core.SearchResult, query string) []*core.SearchResult {
	type ranked struct {
		match   *core.SearchResult
		boosted float32
	}
	order := make([]ranked, len(matches))
	for i, match := range matches {
		score := match.Score
		if containsAllQueryWords(match.Chunk.Text, query) {
			score += verbatimBoost
		}
		order[i] = ranked{match: match, boosted: score}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].boosted > order[j].boosted
	})

	results := make([]*core.SearchResult, len(order))
	for i, r := range order {
		results[i] = r.match
	}
	return results
}

// assemble concatenates chunk texts into the context block, stopping at
// the character budget, and collects deduplicated source references.
func (h *RetrievalHandler) assemble(results []*core.SearchResult) (string, []core.SourceRef) {
	var b strings.Builder
	var sources []core.SourceRef
	seen := make(map[string]bool)

	for i, result := range results {
		chunk := result.Chunk

		var section strings.Builder
		fmt.Fprintf(&section, "[%d] Title: %s\n", i+1, chunk.Title)
		fmt.Fprintf(&section, "Source: %s", chunk.Source)
		if !chunk.PublishedAt.IsZero() {
			fmt.Fprintf(&section, " (%s)", chunk.PublishedAt.Format("January 2, 2006"))
		}
		section.WriteByte('\n')
		if chunk.URL != "" {
			fmt.Fprintf(&section, "URL: %s\n", chunk.URL)
		}
		section.WriteString(chunk.Text)
		section.WriteString("\n\n")

		if b.Len() > 0 && b.Len()+section.Len() > h.charBudget {
			break
		}
		b.WriteString(section.String())

		key := chunk.URL
		if key == "" {
			key = chunk.Title
		}
		if !seen[key] {
			seen[key] = true
			sources = append(sources, core.SourceRef{Title: chunk.Title, URL: chunk.URL})
		}
	}

	return strings.TrimRight(b.String(), "\n"), sources
}
