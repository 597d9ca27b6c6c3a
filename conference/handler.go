package conference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shanxter/Agastya/core"
)

// Name identifies this tool in routing decisions and session events.
const Name = "conference"

// Handler answers conference questions from a Source lookup.
type Handler struct {
	source Source
	limit  int
	logger *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLookupLimit caps how many conferences one answer may cover.
func WithLookupLimit(limit int) HandlerOption {
	return func(h *Handler) {
		h.limit = limit
	}
}

// WithLogger sets the handler's logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a conference Handler. A nil source gets the
// built-in static list.
func NewHandler(source Source, opts ...HandlerOption) *Handler {
	h := &Handler{
		source: source,
		limit:  DefaultLookupLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.source == nil {
		h.source = NewStaticSource()
	}
	h.logger = h.logger.With("tool", Name)
	return h
}

// Fetch resolves a conference query. A query that matches nothing still
// returns a usable result rather than an error.
func (h *Handler) Fetch(ctx context.Context, query string, _ int64, _ []core.Event) (*core.ToolResult, error) {
	records := h.source.Lookup(query, h.limit)
	if len(records) == 0 {
		h.logger.DebugContext(ctx, "no conference matched", "query_length", len(query))
		return &core.ToolResult{
			Category:    core.CategoryConferenceInfo,
			ContextText: h.noMatchText(),
			Confidence:  0.5,
		}, nil
	}

	var b strings.Builder
	b.WriteString("CONFERENCE INFORMATION:\n")
	sources := make([]core.SourceRef, 0, len(records))
	for i, record := range records {
		fmt.Fprintf(&b, "\n[%d] %s (%s)\n", i+1, record.Name, record.Abbreviation)
		fmt.Fprintf(&b, "Specialty: %s\n", record.Specialty)
		fmt.Fprintf(&b, "Dates: %s to %s\n",
			record.StartDate.Format("January 2, 2006"),
			record.EndDate.Format("January 2, 2006"))
		fmt.Fprintf(&b, "Location: %s\n", record.Location)
		fmt.Fprintf(&b, "Website: %s\n", record.URL)
		sources = append(sources, core.SourceRef{Title: record.Name, URL: record.URL})
	}

	return &core.ToolResult{
		Category:    core.CategoryConferenceInfo,
		ContextText: b.String(),
		Sources:     sources,
		Confidence:  0.9,
	}, nil
}

// noMatchText advertises what the handler's own source covers.
func (h *Handler) noMatchText() string {
	records := h.source.Catalog()
	abbrevs := make([]string, 0, len(records))
	for _, record := range records {
		if record.Abbreviation != "" {
			abbrevs = append(abbrevs, record.Abbreviation)
		}
	}
	if len(abbrevs) == 0 {
		return "I could not match your question to a specific conference. " +
			"Try asking about a conference by name or by specialty."
	}
	return "I could not match your question to a specific conference. " +
		"I have information about these major medical meetings: " +
		strings.Join(abbrevs, ", ") +
		". Try asking about one of them by name or by specialty."
}
