package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shanxter/Agastya/core"
)

// FileSource reads normalized documents from a JSON file: an array of
// objects with source, external_id, title, body, authors, published_at
// (RFC 3339) and url fields. The file is re-read on every Fetch so a
// long-lived scheduler picks up edits between cycles.
type FileSource struct {
	SourceName string
	Path       string
}

var _ Source = (*FileSource)(nil)

type fileDocument struct {
	Source      string   `json:"source"`
	ExternalID  string   `json:"external_id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Authors     []string `json:"authors"`
	PublishedAt string   `json:"published_at"`
	URL         string   `json:"url"`
}

// Name returns the source name used for watermark tracking.
func (s *FileSource) Name() string {
	return s.SourceName
}

// Fetch parses the file and returns the documents published after
// since. Documents without their own source field inherit the
// source's name.
func (s *FileSource) Fetch(_ context.Context, since time.Time) ([]core.SourceDocument, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}

	var raw []fileDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path, err)
	}

	docs := make([]core.SourceDocument, 0, len(raw))
	for i, rd := range raw {
		publishedAt, err := time.Parse(time.RFC3339, rd.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("document %d in %s: bad published_at: %w", i, s.Path, err)
		}
		if !publishedAt.After(since) {
			continue
		}
		source := rd.Source
		if source == "" {
			source = s.SourceName
		}
		docs = append(docs, core.SourceDocument{
			Source:      source,
			ExternalID:  rd.ExternalID,
			Title:       rd.Title,
			Body:        rd.Body,
			Authors:     rd.Authors,
			PublishedAt: publishedAt,
			URL:         rd.URL,
		})
	}
	return docs, nil
}
