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


package core

import (
	"fmt"
	"time"
)

// ValidateDocument validates a SourceDocument according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//   - Body must not be empty
//   - PublishedAt must not be in the future
//
// NOT validated:
//   - ExternalID (Identity falls back to the URL when absent)
//   - Authors (many sources omit them)
func ValidateDocument(doc *SourceDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySource)
	}

	if doc.Body == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyBody)
	}

	if !doc.PublishedAt.IsZero() && !IsValidTimestamp(doc.PublishedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateChunk validates a ContentChunk according to domain rules.
//
// Validation rules:
//   - SourceIdentity must not be empty
//   - Text must not be empty
//   - ChunkIndex must not be negative
//
// NOT validated (populated by the pipeline):
//   - Vector (empty until the embedding stage runs)
//   - Id (derived from identity on upsert when zero)
func ValidateChunk(chunk *ContentChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.SourceIdentity == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyIdentity)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.ChunkIndex < 0 {
		return fmt.Errorf("%w: chunk index %d is negative", ErrInvalidChunk, chunk.ChunkIndex)
	}

	return nil
}

// ValidateCategory validates that a Category has a valid value.
func ValidateCategory(c Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
