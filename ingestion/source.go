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


package ingestion

import (
	"context"
	"time"

	"github.com/shanxter/Agastya/core"
)

// Source yields normalized documents from one upstream corpus. Every
// upstream, whatever its native shape, crosses this boundary as
// core.SourceDocument so the rest of the pipeline never sees raw feeds.
type Source interface {
	// Name identifies the source in watermarks, reports, and logs.
	Name() string

	// Fetch returns documents published or updated after since.
	// A zero since means fetch from the beginning.
	Fetch(ctx context.Context, since time.Time) ([]core.SourceDocument, error)
}

// SliceSource serves a fixed set of documents, filtered by publication
// date against the watermark. Used for seeding and tests.
type SliceSource struct {
	SourceName string
	Documents  []core.SourceDocument
}

var _ Source = (*SliceSource)(nil)

func (s *SliceSource) Name() string {
	return s.SourceName
}

func (s *SliceSource) Fetch(_ context.Context, since time.Time) ([]core.SourceDocument, error) {
	var out []core.SourceDocument
	for _, doc := range s.Documents {
		if since.IsZero() || doc.PublishedAt.After(since) {
			out = append(out, doc)
		}
	}
	return out, nil
}
