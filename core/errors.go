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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a SourceDocument failed validation.
	ErrInvalidDocument = errors.New("invalid source document")

	// ErrInvalidChunk indicates a ContentChunk failed validation.
	ErrInvalidChunk = errors.New("invalid content chunk")

	// ErrInvalidCategory indicates a value outside the closed category set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyBody indicates the document Body field is empty.
	ErrEmptyBody = errors.New("document body cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrEmptyIdentity indicates a chunk is missing its source identity.
	ErrEmptyIdentity = errors.New("source identity cannot be empty")

	// ErrEmptyText indicates the chunk Text field is empty.
	ErrEmptyText = errors.New("chunk text cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)

// FailureKind classifies handler and pipeline failures so callers can
// decide between degraded responses and retries.
type FailureKind string

const (
	// FailureUpstreamUnavailable means a backing service could not be reached.
	FailureUpstreamUnavailable FailureKind = "UPSTREAM_UNAVAILABLE"
	// FailureTimeout means the operation exceeded its deadline.
	FailureTimeout FailureKind = "TIMEOUT"
	// FailureMalformedInput means the input could not be processed.
	FailureMalformedInput FailureKind = "MALFORMED_INPUT"
	// FailureDuplicateSkipped means ingestion skipped an already-seen document.
	FailureDuplicateSkipped FailureKind = "DUPLICATE_SKIPPED"
)

// Failure wraps an error with its classification.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure wraps err with the given kind.
func NewFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

// FailureKindOf extracts the classification from err, returning ok=false
// when err carries no Failure in its chain.
func FailureKindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}
