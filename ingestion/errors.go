package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a corpus store is not provided.
	ErrStoreRequired = errors.New("corpus store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrSourceRequired is returned when no usable source is provided.
	ErrSourceRequired = errors.New("at least one named source required")

	// ErrPipelineRequired is returned when a scheduler gets no pipeline.
	ErrPipelineRequired = errors.New("pipeline required")
)
