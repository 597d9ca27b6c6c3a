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


// Package agastya assembles the query assistant: a classifier routes
// each question to a panel, conference or research tool, the tool's
// output is composed into an answer, and the exchange is remembered for
// follow-up turns. Assistant is the single entry point; everything
// underneath is wired by New.
package agastya

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shanxter/Agastya/ai"
	"github.com/shanxter/Agastya/ai/openai"
	"github.com/shanxter/Agastya/assemble"
	"github.com/shanxter/Agastya/classify"
	"github.com/shanxter/Agastya/conference"
	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/ingestion"
	"github.com/shanxter/Agastya/panel"
	"github.com/shanxter/Agastya/router"
	"github.com/shanxter/Agastya/session"
	"github.com/shanxter/Agastya/storage"
	"github.com/shanxter/Agastya/storage/badger"
)

// ErrEmptyQuery is returned by Ask when the query has no content.
var ErrEmptyQuery = errors.New("agastya: query is required")

// toolSummaryLimit bounds how much tool context is kept in session
// history per turn.
const toolSummaryLimit = 200

// Config holds the external endpoints the assistant depends on.
type Config struct {
	// DataPath is the directory for the badger corpus store.
	// Empty means an in-memory store that does not survive restarts.
	DataPath string

	// PanelDSN is the Postgres connection string for panelist activity
	// data. When empty the panel route is not registered and panel
	// questions receive the clarify response.
	PanelDSN string

	// AI configures the embedding and completion services.
	// Nil means ai.DefaultConfig().
	AI *ai.Config
}

// Assistant owns the full answer path and the ingestion side of the
// corpus it answers from. Safe for concurrent use.
type Assistant struct {
	store      storage.CorpusStore
	provider   ai.AIProvider
	panelStore panel.Store
	classifier *classify.Classifier
	router     *router.Router
	memory     *session.Memory
	assembler  *assemble.Assembler
	pipeline   *ingestion.Pipeline
	logger     *slog.Logger
}

type settings struct {
	logger      *slog.Logger
	provider    ai.AIProvider
	sources     []ingestion.Source
	routerOpts  []router.Option
	sessionOpts []session.Option
}

// AssistantOption configures optional parts of the Assistant.
type AssistantOption func(*settings)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AssistantOption {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAIProvider replaces the OpenAI-compatible provider built from
// Config.AI with an existing one. The assistant takes ownership and
// closes it on Close.
func WithAIProvider(provider ai.AIProvider) AssistantOption {
	return func(s *settings) {
		s.provider = provider
	}
}

// WithSources registers the document sources the ingestion pipeline
// pulls from. Without sources the assistant answers from the existing
// corpus and IngestionPipeline returns nil.
func WithSources(sources ...ingestion.Source) AssistantOption {
	return func(s *settings) {
		s.sources = append(s.sources, sources...)
	}
}

// WithRouterOptions passes extra options to the underlying router,
// for example a custom tool timeout.
func WithRouterOptions(opts ...router.Option) AssistantOption {
	return func(s *settings) {
		s.routerOpts = append(s.routerOpts, opts...)
	}
}

// WithSessionOptions passes extra options to the session memory,
// for example a custom TTL.
func WithSessionOptions(opts ...session.Option) AssistantOption {
	return func(s *settings) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// New wires the assistant from configuration: corpus store, AI
// provider, tool handlers, router, session memory, assembler and
// (when sources are registered) the ingestion pipeline. Construction
// is sequential; on any failure the already-opened resources are
// closed before the error is returned.
func New(ctx context.Context, cfg *Config, opts ...AssistantOption) (*Assistant, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	logger := s.logger

	var store storage.CorpusStore
	var err error
	if cfg.DataPath == "" {
		store, err = badger.NewMemoryStore()
	} else {
		store, err = badger.NewStore(cfg.DataPath)
	}
	if err != nil {
		return nil, fmt.Errorf("opening corpus store: %w", err)
	}

	provider := s.provider
	if provider == nil {
		aiCfg := cfg.AI
		if aiCfg == nil {
			aiCfg = ai.DefaultConfig()
		}
		provider, err = openai.NewProvider(aiCfg)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("creating AI provider: %w", err)
		}
	}

	cleanup := func() {
		provider.Close()
		store.Close()
	}

	retrieval, err := router.NewRetrievalHandler(store, provider.Embedder(),
		router.WithRetrievalLogger(logger))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("creating retrieval handler: %w", err)
	}

	conferences := conference.NewHandler(conference.NewStaticSource(),
		conference.WithLogger(logger))

	routerOpts := []router.Option{
		router.WithHandler(core.CategoryResearchLookup, retrieval),
		router.WithHandler(core.CategoryConferenceInfo, conferences),
		router.WithLogger(logger),
	}

	var panelStore panel.Store
	if cfg.PanelDSN != "" {
		pg, err := panel.NewPostgresStore(ctx, cfg.PanelDSN, logger)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("connecting panel database: %w", err)
		}
		panelStore = pg

		panelHandler, err := panel.NewHandler(panelStore, logger)
		if err != nil {
			panelStore.Close()
			cleanup()
			return nil, fmt.Errorf("creating panel handler: %w", err)
		}
		routerOpts = append(routerOpts,
			router.WithHandler(core.CategoryPanelSupport, panelHandler))
	}
	cleanup = func() {
		if panelStore != nil {
			panelStore.Close()
		}
		provider.Close()
		store.Close()
	}

	routerOpts = append(routerOpts, s.routerOpts...)
	rt, err := router.NewRouter(routerOpts...)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("creating router: %w", err)
	}

	assembler, err := assemble.NewAssembler(provider.Completer(),
		assemble.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("creating assembler: %w", err)
	}

	var pipeline *ingestion.Pipeline
	if len(s.sources) > 0 {
		pipeline, err = ingestion.NewPipeline(store, provider.Embedder(), s.sources,
			ingestion.WithLogger(logger))
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("creating ingestion pipeline: %w", err)
		}
	}

	return &Assistant{
		store:      store,
		provider:   provider,
		panelStore: panelStore,
		classifier: classify.NewClassifier(),
		router:     rt,
		memory:     session.NewMemory(s.sessionOpts...),
		assembler:  assembler,
		pipeline:   pipeline,
		logger:     logger.With("component", "assistant"),
	}, nil
}

// Ask answers one query within a session: classify, run the matching
// tool, compose the answer, remember the turn. An empty sessionID gets
// a fresh id, so the turn cannot influence any later conversation.
// Ask degrades instead of failing when a downstream service is
// unavailable; the only errors are an empty query or a context that
// was already done.
func (a *Assistant) Ask(ctx context.Context, sessionID string, userID int64, query string) (*core.FinalAnswer, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}

	history := a.memory.History(sessionID)
	category, confidence := a.classifier.Classify(query, history)

	result := a.router.Route(ctx, category, query, userID, history)
	answer := a.assembler.Assemble(ctx, query, result, history)

	a.logger.InfoContext(ctx, "answered query",
		"session", sessionID,
		"category", string(category),
		"confidence", confidence,
		"degraded", result.Degraded)

	// A turn the caller abandoned must not steer follow-up detection.
	if ctx.Err() == nil {
		event := core.Event{
			Query:       query,
			Category:    category,
			Confidence:  confidence,
			Tool:        toolNameFor(category),
			ToolSummary: summarize(result.ContextText),
		}
		if err := a.memory.Record(sessionID, event); err != nil {
			a.logger.WarnContext(ctx, "recording session event failed", "err", err)
		}
	}
	return answer, nil
}

// IngestionPipeline returns the pipeline feeding the corpus, or nil
// when the assistant was built without sources.
func (a *Assistant) IngestionPipeline() *ingestion.Pipeline {
	return a.pipeline
}

// Corpus exposes the underlying corpus store for maintenance jobs
// such as retention sweeps and re-embedding.
func (a *Assistant) Corpus() storage.CorpusStore {
	return a.store
}

// Close releases all resources in reverse construction order.
func (a *Assistant) Close() error {
	if a.pipeline != nil {
		a.pipeline.Release()
	}
	if a.panelStore != nil {
		a.panelStore.Close()
	}
	var errs []error
	if err := a.provider.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing AI provider: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing corpus store: %w", err))
	}
	return errors.Join(errs...)
}

// toolNameFor maps a category to the tool recorded in session history.
func toolNameFor(category core.Category) string {
	switch category {
	case core.CategoryPanelSupport:
		return panel.Name
	case core.CategoryConferenceInfo:
		return conference.Name
	case core.CategoryResearchLookup:
		return "retrieval"
	default:
		return "clarify"
	}
}

// summarize trims tool context to a history-sized excerpt.
func summarize(text string) string {
	if len(text) <= toolSummaryLimit {
		return text
	}
	return text[:toolSummaryLimit] + "..."
}
