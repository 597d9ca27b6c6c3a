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
	"errors"
	"log/slog"
	"time"

	"github.com/shanxter/Agastya/core"
)

// DefaultToolTimeout bounds how long a single tool may run.
const DefaultToolTimeout = 15 * time.Second

// Handler fetches the context needed to answer one category of query.
// Implementations return an error wrapped in core.Failure when the
// underlying data source is unavailable; the router turns those into
// degraded results.
type Handler interface {
	Fetch(ctx context.Context, query string, userID int64, history []core.Event) (*core.ToolResult, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, query string, userID int64, history []core.Event) (*core.ToolResult, error)

func (f HandlerFunc) Fetch(ctx context.Context, query string, userID int64, history []core.Event) (*core.ToolResult, error) {
	return f(ctx, query, userID, history)
}

// Router dispatches queries to the handler registered for their category.
type Router struct {
	handlers map[core.Category]Handler
	clarify  Handler
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithHandler registers a handler for a category.
func WithHandler(category core.Category, handler Handler) Option {
	return func(r *Router) error {
		if !category.Valid() {
			return ErrInvalidCategory
		}
		if handler == nil {
			return ErrHandlerRequired
		}
		r.handlers[category] = handler
		return nil
	}
}

// WithClarifyHandler overrides the handler for ambiguous queries.
func WithClarifyHandler(handler Handler) Option {
	return func(r *Router) error {
		if handler == nil {
			return ErrHandlerRequired
		}
		r.clarify = handler
		return nil
	}
}

// WithToolTimeout overrides the per-tool timeout.
func WithToolTimeout(timeout time.Duration) Option {
	return func(r *Router) error {
		if timeout > 0 {
			r.timeout = timeout
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a Router with a default clarify handler, then
// applies the provided options.
func NewRouter(opts ...Option) (*Router, error) {
	r := &Router{
		handlers: make(map[core.Category]Handler),
		clarify:  NewClarifyHandler(),
		timeout:  DefaultToolTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Route runs the handler for the category and always returns a usable
// ToolResult. Ambiguous categories, and categories with no registered
// handler, go to the clarify handler. Handler failures become degraded
// results carrying the original category so the answer stage can
// apologize specifically.
func (r *Router) Route(ctx context.Context, category core.Category, query string, userID int64, history []core.Event) *core.ToolResult {
	handler, ok := r.handlers[category]
	if category == core.CategoryAmbiguous || !ok {
		result, err := r.clarify.Fetch(ctx, query, userID, history)
		if err != nil {
			// The default clarify handler cannot fail; a custom one that
			// does still must not break the turn.
			r.logger.ErrorContext(ctx, "clarify handler failed", "err", err)
			return degradedResult(core.CategoryAmbiguous)
		}
		return result
	}

	toolCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := handler.Fetch(toolCtx, query, userID, history)
	if err != nil {
		kind, _ := core.FailureKindOf(err)
		if errors.Is(err, context.DeadlineExceeded) {
			kind = core.FailureTimeout
		}
		r.logger.WarnContext(ctx, "tool failed, degrading",
			"category", string(category), "kind", string(kind), "err", err)
		return degradedResult(category)
	}
	return result
}

// degradedResult is the fallback when a tool cannot deliver. The
// category is preserved so the caller knows which data was unavailable.
func degradedResult(category core.Category) *core.ToolResult {
	return &core.ToolResult{
		Category: category,
		ContextText: "The data needed to answer this question is " +
			"temporarily unavailable. Please try again in a few minutes.",
		Confidence: 0,
		Degraded:   true,
	}
}
