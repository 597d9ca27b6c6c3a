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


package assemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shanxter/Agastya/ai"
	"github.com/shanxter/Agastya/core"
)

const (
	// DefaultTokenBudget bounds the tool context included in a prompt.
	DefaultTokenBudget = 3000

	// DefaultHistoryLimit bounds how many prior turns are included.
	DefaultHistoryLimit = 10

	// DefaultCompletionTimeout bounds the single model call.
	DefaultCompletionTimeout = 30 * time.Second
)

// ErrCompleterRequired is returned when a completer is not provided.
var ErrCompleterRequired = errors.New("completer required")

// Assembler turns a tool result into the final user-facing answer with
// one completion call. It never fails the turn: when the model is
// unavailable the user gets a fixed apology instead of an error.
type Assembler struct {
	completer    ai.Completer
	tokenBudget  int
	historyLimit int
	timeout      time.Duration
	counter      *tokenCounter
	logger       *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler) error

// WithTokenBudget overrides the context token budget.
func WithTokenBudget(budget int) Option {
	return func(a *Assembler) error {
		if budget > 0 {
			a.tokenBudget = budget
		}
		return nil
	}
}

// WithHistoryLimit overrides how many prior turns go into the prompt.
func WithHistoryLimit(limit int) Option {
	return func(a *Assembler) error {
		if limit >= 0 {
			a.historyLimit = limit
		}
		return nil
	}
}

// WithCompletionTimeout overrides the model call timeout.
func WithCompletionTimeout(timeout time.Duration) Option {
	return func(a *Assembler) error {
		if timeout > 0 {
			a.timeout = timeout
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAssembler creates an Assembler using the given completer.
func NewAssembler(completer ai.Completer, opts ...Option) (*Assembler, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	a := &Assembler{
		completer:    completer,
		tokenBudget:  DefaultTokenBudget,
		historyLimit: DefaultHistoryLimit,
		timeout:      DefaultCompletionTimeout,
		counter:      newTokenCounter(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Assemble produces the final answer for a routed query. Degraded tool
// results and model failures both yield a definitive answer rather than
// an error, so the caller can always respond to the user.
func (a *Assembler) Assemble(ctx context.Context, query string, result *core.ToolResult, history []core.Event) *core.FinalAnswer {
	if result == nil {
		return &core.FinalAnswer{Text: FallbackAnswerText}
	}

	// The degraded text is already the message to deliver; running it
	// through the model would only risk embellishment.
	if result.Degraded {
		return &core.FinalAnswer{Text: result.ContextText}
	}

	system := systemPromptFor(result.Category)
	user := a.buildUserPrompt(query, result, history)

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.completer.Complete(callCtx, system, user)
	if err != nil {
		a.logger.ErrorContext(ctx, "completion failed, using fallback answer", "err", err)
		if result.Category == core.CategoryAmbiguous {
			// The clarifying question itself is a fine answer.
			return &core.FinalAnswer{Text: result.ContextText}
		}
		return &core.FinalAnswer{Text: FallbackAnswerText}
	}

	return &core.FinalAnswer{
		Text:    text,
		Sources: result.Sources,
	}
}

// buildUserPrompt composes prior turns, the budget-truncated tool
// context, and the current query. Retrieval context arrives ordered
// most similar first, so truncation drops the least relevant tail.
func (a *Assembler) buildUserPrompt(query string, result *core.ToolResult, history []core.Event) string {
	var b strings.Builder

	if len(history) > 0 && a.historyLimit > 0 {
		b.WriteString("Conversation so far (most recent first):\n")
		included := 0
		for i := len(history) - 1; i >= 0 && included < a.historyLimit; i-- {
			event := history[i]
			fmt.Fprintf(&b, "- [%s] %s", event.Category, event.Query)
			if event.ToolSummary != "" {
				fmt.Fprintf(&b, " -> %s", event.ToolSummary)
			}
			b.WriteByte('\n')
			included++
		}
		b.WriteByte('\n')
	}

	if contextText := a.counter.Truncate(result.ContextText, a.tokenBudget); contextText != "" {
		b.WriteString("Context:\n")
		b.WriteString(contextText)
		b.WriteString("\n\n")
	}

	b.WriteString("User: ")
	b.WriteString(query)
	return b.String()
}
