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


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shanxter/Agastya/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client      llms.Model
	temperature float64
	logger      *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat completions
	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:      client,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete generates a single plain-text completion for the prompt pair.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(c.temperature))
	if err != nil {
		c.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return "", errors.New("completion returned no choices")
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	c.logger.Debug("generated completion", "length", len(answer))
	return answer, nil
}
