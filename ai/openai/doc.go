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


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such as
// Ollama, LocalAI, or vLLM).
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("https://api.openai.com"),  // /v1 added automatically
//	    ai.WithToken(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	    ai.WithCompletionModel("gpt-4o-mini"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	// Use the services
//	embedding, err := provider.Embedder().EmbedText(ctx, "sample text")
//	answer, err := provider.Completer().Complete(ctx, systemPrompt, userPrompt)
package openai
