// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Completer,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embedding, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockCompleter := mock.NewMockCompleter()
//	mockCompleter.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
//	    return "canned answer", nil
//	}
//
//	// Check call counts
//	count := mockCompleter.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockCompleter: Returns a fixed "mock answer" string
//   - MockProvider: Aggregates mock embedder and completer
package mock
