package mock

import "context"

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned behavior.
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	callCount  int
	lastSystem string
	lastUser   string
}

// NewMockCompleter creates a mock completer with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockCompleter().
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a canned answer or delegates to CompleteFunc.
func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.callCount++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt)
	}

	return "mock answer", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// LastPrompts returns the prompts from the most recent Complete call.
func (m *MockCompleter) LastPrompts() (system, user string) {
	return m.lastSystem, m.lastUser
}

// Reset clears the call count and recorded prompts.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.lastSystem = ""
	m.lastUser = ""
	m.CompleteFunc = nil
}
