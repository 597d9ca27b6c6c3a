package router

import (
	"context"

	"github.com/shanxter/Agastya/core"
)

// ClarifyHandler resolves ambiguous queries by asking the user to
// narrow down what they want instead of guessing a tool.
type ClarifyHandler struct{}

var _ Handler = (*ClarifyHandler)(nil)

// NewClarifyHandler creates the default clarify handler.
func NewClarifyHandler() *ClarifyHandler {
	return &ClarifyHandler{}
}

// Fetch never fails; the context text is handed to the answer stage as
// the clarifying question to relay.
func (h *ClarifyHandler) Fetch(_ context.Context, _ string, _ int64, _ []core.Event) (*core.ToolResult, error) {
	return &core.ToolResult{
		Category: core.CategoryAmbiguous,
		ContextText: "I want to make sure I help with the right thing. " +
			"Are you asking about your panel account (earnings, surveys, " +
			"payments), a medical conference, or recent medical research?",
		Confidence: 1.0,
	}, nil
}
