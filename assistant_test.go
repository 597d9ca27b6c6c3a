package agastya

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanxter/Agastya/ai/mock"
	"github.com/shanxter/Agastya/core"
	"github.com/shanxter/Agastya/ingestion"
)

func newTestAssistant(t *testing.T, opts ...AssistantOption) (*Assistant, *mock.MockCompleter) {
	t.Helper()
	completer := mock.NewMockCompleter()
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), completer)

	opts = append([]AssistantOption{WithAIProvider(provider)}, opts...)
	assistant, err := New(context.Background(), nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { assistant.Close() })
	return assistant, completer
}

func TestAsk_EmptyQuery(t *testing.T) {
	assistant, _ := newTestAssistant(t)

	_, err := assistant.Ask(context.Background(), "", 0, "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestAsk_CancelledContext(t *testing.T) {
	assistant, _ := newTestAssistant(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := assistant.Ask(ctx, "", 0, "when is ASCO?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAsk_ConferenceQuestion(t *testing.T) {
	assistant, completer := newTestAssistant(t)

	answer, err := assistant.Ask(context.Background(), "", 0, "When is ASCO 2026?")
	require.NoError(t, err)
	require.NotNil(t, answer)

	assert.Equal(t, "mock answer", answer.Text)
	assert.Equal(t, 1, completer.CallCount())

	_, user := completer.LastPrompts()
	assert.Contains(t, user, "ASCO")
	assert.Contains(t, user, "CONFERENCE INFORMATION")
}

func TestAsk_AmbiguousDeliversClarifyingQuestion(t *testing.T) {
	assistant, completer := newTestAssistant(t)
	completer.CompleteFunc = func(context.Context, string, string) (string, error) {
		return "", errors.New("model host down")
	}

	answer, err := assistant.Ask(context.Background(), "", 0, "hmm, not sure really")
	require.NoError(t, err)

	assert.Contains(t, answer.Text, "panel account")
	assert.Contains(t, answer.Text, "medical conference")
}

func TestAsk_PanelRouteUnregisteredFallsBackToClarify(t *testing.T) {
	// No PanelDSN configured, so panel questions must get the clarify
	// response instead of an error.
	assistant, completer := newTestAssistant(t)
	completer.CompleteFunc = func(context.Context, string, string) (string, error) {
		return "", errors.New("model host down")
	}

	answer, err := assistant.Ask(context.Background(), "", 42, "how much did I earn on the panel last month?")
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "panel account")
}

func TestAsk_SessionHistoryCarriesAcrossTurns(t *testing.T) {
	assistant, completer := newTestAssistant(t)
	sessionID := "sess-history"

	_, err := assistant.Ask(context.Background(), sessionID, 0, "When is the ESMO congress?")
	require.NoError(t, err)

	_, err = assistant.Ask(context.Background(), sessionID, 0, "what about its location")
	require.NoError(t, err)

	_, user := completer.LastPrompts()
	assert.Contains(t, user, "Conversation so far")
	assert.Contains(t, user, "When is the ESMO congress?")
}

func TestAsk_FreshSessionsDoNotShareHistory(t *testing.T) {
	assistant, completer := newTestAssistant(t)

	_, err := assistant.Ask(context.Background(), "sess-a", 0, "When is the ESMO congress?")
	require.NoError(t, err)

	_, err = assistant.Ask(context.Background(), "sess-b", 0, "When is ASCO?")
	require.NoError(t, err)

	_, user := completer.LastPrompts()
	assert.NotContains(t, user, "Conversation so far")
}

func TestIngestionPipeline_NilWithoutSources(t *testing.T) {
	assistant, _ := newTestAssistant(t)
	assert.Nil(t, assistant.IngestionPipeline())
}

func TestIngestionPipeline_WiredWithSources(t *testing.T) {
	source := &ingestion.SliceSource{
		SourceName: "pubmed",
		Documents: []core.SourceDocument{{
			Source:      "pubmed",
			ExternalID:  "38000001",
			Title:       "Semaglutide outcomes",
			Body:        "A randomized trial of semaglutide in type 2 diabetes.",
			PublishedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			URL:         "https://pubmed.ncbi.nlm.nih.gov/38000001/",
		}},
	}
	assistant, _ := newTestAssistant(t, WithSources(source))
	require.NotNil(t, assistant.IngestionPipeline())

	report, err := assistant.IngestionPipeline().RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Fetched)
	assert.Equal(t, 1, report.NewlyIndexed)
	assert.Empty(t, report.Failed)

	count, err := assistant.Corpus().CountChunks(context.Background())
	require.NoError(t, err)
	assert.Greater(t, count, 0)
}

func TestToolNameFor(t *testing.T) {
	assert.Equal(t, "panel", toolNameFor(core.CategoryPanelSupport))
	assert.Equal(t, "conference", toolNameFor(core.CategoryConferenceInfo))
	assert.Equal(t, "retrieval", toolNameFor(core.CategoryResearchLookup))
	assert.Equal(t, "clarify", toolNameFor(core.CategoryAmbiguous))
}

func TestSummarize_TrimsLongContext(t *testing.T) {
	long := strings.Repeat("x", toolSummaryLimit+50)
	got := summarize(long)
	assert.Len(t, got, toolSummaryLimit+3)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "short", summarize("short"))
}
