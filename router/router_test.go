package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanxter/Agastya/core"
)

func stubHandler(result *core.ToolResult, err error) Handler {
	return HandlerFunc(func(context.Context, string, int64, []core.Event) (*core.ToolResult, error) {
		return result, err
	})
}

func TestRoute_DispatchesToRegisteredHandler(t *testing.T) {
	want := &core.ToolResult{
		Category:    core.CategoryPanelSupport,
		ContextText: "panel answer",
		Confidence:  1.0,
	}
	r, err := NewRouter(WithHandler(core.CategoryPanelSupport, stubHandler(want, nil)))
	require.NoError(t, err)

	got := r.Route(context.Background(), core.CategoryPanelSupport, "my earnings", 1, nil)
	assert.Equal(t, want, got)
}

func TestRoute_AmbiguousGoesToClarify(t *testing.T) {
	panelCalled := false
	r, err := NewRouter(WithHandler(core.CategoryPanelSupport,
		HandlerFunc(func(context.Context, string, int64, []core.Event) (*core.ToolResult, error) {
			panelCalled = true
			return nil, nil
		})))
	require.NoError(t, err)

	result := r.Route(context.Background(), core.CategoryAmbiguous, "huh", 1, nil)
	assert.False(t, panelCalled)
	assert.Equal(t, core.CategoryAmbiguous, result.Category)
	assert.Contains(t, result.ContextText, "panel account")
	assert.False(t, result.Degraded)
}

func TestRoute_UnregisteredCategoryGoesToClarify(t *testing.T) {
	r, err := NewRouter()
	require.NoError(t, err)

	result := r.Route(context.Background(), core.CategoryResearchLookup, "anything", 1, nil)
	assert.Equal(t, core.CategoryAmbiguous, result.Category)
}

func TestRoute_UpstreamFailureDegrades(t *testing.T) {
	failing := stubHandler(nil, core.NewFailure(core.FailureUpstreamUnavailable,
		errors.New("connection refused")))
	r, err := NewRouter(WithHandler(core.CategoryPanelSupport, failing))
	require.NoError(t, err)

	result := r.Route(context.Background(), core.CategoryPanelSupport, "my earnings", 1, nil)
	assert.True(t, result.Degraded)
	assert.Equal(t, core.CategoryPanelSupport, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.ContextText, "temporarily unavailable")
}

func TestRoute_SlowHandlerTimesOut(t *testing.T) {
	slow := HandlerFunc(func(ctx context.Context, _ string, _ int64, _ []core.Event) (*core.ToolResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	r, err := NewRouter(
		WithHandler(core.CategoryResearchLookup, slow),
		WithToolTimeout(20*time.Millisecond),
	)
	require.NoError(t, err)

	start := time.Now()
	result := r.Route(context.Background(), core.CategoryResearchLookup, "slow query", 1, nil)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, result.Degraded)
	assert.Equal(t, core.CategoryResearchLookup, result.Category)
}

func TestRoute_CustomClarifyHandler(t *testing.T) {
	custom := stubHandler(&core.ToolResult{
		Category:    core.CategoryAmbiguous,
		ContextText: "custom clarification",
	}, nil)
	r, err := NewRouter(WithClarifyHandler(custom))
	require.NoError(t, err)

	result := r.Route(context.Background(), core.CategoryAmbiguous, "huh", 1, nil)
	assert.Equal(t, "custom clarification", result.ContextText)
}

func TestNewRouter_RejectsInvalidRegistrations(t *testing.T) {
	_, err := NewRouter(WithHandler(core.Category("bogus"), stubHandler(nil, nil)))
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = NewRouter(WithHandler(core.CategoryPanelSupport, nil))
	assert.ErrorIs(t, err, ErrHandlerRequired)

	_, err = NewRouter(WithClarifyHandler(nil))
	assert.ErrorIs(t, err, ErrHandlerRequired)
}
