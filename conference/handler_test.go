package conference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanxter/Agastya/core"
)

func TestFetch_MatchedConference(t *testing.T) {
	h := NewHandler(nil)

	result, err := h.Fetch(context.Background(), "when is ASCO and where is it held", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, core.CategoryConferenceInfo, result.Category)
	assert.Contains(t, result.ContextText, "American Society of Clinical Oncology")
	assert.Contains(t, result.ContextText, "Chicago")
	require.NotEmpty(t, result.Sources)
	assert.Contains(t, result.Sources[0].URL, "asco.org")
	assert.Greater(t, result.Confidence, 0.5)
}

func TestFetch_NoMatchIsNotAnError(t *testing.T) {
	h := NewHandler(nil)

	result, err := h.Fetch(context.Background(), "something entirely unrelated", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, core.CategoryConferenceInfo, result.Category)
	assert.Contains(t, result.ContextText, "could not match")
	assert.Empty(t, result.Sources)
}

func TestFetch_NoMatchAdvertisesOwnCatalog(t *testing.T) {
	custom := NewStaticSource(Record{
		Name:         "Internal Oncology Summit",
		Abbreviation: "IOS",
		Specialty:    "oncology",
	})
	h := NewHandler(custom)

	result, err := h.Fetch(context.Background(), "something entirely unrelated", 0, nil)
	require.NoError(t, err)
	assert.Contains(t, result.ContextText, "IOS")
	assert.NotContains(t, result.ContextText, "ASCO")
}

func TestFetch_LimitBoundsAnswer(t *testing.T) {
	h := NewHandler(nil, WithLookupLimit(1))

	result, err := h.Fetch(context.Background(), "major cancer meetings", 0, nil)
	require.NoError(t, err)
	assert.Len(t, result.Sources, 1)
}
