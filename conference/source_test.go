package conference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_ByAbbreviation(t *testing.T) {
	s := NewStaticSource()

	records := s.Lookup("when is ASCO next year", 3)
	require.NotEmpty(t, records)
	assert.Equal(t, "ASCO", records[0].Abbreviation)
}

func TestLookup_AbbreviationNeedsWordBoundary(t *testing.T) {
	s := NewStaticSource()

	// "acc" inside "vaccine" must not match the cardiology meeting
	records := s.Lookup("vaccine development news", 3)
	for _, record := range records {
		assert.NotEqual(t, "ACC", record.Abbreviation)
	}
}

func TestLookup_BySpecialty(t *testing.T) {
	s := NewStaticSource()

	records := s.Lookup("which oncology conference should I attend", 3)
	require.NotEmpty(t, records)
	for _, record := range records {
		assert.Contains(t, []string{"ASCO", "ESMO", "AACR"}, record.Abbreviation)
	}
}

func TestLookup_SpecialtyTieBreaksByDate(t *testing.T) {
	s := NewStaticSource()

	// ASCO and ESMO both score on specialty plus the cancer keyword;
	// the earlier meeting must come first
	records := s.Lookup("oncology cancer meetings", 3)
	require.GreaterOrEqual(t, len(records), 2)
	assert.True(t, records[0].StartDate.Before(records[1].StartDate))
}

func TestLookup_DirectNameBeatsKeywords(t *testing.T) {
	s := NewStaticSource()

	records := s.Lookup("ash sessions on leukemia and lymphoma in cancer patients", 3)
	require.NotEmpty(t, records)
	assert.Equal(t, "ASH", records[0].Abbreviation)
}

func TestLookup_NoMatch(t *testing.T) {
	s := NewStaticSource()

	assert.Empty(t, s.Lookup("how do I reset my password", 3))
}

func TestLookup_RespectsLimit(t *testing.T) {
	s := NewStaticSource()

	records := s.Lookup("cancer", 1)
	assert.Len(t, records, 1)
}

func TestLookup_ZeroLimitUsesDefault(t *testing.T) {
	s := NewStaticSource()

	records := s.Lookup("cancer", 0)
	assert.LessOrEqual(t, len(records), DefaultLookupLimit)
	assert.NotEmpty(t, records)
}

func TestLookup_CustomRecords(t *testing.T) {
	s := NewStaticSource(Record{
		Name:         "Digital Health Summit",
		Abbreviation: "DHS",
		Specialty:    "digital health",
		StartDate:    time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
	})

	records := s.Lookup("tell me about dhs", 3)
	require.Len(t, records, 1)
	assert.Equal(t, "Digital Health Summit", records[0].Name)
}
