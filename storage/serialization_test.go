package storage

import (
	"testing"
	"time"

	"github.com/shanxter/Agastya/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	chunk := &core.ContentChunk{
		Id:             core.ChunkID("pubmed:38012345", 0),
		SourceIdentity: "pubmed:38012345",
		ChunkIndex:     0,
		Source:         "pubmed",
		Title:          "Cardiology outcomes study",
		URL:            "https://pubmed.ncbi.nlm.nih.gov/38012345/",
		PublishedAt:    now.AddDate(0, -2, 0),
		Text:           "Title: Cardiology outcomes study\n\nAbstract text",
		TextHash:       core.Fingerprint("Abstract text"),
		Vector:         []float32{0.5, -0.25, 0.125},
		IngestedAt:     now,
	}

	data := MarshalChunk(chunk)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, chunk.Id, decoded.Id)
	assert.Equal(t, chunk.SourceIdentity, decoded.SourceIdentity)
	assert.Equal(t, chunk.ChunkIndex, decoded.ChunkIndex)
	assert.Equal(t, chunk.Text, decoded.Text)
	assert.Equal(t, chunk.TextHash, decoded.TextHash)
	assert.Equal(t, chunk.Vector, decoded.Vector)
	assert.True(t, chunk.PublishedAt.Equal(decoded.PublishedAt))
	assert.True(t, chunk.IngestedAt.Equal(decoded.IngestedAt))
}

func TestUnmarshalChunk_Truncated(t *testing.T) {
	chunk := &core.ContentChunk{
		SourceIdentity: "pubmed:38012345",
		Text:           "Abstract text",
	}
	data := MarshalChunk(chunk)

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}

func TestMarshalUnmarshalWatermark(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	wm := &core.Watermark{
		Source:    "clinicaltrials",
		Position:  now.AddDate(0, 0, -1),
		UpdatedAt: now,
	}

	data := MarshalWatermark(wm)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalWatermark(data)
	require.NoError(t, err)
	assert.Equal(t, wm.Source, decoded.Source)
	assert.True(t, wm.Position.Equal(decoded.Position))
	assert.True(t, wm.UpdatedAt.Equal(decoded.UpdatedAt))
}
