package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var picked = []domain.Asset{
	{ID: "b", Path: "/lib/trip/b.mov", Name: "b.mov", Album: "trip", Kind: domain.KindVideo, Size: 2048,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	{ID: "a", Path: "/lib/a.jpg", Name: "a.jpg", Kind: domain.KindPhoto, Size: 10,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPaths, "PATHS": FormatPaths, " json ": FormatJSON, "Toml": FormatTOML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWritePathsKeepsPickOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPaths, picked))
	assert.Equal(t, "/lib/trip/b.mov\n/lib/a.jpg\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatPaths, nil))
	assert.Empty(t, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, picked))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0]["id"])
	assert.Equal(t, "video", got[0]["kind"])
	assert.Equal(t, "trip", got[0]["album"])
	assert.NotContains(t, got[1], "album", "root album is omitted")
	assert.Equal(t, "2024-03-01T09:00:00Z", got[1]["created_at"])
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTOML, picked))
	assert.Contains(t, buf.String(), "[[asset]]")

	var doc tomlDocument
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Asset, 2)
	assert.Equal(t, "/lib/trip/b.mov", doc.Asset[0].Path)
	assert.Equal(t, "photo", doc.Asset[1].Kind)
	assert.EqualValues(t, 2048, doc.Asset[0].Size)
	assert.True(t, doc.Asset[1].CreatedAt.Equal(picked[1].CreatedAt))
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), picked))
}
