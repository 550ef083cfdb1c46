package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarewrighter/scan3data/internal/model"
	"github.com/softwarewrighter/scan3data/internal/scanset"
)

func testSet() *scanset.ScanSet {
	text := "0001 LDX 1"
	return &scanset.ScanSet{
		Dir: "/data/set",
		Manifest: model.Manifest{
			ScanSetID:         "set-1",
			Name:              "deck-alpha",
			CreatedAt:         time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			ImageCount:        2,
			OriginalFileCount: 3,
			DuplicateCount:    1,
		},
		Artifacts: []model.Artifact{
			{
				ID:          "art-1",
				Label:       model.LabelListingSource,
				ContentText: &text,
				Metadata: model.Metadata{
					OriginalFilenames: []string{"a.tif", "c.tif"},
					Confidence:        0.85,
					Notes:             []string{"text corrected by vision model"},
				},
			},
			{
				ID:    "art-2",
				Label: model.LabelUnknown,
				Metadata: model.Metadata{
					OriginalFilenames: []string{"b.tif"},
					Notes:             []string{},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	data := Build(testSet())

	// Label buckets sorted by name.
	require.Len(t, data.LabelCounts, 2)
	assert.Equal(t, LabelCount{Label: "listing_source", Count: 1}, data.LabelCounts[0])
	assert.Equal(t, LabelCount{Label: "unknown", Count: 1}, data.LabelCounts[1])

	require.Len(t, data.Artifacts, 2)
	assert.True(t, data.Artifacts[0].HasText)
	assert.Equal(t, 2, data.Artifacts[0].Originals)
	assert.False(t, data.Artifacts[1].HasText)
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	require.NoError(t, RenderText(&buf, testSet()))
	out := buf.String()

	assert.Contains(t, out, "Scan Set: deck-alpha (set-1)")
	assert.Contains(t, out, "2 unique of 3 scanned (1 duplicates eliminated)")
	assert.Contains(t, out, "listing_source")
	assert.Contains(t, out, "conf=0.85")
	assert.Contains(t, out, "note: text corrected by vision model")

	// Deterministic output for identical input.
	var again strings.Builder
	require.NoError(t, RenderText(&again, testSet()))
	assert.Equal(t, out, again.String())
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	require.NoError(t, RenderHTML(&buf, testSet()))
	out := buf.String()

	assert.Contains(t, out, "<title>deck-alpha</title>")
	assert.Contains(t, out, "<td>listing_source</td>")
	assert.Contains(t, out, "<td>art-2</td>")
}

func TestRenderHTMLEscapes(t *testing.T) {
	t.Parallel()

	set := testSet()
	set.Manifest.Name = `<script>alert("x")</script>`

	var buf strings.Builder
	require.NoError(t, RenderHTML(&buf, set))
	assert.NotContains(t, buf.String(), "<script>alert")
}
