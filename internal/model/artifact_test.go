package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Label
	}{
		{"card_text", LabelCardText},
		{"card_object", LabelCardObject},
		{"card_data", LabelCardData},
		{"listing_source", LabelListingSource},
		{"listing_object", LabelListingObject},
		{"runtime_output", LabelRuntimeOutput},
		{"unknown", LabelUnknown},
		{"", LabelUnknown},
		{"CARD_TEXT", LabelUnknown},
		{"garbage", LabelUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLabel(tt.in), "input %q", tt.in)
	}
}

func TestFingerprintPrefix(t *testing.T) {
	t.Parallel()

	fp := Fingerprint("abcdef0123456789")
	assert.Equal(t, "abcdef012345", fp.Prefix(12))
	assert.Equal(t, "abcdef0123456789", fp.Prefix(99))
	assert.Equal(t, "", Fingerprint("").Prefix(12))
}

func TestArtifactText(t *testing.T) {
	t.Parallel()

	var a Artifact
	assert.Equal(t, "", a.Text())

	a.SetText("DC 0")
	assert.Equal(t, "DC 0", a.Text())

	a.SetText("")
	assert.NotNil(t, a.ContentText)
	assert.Equal(t, "", a.Text())
}

func TestMetadataAddNote(t *testing.T) {
	t.Parallel()

	m := Metadata{Notes: []string{}}
	m.AddNote("text extraction failed: timeout")
	m.AddNote("text corrected by vision model")
	assert.Equal(t, []string{
		"text extraction failed: timeout",
		"text corrected by vision model",
	}, m.Notes)
}

func TestNewIDsUnique(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, NewScanSetID(), NewScanSetID())
	assert.NotEqual(t, NewArtifactID(), NewArtifactID())
}
