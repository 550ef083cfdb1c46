package scanset

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarewrighter/scan3data/internal/ingest"
	"github.com/softwarewrighter/scan3data/internal/model"
)

func uniformGray(size int, fill uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	return img
}

func testGroups() ([]model.DuplicateGroup, func(model.DuplicateGroup) image.Image) {
	imgA := uniformGray(4, 10)
	imgB := uniformGray(4, 200)
	groups := []model.DuplicateGroup{
		{Fingerprint: ingest.HashImage(imgA), OriginalPaths: []string{"scans/a.tif", "scans/c.tif"}},
		{Fingerprint: ingest.HashImage(imgB), OriginalPaths: []string{"scans/b.tif"}},
	}
	byFP := map[model.Fingerprint]image.Image{
		groups[0].Fingerprint: imgA,
		groups[1].Fingerprint: imgB,
	}
	return groups, func(g model.DuplicateGroup) image.Image { return byFP[g.Fingerprint] }
}

func TestCreateLoadRoundTrip(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "set")

	groups, rep := testGroups()
	created, err := Create(dir, "deck-drawings", groups, rep)
	require.NoError(t, err)

	assert.Equal(t, "deck-drawings", created.Manifest.Name)
	assert.Equal(t, 2, created.Manifest.ImageCount)
	assert.Equal(t, 3, created.Manifest.OriginalFileCount)
	assert.Equal(t, 1, created.Manifest.DuplicateCount)
	assert.NotEmpty(t, created.Manifest.ScanSetID)

	require.Len(t, created.Artifacts, 2)
	for i, a := range created.Artifacts {
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, created.Manifest.ScanSetID, a.ScanSetID)
		assert.Equal(t, model.LabelUnknown, a.Label)
		assert.Empty(t, a.ProcessedImagePath)
		assert.Nil(t, a.ContentText)
		assert.Equal(t, groups[i].Fingerprint, a.Metadata.Fingerprint)
		assert.NotNil(t, a.Metadata.Notes)
		assert.Zero(t, a.Metadata.Confidence)

		// Stored image named by fingerprint prefix, and actually on disk.
		want := filepath.Join(ImagesDir(dir), groups[i].Fingerprint.Prefix(12)+".png")
		assert.Equal(t, want, a.RawImagePath)
		_, statErr := os.Stat(a.RawImagePath)
		assert.NoError(t, statErr)
	}

	// Original basenames survive, not full paths.
	assert.Equal(t, []string{"a.tif", "c.tif"}, created.Artifacts[0].Metadata.OriginalFilenames)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, created.Manifest, loaded.Manifest)
	assert.Equal(t, created.Artifacts, loaded.Artifacts)
}

func TestCreateMissingRepresentative(t *testing.T) {
	t.Parallel()

	groups, _ := testGroups()
	_, err := Create(filepath.Join(t.TempDir(), "set"), "x", groups,
		func(model.DuplicateGroup) image.Image { return nil })
	require.Error(t, err)
	assert.ErrorContains(t, err, "no representative image")
}

func TestLoadMissingDir(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadCorruptArtifacts(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "set")

	groups, rep := testGroups()
	_, err := Create(dir, "x", groups, rep)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, artifactsFile), []byte("{"), 0o600))
	_, err = Load(dir)
	assert.ErrorContains(t, err, "parse")
}

func TestSaveArtifactsReplacesWholeList(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "set")

	groups, rep := testGroups()
	created, err := Create(dir, "x", groups, rep)
	require.NoError(t, err)

	updated := created.Artifacts
	updated[0].Label = model.LabelListingSource
	updated[0].SetText("// FORTRAN IV listing")
	updated[0].Metadata.AddNote("text corrected by vision model")
	updated[0].Metadata.Confidence = 0.9

	require.NoError(t, SaveArtifacts(dir, updated))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, updated, loaded.Artifacts)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestSaveArtifactsIndented(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	require.NoError(t, SaveArtifacts(dir, []model.Artifact{}))

	data, err := os.ReadFile(filepath.Join(dir, artifactsFile))
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Equal(t, "[]", string(data))
}

func TestSaveArtifactsMissingDir(t *testing.T) {
	t.Parallel()

	err := SaveArtifacts(filepath.Join(t.TempDir(), "nope"), []model.Artifact{})
	assert.Error(t, err)
}
