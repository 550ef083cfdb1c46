// Package scanset persists one deduplicated ingestion batch as a
// directory: a manifest, an ordered artifact list, and the physical raw
// and processed image files they reference.
package scanset

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/softwarewrighter/scan3data/internal/imaging"
	"github.com/softwarewrighter/scan3data/internal/model"
)

const (
	manifestFile  = "manifest.json"
	artifactsFile = "artifacts.json"
	imagesDir     = "images"
	processedDir  = "processed"

	// fingerprintPrefixLen sets how many hex characters of the fingerprint
	// name a stored image file.
	fingerprintPrefixLen = 12
)

// ImagesDir returns the raw image subdirectory for a scan set directory.
func ImagesDir(dir string) string { return filepath.Join(dir, imagesDir) }

// ProcessedDir returns the processed image subdirectory.
func ProcessedDir(dir string) string { return filepath.Join(dir, processedDir) }

// ScanSet is a loaded store: the manifest plus the ordered artifact list.
type ScanSet struct {
	Dir       string
	Manifest  model.Manifest
	Artifacts []model.Artifact
}

// Create initializes a scan set directory from deduplicated groups. One
// representative image is stored per group, named from a fingerprint
// prefix, and one artifact record is created per group in its initial
// state: no processed image, no text, label unknown, confidence zero.
// Any failure to create the directory layout or write an image aborts the
// whole operation.
func Create(dir, name string, groups []model.DuplicateGroup, representative func(model.DuplicateGroup) image.Image) (*ScanSet, error) {
	for _, sub := range []string{dir, ImagesDir(dir), ProcessedDir(dir)} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, eris.Wrapf(err, "scanset: create %s", sub)
		}
	}

	id := model.NewScanSetID()

	originalCount := 0
	artifacts := make([]model.Artifact, 0, len(groups))
	for _, group := range groups {
		originalCount += len(group.OriginalPaths)

		img := representative(group)
		if img == nil {
			return nil, eris.Errorf("scanset: no representative image for fingerprint %s", group.Fingerprint)
		}

		rawPath := filepath.Join(ImagesDir(dir), group.Fingerprint.Prefix(fingerprintPrefixLen)+".png")
		if err := imaging.EncodePNG(img, rawPath); err != nil {
			return nil, eris.Wrapf(err, "scanset: store image for %s", group.OriginalPaths[0])
		}

		names := make([]string, len(group.OriginalPaths))
		for i, p := range group.OriginalPaths {
			names[i] = filepath.Base(p)
		}

		artifacts = append(artifacts, model.Artifact{
			ID:           model.NewArtifactID(),
			ScanSetID:    id,
			RawImagePath: rawPath,
			Label:        model.LabelUnknown,
			Metadata: model.Metadata{
				Fingerprint:       group.Fingerprint,
				OriginalFilenames: names,
				Notes:             []string{},
				Confidence:        0.0,
			},
		})
	}

	manifest := model.Manifest{
		ScanSetID:         id,
		Name:              name,
		CreatedAt:         time.Now().UTC(),
		ImageCount:        len(groups),
		OriginalFileCount: originalCount,
		DuplicateCount:    originalCount - len(groups),
	}

	if err := writeJSON(filepath.Join(dir, manifestFile), manifest); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(dir, artifactsFile), artifacts); err != nil {
		return nil, err
	}

	zap.L().Info("scanset: created",
		zap.String("dir", dir),
		zap.String("scan_set_id", string(id)),
		zap.Int("images", manifest.ImageCount),
		zap.Int("duplicates", manifest.DuplicateCount),
	)

	return &ScanSet{Dir: dir, Manifest: manifest, Artifacts: artifacts}, nil
}

// Load reads a scan set from its directory. A missing or unparseable
// manifest or artifact list is fatal to any operation that depends on it.
func Load(dir string) (*ScanSet, error) {
	var manifest model.Manifest
	if err := readJSON(filepath.Join(dir, manifestFile), &manifest); err != nil {
		return nil, err
	}

	var artifacts []model.Artifact
	if err := readJSON(filepath.Join(dir, artifactsFile), &artifacts); err != nil {
		return nil, err
	}

	return &ScanSet{Dir: dir, Manifest: manifest, Artifacts: artifacts}, nil
}

// SaveArtifacts rewrites the persisted artifact list wholesale. The write
// goes to a temp file in the same directory and is renamed into place, so
// a reader never observes a torn list.
func SaveArtifacts(dir string, artifacts []model.Artifact) error {
	data, err := json.MarshalIndent(artifacts, "", "  ")
	if err != nil {
		return eris.Wrap(err, "scanset: marshal artifacts")
	}

	target := filepath.Join(dir, artifactsFile)
	tmp, err := os.CreateTemp(dir, artifactsFile+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "scanset: temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()         //nolint:errcheck,gosec
		os.Remove(tmpName)  //nolint:errcheck,gosec
		return eris.Wrapf(err, "scanset: write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck,gosec
		return eris.Wrapf(err, "scanset: close %s", tmpName)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName) //nolint:errcheck,gosec
		return eris.Wrapf(err, "scanset: replace %s", target)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "scanset: marshal %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "scanset: write %s", path)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "scanset: read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "scanset: parse %s", path)
	}
	return nil
}
