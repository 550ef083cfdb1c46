package ingest

import (
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/softwarewrighter/scan3data/internal/imaging"
	"github.com/softwarewrighter/scan3data/internal/model"
)

// imageExtensions lists the file extensions accepted during directory walks.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// CollectFiles resolves an input path to the ordered list of image files it
// contains. A file input yields itself; a directory input yields its image
// files sorted by name. Non-image files are ignored.
func CollectFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: stat %s", input)
	}

	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read dir %s", input)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(input, e.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, eris.Errorf("ingest: no image files found in %s", input)
	}
	return files, nil
}

// DecodeBatch decodes every file into an ingestion item. Decoding is
// fail-fast: a single undecodable image aborts the whole batch rather than
// being skipped, so a bad scan is caught before any store is created.
func DecodeBatch(files []string) ([]Item, error) {
	items := make([]Item, 0, len(files))
	for _, path := range files {
		img, err := imaging.Decode(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: batch aborted at %s", path)
		}
		items = append(items, Item{OriginalPath: path, Image: img})
	}
	return items, nil
}

// Batch is the result of decoding and deduplicating one ingestion input.
type Batch struct {
	Items  []Item
	Groups []model.DuplicateGroup
}

// Run collects, decodes, and deduplicates the input. The returned batch
// keeps the decoded images so the caller can choose a representative per
// group without re-reading files.
func Run(input string) (*Batch, error) {
	files, err := CollectFiles(input)
	if err != nil {
		return nil, err
	}

	items, err := DecodeBatch(files)
	if err != nil {
		return nil, err
	}

	groups := GroupDuplicates(items)

	zap.L().Info("ingest: batch deduplicated",
		zap.Int("files", len(files)),
		zap.Int("unique", len(groups)),
		zap.Int("duplicates", len(files)-len(groups)),
	)

	return &Batch{Items: items, Groups: groups}, nil
}

// Representative returns the decoded image for a group's first original
// path, which is the image physically stored for the group.
func (b *Batch) Representative(group model.DuplicateGroup) image.Image {
	for _, it := range b.Items {
		if it.OriginalPath == group.OriginalPaths[0] {
			return it.Image
		}
	}
	return nil
}
