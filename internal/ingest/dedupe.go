package ingest

import (
	"image"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/softwarewrighter/scan3data/internal/model"
)

// Item is one (original path, decoded image) pair in an ingestion batch.
// Decoding is the caller's responsibility; this package does no I/O.
type Item struct {
	OriginalPath string
	Image        image.Image
}

// GroupDuplicates partitions a batch of images into equivalence classes by
// content fingerprint. Hashing is CPU-bound and runs across workers bounded
// by GOMAXPROCS; the grouping itself is a sequential reduction after all
// hashes are in. Every input appears in exactly one group, each group
// preserves the input ordering of its original paths, and groups are
// returned sorted by fingerprint so output is deterministic.
func GroupDuplicates(items []Item) []model.DuplicateGroup {
	fingerprints := hashAll(items)

	byFingerprint := make(map[model.Fingerprint][]string)
	var order []model.Fingerprint

	for i, it := range items {
		fp := fingerprints[i]
		if _, seen := byFingerprint[fp]; !seen {
			order = append(order, fp)
		}
		byFingerprint[fp] = append(byFingerprint[fp], it.OriginalPath)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	groups := make([]model.DuplicateGroup, 0, len(order))
	for _, fp := range order {
		groups = append(groups, model.DuplicateGroup{
			Fingerprint:   fp,
			OriginalPaths: byFingerprint[fp],
		})
	}
	return groups
}

// hashAll fingerprints every item in parallel, preserving index order.
func hashAll(items []Item) []model.Fingerprint {
	fingerprints := make([]model.Fingerprint, len(items))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			fingerprints[i] = HashImage(it.Image)
			return nil
		})
	}
	_ = g.Wait() // hashing never fails

	return fingerprints
}
