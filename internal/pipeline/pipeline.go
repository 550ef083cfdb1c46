// Package pipeline runs each artifact of a loaded scan set through the
// processing chain: cleanup filtering, text extraction, optional
// vision-assisted correction, and classification. Artifacts are
// independent; failures never cross artifact boundaries, and the updated
// artifact list is written back to the store exactly once per run.
package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/softwarewrighter/scan3data/internal/classify"
	"github.com/softwarewrighter/scan3data/internal/config"
	"github.com/softwarewrighter/scan3data/internal/history"
	"github.com/softwarewrighter/scan3data/internal/model"
	"github.com/softwarewrighter/scan3data/internal/ocr"
	"github.com/softwarewrighter/scan3data/internal/scanset"
	"github.com/softwarewrighter/scan3data/internal/vision"
)

// Cleaner optionally replaces a raw scan with a model-cleaned version
// before the classical filters run.
type Cleaner interface {
	CleanImage(ctx context.Context, imageBytes []byte) ([]byte, error)
}

// Pipeline processes the artifacts of a scan set. All collaborators are
// injected; substitute implementations slot in for tests.
type Pipeline struct {
	cfg        *config.Config
	extractor  ocr.Extractor
	corrector  vision.Corrector // nil disables the correction stage
	classifier classify.Classifier
	cleaner    Cleaner        // nil disables LLM image cleanup
	history    *history.Store // nil disables run recording
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithCorrector enables the vision correction stage.
func WithCorrector(c vision.Corrector) Option {
	return func(p *Pipeline) { p.corrector = c }
}

// WithCleaner enables generative image cleanup before the classical
// filters.
func WithCleaner(c Cleaner) Option {
	return func(p *Pipeline) { p.cleaner = c }
}

// WithHistory records runs in the history store.
func WithHistory(h *history.Store) Option {
	return func(p *Pipeline) { p.history = h }
}

// New creates a pipeline with the given collaborators.
func New(cfg *config.Config, extractor ocr.Extractor, classifier classify.Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		extractor:  extractor,
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the scan set at dir, processes every artifact, and writes the
// full updated artifact list back atomically. Per-artifact failures are
// recorded as notes and never abort the run; only a store-level failure
// (unloadable scan set, unwritable artifact list) is fatal.
func (p *Pipeline) Run(ctx context.Context, dir string) (*model.RunResult, error) {
	start := time.Now()

	set, err := scanset.Load(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: load scan set %s", dir)
	}

	log := zap.L().With(
		zap.String("scan_set_id", string(set.Manifest.ScanSetID)),
		zap.String("dir", dir),
	)
	log.Info("pipeline: starting run", zap.Int("artifacts", len(set.Artifacts)))

	var run *model.Run
	if p.history != nil {
		run, err = p.history.CreateRun(ctx, set.Manifest.ScanSetID, dir)
		if err != nil {
			log.Warn("pipeline: failed to record run", zap.Error(err))
		}
	}

	concurrency := p.cfg.Pipeline.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	// Each worker owns exactly one slot of the updated slice, so the
	// collector is the slice itself and list order is preserved.
	updated := make([]model.Artifact, len(set.Artifacts))
	var processed, skipped, extracted, corrected atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, artifact := range set.Artifacts {
		g.Go(func() error {
			result := p.processArtifact(gctx, dir, artifact)
			updated[i] = result.artifact

			if result.skipped {
				skipped.Add(1)
			} else {
				processed.Add(1)
			}
			if result.extracted {
				extracted.Add(1)
			}
			if result.corrected {
				corrected.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in notes

	if err := scanset.SaveArtifacts(dir, updated); err != nil {
		result := p.buildResult(len(updated), &processed, &skipped, &extracted, &corrected, start)
		result.Error = err.Error()
		p.finishRun(ctx, run, result, false)
		return nil, eris.Wrapf(err, "pipeline: persist artifacts for %s", dir)
	}

	result := p.buildResult(len(updated), &processed, &skipped, &extracted, &corrected, start)
	p.finishRun(ctx, run, result, true)

	log.Info("pipeline: run complete",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("extracted", result.Extracted),
		zap.Int("corrected", result.Corrected),
		zap.Int64("duration_ms", result.DurationMS),
	)
	return result, nil
}

func (p *Pipeline) buildResult(total int, processed, skipped, extracted, corrected *atomic.Int64, start time.Time) *model.RunResult {
	return &model.RunResult{
		Artifacts:  total,
		Processed:  int(processed.Load()),
		Skipped:    int(skipped.Load()),
		Extracted:  int(extracted.Load()),
		Corrected:  int(corrected.Load()),
		DurationMS: time.Since(start).Milliseconds(),
	}
}

func (p *Pipeline) finishRun(ctx context.Context, run *model.Run, result *model.RunResult, ok bool) {
	if p.history == nil || run == nil {
		return
	}
	var err error
	if ok {
		err = p.history.CompleteRun(ctx, run.ID, result)
	} else {
		err = p.history.FailRun(ctx, run.ID, result)
	}
	if err != nil {
		zap.L().Warn("pipeline: failed to finish run record", zap.Error(err))
	}
}
