package pipeline

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/softwarewrighter/scan3data/internal/imaging"
	"github.com/softwarewrighter/scan3data/internal/model"
	"github.com/softwarewrighter/scan3data/internal/scanset"
)

// correctedNote marks an artifact whose text was replaced by a vision
// correction. The string is stable so reruns stay byte-identical.
const correctedNote = "text corrected by vision model"

// artifactResult is one worker's outcome for one artifact.
type artifactResult struct {
	artifact  model.Artifact
	skipped   bool // filter stage failed, artifact left as-is
	extracted bool
	corrected bool
}

// processArtifact advances one artifact through the stage chain:
// Raw → Filtered → TextExtracted → (Corrected|Uncorrected) → Classified.
// Transitions are strictly forward. A filter failure is fatal to the
// artifact for this run; extraction and correction failures degrade to
// notes and the best available text.
func (p *Pipeline) processArtifact(ctx context.Context, dir string, artifact model.Artifact) artifactResult {
	log := zap.L().With(
		zap.String("artifact_id", string(artifact.ID)),
		zap.String("raw", artifact.RawImagePath),
	)

	// Filtered.
	if err := p.filterStage(ctx, dir, &artifact); err != nil {
		artifact.Metadata.AddNote("filter failed: " + err.Error())
		log.Warn("pipeline: artifact skipped", zap.Error(err))
		return artifactResult{artifact: artifact, skipped: true}
	}

	result := artifactResult{}

	// TextExtracted.
	extractCtx, cancel := context.WithTimeout(ctx, p.cfg.Pipeline.ExtractTimeout())
	text, err := p.extractor.ExtractText(extractCtx, artifact.ProcessedImagePath)
	cancel()
	if err != nil {
		artifact.Metadata.AddNote("text extraction failed: " + err.Error())
		log.Warn("pipeline: extraction failed", zap.Error(err))
	} else {
		artifact.SetText(text)
		result.extracted = true
	}

	// Corrected | Uncorrected. The corrector sees the original raw image,
	// not the filtered one; the filters erase detail the model can use.
	if p.corrector != nil && artifact.Text() != "" {
		if p.correctStage(ctx, &artifact, log) {
			result.corrected = true
		}
	}

	// Classified.
	if label, confidence, ok := p.classifier.Classify(ctx, artifact.Text()); ok {
		artifact.Label = label
		artifact.Metadata.Confidence = confidence
	}

	result.artifact = artifact
	return result
}

// filterStage decodes the raw image, applies the cleanup filters, and
// persists the filtered image alongside the raw one. Already-filtered
// artifacts are left alone so reruns are idempotent.
func (p *Pipeline) filterStage(ctx context.Context, dir string, artifact *model.Artifact) error {
	if artifact.ProcessedImagePath != "" {
		if _, err := os.Stat(artifact.ProcessedImagePath); err == nil {
			return nil
		}
	}

	raw, err := p.loadRaw(ctx, artifact)
	if err != nil {
		return err
	}

	filtered := imaging.Preprocess(raw, imaging.FilterConfig{
		DarkThreshold: uint8(p.cfg.Filter.DarkThreshold),
		RunDivisor:    p.cfg.Filter.RunDivisor,
	})

	processedPath := filepath.Join(scanset.ProcessedDir(dir), filepath.Base(artifact.RawImagePath))
	if err := imaging.EncodePNG(filtered, processedPath); err != nil {
		return err
	}

	artifact.ProcessedImagePath = processedPath
	return nil
}

// loadRaw decodes the artifact's raw image, routing through the
// generative cleaner first when one is configured.
func (p *Pipeline) loadRaw(ctx context.Context, artifact *model.Artifact) (image.Image, error) {
	if p.cleaner == nil {
		return imaging.Decode(artifact.RawImagePath)
	}

	rawBytes, err := os.ReadFile(artifact.RawImagePath)
	if err != nil {
		return nil, err
	}

	cleaned, err := p.cleaner.CleanImage(ctx, rawBytes)
	if err != nil {
		// Cleanup is best-effort enhancement; fall back to the raw scan.
		artifact.Metadata.AddNote("llm cleanup failed: " + err.Error())
		return imaging.Decode(artifact.RawImagePath)
	}

	img, _, err := image.Decode(bytes.NewReader(cleaned))
	if err != nil {
		artifact.Metadata.AddNote("llm cleanup returned undecodable image: " + err.Error())
		return imaging.Decode(artifact.RawImagePath)
	}
	return img, nil
}

// correctStage replaces the extracted text with a vision-model correction
// when the corrector succeeds. Failure appends the reason and keeps the
// uncorrected text; extraction output is never lost here.
func (p *Pipeline) correctStage(ctx context.Context, artifact *model.Artifact, log *zap.Logger) bool {
	rawBytes, err := os.ReadFile(artifact.RawImagePath)
	if err != nil {
		artifact.Metadata.AddNote("vision correction failed: " + err.Error())
		log.Warn("pipeline: correction skipped, raw unreadable", zap.Error(err))
		return false
	}

	correctCtx, cancel := context.WithTimeout(ctx, p.cfg.Pipeline.CorrectTimeout())
	defer cancel()

	correctedText, err := p.corrector.Correct(correctCtx, rawBytes, artifact.Text())
	if err != nil {
		artifact.Metadata.AddNote("vision correction failed: " + err.Error())
		log.Warn("pipeline: correction failed, keeping extracted text", zap.Error(err))
		return false
	}

	artifact.SetText(correctedText)
	if !slices.Contains(artifact.Metadata.Notes, correctedNote) {
		artifact.Metadata.AddNote(correctedNote)
	}
	return true
}
