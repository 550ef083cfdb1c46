// Package classify assigns a coarse content label to extracted artifact
// text. The default heuristic is deliberately simple; richer classifiers
// plug in behind the same interface.
package classify

import (
	"context"

	"go.uber.org/zap"

	"github.com/softwarewrighter/scan3data/internal/model"
	"github.com/softwarewrighter/scan3data/pkg/ollama"
)

// listingLengthThreshold is the character count above which text is
// assumed to be a listing page rather than a card or fragment.
const listingLengthThreshold = 100

// heuristicConfidence is the fixed, intentionally low confidence assigned
// by the length heuristic.
const heuristicConfidence = 0.5

// Classifier maps extracted text to a (label, confidence) pair. A second
// return of false means the classifier has no opinion and the artifact's
// existing label and confidence stand.
type Classifier interface {
	Classify(ctx context.Context, text string) (model.Label, float64, bool)
}

// LengthHeuristic is the baseline non-AI classifier: text longer than the
// listing threshold is labeled a source listing with low confidence,
// anything else is left as-is.
type LengthHeuristic struct{}

// Classify applies the length rule.
func (LengthHeuristic) Classify(_ context.Context, text string) (model.Label, float64, bool) {
	if len(text) > listingLengthThreshold {
		return model.LabelListingSource, heuristicConfidence, true
	}
	return model.LabelUnknown, 0, false
}

// refinementLabels maps text-model (language, purpose) judgments onto
// artifact labels.
func refinementLabel(r *ollama.Refinement) model.Label {
	switch r.Purpose {
	case "source":
		return model.LabelCardText
	case "listing":
		if r.Language == "unknown" {
			return model.LabelListingObject
		}
		return model.LabelListingSource
	case "object":
		return model.LabelListingObject
	case "log":
		return model.LabelRuntimeOutput
	default:
		return model.LabelUnknown
	}
}

// LLMClassifier refines classification with an Ollama text model, falling
// back to the length heuristic when the model fails or abstains.
type LLMClassifier struct {
	model    *ollama.TextModel
	fallback LengthHeuristic
}

// NewLLMClassifier creates an LLM-backed classifier.
func NewLLMClassifier(textModel *ollama.TextModel) *LLMClassifier {
	return &LLMClassifier{model: textModel}
}

// Classify asks the text model for a judgment. Model failure is never
// fatal; the heuristic answer is used instead.
func (c *LLMClassifier) Classify(ctx context.Context, text string) (model.Label, float64, bool) {
	if text == "" {
		return model.LabelUnknown, 0, false
	}

	refinement, err := c.model.RefineAndClassify(ctx, text)
	if err != nil {
		zap.L().Warn("classify: text model failed, using heuristic", zap.Error(err))
		return c.fallback.Classify(ctx, text)
	}

	label := refinementLabel(refinement)
	if label == model.LabelUnknown {
		return c.fallback.Classify(ctx, text)
	}
	return label, clampConfidence(refinement.Confidence), true
}

// clampConfidence bounds model-reported confidence to [0, 1]; the value
// comes from untrusted model JSON.
func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
