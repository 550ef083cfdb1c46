package main

import (
	"context"
	"time"

	"github.com/softwarewrighter/scan3data/internal/classify"
	"github.com/softwarewrighter/scan3data/internal/history"
	"github.com/softwarewrighter/scan3data/internal/ocr"
	"github.com/softwarewrighter/scan3data/internal/pipeline"
	"github.com/softwarewrighter/scan3data/internal/vision"
	"github.com/softwarewrighter/scan3data/pkg/gemini"
	"github.com/softwarewrighter/scan3data/pkg/ollama"
)

// pipelineEnv holds the initialized collaborators and the pipeline needed
// by the process and serve commands.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	History  *history.Store // may be nil
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.History != nil {
		_ = pe.History.Close()
	}
}

// initPipeline builds the pipeline from config: the OCR extractor, the
// classifier, and the optional corrector, cleaner, and history store.
// Callers should defer env.Close().
func initPipeline(ctx context.Context, correct bool) (*pipelineEnv, error) {
	extractor, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		return nil, err
	}

	var classifier classify.Classifier = classify.LengthHeuristic{}
	if cfg.Pipeline.LLMClassify {
		client := ollama.New(ollama.Config{
			BaseURL:    cfg.Ollama.BaseURL,
			Timeout:    time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
			RatePerSec: cfg.Ollama.RatePerSec,
		})
		classifier = classify.NewLLMClassifier(ollama.NewTextModel(client, cfg.Ollama.TextModel))
	}

	var opts []pipeline.Option

	if correct {
		corrector, err := vision.NewCorrector(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithCorrector(corrector))
	}

	if cfg.Pipeline.LLMClean && cfg.Gemini.Key != "" {
		cleaner := gemini.New(cfg.Gemini.Key, cfg.Gemini.Model, time.Duration(cfg.Gemini.TimeoutSecs)*time.Second)
		opts = append(opts, pipeline.WithCleaner(cleaner))
	}

	env := &pipelineEnv{}
	if cfg.History.Enabled {
		h, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		if err := h.Migrate(ctx); err != nil {
			h.Close() //nolint:errcheck,gosec
			return nil, err
		}
		env.History = h
		opts = append(opts, pipeline.WithHistory(h))
	}

	env.Pipeline = pipeline.New(cfg, extractor, classifier, opts...)
	return env, nil
}
