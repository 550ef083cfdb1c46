package pipeline

import (
	"context"
	"sync"

	"github.com/softwarewrighter/scan3data/internal/model"
)

// mockExtractor implements ocr.Extractor for testing.
type mockExtractor struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []string
}

func (m *mockExtractor) ExtractText(_ context.Context, imagePath string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, imagePath)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// mockCorrector implements vision.Corrector for testing.
type mockCorrector struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (m *mockCorrector) Correct(_ context.Context, _ []byte, _ string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// mockClassifier implements classify.Classifier for testing.
type mockClassifier struct {
	label      model.Label
	confidence float64
	ok         bool
}

func (m *mockClassifier) Classify(_ context.Context, _ string) (model.Label, float64, bool) {
	return m.label, m.confidence, m.ok
}

// mockCleaner implements Cleaner for testing.
type mockCleaner struct {
	mu      sync.Mutex
	payload []byte
	err     error
	calls   int
}

func (m *mockCleaner) CleanImage(_ context.Context, _ []byte) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}
