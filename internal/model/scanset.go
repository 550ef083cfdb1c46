package model

import "time"

// Manifest is the append-only record of a single ingestion event. It is
// written once at store creation and never mutated afterward.
// OriginalFileCount - ImageCount == DuplicateCount always holds.
type Manifest struct {
	ScanSetID         ScanSetID `json:"scan_set_id"`
	Name              string    `json:"name"`
	CreatedAt         time.Time `json:"created_at"`
	ImageCount        int       `json:"image_count"`
	OriginalFileCount int       `json:"original_file_count"`
	DuplicateCount    int       `json:"duplicate_count"`
}

// DuplicateGroup is one equivalence class of originals sharing a
// fingerprint. One representative image is physically stored per group.
type DuplicateGroup struct {
	Fingerprint   Fingerprint `json:"fingerprint"`
	OriginalPaths []string    `json:"original_paths"`
}

// RunStatus represents the state of a pipeline run in the history store.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records a single pipeline invocation against a scan set.
type Run struct {
	ID        string     `json:"id"`
	ScanSetID ScanSetID  `json:"scan_set_id"`
	Dir       string     `json:"dir"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a pipeline run.
type RunResult struct {
	Artifacts  int    `json:"artifacts"`
	Processed  int    `json:"processed"`
	Skipped    int    `json:"skipped"`
	Extracted  int    `json:"extracted"`
	Corrected  int    `json:"corrected"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}
