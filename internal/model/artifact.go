package model

import (
	"github.com/google/uuid"
)

// ScanSetID uniquely identifies one ingestion batch. Generated once at
// ingestion time and immutable for the life of the store.
type ScanSetID string

// ArtifactID uniquely identifies one unique scanned image.
type ArtifactID string

// NewScanSetID generates a fresh scan set identifier.
func NewScanSetID() ScanSetID {
	return ScanSetID(uuid.New().String())
}

// NewArtifactID generates a fresh artifact identifier.
func NewArtifactID() ArtifactID {
	return ArtifactID(uuid.New().String())
}

// Fingerprint is a fixed-length hex digest of an image's canonical raw
// pixel bytes. Byte-identical pixel content always yields an identical
// fingerprint; collisions between differing content are treated as
// cryptographically negligible.
type Fingerprint string

// Prefix returns the first n hex characters of the fingerprint, used for
// deterministic image file naming. Returns the whole fingerprint if it is
// shorter than n.
func (f Fingerprint) Prefix(n int) string {
	if len(f) < n {
		return string(f)
	}
	return string(f[:n])
}

// Label classifies artifact content.
type Label string

const (
	// LabelCardText is a punch card carrying source text.
	LabelCardText Label = "card_text"
	// LabelCardObject is a punch card carrying binary/object code.
	LabelCardObject Label = "card_object"
	// LabelCardData is a data-only card.
	LabelCardData Label = "card_data"
	// LabelListingSource is a source code listing page.
	LabelListingSource Label = "listing_source"
	// LabelListingObject is a listing page that includes object code.
	LabelListingObject Label = "listing_object"
	// LabelRuntimeOutput is an execution log or printed program output.
	LabelRuntimeOutput Label = "runtime_output"
	// LabelUnknown is the initial, unclassified state.
	LabelUnknown Label = "unknown"
)

// validLabels is the closed set of artifact labels.
var validLabels = map[Label]bool{
	LabelCardText:      true,
	LabelCardObject:    true,
	LabelCardData:      true,
	LabelListingSource: true,
	LabelListingObject: true,
	LabelRuntimeOutput: true,
	LabelUnknown:       true,
}

// ParseLabel maps a string to a Label, returning LabelUnknown for anything
// outside the enumeration.
func ParseLabel(s string) Label {
	if validLabels[Label(s)] {
		return Label(s)
	}
	return LabelUnknown
}

// Metadata holds derived facts about an artifact. Notes form an append-only
// audit trail of recoverable failures and pipeline events; they are never
// overwritten.
type Metadata struct {
	Fingerprint       Fingerprint `json:"fingerprint"`
	OriginalFilenames []string    `json:"original_filenames"`
	PageNumber        *int        `json:"page_number,omitempty"`
	Header            string      `json:"header,omitempty"`
	Footer            string      `json:"footer,omitempty"`
	Notes             []string    `json:"notes"`
	Confidence        float64     `json:"confidence"`
}

// AddNote appends a free-text processing note to the audit trail.
func (m *Metadata) AddNote(note string) {
	m.Notes = append(m.Notes, note)
}

// Artifact is the processed record derived from one unique scanned image.
// Created at ingestion, mutated in place by the pipeline, never deleted by
// it.
type Artifact struct {
	ID                 ArtifactID `json:"id"`
	ScanSetID          ScanSetID  `json:"scan_set_id"`
	RawImagePath       string     `json:"raw_image_path"`
	ProcessedImagePath string     `json:"processed_image_path,omitempty"`
	Label              Label      `json:"label"`
	ContentText        *string    `json:"content_text,omitempty"`
	Metadata           Metadata   `json:"metadata"`
}

// Text returns the artifact's extracted text, or "" if extraction has not
// produced any.
func (a *Artifact) Text() string {
	if a.ContentText == nil {
		return ""
	}
	return *a.ContentText
}

// SetText records extracted (or corrected) text on the artifact.
func (a *Artifact) SetText(text string) {
	a.ContentText = &text
}

// Stage identifies how far through the pipeline an artifact progressed
// during a run. Transitions are strictly forward.
type Stage string

const (
	StageRaw           Stage = "raw"
	StageFiltered      Stage = "filtered"
	StageTextExtracted Stage = "text_extracted"
	StageCorrected     Stage = "corrected"
	StageUncorrected   Stage = "uncorrected"
	StageClassified    Stage = "classified"
)
