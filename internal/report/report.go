// Package report renders a scan set summary as plain text or HTML. Pure
// formatting; no pipeline logic.
package report

import (
	htmltemplate "html/template"
	"io"
	"sort"
	texttemplate "text/template"

	"github.com/rotisserie/eris"

	"github.com/softwarewrighter/scan3data/internal/scanset"
)

// Data is the template input assembled from a loaded scan set.
type Data struct {
	Manifest    any
	LabelCounts []LabelCount
	Artifacts   []ArtifactRow
}

// LabelCount is one classification bucket.
type LabelCount struct {
	Label string
	Count int
}

// ArtifactRow is one artifact summarized for display.
type ArtifactRow struct {
	ID         string
	Label      string
	Confidence float64
	Originals  int
	HasText    bool
	Notes      []string
}

const textTemplate = `Scan Set: {{.Manifest.Name}} ({{.Manifest.ScanSetID}})
Created: {{.Manifest.CreatedAt.Format "2006-01-02 15:04:05"}}
Images: {{.Manifest.ImageCount}} unique of {{.Manifest.OriginalFileCount}} scanned ({{.Manifest.DuplicateCount}} duplicates eliminated)

Classification:
{{- range .LabelCounts}}
  {{printf "%-16s %d" .Label .Count}}
{{- end}}

Artifacts:
{{- range .Artifacts}}
  {{.ID}}  {{printf "%-16s" .Label}} conf={{printf "%.2f" .Confidence}} originals={{.Originals}}{{if .HasText}} text=yes{{else}} text=no{{end}}
{{- range .Notes}}
      note: {{.}}
{{- end}}
{{- end}}
`

const htmlTemplateText = `<!DOCTYPE html>
<html>
<head><title>{{.Manifest.Name}}</title></head>
<body>
<h1>{{.Manifest.Name}}</h1>
<p>{{.Manifest.ImageCount}} unique images of {{.Manifest.OriginalFileCount}} scanned
({{.Manifest.DuplicateCount}} duplicates eliminated)</p>
<h2>Classification</h2>
<table border="1">
<tr><th>Label</th><th>Count</th></tr>
{{- range .LabelCounts}}
<tr><td>{{.Label}}</td><td>{{.Count}}</td></tr>
{{- end}}
</table>
<h2>Artifacts</h2>
<table border="1">
<tr><th>ID</th><th>Label</th><th>Confidence</th><th>Originals</th><th>Text</th><th>Notes</th></tr>
{{- range .Artifacts}}
<tr><td>{{.ID}}</td><td>{{.Label}}</td><td>{{printf "%.2f" .Confidence}}</td><td>{{.Originals}}</td><td>{{if .HasText}}yes{{else}}no{{end}}</td><td>{{range .Notes}}{{.}}<br>{{end}}</td></tr>
{{- end}}
</table>
</body>
</html>
`

// Build assembles template data from a loaded scan set. Label buckets are
// sorted by name so output is deterministic.
func Build(set *scanset.ScanSet) Data {
	counts := make(map[string]int)
	rows := make([]ArtifactRow, 0, len(set.Artifacts))
	for _, a := range set.Artifacts {
		counts[string(a.Label)]++
		rows = append(rows, ArtifactRow{
			ID:         string(a.ID),
			Label:      string(a.Label),
			Confidence: a.Metadata.Confidence,
			Originals:  len(a.Metadata.OriginalFilenames),
			HasText:    a.ContentText != nil,
			Notes:      a.Metadata.Notes,
		})
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	labelCounts := make([]LabelCount, 0, len(labels))
	for _, label := range labels {
		labelCounts = append(labelCounts, LabelCount{Label: label, Count: counts[label]})
	}

	return Data{
		Manifest:    set.Manifest,
		LabelCounts: labelCounts,
		Artifacts:   rows,
	}
}

// RenderText writes the plain-text report.
func RenderText(w io.Writer, set *scanset.ScanSet) error {
	tmpl, err := texttemplate.New("report").Parse(textTemplate)
	if err != nil {
		return eris.Wrap(err, "report: parse text template")
	}
	return eris.Wrap(tmpl.Execute(w, Build(set)), "report: render text")
}

// RenderHTML writes the HTML report.
func RenderHTML(w io.Writer, set *scanset.ScanSet) error {
	tmpl, err := htmltemplate.New("report").Parse(htmlTemplateText)
	if err != nil {
		return eris.Wrap(err, "report: parse html template")
	}
	return eris.Wrap(tmpl.Execute(w, Build(set)), "report: render html")
}
