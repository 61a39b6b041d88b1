// Package insights derives lightweight analytics from an assembled metadata
// document. Everything here is a pure function of the document; reports are
// cheap and recomputed on every call.
package insights

import (
	"strings"

	"pbnj/internal/model"
)

// Report holds the derived analytics for one document.
type Report struct {
	ComplexityScore int      `json:"complexity_score"`
	DataSources     []string `json:"data_sources"`
	KeyMetrics      []string `json:"key_metrics"`
}

// Analyze computes the full report.
func Analyze(doc *model.Document) Report {
	return Report{
		ComplexityScore: ComplexityScore(doc),
		DataSources:     DataSources(doc),
		KeyMetrics:      KeyMetrics(doc),
	}
}

// ComplexityScore weights the document's counts:
// 2 per table, 3 per measure, 1 per relationship, 2 per query.
// No normalization and no upper bound.
func ComplexityScore(doc *model.Document) int {
	score := 0
	score += doc.Tables.Count() * 2
	score += doc.Measures.Count() * 3
	score += doc.Relationships.Count() * 1
	score += doc.PowerQuery.QueryCount() * 2
	return score
}

// sourcePatterns is checked in fixed order; each label appears at most once.
// Other source types are not detected.
var sourcePatterns = []struct {
	needle string
	label  string
}{
	{"Excel", "Excel"},
	{"SQL", "SQL Server"},
	{"SharePoint", "SharePoint"},
}

// DataSources scans the raw M code for known source markers.
func DataSources(doc *model.Document) []string {
	sources := []string{}
	raw := doc.PowerQuery.RawCode
	if raw == "" {
		return sources
	}
	for _, p := range sourcePatterns {
		if strings.Contains(raw, p.needle) {
			sources = append(sources, p.label)
		}
	}
	return sources
}

const keyMetricLimit = 5

// KeyMetrics returns the names of the first 5 measures in document order.
// The window is positional: a malformed (unnamed) entry inside the first 5
// is skipped, not replaced by the 6th.
func KeyMetrics(doc *model.Document) []string {
	measures := doc.Measures.Items
	if len(measures) > keyMetricLimit {
		measures = measures[:keyMetricLimit]
	}

	metrics := []string{}
	for _, m := range measures {
		if m.Name == "" {
			continue
		}
		metrics = append(metrics, m.Name)
	}
	return metrics
}
