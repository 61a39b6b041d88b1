// Package docs renders the metadata document into the project's
// documentation bundle: markdown files under docs/, a README, and the
// snapshot under .pbnj/.
package docs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"pbnj/internal/insights"
	"pbnj/internal/model"
)

// markdownOrder is the document order used by GenerateAll and the combined
// markdown export.
var markdownOrder = []string{
	"readme", "tables", "measures", "power_query",
	"relationships", "summary", "technical", "business",
}

type businessMetric struct {
	Name  string
	Table string
}

type businessGroup struct {
	Label   string
	Metrics []businessMetric
}

type businessData struct {
	Overview string
	Groups   []businessGroup
}

type renderData struct {
	Doc      *model.Document
	Summary  model.Summary
	Insights insights.Report
	Business businessData
}

// Generator writes documentation for one document into an output directory.
type Generator struct {
	doc       *model.Document
	outputDir string
	docsDir   string
	pbnjDir   string

	data *renderData
}

func NewGenerator(doc *model.Document, outputDir string) *Generator {
	return &Generator{
		doc:       doc,
		outputDir: outputDir,
		docsDir:   filepath.Join(outputDir, "docs"),
		pbnjDir:   filepath.Join(outputDir, ".pbnj"),
	}
}

// FromSnapshot builds a generator from a previously saved snapshot, without
// re-reading the .pbix file.
func FromSnapshot(snapshotPath, outputDir string) (*Generator, error) {
	doc, err := model.Load(snapshotPath)
	if err != nil {
		return nil, err
	}
	return NewGenerator(doc, outputDir), nil
}

// Document exposes the underlying document for callers that need it.
func (g *Generator) Document() *model.Document {
	return g.doc
}

// StepCount is the number of progress steps GenerateAll reports.
func (g *Generator) StepCount() int {
	return 1 + len(markdownOrder) // snapshot + each document
}

// GenerateAll writes the snapshot and the full markdown bundle. onStep is
// called after each completed step (may be nil).
func (g *Generator) GenerateAll(onStep func()) error {
	step := func() {
		if onStep != nil {
			onStep()
		}
	}

	if err := g.SaveSnapshot(); err != nil {
		return err
	}
	step()

	for _, name := range markdownOrder {
		if err := g.writeDoc(name); err != nil {
			return err
		}
		step()
	}
	return nil
}

// GenerateMarkdown writes only the core markdown documents (README plus the
// four component docs).
func (g *Generator) GenerateMarkdown() error {
	for _, name := range []string{"readme", "tables", "measures", "power_query", "relationships"} {
		if err := g.writeDoc(name); err != nil {
			return err
		}
	}
	return nil
}

// GenerateJSON writes the metadata document into docs/metadata.json.
func (g *Generator) GenerateJSON() error {
	if err := os.MkdirAll(g.docsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	f := &JSONFormat{}
	return f.Export(g, filepath.Join(g.docsDir, "metadata.json"))
}

// SaveSnapshot writes the reloadable snapshot under .pbnj/.
func (g *Generator) SaveSnapshot() error {
	return model.Save(g.doc, filepath.Join(g.pbnjDir, model.SnapshotName))
}

// Export renders the bundle into one file using the named format.
func (g *Generator) Export(format, path string) error {
	f, err := GetFormat(format)
	if err != nil {
		return err
	}
	return f.Export(g, path)
}

// docPath maps a template name to its output file.
func (g *Generator) docPath(name string) string {
	if name == "readme" {
		return filepath.Join(g.outputDir, "README.md")
	}
	return filepath.Join(g.docsDir, name+".md")
}

func (g *Generator) writeDoc(name string) error {
	content, err := g.render(name)
	if err != nil {
		return err
	}
	path := g.docPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Render returns one named document as markdown without writing it.
func (g *Generator) Render(name string) (string, error) {
	return g.render(name)
}

func (g *Generator) render(name string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, g.renderData()); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (g *Generator) renderData() *renderData {
	if g.data == nil {
		g.data = &renderData{
			Doc:      g.doc,
			Summary:  g.doc.Summarize(),
			Insights: insights.Analyze(g.doc),
			Business: buildBusiness(g.doc),
		}
	}
	return g.data
}

// groupOrder fixes the business-overview section order.
var groupOrder = []string{"Revenue", "Cost", "Volume", "Ratio", "Time", "Other"}

func buildBusiness(doc *model.Document) businessData {
	data := businessData{
		Overview: fmt.Sprintf("This Power BI file contains %d data tables with %d calculated metrics.",
			doc.Tables.Count(), doc.Measures.Count()),
	}

	byLabel := make(map[string][]businessMetric)
	for _, m := range doc.Measures.Items {
		if m.Name == "" {
			continue
		}
		label := Classify(m.Name, m.Description)
		byLabel[label] = append(byLabel[label], businessMetric{Name: m.Name, Table: m.Table})
	}

	for _, label := range groupOrder {
		if metrics := byLabel[label]; len(metrics) > 0 {
			data.Groups = append(data.Groups, businessGroup{Label: label, Metrics: metrics})
		}
	}
	return data
}
