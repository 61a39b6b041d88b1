package docs

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Format abstracts an export target for the documentation bundle.
type Format interface {
	// Extension is the default file extension, without the dot.
	Extension() string
	// Export renders the generator's document into one file at path.
	Export(g *Generator, path string) error
}

// GetFormat returns the Format implementation for a name.
func GetFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return &JSONFormat{}, nil
	case "markdown", "md":
		return &MarkdownFormat{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", name)
	}
}

// Ensure interface implementation
var _ Format = (*JSONFormat)(nil)
var _ Format = (*MarkdownFormat)(nil)

// JSONFormat exports the raw metadata snapshot.
type JSONFormat struct{}

func (f *JSONFormat) Extension() string { return "json" }

func (f *JSONFormat) Export(g *Generator, path string) error {
	data, err := json.MarshalIndent(g.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// MarkdownFormat exports every markdown document combined into one file,
// separated by horizontal rules.
type MarkdownFormat struct{}

func (f *MarkdownFormat) Extension() string { return "md" }

func (f *MarkdownFormat) Export(g *Generator, path string) error {
	var parts []string
	for _, name := range markdownOrder {
		content, err := g.render(name)
		if err != nil {
			return err
		}
		parts = append(parts, content)
	}

	combined := strings.Join(parts, "\n\n---\n\n")
	if err := os.WriteFile(path, []byte(combined), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
