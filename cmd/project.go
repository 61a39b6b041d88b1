package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"pbnj/internal/model"
	"pbnj/internal/parser"
)

// pbixFile lets subcommands work straight off a .pbix file instead of the
// project snapshot.
var pbixFile string

func snapshotPath() string {
	return filepath.Join(outputDir, ".pbnj", model.SnapshotName)
}

// loadDocument resolves the working document: an explicit --file wins,
// otherwise the project snapshot is loaded.
func loadDocument() (*model.Document, error) {
	if pbixFile != "" {
		return parser.New(pbixFile).ExtractMetadata()
	}

	path := snapshotPath()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no project snapshot at %s (run 'pbnj init <file.pbix>' first)", path)
	}
	return model.Load(path)
}
