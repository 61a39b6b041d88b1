package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pbnj/internal/gitutil"
	"pbnj/internal/insights"
	"pbnj/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the documentation project",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := snapshotPath()
		if _, err := os.Stat(path); err != nil {
			fmt.Println("No project found. Run 'pbnj init <file.pbix>' to create one.")
			return nil
		}

		doc, err := model.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}

		summary := doc.Summarize()
		report := insights.Analyze(doc)

		fmt.Println("📊 Project Status:")
		fmt.Printf("[✓] File          : %s (%.2f MB)\n", summary.FileName, summary.FileSizeMB)
		fmt.Printf("[✓] Tables        : %d\n", summary.TableCount)
		fmt.Printf("[✓] Measures      : %d\n", summary.MeasureCount)
		fmt.Printf("[✓] Relationships : %d\n", summary.RelationshipCount)
		fmt.Printf("[✓] Queries       : %d\n", summary.PowerQueryCount)
		fmt.Printf("[✓] Complexity    : %d\n", report.ComplexityScore)
		for _, warning := range extractionWarnings(doc) {
			fmt.Printf("[!] %s\n", warning)
		}

		repo := gitutil.New(outputDir)
		if repo.IsRepo() {
			dirty, err := repo.Status()
			if err == nil {
				state := "clean"
				if dirty != "" {
					state = "uncommitted changes"
				}
				fmt.Printf("[✓] Git           : %s (%s)\n", repo.CurrentBranch(), state)
			}
		} else {
			fmt.Println("[ ] Git           : not initialized")
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
}
