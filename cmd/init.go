package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"pbnj/internal/docs"
	"pbnj/internal/gitutil"
	"pbnj/internal/model"
	"pbnj/internal/parser"
)

var initGit bool

var initCmd = &cobra.Command{
	Use:   "init <file.pbix>",
	Short: "Extract metadata and generate the documentation project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pbixPath := args[0]

		fmt.Printf("🥪 Initializing project from %s\n", pbixPath)
		start := time.Now()

		// 1. Extract metadata
		log.Println("Extracting metadata...")
		doc, err := parser.New(pbixPath).ExtractMetadata()
		if err != nil {
			return err
		}

		// 2. Setup Progress Bar
		g := docs.NewGenerator(doc, outputDir)

		uiprogress.Start()
		bar := uiprogress.AddBar(g.StepCount()).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Generating: "
		})

		// 3. Generate documentation
		err = g.GenerateAll(func() {
			bar.Incr()
		})

		uiprogress.Stop()

		if err != nil {
			return err
		}

		// 4. Optional git setup
		if initGit {
			repo := gitutil.New(outputDir)
			if err := repo.Init(); err != nil {
				return err
			}
			committed, err := repo.CommitAll("Initialize documentation project")
			if err != nil {
				return err
			}
			if committed {
				log.Println("Committed initial documentation")
			}
		}

		// 5. Final Report
		summary := doc.Summarize()
		fmt.Println("\n📊 Extraction Summary:")
		fmt.Printf("[✓] File          : %s (%.2f MB)\n", summary.FileName, summary.FileSizeMB)
		fmt.Printf("[✓] Tables        : %d\n", summary.TableCount)
		fmt.Printf("[✓] Measures      : %d\n", summary.MeasureCount)
		fmt.Printf("[✓] Relationships : %d\n", summary.RelationshipCount)
		fmt.Printf("[✓] Queries       : %d\n", summary.PowerQueryCount)
		for _, warning := range extractionWarnings(doc) {
			fmt.Printf("[!] %s\n", warning)
		}
		fmt.Println("--------------------------------------------------")
		log.Printf("Project Ready! Time Elapsed: %s", time.Since(start))

		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initGit, "git", false, "Initialize a git repository and commit the documentation")
}

// extractionWarnings lists the facets that failed during extraction.
func extractionWarnings(doc *model.Document) []string {
	var warnings []string
	for _, err := range []string{
		doc.Tables.Err, doc.Relationships.Err, doc.Measures.Err,
		doc.CalculatedColumns.Err, doc.PowerQuery.Err,
		doc.Parameters.Err, doc.ModelMetadata.Err,
	} {
		if err != "" {
			warnings = append(warnings, err)
		}
	}
	return warnings
}
