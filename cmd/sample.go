package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbnj/internal/docs"
	"pbnj/internal/sample"
)

var (
	sampleSeed   int64
	sampleTables int
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a demo project with fabricated metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := sample.Document(sampleSeed, sampleTables)

		g := docs.NewGenerator(doc, outputDir)
		if err := g.GenerateAll(nil); err != nil {
			return err
		}

		fmt.Printf("✓ Sample project written to %s (%d tables, %d measures)\n",
			outputDir, doc.Tables.Count(), doc.Measures.Count())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 1, "Random seed (same seed, same project)")
	sampleCmd.Flags().IntVar(&sampleTables, "tables", 4, "Number of tables to fabricate")
}
