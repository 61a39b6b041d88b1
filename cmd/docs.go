package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"pbnj/internal/docs"
)

var docsJSON bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Regenerate documentation from the project snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}

		g := docs.NewGenerator(doc, outputDir)

		log.Println("Regenerating documentation...")
		if err := g.GenerateAll(nil); err != nil {
			return err
		}
		if docsJSON {
			if err := g.GenerateJSON(); err != nil {
				return err
			}
		}

		fmt.Printf("✓ Documentation written to %s\n", outputDir)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringVarP(&pbixFile, "file", "f", "", "Regenerate from a .pbix file instead of the snapshot")
	docsCmd.Flags().BoolVar(&docsJSON, "json", false, "Also write docs/metadata.json")
}
