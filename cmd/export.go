package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbnj/internal/docs"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the project metadata to a single file (json or markdown)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}

		g := docs.NewGenerator(doc, outputDir)
		if err := g.Export(exportFormat, args[0]); err != nil {
			return err
		}

		fmt.Printf("✓ Exported %s (%s)\n", args[0], exportFormat)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "F", "json", "Export format: json or markdown")
	exportCmd.Flags().StringVarP(&pbixFile, "file", "f", "", "Export from a .pbix file instead of the snapshot")
}
