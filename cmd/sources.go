package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"pbnj/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect the external data sources referenced by the report",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List SQL Server references found in the Power Query code",
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := projectRefs()
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Println("No SQL Server references found.")
			return nil
		}
		for i, ref := range refs {
			fmt.Printf("[%02d] %s\n", i+1, ref)
		}
		return nil
	},
}

var sourcesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe each SQL Server reference for connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := projectRefs()
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Println("No SQL Server references found.")
			return nil
		}

		configs, err := GetSourceConfigs()
		if err != nil {
			return err
		}

		log.Printf("Probing %d source(s)...", len(refs))
		results := sources.CheckAll(cmd.Context(), refs, func(server string) (string, string) {
			return CredentialsFor(configs, server)
		})

		fmt.Println("\n📊 Source Check:")
		failed := 0
		for i, r := range results {
			icon := "✓"
			detail := fmt.Sprintf("OK (%s)", r.Elapsed.Round(time.Millisecond))
			if !r.OK {
				icon = "!"
				detail = r.Err
				failed++
			}
			fmt.Printf("[%s] [%02d/%02d] %-30s : %s\n", icon, i+1, len(results), r.Ref, detail)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d sources unreachable", failed, len(results))
		}
		return nil
	},
}

// projectRefs parses the SQL Server references out of the project's raw M
// code.
func projectRefs() ([]sources.SQLServerRef, error) {
	doc, err := loadDocument()
	if err != nil {
		return nil, err
	}
	return sources.ParseRefs(doc.PowerQuery.RawCode), nil
}

func init() {
	RootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd, sourcesCheckCmd)

	sourcesCmd.PersistentFlags().StringVarP(&pbixFile, "file", "f", "", "Read sources from a .pbix file instead of the snapshot")
}
