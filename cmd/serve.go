package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pbnj/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the project metadata over a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := web.NewServer(viper.GetInt("server.port"))

		// Preload the project snapshot when one exists; uploads can still
		// replace it at runtime.
		if doc, err := loadDocument(); err == nil {
			srv.LoadDocument(doc)
			log.Printf("✓ Loaded project %s", doc.FileInfo.Name)
		} else {
			log.Printf("No project loaded yet: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Serve(ctx)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to listen on")
	serveCmd.Flags().StringVarP(&pbixFile, "file", "f", "", "Serve a .pbix file instead of the snapshot")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.SetDefault("server.port", 8000)
}
