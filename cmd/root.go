package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	outputDir string
)

var RootCmd = &cobra.Command{
	Use:   "pbnj",
	Short: "Power BI documentation generator",
	Long: `
  ____  ____  _   _     _
 |  _ \| __ )| \ | |   | |
 | |_) |  _ \|  \| |_  | |
 |  __/| |_) | |\  | |_| |
 |_|   |____/|_| \_|\___/

PBNJ 🥪 - Power BI Metadata Extractor & Documentation Generator
`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pbnj.yaml)")
	RootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", ".", "project output directory")

	viper.BindPFlag("output", RootCmd.PersistentFlags().Lookup("output"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("pbnj")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
