package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdfpress/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "pdfpress",
	Version: "0.1.0",
	Short:   "pdfpress - batch-optimize and repair PDF files",
	Long: "pdfpress walks a directory tree, shrinks every PDF it finds by structural\n" +
		"cleanup and stream compression, and can attempt staged repair of damaged\n" +
		"files. Originals are only ever replaced by strictly smaller rewrites.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
