package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pdfpress/internal/engine"
	"pdfpress/internal/logger"
	"pdfpress/internal/optimizer"
	"pdfpress/internal/tui"
)

var inspectMinSizeMB float64

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <directory>",
	Short: "Report which PDFs would be optimized, without modifying anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minSize := inspectMinSizeMB
		if !cmd.Flags().Changed("min-size") {
			minSize = cfg.Optimizer.SizeThresholdMB
		}

		log := logger.NewStderr(cfg.Logging.Level)
		runner := optimizer.NewRunner(afero.NewOsFs(), engine.New(), log)

		_, reports, err := runner.Run(context.Background(), args[0], optimizer.Options{
			SizeThresholdMB: minSize,
			DryRun:          true,
		}, nil)
		if err != nil {
			return err
		}

		candidates := 0
		for _, rep := range reports {
			switch rep.Status {
			case optimizer.StatusCandidate:
				candidates++
				fmt.Fprintf(os.Stdout, "%s %s\n", candidateStyle.Render("would optimize:"), rep.Path)
			case optimizer.StatusSkipped:
				fmt.Fprintf(os.Stdout, "%s %s (%s)\n", skipStyle.Render("skip:"), rep.Path, rep.Reason)
			case optimizer.StatusFailed:
				fmt.Fprintf(os.Stdout, "%s %s (%s)\n", failStyle.Render("inaccessible:"), rep.Path, rep.Reason)
			}
		}
		fmt.Fprintf(os.Stdout, "\n%d of %d PDFs would be optimized\n", candidates, len(reports))
		return nil
	},
}

var (
	candidateStyle = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	skipStyle      = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	failStyle      = lipgloss.NewStyle().Foreground(tui.ColorFail)
)

func init() {
	inspectCmd.Flags().Float64VarP(&inspectMinSizeMB, "min-size", "s", 0, "only consider PDFs larger than this size in MB (0 for all)")

	rootCmd.AddCommand(inspectCmd)
}
