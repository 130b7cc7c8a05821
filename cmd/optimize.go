package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pdfpress/internal/engine"
	"pdfpress/internal/logger"
	"pdfpress/internal/optimizer"
	"pdfpress/internal/tui"
)

var (
	optCompression string
	optBackup      bool
	optMinSizeMB   float64
	optRepair      bool
	optWorkers     int
	optNoTUI       bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [flags] <directory>",
	Short: "Optimize every PDF under a directory tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]

		level := optCompression
		if !cmd.Flags().Changed("compression") {
			level = cfg.Optimizer.Compression
		}
		workers := optWorkers
		if !cmd.Flags().Changed("workers") {
			workers = cfg.Optimizer.Workers
		}
		minSize := optMinSizeMB
		if !cmd.Flags().Changed("min-size") {
			minSize = cfg.Optimizer.SizeThresholdMB
		}
		useTUI := cfg.TUI.Enabled && !optNoTUI

		// The live view owns the terminal; route logging away from it.
		var log zerolog.Logger
		if useTUI {
			log = zerolog.Nop()
		} else {
			log = logger.NewStderr(cfg.Logging.Level)
		}

		runner := optimizer.NewRunner(afero.NewOsFs(), engine.New(), log)
		opts := optimizer.Options{
			Level:           optimizer.ParseLevel(level),
			Backup:          optBackup,
			SizeThresholdMB: minSize,
			Repair:          optRepair,
			Workers:         workers,
		}

		var updates chan optimizer.Progress
		uiDone := make(chan struct{})
		if useTUI {
			updates = make(chan optimizer.Progress, 64)
			program := tea.NewProgram(tui.NewModel(updates))
			go func() {
				_, _ = program.Run()
				close(uiDone)
			}()
		} else {
			close(uiDone)
		}

		stats, reports, err := runner.Run(context.Background(), root, opts, updates)
		if updates != nil {
			close(updates)
		}
		<-uiDone
		if err != nil {
			return err
		}

		printReports(reports)
		fmt.Fprintln(os.Stdout, tui.RenderSummary("PDF optimization summary", summaryRows(stats)))
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVarP(&optCompression, "compression", "c", "medium", "compression level: low, medium or high")
	optimizeCmd.Flags().BoolVarP(&optBackup, "backup", "b", false, "create .backup copies of originals")
	optimizeCmd.Flags().Float64VarP(&optMinSizeMB, "min-size", "s", 0, "only optimize PDFs larger than this size in MB (0 for all)")
	optimizeCmd.Flags().BoolVarP(&optRepair, "repair", "r", false, "attempt to repair damaged PDFs")
	optimizeCmd.Flags().IntVar(&optWorkers, "workers", 1, "number of files to process in parallel")
	optimizeCmd.Flags().BoolVar(&optNoTUI, "no-tui", false, "disable the live progress view")

	rootCmd.AddCommand(optimizeCmd)
}

func summaryRows(stats optimizer.RunStats) []tui.SummaryRow {
	saved := stats.OriginalSizeBytes - stats.OptimizedSizeBytes
	return []tui.SummaryRow{
		{Label: "Total PDFs processed", Value: fmt.Sprintf("%d", stats.TotalFiles)},
		{Label: "Successfully optimized", Value: fmt.Sprintf("%d", stats.OptimizedFiles)},
		{Label: "Repaired and optimized", Value: fmt.Sprintf("%d", stats.RepairedFiles)},
		{Label: "Skipped", Value: fmt.Sprintf("%d", stats.SkippedFiles)},
		{Label: "Failed", Value: fmt.Sprintf("%d", stats.FailedFiles)},
		{Label: "Original size", Value: formatBytes(stats.OriginalSizeBytes)},
		{Label: "Optimized size", Value: formatBytes(stats.OptimizedSizeBytes)},
		{Label: "Space saved", Value: fmt.Sprintf("%s (%.1f%%)", formatBytes(saved), stats.ReductionPercent)},
		{Label: "Time taken", Value: stats.Duration().Round(10 * time.Millisecond).String()},
	}
}

func printReports(reports []optimizer.Report) {
	for _, rep := range reports {
		switch rep.Status {
		case optimizer.StatusFailed:
			fmt.Fprintf(os.Stdout, "failed: %s (%s)\n", rep.Path, rep.Reason)
			if looksRepairable(rep) {
				fmt.Fprintln(os.Stdout, "  -> this PDF has structural issues, try repair mode (-r)")
			}
		case optimizer.StatusSkipped:
			fmt.Fprintf(os.Stdout, "skipped: %s (%s)\n", rep.Path, rep.Reason)
		}
	}
}

// looksRepairable matches error texts that indicate structural damage
// rather than, say, encryption or a vanished file.
func looksRepairable(rep optimizer.Report) bool {
	if rep.Outcome != nil && rep.Outcome.Failure != nil {
		switch rep.Outcome.Failure.Kind {
		case optimizer.ErrEncrypted, optimizer.ErrInaccessible:
			return false
		}
	}
	reason := strings.ToLower(rep.Reason)
	for _, hint := range []string{"xref", "malformed", "corrupt", "damaged", "open failure"} {
		if strings.Contains(reason, hint) {
			return true
		}
	}
	return false
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
