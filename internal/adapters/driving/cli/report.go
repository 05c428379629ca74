package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report <YYYY-MM-DD>",
	Short: "Write a PDF report of a day",
	Long: `Writes an A4 PDF with the energy totals, the power flow and the
production forecast compared with real production.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default pvflow-<date>.pdf)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) (err error) {
	if err := requireService(reportService != nil, "report"); err != nil {
		return err
	}

	date := args[0]
	path := reportOutput
	if path == "" {
		path = fmt.Sprintf("pvflow-%s.pdf", date)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := reportService.DailyReport(cmd.Context(), date, f); err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	cmd.Printf("Report written to %s\n", path)
	return nil
}
