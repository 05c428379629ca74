package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

var (
	forecastEstimate string
	forecastJSON     bool
	forecastLimit    int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Manage PV production forecasts",
	Long:  `Fetch Solcast production forecasts and compare them with real production.`,
}

var forecastUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch and store the latest forecast",
	Args:  cobra.NoArgs,
	RunE:  runForecastUpdate,
}

var forecastHourlyCmd = &cobra.Command{
	Use:   "hourly [YYYY-MM-DD]",
	Short: "Show the hourly forecast of a day",
	Long: `Shows the forecast energy per hour for a day (today by default).

Estimates:
  nominal  - median forecast (pv_estimate)
  worst    - 10th percentile (pv_estimate10)
  best     - 90th percentile (pv_estimate90)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runForecastHourly,
}

var forecastCompareCmd = &cobra.Command{
	Use:   "compare [YYYY-MM-DD]",
	Short: "Compare forecast with real production",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runForecastCompare,
}

var forecastHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent forecast fetches",
	Args:  cobra.NoArgs,
	RunE:  runForecastHistory,
}

var forecastPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete forecast periods older than the retention window",
	Args:  cobra.NoArgs,
	RunE:  runForecastPrune,
}

func init() {
	forecastHourlyCmd.Flags().StringVarP(&forecastEstimate, "estimate", "e", "nominal", "estimate: nominal, worst or best")
	forecastHourlyCmd.Flags().BoolVar(&forecastJSON, "json", false, "output as JSON")
	forecastCompareCmd.Flags().BoolVar(&forecastJSON, "json", false, "output as JSON")
	forecastHistoryCmd.Flags().IntVarP(&forecastLimit, "limit", "n", 10, "maximum number of fetches")

	forecastCmd.AddCommand(forecastUpdateCmd)
	forecastCmd.AddCommand(forecastHourlyCmd)
	forecastCmd.AddCommand(forecastCompareCmd)
	forecastCmd.AddCommand(forecastHistoryCmd)
	forecastCmd.AddCommand(forecastPruneCmd)
	rootCmd.AddCommand(forecastCmd)
}

// parseEstimate accepts the short names and the upstream field names.
func parseEstimate(s string) (domain.EstimateType, error) {
	switch s {
	case "nominal", "":
		return domain.EstimateNominal, nil
	case "worst":
		return domain.EstimateWorst, nil
	case "best":
		return domain.EstimateBest, nil
	}
	if e := domain.EstimateType(s); e.IsValid() {
		return e, nil
	}
	return "", fmt.Errorf("%w: unknown estimate %q", domain.ErrInvalidInput, s)
}

// dateArg returns the first argument or today in the site timezone.
func dateArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	loc := time.UTC
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			loc = settings.Site.Location()
		}
	}
	return time.Now().In(loc).Format(domain.DateLayout)
}

func runForecastUpdate(cmd *cobra.Command, _ []string) error {
	if err := requireService(forecastService != nil, "forecast"); err != nil {
		return err
	}

	cmd.Println("Fetching forecast...")
	fetch, err := forecastService.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("forecast update failed: %w", err)
	}

	cmd.Printf("Stored %d periods (fetch %s).\n", len(fetch.Periods), fetch.ID)
	return nil
}

func runForecastHourly(cmd *cobra.Command, args []string) error {
	if err := requireService(forecastService != nil, "forecast"); err != nil {
		return err
	}
	estimate, err := parseEstimate(forecastEstimate)
	if err != nil {
		return err
	}

	date := dateArg(args)
	profile, err := forecastService.Hourly(cmd.Context(), date, estimate)
	if err != nil {
		return fmt.Errorf("hourly forecast failed: %w", err)
	}

	if forecastJSON {
		out := make(map[string]float64, len(profile))
		for hour, v := range profile {
			out[fmt.Sprintf("%02d", hour)] = domain.Round3(v)
		}
		return printJSON(cmd, out)
	}

	if len(profile) == 0 {
		cmd.Printf("No forecast for %s.\n", date)
		return nil
	}

	rows := make([][]string, 0, len(profile)+1)
	for _, hour := range profile.Hours() {
		rows = append(rows, []string{fmt.Sprintf("%02d:00", hour), kwh(profile[hour])})
	}
	rows = append(rows, []string{"Total", kwh(profile.Total())})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s forecast for %s", estimate.Description(), date)))
	fmt.Fprintln(out, renderTable([]string{"Hour", "kWh"}, rows, 1))
	return nil
}

func runForecastCompare(cmd *cobra.Command, args []string) error {
	if err := requireService(forecastService != nil, "forecast"); err != nil {
		return err
	}

	cmp, err := forecastService.Compare(cmd.Context(), dateArg(args))
	if err != nil {
		return fmt.Errorf("forecast comparison failed: %w", err)
	}

	if forecastJSON {
		return printJSON(cmd, cmp)
	}

	if len(cmp.Hours) == 0 {
		cmd.Printf("No forecast for %s.\n", cmp.Date)
		return nil
	}

	rows := make([][]string, 0, len(cmp.Hours)+1)
	for _, h := range cmp.Hours {
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", h.Hour),
			kwh(h.Forecast), kwh(h.Worst), kwh(h.Best), kwh(h.Real),
		})
	}
	forecast, actual := cmp.Totals()
	rows = append(rows, []string{"Total", kwh(forecast), "", "", kwh(actual)})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Production "+cmp.Date))
	fmt.Fprintln(out, renderTable([]string{"Hour", "Forecast", "Worst", "Best", "Real"}, rows, 1, 2, 3, 4))
	return nil
}

func runForecastHistory(cmd *cobra.Command, _ []string) error {
	if err := requireService(forecastService != nil, "forecast"); err != nil {
		return err
	}

	fetches, err := forecastService.History(cmd.Context(), forecastLimit)
	if err != nil {
		return fmt.Errorf("listing fetches failed: %w", err)
	}
	if len(fetches) == 0 {
		cmd.Println("No forecasts fetched yet.")
		return nil
	}

	rows := make([][]string, len(fetches))
	for i, f := range fetches {
		rows[i] = []string{f.FetchedAt.Local().Format(time.DateTime), f.SiteID, f.ID}
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Fetched", "Site", "ID"}, rows))
	return nil
}

func runForecastPrune(cmd *cobra.Command, _ []string) error {
	if err := requireService(forecastService != nil, "forecast"); err != nil {
		return err
	}

	removed, err := forecastService.Prune(cmd.Context())
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}
	cmd.Printf("Removed %d periods.\n", removed)
	return nil
}
