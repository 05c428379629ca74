package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
)

var powerFlowJSON bool

var powerFlowCmd = &cobra.Command{
	Use:   "powerflow <YYYY-MM-DD>",
	Short: "Show the power flow of a day",
	Long: `Integrates the inverter power history of a day into energy totals and
balances them into a power flow: how much PV energy was consumed directly,
stored in the battery or fed into the grid, and where the house load came
from.`,
	Args: cobra.ExactArgs(1),
	RunE: runPowerFlow,
}

func init() {
	powerFlowCmd.Flags().BoolVar(&powerFlowJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(powerFlowCmd)
}

// calculatedDataOrder lists the power flow keys in display order.
var calculatedDataOrder = []string{
	"PVPower",
	"PV Auto Consume Power",
	"Charge Power",
	"Feed-in Power",
	"Discharge Power",
	"GridConsumption Power",
	"Load Power",
	"Calculated Load Power",
	"Output Power",
	"PV Waste Power",
	"Grid Waste Power",
	"Delta Load Power",
}

func runPowerFlow(cmd *cobra.Command, args []string) error {
	if err := requireService(powerFlowService != nil, "power flow"); err != nil {
		return err
	}

	result, err := powerFlowService.PowerFlow(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("power flow failed: %w", err)
	}

	if powerFlowJSON {
		return printJSON(cmd, map[string]any{
			"date":            result.Date,
			"calculated_data": result.Flow.CalculatedData(),
		})
	}

	outputPowerFlow(cmd, result)
	return nil
}

func outputPowerFlow(cmd *cobra.Command, result *driving.PowerFlowResult) {
	data := result.Flow.CalculatedData()
	rows := make([][]string, 0, len(calculatedDataOrder))
	for _, key := range calculatedDataOrder {
		rows = append(rows, []string{key, kwh(data[key])})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(result.Diagram.Title))
	fmt.Fprintln(out, renderTable([]string{"Flow", "kWh"}, rows, 1))

	nodes := result.Diagram.Nodes
	fmt.Fprintln(out)
	for _, l := range result.Diagram.Links {
		fmt.Fprintf(out, "  %-22s -> %-22s %s kWh\n", nodes[l.Source].Label, nodes[l.Target].Label, kwh(l.Value))
	}
}
