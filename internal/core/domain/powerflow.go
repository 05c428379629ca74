package domain

// Inverter history variables used by the power flow calculation.
const (
	VariableLoad            = "loadsPower"
	VariableFeedIn          = "feedinPower"
	VariableGridConsumption = "gridConsumptionPower"
	VariableDischarge       = "batDischargePower"
	VariableCharge          = "batChargePower"
	VariablePV              = "pvPower"
	VariableOutput          = "generationPower"
)

// PowerFlowVariables lists the variables requested for a daily power flow.
func PowerFlowVariables() []string {
	return []string{
		VariableLoad,
		VariableFeedIn,
		VariableGridConsumption,
		VariableDischarge,
		VariableCharge,
		VariablePV,
		VariableOutput,
	}
}

// EnergyTotals holds the integrated energy of each variable for one day, in kWh.
type EnergyTotals struct {
	PV              float64
	FeedIn          float64
	GridConsumption float64
	Discharge       float64
	Charge          float64
	Load            float64
	Output          float64
}

// Set stores the total for the given variable. Unknown variables are ignored.
func (t *EnergyTotals) Set(variable string, kwh float64) {
	switch variable {
	case VariablePV:
		t.PV = kwh
	case VariableFeedIn:
		t.FeedIn = kwh
	case VariableGridConsumption:
		t.GridConsumption = kwh
	case VariableDischarge:
		t.Discharge = kwh
	case VariableCharge:
		t.Charge = kwh
	case VariableLoad:
		t.Load = kwh
	case VariableOutput:
		t.Output = kwh
	}
}

// PowerFlow is the balanced daily energy flow derived from EnergyTotals.
type PowerFlow struct {
	// Measured holds the totals as integrated from the inverter history.
	Measured EnergyTotals

	// PV is the corrected PV production after removing conversion losses.
	PV float64

	// PVAutoConsume is PV energy consumed directly by the house.
	PVAutoConsume float64

	// CalculatedLoad is the house load implied by the flow sources.
	CalculatedLoad float64

	// PVWaste is the PV-side loss: PV + discharge - charge - inverter output.
	PVWaste float64

	// GridWaste is the grid-side mismatch between load and its sources.
	GridWaste float64

	// DeltaLoad is CalculatedLoad minus the measured load.
	DeltaLoad float64
}

// ComputePowerFlow balances the measured totals into a power flow.
func ComputePowerFlow(m EnergyTotals) PowerFlow {
	pvWaste := m.PV + m.Discharge - m.Charge - m.Output
	gridWaste := m.Load - m.Output - m.GridConsumption + m.FeedIn
	pv := Round3(m.PV - pvWaste + gridWaste)

	autoConsume := pv - m.Charge - m.FeedIn
	calculatedLoad := autoConsume + m.Discharge + m.GridConsumption

	return PowerFlow{
		Measured:       m,
		PV:             pv,
		PVAutoConsume:  Round3(autoConsume),
		CalculatedLoad: Round3(calculatedLoad),
		PVWaste:        Round3(pvWaste),
		GridWaste:      Round3(gridWaste),
		DeltaLoad:      Round3(calculatedLoad - m.Load),
	}
}

// CalculatedData returns the flow keyed by the display names clients expect.
func (f PowerFlow) CalculatedData() map[string]float64 {
	return map[string]float64{
		"PVPower":               f.PV,
		"Feed-in Power":         f.Measured.FeedIn,
		"GridConsumption Power": f.Measured.GridConsumption,
		"Discharge Power":       f.Measured.Discharge,
		"Charge Power":          f.Measured.Charge,
		"Load Power":            f.Measured.Load,
		"Output Power":          f.Measured.Output,
		"PV Auto Consume Power": f.PVAutoConsume,
		"Calculated Load Power": f.CalculatedLoad,
		"PV Waste Power":        f.PVWaste,
		"Grid Waste Power":      f.GridWaste,
		"Delta Load Power":      f.DeltaLoad,
	}
}
