package domain

import "fmt"

// SankeyNode is one node of a power flow diagram.
type SankeyNode struct {
	Label string
	Value float64
	Color string
	X     float64
	Y     float64
}

// SankeyLink connects two nodes by index.
type SankeyLink struct {
	Source int
	Target int
	Value  float64
}

// SankeyDiagram is a renderer-neutral description of a daily power flow.
type SankeyDiagram struct {
	Title  string
	Height int
	Nodes  []SankeyNode
	Links  []SankeyLink
}

// Node indices in a power flow diagram.
const (
	NodePV = iota
	NodeGrid
	NodeDischarge
	NodeLoad
	NodeAutoConsume
	NodeCharge
	NodeFeedIn
)

// BuildSankey lays out the power flow for the given date.
func BuildSankey(f PowerFlow, date string) SankeyDiagram {
	m := f.Measured
	nodes := []SankeyNode{
		NodePV:          {Label: "PV Power", Value: f.PV, Color: "#2ca02c", X: 0.01, Y: 0.3},
		NodeGrid:        {Label: "Grid Consumption", Value: m.GridConsumption, Color: "#d62728", X: 0.4, Y: 0.05},
		NodeDischarge:   {Label: "Discharge Power", Value: m.Discharge, Color: "#ff7f0e", X: 0.4, Y: 0.3},
		NodeLoad:        {Label: "Calculated Load Power", Value: f.CalculatedLoad, Color: "#1f77b4", X: 0.99, Y: 0.4},
		NodeAutoConsume: {Label: "PV Auto Consume Power", Value: f.PVAutoConsume, Color: "#9467bd", X: 0.4, Y: 0.55},
		NodeCharge:      {Label: "Charge Power", Value: m.Charge, Color: "#8c564b", X: 0.4, Y: 0.8},
		NodeFeedIn:      {Label: "Feed-in Power", Value: m.FeedIn, Color: "#e377c2", X: 0.4, Y: 1},
	}

	links := []SankeyLink{
		{Source: NodePV, Target: NodeAutoConsume, Value: f.PVAutoConsume},
		{Source: NodePV, Target: NodeCharge, Value: m.Charge},
		{Source: NodePV, Target: NodeFeedIn, Value: m.FeedIn},
		{Source: NodeAutoConsume, Target: NodeLoad, Value: f.PVAutoConsume},
		{Source: NodeDischarge, Target: NodeLoad, Value: m.Discharge},
		{Source: NodeGrid, Target: NodeLoad, Value: m.GridConsumption},
	}

	return SankeyDiagram{
		Title:  fmt.Sprintf("Power Flow Diagram (%s)", date),
		Height: 600,
		Nodes:  nodes,
		Links:  links,
	}
}

// Labels returns node labels with their values, e.g. "PV Power: 12.345".
func (d SankeyDiagram) Labels() []string {
	labels := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		labels[i] = fmt.Sprintf("%s: %.3f", n.Label, n.Value)
	}
	return labels
}
