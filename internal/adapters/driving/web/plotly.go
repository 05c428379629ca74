package web

import "github.com/custodia-labs/pvflow/internal/core/domain"

// Plotly figure fragments for a Sankey trace. Field names follow the
// Plotly JSON schema so the page can pass them to Plotly.newPlot unchanged.

type plotlyLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type plotlyNode struct {
	Pad       int        `json:"pad"`
	Thickness int        `json:"thickness"`
	Line      plotlyLine `json:"line"`
	Label     []string   `json:"label"`
	Color     []string   `json:"color"`
	X         []float64  `json:"x"`
	Y         []float64  `json:"y"`
}

type plotlyLink struct {
	Source []int     `json:"source"`
	Target []int     `json:"target"`
	Value  []float64 `json:"value"`
}

type plotlyTrace struct {
	Type string     `json:"type"`
	Node plotlyNode `json:"node"`
	Link plotlyLink `json:"link"`
}

type plotlyTitle struct {
	Text string `json:"text"`
}

type plotlyFont struct {
	Size int `json:"size"`
}

type plotlyLayout struct {
	Title    plotlyTitle `json:"title"`
	Font     plotlyFont  `json:"font"`
	Height   int         `json:"height"`
	Autosize bool        `json:"autosize"`
}

// sankeyFigure converts a diagram into a Plotly trace and layout.
func sankeyFigure(d domain.SankeyDiagram) ([]plotlyTrace, plotlyLayout) {
	node := plotlyNode{
		Pad:       25,
		Thickness: 20,
		Line:      plotlyLine{Color: "black", Width: 0.5},
		Label:     d.Labels(),
	}
	for _, n := range d.Nodes {
		node.Color = append(node.Color, n.Color)
		node.X = append(node.X, n.X)
		node.Y = append(node.Y, n.Y)
	}

	var link plotlyLink
	for _, l := range d.Links {
		link.Source = append(link.Source, l.Source)
		link.Target = append(link.Target, l.Target)
		link.Value = append(link.Value, l.Value)
	}

	layout := plotlyLayout{
		Title:    plotlyTitle{Text: d.Title},
		Font:     plotlyFont{Size: 12},
		Height:   d.Height,
		Autosize: true,
	}
	return []plotlyTrace{{Type: "sankey", Node: node, Link: link}}, layout
}
