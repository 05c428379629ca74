package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSankey(t *testing.T) {
	d := BuildSankey(ComputePowerFlow(sampleTotals()), "2024-05-01")

	assert.Equal(t, "Power Flow Diagram (2024-05-01)", d.Title)
	assert.Equal(t, 600, d.Height)
	require.Len(t, d.Nodes, 7)
	require.Len(t, d.Links, 6)

	assert.Equal(t, "PV Power", d.Nodes[NodePV].Label)
	assert.Equal(t, "Feed-in Power", d.Nodes[NodeFeedIn].Label)

	assert.Equal(t, SankeyLink{Source: NodePV, Target: NodeAutoConsume, Value: 10}, d.Links[0])
	assert.Equal(t, SankeyLink{Source: NodeGrid, Target: NodeLoad, Value: 3}, d.Links[5])
}

func TestSankeyDiagram_Labels(t *testing.T) {
	d := BuildSankey(ComputePowerFlow(sampleTotals()), "2024-05-01")

	labels := d.Labels()

	assert.Equal(t, "PV Power: 19.000", labels[NodePV])
	assert.Equal(t, "Calculated Load Power: 15.000", labels[NodeLoad])
	assert.Equal(t, "Charge Power: 4.000", labels[NodeCharge])
}
