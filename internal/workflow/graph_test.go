package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func defNode(id, typ string) DefinitionNode {
	return DefinitionNode{ID: id, Type: typ}
}

func TestValidateEmptyGraph(t *testing.T) {
	g := &Graph{}
	err := g.Validate()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Reason, "no nodes")
}

func TestValidateMissingEntryNode(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "llm", Type: NodeLLMEngine}}}
	err := g.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Reason, "missing entry node")
}

func TestValidateDanglingEdge(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "q", Type: NodeUserQuery}},
		Edges: []Edge{{Source: "q", Target: "ghost"}},
	}
	err := g.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Reason, "ghost")
}

func TestValidateDuplicateNodeID(t *testing.T) {
	g := &Graph{Nodes: []Node{
		{ID: "q", Type: NodeUserQuery},
		{ID: "q", Type: NodeOutput},
	}}
	require.Error(t, g.Validate())
}

func TestFromDefinitionRejectsUnknownType(t *testing.T) {
	_, err := FromDefinition(Definition{
		Nodes: []DefinitionNode{defNode("x", "WebSearch")},
	})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Reason, "WebSearch")
}

func TestFromDefinitionKeepsConfig(t *testing.T) {
	def := Definition{
		Nodes: []DefinitionNode{defNode("q", "UserQuery"), defNode("o", "Output")},
		Edges: []DefinitionEdge{{ID: "e1", Source: "q", Target: "o"}},
	}
	def.Nodes[1].Data.Config = map[string]any{"format": "json"}
	g, err := FromDefinition(def)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	require.Equal(t, "json", g.Nodes[1].Config["format"])
	require.Equal(t, Edge{Source: "q", Target: "o"}, g.Edges[0])
}

func TestExecutionOrderFollowsEdges(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "out", Type: NodeOutput},
			{ID: "llm", Type: NodeLLMEngine},
			{ID: "q", Type: NodeUserQuery},
		},
		Edges: []Edge{
			{Source: "q", Target: "llm"},
			{Source: "llm", Target: "out"},
		},
	}
	order := g.executionOrder()
	require.Equal(t, []int{2, 1, 0}, order)
}

func TestExecutionOrderWithoutEdgesIsDeclarationOrder(t *testing.T) {
	g := &Graph{Nodes: []Node{
		{ID: "a", Type: NodeUserQuery},
		{ID: "b", Type: NodeLLMEngine},
		{ID: "c", Type: NodeOutput},
	}}
	require.Equal(t, []int{0, 1, 2}, g.executionOrder())
}

func TestExecutionOrderCycleFallsBackToDeclarationOrder(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a", Type: NodeUserQuery},
			{ID: "b", Type: NodeLLMEngine},
		},
		Edges: []Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
		},
	}
	require.Equal(t, []int{0, 1}, g.executionOrder())
}
