package workflow

import "fmt"

// NodeType is the closed set of node kinds the interpreter understands.
// Anything else in a definition is a validation error, never silently
// skipped.
type NodeType string

const (
	NodeUserQuery     NodeType = "UserQuery"
	NodeKnowledgeBase NodeType = "KnowledgeBase"
	NodeLLMEngine     NodeType = "LLMEngine"
	NodeOutput        NodeType = "Output"
)

func (t NodeType) known() bool {
	switch t {
	case NodeUserQuery, NodeKnowledgeBase, NodeLLMEngine, NodeOutput:
		return true
	}
	return false
}

type Node struct {
	ID     string
	Type   NodeType
	Config map[string]any
}

type Edge struct {
	Source string
	Target string
}

// Graph is an immutable workflow definition, constructed once per execution
// request.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Definition mirrors the JSON the canvas UI produces:
// {nodes: [{id, type, data:{config}}], edges: [{id, source, target}]}.
type Definition struct {
	Nodes []DefinitionNode `json:"nodes"`
	Edges []DefinitionEdge `json:"edges"`
}

type DefinitionNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Config map[string]any `json:"config"`
	} `json:"data"`
}

type DefinitionEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ValidationError marks a structurally invalid graph. It is surfaced to the
// caller verbatim and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid workflow: " + e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// FromDefinition converts the wire shape into a Graph, rejecting unknown
// node types up front.
func FromDefinition(def Definition) (*Graph, error) {
	g := &Graph{
		Nodes: make([]Node, 0, len(def.Nodes)),
		Edges: make([]Edge, 0, len(def.Edges)),
	}
	for _, n := range def.Nodes {
		t := NodeType(n.Type)
		if !t.known() {
			return nil, validationErrorf("unknown node type %q on node %q", n.Type, n.ID)
		}
		g.Nodes = append(g.Nodes, Node{ID: n.ID, Type: t, Config: n.Data.Config})
	}
	for _, e := range def.Edges {
		g.Edges = append(g.Edges, Edge{Source: e.Source, Target: e.Target})
	}
	return g, nil
}

// Validate checks the structural invariants before any provider call: at
// least one node, a UserQuery entry node, unique ids, known types, and edge
// endpoints that exist.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return validationErrorf("workflow has no nodes")
	}
	ids := make(map[string]bool, len(g.Nodes))
	hasEntry := false
	for _, n := range g.Nodes {
		if !n.Type.known() {
			return validationErrorf("unknown node type %q on node %q", string(n.Type), n.ID)
		}
		if ids[n.ID] {
			return validationErrorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
		if n.Type == NodeUserQuery {
			hasEntry = true
		}
	}
	if !hasEntry {
		return validationErrorf("missing entry node: workflow needs a UserQuery node")
	}
	for _, e := range g.Edges {
		if !ids[e.Source] {
			return validationErrorf("edge references unknown source node %q", e.Source)
		}
		if !ids[e.Target] {
			return validationErrorf("edge references unknown target node %q", e.Target)
		}
	}
	return nil
}
