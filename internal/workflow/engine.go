package workflow

import (
	"context"
	"log"
	"strings"
	"time"

	"genstack/internal/providers"
	"genstack/internal/retriever"
)

// Context is the mutable key-value carrier threaded through node execution.
// It is created fresh per run and discarded afterwards; user_query is seeded
// before the first node runs and never cleared.
type Context map[string]any

const (
	ctxUserQuery        = "user_query"
	ctxQueryLabel       = "query_label"
	ctxQueryPlaceholder = "query_placeholder"
	ctxCustomPrompt     = "custom_prompt"
	ctxRetrievedContext = "retrieved_context"
	ctxSources          = "sources"
	ctxFinalResponse    = "final_response"
	ctxModelUsed        = "model_used"
	ctxStartedAt        = "started_at"
)

const (
	defaultSimilarityThreshold = 0.3
	defaultMaxResults          = 5
	defaultTemperature         = 0.7
	defaultMaxTokens           = 2048
)

// Engine interprets workflow graphs. Provider trouble degrades inside the
// chains; Execute fails only on structural validation or a broken index.
type Engine struct {
	retriever *retriever.Retriever
	generator *providers.GenerationChain
}

func NewEngine(r *retriever.Retriever, g *providers.GenerationChain) *Engine {
	return &Engine{retriever: r, generator: g}
}

// Execute validates the graph, derives the execution order, and threads a
// fresh context through each node. The returned string is the Output node's
// formatted answer, or the raw generation result when the graph carries no
// Output node.
func (e *Engine) Execute(ctx context.Context, g *Graph, query, customPrompt string) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}

	exec := Context{
		ctxUserQuery:    query,
		ctxCustomPrompt: customPrompt,
		ctxStartedAt:    time.Now(),
	}

	final := ""
	for _, idx := range g.executionOrder() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		node := g.Nodes[idx]
		log.Printf("workflow node=%s type=%s", node.ID, node.Type)
		switch node.Type {
		case NodeUserQuery:
			e.runUserQuery(node, exec)
		case NodeKnowledgeBase:
			e.runKnowledgeBase(ctx, node, exec)
		case NodeLLMEngine:
			e.runLLMEngine(ctx, node, exec)
		case NodeOutput:
			final = renderOutput(node, exec)
		}
	}
	if final == "" {
		final, _ = exec[ctxFinalResponse].(string)
	}
	return final, nil
}

// runUserQuery seeds the entry context. Label and placeholder are display
// configuration with no execution effect beyond being recorded.
func (e *Engine) runUserQuery(node Node, exec Context) {
	exec[ctxQueryLabel] = stringOption(node.Config, "label", "User Query")
	exec[ctxQueryPlaceholder] = stringOption(node.Config, "placeholder", "")
}

// runKnowledgeBase retrieves relevant chunks for the current query. Zero
// matches (strict threshold, empty selection) is a normal outcome and leaves
// retrieved_context empty. An index failure is absorbed the same way: the
// workflow continues ungrounded rather than aborting.
func (e *Engine) runKnowledgeBase(ctx context.Context, node Node, exec Context) {
	query, _ := exec[ctxUserQuery].(string)
	threshold := floatOption(node.Config, "similarityThreshold", defaultSimilarityThreshold)
	maxResults := intOption(node.Config, "maxResults", defaultMaxResults)
	selected := stringSliceOption(node.Config, "selectedDocuments")

	matches, err := e.retriever.Retrieve(ctx, query, maxResults, threshold, selected)
	if err != nil {
		log.Printf("knowledge base retrieval failed node=%s err=%v", node.ID, err)
		exec[ctxRetrievedContext] = ""
		return
	}
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	exec[ctxRetrievedContext] = strings.Join(texts, "\n\n")
	exec[ctxSources] = matches
}

// runLLMEngine composes the prompt and calls the generation chain. The
// chain's stub fallback guarantees final_response is always set.
func (e *Engine) runLLMEngine(ctx context.Context, node Node, exec Context) {
	query, _ := exec[ctxUserQuery].(string)
	retrieved, _ := exec[ctxRetrievedContext].(string)

	instruction := stringOption(node.Config, "customPrompt", "")
	if callerPrompt, _ := exec[ctxCustomPrompt].(string); callerPrompt != "" {
		// A caller-supplied instruction outranks the node's configured one.
		instruction = callerPrompt
	}

	prompt := composePrompt(retrieved, query, instruction)
	text, info := e.generator.Generate(ctx, providers.GenerateRequest{
		Prompt:      prompt,
		Model:       stringOption(node.Config, "model", e.generator.DefaultModel()),
		Temperature: float32(floatOption(node.Config, "temperature", defaultTemperature)),
		MaxTokens:   intOption(node.Config, "maxTokens", defaultMaxTokens),
	})
	exec[ctxFinalResponse] = text
	exec[ctxModelUsed] = info.Model
}

// composePrompt orders the sections: retrieved context first when present,
// then the user question, then any custom instruction.
func composePrompt(retrieved, query, instruction string) string {
	parts := make([]string, 0, 3)
	if retrieved != "" {
		parts = append(parts, "Context from documents:\n"+retrieved)
	}
	parts = append(parts, "User Question: "+query)
	if instruction != "" {
		parts = append(parts, "Instructions: "+instruction)
	}
	return strings.Join(parts, "\n\n")
}
