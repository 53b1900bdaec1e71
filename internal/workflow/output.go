package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"genstack/internal/retriever"
)

type sourceRef struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

type runMetadata struct {
	Model     string `json:"model"`
	Chunks    int    `json:"chunks"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// renderOutput applies the Output node's format to the accumulated context.
// Formats: "text" (default), "json" envelope, "markdown".
func renderOutput(node Node, exec Context) string {
	answer, _ := exec[ctxFinalResponse].(string)
	if answer == "" {
		answer = "No response generated"
	}
	format := stringOption(node.Config, "format", "text")
	includeSources := boolOption(node.Config, "includeSources", true)
	includeMetadata := boolOption(node.Config, "includeMetadata", false)

	matches, _ := exec[ctxSources].([]retriever.Match)
	sources := make([]sourceRef, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, sourceRef{Source: m.Source, Score: m.Score})
	}
	meta := collectMetadata(exec, len(matches))

	switch format {
	case "json":
		envelope := map[string]any{"answer": answer}
		if includeSources {
			envelope["sources"] = sources
		}
		if includeMetadata {
			envelope["metadata"] = meta
		}
		out, err := json.Marshal(envelope)
		if err != nil {
			return answer
		}
		return string(out)
	case "markdown":
		var sb strings.Builder
		sb.WriteString("## Answer\n\n")
		sb.WriteString(answer)
		if includeSources && len(sources) > 0 {
			sb.WriteString("\n\n### Sources\n")
			for _, s := range sources {
				sb.WriteString(fmt.Sprintf("- %s (similarity: %.2f)\n", s.Source, s.Score))
			}
		}
		if includeMetadata {
			sb.WriteString("\n### Metadata\n")
			sb.WriteString(fmt.Sprintf("- model: %s\n- chunks: %d\n- elapsed_ms: %d\n", meta.Model, meta.Chunks, meta.ElapsedMS))
		}
		return sb.String()
	default:
		var sb strings.Builder
		sb.WriteString(answer)
		if includeSources && len(sources) > 0 {
			sb.WriteString("\n\nSources:")
			for i, s := range sources {
				sb.WriteString(fmt.Sprintf("\n%d. %s (similarity: %.2f)", i+1, s.Source, s.Score))
			}
		}
		if includeMetadata {
			sb.WriteString(fmt.Sprintf("\n\n[model: %s | chunks: %d | elapsed_ms: %d]", meta.Model, meta.Chunks, meta.ElapsedMS))
		}
		return sb.String()
	}
}

func collectMetadata(exec Context, chunks int) runMetadata {
	model, _ := exec[ctxModelUsed].(string)
	meta := runMetadata{Model: model, Chunks: chunks}
	if started, ok := exec[ctxStartedAt].(time.Time); ok {
		meta.ElapsedMS = time.Since(started).Milliseconds()
	}
	return meta
}
