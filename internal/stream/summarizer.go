// summarizer.go — bounded human-readable content labels per category.
package stream

import (
	"fmt"
	"strings"

	"github.com/bio-agent/go-bridge-v2/pkg/util"
)

// DefaultSummaryLimit bounds Event.Content length in runes.
const DefaultSummaryLimit = 200

// defaultToolName labels execute blocks that reference no importable tool.
const defaultToolName = "python"

// finalAnswerSummary is the fixed completion phrase for final answers.
const finalAnswerSummary = "Final protocol generated"

// Summarize produces the bounded content string for a classified block.
// Malformed input falls back to raw truncation; it never fails.
func Summarize(category Category, block string, meta *Metadata, limit int) string {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}
	switch category {
	case CategoryPlanning:
		if meta != nil && len(meta.Steps) > 0 {
			return fmt.Sprintf("Creating %d-step execution plan", len(meta.Steps))
		}
	case CategoryToolCall:
		name := defaultToolName
		if meta != nil && meta.Tool != "" {
			name = meta.Tool
		}
		return util.TruncateRunes("Executing: "+name, limit)
	case CategoryFinalAnswer:
		return finalAnswerSummary
	case CategoryVisualization:
		lib := "chart"
		if meta != nil && meta.Library != "" {
			lib = meta.Library
		}
		return "Generating " + lib + " visualization"
	case CategoryReasoning:
		trimmed := strings.TrimSpace(strings.Replace(block, ReasoningMarker, "", 1))
		if trimmed != "" {
			return util.TruncateRunes(trimmed, limit)
		}
	case CategoryObservation:
		if meta != nil && meta.Observation != "" {
			return util.TruncateRunes(meta.Observation, limit)
		}
	}
	return util.TruncateRunes(strings.TrimSpace(block), limit)
}
