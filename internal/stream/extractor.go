// extractor.go — per-category structured field extraction.
package stream

import (
	"fmt"
	"regexp"
	"strings"
)

// scriptLanguage is the agent's scripting language; every execute block
// carries it as the language tag.
const scriptLanguage = "python"

var (
	// importRe matches import-style statements; the imported name is the
	// tool identifier ("from pkg import tool" → tool, "import tool" → tool).
	importRe = regexp.MustCompile(`(?m)^\s*(?:from\s+[A-Za-z_][\w.]*\s+import\s+([A-Za-z_]\w*)|import\s+([A-Za-z_][\w.]*))`)

	// observation bodies containing these markers are flagged has_errors.
	obsErrorMarkers = []string{"Error:", "Traceback", "ModuleNotFoundError", "ImportError", "Failed"}
)

// ExtractMetadata pulls the category-specific fields out of a block. It is
// derived from the block alone, never from cross-block state. Missing
// delimiters leave fields unset; extraction never fails.
func ExtractMetadata(category Category, block string) *Metadata {
	switch category {
	case CategoryToolCall:
		return extractToolCall(block)
	case CategoryVisualization:
		return extractVisualization(block)
	case CategoryPlanning:
		return extractPlanning(block)
	case CategoryObservation:
		return extractObservation(block)
	case CategoryFinalAnswer:
		return extractFinalAnswer(block)
	default:
		// reasoning / error / status carry no extracted metadata
		return nil
	}
}

func extractToolCall(block string) *Metadata {
	meta := &Metadata{Language: scriptLanguage}
	if code, ok := between(block, ExecOpenTag, ExecCloseTag); ok {
		meta.Code = strings.TrimSpace(code)
	}
	if m := importRe.FindStringSubmatch(block); m != nil {
		if m[1] != "" {
			meta.Tool = m[1]
		} else {
			meta.Tool = m[2]
		}
	}
	return meta
}

func extractVisualization(block string) *Metadata {
	meta := &Metadata{ProducesImage: true}
	if lib, ok := detectChartLibrary(block); ok {
		meta.Library = lib
	}
	return meta
}

func extractPlanning(block string) *Metadata {
	matches := checklistLineRe.FindAllStringSubmatch(block, -1)
	if len(matches) == 0 {
		return nil
	}
	steps := make([]PlanStep, 0, len(matches))
	for _, m := range matches {
		number := len(steps) + 1
		// the numbered prefix is informational; ordering follows line order
		fmt.Sscanf(m[1], "%d", &number)
		steps = append(steps, PlanStep{
			ID:        fmt.Sprintf("step-%d", number),
			Number:    number,
			Text:      strings.TrimSpace(m[3]),
			Completed: m[2] == "✓",
			Failed:    m[2] == "✗",
			Source:    "stream",
		})
	}
	return &Metadata{Steps: steps}
}

func extractObservation(block string) *Metadata {
	body, ok := between(block, ObsOpenTag, ObsCloseTag)
	if !ok {
		return nil
	}
	meta := &Metadata{Observation: strings.TrimSpace(body)}
	for _, marker := range obsErrorMarkers {
		if strings.Contains(meta.Observation, marker) {
			meta.HasErrors = true
			break
		}
	}
	return meta
}

func extractFinalAnswer(block string) *Metadata {
	if body, ok := between(block, SolutionOpenTag, SolutionCloseTag); ok {
		return &Metadata{Solution: strings.TrimSpace(body)}
	}
	// streamed tails may carry only the closing tag; everything before it
	// is the solution body
	if idx := strings.Index(block, SolutionCloseTag); idx >= 0 {
		body := strings.TrimSpace(block[:idx])
		if body != "" {
			return &Metadata{Solution: body}
		}
		return nil
	}
	if strings.Contains(block, FinalProtocolMarker) {
		return &Metadata{Solution: strings.TrimSpace(block)}
	}
	return nil
}

// between returns the text between the first open tag and the first close
// tag after it. ok is false when either delimiter is missing.
func between(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
