// classifier.go — priority-ordered pattern classification of raw blocks.
package stream

import (
	"regexp"
	"strings"
)

// Wire-contract delimiters. These must match the agent backend byte-for-byte.
const (
	ExecOpenTag      = "<execute>"
	ExecCloseTag     = "</execute>"
	ObsOpenTag       = "<observation>"
	ObsCloseTag      = "</observation>"
	SolutionOpenTag  = "<solution>"
	SolutionCloseTag = "</solution>"

	// FinalProtocolMarker is the distinguished heading some final answers
	// carry instead of solution tags.
	FinalProtocolMarker = "FINAL PROTOCOL"

	// ReasoningMarker opens a reasoning block.
	ReasoningMarker = "**Reasoning:**"

	// AIMessageMarker appears inside the banner line that separates agent
	// turns in a persisted log.
	AIMessageMarker = "Ai Message"
)

// chartSignature maps a charting library to the textual markers that betray
// its use inside an execute block.
type chartSignature struct {
	library string
	markers []string
}

var chartSignatures = []chartSignature{
	{library: "matplotlib", markers: []string{"matplotlib", "plt."}},
	{library: "plotly", markers: []string{"plotly"}},
	{library: "seaborn", markers: []string{"seaborn", "sns."}},
}

var (
	// planHeadingRe matches plan/checklist headings, optionally bold-wrapped.
	planHeadingRe = regexp.MustCompile(`(?i)\*{0,2}(plan|checklist|steps|todo):`)

	// stepMarkerRe matches numbered "Step N:" prose markers.
	stepMarkerRe = regexp.MustCompile(`\bStep \d+:`)

	// checklistLineRe matches "<N>. [<mark>] <text>" checklist lines. The
	// three mark variants (space / ✓ / ✗) are part of the wire contract.
	checklistLineRe = regexp.MustCompile(`(?m)^\s*(\d+)\.\s*\[( |✓|✗)\]\s*(.+)$`)
)

var errorKeywords = []string{"Error:", "Failed:", "Invalid", "cannot proceed"}

// Classify assigns a single category to a raw block. First match wins;
// identical input always yields the identical category.
func Classify(block string) Category {
	switch {
	case strings.Contains(block, SolutionCloseTag) || strings.Contains(block, FinalProtocolMarker):
		return CategoryFinalAnswer
	case strings.Contains(block, ExecOpenTag) && hasChartSignature(block):
		return CategoryVisualization
	case strings.Contains(block, ExecOpenTag):
		return CategoryToolCall
	case strings.Contains(block, ObsOpenTag):
		return CategoryObservation
	case strings.Contains(block, ReasoningMarker):
		return CategoryReasoning
	case planHeadingRe.MatchString(block) || stepMarkerRe.MatchString(block) || checklistLineRe.MatchString(block):
		return CategoryPlanning
	case hasErrorKeyword(block):
		return CategoryError
	default:
		return CategoryStatus
	}
}

func hasChartSignature(block string) bool {
	_, ok := detectChartLibrary(block)
	return ok
}

// detectChartLibrary returns the first known charting library referenced by
// the block, in signature order.
func detectChartLibrary(block string) (string, bool) {
	for _, sig := range chartSignatures {
		for _, marker := range sig.markers {
			if strings.Contains(block, marker) {
				return sig.library, true
			}
		}
	}
	return "", false
}

func hasErrorKeyword(block string) bool {
	for _, kw := range errorKeywords {
		if strings.Contains(block, kw) {
			return true
		}
	}
	return false
}
