// Package replay re-derives classified events from a persisted, already
// terminated session log. Segmentation is line-driven; every segment goes
// through the same pipeline the live stream uses, so online and offline
// consumers see identical event shapes.
package replay

import (
	"strings"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
)

// Parse segments logText and classifies each block through p. A nil
// pipeline gets a private one.
func Parse(logText string, p *stream.Pipeline) []stream.Event {
	if p == nil {
		p = stream.NewPipeline(nil, 0)
	}
	var events []stream.Event
	for _, block := range Segment(logText) {
		events = append(events, p.Process(block)...)
	}
	return events
}

// Segment splits a terminated log into raw blocks. Boundaries are the
// agent-turn banner line (dropped, it is pure decoration) and the
// execute / observation / solution tag pairs. An open tag closes whatever
// prose block precedes it; its close tag ends the block inclusively. A
// missing close tag flushes the remainder as-is.
func Segment(logText string) []string {
	var (
		blocks   []string
		cur      []string
		closeTag string
	)
	flush := func() {
		block := strings.TrimSpace(strings.Join(cur, "\n"))
		cur = cur[:0]
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	for _, line := range strings.Split(logText, "\n") {
		if closeTag != "" {
			cur = append(cur, line)
			if strings.Contains(line, closeTag) {
				flush()
				closeTag = ""
			}
			continue
		}
		if isBannerLine(line) {
			flush()
			continue
		}
		if tag := openedTag(line); tag != "" {
			flush()
			cur = append(cur, line)
			if strings.Contains(line, tag) {
				// open and close on the same line
				flush()
			} else {
				closeTag = tag
			}
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

// isBannerLine detects the "=== Ai Message ===" style turn separator.
func isBannerLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.Contains(trimmed, stream.AIMessageMarker) && strings.HasPrefix(trimmed, "=")
}

// openedTag returns the close tag matching an open delimiter on this line,
// or "" when the line opens nothing.
func openedTag(line string) string {
	switch {
	case strings.Contains(line, stream.ExecOpenTag):
		return stream.ExecCloseTag
	case strings.Contains(line, stream.ObsOpenTag):
		return stream.ObsCloseTag
	case strings.Contains(line, stream.SolutionOpenTag):
		return stream.SolutionCloseTag
	}
	return ""
}
