// router.go — display routing and priority policy.
package stream

import "strings"

// criticalMarker escalates an error event to both surfaces.
const criticalMarker = "critical"

// RouteDisplay decides which UI surface(s) consume an event. Deterministic
// in (category, content); every category resolves to a side.
func RouteDisplay(category Category, content string) DisplaySide {
	switch category {
	case CategoryFinalAnswer:
		return SideLeft
	case CategoryError:
		if strings.Contains(strings.ToLower(content), criticalMarker) {
			return SideBoth
		}
		return SideRight
	case CategoryReasoning, CategoryPlanning, CategoryToolCall, CategoryObservation:
		return SideRight
	}
	if strings.Contains(content, FinalProtocolMarker) {
		return SideLeft
	}
	return SideRight
}

// routePriority: final answers are high, critical errors are high,
// everything else medium.
func routePriority(category Category, side DisplaySide) Priority {
	if category == CategoryFinalAnswer {
		return PriorityHigh
	}
	if category == CategoryError && side == SideBoth {
		return PriorityHigh
	}
	return PriorityMedium
}
