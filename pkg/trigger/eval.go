package trigger

import (
	"strconv"
	"strings"
)

// IsConditionMet evaluates a single condition against the world view.
// Unknown condition types evaluate false.
func IsConditionMet(c Condition, world WorldView, ctx *Context) bool {
	switch c.Type {
	case ConditionImmediate:
		return true

	case ConditionLocation:
		q, r, ok := parseCoordinate(c.Target)
		if !ok {
			// Malformed coordinates never trigger; they are an
			// authoring mistake, not a runtime fault.
			return false
		}
		return world.TileStatus(q, r) == TileStatusExplored

	case ConditionFeature:
		return world.FeatureInteracted(c.Target)

	case ConditionObjective:
		return world.ObjectiveStatus(c.Target) == ObjectiveStatusCompleted

	case ConditionResource:
		threshold := 0.0
		if c.Threshold != nil {
			threshold = *c.Threshold
		}
		return world.ResourceAmount(c.Target) >= threshold

	case ConditionCustom:
		if ctx == nil || ctx.EvaluateCustom == nil {
			return false
		}
		return ctx.EvaluateCustom(c)

	default:
		return false
	}
}

// AllConditionsMet reports whether every condition in the set is met.
// An empty set is NOT met: a condition set must be non-empty to ever
// trigger, so content with no conditions cannot fire by accident.
func AllConditionsMet(conds []Condition, world WorldView, ctx *Context) bool {
	if len(conds) == 0 {
		return false
	}
	for _, c := range conds {
		if !IsConditionMet(c, world, ctx) {
			return false
		}
	}
	return true
}

// parseCoordinate splits a "q,r" location target into axial coordinates.
func parseCoordinate(target string) (q, r int, ok bool) {
	parts := strings.Split(target, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	r, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return q, r, true
}
