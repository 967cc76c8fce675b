package trigger

// ConditionType discriminates the kinds of trigger conditions that can
// gate a tutorial or dialog.
type ConditionType string

const (
	// ConditionImmediate is always satisfied.
	ConditionImmediate ConditionType = "immediate"
	// ConditionLocation is satisfied when the tile named by Target
	// (a "q,r" coordinate pair) has been explored.
	ConditionLocation ConditionType = "location"
	// ConditionFeature is satisfied when the named feature has been
	// interacted with.
	ConditionFeature ConditionType = "feature"
	// ConditionObjective is satisfied when the named objective is completed.
	ConditionObjective ConditionType = "objective"
	// ConditionResource is satisfied when the named resource's amount is
	// at least Threshold.
	ConditionResource ConditionType = "resource"
	// ConditionCustom delegates to a caller-supplied evaluator.
	ConditionCustom ConditionType = "custom"
)

// Condition is a single predicate over game state. Conditions are pure:
// evaluating one never mutates anything.
type Condition struct {
	Type        ConditionType `json:"type"`
	Target      string        `json:"target,omitempty"`      // location coordinate, feature/objective/resource ID
	Threshold   *float64      `json:"threshold,omitempty"`   // resource conditions; nil means 0
	Description string        `json:"description,omitempty"` // human-readable, for authoring tools
}

// ObjectiveStatusCompleted is the objective status that satisfies an
// objective condition.
const ObjectiveStatusCompleted = "completed"

// TileStatusExplored is the exploration status that satisfies a
// location condition.
const TileStatusExplored = "explored"

// WorldView provides the minimal read-only interface needed to evaluate
// conditions. This avoids coupling the evaluator to the world, resource
// and objective stores' own packages.
type WorldView interface {
	// TileStatus returns the exploration status of the tile at axial
	// coordinates q,r. Unknown tiles return an empty string.
	TileStatus(q, r int) string
	// FeatureInteracted reports whether the named feature is in the
	// interacted set.
	FeatureInteracted(id string) bool
	// ObjectiveStatus returns the status of the named objective, or an
	// empty string if there is no such objective.
	ObjectiveStatus(id string) string
	// ResourceAmount returns the current amount of the named resource.
	// Unknown resources return 0.
	ResourceAmount(id string) float64
}

// Context carries optional caller-supplied hooks for condition evaluation.
// A nil Context behaves like a zero one.
type Context struct {
	// EvaluateCustom handles conditions of type custom. When nil, custom
	// conditions evaluate false.
	EvaluateCustom func(c Condition) bool
}
