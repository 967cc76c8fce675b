package modal

import (
	"context"

	"github.com/ZABarton/idle-artifice-sub000/pkg/trigger"
)

// Trigger composables: thin wrappers that evaluate conditions and enqueue
// in one call. Game events flow through these rather than calling
// ShowTutorial/ShowDialog directly, so the trigger contract lives in one
// place.

// TriggerImmediateTutorials queues every tutorial gated only by
// satisfiable conditions that include an immediate condition. Called once
// after startup to surface "welcome" content.
func (m *Manager) TriggerImmediateTutorials() error {
	return m.triggerTutorials(func(c trigger.Condition) bool {
		return c.Type == trigger.ConditionImmediate
	})
}

// TriggerFeatureTutorial queues tutorials gated on the named feature,
// when their full condition sets hold.
func (m *Manager) TriggerFeatureTutorial(featureID string) error {
	return m.triggerTutorials(func(c trigger.Condition) bool {
		return c.Type == trigger.ConditionFeature && c.Target == featureID
	})
}

// TriggerLocationTutorial queues tutorials gated on the tile at the given
// "q,r" coordinate, when their full condition sets hold.
func (m *Manager) TriggerLocationTutorial(coordinate string) error {
	return m.triggerTutorials(func(c trigger.Condition) bool {
		return c.Type == trigger.ConditionLocation && c.Target == coordinate
	})
}

// TriggerObjectiveTutorial queues tutorials gated on the named objective,
// when their full condition sets hold.
func (m *Manager) TriggerObjectiveTutorial(objectiveID string) error {
	return m.triggerTutorials(func(c trigger.Condition) bool {
		return c.Type == trigger.ConditionObjective && c.Target == objectiveID
	})
}

// triggerTutorials scans the registry for tutorials with at least one
// condition matching the event, then queues those whose whole condition
// set evaluates true.
func (m *Manager) triggerTutorials(match func(trigger.Condition) bool) error {
	m.mu.Lock()
	evalCtx := m.evalCtx
	m.mu.Unlock()

	for _, t := range m.provider.Tutorials() {
		relevant := false
		for _, c := range t.TriggerConditions {
			if match(c) {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}
		if !trigger.AllConditionsMet(t.TriggerConditions, m.world, evalCtx) {
			continue
		}
		if err := m.ShowTutorial(t.ID); err != nil {
			return err
		}
	}
	return nil
}

// TriggerImmediateDialog queues the dialog unconditionally.
func (m *Manager) TriggerImmediateDialog(ctx context.Context, dialogID string) error {
	return m.triggerDialog(ctx, dialogID, trigger.Condition{Type: trigger.ConditionImmediate})
}

// TriggerFeatureDialog queues the dialog when the named feature has been
// interacted with.
func (m *Manager) TriggerFeatureDialog(ctx context.Context, featureID, dialogID string) error {
	return m.triggerDialog(ctx, dialogID, trigger.Condition{Type: trigger.ConditionFeature, Target: featureID})
}

// TriggerLocationDialog queues the dialog when the tile at the "q,r"
// coordinate has been explored.
func (m *Manager) TriggerLocationDialog(ctx context.Context, coordinate, dialogID string) error {
	return m.triggerDialog(ctx, dialogID, trigger.Condition{Type: trigger.ConditionLocation, Target: coordinate})
}

// TriggerObjectiveDialog queues the dialog when the named objective is
// completed.
func (m *Manager) TriggerObjectiveDialog(ctx context.Context, objectiveID, dialogID string) error {
	return m.triggerDialog(ctx, dialogID, trigger.Condition{Type: trigger.ConditionObjective, Target: objectiveID})
}

func (m *Manager) triggerDialog(ctx context.Context, dialogID string, cond trigger.Condition) error {
	m.mu.Lock()
	evalCtx := m.evalCtx
	m.mu.Unlock()

	if !trigger.IsConditionMet(cond, m.world, evalCtx) {
		return nil
	}
	return m.ShowDialog(ctx, dialogID)
}
