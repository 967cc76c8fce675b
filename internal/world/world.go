// Package world holds the in-memory snapshot of game state the trigger
// evaluator reads: explored tiles, interacted features, objective
// statuses and resource amounts. The world map, objective and resource
// stores own their full state elsewhere; this is the read surface the
// narrative engine consumes, kept current by game events.
package world

import (
	"fmt"
	"sync"
)

// State implements trigger.WorldView.
type State struct {
	mu         sync.RWMutex
	explored   map[string]string // "q,r" -> exploration status
	features   map[string]struct{}
	objectives map[string]string
	resources  map[string]float64
}

func NewState() *State {
	return &State{
		explored:   make(map[string]string),
		features:   make(map[string]struct{}),
		objectives: make(map[string]string),
		resources:  make(map[string]float64),
	}
}

func key(q, r int) string {
	return fmt.Sprintf("%d,%d", q, r)
}

// TileStatus returns the exploration status of the tile at q,r, or an
// empty string for unknown tiles.
func (s *State) TileStatus(q, r int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.explored[key(q, r)]
}

func (s *State) FeatureInteracted(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.features[id]
	return ok
}

func (s *State) ObjectiveStatus(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objectives[id]
}

func (s *State) ResourceAmount(id string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resources[id]
}

// SetTileStatus records the exploration status of a tile.
func (s *State) SetTileStatus(q, r int, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explored[key(q, r)] = status
}

// MarkFeatureInteracted adds a feature to the interacted set.
func (s *State) MarkFeatureInteracted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features[id] = struct{}{}
}

// SetObjectiveStatus records an objective's status.
func (s *State) SetObjectiveStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objectives[id] = status
}

// SetResourceAmount records a resource's current amount.
func (s *State) SetResourceAmount(id string, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[id] = amount
}
