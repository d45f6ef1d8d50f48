// Package preset holds the named generation and map configurations that
// votes select by name.
package preset

import (
	"errors"
	"fmt"

	"ddnet-bridge/internal/random"
)

// ShiftRanks is the number of walker moves ranked by ShiftWeights.
const ShiftRanks = 4

var (
	// ErrUnknownPreset is returned for a preset name that is not registered.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrInvalidPreset is returned when a preset fails validation.
	ErrInvalidPreset = errors.New("invalid preset")
)

// Position is a grid coordinate.
type Position struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// GenerationConfig controls the walker's probabilistic choices.
type GenerationConfig struct {
	Name string `yaml:"-" json:"name"`

	// ShiftWeights weighs the four moves ordered from closest to the next
	// waypoint to farthest.
	ShiftWeights []float64 `yaml:"shift_weights" json:"shift_weights"`

	InnerSizeProbs   random.DistConfig[int]     `yaml:"inner_size_probs" json:"inner_size_probs"`
	OuterMarginProbs random.DistConfig[int]     `yaml:"outer_margin_probs" json:"outer_margin_probs"`
	CircProbs        random.DistConfig[float64] `yaml:"circ_probs" json:"circ_probs"`
}

// ShiftDist returns the rank distribution built from ShiftWeights.
func (c GenerationConfig) ShiftDist() random.DistConfig[int] {
	ranks := make([]int, len(c.ShiftWeights))
	for i := range ranks {
		ranks[i] = i
	}
	return random.NewDistConfig(ranks, c.ShiftWeights)
}

// Validate checks that every distribution can be built.
func (c GenerationConfig) Validate() error {
	if len(c.ShiftWeights) != ShiftRanks {
		return fmt.Errorf("%w: %s: shift_weights needs %d entries, got %d", ErrInvalidPreset, c.Name, ShiftRanks, len(c.ShiftWeights))
	}
	checks := []struct {
		field string
		err   error
	}{
		{"shift_weights", c.ShiftDist().Validate()},
		{"inner_size_probs", c.InnerSizeProbs.Validate()},
		{"outer_margin_probs", c.OuterMarginProbs.Validate()},
		{"circ_probs", c.CircProbs.Validate()},
	}
	for _, chk := range checks {
		if chk.err != nil {
			return fmt.Errorf("%w: %s: %s: %w", ErrInvalidPreset, c.Name, chk.field, chk.err)
		}
	}
	for _, v := range c.InnerSizeProbs.Values {
		if v < 1 {
			return fmt.Errorf("%w: %s: inner size %d < 1", ErrInvalidPreset, c.Name, v)
		}
	}
	for _, v := range c.OuterMarginProbs.Values {
		if v < 0 {
			return fmt.Errorf("%w: %s: outer margin %d < 0", ErrInvalidPreset, c.Name, v)
		}
	}
	for _, v := range c.CircProbs.Values {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s: circularity %v outside [0, 1]", ErrInvalidPreset, c.Name, v)
		}
	}
	return nil
}

// MapConfig is the layout the walker fills: grid size and the waypoints it
// visits in order.
type MapConfig struct {
	Name      string     `yaml:"-" json:"name"`
	Width     int        `yaml:"width" json:"width"`
	Height    int        `yaml:"height" json:"height"`
	Waypoints []Position `yaml:"waypoints" json:"waypoints"`
}

// Inside reports whether p lies strictly inside the map border.
func (c MapConfig) Inside(p Position) bool {
	return p.X > 0 && p.Y > 0 && p.X < c.Width-1 && p.Y < c.Height-1
}

// Validate checks the grid size and that every waypoint is inside it.
func (c MapConfig) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("%w: %s: map must be at least 3x3, got %dx%d", ErrInvalidPreset, c.Name, c.Width, c.Height)
	}
	if len(c.Waypoints) < 2 {
		return fmt.Errorf("%w: %s: need at least 2 waypoints, got %d", ErrInvalidPreset, c.Name, len(c.Waypoints))
	}
	for i, p := range c.Waypoints {
		if !c.Inside(p) {
			return fmt.Errorf("%w: %s: waypoint %d (%d,%d) outside map", ErrInvalidPreset, c.Name, i, p.X, p.Y)
		}
	}
	return nil
}
