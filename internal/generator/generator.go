// Package generator is a seeded walker that carves a gores-style corridor
// through a solid grid. Same seed and presets give the same map.
package generator

import (
	"errors"
	"fmt"

	"ddnet-bridge/internal/preset"
	"ddnet-bridge/internal/random"
)

// ErrMaxIterations is returned when the walker does not reach the last
// waypoint within the iteration budget. A different seed may succeed.
var ErrMaxIterations = errors.New("walker exceeded iteration budget")

// Block is one grid tile.
type Block byte

const (
	Hookable Block = '#'
	Freeze   Block = '~'
	Empty    Block = ' '
)

// Map is a generated grid stored row-major.
type Map struct {
	Width  int
	Height int
	Blocks []Block
	Seed   random.Seed
	Steps  int
}

func newMap(width, height int, seed random.Seed) *Map {
	blocks := make([]Block, width*height)
	for i := range blocks {
		blocks[i] = Hookable
	}
	return &Map{Width: width, Height: height, Blocks: blocks, Seed: seed}
}

// At returns the block at (x, y).
func (m *Map) At(x, y int) Block {
	return m.Blocks[y*m.Width+x]
}

func (m *Map) set(x, y int, b Block) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Blocks[y*m.Width+x] = b
}

type shift struct{ dx, dy int }

var shifts = [preset.ShiftRanks]shift{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Walker implements the generation engine used by the bridge.
type Walker struct{}

// Generate runs the walker. See Generate.
func (Walker) Generate(maxIterations int, seed random.Seed, gen preset.GenerationConfig, layout preset.MapConfig) (*Map, error) {
	return Generate(maxIterations, seed, gen, layout)
}

// Generate walks from the first waypoint through the rest in order. Each step
// ranks the four moves by distance to the current goal and samples a rank from
// the shift weights, then carves a kernel whose size, freeze margin and
// circularity are sampled from the preset.
func Generate(maxIterations int, seed random.Seed, gen preset.GenerationConfig, layout preset.MapConfig) (*Map, error) {
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	shiftDist := random.MustDist(gen.ShiftDist())
	innerDist := random.MustDist(gen.InnerSizeProbs)
	marginDist := random.MustDist(gen.OuterMarginProbs)
	circDist := random.MustDist(gen.CircProbs)

	rnd := random.New(seed)
	m := newMap(layout.Width, layout.Height, seed)
	pos := layout.Waypoints[0]

	for _, goal := range layout.Waypoints[1:] {
		for pos != goal {
			if m.Steps >= maxIterations {
				return nil, fmt.Errorf("%w: %d steps, stuck at (%d,%d)", ErrMaxIterations, m.Steps, pos.X, pos.Y)
			}
			m.Steps++

			ranked := rankShifts(pos, goal)
			s := ranked[shiftDist.SampleIndex(rnd)]
			next := preset.Position{X: pos.X + s.dx, Y: pos.Y + s.dy}
			if layout.Inside(next) {
				pos = next
			}

			inner := innerDist.Sample(rnd)
			margin := marginDist.Sample(rnd)
			circ := circDist.Sample(rnd)
			m.carve(pos, inner, margin, circ)
		}
	}
	return m, nil
}

// rankShifts orders the moves by squared distance to goal after the move;
// ties keep the fixed up/down/left/right order.
func rankShifts(pos, goal preset.Position) [preset.ShiftRanks]shift {
	ranked := shifts
	dist := func(s shift) int {
		dx, dy := goal.X-(pos.X+s.dx), goal.Y-(pos.Y+s.dy)
		return dx*dx + dy*dy
	}
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && dist(ranked[j]) < dist(ranked[j-1]); j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

// carve empties an inner kernel around p and lines it with freeze. circ blends
// the kernel from a square (0) to a disc (1).
func (m *Map) carve(p preset.Position, inner, margin int, circ float64) {
	rIn := inner / 2
	rOut := rIn + margin
	inKernel := func(dx, dy, r int) bool {
		limit := float64(r*r) * (2 - circ)
		return float64(dx*dx+dy*dy) <= limit
	}

	for dy := -rOut; dy <= rOut; dy++ {
		for dx := -rOut; dx <= rOut; dx++ {
			x, y := p.X+dx, p.Y+dy
			if x <= 0 || y <= 0 || x >= m.Width-1 || y >= m.Height-1 {
				continue
			}
			switch {
			case inKernel(dx, dy, rIn):
				m.set(x, y, Empty)
			case inKernel(dx, dy, rOut) && m.At(x, y) == Hookable:
				m.set(x, y, Freeze)
			}
		}
	}
}
