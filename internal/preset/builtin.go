package preset

import "ddnet-bridge/internal/random"

// Builtin generation and map presets, always registered.
var (
	builtinGeneration = []GenerationConfig{
		{
			Name:             "hardly",
			ShiftWeights:     []float64{0.4, 0.22, 0.2, 0.18},
			InnerSizeProbs:   random.NewDistConfig([]int{3, 4, 5}, []float64{0.25, 0.5, 0.25}),
			OuterMarginProbs: random.NewDistConfig([]int{0, 1, 2}, []float64{0.5, 0.25, 0.25}),
			CircProbs:        random.NewDistConfig([]float64{0.0, 0.6, 0.8}, []float64{0.1, 0.6, 0.3}),
		},
		{
			Name:             "easy",
			ShiftWeights:     []float64{0.6, 0.2, 0.15, 0.05},
			InnerSizeProbs:   random.NewDistConfig([]int{4, 5, 6}, []float64{0.3, 0.4, 0.3}),
			OuterMarginProbs: random.NewDistConfig([]int{0, 1}, []float64{0.7, 0.3}),
			CircProbs:        random.NewDistConfig([]float64{0.4, 0.8}, []float64{0.5, 0.5}),
		},
		{
			Name:             "hard",
			ShiftWeights:     []float64{0.35, 0.25, 0.2, 0.2},
			InnerSizeProbs:   random.NewDistConfig([]int{2, 3, 4}, []float64{0.4, 0.4, 0.2}),
			OuterMarginProbs: random.NewDistConfig([]int{1, 2}, []float64{0.5, 0.5}),
			CircProbs:        random.NewDistConfig([]float64{0.0, 0.5, 1.0}, []float64{0.4, 0.3, 0.3}),
		},
	}

	builtinMaps = []MapConfig{
		{
			Name:      "default",
			Width:     300,
			Height:    150,
			Waypoints: []Position{{X: 20, Y: 75}, {X: 150, Y: 30}, {X: 280, Y: 120}},
		},
		{
			Name:      "small",
			Width:     150,
			Height:    100,
			Waypoints: []Position{{X: 10, Y: 50}, {X: 140, Y: 50}},
		},
		{
			Name:      "long",
			Width:     600,
			Height:    150,
			Waypoints: []Position{{X: 20, Y: 20}, {X: 200, Y: 130}, {X: 400, Y: 20}, {X: 580, Y: 130}},
		},
	}
)
