package random

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyDist is returned when a distribution has no values.
	ErrEmptyDist = errors.New("distribution has no values")

	// ErrLengthMismatch is returned when values and probs differ in length.
	ErrLengthMismatch = errors.New("values and probs differ in length")

	// ErrInvalidWeight is returned for negative, NaN or infinite weights.
	ErrInvalidWeight = errors.New("weights must be finite and non-negative")

	// ErrZeroWeights is returned when every weight is zero.
	ErrZeroWeights = errors.New("all weights are zero")
)

// DistConfig is a weighted categorical distribution: Probs[i] is the weight
// of Values[i]. Weights need not sum to 1.
type DistConfig[T any] struct {
	Values []T       `yaml:"values" json:"values"`
	Probs  []float64 `yaml:"probs" json:"probs"`
}

// NewDistConfig pairs values with their weights.
func NewDistConfig[T any](values []T, probs []float64) DistConfig[T] {
	return DistConfig[T]{Values: values, Probs: probs}
}

// Validate reports whether the config can be turned into a Dist.
func (c DistConfig[T]) Validate() error {
	_, err := NewDist(c)
	return err
}

// Dist samples from a DistConfig in O(1) using Vose's alias method.
// It is immutable once built and may be shared by any number of engines.
type Dist[T any] struct {
	values []T
	prob   []float64
	alias  []int
}

// NewDist builds the alias table for cfg.
func NewDist[T any](cfg DistConfig[T]) (*Dist[T], error) {
	n := len(cfg.Values)
	if n == 0 || len(cfg.Probs) == 0 {
		return nil, ErrEmptyDist
	}
	if n != len(cfg.Probs) {
		return nil, fmt.Errorf("%w: %d values, %d probs", ErrLengthMismatch, n, len(cfg.Probs))
	}

	sum := 0.0
	for i, w := range cfg.Probs {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: probs[%d] = %v", ErrInvalidWeight, i, w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, ErrZeroWeights
	}

	scaled := make([]float64, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range cfg.Probs {
		scaled[i] = w * float64(n) / sum
		if scaled[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	d := &Dist[T]{
		values: append([]T(nil), cfg.Values...),
		prob:   make([]float64, n),
		alias:  make([]int, n),
	}
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]

		d.prob[s] = scaled[s]
		d.alias[s] = l

		scaled[l] = scaled[l] + scaled[s] - 1
		if scaled[l] < 1 {
			large = large[:len(large)-1]
			small = append(small, l)
		}
	}
	// Leftovers are 1 up to rounding.
	for _, i := range large {
		d.prob[i], d.alias[i] = 1, i
	}
	for _, i := range small {
		d.prob[i], d.alias[i] = 1, i
	}
	return d, nil
}

// MustDist is NewDist for configs known to be valid; it panics otherwise.
func MustDist[T any](cfg DistConfig[T]) *Dist[T] {
	d, err := NewDist(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the number of categories.
func (d *Dist[T]) Len() int {
	return len(d.values)
}

// SampleIndex draws a category index using exactly one engine draw: the high
// 32 bits pick a column, the low 32 bits flip the column's biased coin.
func (d *Dist[T]) SampleIndex(e *Engine) int {
	u := e.Uint64()
	i := int(((u >> 32) * uint64(len(d.prob))) >> 32)
	coin := float64(uint32(u)) / (1 << 32)
	if coin < d.prob[i] {
		return i
	}
	return d.alias[i]
}

// Sample returns the value at a drawn index.
func (d *Dist[T]) Sample(e *Engine) T {
	return d.values[d.SampleIndex(e)]
}
