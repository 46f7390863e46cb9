package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EstimationWeight maps every level to the effort multiplier of one
// estimation size.
type EstimationWeight struct {
	Type    EstimationSize    `json:"type"`
	Weights map[Level]float64 `json:"weights"`
}

// WeightTable holds one EstimationWeight per estimation size.
type WeightTable []EstimationWeight

// Weight looks up the multiplier for a size at a level. A missing size or
// level reports false and a zero weight.
func (t WeightTable) Weight(size EstimationSize, level Level) (float64, bool) {
	for _, w := range t {
		if w.Type != size {
			continue
		}
		v, ok := w.Weights[level]
		return v, ok
	}
	return 0, false
}

// Clone deep copies the table.
func (t WeightTable) Clone() WeightTable {
	if t == nil {
		return nil
	}
	out := make(WeightTable, len(t))
	for i, w := range t {
		m := make(map[Level]float64, len(w.Weights))
		for l, v := range w.Weights {
			m[l] = v
		}
		out[i] = EstimationWeight{Type: w.Type, Weights: m}
	}
	return out
}

// With returns a copy of the table where the cell (size, level) holds v. A
// size missing from the table is appended.
func (t WeightTable) With(size EstimationSize, level Level, v float64) WeightTable {
	out := t.Clone()
	for i := range out {
		if out[i].Type == size {
			if out[i].Weights == nil {
				out[i].Weights = map[Level]float64{}
			}
			out[i].Weights[level] = v
			return out
		}
	}
	return append(out, EstimationWeight{Type: size, Weights: map[Level]float64{level: v}})
}

// Validate reports ErrIncompleteWeights when the table lacks a size, repeats
// one, misses a level or holds a negative or non-finite value.
func (t WeightTable) Validate() error {
	var problems []string
	seen := make(map[EstimationSize]bool, len(t))
	for _, w := range t {
		if !w.Type.Valid() {
			problems = append(problems, fmt.Sprintf("unknown size %q", w.Type))
			continue
		}
		if seen[w.Type] {
			problems = append(problems, fmt.Sprintf("duplicate size %s", w.Type))
			continue
		}
		seen[w.Type] = true
		for _, l := range Levels() {
			v, ok := w.Weights[l]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("%s@%d missing", w.Type, l))
			case math.IsNaN(v) || math.IsInf(v, 0) || v < 0:
				problems = append(problems, fmt.Sprintf("%s@%d invalid value %v", w.Type, l, v))
			}
		}
	}
	for _, s := range Sizes() {
		if !seen[s] {
			problems = append(problems, fmt.Sprintf("size %s missing", s))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteWeights, strings.Join(problems, "; "))
	}
	return nil
}

// ParseWeight converts a weight editor cell to a number. Anything that is not
// a finite non-negative number becomes 0.
func ParseWeight(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
