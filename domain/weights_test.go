package domain

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultWeightsAreComplete(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights: %v", err)
	}
}

func TestValidateRejectsIncompleteTables(t *testing.T) {
	missingLevel := DefaultWeights()
	delete(missingLevel[1].Weights, 18)

	missingSize := DefaultWeights()[:3]

	duplicate := append(DefaultWeights(), DefaultWeights()[0])

	negative := DefaultWeights().With(EstimationS, 15, -1)

	notFinite := DefaultWeights().With(EstimationXS, 20, math.Inf(1))

	for name, table := range map[string]WeightTable{
		"missing level": missingLevel,
		"missing size":  missingSize,
		"duplicate":     duplicate,
		"negative":      negative,
		"not finite":    notFinite,
		"empty":         nil,
	} {
		if err := table.Validate(); !errors.Is(err, ErrIncompleteWeights) {
			t.Fatalf("%s: expected ErrIncompleteWeights, got %v", name, err)
		}
	}
}

func TestWeightLookup(t *testing.T) {
	table := DefaultWeights()
	if w, ok := table.Weight(EstimationL, 16); !ok || w != 2.2 {
		t.Fatalf("unexpected L@16: %v %v", w, ok)
	}
	if w, ok := table.Weight(EstimationL, 30); ok || w != 0 {
		t.Fatalf("expected miss for unknown level, got %v %v", w, ok)
	}
	if w, ok := table[:1].Weight(EstimationM, 16); ok || w != 0 {
		t.Fatalf("expected miss for unknown size, got %v %v", w, ok)
	}
}

func TestWithDoesNotModifyReceiver(t *testing.T) {
	table := DefaultWeights()
	updated := table.With(EstimationM, 16, 9)
	if w, _ := table.Weight(EstimationM, 16); w != 1.1 {
		t.Fatalf("receiver modified: %v", w)
	}
	if w, _ := updated.Weight(EstimationM, 16); w != 9 {
		t.Fatalf("update missing: %v", w)
	}
}

func TestParseWeight(t *testing.T) {
	cases := map[string]float64{
		"1.25":  1.25,
		" 2 ":   2,
		"":      0,
		"abc":   0,
		"-1":    0,
		"NaN":   0,
		"+Inf":  0,
		"0.005": 0.005,
	}
	for in, want := range cases {
		if got := ParseWeight(in); got != want {
			t.Fatalf("ParseWeight(%q) = %v, want %v", in, got, want)
		}
	}
}
