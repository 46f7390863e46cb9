package domain

import "math"

// Round3 rounds half away from zero at the thousandths.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Score sums the weights of the person's tasks at their level. Lookups that
// miss contribute nothing.
func Score(p Person, table WeightTable) float64 {
	var total float64
	for _, t := range p.Tasks {
		w, _ := table.Weight(t.Estimation, p.Level)
		total += w
	}
	return Round3(total)
}

// RecomputeScores returns copies of people with TotalScore refreshed from
// table. The input slice is not modified.
func RecomputeScores(people []Person, table WeightTable) []Person {
	out := make([]Person, len(people))
	for i, p := range people {
		out[i] = p
		out[i].TotalScore = Score(p, table)
	}
	return out
}
