package domain

// DefaultWeights returns a fresh copy of the built-in weight table.
func DefaultWeights() WeightTable {
	return WeightTable{
		{Type: EstimationL, Weights: map[Level]float64{
			14: 2.0, 15: 2.1, 16: 2.2, 17: 2.3, 18: 2.4, 19: 2.5, 20: 2.6, 21: 2.8, 22: 3.0,
		}},
		{Type: EstimationM, Weights: map[Level]float64{
			14: 1.0, 15: 1.05, 16: 1.1, 17: 1.15, 18: 1.2, 19: 1.25, 20: 1.3, 21: 1.4, 22: 1.5,
		}},
		{Type: EstimationS, Weights: map[Level]float64{
			14: 0.5, 15: 0.525, 16: 0.55, 17: 0.575, 18: 0.6, 19: 0.625, 20: 0.65, 21: 0.675, 22: 0.7,
		}},
		{Type: EstimationXS, Weights: map[Level]float64{
			14: 0.2, 15: 0.21, 16: 0.22, 17: 0.23, 18: 0.24, 19: 0.25, 20: 0.26, 21: 0.28, 22: 0.3,
		}},
	}
}

// DefaultPeople returns a fresh copy of the sample board. Scores are zero
// until RecomputeScores runs.
func DefaultPeople() []Person {
	return []Person{
		{
			ID:    "1",
			Name:  "Test",
			Level: 20,
			Tasks: []Task{
				{ID: "1-1", Title: "Task 1", Estimation: EstimationL, Color: ColorTeal},
				{ID: "1-2", Title: "Task 2", Estimation: EstimationM, Color: ColorGreen},
			},
		},
		{
			ID:    "2",
			Name:  "Test 1",
			Level: 17,
			Tasks: []Task{
				{ID: "2-1", Title: "Task 1", Estimation: EstimationM, Color: ColorGreen},
				{ID: "2-2", Title: "Task 2", Estimation: EstimationM, Color: ColorGreen},
			},
		},
		{
			ID:    "3",
			Name:  "Test 2",
			Level: 14,
			Tasks: []Task{
				{ID: "3-1", Title: "Task 1", Estimation: EstimationS, Color: ColorYellow},
				{ID: "3-2", Title: "Task 2", Estimation: EstimationS, Color: ColorYellow},
			},
		},
	}
}
