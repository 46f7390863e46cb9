package board

import (
	"testing"

	"workload-board/domain"
)

func TestScoreKey(t *testing.T) {
	base := domain.DefaultPeople()
	key := scoreKey(base, 0)

	renamed := domain.ClonePeople(base)
	renamed[0].Name = "Other"
	renamed[1].Tasks[0].Title = "Other"
	renamed[2].Tasks[0].Color = domain.ColorGrey
	if scoreKey(renamed, 0) != key {
		t.Fatalf("names, titles and colours must not change the key")
	}

	changes := map[string]func([]domain.Person){
		"level":      func(p []domain.Person) { p[0].Level = 21 },
		"estimation": func(p []domain.Person) { p[1].Tasks[0].Estimation = domain.EstimationXS },
		"task added": func(p []domain.Person) { p[2].Tasks = append(p[2].Tasks, p[2].Tasks[0]) },
		"removed":    func(p []domain.Person) { p[0].Tasks = p[0].Tasks[:1] },
	}
	for name, mutate := range changes {
		people := domain.ClonePeople(base)
		mutate(people)
		if scoreKey(people, 0) == key {
			t.Fatalf("%s: key did not change", name)
		}
	}
	if scoreKey(base, 1) == key {
		t.Fatalf("weights revision must change the key")
	}
}
