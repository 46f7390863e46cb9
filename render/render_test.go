package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"workload-board/board"
	"workload-board/domain"
)

func init() {
	color.NoColor = true
}

func TestBoard(t *testing.T) {
	people := domain.RecomputeScores(domain.DefaultPeople(), domain.DefaultWeights())
	people = append(people, domain.Person{ID: "4", Name: "Idle", Level: 15, Tasks: []domain.Task{}})
	var buf bytes.Buffer
	Board(&buf, board.State{People: people, Version: 4})

	out := buf.String()
	for _, want := range []string{"Board (version 4)", "Test 1", "3.9", "2.3", "Task 2", "#A5D6A7", "Idle", "no tasks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "1-1") > strings.Index(out, "1-2") {
		t.Fatalf("tasks must be printed in board order")
	}
}

func TestWeights(t *testing.T) {
	table := domain.DefaultWeights()
	table[3] = domain.EstimationWeight{Type: domain.EstimationXS, Weights: map[domain.Level]float64{14: 0.2}}
	var buf bytes.Buffer
	Weights(&buf, table)

	out := buf.String()
	for _, want := range []string{"1.05", "0.525", "3", "-"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
