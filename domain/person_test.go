package domain

import (
	"errors"
	"testing"
)

func TestNewPersonValidation(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		level   Level
		wantErr error
	}{
		{name: "valid", input: "  Ann ", level: 16},
		{name: "lowest level", input: "Ann", level: MinLevel},
		{name: "highest level", input: "Ann", level: MaxLevel},
		{name: "blank name", input: "   ", level: 16, wantErr: ErrEmptyName},
		{name: "level too low", input: "Ann", level: 13, wantErr: ErrInvalidLevel},
		{name: "level too high", input: "Ann", level: 23, wantErr: ErrInvalidLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPerson("p1", tc.input, tc.level)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("new person: %v", err)
			}
			if p.Name != "Ann" {
				t.Fatalf("expected trimmed name, got %q", p.Name)
			}
			if p.Tasks == nil || len(p.Tasks) != 0 || p.TotalScore != 0 {
				t.Fatalf("unexpected new person: %+v", p)
			}
		})
	}
}

func TestNewTaskValidation(t *testing.T) {
	task, err := NewTask("t1", " Write docs ", EstimationXS, "#80cbc4")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Title != "Write docs" || task.Color != ColorTeal {
		t.Fatalf("unexpected task: %+v", task)
	}

	if _, err := NewTask("t2", " ", EstimationM, ColorGreen); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := NewTask("t3", "x", "XL", ColorGreen); !errors.Is(err, ErrInvalidEstimation) {
		t.Fatalf("expected ErrInvalidEstimation, got %v", err)
	}

	task, err = NewTask("t4", "x", EstimationL, "#000000")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Color != DefaultColor {
		t.Fatalf("expected colour outside palette to fall back, got %s", task.Color)
	}
}

func TestParseEstimation(t *testing.T) {
	for _, in := range []string{"L", "m", " s ", "xs"} {
		if _, err := ParseEstimation(in); err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
	}
	if _, err := ParseEstimation("XXL"); !errors.Is(err, ErrInvalidEstimation) {
		t.Fatalf("expected ErrInvalidEstimation, got %v", err)
	}
}

func TestLevels(t *testing.T) {
	levels := Levels()
	if len(levels) != 9 || levels[0] != 14 || levels[8] != 22 {
		t.Fatalf("unexpected levels: %v", levels)
	}
}

func TestClonePeopleDoesNotShareTasks(t *testing.T) {
	people := DefaultPeople()
	clone := ClonePeople(people)
	clone[0].Tasks[0].Title = "changed"
	if people[0].Tasks[0].Title == "changed" {
		t.Fatalf("clone shares task storage")
	}
}
