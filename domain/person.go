package domain

import (
	"fmt"
	"strings"
)

// Level is the skill grade of a person.
type Level int

const (
	MinLevel     Level = 14
	MaxLevel     Level = 22
	DefaultLevel Level = 16
)

func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Levels returns every valid level in ascending order.
func Levels() []Level {
	out := make([]Level, 0, int(MaxLevel-MinLevel)+1)
	for l := MinLevel; l <= MaxLevel; l++ {
		out = append(out, l)
	}
	return out
}

// Person is a column of the board. TotalScore is derived from Tasks and Level
// and is only written by RecomputeScores.
type Person struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Level      Level   `json:"level"`
	Tasks      []Task  `json:"tasks"`
	TotalScore float64 `json:"totalScore"`
}

// NewPerson validates the fields of a person. The returned person has no
// tasks and a zero score.
func NewPerson(id, name string, level Level) (Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Person{}, ErrEmptyName
	}
	if !level.Valid() {
		return Person{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return Person{ID: id, Name: name, Level: level, Tasks: []Task{}}, nil
}

// Clone returns a copy that shares no task storage with p.
func (p Person) Clone() Person {
	out := p
	out.Tasks = make([]Task, len(p.Tasks))
	copy(out.Tasks, p.Tasks)
	return out
}

// TaskIndex returns the position of the task with the given id or -1.
func (p Person) TaskIndex(taskID string) int {
	for i, t := range p.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// ClonePeople deep copies a people slice.
func ClonePeople(people []Person) []Person {
	out := make([]Person, len(people))
	for i, p := range people {
		out[i] = p.Clone()
	}
	return out
}
