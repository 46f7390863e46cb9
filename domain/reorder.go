package domain

import "fmt"

// Direction moves a person one slot up or down the board.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down:
		return d, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// moveElement removes the element at from and reinserts it at to. The result
// is a new slice.
func moveElement[T any](s []T, from, to int) []T {
	out := make([]T, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	moved := s[from]
	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved
	return out
}

// MoveTask moves the task fromID to the position currently held by toID,
// shifting the tasks in between. It reports false and returns the input when
// the ids are equal or either is absent.
func MoveTask(tasks []Task, fromID, toID string) ([]Task, bool) {
	if fromID == toID {
		return tasks, false
	}
	from, to := -1, -1
	for i, t := range tasks {
		switch t.ID {
		case fromID:
			from = i
		case toID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return tasks, false
	}
	return moveElement(tasks, from, to), true
}

// MovePerson swaps the person at index with its neighbour in the given
// direction. Moves past either end of the board are ignored.
func MovePerson(people []Person, index int, dir Direction) ([]Person, bool) {
	if index < 0 || index >= len(people) {
		return people, false
	}
	target := index
	switch dir {
	case Up:
		target = index - 1
	case Down:
		target = index + 1
	default:
		return people, false
	}
	if target < 0 || target >= len(people) {
		return people, false
	}
	return moveElement(people, index, target), true
}
