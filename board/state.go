package board

import "workload-board/domain"

// Selection is the in-progress edit state of the collaborator: the person a
// new task is being added to, the task being edited and the person being
// renamed. It is never persisted.
type Selection struct {
	PersonID        string `json:"personId,omitempty"`
	TaskID          string `json:"taskId,omitempty"`
	EditingPersonID string `json:"editingPersonId,omitempty"`
}

// State is a snapshot of the board returned by every Store operation.
// Version increases by one for every operation that changed the board.
type State struct {
	People    []domain.Person    `json:"people"`
	Weights   domain.WeightTable `json:"weights"`
	Selection Selection          `json:"selection"`
	Version   uint64             `json:"version"`
}

func (s State) clone() State {
	return State{
		People:    domain.ClonePeople(s.People),
		Weights:   s.Weights.Clone(),
		Selection: s.Selection,
		Version:   s.Version,
	}
}

// Person returns the person with the given id.
func (s State) Person(id string) (domain.Person, bool) {
	if i := s.personIndex(id); i >= 0 {
		return s.People[i], true
	}
	return domain.Person{}, false
}

func (s State) personIndex(id string) int {
	for i, p := range s.People {
		if p.ID == id {
			return i
		}
	}
	return -1
}
