package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"workload-board/domain"
	"workload-board/storage"
)

// ErrPersist wraps write-through failures. The transition that produced it
// has already been applied to the in-memory board.
var ErrPersist = errors.New("persist board")

// Persistence stores the two board records. Load methods return
// storage.ErrNotFound when a record is absent.
type Persistence interface {
	LoadPeople(ctx context.Context) ([]domain.Person, error)
	LoadWeights(ctx context.Context) (domain.WeightTable, error)
	SavePeople(ctx context.Context, people []domain.Person) error
	SaveWeights(ctx context.Context, table domain.WeightTable) error
	Clear(ctx context.Context) error
}

// Store owns the board state. Every operation applies one transition, refreshes
// scores when their inputs changed and writes the result through to
// Persistence before returning. Operations are serialised; each runs to
// completion before the next starts.
type Store struct {
	mu         sync.Mutex
	persist    Persistence
	log        *log.Logger
	newID      func() string
	state      State
	weightsRev uint64
	scoredKey  string
	recomputes int
}

type Option func(*Store)

// WithIDGenerator replaces uuid.NewString for people and task ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Open loads the board from p. Absent records are replaced by the built-in
// defaults; unreadable records and incomplete weight tables are logged and
// replaced as well.
func Open(ctx context.Context, p Persistence, logger *log.Logger, opts ...Option) *Store {
	if p == nil {
		panic("board.Open: persistence is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Store{persist: p, log: logger, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}

	people, err := p.LoadPeople(ctx)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		s.log.Info("no stored people, using defaults")
		people = domain.DefaultPeople()
	default:
		s.log.WithError(err).Warn("failed to load people, using defaults")
		people = domain.DefaultPeople()
	}

	weights, err := p.LoadWeights(ctx)
	if err == nil {
		err = weights.Validate()
	}
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		s.log.Info("no stored weights, using defaults")
		weights = domain.DefaultWeights()
	default:
		s.log.WithError(err).Warn("failed to load weights, using defaults")
		weights = domain.DefaultWeights()
	}

	s.state = State{People: people, Weights: weights}
	s.recomputeLocked()
	return s
}

// State returns a copy of the current board.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

type persistMode int

const (
	persistPeople persistMode = iota
	persistAll
	persistClear
)

// apply runs fn on a copy of the state. When fn reports a board change the
// copy becomes current, scores are refreshed and the result is persisted.
// A selection-only change is kept without a version bump or write.
func (s *Store) apply(ctx context.Context, op string, mode persistMode, fn func(*State) bool) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	changed := fn(&next)
	if !changed {
		s.state.Selection = next.Selection
		s.log.WithField("op", op).Debug("board.transition.noop")
		return s.state.clone(), nil
	}

	next.Version++
	if mode != persistPeople {
		s.weightsRev++
	}
	s.state = next
	s.recomputeLocked()

	err := s.persistLocked(ctx, mode)
	s.log.WithFields(log.Fields{"op": op, "version": s.state.Version}).Debug("board.transition.applied")
	return s.state.clone(), err
}

func (s *Store) recomputeLocked() {
	key := scoreKey(s.state.People, s.weightsRev)
	if key == s.scoredKey {
		return
	}
	s.state.People = domain.RecomputeScores(s.state.People, s.state.Weights)
	s.scoredKey = key
	s.recomputes++
	s.log.WithField("people", len(s.state.People)).Debug("board.scores.recomputed")
}

func (s *Store) persistLocked(ctx context.Context, mode persistMode) error {
	var err error
	switch mode {
	case persistClear:
		err = s.persist.Clear(ctx)
	case persistAll:
		// Weights first; a stale people record is rescored on Open.
		if err = s.persist.SaveWeights(ctx, s.state.Weights); err == nil {
			err = s.persist.SavePeople(ctx, s.state.People)
		}
	default:
		err = s.persist.SavePeople(ctx, s.state.People)
	}
	if err != nil {
		s.log.WithError(err).WithField("version", s.state.Version).Error("failed to persist board")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// AddPerson appends a person with no tasks. Empty names and levels out of
// range are ignored.
func (s *Store) AddPerson(ctx context.Context, name string, level domain.Level) (State, error) {
	id := s.newID()
	return s.apply(ctx, "add_person", persistPeople, func(st *State) bool {
		return addPerson(st, id, name, level)
	})
}

// RenamePerson replaces the name when the trimmed new name is not empty.
func (s *Store) RenamePerson(ctx context.Context, id, name string) (State, error) {
	return s.apply(ctx, "rename_person", persistPeople, func(st *State) bool {
		return renamePerson(st, id, name)
	})
}

func (s *Store) ChangeLevel(ctx context.Context, id string, level domain.Level) (State, error) {
	return s.apply(ctx, "change_level", persistPeople, func(st *State) bool {
		return changeLevel(st, id, level)
	})
}

// DeletePerson removes the person together with their tasks.
func (s *Store) DeletePerson(ctx context.Context, id string) (State, error) {
	return s.apply(ctx, "delete_person", persistPeople, func(st *State) bool {
		return deletePerson(st, id)
	})
}

func (s *Store) MovePerson(ctx context.Context, index int, dir domain.Direction) (State, error) {
	return s.apply(ctx, "move_person", persistPeople, func(st *State) bool {
		return movePerson(st, index, dir)
	})
}

// AddTask appends a task to the end of the person's column.
func (s *Store) AddTask(ctx context.Context, personID, title string, estimation domain.EstimationSize, color string) (State, error) {
	id := s.newID()
	return s.apply(ctx, "add_task", persistPeople, func(st *State) bool {
		return addTask(st, personID, id, title, estimation, color)
	})
}

// UpdateTask replaces the task fields in place.
func (s *Store) UpdateTask(ctx context.Context, personID, taskID, title string, estimation domain.EstimationSize, color string) (State, error) {
	return s.apply(ctx, "update_task", persistPeople, func(st *State) bool {
		return updateTask(st, personID, taskID, title, estimation, color)
	})
}

func (s *Store) DeleteTask(ctx context.Context, personID, taskID string) (State, error) {
	return s.apply(ctx, "delete_task", persistPeople, func(st *State) bool {
		return deleteTask(st, personID, taskID)
	})
}

// ReorderTasks moves fromTaskID to the slot of toTaskID within one person's
// column.
func (s *Store) ReorderTasks(ctx context.Context, personID, fromTaskID, toTaskID string) (State, error) {
	return s.apply(ctx, "reorder_tasks", persistPeople, func(st *State) bool {
		return reorderTasks(st, personID, fromTaskID, toTaskID)
	})
}

// SaveWeights replaces the weight table. Incomplete tables are rejected with
// domain.ErrIncompleteWeights and leave the board untouched.
func (s *Store) SaveWeights(ctx context.Context, table domain.WeightTable) (State, error) {
	if err := table.Validate(); err != nil {
		return s.State(), err
	}
	return s.apply(ctx, "save_weights", persistAll, func(st *State) bool {
		return saveWeights(st, table)
	})
}

// ResetToDefaults restores the built-in people and weights, clears the
// selection and removes both persisted records.
func (s *Store) ResetToDefaults(ctx context.Context) (State, error) {
	return s.apply(ctx, "reset", persistClear, resetToDefaults)
}

// SelectPerson marks the person a new task will be added to.
func (s *Store) SelectPerson(personID string) State {
	return s.setSelection(func(st *State) {
		if st.personIndex(personID) >= 0 {
			st.Selection.PersonID = personID
			st.Selection.TaskID = ""
		}
	})
}

// BeginTaskEdit marks a task as being edited.
func (s *Store) BeginTaskEdit(personID, taskID string) State {
	return s.setSelection(func(st *State) {
		if i := st.personIndex(personID); i >= 0 && st.People[i].TaskIndex(taskID) >= 0 {
			st.Selection.PersonID = personID
			st.Selection.TaskID = taskID
		}
	})
}

// BeginRename marks a person as being renamed.
func (s *Store) BeginRename(personID string) State {
	return s.setSelection(func(st *State) {
		if st.personIndex(personID) >= 0 {
			st.Selection.EditingPersonID = personID
		}
	})
}

func (s *Store) ClearSelection() State {
	return s.setSelection(func(st *State) { st.Selection = Selection{} })
}

func (s *Store) setSelection(fn func(*State)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.state.clone()
}
