package api

import (
	"context"

	"workload-board/board"
	"workload-board/domain"
)

// Board is the task board the handlers drive. *board.Store implements it.
type Board interface {
	State() board.State
	AddPerson(ctx context.Context, name string, level domain.Level) (board.State, error)
	RenamePerson(ctx context.Context, id, name string) (board.State, error)
	ChangeLevel(ctx context.Context, id string, level domain.Level) (board.State, error)
	DeletePerson(ctx context.Context, id string) (board.State, error)
	MovePerson(ctx context.Context, index int, dir domain.Direction) (board.State, error)
	AddTask(ctx context.Context, personID, title string, estimation domain.EstimationSize, color string) (board.State, error)
	UpdateTask(ctx context.Context, personID, taskID, title string, estimation domain.EstimationSize, color string) (board.State, error)
	DeleteTask(ctx context.Context, personID, taskID string) (board.State, error)
	ReorderTasks(ctx context.Context, personID, fromTaskID, toTaskID string) (board.State, error)
	SaveWeights(ctx context.Context, table domain.WeightTable) (board.State, error)
	ResetToDefaults(ctx context.Context) (board.State, error)
	SelectPerson(personID string) board.State
	BeginTaskEdit(personID, taskID string) board.State
	BeginRename(personID string) board.State
	ClearSelection() board.State
}

// Deduper prevents a drag gesture from being applied twice.
type Deduper interface {
	// Add records the gesture id and returns true if it was newly added.
	Add(ctx context.Context, scope, key string) (bool, error)
	// Remove deletes a previously added id, used when applying the gesture fails.
	Remove(ctx context.Context, scope, key string) error
}
