package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Load when no value is stored under the key.
var ErrNotFound = errors.New("not found")

// Keys of the two persisted board records.
const (
	PeopleKey  = "taskBoardPeople"
	WeightsKey = "taskBoardWeights"
)

// KV is a byte store holding full snapshots under string keys. Save replaces
// the previous value entirely.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
