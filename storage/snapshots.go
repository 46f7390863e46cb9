package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"workload-board/domain"
)

// ErrCorrupt marks a stored record that could not be decoded into a valid
// board.
var ErrCorrupt = errors.New("corrupt record")

// Snapshots persists the people list and the weight table as two independent
// JSON records on top of a KV.
type Snapshots struct {
	kv KV
}

func NewSnapshots(kv KV) *Snapshots {
	return &Snapshots{kv: kv}
}

// LoadPeople returns ErrNotFound when nothing is stored and ErrCorrupt when
// the stored record is not a valid people list. Stored scores are returned as
// is; callers recompute them.
func (s *Snapshots) LoadPeople(ctx context.Context) ([]domain.Person, error) {
	data, err := s.kv.Load(ctx, PeopleKey)
	if err != nil {
		return nil, err
	}
	return decodePeople(data)
}

// LoadWeights returns ErrNotFound when nothing is stored and ErrCorrupt when
// the record cannot be decoded. Completeness is left to the caller.
func (s *Snapshots) LoadWeights(ctx context.Context) (domain.WeightTable, error) {
	data, err := s.kv.Load(ctx, WeightsKey)
	if err != nil {
		return nil, err
	}
	var table domain.WeightTable
	if err := sonic.ConfigStd.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: weights: %v", ErrCorrupt, err)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: weights: null", ErrCorrupt)
	}
	return table, nil
}

func (s *Snapshots) SavePeople(ctx context.Context, people []domain.Person) error {
	data, err := encodePeople(people)
	if err != nil {
		return err
	}
	return s.kv.Save(ctx, PeopleKey, data)
}

func (s *Snapshots) SaveWeights(ctx context.Context, table domain.WeightTable) error {
	data, err := sonic.ConfigStd.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	return s.kv.Save(ctx, WeightsKey, data)
}

// Clear removes both records.
func (s *Snapshots) Clear(ctx context.Context) error {
	return errors.Join(s.kv.Delete(ctx, PeopleKey), s.kv.Delete(ctx, WeightsKey))
}

func encodePeople(people []domain.Person) ([]byte, error) {
	if people == nil {
		people = []domain.Person{}
	}
	data, err := sonic.ConfigStd.Marshal(people)
	if err != nil {
		return nil, fmt.Errorf("encode people: %w", err)
	}
	return data, nil
}

func decodePeople(data []byte) ([]domain.Person, error) {
	var people []domain.Person
	if err := sonic.ConfigStd.Unmarshal(data, &people); err != nil {
		return nil, fmt.Errorf("%w: people: %v", ErrCorrupt, err)
	}
	if people == nil {
		return nil, fmt.Errorf("%w: people: null", ErrCorrupt)
	}
	if err := validatePeople(people); err != nil {
		return nil, fmt.Errorf("%w: people: %v", ErrCorrupt, err)
	}
	return people, nil
}

func validatePeople(people []domain.Person) error {
	ids := make(map[string]bool, len(people))
	for i := range people {
		p := &people[i]
		if p.ID == "" || ids[p.ID] {
			return fmt.Errorf("person %d: missing or duplicate id %q", i, p.ID)
		}
		ids[p.ID] = true
		if _, err := domain.NewPerson(p.ID, p.Name, p.Level); err != nil {
			return fmt.Errorf("person %s: %w", p.ID, err)
		}
		if p.Tasks == nil {
			p.Tasks = []domain.Task{}
		}
		taskIDs := make(map[string]bool, len(p.Tasks))
		for _, t := range p.Tasks {
			if t.ID == "" || taskIDs[t.ID] {
				return fmt.Errorf("person %s: missing or duplicate task id %q", p.ID, t.ID)
			}
			taskIDs[t.ID] = true
			if _, err := domain.NewTask(t.ID, t.Title, t.Estimation, t.Color); err != nil {
				return fmt.Errorf("task %s: %w", t.ID, err)
			}
		}
	}
	return nil
}
