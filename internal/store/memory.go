package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

// Memory is an in-process Store used by unit tests. Records are cloned on the
// way in and out so callers cannot mutate stored state behind its back.
// The optional hook fields inject failures into individual operations.
type Memory struct {
	mu   sync.Mutex
	data map[model.Kind]map[string]model.Record

	// DeleteHook, when set, runs before every delete and can abort it.
	DeleteHook func(kind model.Kind, id string) error
}

func NewMemory() *Memory {
	return &Memory{data: map[model.Kind]map[string]model.Record{}}
}

// memView operates on the parent's maps without locking; it exists so that
// InTx callbacks can reuse the same code paths under the already-held lock.
type memView struct {
	m *Memory
}

func (m *Memory) Create(ctx context.Context, rec model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).Create(ctx, rec)
}

func (m *Memory) Get(ctx context.Context, kind model.Kind, id string) (model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).Get(ctx, kind, id)
}

func (m *Memory) FindBy(ctx context.Context, kind model.Kind, field, value string) (model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).FindBy(ctx, kind, field, value)
}

func (m *Memory) List(ctx context.Context, kind model.Kind, q Query) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).List(ctx, kind, q)
}

func (m *Memory) Count(ctx context.Context, kind model.Kind, q Query) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).Count(ctx, kind, q)
}

func (m *Memory) Update(ctx context.Context, rec model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).Update(ctx, rec)
}

func (m *Memory) Delete(ctx context.Context, kind model.Kind, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memView{m}).Delete(ctx, kind, id)
}

// InTx snapshots all data, runs fn on an unlocked view and restores the
// snapshot if fn fails, giving tests real rollback semantics.
func (m *Memory) InTx(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := map[model.Kind]map[string]model.Record{}
	for kind, recs := range m.data {
		cp := make(map[string]model.Record, len(recs))
		for id, rec := range recs {
			cp[id] = rec.Clone()
		}
		snapshot[kind] = cp
	}

	if err := fn(&memView{m}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

func (v *memView) bucket(kind model.Kind) map[string]model.Record {
	b, ok := v.m.data[kind]
	if !ok {
		b = map[string]model.Record{}
		v.m.data[kind] = b
	}
	return b
}

func (v *memView) Create(ctx context.Context, rec model.Record) error {
	b := v.bucket(rec.Kind())
	id := rec.Env().ID
	if id == "" {
		return fmt.Errorf("create %s: missing id", rec.Kind())
	}
	if _, exists := b[id]; exists {
		return fmt.Errorf("create %s: id %s already exists", rec.Kind(), id)
	}
	b[id] = rec.Clone()
	return nil
}

func (v *memView) Get(ctx context.Context, kind model.Kind, id string) (model.Record, error) {
	rec, ok := v.bucket(kind)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (v *memView) FindBy(ctx context.Context, kind model.Kind, field, value string) (model.Record, error) {
	for _, rec := range v.bucket(kind) {
		if !rec.Env().Active {
			continue
		}
		if got, ok := fieldValue(rec, field); ok && got == value {
			return rec.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (v *memView) List(ctx context.Context, kind model.Kind, q Query) ([]model.Record, error) {
	var out []model.Record
	for _, rec := range v.bucket(kind) {
		if matches(rec, q) {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Env(), out[j].Env()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (v *memView) Count(ctx context.Context, kind model.Kind, q Query) (int, error) {
	n := 0
	for _, rec := range v.bucket(kind) {
		if matches(rec, q) {
			n++
		}
	}
	return n, nil
}

func (v *memView) Update(ctx context.Context, rec model.Record) error {
	b := v.bucket(rec.Kind())
	id := rec.Env().ID
	if _, ok := b[id]; !ok {
		return ErrNotFound
	}
	b[id] = rec.Clone()
	return nil
}

func (v *memView) Delete(ctx context.Context, kind model.Kind, id string) (bool, error) {
	if v.m.DeleteHook != nil {
		if err := v.m.DeleteHook(kind, id); err != nil {
			return false, err
		}
	}
	b := v.bucket(kind)
	if _, ok := b[id]; !ok {
		return false, nil
	}
	delete(b, id)
	return true, nil
}

func (v *memView) InTx(ctx context.Context, fn func(Store) error) error {
	// Already inside a transaction; nested calls join it.
	return fn(v)
}

func fieldValue(rec model.Record, field string) (string, bool) {
	switch field {
	case "id":
		return rec.Env().ID, true
	}
	got, ok := rec.Fields()[field]
	return got, ok
}

func matches(rec model.Record, q Query) bool {
	if !q.IncludeInactive && !rec.Env().Active {
		return false
	}
	for _, f := range q.Filters {
		got, ok := fieldValue(rec, f.Field)
		if !ok {
			return false
		}
		if f.Not {
			if got == f.Value {
				return false
			}
		} else if got != f.Value {
			return false
		}
	}
	return true
}
