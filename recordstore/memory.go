package recordstore

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/xy-planning-network/synkro"
)

var _ Store = (*Memory)(nil)

// Memory is a Store keeping records in memory.
//
// Memory suits development environments and tests;
// restarting the process discards every record.
type Memory struct {
	mu      sync.RWMutex
	tables  map[string]map[string]Record
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
	finds   int
}

// NewMemory constructs an empty *Memory.
func NewMemory() *Memory {
	return &Memory{
		tables:  make(map[string]map[string]Record),
		now:     func() time.Time { return time.Now().UTC() },
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Find returns the records in table matching f,
// ordered by creation time and then ID.
func (m *Memory) Find(ctx context.Context, table string, f Formula) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f == nil {
		f = All{}
	}

	m.mu.Lock()
	m.finds++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make([]Record, 0)
	for _, rec := range m.tables[table] {
		if f.Matches(rec) {
			found = append(found, copyRecord(rec))
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].CreatedTime.Equal(found[j].CreatedTime) {
			return found[i].ID < found[j].ID
		}

		return found[i].CreatedTime.Before(found[j].CreatedTime)
	})

	return found, nil
}

// Patch merges fields into the record, clearing those set to nil.
func (m *Memory) Patch(ctx context.Context, table, id string, fields Fields) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tables[table][id]
	if !ok {
		return Record{}, fmt.Errorf("%w: no record %s in %s", synkro.ErrNotExist, id, table)
	}

	rec = copyRecord(rec)
	for k, v := range fields {
		if v == nil {
			delete(rec.Fields, k)
			continue
		}

		rec.Fields[k] = v
	}

	m.tables[table][id] = rec
	return copyRecord(rec), nil
}

// Create inserts a record with a new, sortable ID.
func (m *Memory) Create(ctx context.Context, table string, fields Fields) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec := Record{
		ID:          "rec" + ulid.MustNew(ulid.Timestamp(now), m.entropy).String(),
		CreatedTime: now,
		Fields:      make(Fields, len(fields)),
	}
	for k, v := range fields {
		if v != nil {
			rec.Fields[k] = v
		}
	}

	if m.tables[table] == nil {
		m.tables[table] = make(map[string]Record)
	}

	m.tables[table][rec.ID] = rec
	return copyRecord(rec), nil
}

// Put inserts or replaces rec as is, keeping its ID.
// Put helps seed a Memory with fixtures.
func (m *Memory) Put(table string, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.CreatedTime.IsZero() {
		rec.CreatedTime = m.now()
	}

	if m.tables[table] == nil {
		m.tables[table] = make(map[string]Record)
	}

	m.tables[table][rec.ID] = copyRecord(rec)
}

// Finds reports how many times Find has been called.
func (m *Memory) Finds() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.finds
}

func copyRecord(rec Record) Record {
	fields := make(Fields, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}

	rec.Fields = fields
	return rec
}
