package pgstore

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/recordstore"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ recordstore.Store = (*Store)(nil)

	lockForUpdate = clause.Locking{Strength: "UPDATE"}
)

// Store is a recordstore.Store backed by PostgreSQL.
type Store struct {
	// *gorm.DB methods that do not call getInstance mutate it,
	// so every query starts from a fresh Session.
	db *gorm.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New constructs a *Store from a *gorm.DB that has run Migrations.
func New(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (s *Store) query(ctx context.Context, table string) *gorm.DB {
	return s.db.Session(&gorm.Session{NewDB: true}).WithContext(ctx).Model(new(row)).Where("table_name = ?", table)
}

// Find returns the records in table matching f,
// ordered by creation time and then ID.
func (s *Store) Find(ctx context.Context, table string, f recordstore.Formula) ([]recordstore.Record, error) {
	clause, args, err := toSQL(f)
	if err != nil {
		return nil, err
	}

	var rows []row
	err = s.query(ctx, table).Where(clause, args...).Order("created_at, id").Find(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}

	recs := make([]recordstore.Record, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, fmt.Errorf("%w: record %s: %s", synkro.ErrParse, r.ID, err)
		}

		recs = append(recs, rec)
	}

	return recs, nil
}

// Patch merges fields into the record's fields; nil values clear a field.
func (s *Store) Patch(ctx context.Context, table, id string, fields recordstore.Fields) (recordstore.Record, error) {
	if id == "" {
		return recordstore.Record{}, fmt.Errorf("%w: record ID is required", synkro.ErrMissingData)
	}

	var rec recordstore.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r row
		err := tx.Where("table_name = ? AND id = ?", table, id).Clauses(lockForUpdate).First(&r).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: record %s in %s", synkro.ErrNotExist, id, table)
		}

		if err != nil {
			return wrap(err)
		}

		rec, err = r.record()
		if err != nil {
			return fmt.Errorf("%w: record %s: %s", synkro.ErrParse, id, err)
		}

		for k, v := range fields {
			if v == nil {
				delete(rec.Fields, k)
				continue
			}

			rec.Fields[k] = v
		}

		b, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("%w: %s", synkro.ErrNotValid, err)
		}

		return wrap(tx.Model(&r).Update("fields", b).Error)
	})
	if err != nil {
		return recordstore.Record{}, err
	}

	return rec, nil
}

// Create inserts a record with a new ID into table.
func (s *Store) Create(ctx context.Context, table string, fields recordstore.Fields) (recordstore.Record, error) {
	if fields == nil {
		fields = make(recordstore.Fields)
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return recordstore.Record{}, fmt.Errorf("%w: %s", synkro.ErrNotValid, err)
	}

	r := row{ID: s.newID(), Table: table, Fields: b}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return recordstore.Record{}, wrap(err)
	}

	return r.record()
}

func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return "rec" + ulid.MustNew(ulid.Now(), s.entropy).String()
}

// wrap classifies err from PostgreSQL.
func wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", synkro.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: %s", synkro.ErrUpstream, err)
	}
}
