package recordstore

import "context"

// A Finder retrieves every record in table matching the Formula.
//
// A nil Formula matches every record.
// Finding no records is not an error.
type Finder interface {
	Find(ctx context.Context, table string, f Formula) ([]Record, error)
}

// A Patcher updates the named fields of the record identified by id,
// leaving other fields untouched, and returns the updated record.
//
// Patching a record that does not exist returns an error wrapping synkro.ErrNotExist.
type Patcher interface {
	Patch(ctx context.Context, table, id string, fields Fields) (Record, error)
}

// A Creator inserts a new record into table.
type Creator interface {
	Create(ctx context.Context, table string, fields Fields) (Record, error)
}

// A Store can find, patch and create records.
type Store interface {
	Finder
	Patcher
	Creator
}
