package access

import (
	"context"

	"github.com/xy-planning-network/synkro/recordstore"
)

//go:generate mockgen -destination=mock/identity_store.go github.com/xy-planning-network/synkro/access IdentityStore

// An IdentityStore finds the records access decisions are made from.
//
// Every lookup the Resolver and Evaluator make goes through Find,
// so any recordstore.Finder serves.
type IdentityStore interface {
	Find(ctx context.Context, table string, f recordstore.Formula) ([]recordstore.Record, error)
}
