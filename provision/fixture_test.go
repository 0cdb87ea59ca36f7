package provision_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/provision"
	"github.com/xy-planning-network/synkro/recordstore"
)

// The fixture:
//
//	UA owns a@x.com; U2 (editor) is its sub-account and UR's grant is revoked
//	UB owns b@y.com; U9 (editor) is its sub-account
//	U3 has signed up but belongs to no team
var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newFixtureStore(t *testing.T) *recordstore.Memory {
	t.Helper()

	m := recordstore.NewMemory()
	user := func(id, email, parent string) {
		fields := recordstore.Fields{access.FieldUserID: id, access.FieldUserEmail: email}
		if parent != "" {
			fields[access.FieldUserIsSubAccount] = true
			fields[access.FieldUserParentID] = parent
		}

		m.Put(access.TableUsers, recordstore.Record{ID: "rec" + id, Fields: fields})
	}

	grant := func(id, subject, parent, email string, role access.Role, status access.GrantStatus) {
		m.Put(access.TableGrants, recordstore.Record{ID: id, Fields: recordstore.Fields{
			access.FieldGrantSubject:  subject,
			access.FieldGrantParentID: parent,
			access.FieldGrantEmail:    email,
			access.FieldGrantRole:     role.String(),
			access.FieldGrantStatus:   status.String(),
		}})
	}

	event := func(id, owner, shared string) {
		fields := recordstore.Fields{access.FieldEventOwnerEmail: owner}
		if shared != "" {
			fields[access.FieldEventSharedWith] = shared
		}

		m.Put(access.TableEvents, recordstore.Record{ID: id, Fields: fields})
	}

	user("UA", "a@x.com", "")
	user("UB", "b@y.com", "")
	user("U2", "u2@x.com", "UA")
	user("U9", "u9@y.com", "UB")
	user("UR", "ur@x.com", "UA")
	user("U3", "u3@z.com", "")

	grant("recG2", "U2", "UA", "u2@x.com", access.RoleEditor, access.GrantActive)
	grant("recG9", "U9", "UB", "u9@y.com", access.RoleEditor, access.GrantActive)
	grant("recGR", "UR", "UA", "ur@x.com", access.RoleAdmin, access.GrantRevoked)

	event("recE1", "a@x.com", `[{"userId":"U9","permission":"viewer","sharedAt":"2024-04-01T10:00:00Z"}]`)
	event("recE2", "b@y.com", "")
	event("recE3", "a@x.com", `{not json`)

	return m
}

func quietLogger() logger.Logger {
	return logger.New(logger.WithLogger(log.New(io.Discard, "", 0)))
}

func newFixtureService(t *testing.T, store recordstore.Store) (*provision.Service, *access.Evaluator) {
	t.Helper()

	eval := access.NewEvaluator(store, access.WithLogger(quietLogger()))
	svc := provision.NewService(
		store,
		eval,
		provision.WithLogger(quietLogger()),
		provision.WithNow(func() time.Time { return fixedNow }),
	)

	return svc, eval
}

var errStoreDown = errors.New("store down")

// failingStore fails every Find against failOn.
type failingStore struct {
	*recordstore.Memory
	failOn string
}

func (f failingStore) Find(ctx context.Context, table string, formula recordstore.Formula) ([]recordstore.Record, error) {
	if f.failOn == table {
		return nil, errStoreDown
	}

	return f.Memory.Find(ctx, table, formula)
}
