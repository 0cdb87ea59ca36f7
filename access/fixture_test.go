package access_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/recordstore"
)

// The fixture team:
//
//	UA owns a@x.com; U2 (editor) and U5 (no role set) are its sub-accounts; UR's grant is revoked
//	UB owns b@y.com; U9 (editor) is its sub-account
//	UP's grant is still pending under UA
const (
	ownerA = "UA"
	ownerB = "UB"
	subU2  = "U2"
	subU5  = "U5"
	subU9  = "U9"
	subUR  = "UR"
	subUP  = "UP"
)

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

	grant := func(id, subject, parent string, role access.Role, status access.GrantStatus) {
		fields := recordstore.Fields{
			access.FieldGrantSubject:  subject,
			access.FieldGrantParentID: parent,
			access.FieldGrantStatus:   status.String(),
		}
		if role != "" {
			fields[access.FieldGrantRole] = role.String()
		}

		m.Put(access.TableGrants, recordstore.Record{ID: id, Fields: fields})
	}

	event := func(id, owner, shared string) {
		fields := recordstore.Fields{access.FieldEventOwnerEmail: owner, access.FieldEventTitle: "Event " + id}
		if shared != "" {
			fields[access.FieldEventSharedWith] = shared
		}

		m.Put(access.TableEvents, recordstore.Record{ID: id, Fields: fields})
	}

	user(ownerA, "a@x.com", "")
	user(ownerB, "b@y.com", "")
	user(subU2, "u2@x.com", ownerA)
	user(subU5, "u5@x.com", ownerA)
	user(subU9, "u9@y.com", ownerB)
	user(subUR, "ur@x.com", ownerA)
	user(subUP, "up@x.com", ownerA)

	grant("recG2", subU2, ownerA, access.RoleEditor, access.GrantActive)
	grant("recG5", subU5, ownerA, "", access.GrantActive)
	grant("recG9", subU9, ownerB, access.RoleEditor, access.GrantActive)
	grant("recGR", subUR, ownerA, access.RoleAdmin, access.GrantRevoked)
	grant("recGP", subUP, ownerA, access.RoleAdmin, access.GrantPending)

	event("recE1", "a@x.com", `[{"userId":"U9","permission":"viewer","sharedAt":"2024-05-01T10:00:00Z"},{"userId":"UR","permission":"admin"}]`)
	event("recE2", "b@y.com", "")
	event("recE3", "c@z.com", `{not json`)
	event("recE4", "c@z.com", `[{"userId":"U2","permission":"admin"},{"userId":"U99"}]`)
	event("recE5", "ur@x.com", "")
	event("recE6", "c@z.com", `[{"userId":"U5"}]`)
	event("recE7", "u2@x.com", `[{"userId":"U9","permission":"editor"}]`)

	return m
}

func quietLogger() logger.Logger {
	return logger.New(logger.WithLogger(log.New(io.Discard, "", 0)))
}

type failingStore struct {
	failOn string
	inner  access.IdentityStore
}

var errStoreDown = errors.New("store down")

func (f failingStore) Find(ctx context.Context, table string, formula recordstore.Formula) ([]recordstore.Record, error) {
	if f.failOn == "" || f.failOn == table {
		return nil, errStoreDown
	}

	return f.inner.Find(ctx, table, formula)
}

type countingObserver struct {
	decisions []access.Decision
}

func (o *countingObserver) ObserveDecision(d access.Decision) {
	o.decisions = append(o.decisions, d)
}
