package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/recordstore"
)

// A Resolver works out who a caller is from the Users and SubAccounts tables.
type Resolver struct {
	store  IdentityStore
	policy RevokedGrantPolicy
}

// NewResolver constructs a *Resolver reading from store.
// An invalid policy falls back to DefaultRevokedGrantPolicy.
func NewResolver(store IdentityStore, policy RevokedGrantPolicy) *Resolver {
	if policy.Valid() != nil {
		policy = DefaultRevokedGrantPolicy
	}

	return &Resolver{store: store, policy: policy}
}

// Policy returns the RevokedGrantPolicy the Resolver applies.
func (r *Resolver) Policy() RevokedGrantPolicy { return r.policy }

// ResolveAccount resolves callerID into an Account.
//
// A caller with no Users record resolves to an Account that does not exist;
// that is not an error.
//
// A caller flagged as a sub-account with a parent is only treated as one
// while an active grant under that parent names them.
// Without one, the Resolver's RevokedGrantPolicy applies.
//
// ResolveAccount returns an error wrapping synkro.ErrNotValid if callerID is empty
// and one wrapping synkro.ErrUpstream if the record store cannot be read.
func (r *Resolver) ResolveAccount(ctx context.Context, callerID string) (Account, error) {
	if callerID == "" {
		return Account{}, fmt.Errorf("%w: caller ID is required", synkro.ErrNotValid)
	}

	users, err := r.store.Find(ctx, TableUsers, recordstore.Eq{Field: FieldUserID, Value: callerID})
	if err != nil {
		return Account{}, fmt.Errorf("resolving account %s: %w", callerID, upstream(err))
	}

	if len(users) == 0 {
		return Account{ID: callerID}, nil
	}

	user := users[0]
	acct := Account{
		ID:     callerID,
		Exists: true,
		Email:  user.String(FieldUserEmail),
	}

	parentID := user.String(FieldUserParentID)
	if !user.Bool(FieldUserIsSubAccount) || parentID == "" {
		acct.Role = RoleOwner
		return acct, nil
	}

	grants, err := r.store.Find(ctx, TableGrants, recordstore.And{
		recordstore.Eq{Field: FieldGrantSubject, Value: callerID},
		recordstore.Eq{Field: FieldGrantParentID, Value: parentID},
		recordstore.Eq{Field: FieldGrantStatus, Value: GrantActive.String()},
	})
	if err != nil {
		return Account{}, fmt.Errorf("resolving grant for %s: %w", callerID, upstream(err))
	}

	if len(grants) > 0 {
		role := Role(grants[0].String(FieldGrantRole))
		if role == "" {
			role = RoleViewer
		}

		acct.IsSubAccount = true
		acct.ParentAccountID = parentID
		acct.Role = role
		return acct, nil
	}

	switch r.policy {
	case FallbackToOwner:
		acct.Role = RoleOwner
	default:
		acct.GrantInactive = true
	}

	return acct, nil
}

// upstream marks err as a failure of the record store,
// unless it is already marked or the context ended.
func upstream(err error) error {
	if errors.Is(err, synkro.ErrUpstream) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%w: %s", synkro.ErrUpstream, err)
}
