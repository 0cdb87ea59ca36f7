package access

import "github.com/xy-planning-network/synkro/logger"

var _ logger.LogUser = Account{}

// An Account is what synkro knows about a caller.
//
// An Account is computed fresh on every call from the record store
// and is never cached.
type Account struct {
	// ID is the caller's external identity.
	ID string `json:"id"`

	// Exists is false for callers with no Users record, e.g., first-time callers.
	Exists bool `json:"exists"`

	IsSubAccount    bool   `json:"isSubAccount"`
	ParentAccountID string `json:"parentAccountId,omitempty"`

	// Role is owner for primary accounts and the grant's role for sub-accounts.
	// Role is empty when the caller has no standing, e.g., a revoked sub-account.
	Role  Role   `json:"role,omitempty"`
	Email string `json:"email,omitempty"`

	// GrantInactive marks a caller flagged as a sub-account
	// whose grant is no longer (or not yet) active.
	GrantInactive bool `json:"grantInactive,omitempty"`
}

// GetID implements logger.LogUser.
func (a Account) GetID() string { return a.ID }

// GetEmail implements logger.LogUser.
func (a Account) GetEmail() string { return a.Email }

// IsPrimary asserts whether the Account exists and acts for itself.
func (a Account) IsPrimary() bool {
	return a.Exists && !a.IsSubAccount && !a.GrantInactive
}
