package access

import (
	"fmt"
	"time"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/recordstore"
)

var _ synkro.Enumerable = GrantStatus("")

// A GrantStatus is where a Grant is in its lifecycle.
// Only an active Grant makes its subject a sub-account.
type GrantStatus string

const (
	GrantPending GrantStatus = "pending"
	GrantActive  GrantStatus = "active"
	GrantRevoked GrantStatus = "revoked"
)

func (s GrantStatus) String() string { return string(s) }

func (s GrantStatus) Valid() error {
	switch s {
	case GrantPending, GrantActive, GrantRevoked:
		return nil
	default:
		return fmt.Errorf("%w: grant status %q", synkro.ErrNotValid, string(s))
	}
}

// A Grant authorizes Subject to act as a sub-account of ParentAccountID.
type Grant struct {
	ID              string      `json:"id"`
	ParentAccountID string      `json:"parentAccountId"`
	Subject         string      `json:"subject,omitempty"`
	Email           string      `json:"email,omitempty"`
	Role            Role        `json:"role,omitempty"`
	Status          GrantStatus `json:"status"`
	InvitedAt       time.Time   `json:"invitedAt"`
	AcceptedAt      time.Time   `json:"acceptedAt"`
}

// GrantFromRecord reads a Grant out of a SubAccounts record.
func GrantFromRecord(rec recordstore.Record) Grant {
	return Grant{
		ID:              rec.ID,
		ParentAccountID: rec.String(FieldGrantParentID),
		Subject:         rec.String(FieldGrantSubject),
		Email:           rec.String(FieldGrantEmail),
		Role:            Role(rec.String(FieldGrantRole)),
		Status:          GrantStatus(rec.String(FieldGrantStatus)),
		InvitedAt:       rec.Time(FieldGrantInvitedAt),
		AcceptedAt:      rec.Time(FieldGrantAcceptedAt),
	}
}
