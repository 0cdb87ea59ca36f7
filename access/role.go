package access

import (
	"fmt"

	"github.com/xy-planning-network/synkro"
)

var (
	_ synkro.Enumerable = Role("")
	_ synkro.Enumerable = Action("")
)

// A Role is the level of access a caller holds on an event.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) String() string { return string(r) }

func (r Role) Valid() error {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return nil
	default:
		return fmt.Errorf("%w: role %q", synkro.ErrNotValid, string(r))
	}
}

// An Action is something a caller can do to an event or their team.
type Action string

const (
	ActionView       Action = "view"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionShare      Action = "share"
	ActionManageTeam Action = "manage_team"
)

func (a Action) String() string { return string(a) }

func (a Action) Valid() error {
	switch a {
	case ActionView, ActionEdit, ActionDelete, ActionShare, ActionManageTeam:
		return nil
	default:
		return fmt.Errorf("%w: action %q", synkro.ErrNotValid, string(a))
	}
}

// matrix is the static set of actions each role allows.
var matrix = map[Role][]Action{
	RoleOwner:  {ActionView, ActionEdit, ActionDelete, ActionShare, ActionManageTeam},
	RoleAdmin:  {ActionView, ActionEdit, ActionDelete, ActionShare},
	RoleEditor: {ActionView, ActionEdit},
	RoleViewer: {ActionView},
}

// Allowed asserts whether role permits action.
//
// Unknown roles permit nothing; unknown actions are permitted by no role.
func Allowed(role Role, action Action) bool {
	for _, a := range matrix[role] {
		if a == action {
			return true
		}
	}

	return false
}

// Permissions lists the actions role permits, in a fixed order.
// Unknown roles permit nothing and an empty list returns.
func Permissions(role Role) []Action {
	actions := make([]Action, len(matrix[role]))
	copy(actions, matrix[role])
	return actions
}
