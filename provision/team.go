package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/recordstore"
)

// InviteMember invites whoever holds email to join the team of callerID with role.
// The invite is a pending grant until AcceptInvite activates it.
//
// callerID must be a primary account, which can manage their team.
// role must be a valid Role other than owner.
// Inviting an email with a pending or active grant on the team is not valid.
func (s *Service) InviteMember(ctx context.Context, callerID, email string, role access.Role) (access.Grant, error) {
	if err := s.valid.Var(email, "required,email"); err != nil {
		return access.Grant{}, fmt.Errorf("%w: email %q", synkro.ErrNotValid, email)
	}

	if err := grantableRole(role); err != nil {
		return access.Grant{}, err
	}

	acct, err := s.requireTeamOwner(ctx, callerID)
	if err != nil {
		return access.Grant{}, err
	}

	if email == acct.Email {
		return access.Grant{}, fmt.Errorf("%w: cannot invite oneself", synkro.ErrNotValid)
	}

	existing, err := s.store.Find(ctx, access.TableGrants, recordstore.And{
		recordstore.Eq{Field: access.FieldGrantParentID, Value: callerID},
		recordstore.Eq{Field: access.FieldGrantEmail, Value: email},
	})
	if err != nil {
		return access.Grant{}, fmt.Errorf("finding invites for %s: %w", email, upstream(err))
	}

	for _, rec := range existing {
		if g := access.GrantFromRecord(rec); g.Status != access.GrantRevoked {
			return access.Grant{}, fmt.Errorf("%w: %s already has a %s grant %s", synkro.ErrNotValid, email, g.Status, g.ID)
		}
	}

	rec, err := s.store.Create(ctx, access.TableGrants, recordstore.Fields{
		access.FieldGrantParentID:  callerID,
		access.FieldGrantEmail:     email,
		access.FieldGrantRole:      role.String(),
		access.FieldGrantStatus:    access.GrantPending.String(),
		access.FieldGrantInvitedAt: s.timestamp(),
		FieldGrantInviteID:         newInviteID(),
	})
	if err != nil {
		return access.Grant{}, fmt.Errorf("creating invite for %s: %w", email, upstream(err))
	}

	return access.GrantFromRecord(rec), nil
}

// AcceptInvite activates the pending grant on behalf of callerID, who it was sent to,
// making callerID a sub-account of the inviting team.
//
// callerID must have a Users record whose email the invite was sent to,
// and must not already belong to a team.
func (s *Service) AcceptInvite(ctx context.Context, callerID, grantID string) (access.Grant, error) {
	if callerID == "" || grantID == "" {
		return access.Grant{}, fmt.Errorf("%w: caller ID and grant ID are required", synkro.ErrNotValid)
	}

	grantRec, err := s.findOne(ctx, access.TableGrants, recordstore.RecordID(grantID))
	if err != nil {
		return access.Grant{}, err
	}

	g := access.GrantFromRecord(grantRec)
	if g.Status != access.GrantPending {
		return access.Grant{}, fmt.Errorf("%w: grant %s is %s", synkro.ErrNotValid, grantID, g.Status)
	}

	if g.ParentAccountID == callerID {
		return access.Grant{}, fmt.Errorf("%w: cannot join one's own team", synkro.ErrNotValid)
	}

	userRec, err := s.findOne(ctx, access.TableUsers, recordstore.Eq{Field: access.FieldUserID, Value: callerID})
	if err != nil {
		return access.Grant{}, err
	}

	if userRec.String(access.FieldUserEmail) == "" || userRec.String(access.FieldUserEmail) != g.Email {
		return access.Grant{}, fmt.Errorf("%w: grant %s was not sent to %s", synkro.ErrForbidden, grantID, callerID)
	}

	acct, err := s.auth.ResolveAccount(ctx, callerID)
	if err != nil {
		return access.Grant{}, err
	}

	if acct.IsSubAccount {
		return access.Grant{}, fmt.Errorf("%w: %s already belongs to team %s", synkro.ErrNotValid, callerID, acct.ParentAccountID)
	}

	// The user record goes first: a user flagged without an active grant
	// resolves under the RevokedGrantPolicy, never as a sub-account.
	if _, err := s.store.Patch(ctx, access.TableUsers, userRec.ID, recordstore.Fields{
		access.FieldUserIsSubAccount: true,
		access.FieldUserParentID:     g.ParentAccountID,
	}); err != nil {
		return access.Grant{}, fmt.Errorf("joining %s to team %s: %w", callerID, g.ParentAccountID, upstream(err))
	}

	rec, err := s.store.Patch(ctx, access.TableGrants, grantID, recordstore.Fields{
		access.FieldGrantSubject:    callerID,
		access.FieldGrantStatus:     access.GrantActive.String(),
		access.FieldGrantAcceptedAt: s.timestamp(),
	})
	if err != nil {
		return access.Grant{}, fmt.Errorf("activating grant %s: %w", grantID, upstream(err))
	}

	return access.GrantFromRecord(rec), nil
}

// RevokeMember revokes the grant on behalf of callerID, whose team it belongs to.
// Revoking a revoked grant changes nothing.
func (s *Service) RevokeMember(ctx context.Context, callerID, grantID string) (access.Grant, error) {
	if grantID == "" {
		return access.Grant{}, fmt.Errorf("%w: grant ID is required", synkro.ErrNotValid)
	}

	if _, err := s.requireTeamOwner(ctx, callerID); err != nil {
		return access.Grant{}, err
	}

	rec, err := s.findOne(ctx, access.TableGrants, recordstore.RecordID(grantID))
	if err != nil {
		return access.Grant{}, err
	}

	g := access.GrantFromRecord(rec)
	if g.ParentAccountID != callerID {
		return access.Grant{}, fmt.Errorf("%w: grant %s is not on the team of %s", synkro.ErrForbidden, grantID, callerID)
	}

	if g.Status == access.GrantRevoked {
		return g, nil
	}

	rec, err = s.store.Patch(ctx, access.TableGrants, grantID, recordstore.Fields{
		access.FieldGrantStatus: access.GrantRevoked.String(),
	})
	if err != nil {
		return access.Grant{}, fmt.Errorf("revoking grant %s: %w", grantID, upstream(err))
	}

	return access.GrantFromRecord(rec), nil
}

// ListMembers lists every grant on the team of callerID, whatever its status.
func (s *Service) ListMembers(ctx context.Context, callerID string) ([]access.Grant, error) {
	if _, err := s.requireTeamOwner(ctx, callerID); err != nil {
		return nil, err
	}

	recs, err := s.store.Find(ctx, access.TableGrants, recordstore.Eq{Field: access.FieldGrantParentID, Value: callerID})
	if err != nil {
		return nil, fmt.Errorf("listing team of %s: %w", callerID, upstream(err))
	}

	grants := make([]access.Grant, 0, len(recs))
	for _, rec := range recs {
		grants = append(grants, access.GrantFromRecord(rec))
	}

	return grants, nil
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
