package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	v10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/recordstore"
)

// FieldGrantInviteID holds the public identifier of the invite a grant was made from.
const FieldGrantInviteID = "invite_id"

// An Authorizer decides what callers can do.
//
// *access.Evaluator implements Authorizer.
type Authorizer interface {
	ResolveAccount(ctx context.Context, callerID string) (access.Account, error)
	CanPerformAction(ctx context.Context, callerID, eventID string, action access.Action) access.ActionDecision
}

// A Service shares events and manages teams.
type Service struct {
	store recordstore.Store
	auth  Authorizer
	log   logger.Logger
	now   func() time.Time
	valid *v10.Validate
}

// A ServiceOptFn configures a Service when constructing one.
type ServiceOptFn func(*Service)

// WithLogger sets the logger.Logger the Service reports through.
func WithLogger(l logger.Logger) ServiceOptFn {
	return func(s *Service) {
		s.log = l
	}
}

// WithNow replaces time.Now for stamping shares and grants.
func WithNow(now func() time.Time) ServiceOptFn {
	return func(s *Service) {
		s.now = now
	}
}

// NewService constructs a *Service writing to store and deciding with auth.
func NewService(store recordstore.Store, auth Authorizer, opts ...ServiceOptFn) *Service {
	s := &Service{store: store, auth: auth, now: time.Now, valid: v10.New()}
	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.New()
	}

	return s
}

// requireAction returns an error unless callerID can perform action on eventID.
//
// The error wraps synkro.ErrNotExist for events that do not exist,
// the failure itself for lookups that failed,
// and synkro.ErrForbidden otherwise.
func (s *Service) requireAction(ctx context.Context, callerID, eventID string, action access.Action) error {
	ad := s.auth.CanPerformAction(ctx, callerID, eventID, action)
	if ad.CanPerform {
		return nil
	}

	switch ad.Reason {
	case access.ReasonMissingParams, access.ReasonResourceNotFound, access.ReasonLookupError:
		if ad.Err != nil {
			return ad.Err
		}
	}

	return fmt.Errorf("%w: %s cannot %s %s: %s", synkro.ErrForbidden, callerID, action, eventID, ad.Reason)
}

// requireTeamOwner resolves callerID, returning an error unless they can manage a team.
func (s *Service) requireTeamOwner(ctx context.Context, callerID string) (access.Account, error) {
	acct, err := s.auth.ResolveAccount(ctx, callerID)
	if err != nil {
		return access.Account{}, err
	}

	if !acct.Exists {
		return access.Account{}, fmt.Errorf("%w: caller %s", synkro.ErrNotExist, callerID)
	}

	if !acct.IsPrimary() || !access.Allowed(acct.Role, access.ActionManageTeam) {
		return access.Account{}, fmt.Errorf("%w: %s cannot %s", synkro.ErrForbidden, callerID, access.ActionManageTeam)
	}

	return acct, nil
}

// findOne fetches the single record in table matching f.
func (s *Service) findOne(ctx context.Context, table string, f recordstore.Formula) (recordstore.Record, error) {
	recs, err := s.store.Find(ctx, table, f)
	if err != nil {
		return recordstore.Record{}, upstream(err)
	}

	if len(recs) == 0 {
		return recordstore.Record{}, fmt.Errorf("%w: %s where %s", synkro.ErrNotExist, table, f)
	}

	return recs[0], nil
}

// upstream marks err as a failure of the record store,
// unless it is already marked or the context ended.
func upstream(err error) error {
	if errors.Is(err, synkro.ErrUpstream) ||
		errors.Is(err, synkro.ErrNotExist) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%w: %s", synkro.ErrUpstream, err)
}

// grantableRole asserts role can be handed to someone else.
func grantableRole(role access.Role) error {
	if err := role.Valid(); err != nil {
		return err
	}

	if role == access.RoleOwner {
		return fmt.Errorf("%w: role %s cannot be granted", synkro.ErrNotValid, role)
	}

	return nil
}

func newInviteID() string { return uuid.NewString() }
