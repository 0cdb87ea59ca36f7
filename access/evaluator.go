package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/recordstore"
)

// An Evaluator decides what callers can do with events.
//
// An Evaluator holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	store    IdentityStore
	resolver *Resolver
	log      logger.Logger
	observer Observer
	policy   RevokedGrantPolicy
}

// An EvaluatorOptFn configures an Evaluator when constructing one.
type EvaluatorOptFn func(*Evaluator)

// WithLogger sets the logger.Logger the Evaluator reports recovered failures to.
func WithLogger(l logger.Logger) EvaluatorOptFn {
	return func(e *Evaluator) {
		e.log = l
	}
}

// WithObserver sets an Observer told about every Decision.
func WithObserver(o Observer) EvaluatorOptFn {
	return func(e *Evaluator) {
		e.observer = o
	}
}

// WithRevokedGrantPolicy sets how callers with an inactive grant resolve.
func WithRevokedGrantPolicy(p RevokedGrantPolicy) EvaluatorOptFn {
	return func(e *Evaluator) {
		e.policy = p
	}
}

// NewEvaluator constructs an *Evaluator reading from store.
func NewEvaluator(store IdentityStore, opts ...EvaluatorOptFn) *Evaluator {
	e := &Evaluator{store: store, policy: DefaultRevokedGrantPolicy}
	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		e.log = logger.New()
	}

	e.resolver = NewResolver(store, e.policy)
	return e
}

// ResolveAccount resolves callerID into an Account; see [Resolver.ResolveAccount].
func (e *Evaluator) ResolveAccount(ctx context.Context, callerID string) (Account, error) {
	return e.resolver.ResolveAccount(ctx, callerID)
}

// Event fetches the event by its record ID.
// Event returns an error wrapping synkro.ErrNotExist if there is no such event.
func (e *Evaluator) Event(ctx context.Context, eventID string) (Event, error) {
	if eventID == "" {
		return Event{}, fmt.Errorf("%w: event ID is required", synkro.ErrNotValid)
	}

	recs, err := e.store.Find(ctx, TableEvents, recordstore.RecordID(eventID))
	if err != nil {
		return Event{}, fmt.Errorf("fetching event %s: %w", eventID, upstream(err))
	}

	if len(recs) == 0 {
		return Event{}, fmt.Errorf("%w: event %s", synkro.ErrNotExist, eventID)
	}

	return EventFromRecord(recs[0]), nil
}

// CanAccessEvent decides whether callerID can access the event.
//
// CanAccessEvent never fails: every problem along the way is a denial,
// with Decision.Err holding the cause.
// Missing parameters deny without reading the record store.
func (e *Evaluator) CanAccessEvent(ctx context.Context, callerID, eventID string) Decision {
	d := e.canAccessEvent(ctx, callerID, eventID)
	if e.observer != nil {
		e.observer.ObserveDecision(d)
	}

	return d
}

func (e *Evaluator) canAccessEvent(ctx context.Context, callerID, eventID string) Decision {
	if callerID == "" || eventID == "" {
		return deny(ReasonMissingParams, fmt.Errorf("%w: caller ID and resource ID are required", synkro.ErrNotValid))
	}

	ev, err := e.Event(ctx, eventID)
	if errors.Is(err, synkro.ErrNotExist) {
		return deny(ReasonResourceNotFound, err)
	}

	if err != nil {
		return deny(ReasonLookupError, err)
	}

	acct, err := e.resolver.ResolveAccount(ctx, callerID)
	if err != nil {
		return deny(ReasonLookupError, err)
	}

	if !acct.Exists {
		return deny(ReasonCallerNotFound, fmt.Errorf("%w: caller %s", synkro.ErrNotExist, callerID))
	}

	parent := func() (Account, error) {
		return e.resolver.ResolveAccount(ctx, acct.ParentAccountID)
	}

	return e.evaluate(acct, ev, parent)
}

// evaluate applies the access rules, in order, to an event
// for a caller whose Account exists.
//
// parent is only called for sub-accounts the owner rule did not match.
func (e *Evaluator) evaluate(acct Account, ev Event, parent func() (Account, error)) Decision {
	if acct.Email != "" && ev.OwnerEmail == acct.Email {
		return Decision{CanAccess: true, Permission: RoleOwner}
	}

	// An inactive grant delegates nothing; only the owner rule applies.
	if acct.GrantInactive {
		return deny(ReasonGrantInactive, fmt.Errorf("%w: caller %s has no active grant", synkro.ErrForbidden, acct.ID))
	}

	if !acct.IsSubAccount {
		return deny(ReasonNotAuthorized, nil)
	}

	p, err := parent()
	if err != nil {
		return deny(ReasonLookupError, err)
	}

	if p.Exists && p.Email != "" && ev.OwnerEmail == p.Email {
		return Decision{CanAccess: true, Permission: acct.Role, ViaParent: true}
	}

	shares, err := DecodeShares(ev.SharedWith)
	if err != nil {
		e.log.Warn("treating malformed shared_with as empty", &logger.LogContext{
			Data:  map[string]any{"event": ev.ID},
			Error: err,
			User:  acct,
		})
	}

	if s, ok := FindShare(shares, acct.ID); ok {
		perm := s.Permission
		if perm == "" {
			perm = acct.Role
		}

		return Decision{CanAccess: true, Permission: perm, ViaSharing: true}
	}

	return deny(ReasonNotAuthorized, nil)
}

// CanPerformAction decides whether callerID can perform action on the event.
//
// Access is decided by CanAccessEvent, then action must be in the set
// the resulting permission allows.
// Unknown actions are denied.
func (e *Evaluator) CanPerformAction(ctx context.Context, callerID, eventID string, action Action) ActionDecision {
	d := e.CanAccessEvent(ctx, callerID, eventID)
	ad := ActionDecision{Decision: d, Action: action, Actions: Permissions(d.Permission)}
	if !d.CanAccess {
		return ad
	}

	if !Allowed(d.Permission, action) {
		ad.Reason = ReasonActionDenied
		return ad
	}

	ad.CanPerform = true
	return ad
}

// AccessibleEvents lists every event callerID can access.
//
// The listing comes from a single query covering the caller's own events,
// their parent's events and events shared with them.
// Each event the query returns is then checked with the same rules CanAccessEvent applies,
// so the listing matches per-event decisions exactly.
//
// Callers that do not exist can access nothing.
// Callers holding an inactive grant only see events they own.
func (e *Evaluator) AccessibleEvents(ctx context.Context, callerID string) ([]Event, error) {
	acct, err := e.resolver.ResolveAccount(ctx, callerID)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0)
	if !acct.Exists {
		return events, nil
	}

	var (
		p      Account
		filter recordstore.Or
	)
	if acct.Email != "" {
		filter = append(filter, recordstore.Eq{Field: FieldEventOwnerEmail, Value: acct.Email})
	}

	if acct.IsSubAccount {
		p, err = e.resolver.ResolveAccount(ctx, acct.ParentAccountID)
		if err != nil {
			return nil, err
		}

		if p.Exists && p.Email != "" {
			filter = append(filter, recordstore.Eq{Field: FieldEventOwnerEmail, Value: p.Email})
		}

		filter = append(filter, recordstore.Contains{Field: FieldEventSharedWith, Substr: callerID})
	}

	if len(filter) == 0 {
		return events, nil
	}

	recs, err := e.store.Find(ctx, TableEvents, filter)
	if err != nil {
		return nil, fmt.Errorf("listing events for %s: %w", callerID, upstream(err))
	}

	parent := func() (Account, error) { return p, nil }
	for _, rec := range recs {
		ev := EventFromRecord(rec)
		if e.evaluate(acct, ev, parent).CanAccess {
			events = append(events, ev)
		}
	}

	return events, nil
}
