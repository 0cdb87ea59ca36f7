package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/recordstore"
)

// ShareEvent gives userID permission on the event, on behalf of callerID.
// Sharing with someone the event is already shared with replaces their permission.
//
// callerID must be able to share the event.
// permission must be a valid Role other than owner.
// ShareEvent returns the event's sharing list as saved.
func (s *Service) ShareEvent(ctx context.Context, callerID, eventID, userID string, permission access.Role) ([]access.Share, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", synkro.ErrNotValid)
	}

	if userID == callerID {
		return nil, fmt.Errorf("%w: cannot share with oneself", synkro.ErrNotValid)
	}

	if err := grantableRole(permission); err != nil {
		return nil, err
	}

	if err := s.requireAction(ctx, callerID, eventID, access.ActionShare); err != nil {
		return nil, err
	}

	shares, err := s.shares(ctx, eventID)
	if err != nil {
		return nil, err
	}

	entry := access.Share{UserID: userID, Permission: permission, SharedAt: s.now().UTC().Truncate(time.Second)}

	replaced := false
	for i := range shares {
		if shares[i].UserID == userID {
			shares[i] = entry
			replaced = true
		}
	}

	if !replaced {
		shares = append(shares, entry)
	}

	return s.saveShares(ctx, eventID, shares)
}

// UnshareEvent takes away the access userID has to the event through sharing,
// on behalf of callerID.
//
// callerID must be able to share the event.
// UnshareEvent returns an error wrapping synkro.ErrNotExist if the event is not shared with userID.
func (s *Service) UnshareEvent(ctx context.Context, callerID, eventID, userID string) ([]access.Share, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", synkro.ErrNotValid)
	}

	if err := s.requireAction(ctx, callerID, eventID, access.ActionShare); err != nil {
		return nil, err
	}

	shares, err := s.shares(ctx, eventID)
	if err != nil {
		return nil, err
	}

	kept := make([]access.Share, 0, len(shares))
	for _, sh := range shares {
		if sh.UserID != userID {
			kept = append(kept, sh)
		}
	}

	if len(kept) == len(shares) {
		return nil, fmt.Errorf("%w: event %s is not shared with %s", synkro.ErrNotExist, eventID, userID)
	}

	return s.saveShares(ctx, eventID, kept)
}

// shares reads the sharing list of the event.
// A malformed list reads as empty, as it does when deciding access.
func (s *Service) shares(ctx context.Context, eventID string) ([]access.Share, error) {
	rec, err := s.findOne(ctx, access.TableEvents, recordstore.RecordID(eventID))
	if err != nil {
		return nil, err
	}

	shares, err := access.DecodeShares(rec.String(access.FieldEventSharedWith))
	if err != nil {
		s.log.Warn("replacing malformed shared_with", &logger.LogContext{
			Data:  map[string]any{"event": eventID},
			Error: err,
		})
	}

	return shares, nil
}

func (s *Service) saveShares(ctx context.Context, eventID string, shares []access.Share) ([]access.Share, error) {
	text, err := access.EncodeShares(shares)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Patch(ctx, access.TableEvents, eventID, recordstore.Fields{access.FieldEventSharedWith: text})
	if err != nil {
		return nil, fmt.Errorf("saving shares of %s: %w", eventID, upstream(err))
	}

	saved, err := access.DecodeShares(rec.String(access.FieldEventSharedWith))
	if err != nil {
		return nil, fmt.Errorf("%w: reading back shares of %s: %s", synkro.ErrUnexpected, eventID, err)
	}

	if saved == nil {
		saved = make([]access.Share, 0)
	}

	return saved, nil
}
