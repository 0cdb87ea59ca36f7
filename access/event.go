package access

import (
	"bytes"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/recordstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// An Event is the resource access decisions are made about.
type Event struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	OwnerEmail string    `json:"ownerEmail"`
	CreatedAt  time.Time `json:"createdAt"`

	// SharedWith is the serialized list of Share,
	// kept as stored; decode it with DecodeShares.
	SharedWith string `json:"-"`
}

// EventFromRecord reads an Event out of an Events record.
func EventFromRecord(rec recordstore.Record) Event {
	created := rec.Time(FieldEventCreatedAt)
	if created.IsZero() {
		created = rec.CreatedTime
	}

	return Event{
		ID:         rec.ID,
		Title:      rec.String(FieldEventTitle),
		OwnerEmail: rec.String(FieldEventOwnerEmail),
		CreatedAt:  created,
		SharedWith: rec.String(FieldEventSharedWith),
	}
}

// A Share extends access to an event to a single caller.
type Share struct {
	UserID     string    `json:"userId"`
	Permission Role      `json:"permission,omitempty"`
	SharedAt   time.Time `json:"sharedAt"`
}

type shareText struct {
	UserID     string `json:"userId"`
	Permission string `json:"permission"`
	SharedAt   string `json:"sharedAt"`
}

// DecodeShares parses the serialized sharing list stored on an event.
//
// Blank text and JSON null decode to an empty list.
// Text that is not a JSON list of shares returns an error wrapping synkro.ErrParse.
// A sharedAt that is not RFC 3339 decodes to the zero time.Time
// rather than failing the whole list.
func DecodeShares(raw string) ([]Share, error) {
	b := bytes.TrimSpace([]byte(raw))
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}

	var items []shareText
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: shared_with: %s", synkro.ErrParse, err)
	}

	shares := make([]Share, 0, len(items))
	for _, item := range items {
		s := Share{UserID: item.UserID, Permission: Role(item.Permission)}
		if t, err := time.Parse(time.RFC3339, item.SharedAt); err == nil {
			s.SharedAt = t
		}

		shares = append(shares, s)
	}

	return shares, nil
}

// EncodeShares serializes shares for storing on an event.
func EncodeShares(shares []Share) (string, error) {
	if shares == nil {
		shares = make([]Share, 0)
	}

	b, err := json.Marshal(shares)
	if err != nil {
		return "", fmt.Errorf("%w: shared_with: %s", synkro.ErrBadFormat, err)
	}

	return string(b), nil
}

// FindShare returns the Share for userID, if any.
func FindShare(shares []Share, userID string) (Share, bool) {
	if userID == "" {
		return Share{}, false
	}

	for _, s := range shares {
		if s.UserID == userID {
			return s, true
		}
	}

	return Share{}, false
}
