package provision_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/recordstore"
)

func TestShareEvent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, eval := newFixtureService(t, newFixtureStore(t))

	// Act
	shares, err := svc.ShareEvent(ctx, "UA", "recE1", "U9", access.RoleEditor)

	// Assert
	require.Nil(t, err)
	require.Equal(t, []access.Share{{UserID: "U9", Permission: access.RoleEditor, SharedAt: fixedNow}}, shares)

	d := eval.CanAccessEvent(ctx, "U9", "recE1")
	require.True(t, d.CanAccess)
	require.True(t, d.ViaSharing)
	require.Equal(t, access.RoleEditor, d.Permission)

	// Act
	shares, err = svc.ShareEvent(ctx, "UA", "recE1", "UR", access.RoleViewer)

	// Assert
	require.Nil(t, err)
	require.Len(t, shares, 2)
	require.Equal(t, "U9", shares[0].UserID)
	require.Equal(t, access.Share{UserID: "UR", Permission: access.RoleViewer, SharedAt: fixedNow}, shares[1])
}

func TestShareEventByParentAdmin(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newFixtureStore(t)
	store.Put(access.TableGrants, recordstore.Record{ID: "recG2", Fields: recordstore.Fields{
		access.FieldGrantSubject:  "U2",
		access.FieldGrantParentID: "UA",
		access.FieldGrantRole:     access.RoleAdmin.String(),
		access.FieldGrantStatus:   access.GrantActive.String(),
	}})
	svc, _ := newFixtureService(t, store)

	// Act
	shares, err := svc.ShareEvent(ctx, "U2", "recE1", "U9", access.RoleViewer)

	// Assert
	require.Nil(t, err)
	require.Len(t, shares, 1)
}

func TestShareEventMalformed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newFixtureService(t, newFixtureStore(t))

	// Act
	shares, err := svc.ShareEvent(ctx, "UA", "recE3", "U9", access.RoleViewer)

	// Assert
	require.Nil(t, err)
	require.Equal(t, []access.Share{{UserID: "U9", Permission: access.RoleViewer, SharedAt: fixedNow}}, shares)
}

func TestShareEventErrors(t *testing.T) {
	for _, tc := range []struct {
		name       string
		callerID   string
		eventID    string
		userID     string
		permission access.Role
		err        error
	}{
		{"No-User", "UA", "recE1", "", access.RoleViewer, synkro.ErrNotValid},
		{"Self", "UA", "recE1", "UA", access.RoleViewer, synkro.ErrNotValid},
		{"Owner-Role", "UA", "recE1", "U9", access.RoleOwner, synkro.ErrNotValid},
		{"Unknown-Role", "UA", "recE1", "U9", access.Role("boss"), synkro.ErrNotValid},
		{"No-Event", "UA", "", "U9", access.RoleViewer, synkro.ErrNotValid},
		{"Missing-Event", "UA", "recNope", "U9", access.RoleViewer, synkro.ErrNotExist},
		{"Editor", "U2", "recE1", "U9", access.RoleViewer, synkro.ErrForbidden},
		{"Stranger", "UB", "recE1", "U9", access.RoleViewer, synkro.ErrForbidden},
		{"Revoked", "UR", "recE1", "U9", access.RoleViewer, synkro.ErrForbidden},
		{"Unknown-Caller", "UX", "recE1", "U9", access.RoleViewer, synkro.ErrForbidden},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			svc, _ := newFixtureService(t, newFixtureStore(t))

			// Act
			shares, err := svc.ShareEvent(context.Background(), tc.callerID, tc.eventID, tc.userID, tc.permission)

			// Assert
			require.ErrorIs(t, err, tc.err)
			require.Nil(t, shares)
		})
	}
}

func TestShareEventUpstream(t *testing.T) {
	// Arrange
	svc, _ := newFixtureService(t, failingStore{Memory: newFixtureStore(t), failOn: access.TableEvents})

	// Act
	_, err := svc.ShareEvent(context.Background(), "UA", "recE1", "U9", access.RoleViewer)

	// Assert
	require.ErrorIs(t, err, synkro.ErrUpstream)
}

func TestUnshareEvent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, eval := newFixtureService(t, newFixtureStore(t))

	// Act
	shares, err := svc.UnshareEvent(ctx, "UA", "recE1", "U9")

	// Assert
	require.Nil(t, err)
	require.Empty(t, shares)

	d := eval.CanAccessEvent(ctx, "U9", "recE1")
	require.False(t, d.CanAccess)
	require.Equal(t, access.ReasonNotAuthorized, d.Reason)

	// Act
	_, err = svc.UnshareEvent(ctx, "UA", "recE1", "U9")

	// Assert
	require.ErrorIs(t, err, synkro.ErrNotExist)

	// Act
	_, err = svc.UnshareEvent(ctx, "U2", "recE1", "U9")

	// Assert
	require.ErrorIs(t, err, synkro.ErrForbidden)
}
