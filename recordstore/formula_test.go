package recordstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro/recordstore"
)

func TestFormulaString(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    recordstore.Formula
		expected string
	}{
		{"All", recordstore.All{}, "TRUE()"},
		{"Eq-String", recordstore.Eq{Field: "email", Value: "a@x.com"}, "{email}='a@x.com'"},
		{"Eq-Escaped", recordstore.Eq{Field: "title", Value: `it's \o/`}, `{title}='it\'s \\o/'`},
		{"Eq-Bool", recordstore.Eq{Field: "is_sub_account", Value: true}, "{is_sub_account}=TRUE()"},
		{"Eq-Int", recordstore.Eq{Field: "seats", Value: 3}, "{seats}=3"},
		{"Eq-Brace", recordstore.Eq{Field: "bad}field", Value: "x"}, "{badfield}='x'"},
		{"Contains", recordstore.Contains{Field: "shared_with", Substr: "U9"}, "FIND('U9',{shared_with})"},
		{"RecordID", recordstore.RecordID("recE1"), "RECORD_ID()='recE1'"},
		{"And-Single", recordstore.And{recordstore.RecordID("recE1")}, "RECORD_ID()='recE1'"},
		{"And-Empty", recordstore.And{}, "AND(TRUE())"},
		{"Or-Empty", recordstore.Or{}, "FALSE()"},
		{
			"Nested",
			recordstore.And{
				recordstore.Eq{Field: "sub_account_user_id", Value: "U2"},
				recordstore.Or{
					recordstore.Eq{Field: "status", Value: "active"},
					recordstore.Eq{Field: "status", Value: "pending"},
				},
			},
			"AND({sub_account_user_id}='U2',OR({status}='active',{status}='pending'))",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.input.String())
		})
	}
}

func TestFormulaMatches(t *testing.T) {
	rec := recordstore.Record{
		ID: "recE1",
		Fields: recordstore.Fields{
			"owner_email": "a@x.com",
			"shared_with": `[{"userId":"U9","permission":"viewer"}]`,
			"seats":       float64(3),
			"archived":    false,
		},
	}

	for _, tc := range []struct {
		name     string
		input    recordstore.Formula
		expected bool
	}{
		{"All", recordstore.All{}, true},
		{"Eq-Match", recordstore.Eq{Field: "owner_email", Value: "a@x.com"}, true},
		{"Eq-Case-Sensitive", recordstore.Eq{Field: "owner_email", Value: "A@x.com"}, false},
		{"Eq-Missing-String", recordstore.Eq{Field: "title", Value: ""}, true},
		{"Eq-Missing-Bool", recordstore.Eq{Field: "is_sub_account", Value: false}, true},
		{"Eq-Bool", recordstore.Eq{Field: "archived", Value: true}, false},
		{"Eq-Int", recordstore.Eq{Field: "seats", Value: 3}, true},
		{"Eq-Float", recordstore.Eq{Field: "seats", Value: 3.5}, false},
		{"Contains", recordstore.Contains{Field: "shared_with", Substr: "U9"}, true},
		{"Contains-Empty", recordstore.Contains{Field: "shared_with", Substr: ""}, false},
		{"Contains-Missing", recordstore.Contains{Field: "title", Substr: "U9"}, false},
		{"RecordID", recordstore.RecordID("recE1"), true},
		{"RecordID-Other", recordstore.RecordID("recE2"), false},
		{"And-Empty", recordstore.And{}, true},
		{"And", recordstore.And{recordstore.RecordID("recE1"), recordstore.Eq{Field: "owner_email", Value: "b@y.com"}}, false},
		{"Or-Empty", recordstore.Or{}, false},
		{"Or", recordstore.Or{recordstore.RecordID("recE2"), recordstore.Eq{Field: "owner_email", Value: "a@x.com"}}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.input.Matches(rec))
		})
	}
}

func TestRecordAccessors(t *testing.T) {
	// Arrange
	rec := recordstore.Record{Fields: recordstore.Fields{
		"email":      "a@x.com",
		"checked":    true,
		"text_bool":  "true",
		"seats":      float64(12),
		"invited_at": "2024-05-01T10:00:00Z",
		"bad_time":   "yesterday",
	}}

	// Act + Assert
	require.Equal(t, "a@x.com", rec.String("email"))
	require.Equal(t, "12", rec.String("seats"))
	require.Equal(t, "", rec.String("missing"))
	require.True(t, rec.Bool("checked"))
	require.True(t, rec.Bool("text_bool"))
	require.False(t, rec.Bool("missing"))
	require.Equal(t, 2024, rec.Time("invited_at").Year())
	require.True(t, rec.Time("bad_time").IsZero())
}
