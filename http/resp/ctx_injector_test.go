package resp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
)

func TestDefaultInjector(t *testing.T) {
	keys := map[synkro.Key]string{synkro.RequestIDKey: "requestId"}

	tcs := []struct {
		name     string
		keys     map[synkro.Key]string
		props    map[string]any
		ctx      context.Context
		expected map[string]any
	}{
		{"both-nil", nil, nil, nil, nil},
		{"ctx-nil", keys, make(map[string]any), nil, make(map[string]any)},
		{"keys-nil", nil, make(map[string]any), context.Background(), make(map[string]any)},
		{"no-values", keys, make(map[string]any), context.Background(), make(map[string]any)},
		{
			"ctx-adds-values",
			keys,
			map[string]any{"test": 1},
			context.WithValue(context.Background(), synkro.RequestIDKey, "req-1"),
			map[string]any{"requestId": "req-1", "test": 1},
		},
		{
			"ctx-overwrites",
			keys,
			map[string]any{"requestId": 1},
			context.WithValue(context.Background(), synkro.RequestIDKey, "req-1"),
			map[string]any{"requestId": "req-1"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			i := DefaultInjector{tc.keys}

			// Act
			require.NotPanics(t, func() { i.Inject(tc.props, tc.ctx) })

			// Assert
			require.Equal(t, tc.expected, tc.props)
		})
	}
}
