package synkro_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
)

func TestByKeyUnique(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    []synkro.Key
		expected []synkro.Key
	}{
		{"Nil", nil, synkro.ByKey{}},
		{"Zero-Value", []synkro.Key{}, []synkro.Key{}},
		{"Many-Zero", make([]synkro.Key, 99), []synkro.Key{}},
		{"Sorted", []synkro.Key{"a", "c", "e", "d"}, []synkro.Key{"a", "c", "d", "e"}},
		{"Uniqued", []synkro.Key{"a", "a", "a"}, []synkro.Key{"a"}},
		{"Filtered-Zero-Value", []synkro.Key{"", "a", "", "b", ""}, []synkro.Key{"a", "b"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual := synkro.ByKey(tc.input).UniqueSort()
			require.Equal(t, tc.expected, []synkro.Key(actual))
		})
	}
}

func TestCallerContext(t *testing.T) {
	// Arrange
	ctx := context.Background()

	// Act
	_, ok := synkro.CallerFromContext(ctx)

	// Assert
	require.False(t, ok)

	// Arrange
	ctx = synkro.NewCallerContext(ctx, "")

	// Act
	_, ok = synkro.CallerFromContext(ctx)

	// Assert
	require.False(t, ok)

	// Arrange
	ctx = synkro.NewCallerContext(ctx, "user_2")

	// Act
	id, ok := synkro.CallerFromContext(ctx)

	// Assert
	require.True(t, ok)
	require.Equal(t, "user_2", id)
}
