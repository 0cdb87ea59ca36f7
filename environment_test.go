package synkro_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
)

func TestEnvironmentValid(t *testing.T) {
	require.Nil(t, synkro.Production.Valid())
	require.ErrorIs(t, synkro.Environment("MARS").Valid(), synkro.ErrNotValid)
}

func TestEnvironmentCapabilities(t *testing.T) {
	require.True(t, synkro.Testing.CanUseServiceStub())
	require.False(t, synkro.Production.CanUseServiceStub())
	require.True(t, synkro.Development.AllowsUnverifiedCaller())
	require.False(t, synkro.Demo.AllowsUnverifiedCaller())
	require.False(t, synkro.Staging.AllowsUnverifiedCaller())
}

func TestEnvVarOr(t *testing.T) {
	t.Setenv("SYNKRO_TEST_BOOL", "TRUE")
	t.Setenv("SYNKRO_TEST_DURATION", "90s")
	t.Setenv("SYNKRO_TEST_ENV", "staging")
	t.Setenv("SYNKRO_TEST_INT", "nope")
	t.Setenv("SYNKRO_TEST_URL", "not a url")

	require.True(t, synkro.EnvVarOrBool("SYNKRO_TEST_BOOL", false))
	require.Equal(t, 90*time.Second, synkro.EnvVarOrDuration("SYNKRO_TEST_DURATION", time.Second))
	require.Equal(t, synkro.Staging, synkro.EnvVarOrEnv("SYNKRO_TEST_ENV", synkro.Development))
	require.Equal(t, 7, synkro.EnvVarOrInt("SYNKRO_TEST_INT", 7))
	require.Equal(t, "fallback", synkro.EnvVarOrString("SYNKRO_TEST_MISSING", "fallback"))
	require.Equal(t, "https://example.com", synkro.EnvVarOrURL("SYNKRO_TEST_URL", "https://example.com").String())
}
