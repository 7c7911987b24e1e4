package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDefaults(t *testing.T) {
	t.Setenv(EnvIgnoreEnv, "1")
	c, err := New()
	require.NoError(t, err)
	assert.False(t, c.BiasCorrection)
	assert.True(t, c.AutoFill)
	assert.Equal(t, 0.0, c.Tolerance)
	assert.Equal(t, 0, c.Debug)
}

func TestEnvOverridesBuiltin(t *testing.T) {
	t.Setenv(EnvUnbias, "1")
	t.Setenv(EnvNoFill, "1")
	t.Setenv(EnvToler, "0.01")
	t.Setenv(EnvDebug, "2")

	c, err := New()
	require.NoError(t, err)
	assert.True(t, c.BiasCorrection)
	assert.False(t, c.AutoFill)
	assert.Equal(t, 0.01, c.Tolerance)
	assert.Equal(t, 2, c.Debug)
}

func TestOptionOverridesEnv(t *testing.T) {
	t.Setenv(EnvUnbias, "1")
	t.Setenv(EnvNoFill, "1")

	c, err := New(Population(), ZeroFill())
	require.NoError(t, err)
	assert.False(t, c.BiasCorrection)
	assert.True(t, c.AutoFill)
}

func TestIgnoreEnv(t *testing.T) {
	t.Setenv(EnvUnbias, "1")
	t.Setenv(EnvIgnoreEnv, "1")

	c, err := New()
	require.NoError(t, err)
	assert.False(t, c.BiasCorrection)
}

func TestInvalidOptions(t *testing.T) {
	_, err := New(Tolerance(-1))
	assert.Error(t, err)
	_, err = New(Debug(-1))
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	tt := []struct {
		name  string
		toler float64
		a, b  float64
		exp   bool
	}{
		{name: "exact equal", toler: 0, a: 1.5, b: 1.5, exp: true},
		{name: "exact unequal", toler: 0, a: 1.5, b: 1.50001, exp: false},
		{name: "within tolerance", toler: 0.001, a: 1.5, b: 1.5005, exp: true},
		{name: "outside tolerance", toler: 0.001, a: 1.5, b: 1.502, exp: false},
		{name: "symmetric", toler: 0.001, a: 1.5005, b: 1.5, exp: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvIgnoreEnv, "1")
			c, err := New(Tolerance(tc.toler))
			require.NoError(t, err)
			assert.Equal(t, tc.exp, c.Close(tc.a, tc.b))
		})
	}
}

func TestFromFile(t *testing.T) {
	t.Setenv(EnvIgnoreEnv, "1")
	fpath := filepath.Join(t.TempDir(), "vecstat.yml")
	require.NoError(t, os.WriteFile(fpath, []byte("unbias: true\nnofill: true\ntoler: 0.05\ndebug: 1\n"), 0644))

	opts, err := FromFile(fpath)
	require.NoError(t, err)
	c, err := New(opts...)
	require.NoError(t, err)
	assert.True(t, c.BiasCorrection)
	assert.False(t, c.AutoFill)
	assert.Equal(t, 0.05, c.Tolerance)
	assert.Equal(t, 1, c.Debug)
}

func TestFromFileUnknownKey(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "vecstat.yml")
	require.NoError(t, os.WriteFile(fpath, []byte("does-not-exist: true\n"), 0644))
	_, err := FromFile(fpath)
	assert.Error(t, err)
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
