package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	size  int
	label string
	calls []string
}

func withSize(n int) Option[*testConfig] {
	return New("WithSize", func(c *testConfig) error {
		if n < 0 {
			return errors.New("size cannot be negative")
		}
		c.size = n
		c.calls = append(c.calls, "size")

		return nil
	})
}

func withLabel(label string) Option[*testConfig] {
	return NoError("WithLabel", func(c *testConfig) {
		c.label = label
		c.calls = append(c.calls, "label")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withLabel("a"), withSize(8), withLabel("b"))

		require.NoError(t, err)
		require.Equal(t, 8, cfg.size)
		require.Equal(t, "b", cfg.label)
		require.Equal(t, []string{"label", "size", "label"}, cfg.calls)
	})

	t.Run("stops at first error and names the option", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withSize(-1), withLabel("never"))

		require.Error(t, err)
		require.Contains(t, err.Error(), "WithSize")
		require.Contains(t, err.Error(), "size cannot be negative")
		require.Empty(t, cfg.label)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, nil, withSize(4))

		require.NoError(t, err)
		require.Equal(t, 4, cfg.size)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg))
		require.Empty(t, cfg.calls)
	})
}

func TestFunc_Name(t *testing.T) {
	require.Equal(t, "WithLabel", NoError("WithLabel", func(*testConfig) {}).Name())
	require.Equal(t, "", New("", func(*testConfig) error { return nil }).Name())
}
