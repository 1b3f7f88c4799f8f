package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestApplyOverridesNonZeroFields(t *testing.T) {
	c := DefaultConfig()
	c.Apply(Config{Theme: "solarized", IdleTimeoutMs: 500})
	assert.Equal(t, "solarized", c.Theme)
	assert.Equal(t, 500, c.IdleTimeoutMs)
	assert.Equal(t, DefaultPrecision, c.Precision)
}

func TestValidateRejectsBadPrecision(t *testing.T) {
	c := DefaultConfig()
	c.Precision = -2
	assert.Error(t, c.Validate())
}

func TestValidateRejectsNonPositiveIdleTimeout(t *testing.T) {
	c := DefaultConfig()
	c.IdleTimeoutMs = 0
	assert.Error(t, c.Validate())
}

func TestUnmarshalDefaultYaml(t *testing.T) {
	cfg, err := unmarshal(DefaultConfigYaml)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
