package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("PROBEGEN_TEST_STR", "")
	assert.Equal(t, "default", getEnv("PROBEGEN_TEST_STR_UNSET", "default"))
}

func TestGetEnvOverride(t *testing.T) {
	t.Setenv("PROBEGEN_TEST_STR", "value")
	assert.Equal(t, "value", getEnv("PROBEGEN_TEST_STR", "default"))
}

func TestGetEnvFloatParsesOrFallsBack(t *testing.T) {
	t.Setenv("PROBEGEN_TEST_FLOAT", "3.5")
	assert.Equal(t, 3.5, getEnvFloat("PROBEGEN_TEST_FLOAT", 1.0))
	assert.Equal(t, 1.0, getEnvFloat("PROBEGEN_TEST_FLOAT_UNSET", 1.0))

	t.Setenv("PROBEGEN_TEST_FLOAT_BAD", "not-a-number")
	assert.Equal(t, 1.0, getEnvFloat("PROBEGEN_TEST_FLOAT_BAD", 1.0))
}

func TestGetEnvBoolParsesOrFallsBack(t *testing.T) {
	t.Setenv("PROBEGEN_TEST_BOOL", "true")
	assert.True(t, getEnvBool("PROBEGEN_TEST_BOOL", false))
	assert.False(t, getEnvBool("PROBEGEN_TEST_BOOL_UNSET", false))
}

func TestConfigDuration(t *testing.T) {
	c := &Config{DurationSeconds: 42}
	assert.Equal(t, 42*time.Second, c.Duration())
}
