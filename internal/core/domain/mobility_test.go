package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReflect1DBouncesBelowZero(t *testing.T) {
	pos, heading := reflect1D(-5, 200, 0, true)
	assert.Equal(t, 5.0, pos)
	assert.Equal(t, 180.0, heading)
}

func TestReflect1DBouncesAboveBound(t *testing.T) {
	pos, heading := reflect1D(205, 200, 0, false)
	assert.Equal(t, 195.0, pos)
	assert.Equal(t, 0.0, heading)
}

func TestReflect1DNoOpWithinBounds(t *testing.T) {
	pos, heading := reflect1D(100, 200, 45, true)
	assert.Equal(t, 100.0, pos)
	assert.Equal(t, 45.0, heading)
}

func TestReflect1DZeroBoundIsNoOp(t *testing.T) {
	pos, heading := reflect1D(-50, 0, 10, true)
	assert.Equal(t, -50.0, pos)
	assert.Equal(t, 10.0, heading)
}
