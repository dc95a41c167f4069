package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorZero(t *testing.T) {
	assert.Equal(t, 0.0, FloorZero(-3.5))
	assert.Equal(t, 0.0, FloorZero(0))
	assert.Equal(t, 2.25, FloorZero(2.25))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum())
	assert.InDelta(t, 60.0, Sum(10, 20, 30), 1e-9)
}

func TestCovers(t *testing.T) {
	assert.True(t, Covers(0))
	assert.True(t, Covers(0.01))
	assert.True(t, Covers(0.005))
	assert.False(t, Covers(0.02))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(10.0/3.0))
	assert.Equal(t, 15.25, Round2(15.254237))
	assert.Equal(t, -1.5, Round2(-1.5))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234.50", Format(1234.5, "USD"))
	assert.Equal(t, "$0.00", Format(0, "USD"))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "100.00", Plain(100))
	assert.Equal(t, "15.25", Plain(15.254))
}
