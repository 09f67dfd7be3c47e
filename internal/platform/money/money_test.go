package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 10.0, LineTotal(5.00, 2))
	assert.Equal(t, 0.3, LineTotal(0.1, 3))
	assert.Equal(t, 0.0, LineTotal(4.99, 0))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 13.0, Sum(10.0, 3.0))
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 0.0, Sum())
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.35, Round(2.345))
	assert.Equal(t, 1.0, Round(0.999))
}
