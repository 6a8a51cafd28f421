package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageLimit(t *testing.T) {
	assert.Equal(t, 10, pageLimit(10))
	assert.Equal(t, 1, pageLimit(1))
	assert.Equal(t, -1, pageLimit(0))
	assert.Equal(t, -1, pageLimit(-5))
}
