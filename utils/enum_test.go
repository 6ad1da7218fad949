package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pane int

const (
	left pane = iota
	middle
	right
)

func TestEnumCycling(t *testing.T) {
	assert.Equal(t, middle, GetNextEnum(left, right))
	assert.Equal(t, left, GetNextEnum(right, right))
	assert.Equal(t, right, GetPrevEnum(left, right))
	assert.Equal(t, left, GetPrevEnum(middle, right))
}
