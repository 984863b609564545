package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetKeysSorted(t *testing.T) {
	m := map[int]string{3: "c", 1: "a", 2: "b"}
	assert.Equal(t, GetKeysSorted(m), []int{1, 2, 3})
}

func TestMin(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Min(1, 2), 1)
	assert.Equal(Min(2, 1), 1)
	assert.Equal(Min(-1, 0), -1)
	assert.Equal(Min(7, 7), 7)
}

func TestSum(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Sum([]int{1, 2, 3}), uint64(6))
	assert.Equal(Sum([]int{}), uint64(0))
}
