package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCohortHashOrderIndependent(t *testing.T) {
	rows := []int{5, 1, 3}
	a := ComputeCohortHash(rows)
	b := ComputeCohortHash([]int{1, 3, 5})

	assert.Equal(t, a, b)
	assert.Equal(t, []int{5, 1, 3}, rows, "input must not be reordered")
	assert.NotEqual(t, a, ComputeCohortHash([]int{1, 3}))
}

func TestHashShort(t *testing.T) {
	h := NewHash([]byte("policy"))
	assert.Len(t, h.String(), 64)
	assert.Len(t, h.Short(), 12)
	assert.Equal(t, "abc", Hash("abc").Short())
	assert.True(t, Hash("").IsEmpty())
}
