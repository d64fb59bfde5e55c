package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlices(t *testing.T) {
	assert.True(t, IsEmpty([]int(nil)))
	assert.False(t, IsEmpty([]int{1}))
	assert.True(t, IsSingle([]string{"a"}))
	assert.False(t, IsSingle([]string{"a", "b"}))

	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = First([]string{})
	assert.False(t, ok)

	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, Set([]string{"a", "b", "a"}))
}
