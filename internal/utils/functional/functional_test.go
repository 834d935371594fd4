package functional

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, Map([]int{1, 2, 3}, strconv.Itoa))
	assert.Empty(t, Map([]int(nil), strconv.Itoa))
}

func TestFilter(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	assert.Equal(t, []int{2, 4}, Filter([]int{1, 2, 3, 4}, even))
	assert.Empty(t, Filter([]int{1, 3}, even))
}

func TestIndexOfAndContains(t *testing.T) {
	items := []string{"go", "rust", "zig"}
	assert.Equal(t, 1, IndexOf(items, func(s string) bool { return s == "rust" }))
	assert.Equal(t, -1, IndexOf(items, func(s string) bool { return s == "c" }))
	assert.True(t, Contains(items, "zig"))
	assert.False(t, Contains(items, "Go"))
}
