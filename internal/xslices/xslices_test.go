package xslices_test

import (
	"testing"

	"deedles.dev/wlr/internal/xslices"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	even := xslices.Filter(s, func(v int) bool { return v%2 == 0 })

	assert.Equal(t, []int{2, 4}, even)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, s)
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name   string
		in     []int
		remove int
		out    []int
	}{
		{name: "middle", in: []int{1, 2, 3}, remove: 2, out: []int{1, 3}},
		{name: "all", in: []int{2, 2}, remove: 2, out: []int{}},
		{name: "none", in: []int{1, 3}, remove: 2, out: []int{1, 3}},
		{name: "empty", in: nil, remove: 2, out: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := xslices.Remove(tt.in, func(v int) bool { return v == tt.remove })
			assert.Equal(t, tt.out, got)
		})
	}
}
