package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOffset(t *testing.T) {
	cases := []struct {
		page, pageSize, want int
	}{
		{1, 10, 0},
		{0, 10, 0},
		{3, 10, 20},
		{2, 0, 0},
		{math.MaxInt, 100, maxOffset},
		{1_000_000_000_000_000_000, 12, maxOffset},
		{maxOffset/10 + 1, 10, maxOffset / 10 * 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pageOffset(tc.page, tc.pageSize), "page %d size %d", tc.page, tc.pageSize)
	}
}
