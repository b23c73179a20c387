package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int
		wantFrom, wantSize int
	}{
		{name: "defaults", page: 0, size: 0, wantFrom: 0, wantSize: DefaultPageSize},
		{name: "third page", page: 3, size: 20, wantFrom: 40, wantSize: 20},
		{name: "negative page", page: -2, size: 5, wantFrom: 0, wantSize: 5},
		{name: "size capped", page: 2, size: 500, wantFrom: MaxPageSize, wantSize: MaxPageSize},
		{name: "page clamped", page: 922337203685477582, size: 10, wantFrom: (math.MaxInt/10 - 1) * 10, wantSize: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, size := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestCalculate_OffsetNeverWraps(t *testing.T) {
	for _, size := range []int{0, 1, 7, 10, MaxPageSize} {
		from, limit := Calculate(math.MaxInt, size)
		assert.GreaterOrEqual(t, from, 0)
		assert.LessOrEqual(t, from, math.MaxInt-limit)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 4, ParseIntDefault("4", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("four", 1))
}
