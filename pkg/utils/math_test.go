package utils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/focusplanner/pkg/utils"
)

func TestCeilCount(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want int64
	}{
		{name: "zero", x: 0, want: 0},
		{name: "negative", x: -3, want: 0},
		{name: "NaN", x: math.NaN(), want: 0},
		{name: "fraction needs one action", x: 0.2, want: 1},
		{name: "exact integer", x: 4, want: 4},
		{name: "rounds up", x: 4.1, want: 5},
		{name: "float noise snaps down", x: 0.1 * 3 / 0.1, want: 3},
		{name: "noise above integer snaps", x: 2.0000000000000004, want: 2},
		{name: "real shortfall is not snapped", x: 3 / 2.9999999999, want: 2},
		{name: "infinite", x: math.Inf(1), want: math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.CeilCount(tt.x))
		})
	}
}
