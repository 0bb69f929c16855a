package sampling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterval(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
		want int
	}{
		{"30fps", 30, 2},
		{"60fps", 60, 4},
		{"25fps", 25, 2},
		{"24fps", 24, 2},
		{"ntsc", 29.97, 2},
		{"15fps", 15, 1},
		{"10fps", 10, 1},
		{"1fps", 1, 1},
		{"tiny", 0.01, 1},
		{"tie rounds to even up", 22.5, 2},
		{"tie rounds to even down", 37.5, 2},
		{"120fps", 120, 8},
		{"zero uses default", 0, 2},
		{"negative uses default", -5, 2},
		{"nan uses default", math.NaN(), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interval(tt.fps, DefaultTargetFPS))
		})
	}
}

func TestIntervalMatchesFormula(t *testing.T) {
	for f := 0.5; f < 500; f += 0.75 {
		want := int(math.Max(1, math.RoundToEven(f/15)))
		assert.Equal(t, want, Interval(f, 15), "fps %v", f)
	}
	assert.Equal(t, Interval(30, 15), Interval(0, 15))
}

func TestResolveFPS(t *testing.T) {
	fps, defaulted := ResolveFPS(0, 30)
	assert.Equal(t, 30.0, fps)
	assert.True(t, defaulted)

	fps, defaulted = ResolveFPS(math.Inf(1), 30)
	assert.Equal(t, 30.0, fps)
	assert.True(t, defaulted)

	fps, defaulted = ResolveFPS(59.94, 30)
	assert.Equal(t, 59.94, fps)
	assert.False(t, defaulted)
}

func TestPolicySelection(t *testing.T) {
	for _, interval := range []int{1, 2, 3, 4, 7} {
		p := NewPolicy(interval)
		for total := 0; total < 50; total++ {
			selected := 0
			for i := 0; i < total; i++ {
				if p.Selected(i) {
					selected++
				}
			}
			assert.Equal(t, p.Expected(total), selected, "interval %d total %d", interval, total)
		}
	}
	assert.Equal(t, 45, NewPolicy(2).Expected(90))
}

func TestNewPolicyClampsInterval(t *testing.T) {
	p := NewPolicy(0)
	assert.Equal(t, 1, p.Interval())
	assert.True(t, p.Selected(5))
}
