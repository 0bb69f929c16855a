// Package sampling decides which decoded frames are kept.
package sampling

import "math"

const (
	DefaultTargetFPS = 15
	DefaultSourceFPS = 30
)

// ResolveFPS returns reported, or fallback when reported is unusable. The bool
// reports whether the fallback was taken.
func ResolveFPS(reported, fallback float64) (float64, bool) {
	if math.IsNaN(reported) || math.IsInf(reported, 0) || reported <= 0 {
		return fallback, true
	}
	return reported, false
}

// Interval is max(1, round(sourceFPS/targetFPS)), ties rounding to even. Unusable
// source rates resolve to DefaultSourceFPS first.
func Interval(sourceFPS, targetFPS float64) int {
	if targetFPS <= 0 {
		targetFPS = DefaultTargetFPS
	}
	fps, _ := ResolveFPS(sourceFPS, DefaultSourceFPS)
	n := int(math.RoundToEven(fps / targetFPS))
	if n < 1 {
		return 1
	}
	return n
}

type Policy struct {
	interval int
}

func NewPolicy(interval int) Policy {
	if interval < 1 {
		interval = 1
	}
	return Policy{interval: interval}
}

func (p Policy) Interval() int {
	return p.interval
}

// Selected reports whether the frame at zero-based read index i is kept.
func (p Policy) Selected(i int) bool {
	return i%p.interval == 0
}

// Expected is the number of selections over total reads: ceil(total/interval).
func (p Policy) Expected(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.interval - 1) / p.interval
}
