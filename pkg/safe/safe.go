// Package safe provides saturating int64 arithmetic for hotpath code that
// must never wrap silently.
package safe

import "math"

// SafeAdd returns a+b, saturating at the int64 bounds instead of wrapping.
func SafeAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

// SafeSub returns a-b, saturating at the int64 bounds instead of wrapping.
func SafeSub(a, b int64) int64 {
	if b < 0 && a > math.MaxInt64+b {
		return math.MaxInt64
	}
	if b > 0 && a < math.MinInt64+b {
		return math.MinInt64
	}
	return a - b
}
