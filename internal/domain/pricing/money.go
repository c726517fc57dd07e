package pricing

import "math"

// All monetary values are int64 amounts in the store's minor currency unit.
// Derived values are rounded here, at computation time, so a cart preview and
// the final receipt are bit-identical.

// Round rounds half away from zero to the nearest minor unit.
func Round(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return -int64(math.Floor(-x + 0.5))
}

// ClampNonNegative floors a subtraction result at zero. A discount can never
// drive an amount below zero.
func ClampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
