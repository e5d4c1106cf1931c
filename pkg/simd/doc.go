// Package simd provides fixed-width lane types for branch-free batch processing.
//
// Every vector type is generic over a lane Width (W1, W4, W8, W16). Values are
// fixed-size arrays processed with simple loops so the Go compiler can keep them
// in registers and auto-vectorize where the target allows it; lanes past the
// width are never read or written.
//
// # Masks
//
// Mask is the boolean lane vector every comparison produces. A true lane holds
// the all-ones pattern (-1) so that a mask can be reused as an integer bit mask,
// the way SSE/AVX compare results are:
//
//	valid := u.Ge(zero).And(v.Ge(zero))
//	if valid.None() {
//		return false
//	}
//
// # Targets
//
// Host reports the widest float32 lane count the running CPU executes natively.
// Widths wider than that still work on the scalar-loop fallback with identical
// semantics; CheckWidth rejects widths no vector type can hold.
package simd
