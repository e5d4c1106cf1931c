package simd

import (
	"errors"
	"fmt"
)

// MaxLanes is the widest lane count a vector type can hold.
const MaxLanes = 16

// ErrUnsupportedWidth is returned when a lane width cannot be represented.
var ErrUnsupportedWidth = errors.New("simd: unsupported lane width")

// Width selects the lane count of a vector type at compile time.
type Width interface {
	Lanes() int
}

// W1 is the scalar width.
type W1 struct{}

// W4 is the SSE / NEON width.
type W4 struct{}

// W8 is the AVX width.
type W8 struct{}

// W16 is the AVX-512 width.
type W16 struct{}

func (W1) Lanes() int  { return 1 }
func (W4) Lanes() int  { return 4 }
func (W8) Lanes() int  { return 8 }
func (W16) Lanes() int { return 16 }

// LanesOf returns the lane count of W.
func LanesOf[W Width]() int {
	var w W
	return w.Lanes()
}

// CheckWidth verifies that W is a power of two between 1 and MaxLanes.
func CheckWidth[W Width]() error {
	n := LanesOf[W]()
	if n < 1 || n > MaxLanes || n&(n-1) != 0 {
		return fmt.Errorf("%w: %d lanes", ErrUnsupportedWidth, n)
	}
	return nil
}

// CheckDouble verifies that D is a valid width holding exactly twice the lanes of H.
func CheckDouble[H, D Width]() error {
	if err := CheckWidth[H](); err != nil {
		return err
	}
	if err := CheckWidth[D](); err != nil {
		return err
	}
	if h, d := LanesOf[H](), LanesOf[D](); d != 2*h {
		return fmt.Errorf("%w: %d lanes is not double of %d", ErrUnsupportedWidth, d, h)
	}
	return nil
}

// fullBits returns the movemask of an all-true mask of n lanes.
func fullBits(n int) uint32 {
	return uint32(1)<<uint(n) - 1
}

func checkLane(i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("simd: lane %d out of range [0,%d)", i, n))
	}
}

// mustDouble panics unless D holds twice the lanes of H.
func mustDouble[H, D Width]() (h int) {
	h = LanesOf[H]()
	if d := LanesOf[D](); d != 2*h {
		panic(fmt.Sprintf("simd: cannot concatenate %d+%d lanes into %d", h, h, d))
	}
	return h
}
