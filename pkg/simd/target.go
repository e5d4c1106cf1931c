package simd

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

// Target describes the vector unit of the running CPU.
type Target struct {
	Name        string
	Arch        string
	NativeLanes int // widest float32 lane count executed natively
}

// Emulated reports whether a width of lanes runs wider than the hardware.
func (t Target) Emulated(lanes int) bool {
	return lanes > t.NativeLanes
}

// String describes the target, e.g. "amd64/avx2 (8 lanes)".
func (t Target) String() string {
	return fmt.Sprintf("%s/%s (%d lanes)", t.Arch, t.Name, t.NativeLanes)
}

var host = sync.OnceValue(detect)

// Host returns the detected target of the running CPU.
func Host() Target {
	return host()
}

func detect() Target {
	t := Target{Name: "scalar", Arch: runtime.GOARCH, NativeLanes: 1}
	switch {
	case cpu.X86.HasAVX512F:
		t.Name, t.NativeLanes = "avx512", 16
	case cpu.X86.HasAVX2:
		t.Name, t.NativeLanes = "avx2", 8
	case cpu.X86.HasAVX:
		t.Name, t.NativeLanes = "avx", 8
	case cpu.X86.HasSSE41:
		t.Name, t.NativeLanes = "sse4.1", 4
	case cpu.X86.HasSSE2:
		t.Name, t.NativeLanes = "sse2", 4
	case cpu.ARM64.HasASIMD:
		t.Name, t.NativeLanes = "neon", 4
	}
	return t
}
