package geometry

// Barycentric slots a rotation word can select from. The kernel computes
// (u, w=1-u-v, v) in its own edge basis; a rotation picks which of them is
// reported as u and which as v.
const (
	SlotU = 0
	SlotW = 1
	SlotV = 2
)

// Rotation packs the reported-u slot in bits 0..7 and the reported-v slot in
// bits 16..23.
func Rotation(slotU, slotV int) int32 {
	return int32(slotU&0xff | (slotV&0xff)<<16)
}

// IdentityRotation reports u and v unchanged.
var IdentityRotation = Rotation(SlotU, SlotV)

// RotationSlots unpacks a rotation word.
func RotationSlots(flags int32) (slotU, slotV int) {
	f := uint32(flags)
	return int(f & 0xff), int(f >> 16 & 0xff)
}

// Rotate applies a rotation word to kernel barycentrics.
func Rotate(flags int32, u, v float32) (float32, float32) {
	uwv := [3]float32{u, 1 - u - v, v}
	su, sv := RotationSlots(flags)
	return uwv[su], uwv[sv]
}

// DefaultPairFlags returns the rotations that make both halves of a pair
// built from (v0,v1,v2) and (v0,v2,v3) report the barycentrics of those
// triangles in their own vertex order.
func DefaultPairFlags() [2]int32 {
	return [2]int32{Rotation(SlotW, SlotV), Rotation(SlotV, SlotW)}
}
