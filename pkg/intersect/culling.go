package intersect

// Culling selects the backface policy of an intersector at compile time.
type Culling interface {
	culls() bool
}

// CullBackfaces rejects hits on triangles seen clockwise from the ray origin.
type CullBackfaces struct{}

// NoCulling accepts hits on both sides.
type NoCulling struct{}

func (CullBackfaces) culls() bool { return true }
func (NoCulling) culls() bool     { return false }

func culls[C Culling]() bool {
	var c C
	return c.culls()
}
