package geometry

// IndexedPair describes two mesh triangles A and B that share an edge,
// rewritten as a quad of vertex indices whose diagonal Quad[0]-Quad[2] is
// the shared edge. Flags make each half report the barycentrics of the
// original triangle in its own vertex order.
type IndexedPair struct {
	A, B  int    // triangle indices
	Quad  [4]int // vertex indices v0..v3
	Flags [2]int32
}

// PairTriangles greedily pairs consecutive triangles of an indexed mesh that
// share an edge with opposite orientation. Triangles that cannot be paired are
// returned as singles. Loaders that split quads into (0,1,2),(0,2,3) produce
// meshes where every quad pairs up with the default flags.
func PairTriangles(tris [][3]int) (pairs []IndexedPair, singles []int) {
	for i := 0; i < len(tris); {
		if i+1 < len(tris) {
			if p, ok := pairIndexed(tris[i], tris[i+1]); ok {
				p.A, p.B = i, i+1
				pairs = append(pairs, p)
				i += 2
				continue
			}
		}
		singles = append(singles, i)
		i++
	}
	return pairs, singles
}

// pairIndexed finds an edge a[i]->a[i+1] of a that b traverses as
// b[j]->b[j+1] = a[i+1]->a[i].
func pairIndexed(a, b [3]int) (IndexedPair, bool) {
	if degenerate(a) || degenerate(b) {
		return IndexedPair{}, false
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if b[j] != a[(i+1)%3] || b[(j+1)%3] != a[i] {
				continue
			}
			// Reject pairs that would fold onto themselves
			if b[(j+2)%3] == a[(i+2)%3] {
				return IndexedPair{}, false
			}
			return IndexedPair{
				Quad:  [4]int{a[(i+1)%3], a[(i+2)%3], a[i], b[(j+2)%3]},
				Flags: pairFlags(i, j),
			}, true
		}
	}
	return IndexedPair{}, false
}

// pairFlags derives the rotations for a pair whose diagonal is edge i of A and
// edge j of B. The first half's kernel basis puts a[i+1] in slot u, a[i+2] in
// slot w and a[i] in slot v; the second half puts b[j] in u, b[j+2] in w and
// b[j+1] in v.
func pairFlags(i, j int) [2]int32 {
	var slotA, slotB [3]int
	slotA[i] = SlotV
	slotA[(i+1)%3] = SlotU
	slotA[(i+2)%3] = SlotW

	slotB[j] = SlotU
	slotB[(j+1)%3] = SlotV
	slotB[(j+2)%3] = SlotW

	return [2]int32{
		Rotation(slotA[1], slotA[2]),
		Rotation(slotB[1], slotB[2]),
	}
}

func degenerate(t [3]int) bool {
	return t[0] == t[1] || t[1] == t[2] || t[2] == t[0]
}
