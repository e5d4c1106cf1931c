// Package intersect implements the Möller–Trumbore ray/triangle kernels.
//
// Two dual kernels share the same algebra. Intersector1 tests one ray
// against an M-wide batch of triangles; IntersectorK tests a K-wide packet
// of rays against one triangle broadcast to every lane. Both run a
// mask-narrowing cascade (edge tests, then depth) and return as soon as the
// mask is empty. Surviving lanes are handed to an epilog as a Candidate: the
// undivided quantities plus a Materialize method, so hit data is computed
// only for lanes that passed every rejection test.
//
// Triangles are given in edge form (v0, e1 = v0-v1, e2 = v2-v0, Ng = e1 x e2).
// A hit at barycentrics (u, v) lies at (1-u-v)*v0 + u*v1 + v*v2 and reports
// Ng = e1 x e2, which opposes the counter-clockwise normal of v0, v1, v2.
// Backface culling keeps only hits where Ng and the ray direction point the
// same way, that is triangles seen counter-clockwise from the ray origin.
//
// Triangle pairs (quads split along v0-v2) are tested in the layout
// (v1|v3, v0, v2). A per-lane flip of -1 for the (v0,v1,v2) half and +1 for
// the (v0,v2,v3) half makes both halves report normals facing the same side,
// and per-half rotation words restore the barycentrics of each source
// triangle.
package intersect
