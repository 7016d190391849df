// Package bbox computes per-element axis-aligned bounding boxes from node
// coordinates and collects them during a mesh traversal for a downstream
// coarse search.
//
// Builder does the geometry. BuildBoundingBoxes adapts a Builder to the
// mesh.ElementOp traversal contract and enforces single use: once a
// traversal has finished, the instance refuses further work and a new one
// must be constructed.
package bbox
