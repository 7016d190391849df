// Package search defines the box types handed to a coarse search: the
// identity key that names a box across processes and the axis-aligned
// bounding box itself. Box-to-box intersection and the parallel exchange of
// boxes belong to the search implementation, not to this package.
package search
