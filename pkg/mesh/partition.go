package mesh

import "fmt"

// Partition splits m into n process-local meshes with ranks 0..n-1. Elements
// are assigned in contiguous blocks that keep the original order; each part
// carries copies of the nodes its elements reference, so a node on a block
// boundary appears in more than one part.
func Partition(m *Mesh, n int) ([]*Mesh, error) {
	if n < 1 {
		return nil, fmt.Errorf("mesh: partition count must be positive, got %d", n)
	}
	parts := make([]*Mesh, n)
	total := len(m.elements)
	for r := 0; r < n; r++ {
		part, err := New(m.dim, uint32(r))
		if err != nil {
			return nil, err
		}
		lo, hi := blockRange(total, n, r)
		for _, el := range m.elements[lo:hi] {
			ids := make([]uint64, len(el.nodes))
			for i, node := range el.nodes {
				rec := m.nodes[node]
				ids[i] = rec.id
				if part.HasNode(rec.id) {
					continue
				}
				if _, err := part.AddNode(rec.id, rec.coords...); err != nil {
					return nil, err
				}
			}
			if _, err := part.AddElement(el.id, ids...); err != nil {
				return nil, err
			}
		}
		parts[r] = part
	}
	return parts, nil
}

// blockRange returns the half-open element range owned by rank r when total
// elements are split into n blocks whose sizes differ by at most one.
func blockRange(total, n, r int) (lo, hi int) {
	base, extra := total/n, total%n
	lo = r*base + min(r, extra)
	hi = lo + base
	if r < extra {
		hi++
	}
	return lo, hi
}
