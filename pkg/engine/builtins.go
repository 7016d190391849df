package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/meshbox/pkg/kernel"
	"github.com/chazu/meshbox/pkg/mesh"
	"github.com/chazu/meshbox/pkg/tessellate"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Mesh under construction
// ---------------------------------------------------------------------------

// meshBuilder accumulates the mesh described by one evaluation.
type meshBuilder struct {
	dim    int
	rank   uint32
	kernel kernel.Kernel
	m      *mesh.Mesh

	// next ids handed out by (surface ...) when no explicit start is given.
	nextNode    uint64
	nextElement uint64
}

func newMeshBuilder(dim int, rank uint32, k kernel.Kernel) *meshBuilder {
	return &meshBuilder{dim: dim, rank: rank, kernel: k, nextNode: 1, nextElement: 1}
}

// target returns the mesh, creating it on first use. The dimension is
// frozen from then on.
func (b *meshBuilder) target() (*mesh.Mesh, error) {
	if b.m == nil {
		m, err := mesh.New(b.dim, b.rank)
		if err != nil {
			return nil, err
		}
		b.m = m
	}
	return b.m, nil
}

func (b *meshBuilder) result() (*mesh.Mesh, []EvalError, error) {
	m, err := b.target()
	if err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	return m, nil, nil
}

func (b *meshBuilder) sawNode(id uint64) {
	if id >= b.nextNode {
		b.nextNode = id + 1
	}
}

func (b *meshBuilder) sawElement(id uint64) {
	if id >= b.nextElement {
		b.nextElement = id + 1
	}
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel.Solid so it can be passed between builtins.
type sexpSolid struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return "(solid " + s.desc + ")"
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpEntity is returned by node and element so scripts can print them.
type sexpEntity struct {
	kind string
	id   uint64
}

func (e *sexpEntity) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %d)", e.kind, e.id)
}
func (e *sexpEntity) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toID extracts a non-negative integer identifier.
func toID(s zygo.Sexp) (uint64, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected integer id, got %T (%s)", s, s.SexpString(nil))
	}
	if v.Val < 0 {
		return 0, fmt.Errorf("id must be non-negative, got %d", v.Val)
	}
	return uint64(v.Val), nil
}

// toFloats extracts every arg as a number.
func toFloats(args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// toSolid extracts a kernel.Solid from a sexpSolid.
func toSolid(s zygo.Sexp) (*sexpSolid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the mesh DSL builtins into a zygomys environment.
// The builtins populate b during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *meshBuilder) {

	// (dim 2)
	env.AddFunction("dim", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("dim requires exactly 1 argument, got %d", len(args))
		}
		if b.m != nil {
			return zygo.SexpNull, fmt.Errorf("dim must come before the first node or element")
		}
		d, err := toID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dim: %w", err)
		}
		if d < 1 || d > 3 {
			return zygo.SexpNull, fmt.Errorf("dim: dimension must be 1, 2 or 3, got %d", d)
		}
		b.dim = int(d)
		return zygo.SexpNull, nil
	})

	// (node 1 0.0 2.5) or (node 7) for a node without coordinate data
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("node requires an id")
		}
		id, err := toID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}
		coords, err := toFloats(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node %d: %w", id, err)
		}
		m, err := b.target()
		if err != nil {
			return zygo.SexpNull, err
		}
		if _, err := m.AddNode(id, coords...); err != nil {
			return zygo.SexpNull, err
		}
		b.sawNode(id)
		return &sexpEntity{kind: "node", id: id}, nil
	})

	// (element 10 1 2 3)
	env.AddFunction("element", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("element requires an id")
		}
		id, err := toID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("element: %w", err)
		}
		nodes := make([]uint64, 0, len(args)-1)
		for i, a := range args[1:] {
			nid, err := toID(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("element %d: node %d: %w", id, i+1, err)
			}
			nodes = append(nodes, nid)
		}
		m, err := b.target()
		if err != nil {
			return zygo.SexpNull, err
		}
		if _, err := m.AddElement(id, nodes...); err != nil {
			return zygo.SexpNull, err
		}
		b.sawElement(id)
		return &sexpEntity{kind: "element", id: id}, nil
	})

	registerSolids(env, b)

	// (surface s :first-node 1000 :first-element 5000)
	env.AddFunction("surface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("surface requires exactly one solid")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: %w", err)
		}
		opts := tessellate.Options{FirstNodeID: b.nextNode, FirstElementID: b.nextElement}
		if v, ok := pa.kw["first-node"]; ok {
			if opts.FirstNodeID, err = toID(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("surface: first-node: %w", err)
			}
		}
		if v, ok := pa.kw["first-element"]; ok {
			if opts.FirstElementID, err = toID(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("surface: first-element: %w", err)
			}
		}

		km, err := b.kernel.ToMesh(s.solid)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: %w", err)
		}
		m, err := b.target()
		if err != nil {
			return zygo.SexpNull, err
		}
		stats, err := tessellate.Append(m, km, opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: %w", err)
		}
		if stats.Nodes > 0 {
			b.sawNode(stats.NextNodeID - 1)
		}
		if stats.Elements > 0 {
			b.sawElement(stats.NextElementID - 1)
		}
		return &sexpEntity{kind: "surface", id: opts.FirstElementID}, nil
	})
}

// registerSolids installs the solid modelling builtins. They all require a
// kernel; without one they fail when called.
func registerSolids(env *zygo.Zlisp, b *meshBuilder) {
	needKernel := func(fn string) error {
		if b.kernel == nil {
			return fmt.Errorf("%s: no solid kernel configured", fn)
		}
		return nil
	}

	// (box 10 20 30), (cylinder 40 5), (sphere 3)
	primitive := func(fn string, arity int, mk func(dims []float64) (kernel.Solid, error)) {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := needKernel(fn); err != nil {
				return zygo.SexpNull, err
			}
			if len(args) != arity {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly %d arguments, got %d", fn, arity, len(args))
			}
			dims, err := toFloats(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			s, err := mk(dims)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpSolid{solid: s, desc: fmt.Sprintf("%s %v", fn, dims)}, nil
		})
	}
	primitive("box", 3, func(d []float64) (kernel.Solid, error) { return b.kernel.Box(d[0], d[1], d[2]) })
	primitive("cylinder", 2, func(d []float64) (kernel.Solid, error) { return b.kernel.Cylinder(d[0], d[1]) })
	primitive("sphere", 1, func(d []float64) (kernel.Solid, error) { return b.kernel.Sphere(d[0]) })

	// (union a b), (difference a b), (intersection a b)
	boolean := func(fn string, op func(a, b kernel.Solid) kernel.Solid) {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := needKernel(fn); err != nil {
				return zygo.SexpNull, err
			}
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 solids, got %d", fn, len(args))
			}
			x, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			y, err := toSolid(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			return &sexpSolid{solid: op(x.solid, y.solid), desc: fn}, nil
		})
	}
	boolean("union", func(x, y kernel.Solid) kernel.Solid { return b.kernel.Union(x, y) })
	boolean("difference", func(x, y kernel.Solid) kernel.Solid { return b.kernel.Difference(x, y) })
	boolean("intersection", func(x, y kernel.Solid) kernel.Solid { return b.kernel.Intersection(x, y) })

	// (translate s 1 2 3), (rotate s 0 0 90)
	transform := func(fn string, op func(s kernel.Solid, x, y, z float64) kernel.Solid) {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := needKernel(fn); err != nil {
				return zygo.SexpNull, err
			}
			if len(args) != 4 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and 3 numbers, got %d arguments", fn, len(args))
			}
			s, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			v, err := toFloats(args[1:])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			return &sexpSolid{solid: op(s.solid, v[0], v[1], v[2]), desc: fn + " " + s.desc}, nil
		})
	}
	transform("translate", func(s kernel.Solid, x, y, z float64) kernel.Solid { return b.kernel.Translate(s, x, y, z) })
	transform("rotate", func(s kernel.Solid, x, y, z float64) kernel.Solid { return b.kernel.Rotate(s, x, y, z) })
}
