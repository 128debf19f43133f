package noise

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/noisegraph/pkg/backend"
	"github.com/chazu/noisegraph/pkg/meta"
)

// Node is a live engine node. It owns its handle until Close.
//
// A Node is not safe for concurrent mutation; callers serialize Set and
// Close on the same Node. A node referenced by another node's member must
// stay open for as long as the reference is in use: references do not
// own what they point at.
type Node struct {
	lib    *Library
	h      backend.Handle
	kind   int
	closed bool
}

func (n *Node) mustOpen() {
	if n.closed {
		panic("noise: use of closed node")
	}
}

// KindID returns the engine id of the node's kind.
func (n *Node) KindID() int {
	return n.kind
}

// Kind returns the node's kind descriptor.
func (n *Node) Kind() *meta.NodeKind {
	return n.lib.Registry().Kind(n.kind)
}

// SIMDLevel returns the SIMD level the engine chose for this node.
func (n *Node) SIMDLevel() uint {
	n.mustOpen()
	return n.lib.b.SIMDLevel(n.h)
}

// Closed reports whether Close has been called.
func (n *Node) Closed() bool {
	return n.closed
}

// Close releases the engine handle. Calling Close again does nothing.
func (n *Node) Close() {
	if n.closed {
		return
	}
	n.closed = true
	n.lib.b.Delete(n.h)
	n.h = backend.NilHandle
}

// ---------------------------------------------------------------------------
// Member assignment
// ---------------------------------------------------------------------------

func (n *Node) memberError(member string, value any, err error) error {
	return &MemberError{Kind: n.Kind().Name, Member: member, Value: value, Err: err}
}

func (n *Node) resolve(name string, value any) (*meta.Member, error) {
	n.mustOpen()
	m, ok := n.lib.Registry().ResolveMember(n.kind, name)
	if !ok {
		return nil, n.memberError(name, value, ErrUnknownMember)
	}
	return m, nil
}

// engineResult turns an engine setter result into an error.
func (n *Node) engineResult(ok bool, name string, value any) error {
	if ok {
		return nil
	}
	n.lib.log.Debug("engine rejected member value",
		zap.String("kind", n.Kind().Name),
		zap.String("member", name),
		zap.Any("value", value))
	return n.memberError(name, value, ErrEngineRejected)
}

// SetFloat assigns a scalar to a float or hybrid member.
func (n *Node) SetFloat(name string, v float32) error {
	m, err := n.resolve(name, v)
	if err != nil {
		return err
	}
	switch m.Type {
	case meta.MemberFloat:
		return n.engineResult(n.lib.b.SetVariableFloat(n.h, m.Index, v), name, v)
	case meta.MemberHybrid:
		return n.engineResult(n.lib.b.SetHybridFloat(n.h, m.Index, v), name, v)
	}
	return n.memberError(name, v, ErrTypeMismatch)
}

// SetInt assigns an integer code to an int member.
func (n *Node) SetInt(name string, v int32) error {
	m, err := n.resolve(name, v)
	if err != nil {
		return err
	}
	if m.Type != meta.MemberInt {
		return n.memberError(name, v, ErrTypeMismatch)
	}
	return n.engineResult(n.lib.b.SetVariableIntEnum(n.h, m.Index, v), name, v)
}

// SetEnum assigns an enum member by value name. The value is normalized
// before lookup.
func (n *Node) SetEnum(name, value string) error {
	m, err := n.resolve(name, value)
	if err != nil {
		return err
	}
	if m.Type != meta.MemberEnum {
		return n.memberError(name, value, ErrTypeMismatch)
	}
	idx, ok := m.EnumIndex(value)
	if !ok {
		return n.memberError(name, value, ErrUnknownEnumValue)
	}
	return n.engineResult(n.lib.b.SetVariableIntEnum(n.h, m.Index, int32(idx)), name, value)
}

// SetNode points a node-lookup or hybrid member at ref. n does not take
// ownership of ref. ref must come from the same engine as n; handles from
// another engine are a type mismatch.
func (n *Node) SetNode(name string, ref *Node) error {
	if ref == nil {
		panic("noise: nil node reference")
	}
	m, err := n.resolve(name, ref)
	if err != nil {
		return err
	}
	ref.mustOpen()
	if ref.lib.b != n.lib.b {
		return n.memberError(name, ref, ErrTypeMismatch)
	}
	switch m.Type {
	case meta.MemberNodeLookup:
		return n.engineResult(n.lib.b.SetNodeLookup(n.h, m.Index, ref.h), name, ref)
	case meta.MemberHybrid:
		return n.engineResult(n.lib.b.SetHybridNodeLookup(n.h, m.Index, ref.h), name, ref)
	}
	return n.memberError(name, ref, ErrTypeMismatch)
}

// Set dispatches on the dynamic type of v: floats are scalars, integers
// are integer codes, strings are enum values and nodes are references.
// Any other type is a mismatch.
func (n *Node) Set(name string, v any) error {
	switch x := v.(type) {
	case float32:
		return n.SetFloat(name, x)
	case float64:
		return n.SetFloat(name, float32(x))
	case int:
		return n.setInt64(name, int64(x), v)
	case int32:
		return n.SetInt(name, x)
	case int64:
		return n.setInt64(name, x, v)
	case string:
		return n.SetEnum(name, x)
	case *Node:
		return n.SetNode(name, x)
	}
	if _, err := n.resolve(name, v); err != nil {
		return err
	}
	return n.memberError(name, v, ErrTypeMismatch)
}

// setInt64 is SetInt for values that may not fit in an int32. Those are
// rejected instead of being truncated into a value the engine accepts.
func (n *Node) setInt64(name string, x int64, v any) error {
	if x >= math.MinInt32 && x <= math.MaxInt32 {
		return n.SetInt(name, int32(x))
	}
	m, err := n.resolve(name, v)
	if err != nil {
		return err
	}
	if m.Type != meta.MemberInt {
		return n.memberError(name, v, ErrTypeMismatch)
	}
	return n.engineResult(false, name, v)
}

// String returns the kind name.
func (n *Node) String() string {
	if k := n.Kind(); k != nil {
		return k.Name
	}
	return "node"
}

// ---------------------------------------------------------------------------
// Generation
//
// Generation calls forward straight to the engine. out must hold one
// value per generated point; coordinate slices for position arrays must
// all have the same length.
// ---------------------------------------------------------------------------

func (n *Node) GenUniformGrid2D(out []float32, xStart, yStart, xSize, ySize int, frequency float32, seed int32) Range {
	n.mustOpen()
	return NewRange(n.lib.b.GenUniformGrid2D(n.h, out, xStart, yStart, xSize, ySize, frequency, seed))
}

func (n *Node) GenUniformGrid3D(out []float32, xStart, yStart, zStart, xSize, ySize, zSize int, frequency float32, seed int32) Range {
	n.mustOpen()
	return NewRange(n.lib.b.GenUniformGrid3D(n.h, out, xStart, yStart, zStart, xSize, ySize, zSize, frequency, seed))
}

func (n *Node) GenUniformGrid4D(out []float32, xStart, yStart, zStart, wStart, xSize, ySize, zSize, wSize int, frequency float32, seed int32) Range {
	n.mustOpen()
	return NewRange(n.lib.b.GenUniformGrid4D(n.h, out, xStart, yStart, zStart, wStart, xSize, ySize, zSize, wSize, frequency, seed))
}

// GenTileable2D fills out with a grid that wraps seamlessly on both axes.
func (n *Node) GenTileable2D(out []float32, xSize, ySize int, frequency float32, seed int32) Range {
	n.mustOpen()
	return NewRange(n.lib.b.GenTileable2D(n.h, out, xSize, ySize, frequency, seed))
}

func (n *Node) GenPositionArray2D(out []float32, xs, ys []float32, xOffset, yOffset float32, seed int32) Range {
	n.mustOpen()
	return NewRange(n.lib.b.GenPositionArray2D(n.h, out, xs, ys, xOffset, yOffset, seed))
}

func (n *Node) GenPositionArray3D(out []float32, xs, ys, zs []float32, xOffset, yOffset, zOffset float32, seed int32) Range {
	n.mustOpen()
	return NewRange(n.lib.b.GenPositionArray3D(n.h, out, xs, ys, zs, xOffset, yOffset, zOffset, seed))
}

func (n *Node) GenPositionArray4D(out []float32, xs, ys, zs, ws []float32, xOffset, yOffset, zOffset, wOffset float32, seed int32) Range {
	n.mustOpen()
	return NewRange(n.lib.b.GenPositionArray4D(n.h, out, xs, ys, zs, ws, xOffset, yOffset, zOffset, wOffset, seed))
}

func (n *Node) GenSingle2D(x, y float32, seed int32) float32 {
	n.mustOpen()
	return n.lib.b.GenSingle2D(n.h, x, y, seed)
}

func (n *Node) GenSingle3D(x, y, z float32, seed int32) float32 {
	n.mustOpen()
	return n.lib.b.GenSingle3D(n.h, x, y, z, seed)
}

func (n *Node) GenSingle4D(x, y, z, w float32, seed int32) float32 {
	n.mustOpen()
	return n.lib.b.GenSingle4D(n.h, x, y, z, w, seed)
}
