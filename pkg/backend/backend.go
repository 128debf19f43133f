// Package backend defines the abstract noise engine boundary.
// Implementations (fastnoise, perlin) describe their node kinds and
// execute node operations behind this interface. Nothing above this
// package knows which engine produced a handle.
package backend

import "fmt"

// Handle is an opaque token identifying one live engine-side node.
// The zero value is the nil handle.
type Handle uint64

// NilHandle is returned by constructors that could not produce a node.
const NilHandle Handle = 0

// IsNil reports whether h is the nil handle.
func (h Handle) IsNil() bool {
	return h == NilHandle
}

// VariableType is the declared type of a scalar/enum member as the engine
// reports it. The numbering matches the FastNoise2 C API.
type VariableType int

const (
	VariableFloat VariableType = iota
	VariableInt
	VariableEnum
)

func (t VariableType) String() string {
	switch t {
	case VariableFloat:
		return "float"
	case VariableInt:
		return "int"
	case VariableEnum:
		return "enum"
	default:
		return fmt.Sprintf("VariableType(%d)", int(t))
	}
}

// NoDimension is the dimension index reported for members that are not
// bound to a coordinate axis.
const NoDimension = -1

// Schema is the engine's self-description. Kind ids run from 0 to
// KindCount()-1; member indices are zero-based within each list
// (variables, node lookups, hybrids) independently.
type Schema interface {
	KindCount() int
	KindName(id int) string

	VariableCount(id int) int
	VariableName(id, idx int) string
	VariableType(id, idx int) VariableType
	VariableDimension(id, idx int) int
	EnumCount(id, idx int) int
	EnumName(id, idx, enumIdx int) string

	NodeLookupCount(id int) int
	NodeLookupName(id, idx int) string
	NodeLookupDimension(id, idx int) int

	HybridCount(id int) int
	HybridName(id, idx int) string
	HybridDimension(id, idx int) int
}

// Nodes is the handle-level API. Setters return false when the engine
// rejects the call. Generation calls write into out and return the
// observed [min, max] of the values written.
type Nodes interface {
	// Lifecycle
	NewFromKind(id int, simdLevel uint) Handle
	NewFromEncodedNodeTree(encoded string, simdLevel uint) Handle
	Delete(h Handle)
	KindID(h Handle) int
	SIMDLevel(h Handle) uint

	// Members
	SetVariableFloat(h Handle, idx int, v float32) bool
	SetVariableIntEnum(h Handle, idx int, v int32) bool
	SetNodeLookup(h Handle, idx int, ref Handle) bool
	SetHybridNodeLookup(h Handle, idx int, ref Handle) bool
	SetHybridFloat(h Handle, idx int, v float32) bool

	// Uniform grids
	GenUniformGrid2D(h Handle, out []float32, xStart, yStart, xSize, ySize int, frequency float32, seed int32) [2]float32
	GenUniformGrid3D(h Handle, out []float32, xStart, yStart, zStart, xSize, ySize, zSize int, frequency float32, seed int32) [2]float32
	GenUniformGrid4D(h Handle, out []float32, xStart, yStart, zStart, wStart, xSize, ySize, zSize, wSize int, frequency float32, seed int32) [2]float32
	GenTileable2D(h Handle, out []float32, xSize, ySize int, frequency float32, seed int32) [2]float32

	// Scattered positions
	GenPositionArray2D(h Handle, out []float32, xs, ys []float32, xOffset, yOffset float32, seed int32) [2]float32
	GenPositionArray3D(h Handle, out []float32, xs, ys, zs []float32, xOffset, yOffset, zOffset float32, seed int32) [2]float32
	GenPositionArray4D(h Handle, out []float32, xs, ys, zs, ws []float32, xOffset, yOffset, zOffset, wOffset float32, seed int32) [2]float32

	// Single points
	GenSingle2D(h Handle, x, y float32, seed int32) float32
	GenSingle3D(h Handle, x, y, z float32, seed int32) float32
	GenSingle4D(h Handle, x, y, z, w float32, seed int32) float32
}

// Backend is a complete noise engine: schema plus node operations.
type Backend interface {
	Schema
	Nodes
}
