package perlin

import "github.com/chazu/noisegraph/pkg/backend"

// Kind ids, in schema order.
const (
	KindConstant = iota
	KindPerlin
	KindDomainScale
	KindDomainAxisScale
	KindAdd
	KindMultiply
	KindDomainWarp
	KindFractalFBm
	KindDistanceToPoint
)

// Distance functions for the Distance To Point kind, in enum order.
const (
	DistanceEuclidean = iota
	DistanceEuclideanSquared
	DistanceManhattan
	DistanceMaxAxis
)

// variable is one scalar/enum member of a kind.
type variable struct {
	name     string
	typ      backend.VariableType
	dim      int
	def      float32 // default for float variables, and int/enum variables as an integer
	min, max int32   // accepted range for int variables
	enums    []string
}

// slot is one node-lookup or hybrid member of a kind.
type slot struct {
	name string
	dim  int
	def  float32 // hybrid default when no node is attached
}

type kindDef struct {
	name    string
	vars    []variable
	lookups []slot
	hybrids []slot
}

func floatVar(name string, def float32) variable {
	return variable{name: name, typ: backend.VariableFloat, dim: backend.NoDimension, def: def}
}

func intVar(name string, def float32, min, max int32) variable {
	return variable{name: name, typ: backend.VariableInt, dim: backend.NoDimension, def: def, min: min, max: max}
}

// axisVars expands one per-axis float variable into four dimensioned entries.
func axisVars(name string, def float32) []variable {
	vs := make([]variable, 4)
	for d := range vs {
		vs[d] = variable{name: name, typ: backend.VariableFloat, dim: d, def: def}
	}
	return vs
}

func lookup(name string) slot {
	return slot{name: name, dim: backend.NoDimension}
}

func hybrid(name string, def float32) slot {
	return slot{name: name, dim: backend.NoDimension, def: def}
}

// kinds is the engine's self-described schema.
var kinds = []kindDef{
	KindConstant: {
		name: "Constant",
		vars: []variable{floatVar("Value", 1)},
	},
	KindPerlin: {
		name: "Perlin",
		vars: []variable{
			floatVar("Frequency", 1),
			floatVar("Alpha", 2),
			floatVar("Beta", 2),
			intVar("Octaves", 3, 1, 16),
		},
	},
	KindDomainScale: {
		name:    "Domain Scale",
		vars:    []variable{floatVar("Scale", 1)},
		lookups: []slot{lookup("Source")},
	},
	KindDomainAxisScale: {
		name:    "Domain Axis Scale",
		vars:    axisVars("Scale", 1),
		lookups: []slot{lookup("Source")},
	},
	KindAdd: {
		name:    "Add",
		lookups: []slot{lookup("LHS")},
		hybrids: []slot{hybrid("RHS", 0)},
	},
	KindMultiply: {
		name:    "Multiply",
		lookups: []slot{lookup("LHS")},
		hybrids: []slot{hybrid("RHS", 1)},
	},
	KindDomainWarp: {
		name:    "Domain Warp",
		vars:    []variable{floatVar("Warp Frequency", 0.5)},
		lookups: []slot{lookup("Source")},
		hybrids: []slot{hybrid("Warp", 1)},
	},
	KindFractalFBm: {
		name: "Fractal FBm",
		vars: []variable{
			intVar("Octaves", 3, 1, 16),
			floatVar("Lacunarity", 2),
		},
		lookups: []slot{lookup("Source")},
		hybrids: []slot{hybrid("Gain", 0.5)},
	},
	KindDistanceToPoint: {
		name: "Distance To Point",
		vars: append([]variable{{
			name:  "Distance Function",
			typ:   backend.VariableEnum,
			dim:   backend.NoDimension,
			def:   DistanceEuclidean,
			enums: []string{"Euclidean", "Euclidean Squared", "Manhattan", "Max Axis"},
		}}, axisVars("Point", 0)...),
	},
}

func validKind(id int) bool {
	return id >= 0 && id < len(kinds)
}

// KindCount returns the number of node kinds.
func (b *Backend) KindCount() int { return len(kinds) }

// KindName returns the display name of kind id.
func (b *Backend) KindName(id int) string {
	if !validKind(id) {
		return ""
	}
	return kinds[id].name
}

func (b *Backend) VariableCount(id int) int {
	if !validKind(id) {
		return 0
	}
	return len(kinds[id].vars)
}

func (b *Backend) variable(id, idx int) *variable {
	if !validKind(id) || idx < 0 || idx >= len(kinds[id].vars) {
		return nil
	}
	return &kinds[id].vars[idx]
}

func (b *Backend) VariableName(id, idx int) string {
	if v := b.variable(id, idx); v != nil {
		return v.name
	}
	return ""
}

func (b *Backend) VariableType(id, idx int) backend.VariableType {
	if v := b.variable(id, idx); v != nil {
		return v.typ
	}
	return backend.VariableFloat
}

func (b *Backend) VariableDimension(id, idx int) int {
	if v := b.variable(id, idx); v != nil {
		return v.dim
	}
	return backend.NoDimension
}

func (b *Backend) EnumCount(id, idx int) int {
	if v := b.variable(id, idx); v != nil {
		return len(v.enums)
	}
	return 0
}

func (b *Backend) EnumName(id, idx, enumIdx int) string {
	v := b.variable(id, idx)
	if v == nil || enumIdx < 0 || enumIdx >= len(v.enums) {
		return ""
	}
	return v.enums[enumIdx]
}

func (b *Backend) NodeLookupCount(id int) int {
	if !validKind(id) {
		return 0
	}
	return len(kinds[id].lookups)
}

func (b *Backend) NodeLookupName(id, idx int) string {
	if !validKind(id) || idx < 0 || idx >= len(kinds[id].lookups) {
		return ""
	}
	return kinds[id].lookups[idx].name
}

func (b *Backend) NodeLookupDimension(id, idx int) int {
	if !validKind(id) || idx < 0 || idx >= len(kinds[id].lookups) {
		return backend.NoDimension
	}
	return kinds[id].lookups[idx].dim
}

func (b *Backend) HybridCount(id int) int {
	if !validKind(id) {
		return 0
	}
	return len(kinds[id].hybrids)
}

func (b *Backend) HybridName(id, idx int) string {
	if !validKind(id) || idx < 0 || idx >= len(kinds[id].hybrids) {
		return ""
	}
	return kinds[id].hybrids[idx].name
}

func (b *Backend) HybridDimension(id, idx int) int {
	if !validKind(id) || idx < 0 || idx >= len(kinds[id].hybrids) {
		return backend.NoDimension
	}
	return kinds[id].hybrids[idx].dim
}
