// Package perlin implements the backend.Backend interface in pure Go.
// Noise comes from github.com/aquilax/go-perlin, distance math from
// github.com/deadsy/sdfx, and encoded node trees are s-expressions
// evaluated in a sandboxed github.com/glycerine/zygomys interpreter.
//
// The engine describes a small fixed set of node kinds (see kinds) and
// follows FastNoise2's generation conventions so that code written
// against it behaves the same on the native engine.
package perlin

import (
	"sync"

	"github.com/chazu/noisegraph/pkg/backend"
)

// Compile-time interface check.
var _ backend.Backend = (*Backend)(nil)

// hybridValue is the state of one hybrid member: a scalar, or a node
// when node is non-nil.
type hybridValue struct {
	value float32
	node  backend.Handle
}

// instance is the engine-side state behind a handle. References to other
// nodes are stored as handles and resolved at generation time.
type instance struct {
	kind    int
	simd    uint
	floats  []float32
	ints    []int32
	lookups []backend.Handle
	hybrids []hybridValue

	// owned lists handles created while decoding this node's tree.
	// They are released together with it.
	owned []backend.Handle
}

func newInstance(kind int, simd uint) *instance {
	def := &kinds[kind]
	in := &instance{
		kind:    kind,
		simd:    simd,
		floats:  make([]float32, len(def.vars)),
		ints:    make([]int32, len(def.vars)),
		lookups: make([]backend.Handle, len(def.lookups)),
		hybrids: make([]hybridValue, len(def.hybrids)),
	}
	for i, v := range def.vars {
		if v.typ == backend.VariableFloat {
			in.floats[i] = v.def
		} else {
			in.ints[i] = int32(v.def)
		}
	}
	for i, h := range def.hybrids {
		in.hybrids[i].value = h.def
	}
	return in
}

// Backend is a pure-Go noise engine. It is safe for concurrent use across
// different handles; calls that mutate the same handle must be serialized
// by the caller.
type Backend struct {
	mu    sync.RWMutex
	next  backend.Handle
	nodes map[backend.Handle]*instance
}

// New returns an empty engine.
func New() *Backend {
	return &Backend{nodes: make(map[backend.Handle]*instance)}
}

// Live returns the number of handles that have not been deleted,
// including nodes owned by decoded trees.
func (b *Backend) Live() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.nodes)
}

func (b *Backend) add(in *instance) backend.Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.nodes[b.next] = in
	return b.next
}

func (b *Backend) get(h backend.Handle) *instance {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nodes[h]
}

// NewFromKind creates a node of kind id with default member values.
func (b *Backend) NewFromKind(id int, simdLevel uint) backend.Handle {
	if !validKind(id) {
		return backend.NilHandle
	}
	return b.add(newInstance(id, simdLevel))
}

// Delete releases h and every node its decoded tree owns. Deleting an
// unknown handle is a no-op.
func (b *Backend) Delete(h backend.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteLocked(h)
}

func (b *Backend) deleteLocked(h backend.Handle) {
	in, ok := b.nodes[h]
	if !ok {
		return
	}
	delete(b.nodes, h)
	for _, child := range in.owned {
		b.deleteLocked(child)
	}
}

// KindID returns the kind of h, or -1 for unknown handles.
func (b *Backend) KindID(h backend.Handle) int {
	in := b.get(h)
	if in == nil {
		return -1
	}
	return in.kind
}

// SIMDLevel reports the level requested at creation. Evaluation is always
// scalar Go code, so the value is informational only.
func (b *Backend) SIMDLevel(h backend.Handle) uint {
	in := b.get(h)
	if in == nil {
		return 0
	}
	return in.simd
}

func (b *Backend) SetVariableFloat(h backend.Handle, idx int, v float32) bool {
	in := b.get(h)
	if in == nil {
		return false
	}
	def := b.variable(in.kind, idx)
	if def == nil || def.typ != backend.VariableFloat {
		return false
	}
	in.floats[idx] = v
	return true
}

func (b *Backend) SetVariableIntEnum(h backend.Handle, idx int, v int32) bool {
	in := b.get(h)
	if in == nil {
		return false
	}
	def := b.variable(in.kind, idx)
	if def == nil {
		return false
	}
	switch def.typ {
	case backend.VariableInt:
		if v < def.min || v > def.max {
			return false
		}
	case backend.VariableEnum:
		if v < 0 || int(v) >= len(def.enums) {
			return false
		}
	default:
		return false
	}
	in.ints[idx] = v
	return true
}

func (b *Backend) SetNodeLookup(h backend.Handle, idx int, ref backend.Handle) bool {
	in := b.get(h)
	if in == nil || idx < 0 || idx >= len(in.lookups) || b.get(ref) == nil {
		return false
	}
	in.lookups[idx] = ref
	return true
}

func (b *Backend) SetHybridNodeLookup(h backend.Handle, idx int, ref backend.Handle) bool {
	in := b.get(h)
	if in == nil || idx < 0 || idx >= len(in.hybrids) || b.get(ref) == nil {
		return false
	}
	in.hybrids[idx].node = ref
	return true
}

func (b *Backend) SetHybridFloat(h backend.Handle, idx int, v float32) bool {
	in := b.get(h)
	if in == nil || idx < 0 || idx >= len(in.hybrids) {
		return false
	}
	in.hybrids[idx] = hybridValue{value: v}
	return true
}
