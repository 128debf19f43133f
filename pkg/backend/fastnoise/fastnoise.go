//go:build fastnoise

// Package fastnoise provides a CGo binding to the FastNoise2 C API
// (https://github.com/Auburn/FastNoise2). FastNoise2 describes its node
// kinds at runtime through its metadata functions; this package exposes
// them, and the node handle operations, as a backend.Backend.
//
// This package requires the FastNoise2 library to be installed.
// Build with: go build -tags=fastnoise
package fastnoise

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lFastNoise

#include <stdbool.h>
#include <stdlib.h>
#include <FastNoise/FastNoise_C.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/chazu/noisegraph/pkg/backend"
)

// Compile-time interface check.
var _ backend.Backend = (*FastNoise)(nil)

// FastNoise implements backend.Backend on the FastNoise2 C library.
// Native node pointers never leave this package; callers see handles.
type FastNoise struct {
	mu    sync.RWMutex
	next  backend.Handle
	nodes map[backend.Handle]unsafe.Pointer
}

var (
	once     sync.Once
	instance *FastNoise
)

// New returns the process-wide FastNoise2 backend. The library holds its
// metadata in static storage, so there is exactly one.
func New() (backend.Backend, error) {
	once.Do(func() {
		instance = &FastNoise{nodes: make(map[backend.Handle]unsafe.Pointer)}
	})
	return instance, nil
}

func (f *FastNoise) track(p unsafe.Pointer) backend.Handle {
	if p == nil {
		return backend.NilHandle
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.nodes[f.next] = p
	return f.next
}

func (f *FastNoise) ptr(h backend.Handle) unsafe.Pointer {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.nodes[h]
}

// floatPtr returns a C view of s, or nil for an empty slice.
func floatPtr(s []float32) *C.float {
	if len(s) == 0 {
		return nil
	}
	return (*C.float)(unsafe.Pointer(&s[0]))
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (f *FastNoise) KindCount() int {
	return int(C.fnGetMetadataCount())
}

func (f *FastNoise) KindName(id int) string {
	return C.GoString(C.fnGetMetadataName(C.int(id)))
}

func (f *FastNoise) VariableCount(id int) int {
	return int(C.fnGetMetadataVariableCount(C.int(id)))
}

func (f *FastNoise) VariableName(id, idx int) string {
	return C.GoString(C.fnGetMetadataVariableName(C.int(id), C.int(idx)))
}

func (f *FastNoise) VariableType(id, idx int) backend.VariableType {
	return backend.VariableType(C.fnGetMetadataVariableType(C.int(id), C.int(idx)))
}

func (f *FastNoise) VariableDimension(id, idx int) int {
	return int(C.fnGetMetadataVariableDimensionIdx(C.int(id), C.int(idx)))
}

func (f *FastNoise) EnumCount(id, idx int) int {
	return int(C.fnGetMetadataEnumCount(C.int(id), C.int(idx)))
}

func (f *FastNoise) EnumName(id, idx, enumIdx int) string {
	return C.GoString(C.fnGetMetadataEnumName(C.int(id), C.int(idx), C.int(enumIdx)))
}

func (f *FastNoise) NodeLookupCount(id int) int {
	return int(C.fnGetMetadataNodeLookupCount(C.int(id)))
}

func (f *FastNoise) NodeLookupName(id, idx int) string {
	return C.GoString(C.fnGetMetadataNodeLookupName(C.int(id), C.int(idx)))
}

func (f *FastNoise) NodeLookupDimension(id, idx int) int {
	return int(C.fnGetMetadataNodeLookupDimensionIdx(C.int(id), C.int(idx)))
}

func (f *FastNoise) HybridCount(id int) int {
	return int(C.fnGetMetadataHybridCount(C.int(id)))
}

func (f *FastNoise) HybridName(id, idx int) string {
	return C.GoString(C.fnGetMetadataHybridName(C.int(id), C.int(idx)))
}

func (f *FastNoise) HybridDimension(id, idx int) int {
	return int(C.fnGetMetadataHybridDimensionIdx(C.int(id), C.int(idx)))
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (f *FastNoise) NewFromKind(id int, simdLevel uint) backend.Handle {
	return f.track(C.fnNewFromMetadata(C.int(id), C.uint(simdLevel)))
}

// NewFromEncodedNodeTree decodes a FastNoise2 encoded node tree (the
// string produced by the NoiseTool). It returns the nil handle when the
// library rejects the encoding.
func (f *FastNoise) NewFromEncodedNodeTree(encoded string, simdLevel uint) backend.Handle {
	cs := C.CString(encoded)
	defer C.free(unsafe.Pointer(cs))
	return f.track(C.fnNewFromEncodedNodeTree(cs, C.uint(simdLevel)))
}

// Delete drops this binding's reference to h. The library keeps the node
// alive while other nodes still reference it.
func (f *FastNoise) Delete(h backend.Handle) {
	f.mu.Lock()
	p, ok := f.nodes[h]
	delete(f.nodes, h)
	f.mu.Unlock()
	if ok {
		C.fnDeleteNodeRef(p)
	}
}

func (f *FastNoise) KindID(h backend.Handle) int {
	return int(C.fnGetMetadataID(f.ptr(h)))
}

func (f *FastNoise) SIMDLevel(h backend.Handle) uint {
	return uint(C.fnGetSIMDLevel(f.ptr(h)))
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

func (f *FastNoise) SetVariableFloat(h backend.Handle, idx int, v float32) bool {
	return bool(C.fnSetVariableFloat(f.ptr(h), C.int(idx), C.float(v)))
}

func (f *FastNoise) SetVariableIntEnum(h backend.Handle, idx int, v int32) bool {
	return bool(C.fnSetVariableIntEnum(f.ptr(h), C.int(idx), C.int(v)))
}

func (f *FastNoise) SetNodeLookup(h backend.Handle, idx int, ref backend.Handle) bool {
	r := f.ptr(ref)
	if r == nil {
		return false
	}
	return bool(C.fnSetNodeLookup(f.ptr(h), C.int(idx), r))
}

func (f *FastNoise) SetHybridNodeLookup(h backend.Handle, idx int, ref backend.Handle) bool {
	r := f.ptr(ref)
	if r == nil {
		return false
	}
	return bool(C.fnSetHybridNodeLookup(f.ptr(h), C.int(idx), r))
}

func (f *FastNoise) SetHybridFloat(h backend.Handle, idx int, v float32) bool {
	return bool(C.fnSetHybridFloat(f.ptr(h), C.int(idx), C.float(v)))
}

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

func (f *FastNoise) GenUniformGrid2D(h backend.Handle, out []float32, xStart, yStart, xSize, ySize int, frequency float32, seed int32) [2]float32 {
	var mm [2]float32
	C.fnGenUniformGrid2D(f.ptr(h), floatPtr(out),
		C.int(xStart), C.int(yStart),
		C.int(xSize), C.int(ySize),
		C.float(frequency), C.int(seed), floatPtr(mm[:]))
	return mm
}

func (f *FastNoise) GenUniformGrid3D(h backend.Handle, out []float32, xStart, yStart, zStart, xSize, ySize, zSize int, frequency float32, seed int32) [2]float32 {
	var mm [2]float32
	C.fnGenUniformGrid3D(f.ptr(h), floatPtr(out),
		C.int(xStart), C.int(yStart), C.int(zStart),
		C.int(xSize), C.int(ySize), C.int(zSize),
		C.float(frequency), C.int(seed), floatPtr(mm[:]))
	return mm
}

func (f *FastNoise) GenUniformGrid4D(h backend.Handle, out []float32, xStart, yStart, zStart, wStart, xSize, ySize, zSize, wSize int, frequency float32, seed int32) [2]float32 {
	var mm [2]float32
	C.fnGenUniformGrid4D(f.ptr(h), floatPtr(out),
		C.int(xStart), C.int(yStart), C.int(zStart), C.int(wStart),
		C.int(xSize), C.int(ySize), C.int(zSize), C.int(wSize),
		C.float(frequency), C.int(seed), floatPtr(mm[:]))
	return mm
}

func (f *FastNoise) GenTileable2D(h backend.Handle, out []float32, xSize, ySize int, frequency float32, seed int32) [2]float32 {
	var mm [2]float32
	C.fnGenTileable2D(f.ptr(h), floatPtr(out),
		C.int(xSize), C.int(ySize),
		C.float(frequency), C.int(seed), floatPtr(mm[:]))
	return mm
}

func (f *FastNoise) GenPositionArray2D(h backend.Handle, out []float32, xs, ys []float32, xOffset, yOffset float32, seed int32) [2]float32 {
	var mm [2]float32
	C.fnGenPositionArray2D(f.ptr(h), floatPtr(out), C.int(len(xs)),
		floatPtr(xs), floatPtr(ys),
		C.float(xOffset), C.float(yOffset),
		C.int(seed), floatPtr(mm[:]))
	return mm
}

func (f *FastNoise) GenPositionArray3D(h backend.Handle, out []float32, xs, ys, zs []float32, xOffset, yOffset, zOffset float32, seed int32) [2]float32 {
	var mm [2]float32
	C.fnGenPositionArray3D(f.ptr(h), floatPtr(out), C.int(len(xs)),
		floatPtr(xs), floatPtr(ys), floatPtr(zs),
		C.float(xOffset), C.float(yOffset), C.float(zOffset),
		C.int(seed), floatPtr(mm[:]))
	return mm
}

func (f *FastNoise) GenPositionArray4D(h backend.Handle, out []float32, xs, ys, zs, ws []float32, xOffset, yOffset, zOffset, wOffset float32, seed int32) [2]float32 {
	var mm [2]float32
	C.fnGenPositionArray4D(f.ptr(h), floatPtr(out), C.int(len(xs)),
		floatPtr(xs), floatPtr(ys), floatPtr(zs), floatPtr(ws),
		C.float(xOffset), C.float(yOffset), C.float(zOffset), C.float(wOffset),
		C.int(seed), floatPtr(mm[:]))
	return mm
}

func (f *FastNoise) GenSingle2D(h backend.Handle, x, y float32, seed int32) float32 {
	return float32(C.fnGenSingle2D(f.ptr(h), C.float(x), C.float(y), C.int(seed)))
}

func (f *FastNoise) GenSingle3D(h backend.Handle, x, y, z float32, seed int32) float32 {
	return float32(C.fnGenSingle3D(f.ptr(h), C.float(x), C.float(y), C.float(z), C.int(seed)))
}

func (f *FastNoise) GenSingle4D(h backend.Handle, x, y, z, w float32, seed int32) float32 {
	return float32(C.fnGenSingle4D(f.ptr(h), C.float(x), C.float(y), C.float(z), C.float(w), C.int(seed)))
}
