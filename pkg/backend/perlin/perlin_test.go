package perlin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/noisegraph/pkg/backend"
)

func TestSchema(t *testing.T) {
	b := New()
	require.Equal(t, len(kinds), b.KindCount())

	assert.Equal(t, "Perlin", b.KindName(KindPerlin))
	assert.Equal(t, "Domain Warp", b.KindName(KindDomainWarp))
	assert.Equal(t, "", b.KindName(-1))
	assert.Equal(t, "", b.KindName(b.KindCount()))

	// Domain Axis Scale exposes one variable per axis.
	require.Equal(t, 4, b.VariableCount(KindDomainAxisScale))
	for d := 0; d < 4; d++ {
		assert.Equal(t, "Scale", b.VariableName(KindDomainAxisScale, d))
		assert.Equal(t, d, b.VariableDimension(KindDomainAxisScale, d))
		assert.Equal(t, backend.VariableFloat, b.VariableType(KindDomainAxisScale, d))
	}
	assert.Equal(t, 1, b.NodeLookupCount(KindDomainAxisScale))
	assert.Equal(t, "Source", b.NodeLookupName(KindDomainAxisScale, 0))
	assert.Equal(t, backend.NoDimension, b.NodeLookupDimension(KindDomainAxisScale, 0))

	assert.Equal(t, backend.VariableInt, b.VariableType(KindPerlin, 3))
	assert.Equal(t, backend.VariableEnum, b.VariableType(KindDistanceToPoint, 0))
	assert.Equal(t, 4, b.EnumCount(KindDistanceToPoint, 0))
	assert.Equal(t, "Euclidean Squared", b.EnumName(KindDistanceToPoint, 0, 1))
	assert.Equal(t, "", b.EnumName(KindDistanceToPoint, 0, 9))
	assert.Equal(t, 0, b.EnumCount(KindPerlin, 0))

	assert.Equal(t, 1, b.HybridCount(KindDomainWarp))
	assert.Equal(t, "Warp", b.HybridName(KindDomainWarp, 0))
	assert.Equal(t, backend.NoDimension, b.HybridDimension(KindDomainWarp, 0))
	assert.Equal(t, 0, b.HybridCount(KindConstant))
}

func TestLifecycle(t *testing.T) {
	b := New()
	h := b.NewFromKind(KindPerlin, 2)
	require.False(t, h.IsNil())
	assert.Equal(t, KindPerlin, b.KindID(h))
	assert.Equal(t, uint(2), b.SIMDLevel(h))
	assert.Equal(t, 1, b.Live())

	b.Delete(h)
	assert.Equal(t, 0, b.Live())
	assert.Equal(t, -1, b.KindID(h))
	b.Delete(h) // no-op

	assert.True(t, b.NewFromKind(-1, 0).IsNil())
	assert.True(t, b.NewFromKind(len(kinds), 0).IsNil())
}

func TestSetters(t *testing.T) {
	b := New()
	p := b.NewFromKind(KindPerlin, 0)
	warp := b.NewFromKind(KindDomainWarp, 0)
	dist := b.NewFromKind(KindDistanceToPoint, 0)

	tests := []struct {
		name string
		ok   bool
		call func() bool
	}{
		{"float", true, func() bool { return b.SetVariableFloat(p, 0, 0.5) }},
		{"float on int variable", false, func() bool { return b.SetVariableFloat(p, 3, 0.5) }},
		{"float index out of range", false, func() bool { return b.SetVariableFloat(p, 9, 0.5) }},
		{"int in range", true, func() bool { return b.SetVariableIntEnum(p, 3, 8) }},
		{"int below range", false, func() bool { return b.SetVariableIntEnum(p, 3, 0) }},
		{"int above range", false, func() bool { return b.SetVariableIntEnum(p, 3, 17) }},
		{"int on float variable", false, func() bool { return b.SetVariableIntEnum(p, 0, 1) }},
		{"enum in range", true, func() bool { return b.SetVariableIntEnum(dist, 0, DistanceManhattan) }},
		{"enum out of range", false, func() bool { return b.SetVariableIntEnum(dist, 0, 4) }},
		{"lookup", true, func() bool { return b.SetNodeLookup(warp, 0, p) }},
		{"lookup unknown ref", false, func() bool { return b.SetNodeLookup(warp, 0, 9999) }},
		{"lookup index out of range", false, func() bool { return b.SetNodeLookup(warp, 1, p) }},
		{"hybrid node", true, func() bool { return b.SetHybridNodeLookup(warp, 0, p) }},
		{"hybrid float", true, func() bool { return b.SetHybridFloat(warp, 0, 2) }},
		{"hybrid index out of range", false, func() bool { return b.SetHybridFloat(warp, 3, 2) }},
		{"unknown target", false, func() bool { return b.SetVariableFloat(9999, 0, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.call())
		})
	}
}

func TestGenSingleDistance(t *testing.T) {
	b := New()
	h := b.NewFromKind(KindDistanceToPoint, 0)

	tests := []struct {
		fn   int32
		want float32
	}{
		{DistanceEuclidean, 5},
		{DistanceEuclideanSquared, 25},
		{DistanceManhattan, 7},
		{DistanceMaxAxis, 4},
	}
	for _, tt := range tests {
		require.True(t, b.SetVariableIntEnum(h, 0, tt.fn))
		assert.InDelta(t, tt.want, b.GenSingle2D(h, 3, 4, 0), 1e-5, "fn %d", tt.fn)
	}

	require.True(t, b.SetVariableIntEnum(h, 0, DistanceEuclidean))
	assert.InDelta(t, 3, b.GenSingle3D(h, 1, 2, 2, 0), 1e-5)
	assert.InDelta(t, 5, b.GenSingle4D(h, 1, 2, 2, 4, 0), 1e-5)

	// Move the point to (1, 1, 1, 1).
	for d := 1; d <= 4; d++ {
		require.True(t, b.SetVariableFloat(h, d, 1))
	}
	assert.InDelta(t, 0, b.GenSingle4D(h, 1, 1, 1, 1, 0), 1e-5)
}

func TestGenSingleComposite(t *testing.T) {
	b := New()
	dist := b.NewFromKind(KindDistanceToPoint, 0)

	scale := b.NewFromKind(KindDomainScale, 0)
	require.True(t, b.SetNodeLookup(scale, 0, dist))
	require.True(t, b.SetVariableFloat(scale, 0, 2))
	assert.InDelta(t, 10, b.GenSingle2D(scale, 3, 4, 0), 1e-5)

	axis := b.NewFromKind(KindDomainAxisScale, 0)
	require.True(t, b.SetNodeLookup(axis, 0, dist))
	require.True(t, b.SetVariableFloat(axis, 1, 0)) // scale y
	assert.InDelta(t, 3, b.GenSingle2D(axis, 3, 4, 0), 1e-5)

	add := b.NewFromKind(KindAdd, 0)
	require.True(t, b.SetNodeLookup(add, 0, dist))
	require.True(t, b.SetHybridFloat(add, 0, 1.5))
	assert.InDelta(t, 6.5, b.GenSingle2D(add, 3, 4, 0), 1e-5)

	// Hybrid set to a node: 5 + 5.
	require.True(t, b.SetHybridNodeLookup(add, 0, dist))
	assert.InDelta(t, 10, b.GenSingle2D(add, 3, 4, 0), 1e-5)

	mul := b.NewFromKind(KindMultiply, 0)
	require.True(t, b.SetNodeLookup(mul, 0, dist))
	require.True(t, b.SetHybridFloat(mul, 0, 3))
	assert.InDelta(t, 15, b.GenSingle2D(mul, 3, 4, 0), 1e-5)

	c := b.NewFromKind(KindConstant, 0)
	require.True(t, b.SetVariableFloat(c, 0, 0.25))
	fbm := b.NewFromKind(KindFractalFBm, 0)
	require.True(t, b.SetNodeLookup(fbm, 0, c))
	assert.InDelta(t, 0.25, b.GenSingle3D(fbm, 10, 20, 30, 7), 1e-6)
}

func TestUnsetAndDanglingLookups(t *testing.T) {
	b := New()
	scale := b.NewFromKind(KindDomainScale, 0)
	assert.Equal(t, float32(0), b.GenSingle2D(scale, 1, 1, 0))

	c := b.NewFromKind(KindConstant, 0)
	require.True(t, b.SetNodeLookup(scale, 0, c))
	assert.Equal(t, float32(1), b.GenSingle2D(scale, 1, 1, 0))

	b.Delete(c)
	assert.Equal(t, float32(0), b.GenSingle2D(scale, 1, 1, 0))
}

func TestCycleTerminates(t *testing.T) {
	b := New()
	add := b.NewFromKind(KindAdd, 0)
	require.True(t, b.SetNodeLookup(add, 0, add))
	require.True(t, b.SetHybridFloat(add, 0, 1))

	v := b.GenSingle2D(add, 0, 0, 0)
	assert.Equal(t, float32(maxDepth), v)
}

func TestGenUniformGrid(t *testing.T) {
	b := New()
	h := b.NewFromKind(KindDistanceToPoint, 0)
	require.True(t, b.SetVariableIntEnum(h, 0, DistanceManhattan))

	out := make([]float32, 6)
	mm := b.GenUniformGrid2D(h, out, 0, 0, 3, 2, 1, 0)
	assert.Equal(t, []float32{0, 1, 2, 1, 2, 3}, out)
	assert.Equal(t, [2]float32{0, 3}, mm)

	mm = b.GenUniformGrid2D(h, out, 2, 0, 3, 2, 0.5, 0)
	assert.Equal(t, []float32{1, 1.5, 2, 1.5, 2, 2.5}, out)
	assert.Equal(t, [2]float32{1, 2.5}, mm)

	out = make([]float32, 8)
	mm = b.GenUniformGrid3D(h, out, 0, 0, 0, 2, 2, 2, 1, 0)
	assert.Equal(t, []float32{0, 1, 1, 2, 1, 2, 2, 3}, out)
	assert.Equal(t, [2]float32{0, 3}, mm)

	out = make([]float32, 16)
	mm = b.GenUniformGrid4D(h, out, 0, 0, 0, 0, 2, 2, 2, 2, 1, 0)
	assert.Equal(t, float32(4), out[15])
	assert.Equal(t, [2]float32{0, 4}, mm)
}

func TestGenEmptyGridRange(t *testing.T) {
	b := New()
	h := b.NewFromKind(KindConstant, 0)
	mm := b.GenUniformGrid2D(h, nil, 0, 0, 0, 0, 1, 0)
	assert.True(t, math.IsInf(float64(mm[0]), 1))
	assert.True(t, math.IsInf(float64(mm[1]), -1))
}

func TestGenTileable2D(t *testing.T) {
	b := New()
	h := b.NewFromKind(KindPerlin, 0)

	const size = 16
	out := make([]float32, size*size)
	mm := b.GenTileable2D(h, out, size, size, 0.1, 42)
	assert.LessOrEqual(t, mm[0], mm[1])
	for _, v := range out {
		assert.GreaterOrEqual(t, v, mm[0])
		assert.LessOrEqual(t, v, mm[1])
	}

	// Constant input tiles trivially.
	c := b.NewFromKind(KindConstant, 0)
	mm = b.GenTileable2D(c, out, size, size, 0.1, 42)
	assert.Equal(t, [2]float32{1, 1}, mm)
}

func TestGenPositionArrays(t *testing.T) {
	b := New()
	h := b.NewFromKind(KindDistanceToPoint, 0)
	require.True(t, b.SetVariableIntEnum(h, 0, DistanceManhattan))

	xs := []float32{0, 1, 2}
	ys := []float32{0, 1, 2}
	zs := []float32{1, 1, 1}
	ws := []float32{0, 0, 5}

	out := make([]float32, 3)
	mm := b.GenPositionArray2D(h, out, xs, ys, 1, 0, 0)
	assert.Equal(t, []float32{1, 3, 5}, out)
	assert.Equal(t, [2]float32{1, 5}, mm)

	mm = b.GenPositionArray3D(h, out, xs, ys, zs, 0, 0, 0, 0)
	assert.Equal(t, []float32{1, 3, 5}, out)
	assert.Equal(t, [2]float32{1, 5}, mm)

	mm = b.GenPositionArray4D(h, out, xs, ys, zs, ws, 0, 0, 0, 1, 0)
	assert.Equal(t, []float32{2, 4, 11}, out)
	assert.Equal(t, [2]float32{2, 11}, mm)
}

func TestPerlinDeterministic(t *testing.T) {
	b := New()
	h := b.NewFromKind(KindPerlin, 0)
	require.True(t, b.SetVariableFloat(h, 0, 0.05))

	a := make([]float32, 64)
	c := make([]float32, 64)
	b.GenUniformGrid2D(h, a, 3, 7, 8, 8, 1, 1337)
	b.GenUniformGrid2D(h, c, 3, 7, 8, 8, 1, 1337)
	assert.Equal(t, a, c)

	b.GenUniformGrid2D(h, c, 3, 7, 8, 8, 1, 1338)
	assert.NotEqual(t, a, c)
}

func TestDomainWarpUsesHybrid(t *testing.T) {
	b := New()
	dist := b.NewFromKind(KindDistanceToPoint, 0)
	warp := b.NewFromKind(KindDomainWarp, 0)
	require.True(t, b.SetNodeLookup(warp, 0, dist))

	// No displacement reproduces the source.
	require.True(t, b.SetHybridFloat(warp, 0, 0))
	assert.InDelta(t, 5, b.GenSingle2D(warp, 3, 4, 9), 1e-5)

	c := b.NewFromKind(KindConstant, 0)
	require.True(t, b.SetVariableFloat(c, 0, 0))
	require.True(t, b.SetHybridNodeLookup(warp, 0, c))
	assert.InDelta(t, 5, b.GenSingle2D(warp, 3, 4, 9), 1e-5)
}
