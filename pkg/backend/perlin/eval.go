package perlin

import (
	"math"

	goperlin "github.com/aquilax/go-perlin"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/noisegraph/pkg/backend"
)

// maxDepth bounds node-to-node recursion. Deeper chains, including
// reference cycles, evaluate to 0.
const maxDepth = 64

// warpAlpha, warpBeta and warpOctaves configure the gradient noise used
// to displace coordinates in Domain Warp.
const (
	warpAlpha   = 2
	warpBeta    = 2
	warpOctaves = 3
)

// point is a sample position with 2, 3 or 4 active coordinates.
type point struct {
	v    [4]float64
	dims int
}

func (p point) scaled(f float64) point {
	for i := 0; i < p.dims; i++ {
		p.v[i] *= f
	}
	return p
}

type perlinKey struct {
	alpha, beta float32
	octaves     int32
	seed        int64
}

// evaluator walks a node graph for one generation call. It caches the
// go-perlin generators it builds, since their permutation tables depend
// only on parameters and seed.
type evaluator struct {
	b       *Backend
	perlins map[perlinKey]*goperlin.Perlin
}

func newEvaluator(b *Backend) *evaluator {
	return &evaluator{b: b, perlins: make(map[perlinKey]*goperlin.Perlin)}
}

func (e *evaluator) perlin(alpha, beta float32, octaves int32, seed int64) *goperlin.Perlin {
	k := perlinKey{alpha: alpha, beta: beta, octaves: octaves, seed: seed}
	g, ok := e.perlins[k]
	if !ok {
		g = goperlin.NewPerlin(float64(alpha), float64(beta), octaves, seed)
		e.perlins[k] = g
	}
	return g
}

// sample evaluates g at p using as many axes as go-perlin supports.
// The fourth axis folds into the third.
func sample(g *goperlin.Perlin, p point) float64 {
	switch p.dims {
	case 2:
		return g.Noise2D(p.v[0], p.v[1])
	case 3:
		return g.Noise3D(p.v[0], p.v[1], p.v[2])
	default:
		return g.Noise3D(p.v[0], p.v[1], p.v[2]+p.v[3])
	}
}

func (e *evaluator) eval(h backend.Handle, p point, seed int32, depth int) float64 {
	if depth >= maxDepth {
		return 0
	}
	in := e.b.get(h)
	if in == nil {
		return 0
	}
	depth++

	switch in.kind {
	case KindConstant:
		return float64(in.floats[0])

	case KindPerlin:
		g := e.perlin(in.floats[1], in.floats[2], in.ints[3], int64(seed))
		return sample(g, p.scaled(float64(in.floats[0])))

	case KindDomainScale:
		return e.eval(in.lookups[0], p.scaled(float64(in.floats[0])), seed, depth)

	case KindDomainAxisScale:
		q := p
		for i := 0; i < q.dims; i++ {
			q.v[i] *= float64(in.floats[i])
		}
		return e.eval(in.lookups[0], q, seed, depth)

	case KindAdd:
		return e.eval(in.lookups[0], p, seed, depth) + e.hybrid(in.hybrids[0], p, seed, depth)

	case KindMultiply:
		return e.eval(in.lookups[0], p, seed, depth) * e.hybrid(in.hybrids[0], p, seed, depth)

	case KindDomainWarp:
		amp := e.hybrid(in.hybrids[0], p, seed, depth)
		g := e.perlin(warpAlpha, warpBeta, warpOctaves, int64(seed)+1)
		at := p.scaled(float64(in.floats[0]))
		q := p
		for i := 0; i < p.dims; i++ {
			shifted := at
			shifted.v[0] += float64(i) * 17.31
			q.v[i] += amp * sample(g, shifted)
		}
		return e.eval(in.lookups[0], q, seed, depth)

	case KindFractalFBm:
		return e.fbm(in, p, seed, depth)

	case KindDistanceToPoint:
		return distance(in, p)
	}
	return 0
}

func (e *evaluator) hybrid(hv hybridValue, p point, seed int32, depth int) float64 {
	if hv.node.IsNil() {
		return float64(hv.value)
	}
	return e.eval(hv.node, p, seed, depth)
}

func (e *evaluator) fbm(in *instance, p point, seed int32, depth int) float64 {
	octaves := int(in.ints[0])
	lacunarity := float64(in.floats[1])
	gain := e.hybrid(in.hybrids[0], p, seed, depth)

	var sum, ampSum float64
	amp, freq := 1.0, 1.0
	for o := 0; o < octaves; o++ {
		sum += amp * e.eval(in.lookups[0], p.scaled(freq), seed+int32(o), depth)
		ampSum += amp
		amp *= gain
		freq *= lacunarity
	}
	if ampSum == 0 {
		return 0
	}
	return sum / ampSum
}

func distance(in *instance, p point) float64 {
	// floats[1..4] hold the per-axis point; floats[0] is the enum slot.
	d := v3.Vec{X: p.v[0] - float64(in.floats[1]), Y: p.v[1] - float64(in.floats[2])}
	if p.dims >= 3 {
		d.Z = p.v[2] - float64(in.floats[3])
	}
	var w float64
	if p.dims == 4 {
		w = p.v[3] - float64(in.floats[4])
	}

	switch in.ints[0] {
	case DistanceEuclideanSquared:
		return d.Dot(d) + w*w
	case DistanceManhattan:
		a := d.Abs()
		return a.X + a.Y + a.Z + math.Abs(w)
	case DistanceMaxAxis:
		return math.Max(d.Abs().MaxComponent(), math.Abs(w))
	default:
		return math.Sqrt(d.Dot(d) + w*w)
	}
}
