package perlin

import (
	"math"

	"github.com/chazu/noisegraph/pkg/backend"
)

// minMax accumulates the range of generated values.
type minMax [2]float32

func newMinMax() minMax {
	return minMax{float32(math.Inf(1)), float32(math.Inf(-1))}
}

func (m *minMax) add(v float32) {
	if v < m[0] {
		m[0] = v
	}
	if v > m[1] {
		m[1] = v
	}
}

// grid evaluates h over a uniform grid, x fastest. Coordinates are
// (start + i) * frequency on each of the first dims axes.
func (b *Backend) grid(h backend.Handle, out []float32, start, size [4]int, dims int, frequency float32, seed int32) [2]float32 {
	e := newEvaluator(b)
	mm := newMinMax()
	f := float64(frequency)

	for d := dims; d < 4; d++ {
		size[d] = 1
	}

	idx := 0
	for w := 0; w < size[3]; w++ {
		for z := 0; z < size[2]; z++ {
			for y := 0; y < size[1]; y++ {
				for x := 0; x < size[0]; x++ {
					p := point{dims: dims}
					p.v[0] = float64(start[0]+x) * f
					p.v[1] = float64(start[1]+y) * f
					p.v[2] = float64(start[2]+z) * f
					p.v[3] = float64(start[3]+w) * f
					v := float32(e.eval(h, p, seed, 0))
					out[idx] = v
					mm.add(v)
					idx++
				}
			}
		}
	}
	return mm
}

func (b *Backend) GenUniformGrid2D(h backend.Handle, out []float32, xStart, yStart, xSize, ySize int, frequency float32, seed int32) [2]float32 {
	return b.grid(h, out, [4]int{xStart, yStart}, [4]int{xSize, ySize}, 2, frequency, seed)
}

func (b *Backend) GenUniformGrid3D(h backend.Handle, out []float32, xStart, yStart, zStart, xSize, ySize, zSize int, frequency float32, seed int32) [2]float32 {
	return b.grid(h, out, [4]int{xStart, yStart, zStart}, [4]int{xSize, ySize, zSize}, 3, frequency, seed)
}

func (b *Backend) GenUniformGrid4D(h backend.Handle, out []float32, xStart, yStart, zStart, wStart, xSize, ySize, zSize, wSize int, frequency float32, seed int32) [2]float32 {
	return b.grid(h, out, [4]int{xStart, yStart, zStart, wStart}, [4]int{xSize, ySize, zSize, wSize}, 4, frequency, seed)
}

// GenTileable2D maps each axis onto a circle so that the output wraps
// seamlessly in both directions, sampling the node in 4D.
func (b *Backend) GenTileable2D(h backend.Handle, out []float32, xSize, ySize int, frequency float32, seed int32) [2]float32 {
	e := newEvaluator(b)
	mm := newMinMax()

	xRadius := float64(xSize) / (2 * math.Pi) * float64(frequency)
	yRadius := float64(ySize) / (2 * math.Pi) * float64(frequency)
	xStep := 2 * math.Pi / float64(xSize)
	yStep := 2 * math.Pi / float64(ySize)

	idx := 0
	for y := 0; y < ySize; y++ {
		ya := float64(y) * yStep
		for x := 0; x < xSize; x++ {
			xa := float64(x) * xStep
			p := point{dims: 4, v: [4]float64{
				math.Cos(xa) * xRadius,
				math.Sin(xa) * xRadius,
				math.Cos(ya) * yRadius,
				math.Sin(ya) * yRadius,
			}}
			v := float32(e.eval(h, p, seed, 0))
			out[idx] = v
			mm.add(v)
			idx++
		}
	}
	return mm
}

// positions evaluates h at each offset position. All coordinate slices
// must have the same length as the first; that is the caller's contract.
func (b *Backend) positions(h backend.Handle, out []float32, axes [][]float32, offset [4]float32, seed int32) [2]float32 {
	e := newEvaluator(b)
	mm := newMinMax()
	dims := len(axes)

	for i := range axes[0] {
		p := point{dims: dims}
		for d := 0; d < dims; d++ {
			p.v[d] = float64(axes[d][i] + offset[d])
		}
		v := float32(e.eval(h, p, seed, 0))
		out[i] = v
		mm.add(v)
	}
	return mm
}

func (b *Backend) GenPositionArray2D(h backend.Handle, out []float32, xs, ys []float32, xOffset, yOffset float32, seed int32) [2]float32 {
	return b.positions(h, out, [][]float32{xs, ys}, [4]float32{xOffset, yOffset}, seed)
}

func (b *Backend) GenPositionArray3D(h backend.Handle, out []float32, xs, ys, zs []float32, xOffset, yOffset, zOffset float32, seed int32) [2]float32 {
	return b.positions(h, out, [][]float32{xs, ys, zs}, [4]float32{xOffset, yOffset, zOffset}, seed)
}

func (b *Backend) GenPositionArray4D(h backend.Handle, out []float32, xs, ys, zs, ws []float32, xOffset, yOffset, zOffset, wOffset float32, seed int32) [2]float32 {
	return b.positions(h, out, [][]float32{xs, ys, zs, ws}, [4]float32{xOffset, yOffset, zOffset, wOffset}, seed)
}

func (b *Backend) single(h backend.Handle, p point, seed int32) float32 {
	return float32(newEvaluator(b).eval(h, p, seed, 0))
}

func (b *Backend) GenSingle2D(h backend.Handle, x, y float32, seed int32) float32 {
	return b.single(h, point{dims: 2, v: [4]float64{float64(x), float64(y)}}, seed)
}

func (b *Backend) GenSingle3D(h backend.Handle, x, y, z float32, seed int32) float32 {
	return b.single(h, point{dims: 3, v: [4]float64{float64(x), float64(y), float64(z)}}, seed)
}

func (b *Backend) GenSingle4D(h backend.Handle, x, y, z, w float32, seed int32) float32 {
	return b.single(h, point{dims: 4, v: [4]float64{float64(x), float64(y), float64(z), float64(w)}}, seed)
}
