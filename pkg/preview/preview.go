// Package preview renders a node's 2D output as images and heightfield
// meshes. Values are normalized by the range the engine reports.
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/chazu/noisegraph/pkg/noise"
)

// Options controls how a node is sampled.
type Options struct {
	Size      int     // width and height in samples
	Frequency float32 // grid spacing in noise space
	Seed      int32
	XStart    int
	YStart    int
	Tileable  bool // wrap seamlessly; XStart and YStart are ignored
}

// Image is a row-major grid of generated values.
type Image struct {
	Values []float32   `json:"values"` // [v(0,0), v(1,0), ... v(w-1,h-1)]
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Range  noise.Range `json:"range"`
}

// Render samples n over a Size x Size grid.
func Render(n *noise.Node, opts Options) (*Image, error) {
	if opts.Size <= 0 {
		return nil, errors.New("preview: size must be positive")
	}
	im := &Image{
		Values: make([]float32, opts.Size*opts.Size),
		Width:  opts.Size,
		Height: opts.Size,
	}
	if opts.Tileable {
		im.Range = n.GenTileable2D(im.Values, opts.Size, opts.Size, opts.Frequency, opts.Seed)
	} else {
		im.Range = n.GenUniformGrid2D(im.Values, opts.XStart, opts.YStart, opts.Size, opts.Size, opts.Frequency, opts.Seed)
	}
	return im, nil
}

// At returns the value at column x, row y.
func (im *Image) At(x, y int) float32 {
	return im.Values[y*im.Width+x]
}

// Normalized maps v into [0, 1] using the image's range. A flat image
// maps everything to 0.
func (im *Image) Normalized(v float32) float32 {
	span := im.Range.Span()
	if span == 0 {
		return 0
	}
	t := (v - im.Range.Min) / span
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Gray converts the values to 8-bit grayscale, minimum black.
func (im *Image) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			g.SetGray(x, y, color.Gray{Y: uint8(im.Normalized(im.At(x, y))*255 + 0.5)})
		}
	}
	return g
}

// WritePNG encodes the grayscale image to w.
func (im *Image) WritePNG(w io.Writer) error {
	return png.Encode(w, im.Gray())
}
