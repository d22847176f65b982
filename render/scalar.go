package render

import (
	"fmt"

	filmgallery "github.com/JunlongH/FilmGallery-sub001"
)

var _ = fmt.Print

// Scalar is the reference backend: every pixel walked once, every stage
// evaluated directly in float64. It is the correctness baseline the parallel
// backend is held to.
type Scalar struct{}

func (Scalar) Name() string { return "scalar" }

func (Scalar) Render(src *filmgallery.Raster, ctx *Context) (*filmgallery.Raster, error) {
	if src == nil {
		return nil, fmt.Errorf("render: nil source raster")
	}
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	out := filmgallery.NewRaster(width, height)
	pixel := ctx.NeedsPixelStages()
	for y := 0; y < height; y++ {
		srow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y) : src.PixOffset(b.Min.X, b.Min.Y+y)+3*width]
		drow := out.Pix[out.PixOffset(0, y) : out.PixOffset(0, y)+3*width]
		for x := 0; x < width; x++ {
			s := srow[3*x : 3*x+3 : 3*x+3]
			d := drow[3*x : 3*x+3 : 3*x+3]
			r := ctx.applyChannelStages(float64(s[0]), ctx.gains.R, &ctx.curveR)
			g := ctx.applyChannelStages(float64(s[1]), ctx.gains.G, &ctx.curveG)
			bl := ctx.applyChannelStages(float64(s[2]), ctx.gains.B, &ctx.curveB)
			if pixel {
				rn, gn, bn := ctx.applyPixelStages(r/255, g/255, bl/255)
				r, g, bl = rn*255, gn*255, bn*255
			}
			d[0] = round8(r)
			d[1] = round8(g)
			d[2] = round8(bl)
		}
	}
	return out, nil
}
