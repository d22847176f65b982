package render

import (
	"fmt"

	"github.com/kovidgoyal/go-parallel"

	filmgallery "github.com/JunlongH/FilmGallery-sub001"
)

var _ = fmt.Print

// Parallel is the throughput backend. Stages 1-7 act on each channel
// independently, so their whole composition collapses into one 256-entry
// table per channel, built once per frame by evaluating the scalar stage
// chain at every 8-bit input level; rows then apply the tables and the
// remaining per-pixel stages across all cores. Table entries are stored as
// float32 to match GPU-shader precision, which is where the one-level
// tolerance against the scalar backend comes from.
type Parallel struct{}

func (Parallel) Name() string { return "parallel" }

func (Parallel) Render(src *filmgallery.Raster, ctx *Context) (out *filmgallery.Raster, err error) {
	if src == nil {
		return nil, fmt.Errorf("render: nil source raster")
	}
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	out = filmgallery.NewRaster(width, height)
	if width == 0 || height == 0 {
		return out, nil
	}

	var lut [3][256]float32
	for i := range 256 {
		v := float64(i)
		lut[0][i] = float32(ctx.applyChannelStages(v, ctx.gains.R, &ctx.curveR))
		lut[1][i] = float32(ctx.applyChannelStages(v, ctx.gains.G, &ctx.curveG))
		lut[2][i] = float32(ctx.applyChannelStages(v, ctx.gains.B, &ctx.curveB))
	}

	pixel := ctx.NeedsPixelStages()
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			_ = row[3*(width-1)]
			drow := out.Pix[out.PixOffset(0, y):]
			_ = drow[3*(width-1)]
			for range width {
				r := float64(lut[0][row[0]])
				g := float64(lut[1][row[1]])
				bl := float64(lut[2][row[2]])
				if pixel {
					rn, gn, bn := ctx.applyPixelStages(r/255, g/255, bl/255)
					r, g, bl = rn*255, gn*255, bn*255
				}
				s := drow[0:3:3]
				s[0] = round8(r)
				s[1] = round8(g)
				s[2] = round8(bl)
				row = row[3:]
				drow = drow[3:]
			}
		}
	}
	if err = parallel.Run_in_parallel_over_range(0, f, 0, height); err != nil {
		return nil, err
	}
	return out, nil
}
