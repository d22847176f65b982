package render

import (
	"fmt"

	"github.com/JunlongH/FilmGallery-sub001/curves"
	"github.com/JunlongH/FilmGallery-sub001/lut3d"
	"github.com/JunlongH/FilmGallery-sub001/params"
	"github.com/JunlongH/FilmGallery-sub001/whitebal"
)

var _ = fmt.Print

// Context is the fully precomputed form of one RenderParams snapshot. It is
// immutable once built and safe to share across goroutines; both backends
// render from the same Context so per-frame precomputation happens once.
type Context struct {
	Params params.RenderParams

	filmEnabled bool
	gamma       float64
	dMin, dMax  float64

	inverted bool
	invMode  params.InversionMode

	gains    whitebal.Gains
	expF     float64
	conF     float64
	tone     toneTable

	curveRGB, curveR, curveG, curveB [256]uint8
	curvesIdentity                   bool

	hslOn bool
	bands [params.NumHSLBands]params.HSLBand

	split splitToneTable

	// Combined 3-D LUT with slot intensities baked into the grid values,
	// plus a packed 2-D atlas of it. Nil when both slots are empty.
	Cube  *lut3d.Cube
	Atlas *lut3d.Atlas
}

// NewContext normalizes the snapshot and precomputes everything the per-pixel
// stages need: white-balance gains, exposure and contrast factors, the tone
// table, the four curve LUTs and the combined 3-D LUT.
func NewContext(p params.RenderParams) *Context {
	p = p.Normalize()
	ctx := &Context{
		Params:      p,
		filmEnabled: p.Inverted && p.FilmCurve.Enabled,
		gamma:       p.FilmCurve.Gamma,
		dMin:        p.FilmCurve.DMin,
		dMax:        p.FilmCurve.DMax,
		inverted:    p.Inverted,
		invMode:     p.InversionMode,
		expF:        exposureFactor(p.Tone.Exposure),
		conF:        contrastFactor(p.Tone.Contrast),
		tone:        makeToneTable(p.Tone),
		bands:       p.HSL,
		split:       makeSplitToneTable(p.SplitToning),
	}

	base := whitebal.Gains{R: p.WhiteBalance.BaseGainR, G: p.WhiteBalance.BaseGainG, B: p.WhiteBalance.BaseGainB}
	ctx.gains = base.Mul(whitebal.FromTempTint(p.WhiteBalance.Temp, p.WhiteBalance.Tint))

	ctx.curveRGB = curves.LUT(p.Curves.RGB)
	ctx.curveR = curves.LUT(p.Curves.R)
	ctx.curveG = curves.LUT(p.Curves.G)
	ctx.curveB = curves.LUT(p.Curves.B)
	ctx.curvesIdentity = curves.IsIdentity(p.Curves.RGB) && curves.IsIdentity(p.Curves.R) &&
		curves.IsIdentity(p.Curves.G) && curves.IsIdentity(p.Curves.B)

	ctx.hslOn = hslActive(&ctx.bands)

	ctx.Cube = combineSlots(p.LUTs)
	if ctx.Cube != nil {
		ctx.Atlas = ctx.Cube.PackAtlas()
	}
	return ctx
}

// combineSlots bakes the two LUT slots into one cube, intensities included.
// Baking is exact for the final blend: trilinear sampling is linear in the
// grid values, so blending grids equals blending sampled outputs.
func combineSlots(slots [2]params.LUTSlot) *lut3d.Cube {
	ia, ib := slots[0].Intensity, slots[1].Intensity
	a, b := slots[0].Cube, slots[1].Cube
	if a == nil || ia <= 0 {
		a, ia = nil, 0
	}
	if b == nil || ib <= 0 {
		b, ib = nil, 0
	}
	if a == nil && b == nil {
		return nil
	}
	size := lut3d.DefaultSize
	if a != nil {
		size = a.Size
	}
	if b != nil && b.Size > size {
		size = b.Size
	}
	return lut3d.Combine(a, min(ia, 1), b, min(ib, 1), size)
}

// applyChannelStages runs stages 1-7 on one channel value. The per-channel
// white-balance gain is the only input that differs between channels; the
// caller passes it in so the same code path serves all three and the
// parallel backend's table builder.
func (ctx *Context) applyChannelStages(v, gain float64, curve *[256]uint8) float64 {
	if ctx.filmEnabled {
		v = filmCurveTransform(v, ctx.gamma, ctx.dMin, ctx.dMax)
	}
	if ctx.inverted {
		v = invertValue(v, ctx.invMode)
	}
	v *= gain
	v *= ctx.expF
	v = applyContrast(v, ctx.conF)
	v = ctx.tone.apply(v)
	if !ctx.curvesIdentity {
		v = clamp255(v)
		v = float64(ctx.curveRGB[int(v+0.5)])
		v = float64(curve[int(v+0.5)])
	}
	return clamp255(v)
}

// applyPixelStages runs stages 8-10 on a normalized RGB triple.
func (ctx *Context) applyPixelStages(r, g, b float64) (float64, float64, float64) {
	if ctx.hslOn {
		r, g, b = adjustHSL(r, g, b, &ctx.bands)
	}
	if ctx.split.active {
		r, g, b = ctx.split.apply(r, g, b)
	}
	if ctx.Cube != nil {
		r, g, b = ctx.Cube.Sample(r, g, b)
	}
	return r, g, b
}

// NeedsPixelStages reports whether stages 8-10 do any work; when false a
// backend can skip the HSL round trip entirely.
func (ctx *Context) NeedsPixelStages() bool {
	return ctx.hslOn || ctx.split.active || ctx.Cube != nil
}
