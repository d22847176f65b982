// Package render implements the color pipeline over a geometry-cropped
// raster twice: a pixel-scalar backend and a row-parallel backend built on
// composited lookup tables. Both derive from the one stage table in this
// file and must agree within one 8-bit level per channel for at least 99%
// of pixels; a parallel-backend failure falls back to the scalar backend
// for that frame.
//
// Stage order is fixed and non-reorderable:
//
//	 1. film curve (H&D density model; only when inversion and film
//	    curve are both enabled)
//	 2. inversion (linear or logarithmic)
//	 3. white-balance gain multiply
//	 4. exposure
//	 5. contrast
//	 6. tone zones (blacks/whites remap + shadow/highlight boosts)
//	 7. tone curves (combined, then per-channel)
//	 8. hue-band HSL adjustment
//	 9. split toning
//	10. 3-D LUT blend
package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/JunlongH/FilmGallery-sub001/params"
)

// Channel values flow through stages 1-7 as floats in [0, 255]; stages 8-10
// work on [0, 1] normalized values.

// filmCurveTransform emulates a film stock's H&D density response: the
// channel value is treated as transmittance, mapped through density space
// with a gamma on the normalized density, and mapped back.
func filmCurveTransform(v, gamma, dMin, dMax float64) float64 {
	if dMax <= dMin {
		return v
	}
	t := max(v/255, 1e-6)
	d := -math.Log10(t)
	dn := max(0, min((d-dMin)/(dMax-dMin), 1))
	dn = math.Pow(dn, gamma)
	d = dMin + dn*(dMax-dMin)
	out := 255 * math.Pow(10, -d)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return v
	}
	return out
}

var log256 = math.Log(256)

func invertValue(v float64, mode params.InversionMode) float64 {
	if mode == params.InversionLogarithmic {
		return 255 * (1 - math.Log(max(v, 0)+1)/log256)
	}
	return 255 - v
}

// exposureFactor is 2^(exposure/50): +50 doubles, -50 halves.
func exposureFactor(exposure float64) float64 {
	return math.Pow(2, exposure/50)
}

func contrastFactor(contrast float64) float64 {
	c := contrast / 100 * 255
	return (259 * (c + 255)) / (255 * (259 - c))
}

func applyContrast(v, factor float64) float64 {
	return factor*(v-128) + 128
}

// toneTable holds the precomputed stage-6 terms.
type toneTable struct {
	blackPoint, whitePoint   float64
	shadowFactor, highlightF float64
}

func makeToneTable(t params.Tone) toneTable {
	return toneTable{
		blackPoint:   -t.Blacks * 0.002,
		whitePoint:   1 - t.Whites*0.002,
		shadowFactor: t.Shadows * 0.005,
		highlightF:   t.Highlights * 0.005,
	}
}

// apply remaps [blackPoint, whitePoint] to [0, 1] and adds the
// weighted quadratic shadow and highlight boosts.
func (tt toneTable) apply(v float64) float64 {
	x := v / 255
	if span := tt.whitePoint - tt.blackPoint; span > 1e-6 {
		x = (x - tt.blackPoint) / span
	}
	xa := max(0, min(x, 1))
	x += tt.shadowFactor * (1 - xa) * (1 - xa) * xa * 4
	x += tt.highlightF * xa * xa * (1 - xa) * 4
	return x * 255
}

// hue bands: centers and half-widths in degrees. Bands overlap; the narrow
// 30-degree half-width covers the densely spaced warm centers.
var hueBands = [params.NumHSLBands]struct {
	center, halfWidth float64
}{
	{0, 30}, {30, 30}, {60, 30}, {120, 45}, {180, 45}, {240, 45}, {280, 45}, {320, 45},
}

// bandWeight is the cosine-smoothed weight of a band at the given hue:
// 1 at the center falling to 0 at the half-width.
func bandWeight(hue, center, halfWidth float64) float64 {
	d := math.Abs(hue - center)
	if d > 180 {
		d = 360 - d
	}
	if d >= halfWidth {
		return 0
	}
	return 0.5 * (1 + math.Cos(math.Pi*d/halfWidth))
}

func hslActive(bands *[params.NumHSLBands]params.HSLBand) bool {
	for _, b := range bands {
		if b.Hue != 0 || b.Saturation != 0 || b.Luminance != 0 {
			return true
		}
	}
	return false
}

// adjustHSL applies the eight overlapping hue bands to a normalized RGB
// triple: hue shifts accumulate additively, saturation multiplicatively and
// luminance additively, each scaled by the band weight at the pixel's hue.
func adjustHSL(r, g, b float64, bands *[params.NumHSLBands]params.HSLBand) (float64, float64, float64) {
	col := colorful.Color{R: r, G: g, B: b}
	h, s, l := col.Hsl()
	hueShift := 0.0
	satMul := 1.0
	lumShift := 0.0
	for i, band := range bands {
		if band.Hue == 0 && band.Saturation == 0 && band.Luminance == 0 {
			continue
		}
		w := bandWeight(h, hueBands[i].center, hueBands[i].halfWidth)
		if w == 0 {
			continue
		}
		hueShift += band.Hue * w
		satMul *= 1 + band.Saturation/100*w
		lumShift += band.Luminance / 200 * w
	}
	h = math.Mod(h+hueShift, 360)
	if h < 0 {
		h += 360
	}
	s = max(0, min(s*satMul, 1))
	l = max(0, min(l+lumShift, 1))
	out := colorful.Hsl(h, s, l).Clamped()
	return out.R, out.G, out.B
}

// splitToneTable precomputes the stage-9 zone tints: shadow, midtone and
// highlight tint RGB at full saturation and half lightness, plus the zone
// saturation strengths.
type splitToneTable struct {
	active  bool
	balance float64
	tints   [3][3]float64
	sats    [3]float64
}

func makeSplitToneTable(st params.SplitToning) splitToneTable {
	t := splitToneTable{balance: st.Balance / 100 * 0.25}
	for i, z := range [3]params.SplitZone{st.Shadow, st.Midtone, st.Highlight} {
		c := colorful.Hsl(math.Mod(math.Mod(z.Hue, 360)+360, 360), 1, 0.5).Clamped()
		t.tints[i] = [3]float64{c.R, c.G, c.B}
		t.sats[i] = z.Saturation / 100
		if t.sats[i] != 0 {
			t.active = true
		}
	}
	return t
}

func smoothstep(e0, e1, x float64) float64 {
	if e1 <= e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := max(0, min((x-e0)/(e1-e0), 1))
	return t * t * (3 - 2*t)
}

// apply tints normalized RGB by the shadow/midtone/highlight zone colors.
// Zone weights come from smoothstep thresholds around the pixel luminance,
// shifted by the balance parameter.
func (t splitToneTable) apply(r, g, b float64) (float64, float64, float64) {
	l := 0.299*r + 0.587*g + 0.114*b
	sw := 1 - smoothstep(0.3+t.balance, 0.5+t.balance, l)
	hw := smoothstep(0.5+t.balance, 0.7+t.balance, l)
	mw := max(0, 1-sw-hw)
	weights := [3]float64{sw, mw, hw}
	mul := func(c int, v float64) float64 {
		for z := range 3 {
			v *= 1 + (t.tints[z][c]-0.5)*t.sats[z]*weights[z]
		}
		return max(0, min(v, 1))
	}
	return mul(0, r), mul(1, g), mul(2, b)
}

func clamp255(v float64) float64 {
	return max(0, min(v, 255))
}

func round8(v float64) uint8 {
	return uint8(clamp255(math.Round(v)))
}
