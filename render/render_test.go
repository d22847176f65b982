package render

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filmgallery "github.com/JunlongH/FilmGallery-sub001"
	"github.com/JunlongH/FilmGallery-sub001/curves"
	"github.com/JunlongH/FilmGallery-sub001/lut3d"
	"github.com/JunlongH/FilmGallery-sub001/params"
)

var _ = fmt.Print

func noiseRaster(width, height int, seed int64) *filmgallery.Raster {
	rng := rand.New(rand.NewSource(seed))
	p := filmgallery.NewRaster(width, height)
	rng.Read(p.Pix)
	return p
}

func flatRaster(width, height int, r, g, b uint8) *filmgallery.Raster {
	p := filmgallery.NewRaster(width, height)
	for i := 0; i < len(p.Pix); i += 3 {
		p.Pix[i], p.Pix[i+1], p.Pix[i+2] = r, g, b
	}
	return p
}

func TestDefaultsAreNoop(t *testing.T) {
	src := noiseRaster(64, 48, 7)
	for _, eng := range []Engine{Scalar{}, Parallel{}} {
		out, err := eng.Render(src, NewContext(params.Defaults()))
		require.NoError(t, err, eng.Name())
		assert.Equal(t, src.Pix, out.Pix, eng.Name())
	}
}

func TestLinearInversion(t *testing.T) {
	p := params.Defaults()
	p.Inverted = true
	src := flatRaster(8, 8, 10, 20, 30)
	for _, eng := range []Engine{Scalar{}, Parallel{}} {
		out, err := eng.Render(src, NewContext(p))
		require.NoError(t, err, eng.Name())
		r, g, b := out.Pix[0], out.Pix[1], out.Pix[2]
		assert.Equal(t, [3]uint8{245, 235, 225}, [3]uint8{r, g, b}, eng.Name())
	}
}

func TestLogInversionRange(t *testing.T) {
	p := params.Defaults()
	p.Inverted = true
	p.InversionMode = params.InversionLogarithmic
	ctx := NewContext(p)
	out, err := Scalar{}.Render(flatRaster(2, 2, 0, 128, 255), ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 255, out.Pix[0])
	assert.EqualValues(t, 0, out.Pix[2])
	// log inversion renders dense negative midtones darker than linear
	assert.Less(t, out.Pix[1], uint8(127))
}

func TestExposureDoubling(t *testing.T) {
	p := params.Defaults()
	p.Tone.Exposure = 50
	ctx := NewContext(p)
	out, err := Scalar{}.Render(flatRaster(2, 1, 100, 200, 0), ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 200, out.Pix[0])
	assert.EqualValues(t, 255, out.Pix[1], "doubling past white clamps")
	assert.EqualValues(t, 0, out.Pix[2])
}

func TestContrastPivot(t *testing.T) {
	p := params.Defaults()
	p.Tone.Contrast = 60
	ctx := NewContext(p)
	out, err := Scalar{}.Render(flatRaster(3, 1, 128, 40, 220), ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 128, out.Pix[0], "midpoint is the contrast pivot")
	assert.Less(t, out.Pix[1], uint8(40))
	assert.Greater(t, out.Pix[2], uint8(220))
}

func TestFilmCurveOnlyWithInversion(t *testing.T) {
	p := params.Defaults()
	p.FilmCurve.Enabled = true
	src := noiseRaster(16, 16, 3)

	out, err := Scalar{}.Render(src, NewContext(p))
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix, "film curve is inert while not inverted")

	p.Inverted = true
	withCurve, err := Scalar{}.Render(src, NewContext(p))
	require.NoError(t, err)
	p.FilmCurve.Enabled = false
	withoutCurve, err := Scalar{}.Render(src, NewContext(p))
	require.NoError(t, err)
	assert.NotEqual(t, withoutCurve.Pix, withCurve.Pix)
}

func TestWhiteBalanceWarmsImage(t *testing.T) {
	p := params.Defaults()
	p.WhiteBalance.Temp = 40
	ctx := NewContext(p)
	out, err := Scalar{}.Render(flatRaster(2, 2, 128, 128, 128), ctx)
	require.NoError(t, err)
	assert.Greater(t, out.Pix[0], uint8(128))
	assert.Less(t, out.Pix[2], uint8(128))
}

func TestHSLBandShiftsOnlyNearbyHues(t *testing.T) {
	p := params.Defaults()
	// desaturate the red band only
	p.HSL[0].Saturation = -100
	ctx := NewContext(p)

	red, err := Scalar{}.Render(flatRaster(2, 2, 200, 40, 40), ctx)
	require.NoError(t, err)
	assert.InDelta(t, red.Pix[0], red.Pix[1], 2, "red pixels lose saturation")

	blue, err := Scalar{}.Render(flatRaster(2, 2, 40, 40, 200), ctx)
	require.NoError(t, err)
	assert.Greater(t, blue.Pix[2], blue.Pix[0], "blue pixels keep saturation")
}

func TestSplitToningTintsZones(t *testing.T) {
	p := params.Defaults()
	p.SplitToning.Highlight = params.SplitZone{Hue: 60, Saturation: 80} // warm highlights
	p.SplitToning.Shadow = params.SplitZone{Hue: 240, Saturation: 80}  // cool shadows
	ctx := NewContext(p)

	hi, err := Scalar{}.Render(flatRaster(2, 2, 230, 230, 230), ctx)
	require.NoError(t, err)
	assert.Greater(t, hi.Pix[0], hi.Pix[2], "highlights pushed warm")

	lo, err := Scalar{}.Render(flatRaster(2, 2, 30, 30, 30), ctx)
	require.NoError(t, err)
	assert.Greater(t, lo.Pix[2], lo.Pix[0], "shadows pushed cool")
}

func TestLUTIntensityBakedIntoCube(t *testing.T) {
	p := params.Defaults()
	p.LUTs[0] = params.LUTSlot{Name: "gamma", Intensity: 0.5, Cube: gammaCube(17, 2.2)}
	ctx := NewContext(p)
	require.NotNil(t, ctx.Cube)
	require.NotNil(t, ctx.Atlas)

	// sampling the baked cube must equal blending the full-strength output
	for _, v := range []float64{0, 0.2, 0.5, 0.8, 1} {
		full, _, _ := gammaCube(17, 2.2).Sample(v, v, v)
		baked, _, _ := ctx.Cube.Sample(v, v, v)
		assert.InDelta(t, 0.5*v+0.5*full, baked, 1e-3, "v=%v", v)
	}
}

func TestEmptyLUTSlotsYieldNilCube(t *testing.T) {
	ctx := NewContext(params.Defaults())
	assert.Nil(t, ctx.Cube)
	assert.Nil(t, ctx.Atlas)
	assert.False(t, ctx.NeedsPixelStages())
}

func gammaCube(n int, gamma float64) *lut3d.Cube {
	c := lut3d.Identity(n)
	for i, v := range c.Data {
		c.Data[i] = float32(math.Pow(float64(v), gamma))
	}
	return c
}

func richParams() params.RenderParams {
	p := params.Defaults()
	p.Inverted = true
	p.FilmCurve.Enabled = true
	p.WhiteBalance.Temp = 12
	p.WhiteBalance.Tint = -6
	p.WhiteBalance.BaseGainR = 1.08
	p.WhiteBalance.BaseGainB = 0.94
	p.Tone = params.Tone{Exposure: 14, Contrast: 22, Highlights: -25, Shadows: 30, Whites: 10, Blacks: -8}
	p.Curves.RGB = []curves.Point{{X: 0, Y: 0}, {X: 115, Y: 133}, {X: 255, Y: 255}}
	p.Curves.B = []curves.Point{{X: 0, Y: 8}, {X: 255, Y: 247}}
	p.HSL[3] = params.HSLBand{Hue: 8, Saturation: 15, Luminance: -10}
	p.HSL[6] = params.HSLBand{Saturation: -20}
	p.SplitToning = params.SplitToning{
		Highlight: params.SplitZone{Hue: 45, Saturation: 30},
		Shadow:    params.SplitZone{Hue: 220, Saturation: 25},
		Balance:   10,
	}
	p.LUTs[0] = params.LUTSlot{Name: "look", Intensity: 0.7, Cube: gammaCube(17, 1.6)}
	return p
}

// The two backends must agree within one 8-bit level per channel for at
// least 99% of pixels on any frame.
func TestBackendParity(t *testing.T) {
	src := noiseRaster(160, 120, 42)
	ctx := NewContext(richParams())

	ref, err := Scalar{}.Render(src, ctx)
	require.NoError(t, err)
	fast, err := Parallel{}.Render(src, ctx)
	require.NoError(t, err)

	require.Equal(t, len(ref.Pix), len(fast.Pix))
	within := 0
	for i := range ref.Pix {
		d := int(ref.Pix[i]) - int(fast.Pix[i])
		if d >= -1 && d <= 1 {
			within++
		}
	}
	frac := float64(within) / float64(len(ref.Pix))
	assert.GreaterOrEqual(t, frac, 0.99, "parity fraction %.5f", frac)
}

type brokenEngine struct{}

func (brokenEngine) Name() string { return "broken" }

func (brokenEngine) Render(*filmgallery.Raster, *Context) (*filmgallery.Raster, error) {
	return nil, fmt.Errorf("backend unavailable")
}

func TestRendererFallsBackToScalar(t *testing.T) {
	src := noiseRaster(32, 24, 5)
	p := richParams()

	r := &Renderer{Primary: brokenEngine{}, Fallback: Scalar{}}
	got, err := r.Render(src, p)
	require.NoError(t, err)

	want, err := NewRenderer().Render(src, p)
	require.NoError(t, err)
	require.Equal(t, len(want.Pix), len(got.Pix))

	// fallback output obeys the same parity contract
	within := 0
	for i := range want.Pix {
		d := int(want.Pix[i]) - int(got.Pix[i])
		if d >= -1 && d <= 1 {
			within++
		}
	}
	assert.GreaterOrEqual(t, float64(within)/float64(len(want.Pix)), 0.99)
}

func TestRendererAppliesGeometry(t *testing.T) {
	src := noiseRaster(60, 40, 9)
	p := params.Defaults()
	p.Orientation = 90
	out, err := NewRenderer().Render(src, p)
	require.NoError(t, err)
	b := out.Bounds()
	assert.Equal(t, 40, b.Dx())
	assert.Equal(t, 60, b.Dy())
}
