package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JunlongH/FilmGallery-sub001/curves"
	"github.com/JunlongH/FilmGallery-sub001/geometry"
	"github.com/JunlongH/FilmGallery-sub001/lut3d"
)

func sampleParams() RenderParams {
	p := Defaults()
	p.Inverted = true
	p.InversionMode = InversionLogarithmic
	p.FilmCurve = FilmCurve{Enabled: true, Gamma: 0.55, DMin: 0.15, DMax: 2.4}
	p.WhiteBalance = WhiteBalance{Temp: 12, Tint: -8, BaseGainR: 1.1, BaseGainG: 1, BaseGainB: 0.92}
	p.Tone = Tone{Exposure: 25, Contrast: 10, Highlights: -30, Shadows: 15, Whites: 5, Blacks: -5}
	p.Curves.RGB = curves.InsertPoint(p.Curves.RGB, curves.Point{X: 128, Y: 140})
	p.HSL[2] = HSLBand{Hue: 10, Saturation: -20, Luminance: 5}
	p.SplitToning = SplitToning{
		Highlight: SplitZone{Hue: 45, Saturation: 20},
		Shadow:    SplitZone{Hue: 220, Saturation: 30},
		Balance:   -10,
	}
	p.LUTs[0] = LUTSlot{Name: "test", Intensity: 0.7, Cube: lut3d.Identity(5)}
	p.Crop = geometry.Rect{X: 0.1, Y: 0.1, W: 0.8, H: 0.75}
	p.Rotation = -5.5
	p.Orientation = 90
	return p
}

func TestSerializeRoundTrip(t *testing.T) {
	p := sampleParams()
	data, err := Serialize(p)
	require.NoError(t, err)
	got, err := Deserialize(data)
	require.NoError(t, err)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	// serialize(deserialize(serialize(p))) is byte-identical.
	data2, err := Serialize(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(data2))
}

func TestDeserializeFillsDefaults(t *testing.T) {
	got, err := Deserialize([]byte(`{"inverted": true}`))
	require.NoError(t, err)
	assert.True(t, got.Inverted)
	assert.Equal(t, InversionLinear, got.InversionMode)
	assert.Equal(t, geometry.Full, got.Crop)
	assert.Equal(t, curves.Identity(), got.Curves.RGB)
	assert.Equal(t, 1.0, got.WhiteBalance.BaseGainG)
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	_, err := Deserialize([]byte("{not json"))
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	p := sampleParams()
	q := p.Clone()
	q.Curves.RGB[1].Y = 99
	q.LUTs[0].Cube.Data[0] = 0.42
	assert.EqualValues(t, 140, p.Curves.RGB[1].Y, "clone must not share curve points")
	assert.EqualValues(t, 0, p.LUTs[0].Cube.Data[0], "clone must not share cube data")
}

func TestNormalize(t *testing.T) {
	p := Defaults()
	p.Rotation = 80
	p.Orientation = 275
	p.Crop = geometry.Rect{X: 0.8, Y: -0.5, W: 0.6, H: 2}
	p.InversionMode = "bogus"
	got := p.Normalize()
	assert.Equal(t, geometry.MaxRotation, got.Rotation)
	assert.Equal(t, 270, got.Orientation)
	assert.LessOrEqual(t, got.Crop.X+got.Crop.W, 1.0)
	assert.GreaterOrEqual(t, got.Crop.Y, 0.0)
	assert.Equal(t, InversionLinear, got.InversionMode)
}

func TestHistoryLinearUndoRedo(t *testing.T) {
	var h History
	a := Defaults()
	b := a.Clone()
	b.Tone.Exposure = 10
	c := b.Clone()
	c.Tone.Exposure = 20

	// Each mutation pushes the state it replaces.
	h.Push(a)
	h.Push(b)
	current := c

	require.True(t, h.CanUndo())
	current, ok := h.Undo(current)
	require.True(t, ok)
	assert.Equal(t, 10.0, current.Tone.Exposure)

	current, ok = h.Undo(current)
	require.True(t, ok)
	assert.Equal(t, 0.0, current.Tone.Exposure)

	_, ok = h.Undo(current)
	assert.False(t, ok)

	current, ok = h.Redo(current)
	require.True(t, ok)
	assert.Equal(t, 10.0, current.Tone.Exposure)

	current, ok = h.Redo(current)
	require.True(t, ok)
	assert.Equal(t, 20.0, current.Tone.Exposure)
	assert.False(t, h.CanRedo())
}

func TestHistoryPushClearsRedo(t *testing.T) {
	var h History
	a := Defaults()
	b := a.Clone()
	b.Tone.Exposure = 10

	h.Push(a)
	current, ok := h.Undo(b)
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Push(current)
	assert.False(t, h.CanRedo(), "a new mutation after undo discards the redo branch")
	assert.Equal(t, 1, h.Depth())
}
