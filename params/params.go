// Package params defines the complete, immutable set of adjustment values
// controlling one pipeline execution. A RenderParams value is the sole
// contract between the engine and any host layer: hosts clone a snapshot,
// alter the clone, and commit it as a new snapshot.
package params

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/JunlongH/FilmGallery-sub001/curves"
	"github.com/JunlongH/FilmGallery-sub001/geometry"
	"github.com/JunlongH/FilmGallery-sub001/lut3d"
)

var _ = fmt.Print

// InversionMode selects how scan values are inverted to a positive.
type InversionMode string

const (
	InversionLinear      InversionMode = "linear"
	InversionLogarithmic InversionMode = "logarithmic"
)

// Tone groups the global tonal adjustments, each nominally in [-100, 100].
type Tone struct {
	Exposure   float64 `json:"exposure"`
	Contrast   float64 `json:"contrast"`
	Highlights float64 `json:"highlights"`
	Shadows    float64 `json:"shadows"`
	Whites     float64 `json:"whites"`
	Blacks     float64 `json:"blacks"`
}

// WhiteBalance holds the temp/tint pair plus the per-channel base gains of
// the scan itself (film base correction), both in effect simultaneously.
type WhiteBalance struct {
	Temp      float64 `json:"temp"`
	Tint      float64 `json:"tint"`
	BaseGainR float64 `json:"baseGainR"`
	BaseGainG float64 `json:"baseGainG"`
	BaseGainB float64 `json:"baseGainB"`
}

// FilmCurve parameterizes the H&D density-response emulation applied before
// inversion.
type FilmCurve struct {
	Enabled bool    `json:"enabled"`
	Gamma   float64 `json:"gamma"`
	DMin    float64 `json:"dMin"`
	DMax    float64 `json:"dMax"`
}

// CurveSet holds the four tone-curve channels.
type CurveSet struct {
	RGB []curves.Point `json:"rgb"`
	R   []curves.Point `json:"r"`
	G   []curves.Point `json:"g"`
	B   []curves.Point `json:"b"`
}

// HSLBand is one hue band's adjustment: hue shift in degrees, saturation and
// luminance in [-100, 100].
type HSLBand struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Luminance  float64 `json:"luminance"`
}

// NumHSLBands is the number of overlapping hue bands.
const NumHSLBands = 8

// SplitZone is one split-toning zone: tint hue in degrees, saturation in
// [0, 100].
type SplitZone struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
}

// SplitToning tints the shadow, midtone and highlight zones separately;
// Balance in [-100, 100] shifts the zone thresholds.
type SplitToning struct {
	Highlight SplitZone `json:"highlight"`
	Midtone   SplitZone `json:"midtone"`
	Shadow    SplitZone `json:"shadow"`
	Balance   float64   `json:"balance"`
}

// LUTSlot is one loaded 3-D look-up table with its blend intensity in [0,1].
// An empty slot has a nil Cube.
type LUTSlot struct {
	Name      string      `json:"name,omitempty"`
	Intensity float64     `json:"intensity"`
	Cube      *lut3d.Cube `json:"cube,omitempty"`
}

// RenderParams is one immutable pipeline configuration snapshot.
type RenderParams struct {
	Inverted      bool          `json:"inverted"`
	InversionMode InversionMode `json:"inversionMode"`
	FilmCurve     FilmCurve     `json:"filmCurve"`
	WhiteBalance  WhiteBalance  `json:"whiteBalance"`
	Tone          Tone          `json:"tone"`
	Curves        CurveSet      `json:"curves"`
	HSL           [NumHSLBands]HSLBand `json:"hsl"`
	SplitToning   SplitToning   `json:"splitToning"`
	LUTs          [2]LUTSlot    `json:"luts"`

	Crop        geometry.Rect `json:"crop"`
	Rotation    float64       `json:"rotation"`    // continuous degrees in [-45, 45]
	Orientation int           `json:"orientation"` // discrete quadrant: 0, 90, 180 or 270
}

// Defaults returns the parameters that render a scan unchanged.
func Defaults() RenderParams {
	return RenderParams{
		InversionMode: InversionLinear,
		FilmCurve:     FilmCurve{Gamma: 0.6, DMin: 0.2, DMax: 2.2},
		WhiteBalance:  WhiteBalance{BaseGainR: 1, BaseGainG: 1, BaseGainB: 1},
		Curves: CurveSet{
			RGB: curves.Identity(),
			R:   curves.Identity(),
			G:   curves.Identity(),
			B:   curves.Identity(),
		},
		Crop: geometry.Full,
	}
}

// Clone returns a deep copy; the receiver's slices and cubes are never
// shared with the result.
func (p RenderParams) Clone() RenderParams {
	q := p
	q.Curves.RGB = slices.Clone(p.Curves.RGB)
	q.Curves.R = slices.Clone(p.Curves.R)
	q.Curves.G = slices.Clone(p.Curves.G)
	q.Curves.B = slices.Clone(p.Curves.B)
	for i := range q.LUTs {
		q.LUTs[i].Cube = p.LUTs[i].Cube.Clone()
	}
	return q
}

// TotalAngle is the effective rotation: continuous rotation plus the
// discrete quadrant orientation, in degrees.
func (p RenderParams) TotalAngle() float64 {
	return p.Rotation + float64(p.Orientation)
}

// Normalize clamps out-of-range geometry fields: rotation to [-45, 45],
// orientation to a canonical quadrant, the crop into the unit square, and
// non-finite numbers back to their defaults.
func (p RenderParams) Normalize() RenderParams {
	q := p.Clone()
	if math.IsNaN(q.Rotation) || math.IsInf(q.Rotation, 0) {
		q.Rotation = 0
	}
	q.Rotation = max(-geometry.MaxRotation, min(q.Rotation, geometry.MaxRotation))
	q.Orientation = ((q.Orientation % 360) + 360) % 360
	q.Orientation = (q.Orientation / 90) * 90
	c := q.Crop
	c.W = max(0, min(c.W, 1))
	c.H = max(0, min(c.H, 1))
	c.X = max(0, min(c.X, 1-c.W))
	c.Y = max(0, min(c.Y, 1-c.H))
	if c.W == 0 || c.H == 0 {
		c = geometry.Full
	}
	q.Crop = c
	if q.InversionMode != InversionLogarithmic {
		q.InversionMode = InversionLinear
	}
	return q
}

// Serialize encodes the snapshot as JSON. Serialize and Deserialize
// round-trip every field losslessly.
func Serialize(p RenderParams) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Deserialize decodes a snapshot, filling absent fields from Defaults.
func Deserialize(data []byte) (RenderParams, error) {
	p := Defaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return RenderParams{}, fmt.Errorf("decoding render params: %w", err)
	}
	return p, nil
}
