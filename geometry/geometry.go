// Package geometry maintains the crop/rotation safety invariant: a crop
// rectangle, expressed in the rotated image's bounding box, must never expose
// area outside the original source image.
package geometry

import (
	"fmt"
	"math"
)

var _ = fmt.Print

// Rect is a crop rectangle normalized to the rotated bounding box:
// X, Y, W, H are all in [0,1] with X+W <= 1 and Y+H <= 1.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Full is the whole-image crop.
var Full = Rect{X: 0, Y: 0, W: 1, H: 1}

// quadrantSnap is the angular distance (degrees) under which an angle is
// treated as an exact multiple of 90, avoiding near-zero trigonometric
// division.
const quadrantSnap = 0.01

// NearQuadrant reports whether angleDeg is within snapping distance of a
// multiple of 90 degrees and returns that quadrant angle.
func NearQuadrant(angleDeg float64) (float64, bool) {
	q := math.Round(angleDeg/90) * 90
	if math.Abs(angleDeg-q) < quadrantSnap {
		return q, true
	}
	return 0, false
}

// RotatedBounds returns the dimensions of the axis-aligned bounding box of a
// w×h image rotated by angleDeg.
func RotatedBounds(w, h, angleDeg float64) (bw, bh float64) {
	if q, ok := NearQuadrant(angleDeg); ok {
		if int(math.Abs(q))%180 == 90 {
			return h, w
		}
		return w, h
	}
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return w*cos + h*sin, w*sin + h*cos
}

// SafeRect computes the largest crop of the given aspect ratio (w/h in
// pixels; <= 0 means the image's own ratio) that stays inside a w×h image
// rotated by angleDeg, centered in the rotated bounding box. The result is
// normalized to the bounding box.
func SafeRect(imgW, imgH, angleDeg, aspect float64) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Full
	}
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		aspect = imgW / imgH
	}
	bw, bh := RotatedBounds(imgW, imgH, angleDeg)
	var cw, ch float64
	if _, ok := NearQuadrant(angleDeg); ok {
		// Degenerate trig case: fit the aspect directly into the
		// (possibly swapped) image bounds.
		cw, ch = bw, bw/aspect
		if ch > bh {
			ch = bh
			cw = ch * aspect
		}
	} else {
		rad := math.Abs(angleDeg) * math.Pi / 180
		sin, cos := math.Sin(rad), math.Cos(rad)
		ch = min(imgW/(aspect*cos+sin), imgH/(aspect*sin+cos))
		cw = ch * aspect
	}
	return Rect{
		X: (bw - cw) / 2 / bw,
		Y: (bh - ch) / 2 / bh,
		W: cw / bw,
		H: ch / bh,
	}
}

// IsRectValid reports whether every corner of rect, mapped from normalized
// rotated-bbox space back through the inverse rotation, falls within the
// source image's half extents (plus a small epsilon). It is the O(1)
// feasibility test used during interactive drags.
func IsRectValid(rect Rect, imgW, imgH, angleDeg float64) bool {
	if rect.W <= 0 || rect.H <= 0 || rect.X < -1e-9 || rect.Y < -1e-9 ||
		rect.X+rect.W > 1+1e-9 || rect.Y+rect.H > 1+1e-9 {
		return false
	}
	bw, bh := RotatedBounds(imgW, imgH, angleDeg)
	if _, ok := NearQuadrant(angleDeg); ok {
		// Un-rotated (or quadrant-rotated) image fills its bounding box,
		// so any in-bounds rect is safe.
		return true
	}
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	eps := 1e-6 * max(imgW, imgH)
	hw, hh := imgW/2+eps, imgH/2+eps
	for _, c := range [4][2]float64{
		{rect.X, rect.Y},
		{rect.X + rect.W, rect.Y},
		{rect.X, rect.Y + rect.H},
		{rect.X + rect.W, rect.Y + rect.H},
	} {
		// Centered pixel coordinates in bbox space.
		px := c[0]*bw - bw/2
		py := c[1]*bh - bh/2
		// Inverse rotation back into source space.
		sx := px*cos + py*sin
		sy := -px*sin + py*cos
		if math.Abs(sx) > hw || math.Abs(sy) > hh {
			return false
		}
	}
	return true
}

// FitRectToAspect fits a rect of the given W/H ratio inside container: first
// by width, then by height if that overflows, centering the result.
func FitRectToAspect(container Rect, ratio float64) Rect {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return container
	}
	w := container.W
	h := w / ratio
	if h > container.H {
		h = container.H
		w = h * ratio
	}
	return Rect{
		X: container.X + (container.W-w)/2,
		Y: container.Y + (container.H-h)/2,
		W: w,
		H: h,
	}
}

// clampIterations gives roughly 0.1% interpolation precision (2^-10).
const clampIterations = 10

// ClampRect returns candidate when it is valid; otherwise it binary-searches
// along the interpolation between lastValid and candidate (all four fields
// interpolated together), returning the valid rect closest to the candidate.
// This produces a smooth collision with the image boundary instead of a hard
// snap. lastValid is assumed valid.
func ClampRect(lastValid, candidate Rect, imgW, imgH, angleDeg float64) Rect {
	if IsRectValid(candidate, imgW, imgH, angleDeg) {
		return candidate
	}
	lerp := func(t float64) Rect {
		return Rect{
			X: lastValid.X + (candidate.X-lastValid.X)*t,
			Y: lastValid.Y + (candidate.Y-lastValid.Y)*t,
			W: lastValid.W + (candidate.W-lastValid.W)*t,
			H: lastValid.H + (candidate.H-lastValid.H)*t,
		}
	}
	best := lastValid
	lo, hi := 0.0, 1.0
	for range clampIterations {
		mid := (lo + hi) / 2
		if r := lerp(mid); IsRectValid(r, imgW, imgH, angleDeg) {
			best = r
			lo = mid
		} else {
			hi = mid
		}
	}
	return best
}

// ReclampCrop re-validates crop after a rotation, orientation or aspect
// change, preserving its center and relative size when feasible. The safe
// rect for the crop's own aspect is the known-valid anchor of the search.
func ReclampCrop(crop Rect, imgW, imgH, angleDeg float64) Rect {
	if IsRectValid(crop, imgW, imgH, angleDeg) {
		return crop
	}
	bw, bh := RotatedBounds(imgW, imgH, angleDeg)
	aspect := (crop.W * bw) / (crop.H * bh)
	safe := SafeRect(imgW, imgH, angleDeg, aspect)
	return ClampRect(safe, crop, imgW, imgH, angleDeg)
}
