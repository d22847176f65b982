package filmgallery

import (
	"image"
	"math"

	"github.com/JunlongH/FilmGallery-sub001/geometry"
)

// Orient rotates the raster by a discrete quadrant (0, 90, 180 or 270
// degrees clockwise) by index remapping; no resampling takes place.
func Orient(src *Raster, quadrant int) *Raster {
	quadrant = ((quadrant % 360) + 360) % 360
	b := src.Rect
	w, h := b.Dx(), b.Dy()
	switch quadrant {
	case 90, 270:
		dst := NewRaster(h, w)
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := src.Pix[i : i+3*w]
			for x := 0; x < w; x++ {
				var dx, dy int
				if quadrant == 90 {
					dx, dy = h-1-y, x
				} else {
					dx, dy = y, w-1-x
				}
				d := dst.Pix[dst.PixOffset(dx, dy):]
				s := row[x*3 : x*3+3 : x*3+3]
				d[0], d[1], d[2] = s[0], s[1], s[2]
			}
		}
		return dst
	case 180:
		dst := NewRaster(w, h)
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := src.Pix[i : i+3*w]
			for x := 0; x < w; x++ {
				d := dst.Pix[dst.PixOffset(w-1-x, h-1-y):]
				s := row[x*3 : x*3+3 : x*3+3]
				d[0], d[1], d[2] = s[0], s[1], s[2]
			}
		}
		return dst
	default:
		return src.Clone()
	}
}

// Rotate resamples the raster by a continuous angle (degrees, clockwise
// positive) into its rotated bounding box using bilinear interpolation.
// Pixels falling outside the source come out black; under the safe-rect
// invariant they are never part of a committed crop.
func Rotate(src *Raster, angleDeg float64) *Raster {
	if _, ok := geometry.NearQuadrant(angleDeg); ok {
		return src.Clone()
	}
	b := src.Rect
	w, h := b.Dx(), b.Dy()
	fbw, fbh := geometry.RotatedBounds(float64(w), float64(h), angleDeg)
	bw, bh := int(math.Ceil(fbw)), int(math.Ceil(fbh))
	dst := NewRaster(bw, bh)
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx, cy := float64(bw)/2, float64(bh)/2
	scx, scy := float64(w)/2, float64(h)/2
	for y := 0; y < bh; y++ {
		drow := dst.Pix[y*dst.Stride:]
		dy := float64(y) + 0.5 - cy
		for x := 0; x < bw; x++ {
			dx := float64(x) + 0.5 - cx
			sx := dx*cos + dy*sin + scx - 0.5
			sy := -dx*sin + dy*cos + scy - 0.5
			r, g, bl, ok := bilinear(src, sx, sy)
			if !ok {
				continue // stays black
			}
			d := drow[x*3 : x*3+3 : x*3+3]
			d[0], d[1], d[2] = r, g, bl
		}
	}
	return dst
}

func bilinear(src *Raster, x, y float64) (r, g, b uint8, ok bool) {
	bnd := src.Rect
	w, h := bnd.Dx(), bnd.Dy()
	if x < -0.5 || y < -0.5 || x > float64(w)-0.5 || y > float64(h)-0.5 {
		return 0, 0, 0, false
	}
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)
	pix := func(px, py int) (float64, float64, float64) {
		px = max(0, min(px, w-1))
		py = max(0, min(py, h-1))
		i := src.PixOffset(bnd.Min.X+px, bnd.Min.Y+py)
		s := src.Pix[i : i+3 : i+3]
		return float64(s[0]), float64(s[1]), float64(s[2])
	}
	r00, g00, b00 := pix(x0, y0)
	r10, g10, b10 := pix(x0+1, y0)
	r01, g01, b01 := pix(x0, y0+1)
	r11, g11, b11 := pix(x0+1, y0+1)
	lerp2 := func(v00, v10, v01, v11 float64) uint8 {
		top := v00 + (v10-v00)*fx
		bot := v01 + (v11-v01)*fx
		v := top + (bot-top)*fy
		return uint8(max(0, min(math.Round(v), 255)))
	}
	return lerp2(r00, r10, r01, r11), lerp2(g00, g10, g01, g11), lerp2(b00, b10, b01, b11), true
}

// Crop extracts the normalized rect (in the raster's own coordinate space)
// as a compact copy.
func Crop(src *Raster, r geometry.Rect) *Raster {
	b := src.Rect
	w, h := b.Dx(), b.Dy()
	x0 := b.Min.X + int(math.Round(r.X*float64(w)))
	y0 := b.Min.Y + int(math.Round(r.Y*float64(h)))
	x1 := b.Min.X + int(math.Round((r.X+r.W)*float64(w)))
	y1 := b.Min.Y + int(math.Round((r.Y+r.H)*float64(h)))
	sub := image.Rect(x0, y0, max(x0+1, x1), max(y0+1, y1)).Intersect(b)
	if sub.Empty() {
		return src.Clone()
	}
	return src.SubRaster(sub).Clone()
}

// ApplyGeometry runs the full geometry pass executed ahead of the color
// pipeline: discrete orientation, continuous rotation, then the crop rect
// expressed in rotated-bbox space. Both color backends consume its output,
// so the pass runs exactly once per frame.
func ApplyGeometry(src *Raster, rotationDeg float64, orientation int, crop geometry.Rect) *Raster {
	out := src
	if orientation%360 != 0 {
		out = Orient(out, orientation)
	}
	if _, ok := geometry.NearQuadrant(rotationDeg); !ok {
		out = Rotate(out, rotationDeg)
	}
	if crop != geometry.Full {
		out = Crop(out, crop)
	} else if out == src {
		out = src.Clone()
	}
	return out
}
