package filmgallery

import (
	"fmt"
	"image"
	"image/color"
)

var _ = fmt.Print

// RGBColor is an opaque 8-bit RGB pixel value.
type RGBColor struct {
	R, G, B uint8
}

func (c RGBColor) String() string {
	return fmt.Sprintf("RGBColor{%02X %02X %02X}", c.R, c.G, c.B)
}

func (c RGBColor) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 65535
	return
}

// Raster is the working image type of the pipeline: an opaque in-memory RGB
// image with 3 bytes per pixel.
type Raster struct {
	// Pix holds the pixels, in R, G, B order. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the raster's bounds.
	Rect image.Rectangle
}

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGBColor); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	switch a {
	case 0xffff:
		return RGBColor{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	case 0:
		return RGBColor{0, 0, 0}
	default:
		// Color.RGBA returns an alpha-premultiplied color, so r <= a && g <= a && b <= a.
		r = (r * 0xffff) / a
		g = (g * 0xffff) / a
		b = (b * 0xffff) / a
		return RGBColor{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
}

var RGBModel color.Model = color.ModelFunc(rgbModel)

func (p *Raster) ColorModel() color.Model { return RGBModel }

func (p *Raster) Bounds() image.Rectangle { return p.Rect }

func (p *Raster) At(x, y int) color.Color {
	return p.RGBAt(x, y)
}

func (p *Raster) RGBAt(x, y int) RGBColor {
	if !(image.Point{x, y}.In(p.Rect)) {
		return RGBColor{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3] // Small cap improves performance, see https://golang.org/issue/27857
	return RGBColor{s[0], s[1], s[2]}
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *Raster) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

func (p *Raster) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	c1 := RGBModel.Convert(c).(RGBColor)
	s := p.Pix[i : i+3 : i+3]
	s[0] = c1.R
	s[1] = c1.G
	s[2] = c1.B
}

func (p *Raster) SetRGB(x, y int, c RGBColor) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	s[0] = c.R
	s[1] = c.G
	s[2] = c.B
}

// SubRaster returns the portion of p visible through r, sharing pixels with
// the original.
func (p *Raster) SubRaster(r image.Rectangle) *Raster {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &Raster{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &Raster{
		Pix:    p.Pix[i:],
		Stride: p.Stride,
		Rect:   r,
	}
}

// Opaque reports whether the raster is fully opaque. It always is.
func (p *Raster) Opaque() bool { return true }

// Clone returns a compact deep copy with bounds translated to the origin.
func (p *Raster) Clone() *Raster {
	b := p.Rect
	w, h := b.Dx(), b.Dy()
	q := NewRaster(w, h)
	for y := 0; y < h; y++ {
		i := p.PixOffset(b.Min.X, b.Min.Y+y)
		copy(q.Pix[y*q.Stride:(y+1)*q.Stride], p.Pix[i:i+3*w])
	}
	return q
}

func NewRaster(width, height int) *Raster {
	return &Raster{
		Pix:    make([]uint8, 3*width*height),
		Stride: 3 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// NewRasterWithContiguousPixels wraps externally decoded RGB pixel data
// without copying.
func NewRasterWithContiguousPixels(p []byte, width, height int) (*Raster, error) {
	const bpp = 3
	if expected := bpp * width * height; expected != len(p) {
		return nil, fmt.Errorf("the image width and height dont match the size of the specified pixel data: width=%d height=%d sz=%d != %d", width, height, len(p), expected)
	}
	return &Raster{
		Pix:    p,
		Stride: bpp * width,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// RasterFromImage converts any image into a Raster, dropping alpha. It fast
// paths the common decoded types.
func RasterFromImage(img image.Image) *Raster {
	if p, ok := img.(*Raster); ok {
		return p
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := NewRaster(w, h)
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			drow := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				s := row[x*4 : x*4+3 : x*4+3]
				d := drow[x*3 : x*3+3 : x*3+3]
				d[0], d[1], d[2] = s[0], s[1], s[2]
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			drow := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				s := row[x*4 : x*4+4 : x*4+4]
				d := drow[x*3 : x*3+3 : x*3+3]
				if a := s[3]; a == 0 || a == 0xff {
					d[0], d[1], d[2] = s[0], s[1], s[2]
				} else {
					d[0] = uint8(uint16(s[0]) * 0xff / uint16(a))
					d[1] = uint8(uint16(s[1]) * 0xff / uint16(a))
					d[2] = uint8(uint16(s[2]) * 0xff / uint16(a))
				}
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			drow := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				g := row[x]
				d := drow[x*3 : x*3+3 : x*3+3]
				d[0], d[1], d[2] = g, g, g
			}
		}
	case *image.YCbCr:
		for y := 0; y < h; y++ {
			drow := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				yy := src.Y[src.YOffset(b.Min.X+x, b.Min.Y+y)]
				ci := src.COffset(b.Min.X+x, b.Min.Y+y)
				r, g, bl := color.YCbCrToRGB(yy, src.Cb[ci], src.Cr[ci])
				d := drow[x*3 : x*3+3 : x*3+3]
				d[0], d[1], d[2] = r, g, bl
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r16, g16, b16, a16 := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				var c RGBColor
				if a16 == 0 {
					// leave black
				} else if a16 == 0xffff {
					c = RGBColor{uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)}
				} else {
					c = RGBColor{
						uint8((r16 * 0xffff / a16) >> 8),
						uint8((g16 * 0xffff / a16) >> 8),
						uint8((b16 * 0xffff / a16) >> 8),
					}
				}
				dst.SetRGB(x, y, c)
			}
		}
	}
	return dst
}

// ToNRGBA converts the raster into a standard library image for encoding.
func (p *Raster) ToNRGBA() *image.NRGBA {
	b := p.Rect
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := p.Pix[p.PixOffset(b.Min.X, b.Min.Y+y):]
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			s := row[x*3 : x*3+3 : x*3+3]
			d := drow[x*4 : x*4+4 : x*4+4]
			d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
		}
	}
	return dst
}
