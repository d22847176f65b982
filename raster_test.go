package filmgallery

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func TestRasterSetAndAt(t *testing.T) {
	p := NewRaster(4, 3)
	assert.Equal(t, image.Rect(0, 0, 4, 3), p.Bounds())
	assert.Equal(t, 12, p.Stride)

	p.SetRGB(2, 1, RGBColor{10, 20, 30})
	assert.Equal(t, RGBColor{10, 20, 30}, p.RGBAt(2, 1))
	r, g, b, a := p.At(2, 1).RGBA()
	assert.Equal(t, uint32(10*0x101), r)
	assert.Equal(t, uint32(20*0x101), g)
	assert.Equal(t, uint32(30*0x101), b)
	assert.Equal(t, uint32(0xffff), a)

	p.Set(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	assert.Equal(t, RGBColor{1, 2, 3}, p.RGBAt(0, 0))

	// out of bounds reads are zero, writes are dropped
	assert.Equal(t, RGBColor{}, p.RGBAt(-1, 0))
	p.SetRGB(99, 99, RGBColor{255, 255, 255})
}

func TestSubRasterSharesPixels(t *testing.T) {
	p := NewRaster(6, 6)
	sub := p.SubRaster(image.Rect(2, 2, 5, 5))
	sub.SetRGB(3, 3, RGBColor{9, 9, 9})
	assert.Equal(t, RGBColor{9, 9, 9}, p.RGBAt(3, 3))

	c := sub.Clone()
	require.Equal(t, image.Rect(0, 0, 3, 3), c.Bounds())
	assert.Equal(t, RGBColor{9, 9, 9}, c.RGBAt(1, 1))
	c.SetRGB(1, 1, RGBColor{7, 7, 7})
	assert.Equal(t, RGBColor{9, 9, 9}, p.RGBAt(3, 3), "clone is independent")
}

func TestNewRasterWithContiguousPixels(t *testing.T) {
	buf := make([]byte, 2*2*3)
	p, err := NewRasterWithContiguousPixels(buf, 2, 2)
	require.NoError(t, err)
	p.SetRGB(0, 0, RGBColor{5, 6, 7})
	assert.Equal(t, byte(5), buf[0])

	_, err = NewRasterWithContiguousPixels(buf, 3, 3)
	assert.Error(t, err)
}

func TestRasterFromImage(t *testing.T) {
	b := image.Rect(0, 0, 5, 4)
	fill := func(img interface {
		Set(x, y int, c color.Color)
	}) {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				img.Set(x, y, color.NRGBA{R: uint8(40 * x), G: uint8(50 * y), B: uint8(10 * (x + y)), A: 255})
			}
		}
	}
	nrgba := image.NewNRGBA(b)
	fill(nrgba)
	rgba := image.NewRGBA(b)
	fill(rgba)

	for name, img := range map[string]image.Image{"nrgba": nrgba, "rgba": rgba} {
		p := RasterFromImage(img)
		require.Equal(t, b, p.Bounds(), name)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				assert.Equal(t, RGBColor{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)}, p.RGBAt(x, y), "%s at %d,%d", name, x, y)
			}
		}
	}

	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	gray.SetGray(1, 1, color.Gray{Y: 77})
	pg := RasterFromImage(gray)
	assert.Equal(t, RGBColor{77, 77, 77}, pg.RGBAt(1, 1))

	// an already-converted raster comes back unchanged
	self := NewRaster(2, 2)
	assert.Same(t, self, RasterFromImage(self))
}

func TestToNRGBARoundTrip(t *testing.T) {
	p := NewRaster(3, 2)
	p.SetRGB(2, 1, RGBColor{11, 22, 33})
	n := p.ToNRGBA()
	require.Equal(t, p.Bounds(), n.Bounds())
	assert.Equal(t, color.NRGBA{R: 11, G: 22, B: 33, A: 255}, n.NRGBAAt(2, 1))
	back := RasterFromImage(n)
	assert.Equal(t, p.Pix, back.Pix)
}
