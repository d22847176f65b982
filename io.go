package filmgallery

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
	exif_tiff "github.com/rwcarlsen/goexif/tiff"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var _ = fmt.Print

type decodeConfig struct {
	autoOrientation bool
	previewCap      uint
}

var defaultDecodeConfig = decodeConfig{
	autoOrientation: true,
}

// DecodeOption sets an optional parameter for the Decode and Open functions.
type DecodeOption func(*decodeConfig)

// AutoOrientation returns a DecodeOption that sets the auto-orientation
// mode. If enabled, the scan is transformed after decoding according to the
// EXIF orientation tag (if present). By default it's enabled.
func AutoOrientation(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.autoOrientation = enabled
	}
}

// PreviewCap returns a DecodeOption that downscales the decoded scan so its
// long edge does not exceed px (Lanczos). Interactive editing works on such
// a bounded preview; archival-quality output is produced by an external
// high-fidelity renderer from the original file. 0 disables the cap.
func PreviewCap(px uint) DecodeOption {
	return func(c *decodeConfig) {
		c.previewCap = px
	}
}

// exifOrientation values, per the EXIF spec.
type exifOrient int

const (
	orientUnspecified exifOrient = 0
	orientNormal      exifOrient = 1
	orientFlipH       exifOrient = 2
	orientRotate180   exifOrient = 3
	orientFlipV       exifOrient = 4
	orientTranspose   exifOrient = 5
	orientRotate90    exifOrient = 6
	orientTransverse  exifOrient = 7
	orientRotate270   exifOrient = 8
)

func readOrientation(data []byte) exifOrient {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil || x == nil {
		return orientUnspecified
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil || tag == nil || tag.Format() != exif_tiff.IntVal {
		return orientUnspecified
	}
	if v, err := tag.Int(0); err == nil && v > 0 && v < 9 {
		return exifOrient(v)
	}
	return orientUnspecified
}

// FlipH mirrors the raster horizontally.
func FlipH(src *Raster) *Raster {
	b := src.Rect
	w, h := b.Dx(), b.Dy()
	dst := NewRaster(w, h)
	for y := 0; y < h; y++ {
		i := src.PixOffset(b.Min.X, b.Min.Y+y)
		row := src.Pix[i : i+3*w]
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			s := row[x*3 : x*3+3 : x*3+3]
			d := drow[(w-1-x)*3 : (w-1-x)*3+3 : (w-1-x)*3+3]
			d[0], d[1], d[2] = s[0], s[1], s[2]
		}
	}
	return dst
}

func fixExifOrientation(p *Raster, o exifOrient) *Raster {
	switch o {
	case orientFlipH:
		return FlipH(p)
	case orientRotate180:
		return Orient(p, 180)
	case orientFlipV:
		return FlipH(Orient(p, 180))
	case orientTranspose:
		return FlipH(Orient(p, 90))
	case orientRotate90:
		return Orient(p, 90)
	case orientTransverse:
		return FlipH(Orient(p, 270))
	case orientRotate270:
		return Orient(p, 270)
	}
	return p
}

// Decode reads a scan (JPEG, PNG, GIF, BMP, TIFF or WEBP) into a Raster,
// applying EXIF orientation and the preview cap per the options.
func Decode(r io.Reader, opts ...DecodeOption) (*Raster, error) {
	cfg := defaultDecodeConfig
	for _, option := range opts {
		option(&cfg)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading scan: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding scan: %w", err)
	}
	if cfg.previewCap > 0 {
		b := img.Bounds()
		if uint(b.Dx()) > cfg.previewCap || uint(b.Dy()) > cfg.previewCap {
			img = resize.Thumbnail(cfg.previewCap, cfg.previewCap, img, resize.Lanczos3)
		}
	}
	ans := RasterFromImage(img)
	if cfg.autoOrientation {
		if o := readOrientation(data); o > orientNormal {
			ans = fixExifOrientation(ans, o)
		}
	}
	return ans, nil
}

// Open reads the named scan file. See Decode for the applied options.
func Open(path string, opts ...DecodeOption) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, opts...)
}

func encodePNG(w io.Writer, p *Raster) error {
	return png.Encode(w, p.ToNRGBA())
}

// SavePNG writes the raster to path as a PNG.
func SavePNG(path string, p *Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = encodePNG(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveJPEG writes the raster to path as a JPEG with the given quality.
func SaveJPEG(path string, p *Raster, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = jpeg.Encode(f, p.ToNRGBA(), &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
