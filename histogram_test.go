package filmgallery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func TestHistogramsOfFlatImage(t *testing.T) {
	p := NewRaster(8, 8)
	for i := 0; i < len(p.Pix); i += 3 {
		p.Pix[i], p.Pix[i+1], p.Pix[i+2] = 10, 200, 50
	}
	h := ComputeHistograms(p, 1)
	assert.Equal(t, 1.0, h.R[10])
	assert.Equal(t, 1.0, h.G[200])
	assert.Equal(t, 1.0, h.B[50])
	// Rec.601: (299*10 + 587*200 + 114*50 + 500) / 1000 = 126
	assert.Equal(t, 1.0, h.Lum[126])
	assert.Equal(t, 0.0, h.Lum[127])
}

func TestHistogramsPeakNormalization(t *testing.T) {
	p := NewRaster(4, 1)
	vals := []uint8{0, 0, 0, 255}
	for x, v := range vals {
		p.SetRGB(x, 0, RGBColor{v, v, v})
	}
	h := ComputeHistograms(p, 1)
	require.Equal(t, 1.0, h.R[0], "peak bin normalizes to 1")
	assert.InDelta(t, 1.0/3.0, h.R[255], 1e-12)
}

func TestHistogramsStrideSampling(t *testing.T) {
	p := NewRaster(4, 4)
	// leave everything black except pixels skipped by a stride of 2
	p.SetRGB(1, 1, RGBColor{255, 255, 255})
	p.SetRGB(3, 3, RGBColor{255, 255, 255})
	h := ComputeHistograms(p, 2)
	assert.Equal(t, 0.0, h.R[255], "strided pass never lands on odd coordinates")
	assert.Equal(t, 1.0, h.R[0])

	h = ComputeHistograms(p, 0)
	assert.Greater(t, h.R[255], 0.0, "stride below 1 is treated as 1")
}

func TestHistogramsEmptyRaster(t *testing.T) {
	h := ComputeHistograms(NewRaster(0, 0), 1)
	assert.Equal(t, 0.0, h.Lum[0])
}
