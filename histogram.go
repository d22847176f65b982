package filmgallery

// Histograms holds the four 256-bin channel histograms of a rendered
// raster. Each histogram is normalized to [0,1] by its own peak bin.
type Histograms struct {
	Lum [256]float64
	R   [256]float64
	G   [256]float64
	B   [256]float64
}

// ComputeHistograms samples the raster with the given pixel stride (1 means
// every pixel; interactive callers widen the stride to trade accuracy for
// speed, wider still while cropping). Luminance uses Rec.601 weights.
func ComputeHistograms(p *Raster, stride int) *Histograms {
	if stride < 1 {
		stride = 1
	}
	var lum, r, g, b [256]uint64
	bnd := p.Rect
	w, h := bnd.Dx(), bnd.Dy()
	for y := 0; y < h; y += stride {
		i := p.PixOffset(bnd.Min.X, bnd.Min.Y+y)
		row := p.Pix[i : i+3*w]
		for x := 0; x < w; x += stride {
			s := row[x*3 : x*3+3 : x*3+3]
			r[s[0]]++
			g[s[1]]++
			b[s[2]]++
			l := (299*uint32(s[0]) + 587*uint32(s[1]) + 114*uint32(s[2]) + 500) / 1000
			lum[l]++
		}
	}
	ans := &Histograms{}
	normalize(&ans.Lum, &lum)
	normalize(&ans.R, &r)
	normalize(&ans.G, &g)
	normalize(&ans.B, &b)
	return ans
}

func normalize(dst *[256]float64, src *[256]uint64) {
	var peak uint64
	for _, v := range src {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}
	for i, v := range src {
		dst[i] = float64(v) / float64(peak)
	}
}
