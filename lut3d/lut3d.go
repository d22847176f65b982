// Package lut3d reads, writes, samples and combines 3-D color lookup cubes
// in the .cube text format.
package lut3d

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var _ = fmt.Print

// DefaultSize is assumed when a .cube file carries no LUT_3D_SIZE header.
const DefaultSize = 33

// Cube is a 3-D lookup table with Size grid points per axis. Data holds
// Size³ RGB triples iterated R-fastest, G-next, B-slowest, each component
// nominally in [0,1].
type Cube struct {
	Size int       `json:"size"`
	Data []float32 `json:"data"`
}

// Index returns the offset into Data of the first component of grid point
// (r, g, b).
func (c *Cube) Index(r, g, b int) int {
	return 3 * (r + g*c.Size + b*c.Size*c.Size)
}

// Identity returns a cube that maps every color to itself.
func Identity(n int) *Cube {
	c := &Cube{Size: n, Data: make([]float32, 3*n*n*n)}
	m := float32(n - 1)
	i := 0
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				c.Data[i] = float32(r) / m
				c.Data[i+1] = float32(g) / m
				c.Data[i+2] = float32(b) / m
				i += 3
			}
		}
	}
	return c
}

// Clone returns a deep copy.
func (c *Cube) Clone() *Cube {
	if c == nil {
		return nil
	}
	d := make([]float32, len(c.Data))
	copy(d, c.Data)
	return &Cube{Size: c.Size, Data: d}
}

// Parse reads a .cube document. Parsing is best effort: blank lines,
// comments, TITLE/DOMAIN lines and unparseable lines are skipped, and a
// missing LUT_3D_SIZE header defaults to DefaultSize. Grid points not
// covered by the input are filled with identity values.
func Parse(r io.Reader) (*Cube, error) {
	size := 0
	var triples []float32
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "LUT_3D_SIZE":
			if len(fields) > 1 {
				if n, err := strconv.Atoi(fields[1]); err == nil && n >= 2 {
					size = n
				}
			}
			continue
		case "TITLE", "DOMAIN_MIN", "DOMAIN_MAX", "LUT_1D_SIZE":
			continue
		}
		if len(fields) != 3 {
			continue
		}
		var v [3]float64
		ok := true
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
				ok = false
				break
			}
			v[i] = x
		}
		if !ok {
			continue
		}
		triples = append(triples, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cube data: %w", err)
	}
	if size == 0 {
		// Infer the grid from the data when it forms a perfect cube,
		// otherwise fall back to the conventional default.
		if n := int(math.Round(math.Cbrt(float64(len(triples) / 3)))); n >= 2 && 3*n*n*n == len(triples) {
			size = n
		} else {
			size = DefaultSize
		}
	}
	c := Identity(size)
	copy(c.Data, triples[:min(len(triples), len(c.Data))])
	return c, nil
}

// Encode writes the cube as .cube text: a TITLE, the LUT_3D_SIZE header,
// the unit domain, then Size³ lines of three 6-decimal values in R-fastest
// order.
func (c *Cube) Encode(w io.Writer, title string) error {
	bw := bufio.NewWriter(w)
	if title != "" {
		fmt.Fprintf(bw, "TITLE %q\n", title)
	}
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", c.Size)
	fmt.Fprintf(bw, "DOMAIN_MIN 0.000000 0.000000 0.000000\n")
	fmt.Fprintf(bw, "DOMAIN_MAX 1.000000 1.000000 1.000000\n")
	for i := 0; i < len(c.Data); i += 3 {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", c.Data[i], c.Data[i+1], c.Data[i+2])
	}
	return bw.Flush()
}

// Sample trilinearly interpolates the cube at normalized color (r, g, b).
// Inputs are clamped to [0,1].
func (c *Cube) Sample(r, g, b float64) (float64, float64, float64) {
	n := c.Size
	var idx [3]int
	var frac [3]float64
	for i, v := range [3]float64{r, g, b} {
		v = max(0, min(v, 1))
		pos := v * float64(n-1)
		lo := int(pos)
		f := pos - float64(lo)
		if lo >= n-1 {
			lo = n - 2
			f = 1
		}
		idx[i] = lo
		frac[i] = f
	}
	var out [3]float64
	for corner := range 8 {
		w := 1.0
		ri, gi, bi := idx[0], idx[1], idx[2]
		if corner&1 != 0 {
			ri++
			w *= frac[0]
		} else {
			w *= 1 - frac[0]
		}
		if corner&2 != 0 {
			gi++
			w *= frac[1]
		} else {
			w *= 1 - frac[1]
		}
		if corner&4 != 0 {
			bi++
			w *= frac[2]
		} else {
			w *= 1 - frac[2]
		}
		if w == 0 {
			continue
		}
		o := c.Index(ri, gi, bi)
		out[0] += w * float64(c.Data[o])
		out[1] += w * float64(c.Data[o+1])
		out[2] += w * float64(c.Data[o+2])
	}
	return out[0], out[1], out[2]
}

// Atlas is a cube repacked as a 2-D texture of width Size and height Size²,
// with texel row g + b·Size. Both render backends must address LUT data
// through this packing so that their sampling is identical.
type Atlas struct {
	W, H int
	Pix  []float32 // 3 floats per texel, row-major
}

// PackAtlas repacks the cube for 2-D texture addressing. The flat cube order
// (R-fastest) already matches row-major atlas order with row = g + b·Size,
// so the texel data is a straight copy.
func (c *Cube) PackAtlas() *Atlas {
	pix := make([]float32, len(c.Data))
	copy(pix, c.Data)
	return &Atlas{W: c.Size, H: c.Size * c.Size, Pix: pix}
}

// At returns the texel at atlas coordinate (x, y).
func (a *Atlas) At(x, y int) (float32, float32, float32) {
	o := 3 * (y*a.W + x)
	return a.Pix[o], a.Pix[o+1], a.Pix[o+2]
}

// Combine folds up to two loaded cubes into one grid of the given size:
// starting from identity, cube a is alpha-blended in at intensity ia, then
// cube b at intensity ib. Either cube may be nil. Because trilinear
// interpolation is linear in the stored grid values, applying the combined
// grid at full strength is equivalent to blending each cube's output at its
// intensity.
func Combine(a *Cube, ia float64, b *Cube, ib float64, size int) *Cube {
	if size < 2 {
		size = DefaultSize
	}
	out := Identity(size)
	blend := func(c *Cube, intensity float64) {
		if c == nil || intensity <= 0 {
			return
		}
		intensity = min(intensity, 1)
		for i := 0; i < len(out.Data); i += 3 {
			r := float64(out.Data[i])
			g := float64(out.Data[i+1])
			bl := float64(out.Data[i+2])
			sr, sg, sb := c.Sample(r, g, bl)
			out.Data[i] = float32(r + (sr-r)*intensity)
			out.Data[i+1] = float32(g + (sg-g)*intensity)
			out.Data[i+2] = float32(bl + (sb-bl)*intensity)
		}
	}
	blend(a, ia)
	blend(b, ib)
	return out
}
