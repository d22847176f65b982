package lut3d

import (
	"math"
)

// Invert computes the inverse of a cube: a grid such that applying c and
// then the result returns the original color. Each output grid point is
// seeded from a coarse nearest-output search and refined with damped
// Gauss-Newton iterations against trilinear samples of c. size selects the
// output grid (0 keeps the input size); strongly non-linear cubes invert
// more accurately at 33 or 65.
func Invert(c *Cube, size int) *Cube {
	if size < 2 {
		size = c.Size
	}
	seeds := buildSeedGrid(c)
	out := &Cube{Size: size, Data: make([]float32, 3*size*size*size)}
	m := float64(size - 1)
	i := 0
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				target := [3]float64{float64(r) / m, float64(g) / m, float64(b) / m}
				x := solveInverse(c, target, seeds.nearest(target))
				out.Data[i] = float32(x[0])
				out.Data[i+1] = float32(x[1])
				out.Data[i+2] = float32(x[2])
				i += 3
			}
		}
	}
	return out
}

// seedGrid is a coarse map of the cube's forward behavior used to pick a
// starting point for the per-target solve.
type seedGrid struct {
	inputs, outputs [][3]float64
}

const seedDensity = 9

func buildSeedGrid(c *Cube) *seedGrid {
	s := &seedGrid{}
	m := float64(seedDensity - 1)
	for b := 0; b < seedDensity; b++ {
		for g := 0; g < seedDensity; g++ {
			for r := 0; r < seedDensity; r++ {
				in := [3]float64{float64(r) / m, float64(g) / m, float64(b) / m}
				or, og, ob := c.Sample(in[0], in[1], in[2])
				s.inputs = append(s.inputs, in)
				s.outputs = append(s.outputs, [3]float64{or, og, ob})
			}
		}
	}
	return s
}

func (s *seedGrid) nearest(target [3]float64) [3]float64 {
	best := 0
	bestD := math.Inf(1)
	for i, o := range s.outputs {
		d0 := o[0] - target[0]
		d1 := o[1] - target[1]
		d2 := o[2] - target[2]
		if d := d0*d0 + d1*d1 + d2*d2; d < bestD {
			bestD = d
			best = i
		}
	}
	return s.inputs[best]
}

func sampleVec(c *Cube, x [3]float64) [3]float64 {
	r, g, b := c.Sample(x[0], x[1], x[2])
	return [3]float64{r, g, b}
}

func maxAbsResidual(a, b [3]float64) float64 {
	return max(math.Abs(a[0]-b[0]), math.Abs(a[1]-b[1]), math.Abs(a[2]-b[2]))
}

// solveInverse finds x with c.Sample(x) ≈ target via Gauss-Newton with a
// finite-difference Jacobian, Tikhonov damping and a halving line search.
func solveInverse(c *Cube, target, seed [3]float64) [3]float64 {
	const (
		maxIter = 30
		tol     = 1e-7
		eps     = 1e-4
	)
	x := seed
	err := maxAbsResidual(sampleVec(c, x), target)
	for iter := 0; iter < maxIter && err > tol; iter++ {
		fx := sampleVec(c, x)
		var jac [3][3]float64
		for i := range 3 {
			xp, xm := x, x
			xp[i] = min(1, x[i]+eps)
			xm[i] = max(0, x[i]-eps)
			dx := xp[i] - xm[i]
			if dx == 0 {
				continue
			}
			fp := sampleVec(c, xp)
			fm := sampleVec(c, xm)
			for j := range 3 {
				jac[j][i] = (fp[j] - fm[j]) / dx
			}
		}
		var residual [3]float64
		for j := range 3 {
			residual[j] = fx[j] - target[j]
		}
		// Solve (JᵗJ + λI) δ = -Jᵗr.
		var jtj [3][3]float64
		var jtr [3]float64
		for i := range 3 {
			for j := range 3 {
				for k := range 3 {
					jtj[i][j] += jac[k][i] * jac[k][j]
				}
			}
			for k := range 3 {
				jtr[i] += jac[k][i] * residual[k]
			}
			jtj[i][i] += 1e-8
		}
		delta, ok := solve3(jtj, [3]float64{-jtr[0], -jtr[1], -jtr[2]})
		if !ok {
			break
		}
		improved := false
		alpha := 1.0
		for range 10 {
			var cand [3]float64
			for i := range 3 {
				cand[i] = max(0, min(x[i]+alpha*delta[i], 1))
			}
			if e := maxAbsResidual(sampleVec(c, cand), target); e < err {
				x, err = cand, e
				improved = true
				break
			}
			alpha /= 2
		}
		if !improved {
			// Take a conservative step rather than stalling on a
			// kinked interpolant.
			for i := range 3 {
				x[i] = max(0, min(x[i]+0.1*delta[i], 1))
			}
			if e := maxAbsResidual(sampleVec(c, x), target); e >= err {
				break
			} else {
				err = e
			}
		}
	}
	return x
}

// solve3 solves a 3x3 linear system by Gaussian elimination with partial
// pivoting.
func solve3(a [3][3]float64, b [3]float64) ([3]float64, bool) {
	m := a
	v := b
	for col := range 3 {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return [3]float64{}, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		v[col], v[pivot] = v[pivot], v[col]
		for row := col + 1; row < 3; row++ {
			f := m[row][col] / m[col][col]
			for k := col; k < 3; k++ {
				m[row][k] -= f * m[col][k]
			}
			v[row] -= f * v[col]
		}
	}
	var x [3]float64
	for row := 2; row >= 0; row-- {
		s := v[row]
		for k := row + 1; k < 3; k++ {
			s -= m[row][k] * x[k]
		}
		x[row] = s / m[row][row]
	}
	return x, true
}
