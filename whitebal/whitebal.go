// Package whitebal models white balance as per-channel gains driven by a
// temperature/tint pair and solves the inverse problem from a sampled patch
// under the gray-world assumption.
package whitebal

import "math"

// Gain clamp bounds for the forward model.
const (
	MinGain = 0.05
	MaxGain = 50.0
)

// Gains is a per-channel multiplier triple.
type Gains struct {
	R, G, B float64
}

// Neutral is the no-op gain triple.
var Neutral = Gains{R: 1, G: 1, B: 1}

func clampGain(g float64) float64 {
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 1
	}
	return max(MinGain, min(g, MaxGain))
}

// FromTempTint evaluates the forward gain model for temp and tint, both in
// [-100, 100]. The gains are clamped to [MinGain, MaxGain].
func FromTempTint(temp, tint float64) Gains {
	t := temp / 100
	n := tint / 100
	return Gains{
		R: clampGain(1 + 0.5*t + 0.3*n),
		G: clampGain(1 - 0.5*n),
		B: clampGain(1 - 0.5*t + 0.3*n),
	}
}

// Mul composes two gain triples, clamping the result.
func (g Gains) Mul(o Gains) Gains {
	return Gains{
		R: clampGain(g.R * o.R),
		G: clampGain(g.G * o.G),
		B: clampGain(g.B * o.B),
	}
}

// neutralTolerance is the relative deviation of the channel ratios from 1
// under which a sampled patch is considered already neutral.
const neutralTolerance = 0.02

// Solve inverts the gain model for a patch sampled after the existing base
// gains: it returns temp and tint such that applying FromTempTint neutralizes
// the patch's cast. Channel values are floored before ratio division; outputs
// clamp to [-100, 100]. When the solved forward gains land outside [0.1, 10]
// both outputs are halved once as a damping safeguard. Downstream
// calibration depends on this exact behavior, do not tune it.
func Solve(r, g, b float64) (temp, tint float64) {
	const floor = 1e-4
	r = max(r, floor)
	g = max(g, floor)
	b = max(b, floor)
	ratioR := g / r
	ratioB := g / b
	if math.Abs(ratioR-1) <= neutralTolerance && math.Abs(ratioB-1) <= neutralTolerance {
		return 0, 0
	}
	sum := ratioR + ratioB
	n := (sum - 2) / (0.6 + 0.5*sum)
	t := (ratioR - ratioB) * (1 - 0.5*n)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}
	temp = max(-100, min(t*100, 100))
	tint = max(-100, min(n*100, 100))
	if gains := FromTempTint(temp, tint); outsideSafeBand(gains) {
		temp /= 2
		tint /= 2
	}
	return temp, tint
}

func outsideSafeBand(g Gains) bool {
	for _, v := range [3]float64{g.R, g.G, g.B} {
		if v < 0.1 || v > 10 {
			return true
		}
	}
	return false
}
