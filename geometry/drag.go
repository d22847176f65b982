package geometry

import "math"

// DragKind identifies what an active pointer interaction manipulates.
type DragKind int

const (
	DragIdle DragKind = iota
	DragMove
	DragResize
	DragRotate
)

// Handle identifies which part of the crop rect a resize drag grabbed.
type Handle int

const (
	HandleN Handle = iota
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleNW
)

// Rotation drags clamp to this range and snap to zero inside snapAngle.
const (
	MaxRotation = 45.0
	snapAngle   = 1.0
)

// minCropSize keeps drags from collapsing the rect to nothing.
const minCropSize = 0.02

// Drag is the crop interaction state machine. All candidate rects produced
// during a move or resize are clamped against the safe-rect invariant before
// being committed, so the rect never exposes area outside the source image,
// not just at rest but at every intermediate frame.
type Drag struct {
	kind      DragKind
	imgW      float64
	imgH      float64
	angle     float64
	start     Rect
	lastValid Rect
	handle    Handle
	aspect    float64 // locked W/H ratio in bbox units, 0 for free
	pivotX    float64
	pivotY    float64
	startVec  float64 // pointer angle at rotate start, degrees
	baseAngle float64
}

// NewDrag creates an idle drag machine for an imgW×imgH source.
func NewDrag(imgW, imgH float64) *Drag {
	return &Drag{imgW: imgW, imgH: imgH}
}

func (d *Drag) Kind() DragKind { return d.kind }

// Rect returns the last committed (valid) rect.
func (d *Drag) Rect() Rect { return d.lastValid }

// Angle returns the current rotation angle in degrees.
func (d *Drag) Angle() float64 { return d.angle }

// BeginMove starts a move drag from rect at the current rotation angle.
// rect must satisfy the safe-rect invariant.
func (d *Drag) BeginMove(rect Rect, angleDeg float64) {
	d.kind = DragMove
	d.start, d.lastValid = rect, rect
	d.angle = angleDeg
}

// BeginResize starts a resize drag on the given handle. lockAspect > 0
// constrains the rect to that W/H ratio (bbox units).
func (d *Drag) BeginResize(rect Rect, h Handle, angleDeg, lockAspect float64) {
	d.kind = DragResize
	d.start, d.lastValid = rect, rect
	d.angle = angleDeg
	d.handle = h
	d.aspect = lockAspect
}

// BeginRotate starts a rotation drag: deltas are derived from the pointer
// vector relative to the rect center.
func (d *Drag) BeginRotate(rect Rect, angleDeg, pointerX, pointerY float64) {
	d.kind = DragRotate
	d.start, d.lastValid = rect, rect
	d.angle, d.baseAngle = angleDeg, angleDeg
	d.pivotX = rect.X + rect.W/2
	d.pivotY = rect.Y + rect.H/2
	d.startVec = pointerAngle(pointerX-d.pivotX, pointerY-d.pivotY)
}

// MoveTo advances a move drag by the accumulated pointer delta (normalized
// bbox units) and returns the committed rect.
func (d *Drag) MoveTo(dx, dy float64) Rect {
	if d.kind != DragMove {
		return d.lastValid
	}
	cand := d.start
	cand.X = max(0, min(cand.X+dx, 1-cand.W))
	cand.Y = max(0, min(cand.Y+dy, 1-cand.H))
	d.lastValid = ClampRect(d.lastValid, cand, d.imgW, d.imgH, d.angle)
	return d.lastValid
}

// ResizeTo advances a resize drag by the accumulated pointer delta and
// returns the committed rect.
func (d *Drag) ResizeTo(dx, dy float64) Rect {
	if d.kind != DragResize {
		return d.lastValid
	}
	cand := resizeCandidate(d.start, d.handle, dx, dy, d.aspect)
	d.lastValid = ClampRect(d.lastValid, cand, d.imgW, d.imgH, d.angle)
	return d.lastValid
}

// RotateTo derives a new angle from the pointer position, clamps it to
// [-MaxRotation, MaxRotation] and snaps to 0 within snapAngle. Pixel work is
// deliberately not triggered here; during an active rotation drag rendering
// is suspended by the scheduler and the rect is reclamped on End.
func (d *Drag) RotateTo(pointerX, pointerY float64) float64 {
	if d.kind != DragRotate {
		return d.angle
	}
	delta := pointerAngle(pointerX-d.pivotX, pointerY-d.pivotY) - d.startVec
	// Keep the delta in (-180, 180] so crossing the axis doesn't jump.
	for delta > 180 {
		delta -= 360
	}
	for delta <= -180 {
		delta += 360
	}
	a := d.baseAngle + delta
	a = max(-MaxRotation, min(a, MaxRotation))
	if math.Abs(a) < snapAngle {
		a = 0
	}
	d.angle = a
	return a
}

// End finishes the interaction, reclamping the rect against the final angle
// (meaningful after a rotation drag), and returns the machine to idle.
func (d *Drag) End() Rect {
	if d.kind == DragRotate {
		d.lastValid = ReclampCrop(d.lastValid, d.imgW, d.imgH, d.angle)
	}
	d.kind = DragIdle
	return d.lastValid
}

func pointerAngle(dx, dy float64) float64 {
	return math.Atan2(dy, dx) * 180 / math.Pi
}

func resizeCandidate(r Rect, h Handle, dx, dy, aspect float64) Rect {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H
	switch h {
	case HandleN:
		y0 += dy
	case HandleS:
		y1 += dy
	case HandleW:
		x0 += dx
	case HandleE:
		x1 += dx
	case HandleNW:
		x0, y0 = x0+dx, y0+dy
	case HandleNE:
		x1, y0 = x1+dx, y0+dy
	case HandleSW:
		x0, y1 = x0+dx, y1+dy
	case HandleSE:
		x1, y1 = x1+dx, y1+dy
	}
	x0 = max(0, min(x0, x1-minCropSize))
	y0 = max(0, min(y0, y1-minCropSize))
	x1 = min(1, max(x1, x0+minCropSize))
	y1 = min(1, max(y1, y0+minCropSize))
	cand := Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	if aspect > 0 {
		cand = lockAspect(cand, r, h, aspect)
	}
	return cand
}

// lockAspect reshapes cand to the locked ratio, keeping the anchor edge
// opposite the dragged handle fixed.
func lockAspect(cand, orig Rect, h Handle, aspect float64) Rect {
	w, hgt := cand.W, cand.H
	if w/hgt > aspect {
		w = hgt * aspect
	} else {
		hgt = w / aspect
	}
	out := cand
	out.W, out.H = w, hgt
	switch h {
	case HandleNW, HandleW, HandleN:
		out.X = orig.X + orig.W - w
		out.Y = orig.Y + orig.H - hgt
	case HandleNE:
		out.X = orig.X
		out.Y = orig.Y + orig.H - hgt
	case HandleSW:
		out.X = orig.X + orig.W - w
		out.Y = orig.Y
	default:
		out.X, out.Y = orig.X, orig.Y
	}
	out.X = max(0, min(out.X, 1-out.W))
	out.Y = max(0, min(out.Y, 1-out.H))
	return out
}
