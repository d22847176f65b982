package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragLifecycle(t *testing.T) {
	d := NewDrag(3000, 2000)
	assert.Equal(t, DragIdle, d.Kind())

	r := Rect{0.3, 0.3, 0.3, 0.3}
	d.BeginMove(r, 0)
	assert.Equal(t, DragMove, d.Kind())
	d.End()
	assert.Equal(t, DragIdle, d.Kind())
}

func TestMoveStaysInBounds(t *testing.T) {
	d := NewDrag(3000, 2000)
	r := Rect{0.3, 0.3, 0.3, 0.3}
	d.BeginMove(r, 0)
	got := d.MoveTo(10, 10) // far past the edge
	assert.InDelta(t, 0.7, got.X, 1e-9)
	assert.InDelta(t, 0.7, got.Y, 1e-9)
	assert.Equal(t, r.W, got.W)
}

func TestMoveClampedAgainstRotation(t *testing.T) {
	const angle = 20.0
	d := NewDrag(3000, 2000)
	start := SafeRect(3000, 2000, angle, 1)
	d.BeginMove(start, angle)
	// Drag hard toward the top-left: every committed rect must stay valid.
	for i := 1; i <= 20; i++ {
		got := d.MoveTo(-0.02*float64(i), -0.02*float64(i))
		require.True(t, IsRectValid(got, 3000, 2000, angle), "step %d produced %+v", i, got)
	}
	final := d.End()
	assert.True(t, IsRectValid(final, 3000, 2000, angle))
}

func TestResizeHandles(t *testing.T) {
	d := NewDrag(1000, 1000)
	r := Rect{0.25, 0.25, 0.5, 0.5}

	d.BeginResize(r, HandleSE, 0, 0)
	got := d.ResizeTo(0.1, 0.2)
	assert.InDelta(t, 0.6, got.W, 1e-9)
	assert.InDelta(t, 0.7, got.H, 1e-9)
	d.End()

	d.BeginResize(r, HandleNW, 0, 0)
	got = d.ResizeTo(0.1, 0.1)
	assert.InDelta(t, 0.35, got.X, 1e-9)
	assert.InDelta(t, 0.4, got.W, 1e-9)
	d.End()
}

func TestResizeRespectsMinimumSize(t *testing.T) {
	d := NewDrag(1000, 1000)
	d.BeginResize(Rect{0.25, 0.25, 0.5, 0.5}, HandleE, 0, 0)
	got := d.ResizeTo(-5, 0)
	assert.GreaterOrEqual(t, got.W, minCropSize-1e-12)
}

func TestResizeWithLockedAspect(t *testing.T) {
	d := NewDrag(1000, 1000)
	d.BeginResize(Rect{0.2, 0.2, 0.4, 0.4}, HandleSE, 0, 2)
	got := d.ResizeTo(0.2, 0.2)
	assert.InDelta(t, 2, got.W/got.H, 1e-9)
	// Anchor corner (NW) stays put.
	assert.InDelta(t, 0.2, got.X, 1e-9)
	assert.InDelta(t, 0.2, got.Y, 1e-9)
}

func TestRotateClampAndSnap(t *testing.T) {
	d := NewDrag(1000, 1000)
	r := Rect{0.25, 0.25, 0.5, 0.5}
	// Pointer starts due east of the center.
	d.BeginRotate(r, 0, 0.9, 0.5)

	// Tiny wiggle snaps back to zero.
	a := d.RotateTo(0.9, 0.503)
	assert.Zero(t, a)

	// A quarter-turn clamps at the rotation limit.
	a = d.RotateTo(0.5, 0.9)
	assert.Equal(t, MaxRotation, a)
	a = d.RotateTo(0.5, 0.1)
	assert.Equal(t, -MaxRotation, a)
}

func TestRotateEndReclampsRect(t *testing.T) {
	d := NewDrag(3000, 2000)
	d.BeginRotate(Full, 0, 1, 0.5)
	d.RotateTo(0.8, 0.8)
	final := d.End()
	assert.True(t, IsRectValid(final, 3000, 2000, d.Angle()))
	assert.Equal(t, DragIdle, d.Kind())
}

func TestIgnoredWhenIdle(t *testing.T) {
	d := NewDrag(1000, 1000)
	assert.Equal(t, Rect{}, d.MoveTo(0.1, 0.1))
	assert.Equal(t, Rect{}, d.ResizeTo(0.1, 0.1))
	assert.Zero(t, d.RotateTo(0.5, 0.5))
}
