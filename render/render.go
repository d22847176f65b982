package render

import (
	"fmt"

	filmgallery "github.com/JunlongH/FilmGallery-sub001"
	"github.com/JunlongH/FilmGallery-sub001/params"
)

var _ = fmt.Print

// Engine renders one geometry-resolved raster under a precomputed Context.
type Engine interface {
	Name() string
	Render(src *filmgallery.Raster, ctx *Context) (*filmgallery.Raster, error)
}

// Renderer ties the full frame together: geometry first (orientation,
// rotation, crop, shared by both backends), then color through Primary,
// falling back to Fallback for the frame when Primary fails.
type Renderer struct {
	Primary  Engine
	Fallback Engine
}

// NewRenderer returns the default pairing: parallel primary, scalar fallback.
func NewRenderer() *Renderer {
	return &Renderer{Primary: Parallel{}, Fallback: Scalar{}}
}

// Render resolves geometry once and runs the color pipeline on the result.
func (r *Renderer) Render(src *filmgallery.Raster, p params.RenderParams) (*filmgallery.Raster, error) {
	if src == nil {
		return nil, fmt.Errorf("render: nil source raster")
	}
	ctx := NewContext(p)
	geo := filmgallery.ApplyGeometry(src, ctx.Params.Rotation, ctx.Params.Orientation, ctx.Params.Crop)
	return r.RenderResolved(geo, ctx)
}

// RenderResolved runs only the color pipeline, for callers that have already
// applied geometry (or are re-rendering under new color params with geometry
// unchanged).
func (r *Renderer) RenderResolved(src *filmgallery.Raster, ctx *Context) (*filmgallery.Raster, error) {
	primary := r.Primary
	if primary == nil {
		primary = Parallel{}
	}
	out, err := primary.Render(src, ctx)
	if err == nil {
		return out, nil
	}
	fallback := r.Fallback
	if fallback == nil {
		fallback = Scalar{}
	}
	out, ferr := fallback.Render(src, ctx)
	if ferr != nil {
		return nil, fmt.Errorf("%s backend failed after %s backend: %w", fallback.Name(), primary.Name(), ferr)
	}
	return out, nil
}
