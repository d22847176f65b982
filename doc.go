/*
Package filmgallery converts raw film scans into graded positive images
through a configurable, physically motivated pipeline: inversion, white
balance, tone, curves, hue-band adjustments, split toning and 3-D look-up
tables, with crop/rotation that never exposes area outside the source frame.

The root package provides the working raster type, scan decoding with
automatic EXIF orientation, the geometry transform and histograms; the color
pipeline itself lives in the render subpackage.
*/
package filmgallery

import "fmt"

type EngineVersion struct {
	Major, Minor, Patch uint
}

func (v EngineVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v EngineVersion) Equal(o EngineVersion) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

func (v EngineVersion) After(o EngineVersion) bool {
	switch {
	case v.Major == o.Major:
		switch {
		case v.Minor == o.Minor:
			return v.Patch > o.Patch
		case v.Minor > o.Minor:
			return true
		case v.Minor < o.Minor:
			return false
		}
	case v.Major > o.Major:
		return true
	case v.Major < o.Major:
		return false
	}
	return false
}

func (v EngineVersion) Before(o EngineVersion) bool {
	return !v.Equal(o) && !v.After(o)
}

var Version = EngineVersion{0, 9, 0}
