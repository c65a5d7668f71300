package pipeline

import (
	"github.com/paulmach/orb"

	"github.com/banshee-data/tactile.map/internal/config"
	"github.com/banshee-data/tactile.map/internal/geo"
)

// Fallback scene dimensions in metres. A 20 m square block with a
// diagonal walkway crossing it, enough to verify the whole toolchain and
// the printer without any input data.
const (
	fallbackBlockSize = 20.0
	fallbackPathInset = 5.0
)

// FallbackFeatures returns the built-in demo scene, already in the planar
// metric frame. The building height comes from the config default.
func FallbackFeatures(cfg *config.TuningConfig) []geo.PlanarFeature {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	s := fallbackBlockSize
	i := fallbackPathInset
	return []geo.PlanarFeature{
		{
			Kind:   geo.KindBuilding,
			Ring:   orb.Ring{{0, 0}, {s, 0}, {s, s}, {0, s}, {0, 0}},
			Height: cfg.GetBuildingHeight(),
		},
		{
			Kind: geo.KindWalkway,
			Line: orb.LineString{{i, i}, {s - i, s - i}},
		},
	}
}
