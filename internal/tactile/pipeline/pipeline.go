// Package pipeline composes the conversion stages: ingest, sanitize,
// project, extrude, assemble. Per-feature failures are dropped and
// counted; the run only fails outright when nothing at all can be built,
// and even then the caller can fall back to the built-in demo scene.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/banshee-data/tactile.map/internal/config"
	"github.com/banshee-data/tactile.map/internal/geo"
	"github.com/banshee-data/tactile.map/internal/geo/project"
	"github.com/banshee-data/tactile.map/internal/geo/sanitize"
	"github.com/banshee-data/tactile.map/internal/tactile/extrude"
	"github.com/banshee-data/tactile.map/internal/tactile/mesh"
	"github.com/banshee-data/tactile.map/internal/units"
)

// Stats aggregates per-stage counters for the run summary.
type Stats struct {
	Ingest        geo.IngestStats
	Sanitize      sanitize.Stats
	Projected     int
	ExtrudeFailed int
	Assemble      mesh.AssembleStats
	UsedFallback  bool
}

// Pipeline runs the geometry-to-mesh conversion with one tuning config.
type Pipeline struct {
	cfg    *config.TuningConfig
	logger *log.Logger
}

// New returns a pipeline using cfg for every tunable. A nil logger
// discards stage summaries.
func New(cfg *config.TuningConfig, logger *log.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// Run converts the raw records into an assembled, recentred scene. When no
// feature survives the geometry stages the built-in fallback scene is
// produced instead, so the caller always gets a printable model. Only a
// completely unbuildable fallback is an error.
func (p *Pipeline) Run(ctx context.Context, records []geo.RawRecord) (*mesh.Scene, Stats, error) {
	var stats Stats

	features, ingestStats := geo.Ingest(records)
	stats.Ingest = ingestStats
	p.logf("ingest: %d records, %d accepted, %d dropped",
		ingestStats.Records, ingestStats.Accepted,
		ingestStats.DroppedTooFew+ingestStats.DroppedNonFinite)

	planar := p.prepare(features, &stats)
	if len(planar) == 0 {
		p.logf("no usable geometry, building fallback scene")
		stats.UsedFallback = true
		planar = FallbackFeatures(p.cfg)
	}

	scene, err := p.build(ctx, planar, &stats)
	if err != nil {
		return nil, stats, err
	}

	// Losing every fragment to extrusion failures or the manifold check
	// is still not fatal; only an unbuildable fallback is.
	if len(scene.Faces) == 0 && !stats.UsedFallback {
		p.logf("no printable fragments, building fallback scene")
		stats.UsedFallback = true
		scene, err = p.build(ctx, FallbackFeatures(p.cfg), &stats)
		if err != nil {
			return nil, stats, err
		}
	}
	if len(scene.Faces) == 0 {
		return nil, stats, fmt.Errorf("assembled scene is empty: %w", geo.ErrEmptyDataset)
	}

	scene.Recenter()
	return scene, stats, nil
}

// build extrudes and assembles one batch of planar features, accumulating
// the counters into stats.
func (p *Pipeline) build(ctx context.Context, planar []geo.PlanarFeature, stats *Stats) (*mesh.Scene, error) {
	fragments, failed := p.extrudeAll(ctx, planar)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats.ExtrudeFailed += failed
	if failed > 0 {
		p.logf("extrude: %d of %d features failed and were dropped", failed, len(planar))
	}

	scene, assembleStats := mesh.Assemble(fragments, p.cfg.GetWeldTolerance())
	stats.Assemble = assembleStats
	if assembleStats.DroppedOpen > 0 {
		p.logf("assemble: %d non-watertight fragments dropped", assembleStats.DroppedOpen)
	}
	return scene, nil
}

// PlanarFeatures runs only the geometry stages (ingest, sanitize,
// project), falling back to the demo scene like Run does. Used for debug
// plotting.
func (p *Pipeline) PlanarFeatures(records []geo.RawRecord) []geo.PlanarFeature {
	features, _ := geo.Ingest(records)
	var stats Stats
	planar := p.prepare(features, &stats)
	if len(planar) == 0 {
		return FallbackFeatures(p.cfg)
	}
	return planar
}

// prepare sanitizes in geographic coordinates and projects the survivors.
// Metric tolerances are converted to degrees at the dataset's reference
// latitude; the small longitude/latitude anisotropy is below the
// tolerances themselves.
func (p *Pipeline) prepare(features []geo.Feature, stats *Stats) []geo.PlanarFeature {
	projection, err := project.ForFeatures(features)
	if err != nil {
		return nil
	}
	lat := projection.Reference[1]

	toDeg := func(meters float64) float64 {
		return units.MetersToDegreesLat(meters)
	}
	areaToDeg := func(sqMeters float64) float64 {
		return sqMeters / (units.MetersPerDegreeLat * units.MetersPerDegreeLon(lat))
	}

	clean, sanStats := sanitize.Sanitize(features, sanitize.Options{
		DedupeTolerance:  toDeg(0.01),
		BuildingSimplify: toDeg(p.cfg.GetBuildingSimplifyTolerance()),
		PathSimplify:     toDeg(p.cfg.GetPathSimplifyTolerance()),
		MinRingArea:      areaToDeg(p.cfg.GetMinBuildingArea()),
		MinPathLength:    toDeg(p.cfg.GetMinPathLength()),
	})
	stats.Sanitize = sanStats
	p.logf("sanitize: %d in, %d out (%d repaired, %d split, %d dropped)",
		len(features), len(clean), sanStats.Repaired, sanStats.Split,
		sanStats.DroppedDegenerate+sanStats.DroppedIrreparable+sanStats.DroppedSmall)

	planar := projection.Features(clean)
	stats.Projected = len(planar)
	return planar
}

// extrudeAll fans feature extrusion across workers. Results land in an
// index-addressed slice so output order never depends on scheduling.
func (p *Pipeline) extrudeAll(ctx context.Context, features []geo.PlanarFeature) ([]*mesh.Fragment, int) {
	workers := p.cfg.GetWorkers()
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(features) {
		workers = len(features)
	}

	results := make([][]*mesh.Fragment, len(features))
	failures := make([]bool, len(features))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				frags, err := p.extrudeOne(features[i])
				if err != nil {
					failures[i] = true
					continue
				}
				results[i] = frags
			}
		}()
	}

feed:
	for i := range features {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	var kept []*mesh.Fragment
	for i, frags := range results {
		if failures[i] {
			failed++
			continue
		}
		kept = append(kept, frags...)
	}
	return kept, failed
}

func (p *Pipeline) extrudeOne(f geo.PlanarFeature) ([]*mesh.Fragment, error) {
	if f.Kind == geo.KindBuilding {
		f.Height = p.resolveHeight(f.Height)
	}
	return extrude.Feature(f,
		p.cfg.GetPathWidth(),
		p.cfg.GetPathHeight(),
		p.cfg.GetMiterLimit(),
		p.cfg.GetWeldTolerance())
}

// resolveHeight applies the default for unknown heights and clamps
// attribute-derived ones into the printable range.
func (p *Pipeline) resolveHeight(h float64) float64 {
	if h <= 0 {
		return p.cfg.GetBuildingHeight()
	}
	if min := p.cfg.GetBuildingHeightMin(); h < min {
		return min
	}
	if max := p.cfg.GetBuildingHeightMax(); h > max {
		return max
	}
	return h
}
