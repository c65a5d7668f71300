// Command tactile-map converts 2D geographic features (building
// footprints and walkway centerlines) into a watertight binary STL ready
// for 3D printing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/tactile.map/internal/config"
	"github.com/banshee-data/tactile.map/internal/fsutil"
	"github.com/banshee-data/tactile.map/internal/geo"
	"github.com/banshee-data/tactile.map/internal/monitor"
	"github.com/banshee-data/tactile.map/internal/runlog"
	"github.com/banshee-data/tactile.map/internal/stl"
	"github.com/banshee-data/tactile.map/internal/tactile/pipeline"
)

var (
	inputPath   = flag.String("input", "", "GeoJSON input file (empty: build the demo scene)")
	outputPath  = flag.String("output", "map.stl", "Binary STL output file")
	configPath  = flag.String("config", "", "Optional tuning config (JSON)")
	planPath    = flag.String("plot", "", "Optional plan-view PNG of the projected features")
	previewPath = flag.String("preview", "", "Optional interactive HTML preview of the mesh")
	runlogPath  = flag.String("runlog", "", "Optional SQLite run-history database")
	workers     = flag.Int("workers", 0, "Extrusion workers (0: one per CPU, overrides config)")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("conversion failed: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if *workers > 0 {
		cfg.Workers = workers
	}

	fsys := fsutil.OSFileSystem{}

	var records []geo.RawRecord
	if *inputPath != "" {
		data, err := fsys.ReadFile(*inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		records, err = geo.ReadGeoJSON(data, geo.HeightDefaults{LevelHeight: cfg.GetLevelHeight()})
		if err != nil {
			return fmt.Errorf("failed to parse input: %w", err)
		}
		log.Printf("loaded %d records from %s", len(records), *inputPath)
	} else {
		log.Print("no input given, building the demo scene")
	}

	started := time.Now()
	p := pipeline.New(cfg, log.Default())
	scene, stats, err := p.Run(ctx, records)
	if err != nil {
		return err
	}
	finished := time.Now()

	if err := stl.WriteFile(fsys, *outputPath, scene, "tactile map "+started.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	min, max := scene.Bounds()
	log.Printf("wrote %s: %d vertices, %d triangles, extents %.1f x %.1f x %.1f m, volume %.1f m3",
		*outputPath, len(scene.Vertices), len(scene.Faces),
		max.X-min.X, max.Y-min.Y, max.Z-min.Z, scene.Volume())
	if stats.UsedFallback {
		log.Print("note: output is the built-in fallback scene")
	}

	if *planPath != "" {
		if err := monitor.SavePlanPNG(*planPath, p.PlanarFeatures(records)); err != nil {
			log.Printf("plan plot failed: %v", err)
		} else {
			log.Printf("wrote plan view to %s", *planPath)
		}
	}
	if *previewPath != "" {
		if err := monitor.SavePreviewHTML(*previewPath, scene); err != nil {
			log.Printf("preview failed: %v", err)
		} else {
			log.Printf("wrote preview to %s", *previewPath)
		}
	}

	if *runlogPath != "" {
		if err := recordRun(stats, scene.Volume(), len(scene.Faces), started, finished); err != nil {
			log.Printf("run log failed: %v", err)
		}
	}
	return nil
}

func recordRun(stats pipeline.Stats, volume float64, triangles int, started, finished time.Time) error {
	db, err := runlog.Open(*runlogPath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.RecordRun(runlog.Run{
		StartedAt:    started,
		FinishedAt:   finished,
		InputPath:    *inputPath,
		OutputPath:   *outputPath,
		Features:     stats.Projected,
		Triangles:    triangles,
		Volume:       volume,
		UsedFallback: stats.UsedFallback,
	})
	if err != nil {
		return err
	}
	log.Printf("recorded run %s in %s", id, *runlogPath)
	return nil
}
