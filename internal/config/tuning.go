package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig represents the root configuration for model tuning
// parameters. All fields are optional; fields omitted from the JSON file
// fall back to the defaults returned by the Get* accessors, so partial
// configs are safe. All linear dimensions are metres in model space.
type TuningConfig struct {
	// Extrusion params
	BuildingHeight    *float64 `json:"building_height,omitempty"`
	BuildingHeightMin *float64 `json:"building_height_min,omitempty"`
	BuildingHeightMax *float64 `json:"building_height_max,omitempty"`
	LevelHeight       *float64 `json:"level_height,omitempty"`
	PathWidth         *float64 `json:"path_width,omitempty"`
	PathHeight        *float64 `json:"path_height,omitempty"`
	MiterLimit        *float64 `json:"miter_limit,omitempty"`

	// Sanitizer params
	BuildingSimplifyTolerance *float64 `json:"building_simplify_tolerance,omitempty"`
	PathSimplifyTolerance     *float64 `json:"path_simplify_tolerance,omitempty"`
	MinBuildingArea           *float64 `json:"min_building_area,omitempty"`
	MinPathLength             *float64 `json:"min_path_length,omitempty"`

	// Assembler params
	WeldTolerance *float64 `json:"weld_tolerance,omitempty"`

	// Extrusion fan-out; 0 means one worker per CPU
	Workers *int `json:"workers,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Every accessor then returns its built-in default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file is
// validated to ensure it has a .json extension and is under the max file
// size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	positives := []struct {
		name  string
		value *float64
	}{
		{"building_height", c.BuildingHeight},
		{"building_height_min", c.BuildingHeightMin},
		{"building_height_max", c.BuildingHeightMax},
		{"level_height", c.LevelHeight},
		{"path_width", c.PathWidth},
		{"path_height", c.PathHeight},
		{"weld_tolerance", c.WeldTolerance},
	}
	for _, p := range positives {
		if p.value != nil && *p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %f", p.name, *p.value)
		}
	}

	nonNegatives := []struct {
		name  string
		value *float64
	}{
		{"building_simplify_tolerance", c.BuildingSimplifyTolerance},
		{"path_simplify_tolerance", c.PathSimplifyTolerance},
		{"min_building_area", c.MinBuildingArea},
		{"min_path_length", c.MinPathLength},
	}
	for _, p := range nonNegatives {
		if p.value != nil && *p.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", p.name, *p.value)
		}
	}

	if c.BuildingHeightMin != nil && c.BuildingHeightMax != nil && *c.BuildingHeightMin > *c.BuildingHeightMax {
		return fmt.Errorf("building_height_min (%f) exceeds building_height_max (%f)",
			*c.BuildingHeightMin, *c.BuildingHeightMax)
	}

	if c.MiterLimit != nil && *c.MiterLimit < 1 {
		return fmt.Errorf("miter_limit must be at least 1, got %f", *c.MiterLimit)
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	return nil
}

// GetBuildingHeight returns the default extrusion height for footprints
// with no usable height attribute.
func (c *TuningConfig) GetBuildingHeight() float64 {
	if c.BuildingHeight == nil {
		return 10.0
	}
	return *c.BuildingHeight
}

// GetBuildingHeightMin returns the lower clamp for attribute-derived heights.
func (c *TuningConfig) GetBuildingHeightMin() float64 {
	if c.BuildingHeightMin == nil {
		return 2.0
	}
	return *c.BuildingHeightMin
}

// GetBuildingHeightMax returns the upper clamp for attribute-derived heights.
func (c *TuningConfig) GetBuildingHeightMax() float64 {
	if c.BuildingHeightMax == nil {
		return 150.0
	}
	return *c.BuildingHeightMax
}

// GetLevelHeight returns the metres assumed per building level when only a
// level count attribute is present.
func (c *TuningConfig) GetLevelHeight() float64 {
	if c.LevelHeight == nil {
		return 3.0
	}
	return *c.LevelHeight
}

// GetPathWidth returns the full ribbon width for walkways.
func (c *TuningConfig) GetPathWidth() float64 {
	if c.PathWidth == nil {
		return 1.0
	}
	return *c.PathWidth
}

// GetPathHeight returns the extrusion height for walkway ribbons. Kept well
// below building height so paths stay tactilely distinguishable.
func (c *TuningConfig) GetPathHeight() float64 {
	if c.PathHeight == nil {
		return 0.3
	}
	return *c.PathHeight
}

// GetMiterLimit returns the ratio above which ribbon miter joins fall back
// to bevels.
func (c *TuningConfig) GetMiterLimit() float64 {
	if c.MiterLimit == nil {
		return 4.0
	}
	return *c.MiterLimit
}

// GetBuildingSimplifyTolerance returns the Douglas-Peucker tolerance for
// footprint rings.
func (c *TuningConfig) GetBuildingSimplifyTolerance() float64 {
	if c.BuildingSimplifyTolerance == nil {
		return 2.0
	}
	return *c.BuildingSimplifyTolerance
}

// GetPathSimplifyTolerance returns the Douglas-Peucker tolerance for
// walkway centerlines.
func (c *TuningConfig) GetPathSimplifyTolerance() float64 {
	if c.PathSimplifyTolerance == nil {
		return 1.0
	}
	return *c.PathSimplifyTolerance
}

// GetMinBuildingArea returns the smallest footprint area kept after repair.
func (c *TuningConfig) GetMinBuildingArea() float64 {
	if c.MinBuildingArea == nil {
		return 1.0
	}
	return *c.MinBuildingArea
}

// GetMinPathLength returns the shortest walkway kept after repair.
func (c *TuningConfig) GetMinPathLength() float64 {
	if c.MinPathLength == nil {
		return 1.0
	}
	return *c.MinPathLength
}

// GetWeldTolerance returns the vertex weld distance used by the assembler.
func (c *TuningConfig) GetWeldTolerance() float64 {
	if c.WeldTolerance == nil {
		return 0.0005
	}
	return *c.WeldTolerance
}

// GetWorkers returns the extrusion worker count; 0 means one per CPU.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}
