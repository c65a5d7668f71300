package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if got := cfg.GetBuildingHeight(); got != 10.0 {
		t.Errorf("GetBuildingHeight() = %f, want 10.0", got)
	}
	if got := cfg.GetPathWidth(); got != 1.0 {
		t.Errorf("GetPathWidth() = %f, want 1.0", got)
	}
	if got := cfg.GetPathHeight(); got != 0.3 {
		t.Errorf("GetPathHeight() = %f, want 0.3", got)
	}
	if got := cfg.GetBuildingSimplifyTolerance(); got != 2.0 {
		t.Errorf("GetBuildingSimplifyTolerance() = %f, want 2.0", got)
	}
	if got := cfg.GetPathSimplifyTolerance(); got != 1.0 {
		t.Errorf("GetPathSimplifyTolerance() = %f, want 1.0", got)
	}
	if got := cfg.GetWeldTolerance(); got != 0.0005 {
		t.Errorf("GetWeldTolerance() = %f, want 0.0005", got)
	}
	if got := cfg.GetMiterLimit(); got != 4.0 {
		t.Errorf("GetMiterLimit() = %f, want 4.0", got)
	}
	if got := cfg.GetWorkers(); got != 0 {
		t.Errorf("GetWorkers() = %d, want 0", got)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	data := `{"building_height": 12.5, "path_width": 2.0}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}

	if got := cfg.GetBuildingHeight(); got != 12.5 {
		t.Errorf("GetBuildingHeight() = %f, want 12.5", got)
	}
	if got := cfg.GetPathWidth(); got != 2.0 {
		t.Errorf("GetPathWidth() = %f, want 2.0", got)
	}
	// Omitted fields keep defaults
	if got := cfg.GetPathHeight(); got != 0.3 {
		t.Errorf("GetPathHeight() = %f, want default 0.3", got)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadTuningConfig(path); err == nil {
		t.Error("expected error for non-.json extension, got nil")
	}
}

func TestValidate(t *testing.T) {
	neg := -1.0
	zero := 0.0
	small := 0.5
	lo, hi := 50.0, 5.0

	tests := []struct {
		name    string
		cfg     TuningConfig
		wantErr bool
	}{
		{"empty is valid", TuningConfig{}, false},
		{"negative building height", TuningConfig{BuildingHeight: &neg}, true},
		{"zero path width", TuningConfig{PathWidth: &zero}, true},
		{"negative simplify tolerance", TuningConfig{PathSimplifyTolerance: &neg}, true},
		{"zero simplify tolerance ok", TuningConfig{PathSimplifyTolerance: &zero}, false},
		{"miter limit below one", TuningConfig{MiterLimit: &small}, true},
		{"inverted height clamp", TuningConfig{BuildingHeightMin: &lo, BuildingHeightMax: &hi}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
