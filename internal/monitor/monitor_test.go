package monitor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/tactile.map/internal/geo"
	"github.com/banshee-data/tactile.map/internal/tactile/mesh"
)

func sampleFeatures() []geo.PlanarFeature {
	return []geo.PlanarFeature{
		{
			Kind:  geo.KindBuilding,
			Ring:  orb.Ring{{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0}},
			Holes: []orb.Ring{{{5, 5}, {5, 10}, {10, 10}, {10, 5}, {5, 5}}},
		},
		{
			Kind: geo.KindWalkway,
			Line: orb.LineString{{-10, 10}, {30, 10}},
		},
	}
}

func sampleScene() *mesh.Scene {
	frag := mesh.NewFragment(0)
	frag.AddTriangle(r3.Vec{}, r3.Vec{Y: 2}, r3.Vec{X: 2})
	frag.AddTriangle(r3.Vec{}, r3.Vec{X: 2}, r3.Vec{Z: 2})
	frag.AddTriangle(r3.Vec{}, r3.Vec{Z: 2}, r3.Vec{Y: 2})
	frag.AddTriangle(r3.Vec{X: 2}, r3.Vec{Y: 2}, r3.Vec{Z: 2})
	scene, _ := mesh.Assemble([]*mesh.Fragment{frag}, 0)
	return scene
}

func TestSavePlanPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.png")
	if err := SavePlanPNG(path, sampleFeatures()); err != nil {
		t.Fatalf("SavePlanPNG failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file empty")
	}
}

func TestSavePlanPNGEmptyFeatureList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := SavePlanPNG(path, nil); err != nil {
		t.Fatalf("SavePlanPNG with no features failed: %v", err)
	}
}

func TestRenderPreview(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPreview(&buf, sampleScene()); err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "echarts") {
		t.Error("preview does not embed a chart")
	}
	if !strings.Contains(html, "Assembled scene") {
		t.Error("preview missing its title")
	}
}

func TestRenderPreviewEmptyScene(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPreview(&buf, &mesh.Scene{}); err == nil {
		t.Error("expected an error for an empty scene")
	}
}

func TestSavePreviewHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.html")
	if err := SavePreviewHTML(path, sampleScene()); err != nil {
		t.Fatalf("SavePreviewHTML failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("preview file missing: %v", err)
	}
	if len(data) == 0 {
		t.Error("preview file empty")
	}
}
