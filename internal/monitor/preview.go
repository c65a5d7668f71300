package monitor

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/tactile.map/internal/tactile/mesh"
)

// previewMaxPoints caps the scatter payload so the page stays responsive
// on dense meshes.
const previewMaxPoints = 8000

// RenderPreview writes an interactive HTML scatter of the scene's
// vertices in plan view, coloured by height. It is a sanity check for the
// assembled model, not a slicer replacement.
func RenderPreview(w io.Writer, scene *mesh.Scene) error {
	if len(scene.Vertices) == 0 {
		return fmt.Errorf("cannot preview an empty scene")
	}

	stride := 1
	if len(scene.Vertices) > previewMaxPoints {
		stride = (len(scene.Vertices) + previewMaxPoints - 1) / previewMaxPoints
	}

	min, max := scene.Bounds()
	data := make([]opts.ScatterData, 0, len(scene.Vertices)/stride+1)
	for i := 0; i < len(scene.Vertices); i += stride {
		v := scene.Vertices[i]
		data = append(data, opts.ScatterData{Value: []interface{}{v.X, v.Y, v.Z}})
	}

	// Symmetric axes keep the plan view square.
	pad := max.X
	for _, c := range []float64{-min.X, max.Y, -min.Y} {
		if c > pad {
			pad = c
		}
	}
	pad *= 1.05
	if pad == 0 {
		pad = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Tactile map preview",
			Theme:     "dark",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Assembled scene",
			Subtitle: fmt.Sprintf("vertices=%d faces=%d stride=%d", len(scene.Vertices), len(scene.Faces), stride),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(min.Z),
			Max:        float32(max.Z),
			Dimension:  "2",
			InRange: &opts.VisualMapInRange{
				Color: []string{"#440154", "#31688e", "#35b779", "#fde725"},
			},
		}),
	)
	scatter.AddSeries("vertices", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	return nil
}

// SavePreviewHTML renders the preview to a file.
func SavePreviewHTML(path string, scene *mesh.Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	defer f.Close()
	return RenderPreview(f, scene)
}
