// Package monitor renders debug views of a conversion run: a PNG plan of
// the projected features and an interactive HTML preview of the mesh.
// Neither affects the exported model; both exist to answer "what did the
// pipeline actually see" without opening a slicer.
package monitor

import (
	"fmt"
	"image/color"

	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/tactile.map/internal/geo"
)

var (
	buildingColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	holeColor     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	walkwayColor  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// SavePlanPNG draws the planar features in plan view and writes a PNG.
// Building outlines are blue, holes red, walkways green.
func SavePlanPNG(path string, features []geo.PlanarFeature) error {
	p := plot.New()
	p.Title.Text = "Projected features (plan view)"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	haveBuilding, haveWalkway := false, false
	for _, f := range features {
		switch f.Kind {
		case geo.KindBuilding:
			line, err := ringLine(f.Ring, buildingColor)
			if err != nil {
				return err
			}
			p.Add(line)
			if !haveBuilding {
				p.Legend.Add("building", line)
				haveBuilding = true
			}
			for _, h := range f.Holes {
				hl, err := ringLine(h, holeColor)
				if err != nil {
					return err
				}
				p.Add(hl)
			}
		case geo.KindWalkway:
			line, err := lineStringLine(f, walkwayColor)
			if err != nil {
				return err
			}
			p.Add(line)
			if !haveWalkway {
				p.Legend.Add("walkway", line)
				haveWalkway = true
			}
		}
	}

	p.Legend.Top = true
	if err := p.Save(10*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plan plot: %w", err)
	}
	return nil
}

func ringLine(r orb.Ring, c color.Color) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(r))
	for i, p := range r {
		pts[i] = plotter.XY{X: p[0], Y: p[1]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build outline: %w", err)
	}
	line.Color = c
	line.Width = vg.Points(1)
	return line, nil
}

func lineStringLine(f geo.PlanarFeature, c color.Color) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(f.Line))
	for i, p := range f.Line {
		pts[i] = plotter.XY{X: p[0], Y: p[1]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build centreline: %w", err)
	}
	line.Color = c
	line.Width = vg.Points(2)
	return line, nil
}
