// Command stl-info prints a summary of a binary STL file: triangle and
// vertex counts, bounding box, surface area, volume, and whether the mesh
// is watertight. Useful for checking an export before sending it to a
// slicer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/tactile.map/internal/fsutil"
	"github.com/banshee-data/tactile.map/internal/stl"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <file.stl> [file.stl ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	fsys := fsutil.OSFileSystem{}
	exit := 0
	for _, path := range flag.Args() {
		if err := printInfo(os.Stdout, fsys, path); err != nil {
			log.Printf("%s: %v", path, err)
			exit = 1
		}
	}
	os.Exit(exit)
}

func printInfo(w *os.File, fsys fsutil.FileSystem, path string) error {
	scene, err := stl.ReadFile(fsys, path)
	if err != nil {
		return err
	}

	min, max := scene.Bounds()
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  triangles:    %d\n", len(scene.Faces))
	fmt.Fprintf(w, "  vertices:     %d\n", len(scene.Vertices))
	fmt.Fprintf(w, "  bounds:       [%.3f %.3f %.3f] to [%.3f %.3f %.3f]\n",
		min.X, min.Y, min.Z, max.X, max.Y, max.Z)
	fmt.Fprintf(w, "  extents:      %.3f x %.3f x %.3f\n",
		max.X-min.X, max.Y-min.Y, max.Z-min.Z)
	fmt.Fprintf(w, "  surface area: %.3f\n", scene.SurfaceArea())
	fmt.Fprintf(w, "  volume:       %.3f\n", scene.Volume())
	fmt.Fprintf(w, "  watertight:   %v\n", scene.IsClosed())
	return nil
}
