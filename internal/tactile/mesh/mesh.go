// Package mesh holds the triangle-mesh model for the solid pipeline.
//
// Extrusion produces one Fragment per feature. Assemble welds the
// fragments into a single Scene after checking each one is a closed
// manifold; a fragment that fails the check is dropped and counted rather
// than poisoning the print.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultWeldTolerance is the vertex weld radius in metres. Half a
// millimetre is far below any printable nozzle width.
const DefaultWeldTolerance = 0.0005

// Fragment is the watertight solid built from one feature. Vertices are
// deduplicated on insertion so shared corners produce shared indices.
type Fragment struct {
	verts []r3.Vec
	faces [][3]int

	index map[[3]int64]int
	tol   float64
}

// NewFragment returns an empty fragment welding vertices within tol.
// A non-positive tol falls back to DefaultWeldTolerance.
func NewFragment(tol float64) *Fragment {
	if tol <= 0 {
		tol = DefaultWeldTolerance
	}
	return &Fragment{
		index: make(map[[3]int64]int),
		tol:   tol,
	}
}

func quantize(v r3.Vec, tol float64) [3]int64 {
	return [3]int64{
		int64(math.Round(v.X / tol)),
		int64(math.Round(v.Y / tol)),
		int64(math.Round(v.Z / tol)),
	}
}

// AddVertex inserts v, or returns the index of an existing vertex within
// the weld tolerance.
func (f *Fragment) AddVertex(v r3.Vec) int {
	key := quantize(v, f.tol)
	if i, ok := f.index[key]; ok {
		return i
	}
	i := len(f.verts)
	f.verts = append(f.verts, v)
	f.index[key] = i
	return i
}

// AddTriangle appends the face (a, b, c) with counter-clockwise winding
// seen from outside. Triangles that collapse under welding are ignored.
func (f *Fragment) AddTriangle(a, b, c r3.Vec) {
	ia, ib, ic := f.AddVertex(a), f.AddVertex(b), f.AddVertex(c)
	if ia == ib || ib == ic || ic == ia {
		return
	}
	f.faces = append(f.faces, [3]int{ia, ib, ic})
}

// VertexCount returns the number of welded vertices.
func (f *Fragment) VertexCount() int { return len(f.verts) }

// FaceCount returns the number of triangles.
func (f *Fragment) FaceCount() int { return len(f.faces) }

// IsClosed reports whether the fragment is a closed orientable manifold:
// every undirected edge is shared by exactly two faces, traversed once in
// each direction.
func (f *Fragment) IsClosed() bool {
	if len(f.faces) < 4 {
		return false
	}
	type edge struct{ a, b int }
	counts := make(map[edge]int, len(f.faces)*3)
	for _, face := range f.faces {
		for k := 0; k < 3; k++ {
			counts[edge{face[k], face[(k+1)%3]}]++
		}
	}
	for e, n := range counts {
		if n != 1 || counts[edge{e.b, e.a}] != 1 {
			return false
		}
	}
	return true
}

// Volume returns the enclosed volume via the divergence theorem. Only
// meaningful for closed fragments; a negative result means the winding is
// inverted.
func (f *Fragment) Volume() float64 {
	var v float64
	for _, face := range f.faces {
		a, b, c := f.verts[face[0]], f.verts[face[1]], f.verts[face[2]]
		v += r3.Dot(a, r3.Cross(b, c))
	}
	return v / 6
}

// SurfaceArea returns the total triangle area.
func (f *Fragment) SurfaceArea() float64 {
	var s float64
	for _, face := range f.faces {
		a, b, c := f.verts[face[0]], f.verts[face[1]], f.verts[face[2]]
		s += r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
	}
	return s
}

// Scene is the assembled print model: all surviving fragments welded into
// one vertex and face pool.
type Scene struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// AssembleStats counts what assembly kept and dropped.
type AssembleStats struct {
	Fragments    int
	DroppedOpen  int // fragments that failed the closed-manifold check
	DroppedEmpty int // fragments with no faces at all
}

// Assemble welds the fragments into one Scene, dropping any fragment that
// is empty or not a closed manifold. Fragment order is preserved so the
// output is deterministic for a given input ordering.
func Assemble(fragments []*Fragment, tol float64) (*Scene, AssembleStats) {
	if tol <= 0 {
		tol = DefaultWeldTolerance
	}
	var stats AssembleStats

	scene := &Scene{}
	index := make(map[[3]int64]int)
	for _, frag := range fragments {
		if frag == nil || frag.FaceCount() == 0 {
			stats.DroppedEmpty++
			continue
		}
		if !frag.IsClosed() {
			stats.DroppedOpen++
			continue
		}
		stats.Fragments++

		remap := make([]int, len(frag.verts))
		for i, v := range frag.verts {
			key := quantize(v, tol)
			j, ok := index[key]
			if !ok {
				j = len(scene.Vertices)
				scene.Vertices = append(scene.Vertices, v)
				index[key] = j
			}
			remap[i] = j
		}
		for _, face := range frag.faces {
			a, b, c := remap[face[0]], remap[face[1]], remap[face[2]]
			if a == b || b == c || c == a {
				continue
			}
			scene.Faces = append(scene.Faces, [3]int{a, b, c})
		}
	}
	return scene, stats
}

// Triangle returns the three corner positions of face i.
func (s *Scene) Triangle(i int) (a, b, c r3.Vec) {
	face := s.Faces[i]
	return s.Vertices[face[0]], s.Vertices[face[1]], s.Vertices[face[2]]
}

// Translate shifts every vertex by delta in place.
func (s *Scene) Translate(delta r3.Vec) {
	for i := range s.Vertices {
		s.Vertices[i] = r3.Add(s.Vertices[i], delta)
	}
}

// Centroid returns the area-weighted centroid of the scene surface.
func (s *Scene) Centroid() r3.Vec {
	var sum r3.Vec
	var total float64
	for i := range s.Faces {
		a, b, c := s.Triangle(i)
		area := r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
		center := r3.Scale(1.0/3.0, r3.Add(a, r3.Add(b, c)))
		sum = r3.Add(sum, r3.Scale(area, center))
		total += area
	}
	if total == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/total, sum)
}

// Bounds returns the axis-aligned bounding box. Zero vectors for an empty
// scene.
func (s *Scene) Bounds() (min, max r3.Vec) {
	if len(s.Vertices) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min, max = s.Vertices[0], s.Vertices[0]
	for _, v := range s.Vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// Recenter moves the scene so its XY centroid sits at the origin and its
// lowest point rests on the Z = 0 plane.
func (s *Scene) Recenter() {
	if len(s.Vertices) == 0 {
		return
	}
	c := s.Centroid()
	min, _ := s.Bounds()
	s.Translate(r3.Vec{X: -c.X, Y: -c.Y, Z: -min.Z})
}

// Volume returns the enclosed volume of the assembled scene.
func (s *Scene) Volume() float64 {
	var v float64
	for i := range s.Faces {
		a, b, c := s.Triangle(i)
		v += r3.Dot(a, r3.Cross(b, c))
	}
	return v / 6
}

// SurfaceArea returns the total triangle area of the scene.
func (s *Scene) SurfaceArea() float64 {
	var sum float64
	for i := range s.Faces {
		a, b, c := s.Triangle(i)
		sum += r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
	}
	return sum
}

// IsClosed reports whether the assembled scene is watertight under the
// same edge test fragments use.
func (s *Scene) IsClosed() bool {
	if len(s.Faces) < 4 {
		return false
	}
	type edge struct{ a, b int }
	counts := make(map[edge]int, len(s.Faces)*3)
	for _, face := range s.Faces {
		for k := 0; k < 3; k++ {
			counts[edge{face[k], face[(k+1)%3]}]++
		}
	}
	for e, n := range counts {
		if n != 1 || counts[edge{e.b, e.a}] != 1 {
			return false
		}
	}
	return true
}
