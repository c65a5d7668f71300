// Package stl encodes and decodes binary STL, the exchange format slicers
// consume. Only the binary layout is supported: an 80-byte header, a
// little-endian uint32 triangle count, then 50 bytes per triangle (normal,
// three vertices, attribute word).
package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/tactile.map/internal/fsutil"
	"github.com/banshee-data/tactile.map/internal/tactile/mesh"
)

const (
	headerSize   = 80
	triangleSize = 50
)

// ErrMalformed reports a byte stream that is not valid binary STL.
var ErrMalformed = errors.New("malformed binary stl")

// Marshal serializes the scene. The header text is truncated to 80 bytes;
// face normals are recomputed from the vertex winding with the right-hand
// rule.
func Marshal(scene *mesh.Scene, header string) []byte {
	var buf bytes.Buffer
	buf.Grow(headerSize + 4 + triangleSize*len(scene.Faces))

	var hdr [headerSize]byte
	copy(hdr[:], header)
	buf.Write(hdr[:])

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(scene.Faces)))
	buf.Write(u32[:])

	var tri [triangleSize]byte
	for i := range scene.Faces {
		a, b, c := scene.Triangle(i)
		n := faceNormal(a, b, c)
		putVec(tri[0:], n)
		putVec(tri[12:], a)
		putVec(tri[24:], b)
		putVec(tri[36:], c)
		tri[48], tri[49] = 0, 0
		buf.Write(tri[:])
	}
	return buf.Bytes()
}

// Unmarshal parses binary STL into a scene, welding shared vertices so
// downstream checks see connectivity rather than a triangle soup.
func Unmarshal(data []byte) (*mesh.Scene, error) {
	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the fixed prelude", ErrMalformed, len(data))
	}
	count := binary.LittleEndian.Uint32(data[headerSize:])
	want := headerSize + 4 + int(count)*triangleSize
	if len(data) != want {
		return nil, fmt.Errorf("%w: %d triangles need %d bytes, have %d", ErrMalformed, count, want, len(data))
	}

	scene := &mesh.Scene{}
	index := make(map[[3]float32]int, count*2)
	addVertex := func(off int) (int, error) {
		var key [3]float32
		var v r3.Vec
		key[0] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		key[1] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:]))
		key[2] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:]))
		v = r3.Vec{X: float64(key[0]), Y: float64(key[1]), Z: float64(key[2])}
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
			return 0, fmt.Errorf("%w: NaN vertex", ErrMalformed)
		}
		if i, ok := index[key]; ok {
			return i, nil
		}
		i := len(scene.Vertices)
		scene.Vertices = append(scene.Vertices, v)
		index[key] = i
		return i, nil
	}

	for t := 0; t < int(count); t++ {
		off := headerSize + 4 + t*triangleSize
		// Stored normals are ignored; windings are authoritative.
		a, err := addVertex(off + 12)
		if err != nil {
			return nil, err
		}
		b, err := addVertex(off + 24)
		if err != nil {
			return nil, err
		}
		c, err := addVertex(off + 36)
		if err != nil {
			return nil, err
		}
		if a == b || b == c || c == a {
			continue
		}
		scene.Faces = append(scene.Faces, [3]int{a, b, c})
	}
	return scene, nil
}

// WriteFile marshals the scene and writes it atomically, so an export
// interrupted mid-write never leaves a truncated model behind.
func WriteFile(fsys fsutil.FileSystem, path string, scene *mesh.Scene, header string) error {
	data := Marshal(scene, header)
	if err := fsutil.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to export stl to %s: %w", path, err)
	}
	return nil
}

// ReadFile reads and parses a binary STL file.
func ReadFile(fsys fsutil.FileSystem, path string) (*mesh.Scene, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stl %s: %w", path, err)
	}
	return Unmarshal(data)
}

func faceNormal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

func putVec(dst []byte, v r3.Vec) {
	binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(float32(v.Z)))
}
