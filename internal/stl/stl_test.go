package stl

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/tactile.map/internal/fsutil"
	"github.com/banshee-data/tactile.map/internal/tactile/mesh"
)

func testScene(t *testing.T) *mesh.Scene {
	t.Helper()
	frag := mesh.NewFragment(0)
	// Tetrahedron with outward windings.
	o := r3.Vec{}
	x := r3.Vec{X: 2}
	y := r3.Vec{Y: 2}
	z := r3.Vec{Z: 2}
	frag.AddTriangle(o, y, x)
	frag.AddTriangle(o, x, z)
	frag.AddTriangle(o, z, y)
	frag.AddTriangle(x, y, z)

	scene, stats := mesh.Assemble([]*mesh.Fragment{frag}, 0)
	require.Equal(t, 1, stats.Fragments, "test solid must assemble")
	return scene
}

func TestMarshalLayout(t *testing.T) {
	scene := testScene(t)
	data := Marshal(scene, "tactile map test")

	require.Equal(t, 80+4+50*len(scene.Faces), len(data))
	assert.Equal(t, uint32(len(scene.Faces)), binary.LittleEndian.Uint32(data[80:]))
	assert.Equal(t, byte('t'), data[0])
	// Attribute byte count of the first triangle is zero.
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[80+4+48:]))
}

func TestRoundTrip(t *testing.T) {
	scene := testScene(t)
	back, err := Unmarshal(Marshal(scene, ""))
	require.NoError(t, err)

	assert.Equal(t, len(scene.Faces), len(back.Faces))
	assert.Equal(t, len(scene.Vertices), len(back.Vertices), "shared vertices should be rewelded")
	assert.True(t, back.IsClosed(), "round-tripped solid should stay watertight")
	assert.InDelta(t, scene.Volume(), back.Volume(), 1e-6)
}

func TestUnmarshalRejectsTruncated(t *testing.T) {
	scene := testScene(t)
	data := Marshal(scene, "")

	_, err := Unmarshal(data[:len(data)-7])
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Unmarshal(data[:40])
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestUnmarshalRejectsBadCount(t *testing.T) {
	scene := testScene(t)
	data := Marshal(scene, "")
	binary.LittleEndian.PutUint32(data[80:], 9999)

	_, err := Unmarshal(data)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestWriteFileAtomic(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	scene := testScene(t)

	require.NoError(t, WriteFile(fsys, "out/model.stl", scene, "tactile map"))
	require.False(t, fsys.Exists("out/model.stl.tmp"), "temporary file should be renamed away")

	back, err := ReadFile(fsys, "out/model.stl")
	require.NoError(t, err)
	assert.Equal(t, len(scene.Faces), len(back.Faces))
}

func TestWriteFileKeepsPreviousOnFailure(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	scene := testScene(t)
	require.NoError(t, WriteFile(fsys, "model.stl", scene, "v1"))

	fsys.FailRename = true
	err := WriteFile(fsys, "model.stl", scene, "v2")
	require.Error(t, err)

	// The previous export is still readable.
	back, readErr := ReadFile(fsys, "model.stl")
	require.NoError(t, readErr)
	assert.True(t, back.IsClosed())
}
