// Package mesh loads triangle meshes from model files
package mesh

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/asciimesh/terminal"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sentinel errors for programmatic error handling
var (
	ErrUnsupportedFormat = errors.New("unsupported model format")
	ErrMalformed         = errors.New("malformed model")
	ErrEmpty             = errors.New("model has no faces")
)

// Material carries the diffuse color of a group of faces
type Material struct {
	Name    string
	Diffuse terminal.RGB
}

// Face is one triangle; Material is nil for uncolored faces
type Face struct {
	Vertices r3.Triangle
	Material *Material
}

// Normal returns the unit face normal following counter-clockwise winding
// Degenerate faces return the zero vector
func (f Face) Normal() r3.Vec {
	a, b, c := f.Vertices[0], f.Vertices[1], f.Vertices[2]
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Mesh is a named list of faces with a cached bounding box
type Mesh struct {
	Name  string
	Faces []Face
	box   r3.Box
}

// New builds a mesh and computes its bounds
func New(name string, faces []Face) *Mesh {
	m := &Mesh{Name: name, Faces: faces}
	m.box = computeBounds(faces)
	return m
}

// Bounds returns the axis-aligned bounding box in model space
func (m *Mesh) Bounds() r3.Box {
	return m.box
}

// Bounds collects the bounding box of every mesh
func Bounds(meshes []*Mesh) []r3.Box {
	boxes := make([]r3.Box, len(meshes))
	for i, m := range meshes {
		boxes[i] = m.Bounds()
	}
	return boxes
}

// FaceCount returns the total face count over meshes
func FaceCount(meshes []*Mesh) int {
	n := 0
	for _, m := range meshes {
		n += len(m.Faces)
	}
	return n
}

func computeBounds(faces []Face) r3.Box {
	if len(faces) == 0 {
		return r3.Box{}
	}
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, f := range faces {
		for _, v := range f.Vertices {
			lo = r3.Vec{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
			hi = r3.Vec{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
		}
	}
	return r3.Box{Min: lo, Max: hi}
}

// Load reads a model file, dispatching on its extension (.obj, .stl)
func Load(path string) ([]*Mesh, error) {
	var (
		meshes []*Mesh
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		meshes, err = LoadOBJ(path)
	case ".stl":
		var m *Mesh
		m, err = LoadSTL(path)
		if m != nil {
			meshes = []*Mesh{m}
		}
	case "":
		return nil, fmt.Errorf("%w: %s: no file extension", ErrUnsupportedFormat, path)
	default:
		return nil, fmt.Errorf("%w: %s: %q", ErrUnsupportedFormat, path, ext)
	}
	if err != nil {
		return nil, err
	}
	if FaceCount(meshes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return meshes, nil
}
