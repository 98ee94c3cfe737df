package mesh

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lixenwraith/asciimesh/terminal"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaterialOpener resolves an mtllib reference to a reader
type MaterialOpener func(name string) (io.ReadCloser, error)

// LoadOBJ reads a Wavefront OBJ file; mtllib references resolve relative to the file
func LoadOBJ(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	opener := func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, filepath.FromSlash(name)))
	}

	meshes, err := ReadOBJ(f, opener)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meshes, nil
}

// objReader holds parse state; vertex indices are global across objects
type objReader struct {
	opener    MaterialOpener
	vertices  []r3.Vec
	materials map[string]*Material
	current   *Material

	meshes []*Mesh
	name   string
	faces  []Face
}

// ReadOBJ parses OBJ geometry: v, f (fan-triangulated, negative indices allowed),
// o/g object splits and mtllib/usemtl diffuse colors
// A nil opener ignores material libraries
func ReadOBJ(r io.Reader, opener MaterialOpener) ([]*Mesh, error) {
	p := &objReader{
		opener:    opener,
		materials: make(map[string]*Material),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := p.line(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	p.split("")
	return p.meshes, nil
}

func (p *objReader) line(text string) error {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseVec(fields[1:])
		if err != nil {
			return err
		}
		p.vertices = append(p.vertices, v)
	case "f":
		return p.face(fields[1:])
	case "o", "g":
		p.split(strings.Join(fields[1:], " "))
	case "mtllib":
		for _, name := range fields[1:] {
			if err := p.loadMaterials(name); err != nil {
				return err
			}
		}
	case "usemtl":
		if len(fields) < 2 {
			p.current = nil
			return nil
		}
		m, ok := p.materials[fields[1]]
		if !ok {
			log.Printf("OBJ references unknown material %q, faces left uncolored", fields[1])
		}
		p.current = m
	}
	// vt, vn, s, l and other statements carry nothing the renderer uses
	return nil
}

// split closes the current object and starts a new one
func (p *objReader) split(name string) {
	if len(p.faces) > 0 {
		p.meshes = append(p.meshes, New(p.name, p.faces))
		p.faces = nil
	}
	p.name = name
}

func (p *objReader) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("%w: face needs at least 3 vertices, got %d", ErrMalformed, len(refs))
	}
	idx := make([]int, len(refs))
	for i, ref := range refs {
		k, err := p.resolve(ref)
		if err != nil {
			return err
		}
		idx[i] = k
	}
	for i := 1; i+1 < len(idx); i++ {
		p.faces = append(p.faces, Face{
			Vertices: r3.Triangle{p.vertices[idx[0]], p.vertices[idx[i]], p.vertices[idx[i+1]]},
			Material: p.current,
		})
	}
	return nil
}

// resolve converts a v, v/vt, v//vn or v/vt/vn reference to a 0-based vertex index
func (p *objReader) resolve(ref string) (int, error) {
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		ref = ref[:i]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("%w: vertex reference %q", ErrMalformed, ref)
	}
	switch {
	case n > 0 && n <= len(p.vertices):
		return n - 1, nil
	case n < 0 && -n <= len(p.vertices):
		return len(p.vertices) + n, nil
	}
	return 0, fmt.Errorf("%w: vertex index %d out of range (%d defined)", ErrMalformed, n, len(p.vertices))
}

func (p *objReader) loadMaterials(name string) error {
	if p.opener == nil {
		return nil
	}
	rc, err := p.opener(name)
	if err != nil {
		// Geometry is still usable without colors
		log.Printf("OBJ material library %q not loaded: %v", name, err)
		return nil
	}
	defer rc.Close()

	mats, err := ReadMTL(rc)
	if err != nil {
		return fmt.Errorf("mtllib %s: %w", name, err)
	}
	for _, m := range mats {
		p.materials[m.Name] = m
	}
	return nil
}

// ReadMTL parses newmtl/Kd statements of a material library
// Materials without Kd default to white
func ReadMTL(r io.Reader) ([]*Material, error) {
	var (
		mats    []*Material
		current *Material
	)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: %w: newmtl without name", lineNo, ErrMalformed)
			}
			current = &Material{Name: fields[1], Diffuse: terminal.White}
			mats = append(mats, current)
		case "Kd":
			if current == nil {
				return nil, fmt.Errorf("line %d: %w: Kd before newmtl", lineNo, ErrMalformed)
			}
			v, err := parseVec(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current.Diffuse = unitRGB(v)
		}
	}
	return mats, sc.Err()
}

func parseVec(fields []string) (r3.Vec, error) {
	if len(fields) < 3 {
		return r3.Vec{}, fmt.Errorf("%w: expected 3 coordinates, got %d", ErrMalformed, len(fields))
	}
	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return r3.Vec{}, fmt.Errorf("%w: coordinate %q", ErrMalformed, fields[i])
		}
		xyz[i] = f
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// unitRGB maps 0..1 components to a clamped 24-bit color
func unitRGB(v r3.Vec) terminal.RGB {
	conv := func(f float64) uint8 {
		switch {
		case f <= 0:
			return 0
		case f >= 1:
			return 255
		}
		return uint8(f*255 + 0.5)
	}
	return terminal.RGB{R: conv(v.X), G: conv(v.Y), B: conv(v.Z)}
}
