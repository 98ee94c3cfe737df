package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50 // normal, 3 vertices (12 float32) + attribute word
)

// LoadSTL reads an ASCII or binary STL file
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseSTL(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// ParseSTL decodes STL data, detecting binary files by their exact facet-count length
// Binary headers may also start with "solid", so the length check runs first
func ParseSTL(data []byte) (*Mesh, error) {
	if len(data) >= stlHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlFacetSize {
			return parseBinarySTL(data, int(count))
		}
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return ReadASCIISTL(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: neither ASCII nor binary STL", ErrMalformed)
}

func parseBinarySTL(data []byte, count int) (*Mesh, error) {
	faces := make([]Face, count)
	off := stlHeaderSize + 4
	for i := range faces {
		// Skip the stored normal; it is recomputed from winding
		p := off + 12
		var tri r3.Triangle
		for v := range tri {
			tri[v] = r3.Vec{
				X: float64(readFloat32(data[p:])),
				Y: float64(readFloat32(data[p+4:])),
				Z: float64(readFloat32(data[p+8:])),
			}
			p += 12
		}
		faces[i] = Face{Vertices: tri}
		off += stlFacetSize
	}
	return New("", faces), nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// ReadASCIISTL parses "solid ... facet ... vertex x y z ... endsolid" text
func ReadASCIISTL(r io.Reader) (*Mesh, error) {
	var (
		name  string
		faces []Face
		tri   r3.Triangle
		n     int
	)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			if name == "" {
				name = strings.Join(fields[1:], " ")
			}
		case "outer":
			n = 0
		case "vertex":
			if n >= 3 {
				return nil, fmt.Errorf("line %d: %w: facet with more than 3 vertices", lineNo, ErrMalformed)
			}
			v, err := parseVec(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			tri[n] = v
			n++
		case "endloop":
			if n != 3 {
				return nil, fmt.Errorf("line %d: %w: facet with %d vertices", lineNo, ErrMalformed, n)
			}
			faces = append(faces, Face{Vertices: tri})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return New(name, faces), nil
}
