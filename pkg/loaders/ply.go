package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-raykernel/pkg/log"
	"github.com/df07/go-raykernel/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnsupportedFormat is returned for PLY encodings and image formats the
// loaders cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported format")

var logger = log.New("loaders")

// PLYHeader is the parsed header of a PLY file.
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string
	Elements []PLYElement
}

// PLYElement is one element block ("vertex", "face", ...) of the header.
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty is a property definition in the PLY header.
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // type of the count for list properties
	DataType string // type of the items for list properties
}

// Element returns the element called name, or nil.
func (h *PLYHeader) Element(name string) *PLYElement {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i]
		}
	}
	return nil
}

// LoadPLY reads a PLY file into a mesh named after the file.
func LoadPLY(filename string) (*scene.Mesh, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	mesh, err := ReadPLY(file, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded %s: %d vertices, %d triangles in %v",
		filename, len(mesh.Vertices), len(mesh.Triangles), time.Since(startTime))
	return mesh, nil
}

// ReadPLY decodes a PLY stream. Quad faces are split along their first
// diagonal into (0,1,2) and (0,2,3), so the two halves are consecutive
// triangles that pair up when the scene is committed.
func ReadPLY(r io.Reader, name string) (*scene.Mesh, error) {
	br := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		s := bufio.NewScanner(br)
		s.Split(bufio.ScanWords)
		values = &asciiValues{scanner: s}
	case "binary_little_endian":
		values = &binaryValues{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValues{r: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("PLY encoding %q: %w", header.Format, ErrUnsupportedFormat)
	}

	mesh := scene.NewMesh(name, nil, nil)
	for _, elem := range header.Elements {
		switch elem.Name {
		case "vertex":
			err = readVertices(values, elem, mesh)
		case "face":
			err = readFaces(values, elem, mesh)
		default:
			err = skipElement(values, elem)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read PLY %s data: %w", elem.Name, err)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// parsePLYHeader reads the header up to and including end_header.
func parsePLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true

	for {
		raw, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("missing end_header: %w", err)
		}
		line := strings.TrimSpace(raw)
		if first {
			if line != "ply" {
				return nil, fmt.Errorf("not a PLY file")
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element: %q", line)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			elem := &header.Elements[len(header.Elements)-1]
			elem.Properties = append(elem.Properties, prop)
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("missing format line")
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func readVertices(values plyValueReader, elem PLYElement, mesh *scene.Mesh) error {
	xyz := [3]int{-1, -1, -1}
	uv := [2]int{-1, -1}
	for i, prop := range elem.Properties {
		switch prop.Name {
		case "x":
			xyz[0] = i
		case "y":
			xyz[1] = i
		case "z":
			xyz[2] = i
		case "u", "s", "texture_u":
			uv[0] = i
		case "v", "t", "texture_v":
			uv[1] = i
		}
	}
	if xyz[0] < 0 || xyz[1] < 0 || xyz[2] < 0 {
		return fmt.Errorf("vertex element without x, y and z")
	}
	hasUV := uv[0] >= 0 && uv[1] >= 0

	mesh.Vertices = make([]mgl32.Vec3, 0, elem.Count)
	if hasUV {
		mesh.TexCoords = make([]mgl32.Vec2, 0, elem.Count)
	}

	row := make([]float64, len(elem.Properties))
	for i := 0; i < elem.Count; i++ {
		for j, prop := range elem.Properties {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := values.scalar(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d, property %s: %w", i, prop.Name, err)
			}
			row[j] = v
		}
		mesh.Vertices = append(mesh.Vertices, mgl32.Vec3{
			float32(row[xyz[0]]), float32(row[xyz[1]]), float32(row[xyz[2]]),
		})
		if hasUV {
			mesh.TexCoords = append(mesh.TexCoords, mgl32.Vec2{float32(row[uv[0]]), float32(row[uv[1]])})
		}
	}
	return nil
}

func readFaces(values plyValueReader, elem PLYElement, mesh *scene.Mesh) error {
	mesh.Triangles = make([][3]int, 0, elem.Count)

	var idx [4]int
	for i := 0; i < elem.Count; i++ {
		for _, prop := range elem.Properties {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return fmt.Errorf("face %d, property %s: %w", i, prop.Name, err)
				}
				continue
			}

			count, err := values.scalar(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d vertex count: %w", i, err)
			}
			n := int(count)
			if n != 3 && n != 4 {
				return fmt.Errorf("only triangle and quad faces supported, got %d vertices at face %d", n, i)
			}
			for k := 0; k < n; k++ {
				v, err := values.scalar(prop.DataType)
				if err != nil {
					return fmt.Errorf("face %d indices: %w", i, err)
				}
				idx[k] = int(v)
			}

			mesh.Triangles = append(mesh.Triangles, [3]int{idx[0], idx[1], idx[2]})
			if n == 4 {
				mesh.Triangles = append(mesh.Triangles, [3]int{idx[0], idx[2], idx[3]})
			}
		}
	}
	return nil
}

func skipElement(values plyValueReader, elem PLYElement) error {
	for i := 0; i < elem.Count; i++ {
		for _, prop := range elem.Properties {
			if err := skipProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.scalar(prop.Type)
	return err
}

func skipList(values plyValueReader, prop PLYProperty) error {
	count, err := values.scalar(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := values.scalar(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// plyValueReader reads one scalar of a PLY data type.
type plyValueReader interface {
	scalar(dataType string) (float64, error)
}

type asciiValues struct {
	scanner *bufio.Scanner
}

func (a *asciiValues) scalar(dataType string) (float64, error) {
	if getTypeSize(dataType) == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

type binaryValues struct {
	r     *bufio.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValues) scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	p := b.buf[:size]
	if _, err := io.ReadFull(b.r, p); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(p[0])), nil
	case "uchar", "uint8":
		return float64(p[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(p))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(p)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(p))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(p)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(p))), nil
	default: // double
		return math.Float64frombits(b.order.Uint64(p)), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 when the
// type is unknown.
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}
