package parser

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/paulmach/orb"
)

// ShapeType is the ESRI shape type code.
type ShapeType int32

const (
	ShapeNull        ShapeType = 0
	ShapePoint       ShapeType = 1
	ShapePolyLine    ShapeType = 3
	ShapePolygon     ShapeType = 5
	ShapeMultiPoint  ShapeType = 8
	ShapePointZ      ShapeType = 11
	ShapePolyLineZ   ShapeType = 13
	ShapePolygonZ    ShapeType = 15
	ShapeMultiPointZ ShapeType = 18
	ShapePointM      ShapeType = 21
	ShapePolyLineM   ShapeType = 23
	ShapePolygonM    ShapeType = 25
	ShapeMultiPointM ShapeType = 28
	ShapeMultiPatch  ShapeType = 31
)

func (t ShapeType) String() string {
	switch t {
	case ShapeNull:
		return "Null"
	case ShapePoint:
		return "Point"
	case ShapePolyLine:
		return "PolyLine"
	case ShapePolygon:
		return "Polygon"
	case ShapeMultiPoint:
		return "MultiPoint"
	case ShapePointZ:
		return "PointZ"
	case ShapePolyLineZ:
		return "PolyLineZ"
	case ShapePolygonZ:
		return "PolygonZ"
	case ShapeMultiPointZ:
		return "MultiPointZ"
	case ShapePointM:
		return "PointM"
	case ShapePolyLineM:
		return "PolyLineM"
	case ShapePolygonM:
		return "PolygonM"
	case ShapeMultiPointM:
		return "MultiPointM"
	case ShapeMultiPatch:
		return "MultiPatch"
	default:
		return fmt.Sprintf("ShapeType(%d)", int32(t))
	}
}

// hasZ reports whether records of this type carry a Z array.
func (t ShapeType) hasZ() bool {
	switch t {
	case ShapePointZ, ShapeMultiPointZ, ShapePolyLineZ, ShapePolygonZ, ShapeMultiPatch:
		return true
	}
	return false
}

const (
	shpFileCode    = 9994
	shpHeaderSize  = 100
	shpRecordHead  = 8
	shpBoxSize     = 32
	shpPointSize   = 16
	shpRangeSize   = 16
	shpWordSize    = 2
	shpVersionWant = 1000
)

// Vertex is a raw shapefile coordinate. XY is in the file's coordinate
// system; Z is zero for shape types without a Z array.
type Vertex struct {
	XY orb.Point
	Z  float64
}

// PointSet is the flattened vertex sequence of a shapefile.
//
// Vertices appear in record order, and within a record in storage order.
// Null records contribute no vertices.
type PointSet struct {
	ShapeType ShapeType
	Bound     orb.Bound
	Records   int
	Vertices  []Vertex

	// Truncated is set when the last record extends past the end of file.
	Truncated bool
}

// ReadShapefile memory-maps the .shp file at path and flattens its vertices.
func ReadShapefile(path string) (*PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ErrGeometryNotLoaded{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ErrGeometryNotLoaded{Path: path, Err: err}
	}
	if info.Size() < shpHeaderSize {
		return nil, &ErrInvalidShapefile{Path: path, Reason: fmt.Sprintf("file is %d bytes, header needs %d", info.Size(), shpHeaderSize)}
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, &ErrGeometryNotLoaded{Path: path, Err: fmt.Errorf("mmap: %w", err)}
	}
	defer data.Unmap()

	set, err := ParseShapefile(data)
	if err != nil {
		if invalid, ok := err.(*ErrInvalidShapefile); ok {
			invalid.Path = path
		}
		return nil, err
	}
	return set, nil
}

// ParseShapefile flattens the vertices of an in-memory .shp file.
//
// The returned set does not reference data.
func ParseShapefile(data []byte) (*PointSet, error) {
	if len(data) < shpHeaderSize {
		return nil, &ErrInvalidShapefile{Reason: "short header"}
	}
	if code := int32(binary.BigEndian.Uint32(data[0:4])); code != shpFileCode {
		return nil, &ErrInvalidShapefile{Reason: fmt.Sprintf("file code %d, want %d", code, shpFileCode)}
	}
	if v := int32(binary.LittleEndian.Uint32(data[28:32])); v != shpVersionWant {
		return nil, &ErrInvalidShapefile{Reason: fmt.Sprintf("version %d, want %d", v, shpVersionWant)}
	}

	set := &PointSet{
		ShapeType: ShapeType(int32(binary.LittleEndian.Uint32(data[32:36]))),
		Bound: orb.Bound{
			Min: orb.Point{readFloat(data, 36), readFloat(data, 44)},
			Max: orb.Point{readFloat(data, 52), readFloat(data, 60)},
		},
	}

	// The header length field is advisory; trust the mapped size.
	offset := shpHeaderSize
	for offset+shpRecordHead <= len(data) {
		contentLen := int(int32(binary.BigEndian.Uint32(data[offset+4:offset+8]))) * shpWordSize
		start := offset + shpRecordHead
		end := start + contentLen
		if contentLen < 0 || end > len(data) {
			set.Truncated = true
			break
		}

		vertices, err := parseShape(data[start:end])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", set.Records+1, err)
		}
		set.Vertices = append(set.Vertices, vertices...)
		set.Records++
		offset = end
	}

	return set, nil
}

// parseShape decodes one record's content. Content that ends early yields
// the vertices decoded so far.
func parseShape(content []byte) ([]Vertex, error) {
	if len(content) < 4 {
		return nil, nil
	}
	typ := ShapeType(int32(binary.LittleEndian.Uint32(content[0:4])))
	body := content[4:]

	switch typ {
	case ShapeNull:
		return nil, nil

	case ShapePoint, ShapePointM:
		if len(body) < shpPointSize {
			return nil, nil
		}
		return []Vertex{{XY: readPoint(body, 0)}}, nil

	case ShapePointZ:
		if len(body) < shpPointSize {
			return nil, nil
		}
		v := Vertex{XY: readPoint(body, 0)}
		if len(body) >= shpPointSize+8 {
			v.Z = readFloat(body, shpPointSize)
		}
		return []Vertex{v}, nil

	case ShapeMultiPoint, ShapeMultiPointM, ShapeMultiPointZ:
		// Box, NumPoints, Points[NumPoints] [, Zrange, Z[NumPoints]]
		if len(body) < shpBoxSize+4 {
			return nil, nil
		}
		n := int(int32(binary.LittleEndian.Uint32(body[shpBoxSize : shpBoxSize+4])))
		pointsAt := shpBoxSize + 4
		return readVertices(body, pointsAt, n, typ.hasZ()), nil

	case ShapePolyLine, ShapePolygon, ShapePolyLineM, ShapePolygonM,
		ShapePolyLineZ, ShapePolygonZ, ShapeMultiPatch:
		// Box, NumParts, NumPoints, Parts[NumParts] [, PartTypes[NumParts]],
		// Points[NumPoints] [, Zrange, Z[NumPoints]]
		if len(body) < shpBoxSize+8 {
			return nil, nil
		}
		parts := int(int32(binary.LittleEndian.Uint32(body[shpBoxSize : shpBoxSize+4])))
		n := int(int32(binary.LittleEndian.Uint32(body[shpBoxSize+4 : shpBoxSize+8])))
		if parts < 0 {
			return nil, nil
		}
		pointsAt := shpBoxSize + 8 + parts*4
		if typ == ShapeMultiPatch {
			pointsAt += parts * 4
		}
		return readVertices(body, pointsAt, n, typ.hasZ()), nil

	default:
		return nil, &ErrUnsupportedShape{ShapeType: typ}
	}
}

// readVertices decodes n XY pairs at pointsAt, followed (if withZ) by a Z
// range and n Z values. n is clamped to what the body holds.
func readVertices(body []byte, pointsAt, n int, withZ bool) []Vertex {
	if n <= 0 || pointsAt > len(body) {
		return nil
	}
	if avail := (len(body) - pointsAt) / shpPointSize; n > avail {
		n = avail
	}

	vertices := make([]Vertex, n)
	for i := range vertices {
		vertices[i].XY = readPoint(body, pointsAt+i*shpPointSize)
	}

	if withZ {
		zAt := pointsAt + n*shpPointSize + shpRangeSize
		for i := range vertices {
			at := zAt + i*8
			if at+8 > len(body) {
				break
			}
			vertices[i].Z = readFloat(body, at)
		}
	}
	return vertices
}

func readPoint(b []byte, at int) orb.Point {
	return orb.Point{readFloat(b, at), readFloat(b, at+8)}
}

func readFloat(b []byte, at int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[at : at+8]))
}
