package parser

import (
	"fmt"
)

// ErrTableNotLoaded indicates the attribute table file could not be opened.
//
// Callers treat this as zero usable records, not as an empty table.
type ErrTableNotLoaded struct {
	Path string
	Err  error
}

func (e *ErrTableNotLoaded) Error() string {
	return fmt.Sprintf("attribute table %s not loaded: %v", e.Path, e.Err)
}

func (e *ErrTableNotLoaded) Unwrap() error {
	return e.Err
}

// ErrGeometryNotLoaded indicates the shapefile could not be opened or mapped.
type ErrGeometryNotLoaded struct {
	Path string
	Err  error
}

func (e *ErrGeometryNotLoaded) Error() string {
	return fmt.Sprintf("geometry %s not loaded: %v", e.Path, e.Err)
}

func (e *ErrGeometryNotLoaded) Unwrap() error {
	return e.Err
}

// ErrInvalidShapefile indicates the shapefile header is not usable.
type ErrInvalidShapefile struct {
	Path   string
	Reason string
}

func (e *ErrInvalidShapefile) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid shapefile %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid shapefile: %s", e.Reason)
}

// ErrUnsupportedShape indicates a record with an unknown shape type code.
type ErrUnsupportedShape struct {
	ShapeType ShapeType
}

func (e *ErrUnsupportedShape) Error() string {
	return fmt.Sprintf("unsupported shape type: %v", e.ShapeType)
}

// ErrInvalidCoordinate indicates a coordinate outside WGS-84 bounds
type ErrInvalidCoordinate struct {
	Lat, Lon float64
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%f lon=%f (lat must be ±90, lon must be ±180)",
		e.Lat, e.Lon)
}
