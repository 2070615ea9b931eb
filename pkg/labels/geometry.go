package labels

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/beetlebugorg/maplabels/internal/parser"
)

// GeometrySource supplies label positions in scene coordinates.
//
// Positions must enumerate features in the same order as the rows of the
// attribute table they are paired with.
type GeometrySource interface {
	Positions(ctx context.Context) ([]Position, error)
}

// SliceSource is a GeometrySource over positions the caller already holds.
type SliceSource []Position

// Positions returns the slice unchanged.
func (s SliceSource) Positions(context.Context) ([]Position, error) {
	return s, nil
}

// Projector converts a raw shapefile coordinate into a scene position.
type Projector interface {
	Project(p orb.Point, z float64) Position
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(p orb.Point, z float64) Position

// Project calls f.
func (f ProjectorFunc) Project(p orb.Point, z float64) Position {
	return f(p, z)
}

// IdentityProjector passes coordinates through unchanged.
var IdentityProjector = ProjectorFunc(func(p orb.Point, z float64) Position {
	return NewPosition(p.X(), p.Y(), z)
})

// LocalMercator projects WGS84 longitude/latitude to Web Mercator meters
// relative to Origin (lon/lat).
type LocalMercator struct {
	Origin orb.Point
}

// NewLocalMercator creates a projector centered on origin.
func NewLocalMercator(origin orb.Point) *LocalMercator {
	return &LocalMercator{Origin: origin}
}

// Project implements Projector.
func (m *LocalMercator) Project(p orb.Point, z float64) Position {
	o := project.WGS84.ToMercator(m.Origin)
	q := project.WGS84.ToMercator(p)
	return NewPosition(q.X()-o.X(), q.Y()-o.Y(), z)
}

// geographic reports whether a projector expects lon/lat input.
func geographic(p Projector) bool {
	_, ok := p.(*LocalMercator)
	return ok
}

// ShapefileSource reads positions from an ESRI shapefile. Every vertex of
// every record is emitted in file order; null shapes contribute nothing.
type ShapefileSource struct {
	Path      string
	Projector Projector // nil means IdentityProjector
	Logger    *Logger

	points *parser.PointSet
}

// NewShapefileSource creates a source reading path.
func NewShapefileSource(path string, projector Projector) *ShapefileSource {
	return &ShapefileSource{Path: path, Projector: projector}
}

// newLoadedShapefileSource wraps an already parsed point set.
func newLoadedShapefileSource(path string, points *parser.PointSet, projector Projector) *ShapefileSource {
	return &ShapefileSource{Path: path, Projector: projector, points: points}
}

// Positions implements GeometrySource.
func (s *ShapefileSource) Positions(ctx context.Context) ([]Position, error) {
	points := s.points
	if points == nil {
		var err error
		points, err = parser.ReadShapefile(s.Path)
		if err != nil {
			return nil, err
		}
	}

	proj := s.Projector
	if proj == nil {
		proj = IdentityProjector
	}

	logger := s.Logger
	if logger == nil {
		logger = NoopLogger()
	}
	if points.Truncated {
		logger.DebugContext(ctx, "shapefile truncated",
			"path", s.Path,
			"records", points.Records,
		)
	}
	if geographic(proj) {
		if bad := points.InvalidGeographic(); bad > 0 {
			logger.WarnContext(ctx, "coordinates outside WGS84 range",
				"path", s.Path,
				"count", bad,
			)
		}
	}

	out := make([]Position, len(points.Vertices))
	for i, v := range points.Vertices {
		out[i] = proj.Project(v.XY, v.Z)
	}
	return out, nil
}

// Bound returns the bounding box declared in the shapefile header, or an
// empty bound when the file has not been read.
func (s *ShapefileSource) Bound() orb.Bound {
	if s.points == nil {
		return orb.Bound{}
	}
	return s.points.Bound
}
