package labels

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceSource(t *testing.T) {
	src := SliceSource{NewPosition(1, 2, 3)}
	got, err := src.Positions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Position{NewPosition(1, 2, 3)}, got)
}

func TestShapefileSourceIdentity(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "points.shp"),
		shpPointsBytes([][2]float64{{100, 200}, {300, 400}}))

	src := NewShapefileSource(path, nil)
	got, err := src.Positions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Position{NewPosition(100, 200, 0), NewPosition(300, 400, 0)}, got)
}

func TestShapefileSourceMissing(t *testing.T) {
	src := NewShapefileSource(filepath.Join(t.TempDir(), "missing.shp"), nil)
	_, err := src.Positions(context.Background())
	assert.Error(t, err)
}

func TestLocalMercator(t *testing.T) {
	m := NewLocalMercator(orb.Point{19.94, 50.06})

	origin := m.Project(orb.Point{19.94, 50.06}, 7)
	assert.InDelta(t, 0, origin.X(), 1e-6)
	assert.InDelta(t, 0, origin.Y(), 1e-6)
	assert.Equal(t, 7.0, origin.Z())

	// East and north of the origin are positive.
	p := m.Project(orb.Point{19.95, 50.07}, 0)
	assert.Greater(t, p.X(), 0.0)
	assert.Greater(t, p.Y(), 0.0)

	// 0.01 degrees of longitude at the equator is about 1113 m in Web Mercator.
	eq := NewLocalMercator(orb.Point{0, 0}).Project(orb.Point{0.01, 0}, 0)
	assert.InDelta(t, 1113.19, eq.X(), 0.1)
}

func TestShapefileSourceWarnsOnProjectedInput(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "points.shp"),
		shpPointsBytes([][2]float64{{19.94, 50.06}, {500000, 5500000}}))

	var logs bytes.Buffer
	src := NewShapefileSource(path, NewLocalMercator(orb.Point{19.94, 50.06}))
	src.Logger = NewLogger(slog.NewTextHandler(&logs, nil))

	got, err := src.Positions(context.Background())
	require.NoError(t, err)
	// Invalid input is projected, not dropped.
	require.Len(t, got, 2)
	assert.False(t, math.IsNaN(got[1].X()))
	assert.Contains(t, logs.String(), "coordinates outside WGS84 range")
	assert.Contains(t, logs.String(), "count=1")
}

func TestProjectorFunc(t *testing.T) {
	flip := ProjectorFunc(func(p orb.Point, z float64) Position {
		return NewPosition(p.X(), -p.Y(), z)
	})
	assert.Equal(t, NewPosition(1, -2, 3), flip.Project(orb.Point{1, 2}, 3))
}
