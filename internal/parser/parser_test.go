package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDatasetFallback(t *testing.T) {
	dir := t.TempDir()
	data := (&shpBuilder{shapeType: ShapePoint}).point(1, 2).bytes()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "osm_points.shp"), data, 0o644))

	ds, err := OpenDataset(dir, []string{"test_pointss", "osm_points"})
	require.NoError(t, err)
	assert.Equal(t, "osm_points", ds.Name)
	assert.Equal(t, filepath.Join(dir, "osm_points.dbf"), ds.TablePath)
	require.Len(t, ds.Points.Vertices, 1)
}

func TestOpenDatasetPrefersFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"test_pointss", "osm_points"} {
		data := (&shpBuilder{shapeType: ShapePoint}).point(1, 2).bytes()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".shp"), data, 0o644))
	}

	ds, err := OpenDataset(dir, []string{"test_pointss", "osm_points"})
	require.NoError(t, err)
	assert.Equal(t, "test_pointss", ds.Name)
}

func TestOpenDatasetNoneLoad(t *testing.T) {
	_, err := OpenDataset(t.TempDir(), []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = OpenDataset(t.TempDir(), nil)
	var notLoaded *ErrGeometryNotLoaded
	assert.True(t, errors.As(err, &notLoaded))
}
