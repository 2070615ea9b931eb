package parser

import (
	"errors"
	"path/filepath"
)

// Dataset is a shapefile and its companion attribute table.
//
// The two files are produced independently and share no key: vertex i of
// the geometry and record i of the table describe the same feature. Both
// must enumerate features in the same order.
type Dataset struct {
	Name      string
	ShapePath string
	TablePath string
	Points    *PointSet
}

// OpenDataset loads the geometry of the first base name in names whose
// .shp file under dir can be read. The attribute table is not read; use
// ReadTable on Dataset.TablePath.
//
// The error from the last attempted candidate is returned when none load.
func OpenDataset(dir string, names []string) (*Dataset, error) {
	if len(names) == 0 {
		return nil, &ErrGeometryNotLoaded{Path: dir, Err: errors.New("no dataset names given")}
	}

	var lastErr error
	for _, name := range names {
		base := filepath.Join(dir, name)
		points, err := ReadShapefile(base + ".shp")
		if err != nil {
			lastErr = err
			continue
		}
		return &Dataset{
			Name:      name,
			ShapePath: base + ".shp",
			TablePath: base + ".dbf",
			Points:    points,
		}, nil
	}
	return nil, lastErr
}
