package labels

import (
	"github.com/EliCDavis/vector/vector3"
)

// Position is a point in local scene coordinates. Z is up.
type Position = vector3.Float64

// NewPosition returns the scene position (x, y, z).
func NewPosition(x, y, z float64) Position {
	return vector3.New(x, y, z)
}

// LabelData is one correlated geometry/attribute pair.
//
// Position is lifted by LabelLift during assembly; the value is not modified
// after filtering completes.
type LabelData struct {
	Position Position
	Name     string
	Type     string
	Subtype  string
}
