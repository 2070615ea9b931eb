package labels

import (
	"github.com/EliCDavis/vector/vector2"
	"github.com/EliCDavis/vector/vector3"
)

const (
	// IconHalfExtent is half the width and height of the icon quad.
	IconHalfExtent = 6.0

	// TextIconOffset raises the text above the icon when one is present.
	TextIconOffset = 7.0

	// CharacterSize is the text height in world units.
	CharacterSize = 3.5
)

// BillboardMode tells the host renderer how to orient a node each frame.
type BillboardMode int

const (
	BillboardNone BillboardMode = iota
	// BillboardPointRotEye rotates around the anchor point to face the eye.
	BillboardPointRotEye
)

func (m BillboardMode) String() string {
	switch m {
	case BillboardPointRotEye:
		return "point_rot_eye"
	default:
		return "none"
	}
}

// Alignment anchors text relative to its position.
type Alignment int

const (
	AlignCenterBottom Alignment = iota
	AlignCenterCenter
	AlignLeftBottom
)

// AxisAlignment is the plane text is laid out in before billboarding.
type AxisAlignment int

const (
	AxisXZ AxisAlignment = iota
	AxisXY
	AxisScreen
)

// Backdrop is the text decoration used for legibility.
type Backdrop int

const (
	BackdropNone Backdrop = iota
	BackdropOutline
)

// Color is an RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float64
}

// White is the default label color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Quad is a textured icon rectangle in the local XZ plane.
type Quad struct {
	Vertices  [4]vector3.Float64
	TexCoords [4]vector2.Float64
	Color     Color
	Resource  *Resource
}

// Text is a camera-facing string.
type Text struct {
	Value         string
	Position      Position
	Alignment     Alignment
	AxisAlignment AxisAlignment
	CharacterSize float64
	Backdrop      Backdrop
	Color         Color
	Font          *Font // nil lets the host renderer pick
}

// Node is one label: an optional icon and optional text anchored at a
// position. Icon vertices are relative to Anchor; Text.Position is absolute.
type Node struct {
	Anchor    Position
	Label     LabelData
	IconKey   string
	Billboard BillboardMode
	Lighting  bool
	Icon      *Quad
	Text      *Text
}

// Empty reports whether the node carries neither icon nor text.
func (n *Node) Empty() bool {
	return n.Icon == nil && n.Text == nil
}

// BuildNode describes the label for data. icon and font may be nil. The
// returned node is never nil.
func BuildNode(data LabelData, icon *Resource, font *Font) *Node {
	node := &Node{
		Anchor:    data.Position,
		Label:     data,
		Billboard: BillboardPointRotEye,
		Lighting:  false,
	}

	if icon != nil {
		node.IconKey = icon.Key
		node.Icon = newIconQuad(icon)
	}

	if data.Name != "" {
		offset := 0.0
		if icon != nil {
			offset = TextIconOffset
		}
		node.Text = &Text{
			Value:         data.Name,
			Position:      data.Position.Add(vector3.New(0, 0, offset)),
			Alignment:     AlignCenterBottom,
			AxisAlignment: AxisXZ,
			CharacterSize: CharacterSize,
			Backdrop:      BackdropOutline,
			Color:         White,
			Font:          font,
		}
	}

	return node
}

func newIconQuad(res *Resource) *Quad {
	const w, h = IconHalfExtent, IconHalfExtent
	return &Quad{
		Vertices: [4]vector3.Float64{
			vector3.New(-w, 0, -h),
			vector3.New(w, 0, -h),
			vector3.New(w, 0, h),
			vector3.New(-w, 0, h),
		},
		TexCoords: [4]vector2.Float64{
			vector2.New(0.0, 0.0),
			vector2.New(1.0, 0.0),
			vector2.New(1.0, 1.0),
			vector2.New(0.0, 1.0),
		},
		Color:    White,
		Resource: res,
	}
}
