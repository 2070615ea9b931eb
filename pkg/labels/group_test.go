package labels

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridGroup() *Group {
	var nodes []*Node
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			nodes = append(nodes, BuildNode(LabelData{
				Position: NewPosition(float64(x*10), float64(y*10), LabelLift),
				Name:     "Label",
			}, nil, nil))
		}
	}
	return NewGroup(nodes, RunStats{Labels: len(nodes)})
}

func TestGroupInBounds(t *testing.T) {
	g := gridGroup()
	require.Equal(t, 100, g.Len())

	hits := g.InBounds(orb.Bound{Min: orb.Point{15, 15}, Max: orb.Point{35, 25}})
	require.Len(t, hits, 2)
	assert.Equal(t, 20.0, hits[0].Anchor.X())
	assert.Equal(t, 30.0, hits[1].Anchor.X())
	assert.Equal(t, 20.0, hits[0].Anchor.Y())

	// Edges are inclusive.
	hits = g.InBounds(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}})
	assert.Len(t, hits, 4)

	// Results follow input order.
	hits = g.InBounds(orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{1000, 1000}})
	require.Len(t, hits, 100)
	for i := range hits {
		assert.Same(t, g.Nodes[i], hits[i])
	}

	assert.Empty(t, g.InBounds(orb.Bound{Min: orb.Point{500, 500}, Max: orb.Point{600, 600}}))
}

func TestGroupInBoundsDegenerate(t *testing.T) {
	g := gridGroup()
	hits := g.InBounds(orb.Point{50, 50}.Bound())
	require.Len(t, hits, 1)
	assert.Equal(t, 50.0, hits[0].Anchor.X())
}

func TestGroupNearest(t *testing.T) {
	g := gridGroup()

	near := g.Nearest(21, 19, 1)
	require.Len(t, near, 1)
	assert.Equal(t, 20.0, near[0].Anchor.X())
	assert.Equal(t, 20.0, near[0].Anchor.Y())

	near = g.Nearest(0, 0, 3)
	assert.Len(t, near, 3)
	assert.Equal(t, 0.0, near[0].Anchor.X())

	assert.Nil(t, g.Nearest(0, 0, 0))
}

func TestGroupNearestFewerThanK(t *testing.T) {
	g := NewGroup([]*Node{
		BuildNode(LabelData{Position: NewPosition(1, 1, 0), Name: "One"}, nil, nil),
		BuildNode(LabelData{Position: NewPosition(5, 5, 0), Name: "Two"}, nil, nil),
	}, RunStats{})

	near := g.Nearest(0, 0, 10)
	require.Len(t, near, 2)
	assert.Equal(t, "One", near[0].Label.Name)
}

func TestGroupBound(t *testing.T) {
	g := gridGroup()
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{90, 90}}, g.Bound())

	empty := NewGroup(nil, RunStats{})
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, orb.Bound{}, empty.Bound())
	assert.Nil(t, empty.InBounds(orb.Bound{Max: orb.Point{1, 1}}))
	assert.Nil(t, empty.Nearest(0, 0, 1))
}

func TestGroupByIconKey(t *testing.T) {
	bus := &Resource{Key: "bus.png"}
	g := NewGroup([]*Node{
		BuildNode(LabelData{Name: "Rondo"}, bus, nil),
		BuildNode(LabelData{Name: "Rynek"}, nil, nil),
		BuildNode(LabelData{Name: "Teatr"}, bus, nil),
	}, RunStats{})

	hits := g.ByIconKey("bus.png")
	require.Len(t, hits, 2)
	assert.Equal(t, "Teatr", hits[1].Label.Name)
	assert.Empty(t, g.ByIconKey("cafe.png"))
}

// largeGroup lays out n labels on a square grid with 1 unit spacing.
func largeGroup(n int) *Group {
	side := 1
	for side*side < n {
		side++
	}
	nodes := make([]*Node, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, BuildNode(LabelData{
			Position: NewPosition(float64(i%side), float64(i/side), LabelLift),
			Name:     "Label",
		}, nil, nil))
	}
	return NewGroup(nodes, RunStats{Labels: n})
}

// BenchmarkGroupInBounds queries a viewport holding ~100 of 10,000 labels.
func BenchmarkGroupInBounds(b *testing.B) {
	g := largeGroup(10000)
	viewport := orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{19.5, 19.5}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.InBounds(viewport)
	}
}

// BenchmarkGroupInBounds_LargeViewport queries ~2,500 of 10,000 labels.
func BenchmarkGroupInBounds_LargeViewport(b *testing.B) {
	g := largeGroup(10000)
	viewport := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{49.5, 49.5}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.InBounds(viewport)
	}
}

func TestLargeGroupInBounds(t *testing.T) {
	g := largeGroup(10000)
	hits := g.InBounds(orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{19.5, 19.5}})
	assert.Len(t, hits, 100)
}
