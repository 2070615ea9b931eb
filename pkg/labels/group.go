package labels

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// pointEpsilon is the side length of the R-tree rectangle around an anchor.
const pointEpsilon = 0.01

// RunStats summarizes one pipeline run.
type RunStats struct {
	RunID       string `json:"run_id"`
	Dataset     string `json:"dataset,omitempty"`
	Positions   int    `json:"positions"`
	Records     int    `json:"records"`
	TableLoaded bool   `json:"table_loaded"`
	Candidates  int    `json:"candidates"`
	ShortName   int    `json:"rejected_short_name"`
	StopList    int    `json:"rejected_stop_list"`
	Numeric     int    `json:"rejected_numeric"`
	Labels      int    `json:"labels"`
	Textures    int    `json:"textures"`
}

// Group is the composite output of a pipeline run: one Node per accepted
// label, in input order.
//
// Group keeps an R-tree over the anchors' X/Y so the host can cull labels by
// viewport without scanning every node.
type Group struct {
	Nodes []*Node
	Stats RunStats

	rtree *rtreego.Rtree
}

// indexedNode adapts a node to rtreego.Spatial.
type indexedNode struct {
	index int
	node  *Node
}

// Bounds implements rtreego.Spatial.
func (n indexedNode) Bounds() rtreego.Rect {
	p := rtreego.Point{n.node.Anchor.X(), n.node.Anchor.Y()}
	return p.ToRect(pointEpsilon)
}

// NewGroup builds a group over nodes.
func NewGroup(nodes []*Node, stats RunStats) *Group {
	g := &Group{Nodes: nodes, Stats: stats}
	g.reindex()
	return g
}

// emptyGroup is returned when a run cannot proceed.
func emptyGroup(stats RunStats) *Group {
	return NewGroup(nil, stats)
}

func (g *Group) reindex() {
	// 2D, min=25 children, max=50 children
	g.rtree = rtreego.NewTree(2, 25, 50)
	for i, n := range g.Nodes {
		g.rtree.Insert(indexedNode{index: i, node: n})
	}
}

// Len returns the number of label nodes.
func (g *Group) Len() int {
	return len(g.Nodes)
}

// Bound returns the X/Y extent of all anchors.
func (g *Group) Bound() orb.Bound {
	if len(g.Nodes) == 0 {
		return orb.Bound{}
	}
	first := g.Nodes[0].Anchor
	b := orb.Point{first.X(), first.Y()}.Bound()
	for _, n := range g.Nodes[1:] {
		b = b.Extend(orb.Point{n.Anchor.X(), n.Anchor.Y()})
	}
	return b
}

// InBounds returns the nodes whose anchor lies within bound, in input order.
func (g *Group) InBounds(bound orb.Bound) []*Node {
	if len(g.Nodes) == 0 {
		return nil
	}

	point := rtreego.Point{bound.Min.X(), bound.Min.Y()}
	lengths := []float64{
		max(bound.Max.X()-bound.Min.X(), pointEpsilon),
		max(bound.Max.Y()-bound.Min.Y(), pointEpsilon),
	}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}

	var hits []indexedNode
	for _, s := range g.rtree.SearchIntersect(rect) {
		n := s.(indexedNode)
		// The index rectangle is padded; confirm against the exact anchor.
		if bound.Contains(orb.Point{n.node.Anchor.X(), n.node.Anchor.Y()}) {
			hits = append(hits, n)
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].index < hits[j].index
	})

	out := make([]*Node, len(hits))
	for i, h := range hits {
		out[i] = h.node
	}
	return out
}

// Nearest returns up to k nodes closest to (x, y), nearest first.
func (g *Group) Nearest(x, y float64, k int) []*Node {
	if k <= 0 || len(g.Nodes) == 0 {
		return nil
	}

	var out []*Node
	for _, s := range g.rtree.NearestNeighbors(k, rtreego.Point{x, y}) {
		if s == nil {
			continue
		}
		out = append(out, s.(indexedNode).node)
	}
	return out
}

// ByIconKey returns the nodes whose icon resolved to key.
func (g *Group) ByIconKey(key string) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.IconKey == key {
			out = append(out, n)
		}
	}
	return out
}
