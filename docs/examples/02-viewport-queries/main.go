package main

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/maplabels/pkg/labels"
)

func main() {
	ctx := context.Background()

	// Project lon/lat input to meters around the Main Square
	opts := labels.DefaultOptions()
	opts.Projector = labels.NewLocalMercator(orb.Point{19.9373, 50.0617})

	group := labels.NewPipeline(opts).RunDir(ctx, "data/krakow")

	// Define viewport (1 km around the origin)
	viewport := orb.Bound{
		Min: orb.Point{-500, -500},
		Max: orb.Point{500, 500},
	}

	// Query R-tree index for visible labels (O(log n))
	visible := group.InBounds(viewport)
	fmt.Printf("Visible labels: %d of %d\n", len(visible), group.Len())

	for _, node := range visible {
		fmt.Printf("  %s: %s\n", node.Label.Name, node.IconKey)
	}

	// Closest labels to the camera target
	fmt.Println("Nearest:")
	for _, node := range group.Nearest(0, 0, 5) {
		fmt.Printf("  %s\n", node.Label.Name)
	}
}
