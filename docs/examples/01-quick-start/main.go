package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beetlebugorg/maplabels/pkg/labels"
)

func main() {
	ctx := context.Background()

	// Create pipeline with default asset locations
	pipeline := labels.NewPipeline(labels.DefaultOptions())

	// Build labels from test_pointss.shp or osm_points.shp
	group := pipeline.RunDir(ctx, "data/krakow")

	fmt.Printf("Dataset: %s\n", group.Stats.Dataset)
	fmt.Printf("Labels: %d\n", group.Len())
	fmt.Printf("Textures: %d\n", group.Stats.Textures)

	for _, node := range group.Nodes {
		p := node.Anchor
		fmt.Printf("  %-24s %-16s (%.1f, %.1f, %.1f)\n",
			node.Label.Name, node.IconKey, p.X(), p.Y(), p.Z())
	}

	// Hand off to the renderer
	if err := group.Save("labels.json"); err != nil {
		log.Fatal(err)
	}
}
