package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/beetlebugorg/maplabels/pkg/labels"
)

func loadTable(path string) *labels.AttributeTable {
	table, err := labels.ReadAttributeTable(path)
	if err != nil {
		var notLoaded *labels.ErrTableNotLoaded
		if errors.As(err, &notLoaded) && errors.Is(err, os.ErrNotExist) {
			log.Printf("Table not found: %s", notLoaded.Path)
		} else {
			log.Printf("Failed to read %s: %v", path, err)
		}
		// An unloaded table is still usable and yields no labels.
		return table
	}

	if table.Truncated {
		log.Printf("Warning: %s is truncated (%d of %d records)",
			path, len(table.Records), table.DeclaredCount)
	}
	return table
}

func main() {
	ctx := context.Background()

	// Debug logging shows every texture and font miss
	opts := labels.DefaultOptions()
	opts.Logger = labels.NewTextLogger(slog.LevelDebug)
	pipeline := labels.NewPipeline(opts)

	positions := []labels.Position{
		labels.NewPosition(0, 0, 0),
		labels.NewPosition(10, 0, 0),
	}

	table := loadTable("data/krakow/osm_points.dbf")
	group := pipeline.Build(ctx, positions, table)
	fmt.Printf("Labels: %d (table loaded: %v)\n", group.Len(), group.Stats.TableLoaded)

	// Labels whose icon is missing fall back to text only
	for _, node := range group.Nodes {
		if node.Icon == nil {
			fmt.Printf("  %s: text only\n", node.Label.Name)
		}
	}

	// A missing table degrades to zero labels, never an error
	table = loadTable("NONEXISTENT.dbf")
	group = pipeline.Build(ctx, positions, table)
	fmt.Printf("Labels: %d (table loaded: %v)\n", group.Len(), group.Stats.TableLoaded)
}
