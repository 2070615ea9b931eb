package labels

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/beetlebugorg/maplabels/internal/parser"
)

// Pipeline turns a geometry source and attribute table into a Group.
//
// A Pipeline owns a ResourceCache that persists across runs, so textures
// and the font are loaded once per Pipeline. Not safe for concurrent use.
type Pipeline struct {
	opts       Options
	cache      *ResourceCache
	classifier *Classifier
	projector  Projector
	logger     *Logger
}

// NewPipeline creates a pipeline. Zero-valued fields of opts fall back to
// DefaultOptions.
func NewPipeline(opts Options) *Pipeline {
	def := DefaultOptions()
	if opts.DatasetNames == nil {
		opts.DatasetNames = def.DatasetNames
	}
	if opts.TextureStore == nil {
		opts.TextureStore = def.TextureStore
	}
	if opts.FontStore == nil {
		opts.FontStore = def.FontStore
	}
	if opts.FontPath == "" && opts.FontFallbackPath == "" {
		opts.FontPath = def.FontPath
		opts.FontFallbackPath = def.FontFallbackPath
	}
	if opts.Projector == nil {
		opts.Projector = IdentityProjector
	}
	if opts.Classifier == nil {
		opts.Classifier = defaultClassifier
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	return &Pipeline{
		opts:       opts,
		cache:      NewResourceCache(opts.TextureStore, opts.FontStore, opts.fontPaths(), opts.Logger),
		classifier: opts.Classifier,
		projector:  opts.Projector,
		logger:     opts.Logger,
	}
}

// Cache returns the pipeline's resource cache.
func (p *Pipeline) Cache() *ResourceCache {
	return p.cache
}

// Preload resolves every icon key the classifier can produce.
func (p *Pipeline) Preload(ctx context.Context) int {
	return p.cache.Preload(ctx, p.classifier.Keys())
}

func newRunID() string {
	return uuid.New().String()[:8]
}

// Build assembles nodes from positions already in hand and a parsed table.
// A nil or unloaded table produces an empty group.
func (p *Pipeline) Build(ctx context.Context, positions []Position, table *AttributeTable) *Group {
	stats := RunStats{RunID: newRunID(), Positions: len(positions)}
	return p.build(ctx, p.logger.WithRun(stats.RunID), positions, table, stats)
}

func (p *Pipeline) build(ctx context.Context, logger *Logger, positions []Position, table *AttributeTable, stats RunStats) *Group {
	records := table.Usable()
	loaded := table != nil && table.Loaded
	stats.Records = len(records)
	stats.TableLoaded = loaded

	data, astats := Assemble(records, positions, loaded)
	stats.Candidates = astats.Candidates
	stats.ShortName = astats.ShortName
	stats.StopList = astats.StopList
	stats.Numeric = astats.Numeric

	var font *Font
	if len(data) > 0 {
		font = p.cache.Font(ctx)
	}

	nodes := make([]*Node, 0, len(data))
	for _, d := range data {
		key := p.classifier.Classify(d.Type, d.Subtype)
		icon := p.cache.GetOrLoad(ctx, key)
		nodes = append(nodes, BuildNode(d, icon, font))
	}

	stats.Labels = len(nodes)
	stats.Textures = p.cache.Len()
	logger.LogRun(ctx, stats)
	return NewGroup(nodes, stats)
}

// Run reads positions from geometry and the attribute table at tablePath.
//
// A geometry source that fails yields an empty group. A table that fails to
// load yields a group with no labels.
func (p *Pipeline) Run(ctx context.Context, geometry GeometrySource, tablePath string) *Group {
	stats := RunStats{RunID: newRunID()}
	return p.run(ctx, geometry, tablePath, stats)
}

func (p *Pipeline) run(ctx context.Context, geometry GeometrySource, tablePath string, stats RunStats) *Group {
	logger := p.logger.WithRun(stats.RunID)

	positions, err := geometry.Positions(ctx)
	logger.LogGeometry(ctx, describeSource(geometry), len(positions), err)
	if err != nil {
		return emptyGroup(stats)
	}
	stats.Positions = len(positions)

	table, err := ReadAttributeTable(tablePath)
	logger.LogTable(ctx, table, err)

	return p.build(ctx, logger, positions, table, stats)
}

// RunDir runs the pipeline over the first dataset in dir whose shapefile
// loads, trying Options.DatasetNames in order.
func (p *Pipeline) RunDir(ctx context.Context, dir string) *Group {
	stats := RunStats{RunID: newRunID()}

	ds, err := parser.OpenDataset(dir, p.opts.DatasetNames)
	if err != nil {
		p.logger.WithRun(stats.RunID).LogGeometry(ctx, dir, 0, err)
		return emptyGroup(stats)
	}
	stats.Dataset = ds.Name

	source := newLoadedShapefileSource(ds.ShapePath, ds.Points, p.projector)
	source.Logger = p.logger.WithRun(stats.RunID)
	return p.run(ctx, source, ds.TablePath, stats)
}

func describeSource(g GeometrySource) string {
	switch s := g.(type) {
	case *ShapefileSource:
		return s.Path
	case SliceSource:
		return fmt.Sprintf("slice[%d]", len(s))
	default:
		return fmt.Sprintf("%T", g)
	}
}
