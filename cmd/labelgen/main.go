// Command labelgen builds map labels for a point dataset and writes them as
// JSON, optionally zstd-compressed.
//
// Usage:
//
//	labelgen -dir data/krakow -out labels.json.zst
//	labelgen -dir data/krakow -assets minio -bucket maps -textures labels/icons
//
// Every flag can also be set with a MAPLABELS_ environment variable, e.g.
// MAPLABELS_DIR or MAPLABELS_TEXTURES. Flags win over the environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/maplabels/pkg/assets"
	"github.com/beetlebugorg/maplabels/pkg/assets/minio"
	"github.com/beetlebugorg/maplabels/pkg/assets/s3"
	"github.com/beetlebugorg/maplabels/pkg/labels"
)

type config struct {
	dir      string
	datasets string
	out      string

	backend   string
	textures  string
	fontRoot  string
	font      string
	fallback  string
	bucket    string
	endpoint  string
	accessKey string
	secretKey string
	secure    bool
	region    string

	origin  string
	preload bool
	json    bool
	verbose bool
	timeout time.Duration
}

func envString(name, def string) string {
	if v, ok := os.LookupEnv("MAPLABELS_" + name); ok {
		return v
	}
	return def
}

func envBool(name string, def bool) bool {
	if v, ok := os.LookupEnv("MAPLABELS_" + name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(name string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv("MAPLABELS_" + name); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("labelgen", flag.ContinueOnError)

	fs.StringVar(&cfg.dir, "dir", envString("DIR", "."), "dataset directory")
	fs.StringVar(&cfg.datasets, "datasets", envString("DATASETS", strings.Join(labels.DefaultDatasetNames, ",")), "comma-separated shapefile base names, tried in order")
	fs.StringVar(&cfg.out, "out", envString("OUT", "labels.json"), "output file; a .zst suffix enables compression")

	fs.StringVar(&cfg.backend, "assets", envString("ASSETS", "local"), "asset backend: local, minio or s3")
	fs.StringVar(&cfg.textures, "textures", envString("TEXTURES", labels.DefaultTextureRoot), "texture root (directory or key prefix)")
	fs.StringVar(&cfg.fontRoot, "font-root", envString("FONT_ROOT", ""), "font root (directory or key prefix)")
	fs.StringVar(&cfg.font, "font", envString("FONT", labels.DefaultFontPath), "font path")
	fs.StringVar(&cfg.fallback, "font-fallback", envString("FONT_FALLBACK", labels.DefaultFontFallbackPath), "fallback font path")
	fs.StringVar(&cfg.bucket, "bucket", envString("BUCKET", ""), "bucket for minio and s3 backends")
	fs.StringVar(&cfg.endpoint, "endpoint", envString("ENDPOINT", "localhost:9000"), "minio endpoint")
	fs.StringVar(&cfg.accessKey, "access-key", envString("ACCESS_KEY", ""), "minio access key")
	fs.StringVar(&cfg.secretKey, "secret-key", envString("SECRET_KEY", ""), "minio secret key")
	fs.BoolVar(&cfg.secure, "secure", envBool("SECURE", false), "use TLS for minio")
	fs.StringVar(&cfg.region, "region", envString("REGION", ""), "aws region for s3 (empty uses the default chain)")

	fs.StringVar(&cfg.origin, "origin", envString("ORIGIN", ""), "lon,lat; project WGS84 input to local Web Mercator meters")
	fs.BoolVar(&cfg.preload, "preload", envBool("PRELOAD", false), "load every icon texture before the run")
	fs.BoolVar(&cfg.json, "json-log", envBool("JSON_LOG", false), "log as JSON")
	fs.BoolVar(&cfg.verbose, "v", envBool("VERBOSE", false), "debug logging")
	fs.DurationVar(&cfg.timeout, "timeout", envDuration("TIMEOUT", 2*time.Minute), "overall timeout for asset I/O")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseOrigin(s string) (orb.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return orb.Point{}, fmt.Errorf("origin %q: want lon,lat", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("origin longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("origin latitude: %w", err)
	}
	return orb.Point{lon, lat}, nil
}

// openStores returns the texture and font stores for the configured backend.
func openStores(ctx context.Context, cfg config) (assets.Store, assets.Store, error) {
	switch cfg.backend {
	case "local":
		return assets.NewLocalStore(cfg.textures), assets.NewLocalStore(cfg.fontRoot), nil

	case "minio":
		if cfg.bucket == "" {
			return nil, nil, fmt.Errorf("minio backend requires -bucket")
		}
		client, err := minio.Dial(cfg.endpoint, cfg.accessKey, cfg.secretKey, cfg.secure)
		if err != nil {
			return nil, nil, fmt.Errorf("dial minio: %w", err)
		}
		return minio.NewStore(client, cfg.bucket, cfg.textures), minio.NewStore(client, cfg.bucket, cfg.fontRoot), nil

	case "s3":
		if cfg.bucket == "" {
			return nil, nil, fmt.Errorf("s3 backend requires -bucket")
		}
		client, err := s3.NewClient(ctx, cfg.region)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3.NewStore(client, cfg.bucket, cfg.textures), s3.NewStore(client, cfg.bucket, cfg.fontRoot), nil

	default:
		return nil, nil, fmt.Errorf("unknown asset backend %q", cfg.backend)
	}
}

func newLogger(cfg config) *labels.Logger {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	if cfg.json {
		return labels.NewJSONLogger(level)
	}
	return labels.NewTextLogger(level)
}

func run(cfg config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	defer cancel()

	logger := newLogger(cfg)

	textureStore, fontStore, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}

	opts := labels.DefaultOptions()
	opts.DatasetNames = strings.Split(cfg.datasets, ",")
	opts.TextureStore = textureStore
	opts.FontStore = fontStore
	opts.FontPath = cfg.font
	opts.FontFallbackPath = cfg.fallback
	opts.Logger = logger

	if cfg.origin != "" {
		origin, err := parseOrigin(cfg.origin)
		if err != nil {
			return err
		}
		opts.Projector = labels.NewLocalMercator(origin)
	}

	pipeline := labels.NewPipeline(opts)

	if cfg.preload {
		n := pipeline.Preload(ctx)
		logger.InfoContext(ctx, "textures preloaded", "count", n)
	}

	start := time.Now()
	group := pipeline.RunDir(ctx, cfg.dir)
	elapsed := time.Since(start)

	if err := group.Save(cfg.out); err != nil {
		return fmt.Errorf("save labels: %w", err)
	}

	fmt.Printf("Dataset:  %s\n", group.Stats.Dataset)
	fmt.Printf("Labels:   %d of %d candidates\n", group.Len(), group.Stats.Candidates)
	fmt.Printf("Textures: %d\n", group.Stats.Textures)
	fmt.Printf("Elapsed:  %v\n", elapsed)
	fmt.Printf("Output:   %s\n", cfg.out)
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "labelgen: %v\n", err)
		os.Exit(1)
	}
}
