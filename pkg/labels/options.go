package labels

import (
	"github.com/beetlebugorg/maplabels/pkg/assets"
)

const (
	// DefaultTextureRoot is the directory holding icon textures.
	DefaultTextureRoot = "images/labelsTextures"

	// DefaultFontPath is tried first when loading the label font.
	DefaultFontPath = "fonts/arial.ttf"

	// DefaultFontFallbackPath is tried when DefaultFontPath cannot be loaded.
	DefaultFontFallbackPath = "arial.ttf"
)

// DefaultDatasetNames are the shapefile base names RunDir tries, in order.
var DefaultDatasetNames = []string{"test_pointss", "osm_points"}

// Options configures a Pipeline.
type Options struct {
	// DatasetNames are base names tried by RunDir. The first whose .shp
	// loads is used; its .dbf is the attribute table.
	DatasetNames []string

	// TextureStore resolves icon keys. Defaults to DefaultTextureRoot on the
	// local filesystem.
	TextureStore assets.Store

	// FontStore resolves FontPath and FontFallbackPath. Defaults to the
	// working directory.
	FontStore        assets.Store
	FontPath         string
	FontFallbackPath string

	// Projector maps raw shapefile coordinates to scene positions.
	// Nil means IdentityProjector.
	Projector Projector

	// Classifier selects icon keys. Nil means the built-in rule table.
	Classifier *Classifier

	// Logger receives diagnostics. Nil means NoopLogger.
	Logger *Logger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		DatasetNames:     append([]string(nil), DefaultDatasetNames...),
		TextureStore:     assets.NewLocalStore(DefaultTextureRoot),
		FontStore:        assets.NewLocalStore(""),
		FontPath:         DefaultFontPath,
		FontFallbackPath: DefaultFontFallbackPath,
		Projector:        IdentityProjector,
		Classifier:       defaultClassifier,
		Logger:           nil,
	}
}

// fontPaths returns the configured font paths, skipping empty entries.
func (o Options) fontPaths() []string {
	var paths []string
	for _, p := range []string{o.FontPath, o.FontFallbackPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
