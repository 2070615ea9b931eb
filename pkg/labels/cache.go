package labels

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF textures
	_ "image/jpeg" // register JPEG textures
	_ "image/png"  // register PNG textures

	"github.com/beetlebugorg/maplabels/pkg/assets"
)

// lazyCache maps keys to values filled on first successful load.
//
// Failed loads are not remembered: a key whose loader keeps failing is
// retried on every lookup. Entries are never evicted.
type lazyCache[V any] struct {
	entries map[string]V
}

func newLazyCache[V any]() *lazyCache[V] {
	return &lazyCache[V]{entries: make(map[string]V)}
}

// getOrLoad returns the cached value for key, calling load on a miss.
func (c *lazyCache[V]) getOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries[key] = v
	return v, nil
}

func (c *lazyCache[V]) len() int {
	return len(c.entries)
}

// BlendFactor is a source or destination blend factor.
type BlendFactor int

const (
	BlendOne BlendFactor = iota
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

// RenderBin orders drawing in the host renderer.
type RenderBin int

const (
	OpaqueBin RenderBin = iota
	TransparentBin
)

// TextureFilter is a texture sampling filter.
type TextureFilter int

const (
	FilterLinear TextureFilter = iota
	FilterLinearMipmapLinear
)

// RenderState is the draw state shared by every quad using a texture.
type RenderState struct {
	BlendSrc  BlendFactor
	BlendDst  BlendFactor
	Bin       RenderBin
	Lighting  bool
	MinFilter TextureFilter
	MagFilter TextureFilter
}

// iconState is alpha-blended, drawn in the transparent bin, unlit.
var iconState = RenderState{
	BlendSrc:  BlendSrcAlpha,
	BlendDst:  BlendOneMinusSrcAlpha,
	Bin:       TransparentBin,
	Lighting:  false,
	MinFilter: FilterLinearMipmapLinear,
	MagFilter: FilterLinear,
}

// Texture is a decoded icon image.
type Texture struct {
	Format string // "png", "jpeg", "gif"
	Image  image.Image
}

// Width returns the image width in pixels.
func (t *Texture) Width() int { return t.Image.Bounds().Dx() }

// Height returns the image height in pixels.
func (t *Texture) Height() int { return t.Image.Bounds().Dy() }

// Resource is a texture bundled with its render state. A Resource is owned
// by the ResourceCache and shared read-only by every node using its key.
type Resource struct {
	Key     string
	Texture *Texture
	State   RenderState
}

// Font is the shared label font.
type Font struct {
	Path string
	Data []byte
}

// fontSlot is the single key of the font cache.
const fontSlot = "font"

// CacheStats holds cache counters.
type CacheStats struct {
	Textures    int // distinct textures resolved
	Loads       int // underlying asset loads attempted
	Failures    int // loads that failed
	FontLoaded  bool
	FontAttempt int // font paths tried
}

// ResourceCache resolves icon keys to shared Resources and holds the shared
// font. Each key is loaded at most once successfully; lookups after that
// return the identical *Resource.
//
// ResourceCache is not safe for concurrent use.
type ResourceCache struct {
	textures *lazyCache[*Resource]
	font     *lazyCache[*Font]

	textureStore assets.Store
	fontStore    assets.Store
	fontPaths    []string
	logger       *Logger

	stats CacheStats
}

// NewResourceCache creates a cache reading textures from textureStore and the
// font from fontStore. fontPaths are tried in order.
func NewResourceCache(textureStore, fontStore assets.Store, fontPaths []string, logger *Logger) *ResourceCache {
	if logger == nil {
		logger = NoopLogger()
	}
	return &ResourceCache{
		textures:     newLazyCache[*Resource](),
		font:         newLazyCache[*Font](),
		textureStore: textureStore,
		fontStore:    fontStore,
		fontPaths:    fontPaths,
		logger:       logger,
	}
}

// GetOrLoad returns the Resource for key, loading <root>/<key> on first use.
//
// It returns nil for an empty key or when the texture cannot be loaded; a
// warning is logged and the failure is not cached.
func (c *ResourceCache) GetOrLoad(ctx context.Context, key string) *Resource {
	if key == "" {
		return nil
	}
	res, err := c.textures.getOrLoad(key, func() (*Resource, error) {
		return c.loadTexture(ctx, key)
	})
	if err != nil {
		c.logger.LogTextureMiss(ctx, key, err)
		return nil
	}
	return res
}

func (c *ResourceCache) loadTexture(ctx context.Context, key string) (*Resource, error) {
	c.stats.Loads++
	if c.textureStore == nil {
		c.stats.Failures++
		return nil, errors.New("no texture store configured")
	}

	data, err := assets.ReadAll(ctx, c.textureStore, key)
	if err != nil {
		c.stats.Failures++
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.stats.Failures++
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	return &Resource{
		Key:     key,
		Texture: &Texture{Format: format, Image: img},
		State:   iconState,
	}, nil
}

// Preload resolves keys ahead of the first pipeline run and returns how
// many resolved.
func (c *ResourceCache) Preload(ctx context.Context, keys []string) int {
	n := 0
	for _, key := range keys {
		if c.GetOrLoad(ctx, key) != nil {
			n++
		}
	}
	return n
}

// Font returns the shared font, loading it on first use. Each configured
// path is tried in order and the outcome is kept: nil means none could be
// loaded, the host renderer's default applies, and later calls return nil
// without touching the store again.
func (c *ResourceCache) Font(ctx context.Context) *Font {
	font, _ := c.font.getOrLoad(fontSlot, func() (*Font, error) {
		return c.loadFont(ctx), nil
	})
	return font
}

func (c *ResourceCache) loadFont(ctx context.Context) *Font {
	if c.fontStore == nil || len(c.fontPaths) == 0 {
		return nil
	}

	for _, path := range c.fontPaths {
		c.stats.FontAttempt++
		data, err := assets.ReadAll(ctx, c.fontStore, path)
		if err == nil {
			err = checkFont(data)
		}
		if err != nil {
			c.logger.LogFontMiss(ctx, path, err)
			continue
		}
		return &Font{Path: path, Data: data}
	}
	return nil
}

// checkFont accepts TrueType, OpenType and TrueType collection files.
func checkFont(data []byte) error {
	if len(data) < 4 {
		return errors.New("font file too short")
	}
	switch string(data[:4]) {
	case "\x00\x01\x00\x00", "OTTO", "true", "ttcf":
		return nil
	}
	return fmt.Errorf("unrecognized font signature %q", data[:4])
}

// Len returns the number of distinct textures held.
func (c *ResourceCache) Len() int {
	return c.textures.len()
}

// Stats returns cache statistics.
func (c *ResourceCache) Stats() CacheStats {
	s := c.stats
	s.Textures = c.textures.len()
	s.FontLoaded = c.font.entries[fontSlot] != nil
	return s
}
