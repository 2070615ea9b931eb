package labels

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// groupFormatVersion is bumped when the exported layout changes.
const groupFormatVersion = 1

type groupFile struct {
	Version int           `json:"version"`
	Stats   RunStats      `json:"stats"`
	Labels  []labelRecord `json:"labels"`
}

type labelRecord struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Subtype string  `json:"subtype,omitempty"`
	Icon    string  `json:"icon,omitempty"`
	Font    string  `json:"font,omitempty"`
}

// WriteJSON writes the group as JSON. Textures and font data are referenced
// by key and path, not embedded.
func (g *Group) WriteJSON(w io.Writer) error {
	file := groupFile{
		Version: groupFormatVersion,
		Stats:   g.Stats,
		Labels:  make([]labelRecord, len(g.Nodes)),
	}
	for i, n := range g.Nodes {
		rec := labelRecord{
			X:       n.Anchor.X(),
			Y:       n.Anchor.Y(),
			Z:       n.Anchor.Z(),
			Name:    n.Label.Name,
			Type:    n.Label.Type,
			Subtype: n.Label.Subtype,
			Icon:    n.IconKey,
		}
		if n.Text != nil && n.Text.Font != nil {
			rec.Font = n.Text.Font.Path
		}
		file.Labels[i] = rec
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(file)
}

// ReadJSON reads a group written by WriteJSON. Icons come back as Resources
// carrying only their key and render state; resolve them through a
// ResourceCache to attach textures.
func ReadJSON(r io.Reader) (*Group, error) {
	var file groupFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode group: %w", err)
	}
	if file.Version != groupFormatVersion {
		return nil, fmt.Errorf("unsupported group version %d", file.Version)
	}

	fonts := map[string]*Font{}
	nodes := make([]*Node, len(file.Labels))
	for i, rec := range file.Labels {
		var icon *Resource
		if rec.Icon != "" {
			icon = &Resource{Key: rec.Icon, State: iconState}
		}
		var font *Font
		if rec.Font != "" {
			font = fonts[rec.Font]
			if font == nil {
				font = &Font{Path: rec.Font}
				fonts[rec.Font] = font
			}
		}
		nodes[i] = BuildNode(LabelData{
			Position: NewPosition(rec.X, rec.Y, rec.Z),
			Name:     rec.Name,
			Type:     rec.Type,
			Subtype:  rec.Subtype,
		}, icon, font)
	}
	return NewGroup(nodes, file.Stats), nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Save writes the group to path, zstd-compressed when path ends in ".zst".
func (g *Group) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := g.write(file, compressed(path)); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (g *Group) write(w io.Writer, zstdFramed bool) error {
	bufWriter := bufio.NewWriterSize(w, 1<<20)
	if !zstdFramed {
		if err := g.WriteJSON(bufWriter); err != nil {
			return err
		}
		return bufWriter.Flush()
	}

	enc, err := zstd.NewWriter(bufWriter, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := g.WriteJSON(enc); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	if err := bufWriter.Flush(); err != nil {
		return fmt.Errorf("flush buffer: %w", err)
	}
	return nil
}

// Load reads a group saved with Save.
func Load(path string) (*Group, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if !compressed(path) {
		return ReadJSON(bufio.NewReader(file))
	}

	dec, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer dec.Close()
	return ReadJSON(dec)
}
