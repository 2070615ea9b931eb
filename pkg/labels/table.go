package labels

import (
	"errors"

	"github.com/beetlebugorg/maplabels/internal/parser"
)

// ErrTableNotLoaded is the error type reported when an attribute table file
// cannot be opened.
type ErrTableNotLoaded = parser.ErrTableNotLoaded

// AttributeRecord is one row of the attribute table. Name keeps its original
// case; Type and Subtype are lowercased.
type AttributeRecord struct {
	Name    string
	Type    string
	Subtype string
}

// AttributeTable is the parsed companion table of a geometry source.
type AttributeTable struct {
	Path string

	// Loaded is false when the file could not be opened. A table that did
	// not load contributes zero usable records even if Records is non-empty.
	Loaded bool

	DeclaredCount int
	Truncated     bool
	Records       []AttributeRecord
}

// Usable returns the records that may be correlated with geometry.
func (t *AttributeTable) Usable() []AttributeRecord {
	if t == nil || !t.Loaded {
		return nil
	}
	return t.Records
}

// ReadAttributeTable parses the dBASE table at path.
//
// A table that cannot be opened is returned with Loaded=false together with
// an *ErrTableNotLoaded error. Truncated files are not an error.
func ReadAttributeTable(path string) (*AttributeTable, error) {
	table := &AttributeTable{Path: path}

	parsed, err := parser.ReadTable(path, parser.DefaultTableOptions())
	if err != nil {
		var notLoaded *parser.ErrTableNotLoaded
		if !errors.As(err, &notLoaded) {
			err = &parser.ErrTableNotLoaded{Path: path, Err: err}
		}
		return table, err
	}

	table.Loaded = true
	table.DeclaredCount = int(parsed.DeclaredCount)
	table.Truncated = parsed.Truncated
	table.Records = make([]AttributeRecord, len(parsed.Records))
	for i, rec := range parsed.Records {
		table.Records[i] = AttributeRecord{
			Name:    rec.Name,
			Type:    rec.Type,
			Subtype: rec.Subtype,
		}
	}
	return table, nil
}

// NewAttributeTable wraps records that were obtained elsewhere as a loaded
// table.
func NewAttributeTable(records []AttributeRecord) *AttributeTable {
	return &AttributeTable{
		Loaded:        true,
		DeclaredCount: len(records),
		Records:       records,
	}
}
