package parser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// dBASE table layout. All multi-byte header values are little-endian.
//
//	[0]      version
//	[1..4)   last update (YYMMDD)
//	[4..8)   record count (uint32)
//	[8..10)  header length (uint16) - byte offset of the first record
//	[10..12) record length (uint16) - including the deletion flag byte
//	[32..)   field descriptors, 32 bytes each, terminated by 0x0D
const (
	tableHeaderSize     = 32
	fieldDescriptorSize = 32
	fieldNameSize       = 11
	fieldLengthOffset   = 16
	descriptorEnd       = 0x0D

	// maxPrealloc caps the record slice capacity taken from the header count,
	// which is untrusted.
	maxPrealloc = 4096
)

// AttributeRecord is one row of the attribute table.
//
// Name keeps its original case. Type and Subtype are lowercased.
type AttributeRecord struct {
	Name    string
	Type    string
	Subtype string
}

// FieldDescriptor describes one column of the table.
type FieldDescriptor struct {
	Name   string // lowercased, padding removed
	Offset int    // byte offset within a record; byte 0 is the deletion flag
	Length int
}

// Table is a parsed attribute table.
type Table struct {
	// DeclaredCount is the record count from the header.
	DeclaredCount uint32
	HeaderLength  uint16
	RecordLength  uint16
	Fields        []FieldDescriptor
	Records       []AttributeRecord

	// Truncated is set when the file ended before DeclaredCount complete
	// records could be read.
	Truncated bool
}

// TableOptions selects the columns mapped onto AttributeRecord.
type TableOptions struct {
	// NameField, TypeField and SubtypeField are matched case-insensitively
	// as prefixes of the column name. The first matching column wins.
	NameField    string
	TypeField    string
	SubtypeField string

	// DefaultType is used when no column matches TypeField.
	DefaultType string
}

// DefaultTableOptions returns the column mapping used for OSM point exports.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		NameField:    "name",
		TypeField:    "type",
		SubtypeField: "subtype",
		DefaultType:  "default",
	}
}

// fieldSlot locates a selected column inside a record block.
type fieldSlot struct {
	offset int
	length int
	found  bool
}

func (s fieldSlot) extract(block []byte) string {
	if !s.found || s.offset >= len(block) {
		return ""
	}
	end := s.offset + s.length
	if end > len(block) {
		end = len(block)
	}
	return CleanString(string(block[s.offset:end]))
}

// ReadTable opens and parses the attribute table at path.
//
// The only failure is a file that cannot be opened, reported as
// *ErrTableNotLoaded. Short or truncated files parse to as many complete
// records as they contain.
func ReadTable(path string, opts TableOptions) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ErrTableNotLoaded{Path: path, Err: err}
	}
	return ParseTable(bytes.NewReader(data), opts)
}

// ParseTable parses an attribute table from r, starting at offset 0.
func ParseTable(r io.ReadSeeker, opts TableOptions) (*Table, error) {
	table := &Table{}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to table header: %w", err)
	}

	header := make([]byte, tableHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if isShortRead(err) {
			// Not even a header: nothing usable, but the file did load.
			table.Truncated = true
			return table, nil
		}
		return nil, fmt.Errorf("read table header: %w", err)
	}

	table.DeclaredCount = binary.LittleEndian.Uint32(header[4:8])
	table.HeaderLength = binary.LittleEndian.Uint16(header[8:10])
	table.RecordLength = binary.LittleEndian.Uint16(header[10:12])

	var name, typ, subtype fieldSlot

	// Offsets start at 1; byte 0 of every record is the deletion flag.
	offset := 1
	pos := int64(tableHeaderSize)
	desc := make([]byte, fieldDescriptorSize)
	for pos < int64(table.HeaderLength)-1 {
		n, err := io.ReadFull(r, desc)
		pos += int64(n)
		if err != nil {
			if isShortRead(err) {
				break
			}
			return nil, fmt.Errorf("read field descriptor %d: %w", len(table.Fields), err)
		}
		if desc[0] == descriptorEnd {
			break
		}

		field := FieldDescriptor{
			Name:   fieldName(desc[:fieldNameSize]),
			Offset: offset,
			Length: int(desc[fieldLengthOffset]),
		}
		table.Fields = append(table.Fields, field)

		matchField(&name, field, opts.NameField)
		matchField(&typ, field, opts.TypeField)
		matchField(&subtype, field, opts.SubtypeField)

		offset += field.Length
	}

	if _, err := r.Seek(int64(table.HeaderLength), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to first record: %w", err)
	}

	if table.RecordLength == 0 {
		return table, nil
	}

	capacity := table.DeclaredCount
	if capacity > maxPrealloc {
		capacity = maxPrealloc
	}
	table.Records = make([]AttributeRecord, 0, capacity)

	block := make([]byte, table.RecordLength)
	for i := uint32(0); i < table.DeclaredCount; i++ {
		if _, err := io.ReadFull(r, block); err != nil {
			if isShortRead(err) {
				table.Truncated = true
				break
			}
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}

		rec := AttributeRecord{
			Name:    name.extract(block),
			Subtype: subtype.extract(block),
		}
		if typ.found {
			rec.Type = typ.extract(block)
		} else {
			rec.Type = opts.DefaultType
		}
		rec.Type = lowerASCII(rec.Type)
		rec.Subtype = lowerASCII(rec.Subtype)

		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// matchField records field in slot if its name starts with prefix and the
// slot is still empty.
func matchField(slot *fieldSlot, field FieldDescriptor, prefix string) {
	if slot.found || prefix == "" {
		return
	}
	if strings.HasPrefix(field.Name, lowerASCII(prefix)) {
		*slot = fieldSlot{offset: field.Offset, length: field.Length, found: true}
	}
}

// fieldName decodes a NUL-terminated, space-padded descriptor name.
func fieldName(raw []byte) string {
	for i, b := range raw {
		if b == 0 {
			raw = raw[:i]
			break
		}
	}
	return lowerASCII(strings.TrimRight(string(raw), " "))
}

func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
