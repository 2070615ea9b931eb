package parser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testField struct {
	name   string
	length byte
}

// buildTable encodes a dBASE III table. Row values are space-padded or cut
// to the field length.
func buildTable(fields []testField, declared uint32, rows [][]string) []byte {
	recordLen := 1
	for _, f := range fields {
		recordLen += int(f.length)
	}
	headerLen := tableHeaderSize + fieldDescriptorSize*len(fields) + 1

	var buf bytes.Buffer
	header := make([]byte, tableHeaderSize)
	header[0] = 0x03
	binary.LittleEndian.PutUint32(header[4:8], declared)
	binary.LittleEndian.PutUint16(header[8:10], uint16(headerLen))
	binary.LittleEndian.PutUint16(header[10:12], uint16(recordLen))
	buf.Write(header)

	for _, f := range fields {
		desc := make([]byte, fieldDescriptorSize)
		copy(desc[:fieldNameSize], f.name)
		desc[11] = 'C'
		desc[fieldLengthOffset] = f.length
		buf.Write(desc)
	}
	buf.WriteByte(descriptorEnd)

	for _, row := range rows {
		buf.WriteByte(' ')
		for i, f := range fields {
			cell := bytes.Repeat([]byte{' '}, int(f.length))
			if i < len(row) {
				copy(cell, row[i])
			}
			buf.Write(cell)
		}
	}
	return buf.Bytes()
}

func parseBytes(t *testing.T, data []byte) *Table {
	t.Helper()
	table, err := ParseTable(bytes.NewReader(data), DefaultTableOptions())
	require.NoError(t, err)
	return table
}

func TestParseTable(t *testing.T) {
	data := buildTable(
		[]testField{{"NAME", 12}, {"TYPE", 10}, {"SUBTYPE", 12}},
		2,
		[][]string{
			{"Old Town Pub", "Amenity", "PUB"},
			{"  Main St", "Highway", "Bus_Stop"},
		},
	)

	table := parseBytes(t, data)
	assert.Equal(t, uint32(2), table.DeclaredCount)
	assert.False(t, table.Truncated)
	require.Len(t, table.Records, 2)

	assert.Equal(t, AttributeRecord{Name: "Old Town Pub", Type: "amenity", Subtype: "pub"}, table.Records[0])
	assert.Equal(t, AttributeRecord{Name: "Main St", Type: "highway", Subtype: "bus_stop"}, table.Records[1])
}

func TestParseTableFieldOffsets(t *testing.T) {
	data := buildTable([]testField{{"OSM_ID", 10}, {"NAME", 20}, {"TYPE", 8}}, 0, nil)

	table := parseBytes(t, data)
	require.Len(t, table.Fields, 3)
	assert.Equal(t, FieldDescriptor{Name: "osm_id", Offset: 1, Length: 10}, table.Fields[0])
	assert.Equal(t, FieldDescriptor{Name: "name", Offset: 11, Length: 20}, table.Fields[1])
	assert.Equal(t, FieldDescriptor{Name: "type", Offset: 31, Length: 8}, table.Fields[2])
	assert.Empty(t, table.Records)
}

func TestParseTablePrefixMatch(t *testing.T) {
	// "NAME_" matches "name"; the later "NAME_EN" does not replace it.
	data := buildTable(
		[]testField{{"NAME_", 10}, {"NAME_EN", 10}, {"TYPE", 8}},
		1,
		[][]string{{"Rynek", "Market", "square"}},
	)

	table := parseBytes(t, data)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Rynek", table.Records[0].Name)
	assert.Equal(t, "square", table.Records[0].Type)
}

func TestParseTableMissingColumns(t *testing.T) {
	data := buildTable([]testField{{"OSM_ID", 10}}, 1, [][]string{{"12345"}})

	table := parseBytes(t, data)
	require.Len(t, table.Records, 1)
	assert.Equal(t, AttributeRecord{Name: "", Type: "default", Subtype: ""}, table.Records[0])
}

func TestParseTableDefaultTypeLowercased(t *testing.T) {
	data := buildTable([]testField{{"NAME", 10}}, 1, [][]string{{"Kiosk"}})

	opts := DefaultTableOptions()
	opts.DefaultType = "POI"
	table, err := ParseTable(bytes.NewReader(data), opts)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "poi", table.Records[0].Type)
}

func TestParseTableTruncated(t *testing.T) {
	fields := []testField{{"NAME", 10}, {"TYPE", 8}}
	data := buildTable(fields, 3, [][]string{{"First", "cafe"}, {"Second", "bar"}, {"Third", "pub"}})

	// Cut the last record in half.
	recordLen := 1 + 10 + 8
	data = data[:len(data)-recordLen/2]

	table := parseBytes(t, data)
	assert.True(t, table.Truncated)
	require.Len(t, table.Records, 2)
	assert.LessOrEqual(t, uint32(len(table.Records)), table.DeclaredCount)
	assert.Equal(t, "Second", table.Records[1].Name)
}

func TestParseTableDeclaredCountBounds(t *testing.T) {
	fields := []testField{{"NAME", 10}}
	data := buildTable(fields, 1, [][]string{{"Only"}, {"Ignored"}})

	table := parseBytes(t, data)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Only", table.Records[0].Name)
	assert.False(t, table.Truncated)
}

func TestParseTableShortHeader(t *testing.T) {
	table := parseBytes(t, []byte{0x03, 0x7A, 0x01})
	assert.Empty(t, table.Records)
	assert.True(t, table.Truncated)
}

func TestParseTableTerminatorStopsDescriptors(t *testing.T) {
	data := buildTable([]testField{{"NAME", 10}}, 0, nil)

	// Append a bogus descriptor after the terminator and grow the header
	// length to cover it.
	bogus := make([]byte, fieldDescriptorSize)
	copy(bogus, "TYPE")
	bogus[fieldLengthOffset] = 8
	data = append(data, bogus...)
	binary.LittleEndian.PutUint16(data[8:10], uint16(len(data)))

	table := parseBytes(t, data)
	require.Len(t, table.Fields, 1)
	assert.Equal(t, "name", table.Fields[0].Name)
}

func TestParseTableHeaderLengthStopsDescriptors(t *testing.T) {
	data := buildTable([]testField{{"NAME", 10}, {"TYPE", 8}}, 0, nil)

	// Header length now ends right after the first descriptor.
	binary.LittleEndian.PutUint16(data[8:10], uint16(tableHeaderSize+fieldDescriptorSize+1))

	table := parseBytes(t, data)
	require.Len(t, table.Fields, 1)
	assert.Equal(t, "name", table.Fields[0].Name)
}

func TestParseTableZeroRecordLength(t *testing.T) {
	data := buildTable([]testField{{"NAME", 10}}, 5, nil)
	binary.LittleEndian.PutUint16(data[10:12], 0)

	table := parseBytes(t, data)
	assert.Empty(t, table.Records)
}

func TestParseTableFieldPastRecordEnd(t *testing.T) {
	data := buildTable([]testField{{"TYPE", 4}, {"NAME", 10}}, 1, [][]string{{"shop", "Bakery"}})

	// Shrink the record length so NAME is cut short. The second record
	// boundary moves too, but only one record is declared.
	binary.LittleEndian.PutUint16(data[10:12], 1+4+3)

	table := parseBytes(t, data)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "shop", table.Records[0].Type)
	assert.Equal(t, "Bak", table.Records[0].Name)
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.dbf")
	data := buildTable([]testField{{"NAME", 10}, {"TYPE", 8}}, 1, [][]string{{"Cafe Rex", "cafe"}})
	require.NoError(t, os.WriteFile(path, data, 0o644))

	table, err := ReadTable(path, DefaultTableOptions())
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Cafe Rex", table.Records[0].Name)
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "missing.dbf"), DefaultTableOptions())
	require.Error(t, err)

	var notLoaded *ErrTableNotLoaded
	require.True(t, errors.As(err, &notLoaded))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// BenchmarkParseTable parses a 10,000 record table from memory.
func BenchmarkParseTable(b *testing.B) {
	fields := []testField{{"NAME", 48}, {"TYPE", 16}, {"SUBTYPE", 16}}
	rows := make([][]string, 10000)
	for i := range rows {
		rows[i] = []string{"Cafe Rex", "amenity", "cafe"}
	}
	data := buildTable(fields, uint32(len(rows)), rows)
	opts := DefaultTableOptions()

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseTable(bytes.NewReader(data), opts); err != nil {
			b.Fatal(err)
		}
	}
}
