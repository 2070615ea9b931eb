package labels

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/maplabels/pkg/assets"
)

type column struct {
	name   string
	length int
}

// dbfBytes encodes a dBASE III table with character columns.
func dbfBytes(cols []column, declared uint32, rows [][]string) []byte {
	recordLen := 1
	for _, c := range cols {
		recordLen += c.length
	}
	headerLen := 32 + 32*len(cols) + 1

	var buf bytes.Buffer
	header := make([]byte, 32)
	header[0] = 0x03
	binary.LittleEndian.PutUint32(header[4:8], declared)
	binary.LittleEndian.PutUint16(header[8:10], uint16(headerLen))
	binary.LittleEndian.PutUint16(header[10:12], uint16(recordLen))
	buf.Write(header)

	for _, c := range cols {
		desc := make([]byte, 32)
		copy(desc[:11], c.name)
		desc[11] = 'C'
		desc[16] = byte(c.length)
		buf.Write(desc)
	}
	buf.WriteByte(0x0D)

	for _, row := range rows {
		buf.WriteByte(' ')
		for i, c := range cols {
			cell := bytes.Repeat([]byte{' '}, c.length)
			if i < len(row) {
				copy(cell, row[i])
			}
			buf.Write(cell)
		}
	}
	return buf.Bytes()
}

// shpPointsBytes encodes a Point shapefile.
func shpPointsBytes(points [][2]float64) []byte {
	var body bytes.Buffer
	for i, p := range points {
		binary.Write(&body, binary.BigEndian, int32(i+1))
		binary.Write(&body, binary.BigEndian, int32(10)) // 20 bytes
		binary.Write(&body, binary.LittleEndian, int32(1))
		binary.Write(&body, binary.LittleEndian, p[0])
		binary.Write(&body, binary.LittleEndian, p[1])
	}

	header := make([]byte, 100)
	binary.BigEndian.PutUint32(header[0:4], 9994)
	binary.BigEndian.PutUint32(header[24:28], uint32((100+body.Len())/2))
	binary.LittleEndian.PutUint32(header[28:32], 1000)
	binary.LittleEndian.PutUint32(header[32:36], 1)
	return append(header, body.Bytes()...)
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// ttfBytes is just enough of a TrueType file to pass the signature check.
func ttfBytes() []byte {
	return append([]byte{0x00, 0x01, 0x00, 0x00}, make([]byte, 12)...)
}

// textureStore holds a valid PNG for each key.
func textureStore(t *testing.T, keys ...string) *assets.MemoryStore {
	t.Helper()
	store := assets.NewMemoryStore(nil)
	for _, k := range keys {
		store.Put(k, pngBytes(t))
	}
	return store
}
