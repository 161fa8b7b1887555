package tsfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZaninAndrea/tsfile/internal/chunk"
	"github.com/ZaninAndrea/tsfile/internal/format"
	"github.com/ZaninAndrea/tsfile/internal/stats"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func int64Stats(t *testing.T, values ...int64) stats.Statistics {
	t.Helper()

	s, err := stats.New(format.DataTypeInt64)
	require.NoError(t, err)
	for _, v := range values {
		require.NoError(t, s.Update(v))
	}
	return s
}

func TestSegmentLayout(t *testing.T) {
	var buf bytes.Buffer
	sw, err := NewSegmentWriter(nopWriteCloser{&buf})
	require.NoError(t, err)

	chunkStats := int64Stats(t, 5, 10)
	pageBytes := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	header := format.ChunkHeader{
		SeriesID:  "root.sg.d1.s1",
		DataType:  format.DataTypeInt64,
		TotalSize: int64(len(pageBytes)),
		NumPages:  1,
	}
	require.NoError(t, sw.StartChunk(header, chunkStats))
	require.NoError(t, sw.AppendBytes(pageBytes))
	require.NoError(t, sw.EndChunk())
	require.Equal(t, 1, sw.NumChunks())
	require.NoError(t, sw.Close())

	data := buf.Bytes()

	// magic and version up front
	require.Equal(t, []byte(MAGIC), data[:4])
	require.Equal(t, format.FORMAT_VERSION, binary.BigEndian.Uint32(data[4:8]))

	// magic again at the very end, preceded by the footer offset
	require.Equal(t, []byte(MAGIC), data[len(data)-4:])
	footerOffset := binary.BigEndian.Uint64(data[len(data)-12 : len(data)-4])

	// the chunk header sits right after the file header
	sr := format.NewStructuredReader(bytes.NewReader(data[8:]))
	decodedHeader, err := format.ReadChunkHeader(sr)
	require.NoError(t, err)
	require.Equal(t, header, decodedHeader)

	decodedStats, err := stats.Read(sr, format.DataTypeInt64)
	require.NoError(t, err)
	require.Equal(t, int64(2), decodedStats.Count())

	payload := make([]byte, len(pageBytes))
	_, err = io.ReadFull(sr, payload)
	require.NoError(t, err)
	require.Equal(t, pageBytes, payload)

	// the footer indexes the chunk by series id and offset
	footer := format.NewStructuredReader(bytes.NewReader(data[footerOffset:]))
	numChunks, err := footer.ReadUvarint()
	require.NoError(t, err)
	require.Equal(t, uint64(1), numChunks)

	seriesID, err := footer.ReadString()
	require.NoError(t, err)
	require.Equal(t, "root.sg.d1.s1", seriesID)

	offset, err := footer.ReadUInt64()
	require.NoError(t, err)
	require.Equal(t, uint64(8), offset)
}

func TestSegmentChunkStateGuards(t *testing.T) {
	var buf bytes.Buffer
	sw, err := NewSegmentWriter(nopWriteCloser{&buf})
	require.NoError(t, err)

	require.ErrorIs(t, sw.AppendBytes([]byte{1}), ErrNoOpenChunk)
	require.ErrorIs(t, sw.EndChunk(), ErrNoOpenChunk)

	header := format.ChunkHeader{SeriesID: "s", DataType: format.DataTypeInt64, TotalSize: 1, NumPages: 1}
	require.NoError(t, sw.StartChunk(header, int64Stats(t, 1)))
	require.ErrorIs(t, sw.StartChunk(header, int64Stats(t, 1)), ErrChunkOpen)
	require.ErrorIs(t, sw.Close(), ErrChunkOpen)

	// EndChunk enforces the declared size
	require.ErrorIs(t, sw.EndChunk(), ErrChunkSizeMismatch)
	require.NoError(t, sw.AppendBytes([]byte{0xFF}))
	require.NoError(t, sw.EndChunk())
	require.NoError(t, sw.Close())
}

func TestSegmentWriterFS(t *testing.T) {
	dir := t.TempDir()

	sw, err := NewSegmentWriterFS(dir)
	require.NoError(t, err)
	require.NotEmpty(t, sw.Path())
	require.Equal(t, ".tsf", filepath.Ext(sw.Path()))
	require.NoError(t, sw.Close())

	data, err := os.ReadFile(sw.Path())
	require.NoError(t, err)
	require.Equal(t, []byte(MAGIC), data[:4])
	require.Equal(t, []byte(MAGIC), data[len(data)-4:])
}

func TestSegmentEndToEnd(t *testing.T) {
	dir := t.TempDir()

	sw, err := NewSegmentWriterFS(dir)
	require.NoError(t, err)

	schema, err := chunk.DefaultSchema("root.sg.d1.s1", format.DataTypeInt64)
	require.NoError(t, err)

	writer, err := chunk.NewChunkWriter(schema, chunk.Options{
		PageSizeThreshold:   1000,
		PagePointUpperBound: 100,
	})
	require.NoError(t, err)

	for i := int64(0); i < 250; i++ {
		require.NoError(t, writer.Write(i, i*2))
	}
	require.NoError(t, writer.WriteToFileWriter(sw))
	require.NoError(t, sw.Close())

	data, err := os.ReadFile(sw.Path())
	require.NoError(t, err)

	sr := format.NewStructuredReader(bytes.NewReader(data[8:]))
	header, err := format.ReadChunkHeader(sr)
	require.NoError(t, err)
	require.Equal(t, "root.sg.d1.s1", header.SeriesID)
	// 250 points with a 100 point cap make three pages
	require.Equal(t, int64(3), header.NumPages)

	chunkStats, err := stats.Read(sr, format.DataTypeInt64)
	require.NoError(t, err)
	require.Equal(t, int64(250), chunkStats.Count())
}
