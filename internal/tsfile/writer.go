package tsfile

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/uuid"

	"github.com/ZaninAndrea/tsfile/internal/chunk"
	"github.com/ZaninAndrea/tsfile/internal/format"
	"github.com/ZaninAndrea/tsfile/internal/stats"
)

// A segment file holds the sealed chunks of many series:
// - The magic bytes and the format version (uint32)
// - For each chunk: the chunk header and its page bytes, as emitted by the
//   chunk buffer
// - The footer:
// 	- The number of chunks (uvarint)
// 	- For each chunk: the series id (length-prefixed) and its file offset (uint64)
// - The footer offset (uint64) and the magic bytes again, so the footer can be
//   located from the end of the file

const MAGIC = "TSF1"

var ErrChunkOpen = fmt.Errorf("a chunk is already open")
var ErrNoOpenChunk = fmt.Errorf("no chunk is open")
var ErrChunkSizeMismatch = fmt.Errorf("appended bytes do not match the declared chunk size")

type chunkIndexEntry struct {
	seriesID string
	offset   uint64
}

// SegmentWriter writes chunks sequentially into a single segment file. It is
// the downstream side of ChunkWriter.WriteToFileWriter; callers writing
// multiple series serialise their access to it.
type SegmentWriter struct {
	w    *format.StructuredWriter
	file io.WriteCloser
	path string

	index     []chunkIndexEntry
	inChunk   bool
	remaining int64
}

var _ chunk.FileWriter = (*SegmentWriter)(nil)

func NewSegmentWriter(file io.WriteCloser) (*SegmentWriter, error) {
	sw := &SegmentWriter{
		w:    format.NewStructuredWriter(file),
		file: file,
	}

	if _, err := sw.w.Write([]byte(MAGIC)); err != nil {
		return nil, err
	}
	if err := sw.w.WriteUInt32(format.FORMAT_VERSION); err != nil {
		return nil, err
	}

	return sw, nil
}

// NewSegmentWriterFS creates a freshly named segment file inside folder.
func NewSegmentWriterFS(folder string) (*SegmentWriter, error) {
	name := uuid.NewString() + ".tsf"
	file, err := os.Create(path.Join(folder, name))
	if err != nil {
		return nil, err
	}

	sw, err := NewSegmentWriter(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	sw.path = path.Join(folder, name)
	return sw, nil
}

// Path returns the file path of the segment, or "" when the writer was built
// on a plain io.WriteCloser.
func (sw *SegmentWriter) Path() string {
	return sw.path
}

func (sw *SegmentWriter) StartChunk(header format.ChunkHeader, chunkStats stats.Statistics) error {
	if sw.inChunk {
		return ErrChunkOpen
	}

	sw.index = append(sw.index, chunkIndexEntry{
		seriesID: header.SeriesID,
		offset:   sw.w.Offset(),
	})

	if err := format.WriteChunkHeader(sw.w, header, chunkStats); err != nil {
		return err
	}

	sw.inChunk = true
	sw.remaining = header.TotalSize
	return nil
}

func (sw *SegmentWriter) AppendBytes(p []byte) error {
	if !sw.inChunk {
		return ErrNoOpenChunk
	}

	if _, err := sw.w.Write(p); err != nil {
		return err
	}
	sw.remaining -= int64(len(p))
	return nil
}

func (sw *SegmentWriter) EndChunk() error {
	if !sw.inChunk {
		return ErrNoOpenChunk
	}
	if sw.remaining != 0 {
		return fmt.Errorf("%w: %d bytes unaccounted for", ErrChunkSizeMismatch, sw.remaining)
	}

	sw.inChunk = false
	return nil
}

// NumChunks returns the number of chunks started so far.
func (sw *SegmentWriter) NumChunks() int {
	return len(sw.index)
}

// Close writes the footer and closes the underlying file.
func (sw *SegmentWriter) Close() error {
	if sw.inChunk {
		return ErrChunkOpen
	}

	footerOffset := sw.w.Offset()
	if err := sw.w.WriteUvarint(uint64(len(sw.index))); err != nil {
		return err
	}
	for _, entry := range sw.index {
		if err := sw.w.WriteString(entry.seriesID); err != nil {
			return err
		}
		if err := sw.w.WriteUInt64(entry.offset); err != nil {
			return err
		}
	}
	if err := sw.w.WriteUInt64(footerOffset); err != nil {
		return err
	}
	if _, err := sw.w.Write([]byte(MAGIC)); err != nil {
		return err
	}

	return sw.file.Close()
}
