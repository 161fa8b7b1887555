package chunk

import (
	"bytes"
	"fmt"

	"github.com/ZaninAndrea/tsfile/internal/format"
	"github.com/ZaninAndrea/tsfile/internal/stats"
)

// ChunkBuffer accumulates the completed pages of one in-progress chunk, each
// preceded by its page header, and tracks the chunk-level timestamp bounds.
// Pages appear in the emitted chunk in insertion order.
type ChunkBuffer struct {
	schema *MeasurementSchema

	buf *bytes.Buffer
	sw  *format.StructuredWriter

	numPages      int
	minTimestamp  int64
	maxTimestamp  int64
	hasTimestamps bool
}

func NewChunkBuffer(schema *MeasurementSchema) *ChunkBuffer {
	b := &ChunkBuffer{schema: schema}
	b.release()
	return b
}

// WritePageHeaderAndData appends one completed page: its header, derived from
// the arguments, followed by the payload bytes.
func (b *ChunkBuffer) WritePageHeaderAndData(payload []byte, valueCount int, pageStats stats.Statistics, maxTimestamp, minTimestamp int64) error {
	if pageStats.DataType() != b.schema.Type {
		return fmt.Errorf("%w: %s statistics on a %s series", ErrPageRejected, pageStats.DataType(), b.schema.Type)
	}
	if int64(valueCount) != pageStats.Count() {
		return fmt.Errorf("%w: %d values but statistics count %d", ErrPageRejected, valueCount, pageStats.Count())
	}

	header := format.PageHeader{
		ValueCount:   int64(valueCount),
		PayloadSize:  int64(len(payload)),
		MaxTimestamp: maxTimestamp,
		MinTimestamp: minTimestamp,
	}
	if err := format.WritePageHeader(b.sw, header, pageStats); err != nil {
		return fmt.Errorf("%w: %s", ErrPageRejected, err)
	}
	if _, err := b.sw.Write(payload); err != nil {
		return fmt.Errorf("%w: %s", ErrPageRejected, err)
	}

	b.numPages++
	if !b.hasTimestamps {
		b.minTimestamp = minTimestamp
		b.maxTimestamp = maxTimestamp
		b.hasTimestamps = true
	} else {
		if minTimestamp < b.minTimestamp {
			b.minTimestamp = minTimestamp
		}
		if maxTimestamp > b.maxTimestamp {
			b.maxTimestamp = maxTimestamp
		}
	}

	return nil
}

// WriteAllPagesOfSeries emits the chunk header followed by all accumulated
// page bytes to the file writer, then clears the buffer.
func (b *ChunkBuffer) WriteAllPagesOfSeries(fw FileWriter, chunkStats stats.Statistics) error {
	header := format.ChunkHeader{
		SeriesID:  b.schema.ID,
		DataType:  b.schema.Type,
		TotalSize: int64(b.buf.Len()),
		NumPages:  int64(b.numPages),
	}

	if err := fw.StartChunk(header, chunkStats); err != nil {
		return err
	}
	if err := fw.AppendBytes(b.buf.Bytes()); err != nil {
		return err
	}
	if err := fw.EndChunk(); err != nil {
		return err
	}

	b.Reset()
	return nil
}

// Reset discards the accumulated pages and releases the underlying storage.
func (b *ChunkBuffer) Reset() {
	b.release()
	b.numPages = 0
	b.hasTimestamps = false
}

func (b *ChunkBuffer) release() {
	b.buf = &bytes.Buffer{}
	b.sw = format.NewStructuredWriter(b.buf)
}

func (b *ChunkBuffer) CurrentDataSize() int64 {
	return int64(b.buf.Len())
}

func (b *ChunkBuffer) NumOfPages() int {
	return b.numPages
}

func (b *ChunkBuffer) EstimateMaxPageMemSize() int64 {
	return int64(b.buf.Len())
}

// TimeRange returns the chunk-level timestamp bounds. ok is false while no
// page has been appended.
func (b *ChunkBuffer) TimeRange() (min, max int64, ok bool) {
	return b.minTimestamp, b.maxTimestamp, b.hasTimestamps
}
