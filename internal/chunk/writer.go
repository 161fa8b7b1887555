package chunk

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ZaninAndrea/tsfile/internal/format"
	"github.com/ZaninAndrea/tsfile/internal/stats"
)

// MINIMUM_RECORD_COUNT_FOR_CHECK is the number of points written to a fresh
// page before the encoder's memory estimate is consulted for the first time.
const MINIMUM_RECORD_COUNT_FOR_CHECK = 1500

// Options configures a ChunkWriter.
type Options struct {
	// PageSizeThreshold is the soft target for the serialised page payload in
	// bytes. A threshold of 0 flushes after every point (diagnostic mode).
	PageSizeThreshold int64

	// PagePointUpperBound is the hard cap on points per page.
	PagePointUpperBound int

	// MinimumRecordCountForCheck overrides MINIMUM_RECORD_COUNT_FOR_CHECK
	// when positive.
	MinimumRecordCountForCheck int

	Logger  log.Logger
	Metrics *Metrics
}

// ChunkWriter drives the write path of one series: it routes appends to the
// active page encoder, maintains page- and chunk-level statistics, decides
// when to seal the page, and emits the finished chunk to a file writer.
//
// A flush failure drops the failed page, logs it and bumps the dropped-pages
// counters; the writer stays usable with a fresh empty page. The points of a
// dropped page are unrecoverable.
type ChunkWriter struct {
	schema  *MeasurementSchema
	buffer  *ChunkBuffer
	encoder PageEncoder

	pageStats  stats.Statistics
	chunkStats stats.Statistics

	pageSizeThreshold   int64
	pagePointUpperBound int
	minRecordCount      int

	valueCountInPage int
	nextCheckAt      int
	lastTime         int64
	pageMinTimestamp int64
	hasPageMin       bool

	droppedPages  int
	droppedPoints int

	logger  log.Logger
	metrics *Metrics
}

func NewChunkWriter(schema *MeasurementSchema, opts Options) (*ChunkWriter, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: schema is required", ErrInvalidOptions)
	}
	if opts.PageSizeThreshold < 0 {
		return nil, fmt.Errorf("%w: page size threshold must be >= 0", ErrInvalidOptions)
	}
	if opts.PagePointUpperBound <= 0 {
		return nil, fmt.Errorf("%w: page point upper bound must be > 0", ErrInvalidOptions)
	}

	minRecordCount := opts.MinimumRecordCountForCheck
	if minRecordCount <= 0 {
		minRecordCount = MINIMUM_RECORD_COUNT_FOR_CHECK
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	encoder, err := NewPageEncoder(schema)
	if err != nil {
		return nil, err
	}

	pageStats, err := stats.New(schema.Type)
	if err != nil {
		return nil, err
	}
	chunkStats, err := stats.New(schema.Type)
	if err != nil {
		return nil, err
	}

	return &ChunkWriter{
		schema:              schema,
		buffer:              NewChunkBuffer(schema),
		encoder:             encoder,
		pageStats:           pageStats,
		chunkStats:          chunkStats,
		pageSizeThreshold:   opts.PageSizeThreshold,
		pagePointUpperBound: opts.PagePointUpperBound,
		minRecordCount:      minRecordCount,
		nextCheckAt:         minRecordCount,
		logger:              logger,
		metrics:             opts.Metrics,
	}, nil
}

func (w *ChunkWriter) Schema() *MeasurementSchema {
	return w.schema
}

// Write appends one point. The value must be the Go representation of the
// series type; a mismatch fails the call and leaves the writer unchanged.
// Timestamps are recorded as supplied, monotonicity is not enforced.
func (w *ChunkWriter) Write(t int64, v any) error {
	if !format.CheckValue(w.schema.Type, v) {
		return fmt.Errorf("%w: series %s (%s) got %T", format.ErrTypeMismatch, w.schema.ID, w.schema.Type, v)
	}

	w.lastTime = t
	if !w.hasPageMin {
		w.pageMinTimestamp = t
		w.hasPageMin = true
	}

	if err := w.encoder.Append(t, v); err != nil {
		return err
	}
	if err := w.pageStats.Update(v); err != nil {
		return err
	}
	w.valueCountInPage++
	if w.metrics != nil {
		w.metrics.PointsWritten.Inc()
	}

	w.checkPageSizeAndMaybeSealPage()
	return nil
}

// checkPageSizeAndMaybeSealPage is the flush predictor. The encoder's memory
// estimate is only consulted once the page has at least nextCheckAt points;
// while the page is below the size threshold the next check is projected
// forward assuming the payload grows linearly in the point count.
func (w *ChunkWriter) checkPageSizeAndMaybeSealPage() {
	if w.pageSizeThreshold == 0 {
		w.writePage()
		return
	}

	if w.valueCountInPage == w.pagePointUpperBound {
		w.writePage()
		return
	}

	if w.valueCountInPage < w.nextCheckAt {
		return
	}

	currentSize := w.encoder.EstimateMaxMemSize()
	if currentSize == 0 {
		// nothing to measure yet, look again after another full interval
		w.nextCheckAt = w.valueCountInPage + w.minRecordCount
		return
	}

	if currentSize > w.pageSizeThreshold {
		level.Debug(w.logger).Log(
			"msg", "page size threshold reached, sealing page",
			"series", w.schema.ID,
			"size", currentSize,
			"threshold", w.pageSizeThreshold,
			"values", w.valueCountInPage,
		)
		w.writePage()
		return
	}

	next := int(float64(w.pageSizeThreshold) / float64(currentSize) * float64(w.valueCountInPage))
	if next <= w.valueCountInPage {
		next = w.valueCountInPage + 1
	}
	w.nextCheckAt = next
}

// writePage seals the active page into the chunk buffer and folds its
// statistics into the chunk statistics. On failure the page is dropped and
// the writer continues with a fresh page.
func (w *ChunkWriter) writePage() {
	payload, err := w.encoder.SerializeUncompressed()
	if err != nil {
		w.dropPage("serialising page payload failed", err)
	} else if err := w.buffer.WritePageHeaderAndData(payload, w.valueCountInPage, w.pageStats, w.lastTime, w.pageMinTimestamp); err != nil {
		w.dropPage("buffering page failed", err)
	} else {
		if err := w.chunkStats.Merge(w.pageStats); err != nil {
			level.Error(w.logger).Log("msg", "merging page statistics failed", "series", w.schema.ID, "err", err)
		}
		if w.metrics != nil {
			w.metrics.PagesFlushed.Inc()
		}
	}

	w.hasPageMin = false
	w.valueCountInPage = 0
	w.encoder.Reset()
	w.pageStats, _ = stats.New(w.schema.Type)
	w.nextCheckAt = w.minRecordCount
}

func (w *ChunkWriter) dropPage(msg string, err error) {
	level.Error(w.logger).Log(
		"msg", msg+", dropping page",
		"series", w.schema.ID,
		"values", w.valueCountInPage,
		"err", err,
	)
	w.droppedPages++
	w.droppedPoints += w.valueCountInPage
	if w.metrics != nil {
		w.metrics.PagesDropped.Inc()
	}
}

// SealCurrentPage flushes the active page if it holds any points. Sealing an
// empty page is a no-op.
func (w *ChunkWriter) SealCurrentPage() {
	if w.valueCountInPage > 0 {
		w.writePage()
	}
}

// WriteToFileWriter seals the active page, emits the chunk through the file
// writer and resets the chunk state so the writer can start a new chunk on
// the same series. A file writer error fails the whole chunk and is returned.
func (w *ChunkWriter) WriteToFileWriter(fw FileWriter) error {
	w.SealCurrentPage()

	chunkSize := w.CurrentChunkSize()
	if err := w.buffer.WriteAllPagesOfSeries(fw, w.chunkStats); err != nil {
		return err
	}
	if w.metrics != nil {
		w.metrics.ChunkBytesWritten.Add(float64(chunkSize))
	}

	w.chunkStats, _ = stats.New(w.schema.Type)
	return nil
}

// EstimateMaxSeriesMemSize returns the bytes held in memory for this series:
// the live page encoder estimate plus the buffered pages.
func (w *ChunkWriter) EstimateMaxSeriesMemSize() int64 {
	return w.encoder.EstimateMaxMemSize() + w.buffer.EstimateMaxPageMemSize()
}

// CurrentChunkSize estimates the serialised size of the chunk as it stands:
// the chunk header followed by the buffered page bytes.
func (w *ChunkWriter) CurrentChunkSize() int64 {
	header := format.ChunkHeader{
		SeriesID:  w.schema.ID,
		DataType:  w.schema.Type,
		TotalSize: w.buffer.CurrentDataSize(),
		NumPages:  int64(w.buffer.NumOfPages()),
	}
	return format.ChunkHeaderSize(header, w.chunkStats) + w.buffer.CurrentDataSize()
}

func (w *ChunkWriter) NumOfPages() int {
	return w.buffer.NumOfPages()
}

// DroppedPages reports how many pages were dropped by flush failures since
// the writer was created.
func (w *ChunkWriter) DroppedPages() int {
	return w.droppedPages
}

// DroppedPoints reports how many points were lost in dropped pages.
func (w *ChunkWriter) DroppedPoints() int {
	return w.droppedPoints
}
