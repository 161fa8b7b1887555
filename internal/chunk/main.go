// Package chunk implements the per-series write path: points are appended to
// an in-memory page, pages are sealed into a chunk buffer when they approach
// the configured size, and the sealed chunk is handed to a file writer
// together with its aggregated statistics.
//
// None of the types in this package are safe for concurrent use. One writer
// per series is expected; concurrent series share only the downstream file
// writer, which the caller serialises.
package chunk

import (
	"fmt"

	"github.com/ZaninAndrea/tsfile/internal/format"
	"github.com/ZaninAndrea/tsfile/internal/stats"
)

var ErrPageRejected = fmt.Errorf("page rejected by chunk buffer")
var ErrPageSealed = fmt.Errorf("page already serialised")
var ErrInvalidOptions = fmt.Errorf("invalid writer options")

// FileWriter is the downstream consumer of sealed chunks. StartChunk emits
// the chunk header, AppendBytes the accumulated page bytes, EndChunk closes
// the chunk region.
type FileWriter interface {
	StartChunk(header format.ChunkHeader, chunkStats stats.Statistics) error
	AppendBytes(p []byte) error
	EndChunk() error
}
