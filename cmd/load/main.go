package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZaninAndrea/tsfile/internal/chunk"
	"github.com/ZaninAndrea/tsfile/internal/config"
	"github.com/ZaninAndrea/tsfile/internal/format"
	"github.com/ZaninAndrea/tsfile/internal/tsfile"
)

func main() {
	configPath := flag.String("config", "", "optional yaml config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	if err := os.MkdirAll(cfg.File.Dir, 0755); err != nil {
		log.Fatalf("creating segment dir: %v", err)
	}

	logger := kitlog.NewLogfmtLogger(os.Stderr)
	metrics := chunk.NewMetrics(prometheus.NewRegistry())

	schema, err := chunk.DefaultSchema("bench.cpu", format.DataTypeDouble)
	if err != nil {
		log.Fatalf("building schema: %v", err)
	}

	writer, err := chunk.NewChunkWriter(schema, chunk.Options{
		PageSizeThreshold:          cfg.Writer.PageSizeThreshold,
		PagePointUpperBound:        cfg.Writer.PagePointUpperBound,
		MinimumRecordCountForCheck: cfg.Writer.MinimumRecordCountForCheck,
		Logger:                     logger,
		Metrics:                    metrics,
	})
	if err != nil {
		log.Fatalf("building writer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var totalPoints uint64
	ticker := time.NewTicker(time.Second)
	quit := make(chan struct{})
	go func() {
		var last uint64
		for {
			select {
			case <-ticker.C:
				current := atomic.LoadUint64(&totalPoints)
				delta := current - last
				last = current
				log.Printf("ingest rate: %d points/sec, total: %d, buffered: %d bytes\n",
					delta, current, writer.EstimateMaxSeriesMemSize())
			case <-quit:
				ticker.Stop()
				return
			}
		}
	}()

	// Roll to a new segment once the in-progress chunk passes 64 MiB.
	const chunkRollSize = 64 << 20

	baseTs := time.Now().UnixMilli()
	segments := 0

Loop:
	for i := int64(0); ; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		if err := writer.Write(baseTs+i, float64(i%1000)/10); err != nil {
			log.Fatalf("write: %v", err)
		}
		atomic.AddUint64(&totalPoints, 1)

		if writer.CurrentChunkSize() > chunkRollSize {
			if err := rollSegment(writer, cfg.File.Dir); err != nil {
				log.Fatalf("rolling segment: %v", err)
			}
			segments++
		}
	}

	close(quit)

	if err := rollSegment(writer, cfg.File.Dir); err != nil {
		log.Fatalf("rolling final segment: %v", err)
	}
	segments++

	final := atomic.LoadUint64(&totalPoints)
	log.Printf("ingest finished: total points=%d, segments=%d, dropped pages=%d\n",
		final, segments, writer.DroppedPages())
}

func rollSegment(writer *chunk.ChunkWriter, dir string) error {
	segment, err := tsfile.NewSegmentWriterFS(dir)
	if err != nil {
		return err
	}

	if err := writer.WriteToFileWriter(segment); err != nil {
		segment.Close()
		return err
	}

	return segment.Close()
}
