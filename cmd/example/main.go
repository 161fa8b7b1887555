package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"

	"github.com/ZaninAndrea/tsfile/internal/chunk"
	"github.com/ZaninAndrea/tsfile/internal/format"
	"github.com/ZaninAndrea/tsfile/internal/tsfile"
)

func main() {
	if err := os.MkdirAll("./tmp/segments", 0755); err != nil {
		panic(err)
	}

	logger := log.NewLogfmtLogger(os.Stderr)

	segment, err := tsfile.NewSegmentWriterFS("./tmp/segments")
	if err != nil {
		panic(err)
	}

	// A temperature series of 64-bit integers
	tempSchema, err := chunk.DefaultSchema("sensor1.temperature", format.DataTypeInt64)
	if err != nil {
		panic(err)
	}

	tempWriter, err := chunk.NewChunkWriter(tempSchema, chunk.Options{
		PageSizeThreshold:   64 * 1024,
		PagePointUpperBound: 100_000,
		Logger:              logger,
	})
	if err != nil {
		panic(err)
	}

	for i := int64(0); i < 10_000; i++ {
		if err := tempWriter.Write(1625079600_000+i*1000, 20+i%15); err != nil {
			panic(err)
		}
	}

	if err := tempWriter.WriteToFileWriter(segment); err != nil {
		panic(err)
	}

	// A humidity series of doubles in the same segment
	humiditySchema, err := chunk.DefaultSchema("sensor1.humidity", format.DataTypeDouble)
	if err != nil {
		panic(err)
	}

	humidityWriter, err := chunk.NewChunkWriter(humiditySchema, chunk.Options{
		PageSizeThreshold:   64 * 1024,
		PagePointUpperBound: 100_000,
		Logger:              logger,
	})
	if err != nil {
		panic(err)
	}

	for i := int64(0); i < 10_000; i++ {
		if err := humidityWriter.Write(1625079600_000+i*1000, 0.40+float64(i%20)/100); err != nil {
			panic(err)
		}
	}

	if err := humidityWriter.WriteToFileWriter(segment); err != nil {
		panic(err)
	}

	if err := segment.Close(); err != nil {
		panic(err)
	}

	fmt.Println("segment written:", segment.Path())
	fmt.Println("chunks:", segment.NumChunks())
}
