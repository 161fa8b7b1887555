package encoding

import (
	"bytes"
	"encoding/binary"
	"io"
)

// EncodeDeltaOfDelta encodes a slice of int64 values using delta-of-delta encoding.
func EncodeDeltaOfDelta(values []int64) []byte {
	if len(values) == 0 {
		return []byte{}
	}

	encoded := []byte{}

	var previous int64 = 0
	var previousDelta int64 = 0
	for i := range values {
		delta := values[i] - previous
		deltaOfDelta := delta - previousDelta
		encoded = binary.AppendVarint(encoded, deltaOfDelta)

		previous = values[i]
		previousDelta = delta
	}

	return encoded
}

// DecodeDeltaOfDelta decodes a byte slice encoded with delta-of-delta encoding
// back into a slice of int64 values.
func DecodeDeltaOfDelta(encoded []byte) ([]int64, error) {
	if len(encoded) == 0 {
		return []int64{}, nil
	}

	reader := bytes.NewReader(encoded)
	data := []int64{}

	var previous int64 = 0
	var previousDelta int64 = 0
	for {
		deltaOfDelta, err := binary.ReadVarint(reader)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		delta := previousDelta + deltaOfDelta
		current := previous + delta

		data = append(data, current)

		previous = current
		previousDelta = delta
	}

	return data, nil
}

// DeltaOfDeltaEncoder encodes a stream of int64 values one at a time, each
// relative to the previous one, and writes the varint-encoded result to the
// underlying writer.
type DeltaOfDeltaEncoder struct {
	Writer io.Writer

	previous      int64
	previousDelta int64
}

func (e *DeltaOfDeltaEncoder) Encode(value int64) error {
	delta := value - e.previous
	deltaOfDelta := delta - e.previousDelta

	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], deltaOfDelta)

	if _, err := e.Writer.Write(buf[:n]); err != nil {
		return err
	}

	e.previous = value
	e.previousDelta = delta

	return nil
}

// Flush is a no-op: every value is written out as soon as it is encoded.
func (e *DeltaOfDeltaEncoder) Flush() error {
	return nil
}

// Reset clears the encoder state so the next value starts a fresh stream.
func (e *DeltaOfDeltaEncoder) Reset() {
	e.previous = 0
	e.previousDelta = 0
}

// DeltaOfDeltaDecoder decodes a stream written by DeltaOfDeltaEncoder.
type DeltaOfDeltaDecoder struct {
	Reader io.ByteReader

	previous      int64
	previousDelta int64
}

func (d *DeltaOfDeltaDecoder) Decode() (int64, error) {
	deltaOfDelta, err := binary.ReadVarint(d.Reader)
	if err != nil {
		return 0, err
	}

	delta := d.previousDelta + deltaOfDelta
	current := d.previous + delta

	d.previous = current
	d.previousDelta = delta

	return current, nil
}
