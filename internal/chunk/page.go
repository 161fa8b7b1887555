package chunk

import (
	"bytes"
	"fmt"

	"github.com/ZaninAndrea/tsfile/internal/format"
	"github.com/ZaninAndrea/tsfile/pkg/encoding"
)

// PageEncoder accumulates the points of the in-progress page as two byte
// streams, one for times and one for values. Appending never fails on healthy
// input; SerializeUncompressed may be called at most once before Reset.
type PageEncoder interface {
	Append(t int64, v any) error
	ValueCount() int

	// EstimateMaxMemSize returns an upper bound on the bytes needed to
	// serialise the current state. It is O(1) and monotonically non-decreasing
	// between resets.
	EstimateMaxMemSize() int64

	SerializeUncompressed() ([]byte, error)
	Reset()
}

type pageEncoder struct {
	schema *MeasurementSchema

	timeBuf  bytes.Buffer
	valueBuf bytes.Buffer
	timeSW   *format.StructuredWriter
	valueSW  *format.StructuredWriter

	timeDelta  *encoding.DeltaOfDeltaEncoder
	valueDelta *encoding.DeltaOfDeltaEncoder
	boolPacker *encoding.BitPackingEncoder

	valueCount int
	sealed     bool
}

func NewPageEncoder(schema *MeasurementSchema) (PageEncoder, error) {
	e := &pageEncoder{schema: schema}
	e.timeSW = format.NewStructuredWriter(&e.timeBuf)
	e.valueSW = format.NewStructuredWriter(&e.valueBuf)

	if schema.TimeEncoding == format.EncodingDelta {
		e.timeDelta = &encoding.DeltaOfDeltaEncoder{Writer: &e.timeBuf}
	}
	switch schema.ValueEncoding {
	case format.EncodingDelta:
		e.valueDelta = &encoding.DeltaOfDeltaEncoder{Writer: &e.valueBuf}
	case format.EncodingBitPacking:
		e.boolPacker = &encoding.BitPackingEncoder{Writer: &e.valueBuf}
	}

	return e, nil
}

func (e *pageEncoder) Append(t int64, v any) error {
	if e.sealed {
		return ErrPageSealed
	}
	if !format.CheckValue(e.schema.Type, v) {
		return fmt.Errorf("%w: series %s (%s) got %T", format.ErrTypeMismatch, e.schema.ID, e.schema.Type, v)
	}

	if err := e.appendTime(t); err != nil {
		return err
	}
	if err := e.appendValue(v); err != nil {
		return err
	}

	e.valueCount++
	return nil
}

func (e *pageEncoder) appendTime(t int64) error {
	if e.timeDelta != nil {
		return e.timeDelta.Encode(t)
	}
	return e.timeSW.WriteInt64(t)
}

func (e *pageEncoder) appendValue(v any) error {
	switch value := v.(type) {
	case bool:
		if e.boolPacker != nil {
			return e.boolPacker.Encode(value)
		}
		return e.valueSW.WriteBool(value)
	case int32:
		if e.valueDelta != nil {
			return e.valueDelta.Encode(int64(value))
		}
		return e.valueSW.WriteInt32(value)
	case int64:
		if e.valueDelta != nil {
			return e.valueDelta.Encode(value)
		}
		return e.valueSW.WriteInt64(value)
	case float32:
		return e.valueSW.WriteFloat32(value)
	case float64:
		return e.valueSW.WriteFloat64(value)
	case format.Decimal:
		return e.valueSW.WriteFloat64(float64(value))
	case []byte:
		return e.valueSW.WriteBytes(value)
	default:
		return fmt.Errorf("%w: %T", format.ErrTypeMismatch, v)
	}
}

func (e *pageEncoder) ValueCount() int {
	return e.valueCount
}

func (e *pageEncoder) EstimateMaxMemSize() int64 {
	size := int64(e.timeBuf.Len() + e.valueBuf.Len())
	if e.timeBuf.Len() > 0 {
		// the length prefix SerializeUncompressed puts before the time stream
		size += int64(format.UvarintLen(uint64(e.timeBuf.Len())))
	}
	if e.boolPacker != nil {
		// a partially filled byte is not in the buffer yet
		size++
	}
	return size
}

// SerializeUncompressed produces the payload of the page: the length of the
// time stream as a uvarint, the time stream, then the value stream.
func (e *pageEncoder) SerializeUncompressed() ([]byte, error) {
	if e.sealed {
		return nil, ErrPageSealed
	}
	e.sealed = true

	if e.boolPacker != nil {
		if err := e.boolPacker.Flush(); err != nil {
			return nil, err
		}
	}

	var payload bytes.Buffer
	payload.Grow(format.UvarintLen(uint64(e.timeBuf.Len())) + e.timeBuf.Len() + e.valueBuf.Len())

	sw := format.NewStructuredWriter(&payload)
	if err := sw.WriteBytes(e.timeBuf.Bytes()); err != nil {
		return nil, err
	}
	if _, err := sw.Write(e.valueBuf.Bytes()); err != nil {
		return nil, err
	}

	return payload.Bytes(), nil
}

func (e *pageEncoder) Reset() {
	e.timeBuf.Reset()
	e.valueBuf.Reset()
	if e.timeDelta != nil {
		e.timeDelta.Reset()
	}
	if e.valueDelta != nil {
		e.valueDelta.Reset()
	}
	if e.boolPacker != nil {
		e.boolPacker.Reset()
	}
	e.valueCount = 0
	e.sealed = false
}
