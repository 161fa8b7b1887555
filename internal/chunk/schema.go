package chunk

import (
	"fmt"

	"github.com/ZaninAndrea/tsfile/internal/format"
)

// MeasurementSchema is the immutable descriptor of one series: its id, scalar
// type and the codecs used for the time and value streams. It is supplied at
// writer construction and never mutated.
type MeasurementSchema struct {
	ID            string
	Type          format.DataType
	TimeEncoding  format.Encoding
	ValueEncoding format.Encoding
}

func NewMeasurementSchema(id string, t format.DataType, timeEncoding, valueEncoding format.Encoding) (*MeasurementSchema, error) {
	if id == "" {
		return nil, fmt.Errorf("measurement id is required")
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", format.ErrUnsupportedDataType, t)
	}
	if timeEncoding != format.EncodingPlain && timeEncoding != format.EncodingDelta {
		return nil, fmt.Errorf("%w: time encoding %s", format.ErrUnsupportedEncoding, timeEncoding)
	}
	if !validValueEncoding(t, valueEncoding) {
		return nil, fmt.Errorf("%w: %s values with %s", format.ErrUnsupportedEncoding, t, valueEncoding)
	}

	return &MeasurementSchema{
		ID:            id,
		Type:          t,
		TimeEncoding:  timeEncoding,
		ValueEncoding: valueEncoding,
	}, nil
}

// DefaultSchema builds a schema with the preferred encodings for the type:
// delta-of-delta timestamps, delta-of-delta integers, bit-packed booleans and
// plain everything else.
func DefaultSchema(id string, t format.DataType) (*MeasurementSchema, error) {
	return NewMeasurementSchema(id, t, format.EncodingDelta, DefaultValueEncoding(t))
}

func DefaultValueEncoding(t format.DataType) format.Encoding {
	switch t {
	case format.DataTypeBool:
		return format.EncodingBitPacking
	case format.DataTypeInt32, format.DataTypeInt64:
		return format.EncodingDelta
	default:
		return format.EncodingPlain
	}
}

func validValueEncoding(t format.DataType, e format.Encoding) bool {
	switch t {
	case format.DataTypeBool:
		return e == format.EncodingPlain || e == format.EncodingBitPacking
	case format.DataTypeInt32, format.DataTypeInt64:
		return e == format.EncodingPlain || e == format.EncodingDelta
	default:
		return e == format.EncodingPlain
	}
}
