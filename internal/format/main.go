package format

import "fmt"

// On-disk layout of a single series chunk inside a segment file:
// - Chunk header:
// 	- Series id (string with length explicitly stated at the beginning)
// 	- Data type (1 byte)
// 	- Total size of all page bytes (uvarint)
// 	- Number of pages (uvarint)
// 	- Serialised chunk statistics (type-specific layout, see stats package)
// - For each page:
// 	- Page header:
// 		- Value count (uvarint)
// 		- Payload length in bytes (uvarint)
// 		- Max timestamp (int64)
// 		- Min timestamp (int64)
// 		- Serialised page statistics
// 	- Payload bytes:
// 		- Length of the encoded time stream (uvarint)
// 		- The encoded time stream
// 		- The encoded value stream
//
// All fixed-width integers are big-endian.

var ErrUnsupportedDataType = fmt.Errorf("unsupported data type")
var ErrUnsupportedEncoding = fmt.Errorf("unsupported encoding for data type")
var ErrTypeMismatch = fmt.Errorf("value type does not match series data type")

const FORMAT_VERSION uint32 = 1

// DataType tags the scalar type of a series. The tag values are part of the
// on-disk format and must not be reordered.
type DataType uint8

const (
	DataTypeBool DataType = iota
	DataTypeInt32
	DataTypeInt64
	DataTypeFloat
	DataTypeDouble
	DataTypeDecimal
	DataTypeBinary
)

func (t DataType) Valid() bool {
	return t <= DataTypeBinary
}

func (t DataType) String() string {
	switch t {
	case DataTypeBool:
		return "BOOL"
	case DataTypeInt32:
		return "INT32"
	case DataTypeInt64:
		return "INT64"
	case DataTypeFloat:
		return "FLOAT"
	case DataTypeDouble:
		return "DOUBLE"
	case DataTypeDecimal:
		return "DECIMAL"
	case DataTypeBinary:
		return "BINARY"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// Decimal is the in-memory representation of DataTypeDecimal values. It is a
// distinct type so that the seven scalar variants stay distinguishable when
// values travel as `any`.
type Decimal float64

// Encoding identifies the stream codec used for a time or value stream.
type Encoding uint8

const (
	EncodingPlain Encoding = iota
	EncodingDelta
	EncodingBitPacking
)

func (e Encoding) String() string {
	switch e {
	case EncodingPlain:
		return "PLAIN"
	case EncodingDelta:
		return "DELTA"
	case EncodingBitPacking:
		return "BIT_PACKING"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// CheckValue reports whether v is the Go representation of t.
func CheckValue(t DataType, v any) bool {
	switch t {
	case DataTypeBool:
		_, ok := v.(bool)
		return ok
	case DataTypeInt32:
		_, ok := v.(int32)
		return ok
	case DataTypeInt64:
		_, ok := v.(int64)
		return ok
	case DataTypeFloat:
		_, ok := v.(float32)
		return ok
	case DataTypeDouble:
		_, ok := v.(float64)
		return ok
	case DataTypeDecimal:
		_, ok := v.(Decimal)
		return ok
	case DataTypeBinary:
		_, ok := v.([]byte)
		return ok
	default:
		return false
	}
}
