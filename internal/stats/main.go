package stats

import (
	"fmt"

	"github.com/ZaninAndrea/tsfile/internal/format"
)

// Statistics is a running aggregate over the values of one page or one chunk.
// Update order matters only for the first/last fields. Merge folds another
// aggregate in as if its values had been inserted after this one's, so it is
// associative but not commutative.
//
// When Count() is 0 every other field is undefined and must not be read.
type Statistics interface {
	DataType() format.DataType
	Update(v any) error
	Merge(other Statistics) error
	Count() int64

	// WriteTo serialises the aggregate. The layout is type-specific and
	// derivable from the fields alone: the count, then, only when the count is
	// non-zero, the per-type fields.
	WriteTo(sw *format.StructuredWriter) error
	SerializedSize() int64
}

// New returns the empty statistics record for the given data type.
func New(t format.DataType) (Statistics, error) {
	switch t {
	case format.DataTypeBool:
		return &BoolStatistics{}, nil
	case format.DataTypeInt32:
		return &Int32Statistics{}, nil
	case format.DataTypeInt64:
		return &Int64Statistics{}, nil
	case format.DataTypeFloat:
		return &FloatStatistics{}, nil
	case format.DataTypeDouble:
		return &DoubleStatistics{}, nil
	case format.DataTypeDecimal:
		return &DecimalStatistics{}, nil
	case format.DataTypeBinary:
		return &BinaryStatistics{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", format.ErrUnsupportedDataType, t)
	}
}

// Read deserialises statistics of the given type, as written by WriteTo.
func Read(sr *format.StructuredReader, t format.DataType) (Statistics, error) {
	s, err := New(t)
	if err != nil {
		return nil, err
	}
	if err := s.(statisticsReader).readFrom(sr); err != nil {
		return nil, err
	}
	return s, nil
}

type statisticsReader interface {
	readFrom(sr *format.StructuredReader) error
}

func mismatch(t format.DataType, v any) error {
	return fmt.Errorf("%w: cannot update %s statistics with %T", format.ErrTypeMismatch, t, v)
}

func mergeMismatch(t format.DataType, other Statistics) error {
	return fmt.Errorf("%w: cannot merge %s statistics into %s statistics", format.ErrTypeMismatch, other.DataType(), t)
}
