package stats

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZaninAndrea/tsfile/internal/format"
)

func TestInt64Statistics(t *testing.T) {
	s := &Int64Statistics{}
	require.Equal(t, int64(0), s.Count())

	for _, v := range []int64{10, -5, 30, 30, 2} {
		require.NoError(t, s.Update(v))
	}

	require.Equal(t, int64(5), s.Count())
	require.Equal(t, int64(-5), s.Min())
	require.Equal(t, int64(30), s.Max())
	require.Equal(t, int64(10), s.First())
	require.Equal(t, int64(2), s.Last())
	require.Equal(t, int64(67), s.Sum())
}

func TestInt64SumWraps(t *testing.T) {
	s := &Int64Statistics{}
	require.NoError(t, s.Update(int64(math.MaxInt64)))
	require.NoError(t, s.Update(int64(1)))

	require.Equal(t, int64(math.MinInt64), s.Sum())
}

func TestUpdateTypeMismatch(t *testing.T) {
	s := &Int64Statistics{}
	require.ErrorIs(t, s.Update(int32(1)), format.ErrTypeMismatch)
	require.Equal(t, int64(0), s.Count())
}

func TestMergeOrderDefinesFirstLast(t *testing.T) {
	a := &DoubleStatistics{}
	require.NoError(t, a.Update(1.0))
	require.NoError(t, a.Update(2.0))

	b := &DoubleStatistics{}
	require.NoError(t, b.Update(-3.0))
	require.NoError(t, b.Update(4.0))

	require.NoError(t, a.Merge(b))

	require.Equal(t, int64(4), a.Count())
	require.Equal(t, -3.0, a.Min())
	require.Equal(t, 4.0, a.Max())
	require.Equal(t, 1.0, a.First())
	require.Equal(t, 4.0, a.Last())
	require.Equal(t, 4.0, a.Sum())
}

func TestMergeWithEmpty(t *testing.T) {
	full := &Int64Statistics{}
	require.NoError(t, full.Update(int64(7)))

	// empty into non-empty changes nothing
	require.NoError(t, full.Merge(&Int64Statistics{}))
	require.Equal(t, int64(1), full.Count())
	require.Equal(t, int64(7), full.First())

	// non-empty into empty adopts the operand
	empty := &Int64Statistics{}
	require.NoError(t, empty.Merge(full))
	require.Equal(t, int64(1), empty.Count())
	require.Equal(t, int64(7), empty.First())
	require.Equal(t, int64(7), empty.Min())
}

func TestMergeTypeMismatch(t *testing.T) {
	a := &Int64Statistics{}
	b := &DoubleStatistics{}
	require.ErrorIs(t, a.Merge(b), format.ErrTypeMismatch)
}

func TestMergeEquivalentToSequentialUpdates(t *testing.T) {
	first := []int64{5, 1, 9}
	second := []int64{3, 12, -2}

	direct := &Int64Statistics{}
	for _, v := range append(append([]int64{}, first...), second...) {
		require.NoError(t, direct.Update(v))
	}

	a := &Int64Statistics{}
	for _, v := range first {
		require.NoError(t, a.Update(v))
	}
	b := &Int64Statistics{}
	for _, v := range second {
		require.NoError(t, b.Update(v))
	}
	require.NoError(t, a.Merge(b))

	require.Equal(t, *direct, *a)
}

func TestBoolStatistics(t *testing.T) {
	s := &BoolStatistics{}
	for _, v := range []bool{true, false, false} {
		require.NoError(t, s.Update(v))
	}

	require.Equal(t, int64(3), s.Count())
	require.True(t, s.First())
	require.False(t, s.Last())
}

func TestBinaryStatisticsCopiesValues(t *testing.T) {
	s := &BinaryStatistics{}

	buf := []byte("first")
	require.NoError(t, s.Update(buf))
	copy(buf, "XXXXX")

	require.Equal(t, []byte("first"), s.First())
}

func TestDecimalStatisticsHaveNoSum(t *testing.T) {
	s, err := New(format.DataTypeDecimal)
	require.NoError(t, err)

	require.NoError(t, s.Update(format.Decimal(2.5)))
	require.NoError(t, s.Update(format.Decimal(-1)))

	decimalStats := s.(*DecimalStatistics)
	require.Equal(t, format.Decimal(-1), decimalStats.Min())
	require.Equal(t, format.Decimal(2.5), decimalStats.Max())

	// the serialised layout carries count plus four fields, no sum
	require.Equal(t, int64(8+4*8), s.SerializedSize())
}

func TestSerializeRoundTripAllTypes(t *testing.T) {
	build := func(t *testing.T, dataType format.DataType, values ...any) Statistics {
		t.Helper()
		s, err := New(dataType)
		require.NoError(t, err)
		for _, v := range values {
			require.NoError(t, s.Update(v))
		}
		return s
	}

	cases := []Statistics{
		build(t, format.DataTypeBool, true, false),
		build(t, format.DataTypeInt32, int32(4), int32(-4)),
		build(t, format.DataTypeInt64, int64(100), int64(300)),
		build(t, format.DataTypeFloat, float32(1.25), float32(8.5)),
		build(t, format.DataTypeDouble, 0.1, -0.7),
		build(t, format.DataTypeDecimal, format.Decimal(3.5)),
		build(t, format.DataTypeBinary, []byte("hello"), []byte("world")),
		// empty statistics serialise as a bare zero count
		build(t, format.DataTypeInt64),
	}

	for _, original := range cases {
		t.Run(original.DataType().String(), func(t *testing.T) {
			var buf bytes.Buffer
			sw := format.NewStructuredWriter(&buf)
			require.NoError(t, original.WriteTo(sw))
			require.Equal(t, original.SerializedSize(), int64(buf.Len()))

			decoded, err := Read(format.NewStructuredReader(&buf), original.DataType())
			require.NoError(t, err)
			require.Equal(t, original, decoded)
		})
	}
}
