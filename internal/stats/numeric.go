package stats

import "github.com/ZaninAndrea/tsfile/internal/format"

// Int32Statistics tracks count, min, max, first, last and sum for INT32
// series. The sum accumulates in an int64 and wraps on overflow.
type Int32Statistics struct {
	count       int64
	min, max    int32
	first, last int32
	sum         int64
}

func (s *Int32Statistics) DataType() format.DataType { return format.DataTypeInt32 }
func (s *Int32Statistics) Count() int64              { return s.count }
func (s *Int32Statistics) Min() int32                { return s.min }
func (s *Int32Statistics) Max() int32                { return s.max }
func (s *Int32Statistics) First() int32              { return s.first }
func (s *Int32Statistics) Last() int32               { return s.last }
func (s *Int32Statistics) Sum() int64                { return s.sum }

func (s *Int32Statistics) Update(v any) error {
	value, ok := v.(int32)
	if !ok {
		return mismatch(s.DataType(), v)
	}

	if s.count == 0 {
		s.min, s.max, s.first = value, value, value
	} else {
		if value < s.min {
			s.min = value
		}
		if value > s.max {
			s.max = value
		}
	}
	s.last = value
	s.sum += int64(value)
	s.count++
	return nil
}

func (s *Int32Statistics) Merge(other Statistics) error {
	o, ok := other.(*Int32Statistics)
	if !ok {
		return mergeMismatch(s.DataType(), other)
	}
	if o.count == 0 {
		return nil
	}

	if s.count == 0 {
		*s = *o
		return nil
	}
	if o.min < s.min {
		s.min = o.min
	}
	if o.max > s.max {
		s.max = o.max
	}
	s.last = o.last
	s.sum += o.sum
	s.count += o.count
	return nil
}

func (s *Int32Statistics) WriteTo(sw *format.StructuredWriter) error {
	if err := sw.WriteInt64(s.count); err != nil {
		return err
	}
	if s.count == 0 {
		return nil
	}

	for _, v := range [4]int32{s.min, s.max, s.first, s.last} {
		if err := sw.WriteInt32(v); err != nil {
			return err
		}
	}
	return sw.WriteInt64(s.sum)
}

func (s *Int32Statistics) SerializedSize() int64 {
	if s.count == 0 {
		return 8
	}
	return 8 + 4*4 + 8
}

func (s *Int32Statistics) readFrom(sr *format.StructuredReader) error {
	var err error
	if s.count, err = sr.ReadInt64(); err != nil || s.count == 0 {
		return err
	}
	for _, dst := range [4]*int32{&s.min, &s.max, &s.first, &s.last} {
		if *dst, err = sr.ReadInt32(); err != nil {
			return err
		}
	}
	s.sum, err = sr.ReadInt64()
	return err
}

// Int64Statistics tracks count, min, max, first, last and sum for INT64
// series. The sum wraps on overflow.
type Int64Statistics struct {
	count       int64
	min, max    int64
	first, last int64
	sum         int64
}

func (s *Int64Statistics) DataType() format.DataType { return format.DataTypeInt64 }
func (s *Int64Statistics) Count() int64              { return s.count }
func (s *Int64Statistics) Min() int64                { return s.min }
func (s *Int64Statistics) Max() int64                { return s.max }
func (s *Int64Statistics) First() int64              { return s.first }
func (s *Int64Statistics) Last() int64               { return s.last }
func (s *Int64Statistics) Sum() int64                { return s.sum }

func (s *Int64Statistics) Update(v any) error {
	value, ok := v.(int64)
	if !ok {
		return mismatch(s.DataType(), v)
	}

	if s.count == 0 {
		s.min, s.max, s.first = value, value, value
	} else {
		if value < s.min {
			s.min = value
		}
		if value > s.max {
			s.max = value
		}
	}
	s.last = value
	s.sum += value
	s.count++
	return nil
}

func (s *Int64Statistics) Merge(other Statistics) error {
	o, ok := other.(*Int64Statistics)
	if !ok {
		return mergeMismatch(s.DataType(), other)
	}
	if o.count == 0 {
		return nil
	}

	if s.count == 0 {
		*s = *o
		return nil
	}
	if o.min < s.min {
		s.min = o.min
	}
	if o.max > s.max {
		s.max = o.max
	}
	s.last = o.last
	s.sum += o.sum
	s.count += o.count
	return nil
}

func (s *Int64Statistics) WriteTo(sw *format.StructuredWriter) error {
	if err := sw.WriteInt64(s.count); err != nil {
		return err
	}
	if s.count == 0 {
		return nil
	}

	for _, v := range [5]int64{s.min, s.max, s.first, s.last, s.sum} {
		if err := sw.WriteInt64(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Int64Statistics) SerializedSize() int64 {
	if s.count == 0 {
		return 8
	}
	return 8 + 5*8
}

func (s *Int64Statistics) readFrom(sr *format.StructuredReader) error {
	var err error
	if s.count, err = sr.ReadInt64(); err != nil || s.count == 0 {
		return err
	}
	for _, dst := range [5]*int64{&s.min, &s.max, &s.first, &s.last, &s.sum} {
		if *dst, err = sr.ReadInt64(); err != nil {
			return err
		}
	}
	return nil
}

// FloatStatistics tracks count, min, max, first, last and sum for FLOAT
// series. The sum accumulates as a float64.
type FloatStatistics struct {
	count       int64
	min, max    float32
	first, last float32
	sum         float64
}

func (s *FloatStatistics) DataType() format.DataType { return format.DataTypeFloat }
func (s *FloatStatistics) Count() int64              { return s.count }
func (s *FloatStatistics) Min() float32              { return s.min }
func (s *FloatStatistics) Max() float32              { return s.max }
func (s *FloatStatistics) First() float32            { return s.first }
func (s *FloatStatistics) Last() float32             { return s.last }
func (s *FloatStatistics) Sum() float64              { return s.sum }

func (s *FloatStatistics) Update(v any) error {
	value, ok := v.(float32)
	if !ok {
		return mismatch(s.DataType(), v)
	}

	if s.count == 0 {
		s.min, s.max, s.first = value, value, value
	} else {
		if value < s.min {
			s.min = value
		}
		if value > s.max {
			s.max = value
		}
	}
	s.last = value
	s.sum += float64(value)
	s.count++
	return nil
}

func (s *FloatStatistics) Merge(other Statistics) error {
	o, ok := other.(*FloatStatistics)
	if !ok {
		return mergeMismatch(s.DataType(), other)
	}
	if o.count == 0 {
		return nil
	}

	if s.count == 0 {
		*s = *o
		return nil
	}
	if o.min < s.min {
		s.min = o.min
	}
	if o.max > s.max {
		s.max = o.max
	}
	s.last = o.last
	s.sum += o.sum
	s.count += o.count
	return nil
}

func (s *FloatStatistics) WriteTo(sw *format.StructuredWriter) error {
	if err := sw.WriteInt64(s.count); err != nil {
		return err
	}
	if s.count == 0 {
		return nil
	}

	for _, v := range [4]float32{s.min, s.max, s.first, s.last} {
		if err := sw.WriteFloat32(v); err != nil {
			return err
		}
	}
	return sw.WriteFloat64(s.sum)
}

func (s *FloatStatistics) SerializedSize() int64 {
	if s.count == 0 {
		return 8
	}
	return 8 + 4*4 + 8
}

func (s *FloatStatistics) readFrom(sr *format.StructuredReader) error {
	var err error
	if s.count, err = sr.ReadInt64(); err != nil || s.count == 0 {
		return err
	}
	for _, dst := range [4]*float32{&s.min, &s.max, &s.first, &s.last} {
		if *dst, err = sr.ReadFloat32(); err != nil {
			return err
		}
	}
	s.sum, err = sr.ReadFloat64()
	return err
}

// DoubleStatistics tracks count, min, max, first, last and sum for DOUBLE
// series.
type DoubleStatistics struct {
	count       int64
	min, max    float64
	first, last float64
	sum         float64
}

func (s *DoubleStatistics) DataType() format.DataType { return format.DataTypeDouble }
func (s *DoubleStatistics) Count() int64              { return s.count }
func (s *DoubleStatistics) Min() float64              { return s.min }
func (s *DoubleStatistics) Max() float64              { return s.max }
func (s *DoubleStatistics) First() float64            { return s.first }
func (s *DoubleStatistics) Last() float64             { return s.last }
func (s *DoubleStatistics) Sum() float64              { return s.sum }

func (s *DoubleStatistics) Update(v any) error {
	value, ok := v.(float64)
	if !ok {
		return mismatch(s.DataType(), v)
	}

	if s.count == 0 {
		s.min, s.max, s.first = value, value, value
	} else {
		if value < s.min {
			s.min = value
		}
		if value > s.max {
			s.max = value
		}
	}
	s.last = value
	s.sum += value
	s.count++
	return nil
}

func (s *DoubleStatistics) Merge(other Statistics) error {
	o, ok := other.(*DoubleStatistics)
	if !ok {
		return mergeMismatch(s.DataType(), other)
	}
	if o.count == 0 {
		return nil
	}

	if s.count == 0 {
		*s = *o
		return nil
	}
	if o.min < s.min {
		s.min = o.min
	}
	if o.max > s.max {
		s.max = o.max
	}
	s.last = o.last
	s.sum += o.sum
	s.count += o.count
	return nil
}

func (s *DoubleStatistics) WriteTo(sw *format.StructuredWriter) error {
	if err := sw.WriteInt64(s.count); err != nil {
		return err
	}
	if s.count == 0 {
		return nil
	}

	for _, v := range [5]float64{s.min, s.max, s.first, s.last, s.sum} {
		if err := sw.WriteFloat64(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *DoubleStatistics) SerializedSize() int64 {
	if s.count == 0 {
		return 8
	}
	return 8 + 5*8
}

func (s *DoubleStatistics) readFrom(sr *format.StructuredReader) error {
	var err error
	if s.count, err = sr.ReadInt64(); err != nil || s.count == 0 {
		return err
	}
	for _, dst := range [5]*float64{&s.min, &s.max, &s.first, &s.last, &s.sum} {
		if *dst, err = sr.ReadFloat64(); err != nil {
			return err
		}
	}
	return nil
}

// DecimalStatistics tracks count, min, max, first and last for DECIMAL
// series. Decimals carry no sum.
type DecimalStatistics struct {
	count       int64
	min, max    format.Decimal
	first, last format.Decimal
}

func (s *DecimalStatistics) DataType() format.DataType { return format.DataTypeDecimal }
func (s *DecimalStatistics) Count() int64              { return s.count }
func (s *DecimalStatistics) Min() format.Decimal       { return s.min }
func (s *DecimalStatistics) Max() format.Decimal       { return s.max }
func (s *DecimalStatistics) First() format.Decimal     { return s.first }
func (s *DecimalStatistics) Last() format.Decimal      { return s.last }

func (s *DecimalStatistics) Update(v any) error {
	value, ok := v.(format.Decimal)
	if !ok {
		return mismatch(s.DataType(), v)
	}

	if s.count == 0 {
		s.min, s.max, s.first = value, value, value
	} else {
		if value < s.min {
			s.min = value
		}
		if value > s.max {
			s.max = value
		}
	}
	s.last = value
	s.count++
	return nil
}

func (s *DecimalStatistics) Merge(other Statistics) error {
	o, ok := other.(*DecimalStatistics)
	if !ok {
		return mergeMismatch(s.DataType(), other)
	}
	if o.count == 0 {
		return nil
	}

	if s.count == 0 {
		*s = *o
		return nil
	}
	if o.min < s.min {
		s.min = o.min
	}
	if o.max > s.max {
		s.max = o.max
	}
	s.last = o.last
	s.count += o.count
	return nil
}

func (s *DecimalStatistics) WriteTo(sw *format.StructuredWriter) error {
	if err := sw.WriteInt64(s.count); err != nil {
		return err
	}
	if s.count == 0 {
		return nil
	}

	for _, v := range [4]format.Decimal{s.min, s.max, s.first, s.last} {
		if err := sw.WriteFloat64(float64(v)); err != nil {
			return err
		}
	}
	return nil
}

func (s *DecimalStatistics) SerializedSize() int64 {
	if s.count == 0 {
		return 8
	}
	return 8 + 4*8
}

func (s *DecimalStatistics) readFrom(sr *format.StructuredReader) error {
	var err error
	if s.count, err = sr.ReadInt64(); err != nil || s.count == 0 {
		return err
	}
	for _, dst := range [4]*format.Decimal{&s.min, &s.max, &s.first, &s.last} {
		var v float64
		if v, err = sr.ReadFloat64(); err != nil {
			return err
		}
		*dst = format.Decimal(v)
	}
	return nil
}
