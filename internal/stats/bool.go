package stats

import "github.com/ZaninAndrea/tsfile/internal/format"

// BoolStatistics tracks count, first and last for BOOL series. Booleans have
// no meaningful ordering or sum.
type BoolStatistics struct {
	count       int64
	first, last bool
}

func (s *BoolStatistics) DataType() format.DataType { return format.DataTypeBool }
func (s *BoolStatistics) Count() int64              { return s.count }
func (s *BoolStatistics) First() bool               { return s.first }
func (s *BoolStatistics) Last() bool                { return s.last }

func (s *BoolStatistics) Update(v any) error {
	value, ok := v.(bool)
	if !ok {
		return mismatch(s.DataType(), v)
	}

	if s.count == 0 {
		s.first = value
	}
	s.last = value
	s.count++
	return nil
}

func (s *BoolStatistics) Merge(other Statistics) error {
	o, ok := other.(*BoolStatistics)
	if !ok {
		return mergeMismatch(s.DataType(), other)
	}
	if o.count == 0 {
		return nil
	}

	if s.count == 0 {
		s.first = o.first
	}
	s.last = o.last
	s.count += o.count
	return nil
}

func (s *BoolStatistics) WriteTo(sw *format.StructuredWriter) error {
	if err := sw.WriteInt64(s.count); err != nil {
		return err
	}
	if s.count == 0 {
		return nil
	}

	if err := sw.WriteBool(s.first); err != nil {
		return err
	}
	return sw.WriteBool(s.last)
}

func (s *BoolStatistics) SerializedSize() int64 {
	if s.count == 0 {
		return 8
	}
	return 8 + 2
}

func (s *BoolStatistics) readFrom(sr *format.StructuredReader) error {
	var err error
	if s.count, err = sr.ReadInt64(); err != nil || s.count == 0 {
		return err
	}
	if s.first, err = sr.ReadBool(); err != nil {
		return err
	}
	s.last, err = sr.ReadBool()
	return err
}
