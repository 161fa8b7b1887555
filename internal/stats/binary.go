package stats

import "github.com/ZaninAndrea/tsfile/internal/format"

// BinaryStatistics tracks count, first and last for BINARY series. The first
// and last values are stored length-prefixed, so this is the one statistics
// layout whose size depends on the data.
type BinaryStatistics struct {
	count       int64
	first, last []byte
}

func (s *BinaryStatistics) DataType() format.DataType { return format.DataTypeBinary }
func (s *BinaryStatistics) Count() int64              { return s.count }
func (s *BinaryStatistics) First() []byte             { return s.first }
func (s *BinaryStatistics) Last() []byte              { return s.last }

func (s *BinaryStatistics) Update(v any) error {
	value, ok := v.([]byte)
	if !ok {
		return mismatch(s.DataType(), v)
	}

	// The caller may reuse its buffer after the write returns.
	owned := make([]byte, len(value))
	copy(owned, value)

	if s.count == 0 {
		s.first = owned
	}
	s.last = owned
	s.count++
	return nil
}

func (s *BinaryStatistics) Merge(other Statistics) error {
	o, ok := other.(*BinaryStatistics)
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

func (s *BinaryStatistics) WriteTo(sw *format.StructuredWriter) error {
	if err := sw.WriteInt64(s.count); err != nil {
		return err
	}
	if s.count == 0 {
		return nil
	}

	if err := sw.WriteBytes(s.first); err != nil {
		return err
	}
	return sw.WriteBytes(s.last)
}

func (s *BinaryStatistics) SerializedSize() int64 {
	if s.count == 0 {
		return 8
	}
	size := int64(8)
	size += int64(format.UvarintLen(uint64(len(s.first)))) + int64(len(s.first))
	size += int64(format.UvarintLen(uint64(len(s.last)))) + int64(len(s.last))
	return size
}

func (s *BinaryStatistics) readFrom(sr *format.StructuredReader) error {
	var err error
	if s.count, err = sr.ReadInt64(); err != nil || s.count == 0 {
		return err
	}
	if s.first, err = sr.ReadBytes(); err != nil {
		return err
	}
	s.last, err = sr.ReadBytes()
	return err
}
