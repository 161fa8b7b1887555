package format

// StatisticsMarshaler is the slice of the statistics API the header layer
// needs. The concrete implementations live in the stats package.
type StatisticsMarshaler interface {
	WriteTo(sw *StructuredWriter) error
	SerializedSize() int64
}

// PageHeader describes one encoded page. The serialised size of a header is
// derivable from its fields without scanning the payload.
type PageHeader struct {
	ValueCount   int64
	PayloadSize  int64
	MaxTimestamp int64
	MinTimestamp int64
}

func WritePageHeader(sw *StructuredWriter, h PageHeader, st StatisticsMarshaler) error {
	if err := sw.WriteUvarint(uint64(h.ValueCount)); err != nil {
		return err
	}
	if err := sw.WriteUvarint(uint64(h.PayloadSize)); err != nil {
		return err
	}
	if err := sw.WriteInt64(h.MaxTimestamp); err != nil {
		return err
	}
	if err := sw.WriteInt64(h.MinTimestamp); err != nil {
		return err
	}
	return st.WriteTo(sw)
}

func PageHeaderSize(h PageHeader, st StatisticsMarshaler) int64 {
	size := int64(UvarintLen(uint64(h.ValueCount)))
	size += int64(UvarintLen(uint64(h.PayloadSize)))
	size += 8 + 8
	return size + st.SerializedSize()
}

// ReadPageHeader reads the fixed fields of a page header. The statistics that
// follow are type-specific and read separately by the stats package.
func ReadPageHeader(sr *StructuredReader) (PageHeader, error) {
	var h PageHeader

	valueCount, err := sr.ReadUvarint()
	if err != nil {
		return h, err
	}
	payloadSize, err := sr.ReadUvarint()
	if err != nil {
		return h, err
	}
	h.ValueCount = int64(valueCount)
	h.PayloadSize = int64(payloadSize)

	if h.MaxTimestamp, err = sr.ReadInt64(); err != nil {
		return h, err
	}
	h.MinTimestamp, err = sr.ReadInt64()
	return h, err
}

// ChunkHeader describes one series chunk: all of its page bytes preceded by
// the identity of the series and the chunk-level statistics.
type ChunkHeader struct {
	SeriesID  string
	DataType  DataType
	TotalSize int64
	NumPages  int64
}

func WriteChunkHeader(sw *StructuredWriter, h ChunkHeader, st StatisticsMarshaler) error {
	if err := sw.WriteString(h.SeriesID); err != nil {
		return err
	}
	if err := sw.WriteUint8(uint8(h.DataType)); err != nil {
		return err
	}
	if err := sw.WriteUvarint(uint64(h.TotalSize)); err != nil {
		return err
	}
	if err := sw.WriteUvarint(uint64(h.NumPages)); err != nil {
		return err
	}
	return st.WriteTo(sw)
}

func ChunkHeaderSize(h ChunkHeader, st StatisticsMarshaler) int64 {
	size := int64(UvarintLen(uint64(len(h.SeriesID)))) + int64(len(h.SeriesID))
	size += 1
	size += int64(UvarintLen(uint64(h.TotalSize)))
	size += int64(UvarintLen(uint64(h.NumPages)))
	return size + st.SerializedSize()
}

func ReadChunkHeader(sr *StructuredReader) (ChunkHeader, error) {
	var h ChunkHeader

	var err error
	if h.SeriesID, err = sr.ReadString(); err != nil {
		return h, err
	}
	tag, err := sr.ReadUint8()
	if err != nil {
		return h, err
	}
	h.DataType = DataType(tag)
	if !h.DataType.Valid() {
		return h, ErrUnsupportedDataType
	}

	totalSize, err := sr.ReadUvarint()
	if err != nil {
		return h, err
	}
	h.TotalSize = int64(totalSize)

	numPages, err := sr.ReadUvarint()
	if err != nil {
		return h, err
	}
	h.NumPages = int64(numPages)
	return h, nil
}
