package format

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pierrec/lz4/v4"
)

// StructuredWriter wraps an io.Writer with the primitive writes of the file
// format and tracks the number of bytes written so far.
type StructuredWriter struct {
	w      io.Writer
	offset uint64
}

func NewStructuredWriter(w io.Writer) *StructuredWriter {
	return &StructuredWriter{w: w}
}

// Write writes data to the underlying writer with no special formatting.
func (sw *StructuredWriter) Write(p []byte) (int, error) {
	n, err := sw.w.Write(p)
	sw.offset += uint64(n)
	return n, err
}

func (sw *StructuredWriter) Offset() uint64 {
	return sw.offset
}

// WriteVarint writes a variable-length integer to the underlying writer.
func (sw *StructuredWriter) WriteVarint(value int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], value)
	_, err := sw.Write(buf[:n])
	return err
}

// WriteUvarint writes an unsigned variable-length integer to the underlying writer.
func (sw *StructuredWriter) WriteUvarint(value uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], value)
	_, err := sw.Write(buf[:n])
	return err
}

// WriteBytes writes a byte slice prefixed with its length as a uvarint.
func (sw *StructuredWriter) WriteBytes(data []byte) error {
	if err := sw.WriteUvarint(uint64(len(data))); err != nil {
		return err
	}

	_, err := sw.Write(data)
	return err
}

// WriteString writes a string prefixed with its length as a uvarint.
func (sw *StructuredWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// WriteUInt64 writes a 64-bit unsigned integer in big-endian order.
func (sw *StructuredWriter) WriteUInt64(value uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	_, err := sw.Write(buf[:])
	return err
}

// WriteInt64 writes a 64-bit signed integer in big-endian order.
func (sw *StructuredWriter) WriteInt64(value int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(value))
	_, err := sw.Write(buf[:])
	return err
}

// WriteFloat64 writes a 64-bit floating-point number in big-endian order.
func (sw *StructuredWriter) WriteFloat64(value float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(value))
	_, err := sw.Write(buf[:])
	return err
}

// WriteUInt32 writes a 32-bit unsigned integer in big-endian order.
func (sw *StructuredWriter) WriteUInt32(value uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	_, err := sw.Write(buf[:])
	return err
}

// WriteInt32 writes a 32-bit signed integer in big-endian order.
func (sw *StructuredWriter) WriteInt32(value int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(value))
	_, err := sw.Write(buf[:])
	return err
}

// WriteFloat32 writes a 32-bit floating-point number in big-endian order.
func (sw *StructuredWriter) WriteFloat32(value float32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(value))
	_, err := sw.Write(buf[:])
	return err
}

// WriteUint8 writes a single byte.
func (sw *StructuredWriter) WriteUint8(value uint8) error {
	var buf [1]byte
	buf[0] = value
	_, err := sw.Write(buf[:])
	return err
}

// WriteBool writes a boolean as a single byte, 1 for true and 0 for false.
func (sw *StructuredWriter) WriteBool(value bool) error {
	if value {
		return sw.WriteUint8(1)
	}
	return sw.WriteUint8(0)
}

// WriteLZ4 compresses the input data using LZ4 and writes it to the underlying writer.
func (sw *StructuredWriter) WriteLZ4(p []byte) error {
	compressedWriter := lz4.NewWriter(sw)

	if _, err := compressedWriter.Write(p); err != nil {
		return err
	}

	return compressedWriter.Close()
}

// UvarintLen returns the number of bytes WriteUvarint emits for value.
func UvarintLen(value uint64) int {
	var buf [binary.MaxVarintLen64]byte
	return binary.PutUvarint(buf[:], value)
}

// StructuredReader is the read-side counterpart of StructuredWriter. The
// writer path never needs it; it backs the header and statistics readers used
// by tests that check emitted bytes.
type StructuredReader struct {
	r io.Reader
}

func NewStructuredReader(r io.Reader) *StructuredReader {
	return &StructuredReader{r: r}
}

func (sr *StructuredReader) Read(p []byte) (int, error) {
	return sr.r.Read(p)
}

// ReadByte reads a single byte. This is required for binary.ReadUvarint.
func (sr *StructuredReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(sr.r, buf[:])
	return buf[0], err
}

func (sr *StructuredReader) ReadVarint() (int64, error) {
	return binary.ReadVarint(sr)
}

func (sr *StructuredReader) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(sr)
}

// ReadBytes reads a byte slice prefixed with its length as a uvarint.
func (sr *StructuredReader) ReadBytes() ([]byte, error) {
	length, err := sr.ReadUvarint()
	if err != nil {
		return nil, err
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(sr.r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// ReadString reads a string prefixed with its length as a uvarint.
func (sr *StructuredReader) ReadString() (string, error) {
	data, err := sr.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (sr *StructuredReader) ReadUInt64() (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(sr.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (sr *StructuredReader) ReadInt64() (int64, error) {
	v, err := sr.ReadUInt64()
	return int64(v), err
}

func (sr *StructuredReader) ReadFloat64() (float64, error) {
	v, err := sr.ReadUInt64()
	return math.Float64frombits(v), err
}

func (sr *StructuredReader) ReadUInt32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(sr.r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func (sr *StructuredReader) ReadInt32() (int32, error) {
	v, err := sr.ReadUInt32()
	return int32(v), err
}

func (sr *StructuredReader) ReadFloat32() (float32, error) {
	v, err := sr.ReadUInt32()
	return math.Float32frombits(v), err
}

func (sr *StructuredReader) ReadUint8() (uint8, error) {
	return sr.ReadByte()
}

func (sr *StructuredReader) ReadBool() (bool, error) {
	b, err := sr.ReadByte()
	return b != 0, err
}

// ReadLZ4 reads LZ4-compressed data from the underlying reader and decompresses it.
func (sr *StructuredReader) ReadLZ4() ([]byte, error) {
	compressedReader := lz4.NewReader(sr)

	buffer := bytes.NewBuffer(nil)
	if _, err := compressedReader.WriteTo(buffer); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}
