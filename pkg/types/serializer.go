package types

import (
	"encoding/binary"

	"github.com/AndryLeon/peloton/pkg/errors"
)

// SerializeOutput accumulates a little-endian byte stream. The zero
// value is ready to use.
type SerializeOutput struct {
	buf []byte
}

// NewSerializeOutput creates an output with the given initial capacity.
func NewSerializeOutput(capacity int) *SerializeOutput {
	return &SerializeOutput{buf: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated stream. The slice aliases the output's
// internal buffer.
func (o *SerializeOutput) Bytes() []byte {
	return o.buf
}

// Len returns the number of bytes written so far.
func (o *SerializeOutput) Len() int {
	return len(o.buf)
}

// Reset truncates the stream for reuse.
func (o *SerializeOutput) Reset() {
	o.buf = o.buf[:0]
}

// WriteByte appends a single byte.
func (o *SerializeOutput) WriteByte(b byte) error {
	o.buf = append(o.buf, b)
	return nil
}

// WriteUint16 appends a little-endian 16-bit word.
func (o *SerializeOutput) WriteUint16(v uint16) {
	o.buf = binary.LittleEndian.AppendUint16(o.buf, v)
}

// WriteUint32 appends a little-endian 32-bit word.
func (o *SerializeOutput) WriteUint32(v uint32) {
	o.buf = binary.LittleEndian.AppendUint32(o.buf, v)
}

// WriteUint64 appends a little-endian 64-bit word.
func (o *SerializeOutput) WriteUint64(v uint64) {
	o.buf = binary.LittleEndian.AppendUint64(o.buf, v)
}

// WriteBytes appends raw bytes.
func (o *SerializeOutput) WriteBytes(b []byte) {
	o.buf = append(o.buf, b...)
}

// SerializeInput reads a little-endian byte stream produced by
// SerializeOutput.
type SerializeInput struct {
	buf []byte
	off int
}

// NewSerializeInput wraps a byte stream for reading.
func NewSerializeInput(buf []byte) *SerializeInput {
	return &SerializeInput{buf: buf}
}

// Remaining returns the number of unread bytes.
func (i *SerializeInput) Remaining() int {
	return len(i.buf) - i.off
}

// need fails with a data error when fewer than n bytes remain.
func (i *SerializeInput) need(n int) error {
	if i.Remaining() < n {
		return errors.Newf(errors.ErrorTypeData,
			"serialized stream truncated: need %d bytes, have %d", n, i.Remaining())
	}
	return nil
}

// ReadByte consumes a single byte.
func (i *SerializeInput) ReadByte() (byte, error) {
	if err := i.need(1); err != nil {
		return 0, err
	}
	b := i.buf[i.off]
	i.off++
	return b, nil
}

// ReadUint16 consumes a little-endian 16-bit word.
func (i *SerializeInput) ReadUint16() (uint16, error) {
	if err := i.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(i.buf[i.off:])
	i.off += 2
	return v, nil
}

// ReadUint32 consumes a little-endian 32-bit word.
func (i *SerializeInput) ReadUint32() (uint32, error) {
	if err := i.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(i.buf[i.off:])
	i.off += 4
	return v, nil
}

// ReadUint64 consumes a little-endian 64-bit word.
func (i *SerializeInput) ReadUint64() (uint64, error) {
	if err := i.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(i.buf[i.off:])
	i.off += 8
	return v, nil
}

// ReadBytes consumes n raw bytes. The returned slice aliases the input
// buffer.
func (i *SerializeInput) ReadBytes(n int) ([]byte, error) {
	if err := i.need(n); err != nil {
		return nil, err
	}
	b := i.buf[i.off : i.off+n]
	i.off += n
	return b, nil
}
