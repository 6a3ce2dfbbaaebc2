// Package trace reads binary address traces.
//
// A trace is a raw stream of 4-byte addresses. Traces are usually produced on
// big-endian machines, so the default byte order is big-endian regardless of
// the host.
package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// AddressSize is the number of bytes of one address in a trace.
const AddressSize = 4

// ErrTraceFile is returned when a trace file cannot be opened or read.
var ErrTraceFile = errors.New("trace file error")

// ParseByteOrder maps "big", "little" and "native" to a byte order.
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "big", "be", "":
		return binary.BigEndian, nil
	case "little", "le":
		return binary.LittleEndian, nil
	case "native":
		return binary.NativeEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", name)
	}
}

// A Reader decodes addresses from a byte stream.
type Reader struct {
	r        *bufio.Reader
	order    binary.ByteOrder
	buf      [AddressSize]byte
	count    uint64
	trailing int
}

// NewReader creates a Reader that decodes words with the given byte order.
func NewReader(r io.Reader, order binary.ByteOrder) *Reader {
	return &Reader{
		r:     bufio.NewReaderSize(r, 64*1024),
		order: order,
	}
}

// Read returns the next address. It returns io.EOF after the last complete
// address. Bytes of an incomplete last word are dropped.
func (r *Reader) Read() (uint32, error) {
	n, err := io.ReadFull(r.r, r.buf[:])

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		r.trailing = n
		return 0, io.EOF
	default:
		return 0, fmt.Errorf("%w: %w", ErrTraceFile, err)
	}

	r.count++

	return r.order.Uint32(r.buf[:]), nil
}

// Count returns the number of addresses read so far.
func (r *Reader) Count() uint64 {
	return r.count
}

// TrailingBytes returns the size of an incomplete word found at the end of
// the stream.
func (r *Reader) TrailingBytes() int {
	return r.trailing
}

// ReadAll reads every address of the stream.
func ReadAll(r io.Reader, order binary.ByteOrder) ([]uint32, error) {
	return NewReader(r, order).ReadRemaining()
}

// ReadRemaining reads the addresses that have not been read yet.
func (r *Reader) ReadRemaining() ([]uint32, error) {
	var addresses []uint32

	for {
		a, err := r.Read()
		if errors.Is(err, io.EOF) {
			return addresses, nil
		}

		if err != nil {
			return nil, err
		}

		addresses = append(addresses, a)
	}
}

// File is a Reader over a trace file on disk.
type File struct {
	*Reader

	file *os.File
	size int64
}

// Open opens a trace file.
func Open(path string, order binary.ByteOrder) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTraceFile, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrTraceFile, err)
	}

	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrTraceFile, path)
	}

	t := &File{
		Reader: NewReader(f, order),
		file:   f,
		size:   info.Size(),
	}

	return t, nil
}

// NumAddresses returns the number of complete addresses in the file.
func (f *File) NumAddresses() uint64 {
	return uint64(f.size / AddressSize)
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.file.Close()
}
