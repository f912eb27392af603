package audiox

import (
	"encoding/binary"
	"io"
	"math"
	"os"
)

// Writer is the append-only mirror of Reader (spec.md §4.2). Writes to a
// Buffer target are collected in memory and returned by Bytes/Close;
// writes to a File or Stream target pass straight through as they arrive.
type Writer struct {
	tgt Target

	// Buffer/File accumulation.
	chunks [][]byte
	length int64

	// Stream passthrough.
	streamW io.Writer

	file    *os.File
	opened  bool
	closed  bool
}

// NewWriter returns a Writer over tgt. No I/O happens until the first
// write (Buffer/File targets) or immediately (Stream targets, which write
// through).
func NewWriter(tgt Target) *Writer {
	w := &Writer{tgt: tgt}
	if tgt.kind == TargetStream {
		w.streamW = tgt.stream
	}
	return w
}

func (w *Writer) ensureFile() error {
	if w.opened {
		return nil
	}
	w.opened = true
	f, err := os.Create(w.tgt.path)
	if err != nil {
		return ErrIO(err, "creating output file %q", w.tgt.path)
	}
	w.file = f
	return nil
}

// WriteBytes appends b verbatim and advances the logical length.
func (w *Writer) WriteBytes(b []byte) error {
	if w.closed {
		return ErrMuxerState("write after close")
	}
	switch w.tgt.kind {
	case TargetStream:
		if _, err := w.streamW.Write(b); err != nil {
			return ErrIO(err, "writing %d bytes to stream target", len(b))
		}
	case TargetFile:
		if err := w.ensureFile(); err != nil {
			return err
		}
		if _, err := w.file.Write(b); err != nil {
			return ErrIO(err, "writing %d bytes to file target", len(b))
		}
	default: // TargetBuffer
		cp := make([]byte, len(b))
		copy(cp, b)
		w.chunks = append(w.chunks, cp)
	}
	w.length += int64(len(b))
	return nil
}

// Length returns the number of bytes written so far.
func (w *Writer) Length() int64 { return w.length }

// Padding writes n copies of b.
func (w *Writer) Padding(n int, b byte) error {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}
	return w.WriteBytes(buf)
}

// FourCC writes a 4-character ASCII tag, space-padded if short and
// truncated if long.
func (w *Writer) FourCC(tag string) error {
	var b [4]byte
	for i := range b {
		b[i] = ' '
	}
	copy(b[:], tag)
	return w.WriteBytes(b[:])
}

// SyncsafeInt writes v (which must fit in 28 bits) as a 4-byte syncsafe
// integer.
func (w *Writer) SyncsafeInt(v uint32) error {
	b := EncodeSyncsafe(v)
	return w.WriteBytes(b[:])
}

func (w *Writer) U8(v uint8) error { return w.WriteBytes([]byte{v}) }
func (w *Writer) I8(v int8) error  { return w.U8(uint8(v)) }

func (w *Writer) U16BE(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return w.WriteBytes(b[:])
}

func (w *Writer) U16LE(v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return w.WriteBytes(b[:])
}

func (w *Writer) I16BE(v int16) error { return w.U16BE(uint16(v)) }
func (w *Writer) I16LE(v int16) error { return w.U16LE(uint16(v)) }

func (w *Writer) U24BE(v uint32) error {
	return w.WriteBytes([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

func (w *Writer) U24LE(v uint32) error {
	return w.WriteBytes([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
}

func (w *Writer) I24BE(v int32) error { return w.U24BE(uint32(v) & 0xFFFFFF) }
func (w *Writer) I24LE(v int32) error { return w.U24LE(uint32(v) & 0xFFFFFF) }

func (w *Writer) U32BE(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return w.WriteBytes(b[:])
}

func (w *Writer) U32LE(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return w.WriteBytes(b[:])
}

func (w *Writer) I32BE(v int32) error { return w.U32BE(uint32(v)) }
func (w *Writer) I32LE(v int32) error { return w.U32LE(uint32(v)) }

func (w *Writer) U64BE(v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return w.WriteBytes(b[:])
}

func (w *Writer) U64LE(v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return w.WriteBytes(b[:])
}

func (w *Writer) I64BE(v int64) error { return w.U64BE(uint64(v)) }
func (w *Writer) I64LE(v int64) error { return w.U64LE(uint64(v)) }

func (w *Writer) F32BE(v float32) error { return w.U32BE(math.Float32bits(v)) }
func (w *Writer) F32LE(v float32) error { return w.U32LE(math.Float32bits(v)) }
func (w *Writer) F64BE(v float64) error { return w.U64BE(math.Float64bits(v)) }
func (w *Writer) F64LE(v float64) error { return w.U64LE(math.Float64bits(v)) }

// String writes s verbatim (ASCII/UTF-8/Latin1 are all byte-identical to a
// Go string for code points below 0x80; callers are responsible for
// encoding values above that for the target's declared StringEncoding).
func (w *Writer) String(s string) error { return w.WriteBytes([]byte(s)) }

// CString writes s followed by a NUL terminator, then pads with additional
// NUL bytes until exactly width bytes have been written (width includes the
// terminator).
func (w *Writer) CString(s string, width int) error {
	if len(s) >= width {
		s = s[:width-1]
	}
	if err := w.WriteBytes([]byte(s)); err != nil {
		return err
	}
	return w.Padding(width-len(s), 0)
}

// Bytes returns the output assembled so far for a Buffer target; it may be
// called before Close. It is an error to call this for non-Buffer targets.
func (w *Writer) Bytes() ([]byte, error) {
	if w.tgt.kind != TargetBuffer {
		return nil, ErrMuxerState("Bytes is only valid for a Buffer target")
	}
	out := make([]byte, 0, w.length)
	for _, c := range w.chunks {
		out = append(out, c...)
	}
	return out, nil
}

// Close flushes pending writes and releases any held resource. For a
// Buffer target it returns the complete assembled output; for File/Stream
// targets it returns nil.
func (w *Writer) Close() ([]byte, error) {
	if w.closed {
		return nil, nil
	}
	w.closed = true
	switch w.tgt.kind {
	case TargetBuffer:
		return w.Bytes()
	case TargetFile:
		if w.file != nil {
			if err := w.file.Close(); err != nil {
				return nil, ErrIO(err, "closing output file %q", w.tgt.path)
			}
		}
		return nil, nil
	default: // TargetStream
		if c, ok := w.streamW.(io.Closer); ok {
			if err := c.Close(); err != nil {
				return nil, ErrIO(err, "closing stream target")
			}
		}
		return nil, nil
	}
}

// PatchAt overwrites len(b) bytes at absolute offset off with b in an
// already-written Buffer or File target. Used by muxers that revise bytes
// already written (the ogg Muxer's EOS flag on its last page). Not
// supported for Stream targets, which are write-once/forward-only.
func (w *Writer) PatchAt(off int64, b []byte) error {
	switch w.tgt.kind {
	case TargetBuffer:
		for i := 0; i < len(b); i++ {
			idx := off + int64(i)
			chunkOff := int64(0)
			for ci, c := range w.chunks {
				if idx < chunkOff+int64(len(c)) {
					w.chunks[ci][idx-chunkOff] = b[i]
					break
				}
				chunkOff += int64(len(c))
			}
		}
		return nil
	case TargetFile:
		if err := w.ensureFile(); err != nil {
			return err
		}
		if _, err := w.file.WriteAt(b, off); err != nil {
			return ErrIO(err, "patching %d bytes at offset %d", len(b), off)
		}
		return nil
	default:
		return ErrNonSeekable("cannot patch a stream target")
	}
}
