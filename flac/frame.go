package flac

import "github.com/mewkiz/audiox"

// syncCode is FLAC's 14-bit frame sync code (spec.md §4.5.3.3), grounded on
// the teacher's frame.Header sync check.
const syncCode = 0x3FFE

// blockSizeTable maps a 4-bit block-size code to a fixed block size, or 0 for
// the two "read more bits" codes (spec.md §4.5.3.3): this module treats
// those two codes as "use STREAMINFO's max block size" rather than reading
// the trailing 8/16-bit extension, since frame length here is always
// recovered by the next-sync-word scan, not computed from the header.
var blockSizeTable = map[uint8]uint16{
	0x1: 192,
	0x2: 576, 0x3: 1152, 0x4: 2304, 0x5: 4608,
	0x8: 256, 0x9: 512, 0xA: 1024, 0xB: 2048, 0xC: 4096, 0xD: 8192, 0xE: 16384, 0xF: 32768,
}

// isFrameSync reports whether the 2 bytes at the reader's current position
// look like the start of a FLAC frame header: sync code plus the
// zero-valued reserved bit immediately after it.
func isFrameSync(r *audiox.Reader) (bool, error) {
	b, err := r.Peek(2)
	if err != nil {
		return false, err
	}
	if len(b) < 2 {
		return false, nil
	}
	word := uint16(b[0])<<8 | uint16(b[1])
	if word>>2 != syncCode {
		return false, nil
	}
	return word&0x0002 == 0, nil // reserved bit must be 0
}

// blockSizeOf decodes a frame's block-size code, byte 2 high nibble,
// falling back to maxBlockSize for the variable-length codes 0x6/0x7.
func blockSizeOf(code uint8, maxBlockSize uint16) uint16 {
	if sz, ok := blockSizeTable[code]; ok {
		return sz
	}
	return maxBlockSize
}

// scanFrameBlockSize peeks a frame header (without consuming it) just far
// enough to read the block-size code at byte 2.
func scanFrameBlockSize(r *audiox.Reader, maxBlockSize uint16) (uint16, error) {
	b, err := r.Peek(3)
	if err != nil {
		return 0, err
	}
	if len(b) < 3 {
		return 0, audiox.ErrTruncatedInput("short FLAC frame header")
	}
	code := b[2] >> 4
	return blockSizeOf(code, maxBlockSize), nil
}

// findNextSync searches forward from start (exclusive) for the next frame
// sync word, returning the position of the match or eof's position if none
// is found before eof (spec.md §4.5.3.3's frame-length-by-next-sync rule,
// with the acknowledged CRC-footer/false-sync edge case left unresolved, per
// the Open Question decision).
func findNextSync(r *audiox.Reader, start, eof int64) (int64, error) {
	pos := start
	for pos < eof {
		if err := r.Seek(pos); err != nil {
			return eof, err
		}
		ok, err := isFrameSync(r)
		if err != nil {
			return eof, err
		}
		if ok {
			return pos, nil
		}
		pos++
	}
	return eof, nil
}
