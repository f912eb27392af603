// Package ogg demuxes and muxes OGG container pages (spec.md §4.5.5):
// Vorbis/Opus/FLAC-in-OGG stream identification, Vorbis-comment tag
// extraction, and per-segment packet splitting, with a CRC-32 page
// checksum. Grounded on
// other_examples/505d07f1_zeozeozeo-tag__ogg.go.go's page-header shape and
// CRC placement, generalized onto this module's Reader/Writer and the
// shared audiox/crc kernel instead of that file's bespoke CRC table.
package ogg

import (
	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/crc"
)

const magic = "OggS"

const (
	flagContinuation = 0x01
	flagBOS          = 0x02
	flagEOS          = 0x04
)

// pageHeader is a decoded 27-byte OGG page header (spec.md §4.5.5).
type pageHeader struct {
	version        uint8
	headerType     uint8
	granulePos     int64
	serial         uint32
	sequenceNum    uint32
	checksum       uint32
	segmentCount   uint8
}

func (h pageHeader) isContinuation() bool { return h.headerType&flagContinuation != 0 }
func (h pageHeader) isBOS() bool          { return h.headerType&flagBOS != 0 }
func (h pageHeader) isEOS() bool          { return h.headerType&flagEOS != 0 }

// page is one fully-read OGG page: header, segment table, and payload.
type page struct {
	header        pageHeader
	segmentTable  []byte
	payload       []byte
}

// readPage reads one OGG page starting at the reader's current position.
// Returns ok=false (no error) if the bytes at the cursor don't start with
// the OggS magic, letting the caller resync by 1 byte (spec.md §4.5.5's
// scan rule).
func readPage(r *audiox.Reader) (p page, ok bool, err error) {
	magicBytes, err := r.Peek(4)
	if err != nil {
		return page{}, false, err
	}
	if len(magicBytes) < 4 || string(magicBytes) != magic {
		return page{}, false, nil
	}

	header, err := r.ReadBytes(27)
	if err != nil {
		return page{}, false, err
	}
	if header == nil {
		return page{}, false, nil
	}
	h := pageHeader{
		version:      header[4],
		headerType:   header[5],
		granulePos:   int64(le64(header[6:14])),
		serial:       le32(header[14:18]),
		sequenceNum:  le32(header[18:22]),
		checksum:     le32(header[22:26]),
		segmentCount: header[26],
	}

	segmentTable, err := r.ReadBytes(int(h.segmentCount))
	if err != nil {
		return page{}, false, err
	}
	if segmentTable == nil {
		return page{}, false, nil
	}
	var payloadLen int
	for _, s := range segmentTable {
		payloadLen += int(s)
	}
	payload, err := r.ReadBytes(payloadLen)
	if err != nil {
		return page{}, false, err
	}
	if payload == nil && payloadLen > 0 {
		return page{}, false, nil
	}

	return page{header: h, segmentTable: segmentTable, payload: payload}, true, nil
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func le64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// splitPackets splits a page's payload into per-segment packets (spec.md
// §4.5.5's documented simplification: each nonzero-size segment becomes an
// independent packet rather than reassembling 255-byte continuation runs).
func splitPackets(p page) [][]byte {
	var packets [][]byte
	pos := 0
	for _, s := range p.segmentTable {
		if s > 0 {
			packets = append(packets, p.payload[pos:pos+int(s)])
		}
		pos += int(s)
	}
	return packets
}

// encodePage assembles a complete page (27-byte header + segment table +
// payload) with the CRC-32 checksum computed over the whole page with the
// checksum field zeroed, per spec.md §4.5.5's muxer section.
func encodePage(headerType uint8, granulePos int64, serial, sequenceNum uint32, payload []byte) []byte {
	table := segmentTableFor(len(payload))

	buf := make([]byte, 0, 27+len(table)+len(payload))
	buf = append(buf, magic...)
	buf = append(buf, 0x00) // version
	buf = append(buf, headerType)
	buf = appendLE64(buf, uint64(granulePos))
	buf = appendLE32(buf, serial)
	buf = appendLE32(buf, sequenceNum)
	buf = appendLE32(buf, 0) // checksum placeholder
	buf = append(buf, byte(len(table)))
	buf = append(buf, table...)
	buf = append(buf, payload...)

	sum := crc.CRC32OGG(buf)
	buf[22] = byte(sum)
	buf[23] = byte(sum >> 8)
	buf[24] = byte(sum >> 16)
	buf[25] = byte(sum >> 24)
	return buf
}

func appendLE32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendLE64(buf []byte, v uint64) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// verifyChecksum recomputes the CRC-32 over a fully-read page (with the
// checksum field zeroed) and reports whether it matches the header's
// recorded checksum.
func verifyChecksum(p page) bool {
	buf := make([]byte, 0, 27+len(p.segmentTable)+len(p.payload))
	buf = append(buf, magic...)
	buf = append(buf, p.header.version, p.header.headerType)
	buf = appendLE64(buf, uint64(p.header.granulePos))
	buf = appendLE32(buf, p.header.serial)
	buf = appendLE32(buf, p.header.sequenceNum)
	buf = appendLE32(buf, 0) // checksum zeroed
	buf = append(buf, p.header.segmentCount)
	buf = append(buf, p.segmentTable...)
	buf = append(buf, p.payload...)
	return crc.CRC32OGG(buf) == p.header.checksum
}

// segmentTableFor computes the segment table for a payload of length n:
// n/255 entries of 255 followed by one final n%255 entry (spec.md
// §4.5.5's muxer section). That final entry is 0 when n is a multiple of
// 255, so a zero-length payload yields a single zero-size segment.
func segmentTableFor(n int) []byte {
	if n == 0 {
		return []byte{0}
	}
	var table []byte
	for n >= 255 {
		table = append(table, 255)
		n -= 255
	}
	table = append(table, byte(n))
	return table
}
