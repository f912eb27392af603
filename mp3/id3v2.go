package mp3

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/mewkiz/audiox"
)

// id3v2Frame is one already-extracted ID3v2 frame: an id and its raw
// payload bytes, flags discarded (this module never round-trips ID3v2
// frame flags — muxing is pass-through per spec.md §4.5.1).
type id3v2Frame struct {
	ID   string
	Data []byte
}

// readID3v2 parses an ID3v2 tag starting at the reader's current position
// (which must be just past the "ID3" magic already consumed by the
// caller). It returns the frames found and the total tag size (not
// including the 10-byte header), per spec.md §4.5.1.1.
//
// Frame-ID length, size-field width, and flags width vary by major
// version: 4/syncsafe/2 for v2.4, 4/plain-BE32/2 for v2.3, 3/plain-BE24/0
// for v2.2 — mirrored here the way the teacher mirrors per-block-type
// metadata decoding in meta/reader.go.
func readID3v2(r *audiox.Reader) (major uint8, frames []id3v2Frame, tagSize uint32, err error) {
	major, err = r.U8()
	if err != nil {
		return 0, nil, 0, err
	}
	if _, err = r.U8(); err != nil { // minor revision, unused
		return 0, nil, 0, err
	}
	flags, err := r.U8()
	if err != nil {
		return 0, nil, 0, err
	}
	tagSize, err = r.SyncsafeInt()
	if err != nil {
		return 0, nil, 0, err
	}

	end := r.Position() + int64(tagSize)

	if flags&0x40 != 0 {
		var extSize uint32
		if major >= 4 {
			extSize, err = r.SyncsafeInt()
		} else {
			extSize, err = r.U32BE()
		}
		if err != nil {
			return 0, nil, 0, err
		}
		if err = r.Skip(int64(extSize)); err != nil {
			return 0, nil, 0, err
		}
	}

	idLen := 4
	sizeLen := 4
	flagsLen := 2
	if major == 2 {
		idLen, sizeLen, flagsLen = 3, 3, 0
	}

	for r.Position() < end {
		idBytes, err := r.String(idLen, audiox.EncodingASCII)
		if err != nil {
			return major, frames, tagSize, err
		}
		if idBytes[0] == 0 {
			break // padding reached
		}
		var size uint32
		if sizeLen == 4 {
			if major >= 4 {
				size, err = r.SyncsafeInt()
			} else {
				size, err = r.U32BE()
			}
		} else {
			size, err = r.U24BE()
		}
		if err != nil {
			return major, frames, tagSize, err
		}
		if flagsLen > 0 {
			if err = r.Skip(int64(flagsLen)); err != nil {
				return major, frames, tagSize, err
			}
		}
		data, err := r.ReadBytes(int(size))
		if err != nil {
			return major, frames, tagSize, err
		}
		if data == nil {
			break // truncated tag; stop rather than fail the whole demux
		}
		frames = append(frames, id3v2Frame{ID: idBytes, Data: data})
	}
	return major, frames, tagSize, nil
}

// decodeText decodes an ID3v2 text-frame payload: a 1-byte encoding
// selector followed by the text itself (Latin-1, UTF-16 with BOM, or
// UTF-8/UTF-16BE without one, per the ID3v2 encoding byte values 0-3).
func decodeText(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	enc, body := data[0], data[1:]
	switch enc {
	case 0x01, 0x02:
		return decodeUTF16(body)
	case 0x00:
		return strings.TrimRight(latin1ToString(body), "\x00")
	default: // 0x03 UTF-8
		return strings.TrimRight(string(body), "\x00")
	}
}

func decodeUTF16(b []byte) string {
	if len(b) < 2 {
		return ""
	}
	big := true
	if b[0] == 0xFF && b[1] == 0xFE {
		big, b = false, b[2:]
	} else if b[0] == 0xFE && b[1] == 0xFF {
		big, b = true, b[2:]
	}
	n := len(b) / 2
	units := make([]uint16, 0, n)
	for i := 0; i+1 < len(b); i += 2 {
		if big {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		} else {
			units = append(units, uint16(b[i+1])<<8|uint16(b[i]))
		}
	}
	return strings.TrimRight(string(utf16.Decode(units)), "\x00")
}

// decodeComment decodes a COMM/COM frame: encoding(1) + language(3) +
// short description (NUL-terminated, same encoding) + actual text. Only
// the text is kept.
func decodeComment(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	enc := data[0]
	body := data[4:]
	sepLen := 1
	if enc == 0x01 || enc == 0x02 {
		sepLen = 2
	}
	for i := 0; i+sepLen <= len(body); i += sepLen {
		isSep := true
		for j := 0; j < sepLen; j++ {
			if body[i+j] != 0 {
				isSep = false
				break
			}
		}
		if isSep {
			return decodeText(append([]byte{enc}, body[i+sepLen:]...))
		}
	}
	return ""
}

// splitNumTotal splits a "N/M" style TRCK/TPOS value into its number and
// (optional) total.
func splitNumTotal(s string) (num int, total int, hasTotal bool) {
	s = strings.TrimRight(s, "\x00")
	parts := strings.SplitN(s, "/", 2)
	num, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		total, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err == nil {
			return num, total, true
		}
	}
	return num, 0, false
}

// metadataFromID3v2 builds an AudioMetadata from decoded ID3v2 frames
// using the frame-ID -> field mapping spec.md's glossary gives (v2.2's
// 3-char and v2.3+'s 4-char ids both map to the same field).
func metadataFromID3v2(frames []id3v2Frame) audiox.AudioMetadata {
	var m audiox.AudioMetadata
	for _, f := range frames {
		switch f.ID {
		case "TIT2", "TT2":
			m.Title = decodeText(f.Data)
		case "TPE1", "TP1":
			m.Artist = decodeText(f.Data)
		case "TALB", "TAL":
			m.Album = decodeText(f.Data)
		case "TPE2", "TP2":
			m.AlbumArtist = decodeText(f.Data)
		case "TCOM", "TCM":
			m.Composer = decodeText(f.Data)
		case "TCON", "TCO":
			m.Genre = decodeText(f.Data)
		case "TYER", "TYE", "TDRC":
			text := decodeText(f.Data)
			m.Date = text
			if y, err := strconv.Atoi(firstN(text, 4)); err == nil {
				m.Year, m.HasYear = y, true
			}
		case "TRCK", "TRK":
			n, total, hasTotal := splitNumTotal(decodeText(f.Data))
			m.TrackNumber, m.HasTrackNumber = n, true
			if hasTotal {
				m.TrackTotal, m.HasTrackTotal = total, true
			}
		case "TPOS", "TPA":
			n, total, hasTotal := splitNumTotal(decodeText(f.Data))
			m.DiscNumber, m.HasDiscNumber = n, true
			if hasTotal {
				m.DiscTotal, m.HasDiscTotal = total, true
			}
		case "COMM", "COM":
			m.Comment = decodeComment(f.Data)
		case "TCOP", "TCR":
			m.Copyright = decodeText(f.Data)
		case "TENC", "TEN":
			m.EncodedBy = decodeText(f.Data)
		case "TBPM", "TBP":
			if v, err := strconv.ParseFloat(strings.TrimRight(decodeText(f.Data), "\x00"), 64); err == nil {
				m.BPM, m.HasBPM = v, true
			}
		case "TSRC":
			m.ISRC = decodeText(f.Data)
		}
	}
	return m
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
