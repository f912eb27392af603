package flac

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/bitstream"
)

// blockHeader is the 4-byte header preceding every metadata block (spec.md
// §4.5.3.2), grounded on the teacher's meta.Block header parsing.
type blockHeader struct {
	isLast bool
	typ    blockType
	length uint32 // 24-bit
}

func readBlockHeader(r *audiox.Reader) (blockHeader, error) {
	b, err := r.U8()
	if err != nil {
		return blockHeader{}, err
	}
	length, err := r.U24BE()
	if err != nil {
		return blockHeader{}, err
	}
	return blockHeader{
		isLast: b&0x80 != 0,
		typ:    blockType(b & 0x7F),
		length: length,
	}, nil
}

// readStreamInfo parses the mandatory STREAMINFO block body (spec.md §3): 34
// bytes with several fields packed across bit boundaries, grounded on the
// teacher's meta.NewStreamInfo.
func readStreamInfo(r *audiox.Reader) (StreamInfo, error) {
	body, err := r.ReadBytes(34)
	if err != nil {
		return StreamInfo{}, err
	}
	if body == nil {
		return StreamInfo{}, audiox.ErrTruncatedInput("short STREAMINFO block")
	}
	br := bitstream.NewReader(bytes.NewReader(body))

	minBlock, err := br.ReadBits(16)
	if err != nil {
		return StreamInfo{}, err
	}
	maxBlock, err := br.ReadBits(16)
	if err != nil {
		return StreamInfo{}, err
	}
	minFrame, err := br.ReadBits(24)
	if err != nil {
		return StreamInfo{}, err
	}
	maxFrame, err := br.ReadBits(24)
	if err != nil {
		return StreamInfo{}, err
	}
	sampleRate, err := br.ReadBits(20)
	if err != nil {
		return StreamInfo{}, err
	}
	channels, err := br.ReadBits(3)
	if err != nil {
		return StreamInfo{}, err
	}
	bps, err := br.ReadBits(5)
	if err != nil {
		return StreamInfo{}, err
	}
	sampleCount, err := br.ReadBitsBig(36)
	if err != nil {
		return StreamInfo{}, err
	}

	var si StreamInfo
	si.MinBlockSize = uint16(minBlock)
	si.MaxBlockSize = uint16(maxBlock)
	si.MinFrameSize = minFrame
	si.MaxFrameSize = maxFrame
	si.SampleRate = sampleRate
	si.ChannelCount = uint8(channels) + 1
	si.BitsPerSample = uint8(bps) + 1
	si.SampleCount = sampleCount
	copy(si.MD5sum[:], body[18:34])
	return si, nil
}

// readVorbisComment parses a VORBIS_COMMENT block body (spec.md §4.5.3.2):
// LE-length-prefixed vendor string followed by an LE-length-prefixed count
// of LE-length-prefixed "KEY=value" entries. Grounded on the teacher's
// meta.NewVorbisComment.
func readVorbisComment(r *audiox.Reader, length uint32) (VorbisComment, error) {
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return VorbisComment{}, err
	}
	if body == nil {
		return VorbisComment{}, audiox.ErrTruncatedInput("short VORBIS_COMMENT block")
	}
	var vc VorbisComment
	pos := 0
	readLenPrefixed := func() (string, bool) {
		if pos+4 > len(body) {
			return "", false
		}
		n := int(le32(body[pos:]))
		pos += 4
		if pos+n > len(body) {
			return "", false
		}
		s := string(body[pos : pos+n])
		pos += n
		return s, true
	}
	vendor, ok := readLenPrefixed()
	if !ok {
		return vc, audiox.ErrTruncatedInput("short VORBIS_COMMENT vendor string")
	}
	vc.Vendor = vendor
	if pos+4 > len(body) {
		return vc, audiox.ErrTruncatedInput("short VORBIS_COMMENT entry count")
	}
	count := int(le32(body[pos:]))
	pos += 4
	for i := 0; i < count; i++ {
		entry, ok := readLenPrefixed()
		if !ok {
			break
		}
		name, value := splitVorbisEntry(entry)
		vc.Entries = append(vc.Entries, VorbisEntry{Name: name, Value: value})
	}
	return vc, nil
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func splitVorbisEntry(entry string) (name, value string) {
	i := strings.IndexByte(entry, '=')
	if i < 0 {
		return entry, ""
	}
	return entry[:i], entry[i+1:]
}

// metadataFromVorbisComment maps a VorbisComment's recognized keys onto an
// AudioMetadata record (spec.md's glossary of common Vorbis comment keys).
func metadataFromVorbisComment(vc VorbisComment) audiox.AudioMetadata {
	var m audiox.AudioMetadata
	for _, e := range vc.Entries {
		key := strings.ToUpper(e.Name)
		switch key {
		case "TITLE":
			m.Title = e.Value
		case "ARTIST":
			m.Artist = e.Value
		case "ALBUM":
			m.Album = e.Value
		case "ALBUMARTIST":
			m.AlbumArtist = e.Value
		case "COMPOSER":
			m.Composer = e.Value
		case "GENRE":
			m.Genre = e.Value
		case "COMMENT", "DESCRIPTION":
			m.Comment = e.Value
		case "COPYRIGHT":
			m.Copyright = e.Value
		case "ENCODER":
			m.Encoder = e.Value
		case "ISRC":
			m.ISRC = e.Value
		case "DATE":
			m.Date = e.Value
			// A non-numeric or short leading substring silently drops the
			// year rather than propagating an error (matches the source's
			// observed behavior, per the Open Question decision).
			if len(e.Value) >= 4 {
				if y, err := strconv.Atoi(e.Value[:4]); err == nil {
					m.Year, m.HasYear = y, true
				}
			}
		case "TRACKNUMBER":
			if n, total, hasTotal := splitSlashPair(e.Value); n > 0 {
				m.TrackNumber, m.HasTrackNumber = n, true
				if hasTotal {
					m.TrackTotal, m.HasTrackTotal = total, true
				}
			}
		case "DISCNUMBER":
			if n, total, hasTotal := splitSlashPair(e.Value); n > 0 {
				m.DiscNumber, m.HasDiscNumber = n, true
				if hasTotal {
					m.DiscTotal, m.HasDiscTotal = total, true
				}
			}
		case "BPM":
			if n, err := strconv.ParseFloat(strings.TrimSpace(e.Value), 64); err == nil {
				m.BPM, m.HasBPM = n, true
			}
		}
	}
	return m
}

func splitSlashPair(s string) (n, total int, hasTotal bool) {
	parts := strings.SplitN(s, "/", 2)
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	if len(parts) == 2 {
		if t, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			return n, t, true
		}
	}
	return n, 0, false
}

// readPicture parses a PICTURE block body (spec.md §4.5.3.2), grounded on
// the teacher's meta.NewPicture.
func readPicture(r *audiox.Reader) (Picture, error) {
	var p Picture
	typ, err := r.U32BE()
	if err != nil {
		return p, err
	}
	p.Type = typ
	mimeLen, err := r.U32BE()
	if err != nil {
		return p, err
	}
	mime, err := r.ReadBytes(int(mimeLen))
	if err != nil {
		return p, err
	}
	p.MIME = string(mime)
	descLen, err := r.U32BE()
	if err != nil {
		return p, err
	}
	desc, err := r.ReadBytes(int(descLen))
	if err != nil {
		return p, err
	}
	p.Desc = string(desc)
	if p.Width, err = r.U32BE(); err != nil {
		return p, err
	}
	if p.Height, err = r.U32BE(); err != nil {
		return p, err
	}
	if p.ColorDepth, err = r.U32BE(); err != nil {
		return p, err
	}
	if p.ColorCount, err = r.U32BE(); err != nil {
		return p, err
	}
	dataLen, err := r.U32BE()
	if err != nil {
		return p, err
	}
	data, err := r.ReadBytes(int(dataLen))
	if err != nil {
		return p, err
	}
	p.Data = data
	return p, nil
}

// readSeekTable parses a SEEKTABLE block body: length/18 fixed-size
// entries, grounded on the teacher's meta.NewSeekTable.
func readSeekTable(r *audiox.Reader, length uint32) (SeekTable, error) {
	var st SeekTable
	n := length / 18
	for i := uint32(0); i < n; i++ {
		sampleNum, err := r.U64BE()
		if err != nil {
			return st, err
		}
		offset, err := r.U64BE()
		if err != nil {
			return st, err
		}
		sampleCount, err := r.U16BE()
		if err != nil {
			return st, err
		}
		st.Points = append(st.Points, SeekPoint{
			SampleNum:   sampleNum,
			Offset:      offset,
			SampleCount: sampleCount,
		})
	}
	return st, nil
}

// readApplication parses an APPLICATION block body: a 4-byte registered ID
// followed by opaque application data, grounded on the teacher's
// meta.NewApplication.
func readApplication(r *audiox.Reader, length uint32) (Application, error) {
	var a Application
	id, err := r.FourCC()
	if err != nil {
		return a, err
	}
	a.ID = id
	if length < 4 {
		return a, audiox.ErrTruncatedInput("short APPLICATION block")
	}
	data, err := r.ReadBytes(int(length - 4))
	if err != nil {
		return a, err
	}
	a.Data = data
	return a, nil
}

// readCueSheet parses a CUESHEET block body (spec.md's supplemented-feature
// set), grounded on the teacher's meta.NewCueSheet.
func readCueSheet(r *audiox.Reader) (CueSheet, error) {
	var cs CueSheet
	mcn, err := r.CString(128)
	if err != nil {
		return cs, err
	}
	cs.MCN = mcn
	leadIn, err := r.U64BE()
	if err != nil {
		return cs, err
	}
	cs.LeadInSampleCount = leadIn
	flags, err := r.U8()
	if err != nil {
		return cs, err
	}
	cs.IsCompactDisc = flags&0x80 != 0
	if err := r.Skip(258); err != nil { // reserved
		return cs, err
	}
	trackCount, err := r.U8()
	if err != nil {
		return cs, err
	}
	for i := uint8(0); i < trackCount; i++ {
		t, err := readCueSheetTrack(r)
		if err != nil {
			return cs, err
		}
		cs.Tracks = append(cs.Tracks, t)
	}
	return cs, nil
}

func readCueSheetTrack(r *audiox.Reader) (CueSheetTrack, error) {
	var t CueSheetTrack
	offset, err := r.U64BE()
	if err != nil {
		return t, err
	}
	t.Offset = offset
	num, err := r.U8()
	if err != nil {
		return t, err
	}
	t.TrackNum = num
	isrc, err := r.CString(12)
	if err != nil {
		return t, err
	}
	t.ISRC = isrc
	flags, err := r.U8()
	if err != nil {
		return t, err
	}
	t.IsAudio = flags&0x80 == 0
	t.HasPreEmphasis = flags&0x40 != 0
	if err := r.Skip(13); err != nil { // reserved
		return t, err
	}
	indexCount, err := r.U8()
	if err != nil {
		return t, err
	}
	for i := uint8(0); i < indexCount; i++ {
		idxOffset, err := r.U64BE()
		if err != nil {
			return t, err
		}
		idxNum, err := r.U8()
		if err != nil {
			return t, err
		}
		if err := r.Skip(3); err != nil { // reserved
			return t, err
		}
		t.TrackIndexes = append(t.TrackIndexes, CueSheetTrackIndex{
			Offset:        idxOffset,
			IndexPointNum: idxNum,
		})
	}
	return t, nil
}
