package mp3

import (
	"github.com/mewkiz/audiox"
)

// frameEntry is one indexed frame: its byte offset/size within the
// audio-data window and its accumulated timestamp, built once during
// Init and then walked by ReadPacket/Seek — the same eager-index,
// lazy-read split the teacher's frame iteration uses.
type frameEntry struct {
	offset    int64
	size      int
	timestamp float64
}

// Demuxer demuxes MP3/ID3 streams into a single opaque-packet audio track.
type Demuxer struct {
	r *audiox.Reader

	track audiox.AudioTrack
	meta  audiox.AudioMetadata

	frames []frameEntry
	cursor int
}

// NewDemuxer wraps r for MP3 demuxing. Init must be called before any other
// method.
func NewDemuxer(r *audiox.Reader) *Demuxer {
	return &Demuxer{r: r}
}

// Init scans ID3v2, ID3v1, and the frame body, per spec.md §4.5.1.
func (d *Demuxer) Init() error {
	size, err := d.r.Size()
	if err != nil {
		return err
	}

	audioStart := int64(0)
	var id3v2Meta audiox.AudioMetadata
	magic, err := d.r.Peek(3)
	if err != nil {
		return err
	}
	if magic != nil && string(magic) == "ID3" {
		if err := d.r.Skip(3); err != nil {
			return err
		}
		_, frames, tagSize, err := readID3v2(d.r)
		if err != nil {
			return err
		}
		id3v2Meta = metadataFromID3v2(frames)
		audioStart = 10 + int64(tagSize)
	}

	audioEnd := size
	if size >= id3v1Size {
		if err := d.r.Seek(size - id3v1Size); err != nil {
			return err
		}
	}
	var id3v1Meta audiox.AudioMetadata
	if size >= id3v1Size {
		tagBytes, err := d.r.Peek(3)
		if err != nil {
			return err
		}
		if tagBytes != nil && string(tagBytes) == "TAG" {
			if err := d.r.Seek(size - id3v1Size); err != nil {
				return err
			}
			id3v1Meta, err = readID3v1(d.r)
			if err != nil {
				return err
			}
			audioEnd = size - id3v1Size
		}
	}

	meta := id3v1Meta
	meta.Merge(id3v2Meta)
	d.meta = meta

	if err := d.scanFrames(audioStart, audioEnd); err != nil {
		return err
	}

	var track audiox.AudioTrack
	track.CodecTag = "mp3"
	if len(d.frames) > 0 {
		if err := d.r.Seek(d.frames[0].offset); err != nil {
			return err
		}
		word, err := d.r.U32BE()
		if err != nil {
			return err
		}
		h := decodeHeaderWord(word)
		track.SampleRate = uint32(h.sampleRate())
		track.Channels = uint8(h.channels())
		track.Bitrate = uint32(h.bitrate())
		last := d.frames[len(d.frames)-1]
		word, err = peekWord(d.r, last.offset)
		if err != nil {
			return err
		}
		lastH := decodeHeaderWord(word)
		track.Duration = last.timestamp + float64(lastH.samplesPerFrame())/float64(track.SampleRate)
	}
	d.track = track
	return nil
}

// scanFrames builds the frame index between [start, end), resyncing one
// byte at a time on an invalid header (spec.md §4.5.1.3: "on invalid frame
// at position p, advance cursor to p+1 and rescan").
func (d *Demuxer) scanFrames(start, end int64) error {
	pos := start
	var ts float64
	for pos+4 <= end {
		word, err := peekWord(d.r, pos)
		if err != nil {
			return err
		}
		if !isHeaderWord(word) {
			pos++
			continue
		}
		h := decodeHeaderWord(word)
		size := h.frameSize()
		if size <= 0 || pos+int64(size) > end {
			pos++
			continue
		}
		d.frames = append(d.frames, frameEntry{offset: pos, size: size, timestamp: ts})
		sr := h.sampleRate()
		if sr > 0 {
			ts += float64(h.samplesPerFrame()) / float64(sr)
		}
		pos += int64(size)
	}
	return nil
}

// peekWord seeks to pos and reads the 4-byte big-endian word there,
// returning 0 if fewer than 4 bytes remain. It leaves the reader's cursor
// at pos, not pos+4 (Peek doesn't advance it).
func peekWord(r *audiox.Reader, pos int64) (uint32, error) {
	if err := r.Seek(pos); err != nil {
		return 0, err
	}
	b, err := r.Peek(4)
	if err != nil {
		return 0, err
	}
	if b == nil || len(b) < 4 {
		return 0, nil
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// Track returns the demuxed track descriptor.
func (d *Demuxer) Track() audiox.AudioTrack { return d.track }

// Metadata returns the merged ID3v2/ID3v1 metadata record.
func (d *Demuxer) Metadata() audiox.AudioMetadata { return d.meta }

// ReadPacket returns the next MP3 frame as an opaque packet, or (nil, nil)
// once the index is exhausted.
func (d *Demuxer) ReadPacket(trackID int) (*audiox.EncodedPacket, error) {
	if trackID != 1 {
		return nil, audiox.ErrUnknownTrack(trackID)
	}
	if d.cursor >= len(d.frames) {
		return nil, nil
	}
	f := d.frames[d.cursor]
	d.cursor++
	if err := d.r.Seek(f.offset); err != nil {
		return nil, err
	}
	data, err := d.r.ReadBytes(f.size)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, audiox.ErrTruncatedInput("short mp3 frame at offset %d", f.offset)
	}
	return &audiox.EncodedPacket{
		Data:       data,
		Timestamp:  f.timestamp,
		TrackID:    1,
		IsKeyframe: true,
	}, nil
}

// Seek repositions iteration to the first frame whose timestamp is >= t
// (spec.md §4.5.1.6): a linear scan of the frame index, landing one frame
// early (current = max(0, i-1)) to match the teacher's forgiving seek
// convention used elsewhere in this module.
func (d *Demuxer) Seek(t float64) error {
	i := 0
	for ; i < len(d.frames); i++ {
		if d.frames[i].timestamp >= t {
			break
		}
	}
	if i >= len(d.frames) {
		d.cursor = len(d.frames) // past the end: iterator exhausted
		return nil
	}
	if i > 0 {
		i--
	}
	d.cursor = i
	return nil
}

// Close releases the underlying Reader.
func (d *Demuxer) Close() error { return d.r.Close() }
