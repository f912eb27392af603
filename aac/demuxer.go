package aac

import "github.com/mewkiz/audiox"

// frameEntry records one scanned ADTS frame's extent and timestamp.
type frameEntry struct {
	offset    int64
	size      int64
	timestamp float64
}

// Demuxer demuxes a raw ADTS AAC stream into a single opaque-packet audio
// track (spec.md §4.5.4).
type Demuxer struct {
	r *audiox.Reader

	track  audiox.AudioTrack
	frames []frameEntry
	cursor int
}

// NewDemuxer wraps r for ADTS demuxing. Init must be called before any
// other method.
func NewDemuxer(r *audiox.Reader) *Demuxer {
	return &Demuxer{r: r}
}

// Init scans the stream for ADTS frames, resyncing on invalid headers, and
// builds the track descriptor from the first frame's header.
func (d *Demuxer) Init() error {
	sz, err := d.r.Size()
	if err != nil {
		return err
	}

	var first *header
	var timestamp float64
	pos := int64(0)
	for pos < sz {
		if err := d.r.Seek(pos); err != nil {
			return err
		}
		h, ok, err := decodeHeader(d.r)
		if err != nil {
			return err
		}
		if !ok {
			pos++
			continue
		}
		if first == nil {
			hc := h
			first = &hc
		}
		d.frames = append(d.frames, frameEntry{
			offset:    pos,
			size:      int64(h.frameLength),
			timestamp: timestamp,
		})
		if h.sampleRate() > 0 {
			timestamp += 1024.0 / float64(h.sampleRate())
		}
		pos += int64(h.frameLength)
	}

	var track audiox.AudioTrack
	track.CodecTag = "aac"
	track.SampleFormat = "aac"
	if first != nil {
		track.SampleRate = first.sampleRate()
		track.Channels = first.channelConfig
		if track.Channels == 0 {
			track.Channels = 2
		}
	}
	track.Duration = timestamp
	d.track = track
	return nil
}

// Track returns the demuxed track descriptor.
func (d *Demuxer) Track() audiox.AudioTrack { return d.track }

// Metadata returns an empty record: ADTS carries no in-band tagging.
func (d *Demuxer) Metadata() audiox.AudioMetadata { return audiox.AudioMetadata{} }

// ReadPacket returns the next raw ADTS frame (header included) as one
// opaque packet, or (nil, nil) once the stream is exhausted.
func (d *Demuxer) ReadPacket(trackID int) (*audiox.EncodedPacket, error) {
	if trackID != 1 {
		return nil, audiox.ErrUnknownTrack(trackID)
	}
	if d.cursor >= len(d.frames) {
		return nil, nil
	}
	f := d.frames[d.cursor]
	if err := d.r.Seek(f.offset); err != nil {
		return nil, err
	}
	data, err := d.r.ReadBytes(int(f.size))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, audiox.ErrTruncatedInput("short ADTS frame at offset %d", f.offset)
	}
	d.cursor++
	return &audiox.EncodedPacket{
		Data:       data,
		Timestamp:  f.timestamp,
		TrackID:    1,
		IsKeyframe: true,
	}, nil
}

// Seek repositions the packet cursor one frame before the first frame at
// or after t (or to the first frame, if that is frame 0), leaving the
// iterator exhausted if t is past the last frame.
func (d *Demuxer) Seek(t float64) error {
	i := 0
	for ; i < len(d.frames); i++ {
		if d.frames[i].timestamp >= t {
			break
		}
	}
	if i >= len(d.frames) {
		d.cursor = len(d.frames)
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
