package ogg

import "github.com/mewkiz/audiox"

// streamState tracks one logical OGG bitstream (one `serial`) as pages are
// scanned.
type streamState struct {
	serial       uint32
	codec        string
	sampleRate   uint32
	channels     uint8
	packetsSeen  int
	meta         audiox.AudioMetadata
}

// packetEntry is one extracted packet, already resolved to a timestamp.
type packetEntry struct {
	data      []byte
	timestamp float64
}

// Demuxer demuxes an OGG stream into a single opaque-packet audio track
// (spec.md §4.5.5). Only the first logical bitstream encountered is
// exposed; a multiplexed multi-stream OGG file is out of scope.
type Demuxer struct {
	r *audiox.Reader

	track   audiox.AudioTrack
	meta    audiox.AudioMetadata
	packets []packetEntry
	cursor  int
}

// NewDemuxer wraps r for OGG demuxing. Init must be called before any
// other method.
func NewDemuxer(r *audiox.Reader) *Demuxer {
	return &Demuxer{r: r}
}

// Init scans the stream page by page (spec.md §4.5.5's scan rule),
// resyncing by 1 byte on a magic mismatch, verifying each page's CRC-32,
// identifying the codec from the first stream's identification packet,
// extracting the comment header, and splitting audio pages into packets.
func (d *Demuxer) Init() error {
	sz, err := d.r.Size()
	if err != nil {
		return err
	}

	var st *streamState
	var granuleCursor int64
	pos := int64(0)
	for pos < sz {
		if err := d.r.Seek(pos); err != nil {
			return err
		}
		p, ok, err := readPage(d.r)
		if err != nil {
			return err
		}
		if !ok {
			pos++
			continue
		}
		pos = d.r.Position()

		if !verifyChecksum(p) {
			return audiox.ErrInvalidContainer("OGG page checksum mismatch, serial %d seq %d", p.header.serial, p.header.sequenceNum)
		}

		if st == nil {
			if !p.header.isBOS() {
				// Not the stream we're tracking yet; keep scanning.
				continue
			}
			st = &streamState{serial: p.header.serial}
		}
		if p.header.serial != st.serial {
			continue // a second multiplexed stream: out of scope, skip its pages.
		}

		for _, pkt := range splitPackets(p) {
			st.packetsSeen++
			switch st.packetsSeen {
			case 1:
				st.codec, st.sampleRate, st.channels = detectCodec(pkt)
			case 2:
				if payload, ok := isCommentPacket(st.codec, pkt); ok {
					_, entries := parseVorbisComment(payload)
					st.meta = metadataFromComments(entries)
					continue
				}
				d.appendAudioPacket(st, pkt, &granuleCursor)
			default:
				d.appendAudioPacket(st, pkt, &granuleCursor)
			}
		}
	}

	if st == nil {
		return audiox.ErrInvalidContainer("no OGG bitstream found")
	}

	var track audiox.AudioTrack
	track.CodecTag = st.codec
	track.SampleRate = st.sampleRate
	track.Channels = st.channels
	if st.sampleRate > 0 && len(d.packets) > 0 {
		track.Duration = d.packets[len(d.packets)-1].timestamp + float64(packetAdvance(st.codec))/float64(st.sampleRate)
	}
	d.track = track
	d.meta = st.meta
	return nil
}

// appendAudioPacket records pkt as an audio packet, advancing the granule
// cursor by the codec's per-packet step and deriving its timestamp
// (spec.md §4.5.5: "the first emitted packet in a stream has timestamp
// 0").
func (d *Demuxer) appendAudioPacket(st *streamState, pkt []byte, granuleCursor *int64) {
	ts := 0.0
	if st.sampleRate > 0 {
		ts = float64(*granuleCursor) / float64(st.sampleRate)
	}
	d.packets = append(d.packets, packetEntry{data: pkt, timestamp: ts})
	*granuleCursor += packetAdvance(st.codec)
}

// Track returns the demuxed track descriptor.
func (d *Demuxer) Track() audiox.AudioTrack { return d.track }

// Metadata returns the demuxed comment-header metadata record.
func (d *Demuxer) Metadata() audiox.AudioMetadata { return d.meta }

// ReadPacket returns the next audio packet, or (nil, nil) once the stream
// is exhausted.
func (d *Demuxer) ReadPacket(trackID int) (*audiox.EncodedPacket, error) {
	if trackID != 1 {
		return nil, audiox.ErrUnknownTrack(trackID)
	}
	if d.cursor >= len(d.packets) {
		return nil, nil
	}
	p := d.packets[d.cursor]
	d.cursor++
	return &audiox.EncodedPacket{
		Data:       p.data,
		Timestamp:  p.timestamp,
		TrackID:    1,
		IsKeyframe: true,
	}, nil
}

// Seek repositions the packet cursor one packet before the first packet
// at or after t (or to the first packet, if that is packet 0), leaving the
// iterator exhausted if t is past the last packet.
func (d *Demuxer) Seek(t float64) error {
	i := 0
	for ; i < len(d.packets); i++ {
		if d.packets[i].timestamp >= t {
			break
		}
	}
	if i >= len(d.packets) {
		d.cursor = len(d.packets)
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
