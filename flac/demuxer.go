package flac

import "github.com/mewkiz/audiox"

// frameEntry records one scanned frame's extent and presentation timestamp.
type frameEntry struct {
	offset    int64
	size      int64
	timestamp float64
}

// Demuxer demuxes a native FLAC stream into a single opaque-packet audio
// track, carrying STREAMINFO/VORBIS_COMMENT/PICTURE (and the supplemented
// SEEKTABLE/CUESHEET/APPLICATION blocks) as metadata (spec.md §4.5.3).
type Demuxer struct {
	r *audiox.Reader

	info   StreamInfo
	vc     VorbisComment
	haveVC bool
	pics   []Picture
	seek   SeekTable
	cue    CueSheet
	apps   []Application

	meta audiox.AudioMetadata

	frames []frameEntry
	cursor int
}

// NewDemuxer wraps r for FLAC demuxing. Init must be called before any other
// method.
func NewDemuxer(r *audiox.Reader) *Demuxer {
	return &Demuxer{r: r}
}

// Init reads the "fLaC" magic, the metadata block chain, and builds an
// eager frame index by repeatedly scanning for the next sync word — the
// same eager-index shape the mp3 demuxer uses.
func (d *Demuxer) Init() error {
	magic, err := d.r.String(4, audiox.EncodingASCII)
	if err != nil {
		return err
	}
	if magic != Magic {
		return audiox.ErrInvalidContainer("not a FLAC stream: magic %q", magic)
	}

	haveStreamInfo := false
	for {
		hdr, err := readBlockHeader(d.r)
		if err != nil {
			return err
		}
		switch hdr.typ {
		case blockStreamInfo:
			si, err := readStreamInfo(d.r)
			if err != nil {
				return err
			}
			d.info = si
			haveStreamInfo = true
		case blockVorbisComment:
			vc, err := readVorbisComment(d.r, hdr.length)
			if err != nil {
				return err
			}
			d.vc = vc
			d.haveVC = true
		case blockPicture:
			pic, err := readPicture(d.r)
			if err != nil {
				return err
			}
			d.pics = append(d.pics, pic)
		case blockSeekTable:
			st, err := readSeekTable(d.r, hdr.length)
			if err != nil {
				return err
			}
			d.seek = st
		case blockCueSheet:
			cs, err := readCueSheet(d.r)
			if err != nil {
				return err
			}
			d.cue = cs
		case blockApplication:
			app, err := readApplication(d.r, hdr.length)
			if err != nil {
				return err
			}
			d.apps = append(d.apps, app)
		default: // blockPadding and any unrecognized type: skip verbatim
			if err := d.r.Skip(int64(hdr.length)); err != nil {
				return err
			}
		}
		if hdr.isLast {
			break
		}
	}
	if !haveStreamInfo {
		return audiox.ErrInvalidContainer("FLAC stream missing mandatory STREAMINFO block")
	}

	if d.haveVC {
		d.meta = metadataFromVorbisComment(d.vc)
	}
	for _, pic := range d.pics {
		d.meta.CoverArt = append(d.meta.CoverArt, audiox.CoverArt{
			Data:        pic.Data,
			MimeType:    pic.MIME,
			Description: pic.Desc,
		})
	}

	if err := d.scanFrames(); err != nil {
		return err
	}
	return nil
}

// scanFrames builds the eager frame index from the current position (the
// first audio frame, immediately after the metadata chain) to EOF.
func (d *Demuxer) scanFrames() error {
	sz, err := d.r.Size()
	if err != nil {
		return err
	}
	pos := d.r.Position()
	var sampleCursor uint64
	for pos < sz {
		ok, err := func() (bool, error) {
			if err := d.r.Seek(pos); err != nil {
				return false, err
			}
			return isFrameSync(d.r)
		}()
		if err != nil {
			return err
		}
		if !ok {
			pos++
			continue
		}
		blockSize, err := scanFrameBlockSize(d.r, d.info.MaxBlockSize)
		if err != nil {
			return err
		}
		next, err := findNextSync(d.r, pos+1, sz)
		if err != nil {
			return err
		}
		ts := 0.0
		if d.info.SampleRate > 0 {
			ts = float64(sampleCursor) / float64(d.info.SampleRate)
		}
		d.frames = append(d.frames, frameEntry{offset: pos, size: next - pos, timestamp: ts})
		sampleCursor += uint64(blockSize)
		pos = next
	}
	return nil
}

// Track returns the demuxed track descriptor.
func (d *Demuxer) Track() audiox.AudioTrack {
	var t audiox.AudioTrack
	t.CodecTag = "flac"
	t.SampleFormat = "s" + itoa(int(d.info.BitsPerSample))
	t.SampleRate = d.info.SampleRate
	t.Channels = d.info.ChannelCount
	t.BitDepth = d.info.BitsPerSample
	if d.info.SampleRate > 0 {
		t.Duration = float64(d.info.SampleCount) / float64(d.info.SampleRate)
	}
	return t
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Metadata returns the demuxed VORBIS_COMMENT/PICTURE metadata record.
func (d *Demuxer) Metadata() audiox.AudioMetadata { return d.meta }

// StreamInfo returns the parsed STREAMINFO block.
func (d *Demuxer) StreamInfo() StreamInfo { return d.info }

// SeekTable returns the parsed SEEKTABLE block, if present.
func (d *Demuxer) SeekTable() SeekTable { return d.seek }

// CueSheet returns the parsed CUESHEET block, if present.
func (d *Demuxer) CueSheet() CueSheet { return d.cue }

// Applications returns the parsed APPLICATION blocks, if any.
func (d *Demuxer) Applications() []Application { return d.apps }

// ReadPacket returns the next raw FLAC frame as one opaque packet, or (nil,
// nil) once the stream is exhausted.
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
		return nil, audiox.ErrTruncatedInput("short FLAC frame at offset %d", f.offset)
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
