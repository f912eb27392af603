package wav

import (
	"strconv"
	"strings"

	"github.com/mewkiz/audiox"
)

// dataChunkInfo records where the data chunk's payload lives, since its
// bytes are never read eagerly (spec.md §4.5.2.3).
type dataChunkInfo struct {
	offset int64
	size   int64
}

// Demuxer demuxes RIFF/WAVE and RF64 streams into a single opaque-packet
// audio track.
type Demuxer struct {
	r *audiox.Reader

	format WavFormat
	data   dataChunkInfo
	track  audiox.AudioTrack
	meta   audiox.AudioMetadata

	framesEmitted int64
}

// NewDemuxer wraps r for WAV/RF64 demuxing. Init must be called before any
// other method.
func NewDemuxer(r *audiox.Reader) *Demuxer {
	return &Demuxer{r: r}
}

const framesPerPacket = 4096

// Init parses the RIFF/RF64 header, ds64 override (if present), and the
// fmt/data/LIST chunks, per spec.md §4.5.2.
func (d *Demuxer) Init() error {
	magic, err := d.r.FourCC()
	if err != nil {
		return err
	}
	isRF64 := magic == "RF64"
	if magic != "RIFF" && !isRF64 {
		return audiox.ErrInvalidContainer("not a RIFF/RF64 stream: magic %q", magic)
	}
	riffSize, err := d.r.U32LE()
	if err != nil {
		return err
	}
	form, err := d.r.FourCC()
	if err != nil {
		return err
	}
	if form != "WAVE" {
		return audiox.ErrInvalidContainer("RIFF form type %q is not WAVE", form)
	}

	var ds64 Ds64Chunk
	haveDs64 := false
	if isRF64 {
		id, err := d.r.FourCC()
		if err != nil {
			return err
		}
		if id != "ds64" {
			return audiox.ErrInvalidContainer("RF64 stream missing mandatory ds64 chunk, got %q", id)
		}
		size, err := d.r.U32LE()
		if err != nil {
			return err
		}
		riffLo, err := d.r.U32LE()
		if err != nil {
			return err
		}
		riffHi, err := d.r.U32LE()
		if err != nil {
			return err
		}
		dataLo, err := d.r.U32LE()
		if err != nil {
			return err
		}
		dataHi, err := d.r.U32LE()
		if err != nil {
			return err
		}
		sampleLo, err := d.r.U32LE()
		if err != nil {
			return err
		}
		sampleHi, err := d.r.U32LE()
		if err != nil {
			return err
		}
		tableLen, err := d.r.U32LE()
		if err != nil {
			return err
		}
		ds64 = Ds64Chunk{
			RIFFSize:    uint64(riffLo) | uint64(riffHi)<<32,
			DataSize:    uint64(dataLo) | uint64(dataHi)<<32,
			SampleCount: uint64(sampleLo) | uint64(sampleHi)<<32,
			TableLength: tableLen,
		}
		haveDs64 = true
		// Skip any sound-chunk-size table entries plus padding to the
		// declared chunk size (the table is empty in the common case).
		consumed := int64(28)
		if err := d.r.Skip(int64(size) - consumed); err != nil {
			return err
		}
		if size%2 == 1 {
			if err := d.r.Skip(1); err != nil {
				return err
			}
		}
	}

	var totalRIFFSize int64
	if haveDs64 && riffSize == 0xFFFFFFFF {
		totalRIFFSize = int64(ds64.RIFFSize)
	} else {
		totalRIFFSize = int64(riffSize)
	}
	end := int64(8) + totalRIFFSize // 8 = magic + size field

	for d.r.Position() < end {
		ok, err := d.readChunk(&ds64, haveDs64)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}

	codec, sampleFormat := codecTag(d.format)
	var track audiox.AudioTrack
	track.CodecTag = codec
	track.SampleFormat = sampleFormat
	track.SampleRate = d.format.SampleRate
	track.Channels = uint8(d.format.Channels)
	track.BitDepth = uint8(d.format.BitsPerSample)
	if d.format.BitsPerSample > 0 && d.format.Channels > 0 {
		track.Bitrate = uint32(uint64(d.format.SampleRate) * uint64(d.format.BitsPerSample) * uint64(d.format.Channels))
	}
	bytesPerFrame := int64(d.format.BlockAlign)
	if bytesPerFrame > 0 && track.SampleRate > 0 {
		track.Duration = float64(d.data.size/bytesPerFrame) / float64(track.SampleRate)
	}
	d.track = track
	return nil
}

// readChunk reads one RIFF chunk header and dispatches on its id. Returns
// false when no further chunk header can be read (EOF).
func (d *Demuxer) readChunk(ds64 *Ds64Chunk, haveDs64 bool) (bool, error) {
	id, err := peekFourCC(d.r)
	if err != nil {
		return false, err
	}
	if id == "" {
		return false, nil
	}
	if err := d.r.Skip(4); err != nil {
		return false, err
	}
	size64, err := d.r.U32LE()
	if err != nil {
		return false, err
	}
	size := int64(size64)

	switch id {
	case "fmt ":
		if err := d.readFmtChunk(size); err != nil {
			return false, err
		}
	case "data":
		if haveDs64 && size64 == 0xFFFFFFFF {
			size = int64(ds64.DataSize)
		}
		d.data = dataChunkInfo{offset: d.r.Position(), size: size}
		if err := d.r.Skip(size); err != nil {
			return false, err
		}
	case "LIST":
		if err := d.readListChunk(size); err != nil {
			return false, err
		}
	default:
		if err := d.r.Skip(size); err != nil {
			return false, err
		}
	}
	if size%2 == 1 {
		if err := d.r.Skip(1); err != nil {
			return false, err
		}
	}
	return true, nil
}

// peekFourCC peeks 4 bytes and returns them as a string, or "" at EOF.
func peekFourCC(r *audiox.Reader) (string, error) {
	b, err := r.Peek(4)
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", nil
	}
	return string(b), nil
}

func (d *Demuxer) readFmtChunk(size int64) error {
	start := d.r.Position()
	formatCode, err := d.r.U16LE()
	if err != nil {
		return err
	}
	channels, err := d.r.U16LE()
	if err != nil {
		return err
	}
	sampleRate, err := d.r.U32LE()
	if err != nil {
		return err
	}
	byteRate, err := d.r.U32LE()
	if err != nil {
		return err
	}
	blockAlign, err := d.r.U16LE()
	if err != nil {
		return err
	}
	bitsPerSample, err := d.r.U16LE()
	if err != nil {
		return err
	}
	f := WavFormat{
		FormatCode:    formatCode,
		Channels:      channels,
		SampleRate:    sampleRate,
		ByteRate:      byteRate,
		BlockAlign:    blockAlign,
		BitsPerSample: bitsPerSample,
	}
	if size > 16 {
		extSize, err := d.r.U16LE()
		if err != nil {
			return err
		}
		if formatCode == formatExtensible && extSize >= 22 {
			validBits, err := d.r.U16LE()
			if err != nil {
				return err
			}
			channelMask, err := d.r.U32LE()
			if err != nil {
				return err
			}
			subFormat, err := d.r.ReadBytes(16)
			if err != nil {
				return err
			}
			f.HasExtension = true
			f.ValidBits = validBits
			f.ChannelMask = channelMask
			if subFormat != nil {
				copy(f.SubFormat[:], subFormat)
			}
		}
	}
	d.format = f
	// Position the cursor at the declared chunk end regardless of how much
	// of the (possibly larger) fmt payload we actually decoded.
	return d.r.Seek(start + size)
}

// listFieldMap maps a LIST/INFO four-cc id to the AudioMetadata field it
// populates (spec.md §4.5.2.3).
var listFieldMap = map[string]string{
	"INAM": "title",
	"IART": "artist",
	"IPRD": "album",
	"ICMT": "comment",
	"ICOP": "copyright",
	"ICRD": "date",
	"IGNR": "genre",
	"ISFT": "encoder",
}

func (d *Demuxer) readListChunk(size int64) error {
	start := d.r.Position()
	end := start + size
	listType, err := d.r.FourCC()
	if err != nil {
		return err
	}
	if listType != "INFO" {
		return d.r.Seek(end)
	}
	for d.r.Position() < end {
		id, err := d.r.FourCC()
		if err != nil {
			return err
		}
		fieldSize, err := d.r.U32LE()
		if err != nil {
			return err
		}
		data, err := d.r.ReadBytes(int(fieldSize))
		if err != nil {
			return err
		}
		if data == nil {
			break
		}
		if fieldSize%2 == 1 {
			if err := d.r.Skip(1); err != nil {
				return err
			}
		}
		text := strings.TrimRight(string(data), "\x00")
		switch id {
		case "ITRK":
			if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
				d.meta.TrackNumber, d.meta.HasTrackNumber = n, true
			}
		default:
			if field, ok := listFieldMap[id]; ok {
				setMetaField(&d.meta, field, text)
			}
		}
	}
	return d.r.Seek(end)
}

func setMetaField(m *audiox.AudioMetadata, field, value string) {
	switch field {
	case "title":
		m.Title = value
	case "artist":
		m.Artist = value
	case "album":
		m.Album = value
	case "comment":
		m.Comment = value
	case "copyright":
		m.Copyright = value
	case "date":
		m.Date = value
	case "genre":
		m.Genre = value
	case "encoder":
		m.Encoder = value
	}
}

// Track returns the demuxed track descriptor.
func (d *Demuxer) Track() audiox.AudioTrack { return d.track }

// Metadata returns the demuxed LIST/INFO metadata record.
func (d *Demuxer) Metadata() audiox.AudioMetadata { return d.meta }

// ReadPacket returns up to 4096 frames of raw sample data as one opaque
// packet, or (nil, nil) once the data chunk is exhausted (spec.md
// §4.5.2.5).
func (d *Demuxer) ReadPacket(trackID int) (*audiox.EncodedPacket, error) {
	if trackID != 1 {
		return nil, audiox.ErrUnknownTrack(trackID)
	}
	blockAlign := int64(d.format.BlockAlign)
	if blockAlign <= 0 {
		return nil, nil
	}
	totalFrames := d.data.size / blockAlign
	if d.framesEmitted >= totalFrames {
		return nil, nil
	}
	frames := totalFrames - d.framesEmitted
	if frames > framesPerPacket {
		frames = framesPerPacket
	}
	offset := d.data.offset + d.framesEmitted*blockAlign
	if err := d.r.Seek(offset); err != nil {
		return nil, err
	}
	byteCount := int(frames * blockAlign)
	data, err := d.r.ReadBytes(byteCount)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, audiox.ErrTruncatedInput("short wav data packet at offset %d", offset)
	}
	ts := float64(d.framesEmitted) / float64(d.format.SampleRate)
	d.framesEmitted += frames
	return &audiox.EncodedPacket{
		Data:       data,
		Timestamp:  ts,
		TrackID:    1,
		IsKeyframe: true,
	}, nil
}

// Seek repositions the packet cursor to the frame nearest t, per spec.md
// §4.5.2.6: byte_offset = floor(t*sample_rate) * bytes_per_sample *
// channels, clamped to the data chunk's size.
func (d *Demuxer) Seek(t float64) error {
	bytesPerSample := int64(d.format.BitsPerSample) / 8
	channels := int64(d.format.Channels)
	byteOffset := int64(t*float64(d.format.SampleRate)) * bytesPerSample * channels
	if byteOffset > d.data.size {
		byteOffset = d.data.size
	}
	if byteOffset < 0 {
		byteOffset = 0
	}
	blockAlign := int64(d.format.BlockAlign)
	if blockAlign > 0 {
		d.framesEmitted = byteOffset / blockAlign
	}
	return nil
}

// Close releases the underlying Reader.
func (d *Demuxer) Close() error { return d.r.Close() }
