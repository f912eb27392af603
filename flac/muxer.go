package flac

import "github.com/mewkiz/audiox"

// Muxer buffers incoming opaque FLAC frames and writes the magic plus a
// single STREAMINFO metadata block (spec.md §4.5.3's muxer section) on
// Finalize, once the frame-size extrema of the buffered frames are known
// (the total sample count is estimated as 4096 samples per frame) — the
// same buffer-then-write-header-last shape the wav package's Muxer uses.
type Muxer struct {
	base *audiox.BaseMuxer

	cfg      audiox.AudioTrackConfig
	frames   [][]byte
	sampleN  uint64
	minFrame uint32
	maxFrame uint32
	blockSz  uint16
}

// NewMuxer wraps w for FLAC muxing.
func NewMuxer(w *audiox.Writer) *Muxer {
	return &Muxer{base: audiox.NewBaseMuxer(w), blockSz: 4096}
}

// AddTrack configures the single output track.
func (m *Muxer) AddTrack(cfg audiox.AudioTrackConfig) (int, error) {
	m.cfg = cfg
	return m.base.SetTrack(cfg), nil
}

// SetMetadata stores meta. This muxer emits STREAMINFO only; VORBIS_COMMENT
// emission is a documented omission (spec.md scopes the mux side to packet
// concatenation plus the mandatory STREAMINFO).
func (m *Muxer) SetMetadata(meta audiox.AudioMetadata) {
	m.base.SetMetadata(meta)
}

// WritePacket buffers pkt's payload, tracking the frame-size extrema used to
// populate STREAMINFO at Finalize.
func (m *Muxer) WritePacket(pkt audiox.EncodedPacket) error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.CheckWritable(pkt.TrackID); err != nil {
		return err
	}
	n := uint32(len(pkt.Data))
	if m.minFrame == 0 || n < m.minFrame {
		m.minFrame = n
	}
	if n > m.maxFrame {
		m.maxFrame = n
	}
	m.frames = append(m.frames, pkt.Data)
	m.sampleN += uint64(m.blockSz)
	return nil
}

// Finalize writes the "fLaC" magic, a single last-block STREAMINFO, then
// every buffered frame verbatim.
func (m *Muxer) Finalize() error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.MarkFinalized(); err != nil {
		return err
	}
	m.base.MarkHeaderWritten()
	w := m.base.Writer()

	if err := w.String(Magic); err != nil {
		return err
	}
	if err := w.U8(0x80 | byte(blockStreamInfo)); err != nil { // is_last=1
		return err
	}
	if err := w.U24BE(34); err != nil {
		return err
	}
	if err := writeStreamInfo(w, m.streamInfo()); err != nil {
		return err
	}
	for _, f := range m.frames {
		if err := w.WriteBytes(f); err != nil {
			return err
		}
	}
	return nil
}

func (m *Muxer) streamInfo() StreamInfo {
	return StreamInfo{
		MinBlockSize:  m.blockSz,
		MaxBlockSize:  m.blockSz,
		MinFrameSize:  m.minFrame,
		MaxFrameSize:  m.maxFrame,
		SampleRate:    m.cfg.SampleRate,
		ChannelCount:  m.cfg.Channels,
		BitsPerSample: m.cfg.BitDepth,
		SampleCount:   m.sampleN,
	}
}

// Close releases the underlying Writer.
func (m *Muxer) Close() error { return m.base.Close() }

// writeStreamInfo writes a 34-byte STREAMINFO block body with the
// bit-packed fields FLAC requires, the write-side mirror of readStreamInfo.
func writeStreamInfo(w *audiox.Writer, si StreamInfo) error {
	if err := w.U16BE(si.MinBlockSize); err != nil {
		return err
	}
	if err := w.U16BE(si.MaxBlockSize); err != nil {
		return err
	}
	if err := w.U24BE(si.MinFrameSize); err != nil {
		return err
	}
	if err := w.U24BE(si.MaxFrameSize); err != nil {
		return err
	}
	// sample_rate(20) | channels-1(3) | bits_per_sample-1(5) | total_samples(36)
	// packed across 8 bytes, matching the 80-bit window these 4 fields share.
	channels := si.ChannelCount
	if channels == 0 {
		channels = 1
	}
	bps := si.BitsPerSample
	if bps == 0 {
		bps = 16
	}
	packed := uint64(si.SampleRate)<<44 | uint64(channels-1)<<41 | uint64(bps-1)<<36 | (si.SampleCount & 0xFFFFFFFFF)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(packed >> uint(56-8*i))
	}
	if err := w.WriteBytes(b[:]); err != nil {
		return err
	}
	return w.WriteBytes(si.MD5sum[:])
}
