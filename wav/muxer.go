package wav

import "github.com/mewkiz/audiox"

// rf64UpgradeThreshold is the cumulative data-chunk byte count past which
// AutoWav switches to the RF64 layout (spec.md §4.5.2's muxer section):
// large enough margin below the 32-bit sentinel 0xFFFFFFFF that the final
// data size can never collide with it.
const rf64UpgradeThreshold = 0xFFFFFFFF - 100

// Muxer buffers incoming packet payloads and writes a canonical
// RIFF/WAVE container on Finalize (spec.md §4.5.2's muxer section). It
// never upgrades to RF64 — callers expecting files that may exceed the
// 32-bit size fields should use AutoWav instead.
type Muxer struct {
	base *audiox.BaseMuxer

	cfg     audiox.AudioTrackConfig
	payload [][]byte
	size    int64
}

// NewMuxer wraps w for canonical WAV muxing.
func NewMuxer(w *audiox.Writer) *Muxer {
	return &Muxer{base: audiox.NewBaseMuxer(w)}
}

// AddTrack configures the single output track.
func (m *Muxer) AddTrack(cfg audiox.AudioTrackConfig) (int, error) {
	m.cfg = cfg
	return m.base.SetTrack(cfg), nil
}

// SetMetadata stores meta. The canonical muxer never emits a LIST/INFO
// chunk (spec.md: "ignore in-progress LIST/metadata writing").
func (m *Muxer) SetMetadata(meta audiox.AudioMetadata) {
	m.base.SetMetadata(meta)
}

// WritePacket buffers pkt's payload for emission at Finalize.
func (m *Muxer) WritePacket(pkt audiox.EncodedPacket) error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.CheckWritable(pkt.TrackID); err != nil {
		return err
	}
	m.payload = append(m.payload, pkt.Data)
	m.size += int64(len(pkt.Data))
	return nil
}

// Finalize writes the RIFF header, fmt chunk, and data chunk (spec.md
// §4.5.2's muxer section).
func (m *Muxer) Finalize() error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.MarkFinalized(); err != nil {
		return err
	}
	m.base.MarkHeaderWritten()
	w := m.base.Writer()

	if err := w.FourCC("RIFF"); err != nil {
		return err
	}
	if err := w.U32LE(uint32(36 + m.size)); err != nil {
		return err
	}
	if err := w.FourCC("WAVE"); err != nil {
		return err
	}
	if err := writeFmtChunk(w, m.cfg); err != nil {
		return err
	}
	if err := w.FourCC("data"); err != nil {
		return err
	}
	if err := w.U32LE(uint32(m.size)); err != nil {
		return err
	}
	for _, p := range m.payload {
		if err := w.WriteBytes(p); err != nil {
			return err
		}
	}
	if m.size%2 == 1 {
		if err := w.Padding(1, 0); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying Writer.
func (m *Muxer) Close() error { return m.base.Close() }

// formatCodeFor picks the fmt chunk's format_code for a track config's
// sample format.
func formatCodeFor(cfg audiox.AudioTrackConfig) uint16 {
	switch cfg.SampleFormat {
	case "f32", "f64":
		return formatIEEEFloat
	case "alaw":
		return formatALaw
	case "ulaw":
		return formatULaw
	default:
		return formatPCM
	}
}

func bitDepthFor(cfg audiox.AudioTrackConfig) uint16 {
	if cfg.BitDepth > 0 {
		return uint16(cfg.BitDepth)
	}
	switch cfg.SampleFormat {
	case "f64":
		return 64
	case "f32":
		return 32
	default:
		return 16
	}
}

// writeFmtChunk writes a canonical (size-16) fmt chunk for cfg.
func writeFmtChunk(w *audiox.Writer, cfg audiox.AudioTrackConfig) error {
	bits := bitDepthFor(cfg)
	blockAlign := uint16(cfg.Channels) * (bits / 8)
	byteRate := cfg.SampleRate * uint32(blockAlign)
	if err := w.FourCC("fmt "); err != nil {
		return err
	}
	if err := w.U32LE(16); err != nil {
		return err
	}
	if err := w.U16LE(formatCodeFor(cfg)); err != nil {
		return err
	}
	if err := w.U16LE(uint16(cfg.Channels)); err != nil {
		return err
	}
	if err := w.U32LE(cfg.SampleRate); err != nil {
		return err
	}
	if err := w.U32LE(byteRate); err != nil {
		return err
	}
	if err := w.U16LE(blockAlign); err != nil {
		return err
	}
	return w.U16LE(bits)
}

// AutoWav is the RF64-upgrading muxer variant (spec.md §4.5.2's muxer
// section): it buffers packets the same way Muxer does, but Finalize
// deterministically picks RIFF or RF64 from the observed cumulative data
// size.
type AutoWav struct {
	base *audiox.BaseMuxer

	cfg     audiox.AudioTrackConfig
	payload [][]byte
	size    int64
}

// NewAutoWav wraps w for size-adaptive WAV/RF64 muxing.
func NewAutoWav(w *audiox.Writer) *AutoWav {
	return &AutoWav{base: audiox.NewBaseMuxer(w)}
}

// AddTrack configures the single output track.
func (m *AutoWav) AddTrack(cfg audiox.AudioTrackConfig) (int, error) {
	m.cfg = cfg
	return m.base.SetTrack(cfg), nil
}

// SetMetadata stores meta (unused by either layout, same as Muxer).
func (m *AutoWav) SetMetadata(meta audiox.AudioMetadata) {
	m.base.SetMetadata(meta)
}

// WritePacket buffers pkt's payload.
func (m *AutoWav) WritePacket(pkt audiox.EncodedPacket) error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.CheckWritable(pkt.TrackID); err != nil {
		return err
	}
	m.payload = append(m.payload, pkt.Data)
	m.size += int64(len(pkt.Data))
	return nil
}

// Finalize picks RIFF or RF64 deterministically from the cumulative data
// size and writes the corresponding header.
func (m *AutoWav) Finalize() error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.MarkFinalized(); err != nil {
		return err
	}
	m.base.MarkHeaderWritten()
	w := m.base.Writer()

	if m.size > rf64UpgradeThreshold {
		return m.finalizeRF64(w)
	}
	if err := w.FourCC("RIFF"); err != nil {
		return err
	}
	if err := w.U32LE(uint32(36 + m.size)); err != nil {
		return err
	}
	if err := w.FourCC("WAVE"); err != nil {
		return err
	}
	if err := writeFmtChunk(w, m.cfg); err != nil {
		return err
	}
	if err := w.FourCC("data"); err != nil {
		return err
	}
	if err := w.U32LE(uint32(m.size)); err != nil {
		return err
	}
	return m.writePayload(w)
}

func (m *AutoWav) finalizeRF64(w *audiox.Writer) error {
	if err := w.FourCC("RF64"); err != nil {
		return err
	}
	if err := w.U32LE(0xFFFFFFFF); err != nil {
		return err
	}
	if err := w.FourCC("WAVE"); err != nil {
		return err
	}
	if err := w.FourCC("ds64"); err != nil {
		return err
	}
	if err := w.U32LE(28); err != nil {
		return err
	}
	riffSize := uint64(36 + m.size)
	if err := w.U32LE(uint32(riffSize)); err != nil {
		return err
	}
	if err := w.U32LE(uint32(riffSize >> 32)); err != nil {
		return err
	}
	if err := w.U32LE(uint32(uint64(m.size))); err != nil {
		return err
	}
	if err := w.U32LE(uint32(uint64(m.size) >> 32)); err != nil {
		return err
	}
	sampleCount := uint64(0)
	if m.cfg.Channels > 0 && bitDepthFor(m.cfg) > 0 {
		blockAlign := uint64(m.cfg.Channels) * uint64(bitDepthFor(m.cfg)/8)
		if blockAlign > 0 {
			sampleCount = uint64(m.size) / blockAlign
		}
	}
	if err := w.U32LE(uint32(sampleCount)); err != nil {
		return err
	}
	if err := w.U32LE(uint32(sampleCount >> 32)); err != nil {
		return err
	}
	if err := w.U32LE(0); err != nil { // table length
		return err
	}
	if err := writeFmtChunk(w, m.cfg); err != nil {
		return err
	}
	if err := w.FourCC("data"); err != nil {
		return err
	}
	if err := w.U32LE(0xFFFFFFFF); err != nil {
		return err
	}
	return m.writePayload(w)
}

func (m *AutoWav) writePayload(w *audiox.Writer) error {
	for _, p := range m.payload {
		if err := w.WriteBytes(p); err != nil {
			return err
		}
	}
	if m.size%2 == 1 {
		return w.Padding(1, 0)
	}
	return nil
}

// Close releases the underlying Writer.
func (m *AutoWav) Close() error { return m.base.Close() }
