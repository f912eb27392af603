package ogg

import (
	"errors"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/crc"
)

// Muxer emits one packet per OGG page (spec.md §4.5.5's muxer section,
// and the corresponding Open Question decision recorded in DESIGN.md: no
// page aggregation). AddTrack emits a BOS page carrying a minimal
// identification packet built from the track config; every WritePacket
// call emits its own page; Finalize marks the last written page EOS.
type Muxer struct {
	base *audiox.BaseMuxer

	cfg         audiox.AudioTrackConfig
	serial      uint32
	sequenceNum uint32
	granule     int64

	lastPageOff  int64
	lastPageBody []byte
	havePage     bool
}

// NewMuxer wraps w for OGG muxing, with the given stream serial number.
func NewMuxer(w *audiox.Writer, serial uint32) *Muxer {
	return &Muxer{base: audiox.NewBaseMuxer(w), serial: serial}
}

// AddTrack configures the single output track and emits the BOS
// identification page, built from cfg (a minimal Vorbis-identification
// packet: sample rate and channel count only — no full codec setup
// parameters, since this module treats frames as opaque).
func (m *Muxer) AddTrack(cfg audiox.AudioTrackConfig) (int, error) {
	m.cfg = cfg
	id := m.base.SetTrack(cfg)

	idPacket := buildIdentificationPacket(cfg)
	page := encodePage(flagBOS, 0, m.serial, m.sequenceNum, idPacket)
	m.sequenceNum++
	if err := m.base.Writer().WriteBytes(page); err != nil {
		return 0, err
	}
	return id, nil
}

// buildIdentificationPacket constructs a minimal Vorbis identification
// packet carrying only the fields this module's codec-detection reads back
// (spec.md §4.5.5): byte 0 = 0x01, bytes 1-6 = "vorbis", channel count at
// offset 11, LE sample rate at offset 12.
func buildIdentificationPacket(cfg audiox.AudioTrackConfig) []byte {
	b := make([]byte, 16)
	b[0] = 0x01
	copy(b[1:7], "vorbis")
	b[11] = cfg.Channels
	b[12] = byte(cfg.SampleRate)
	b[13] = byte(cfg.SampleRate >> 8)
	b[14] = byte(cfg.SampleRate >> 16)
	b[15] = byte(cfg.SampleRate >> 24)
	return b
}

// SetMetadata stores meta but never emits it: this muxer does not write a
// comment-header page, matching the pass-through scope of the other
// format muxers' no-metadata-emission variants.
func (m *Muxer) SetMetadata(meta audiox.AudioMetadata) {
	m.base.SetMetadata(meta)
}

// WritePacket emits pkt as its own page, granule position accumulating by
// the codec's per-packet step.
func (m *Muxer) WritePacket(pkt audiox.EncodedPacket) error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.CheckWritable(pkt.TrackID); err != nil {
		return err
	}
	m.base.MarkHeaderWritten()

	w := m.base.Writer()
	m.lastPageOff = w.Length()
	m.havePage = true

	m.granule += packetAdvance(m.cfg.CodecTag)
	page := encodePage(0, m.granule, m.serial, m.sequenceNum, pkt.Data)
	m.sequenceNum++
	m.lastPageBody = page
	return w.WriteBytes(page)
}

// Finalize marks the last page written by WritePacket as EOS (spec.md
// §4.5.5's muxer section), patching its header_type byte and recomputing
// its checksum in place. For a Stream target, which rejects PatchAt, the
// last page is left without the EOS flag: a documented limitation, since
// a forward-only target can't revise bytes already written.
func (m *Muxer) Finalize() error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.MarkFinalized(); err != nil {
		return err
	}
	if !m.havePage {
		return nil
	}

	body := append([]byte(nil), m.lastPageBody...)
	body[5] |= flagEOS
	body[22], body[23], body[24], body[25] = 0, 0, 0, 0
	sum := crc.CRC32OGG(body)
	body[22] = byte(sum)
	body[23] = byte(sum >> 8)
	body[24] = byte(sum >> 16)
	body[25] = byte(sum >> 24)

	w := m.base.Writer()
	if err := w.PatchAt(m.lastPageOff, body); err != nil {
		var ce *audiox.CodeError
		if errors.As(err, &ce) && ce.Code == audiox.CodeNonSeekable {
			return nil // Stream target: EOS flag cannot be patched in, by design.
		}
		return err
	}
	return nil
}

// Close releases the underlying Writer.
func (m *Muxer) Close() error { return m.base.Close() }
