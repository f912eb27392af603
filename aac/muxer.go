package aac

import "github.com/mewkiz/audiox"

// Muxer writes a raw ADTS stream: each incoming packet is passed through
// verbatim if it already carries an ADTS sync, else a freshly constructed
// 7-byte header is prepended (spec.md §4.5.4's muxer section).
type Muxer struct {
	base *audiox.BaseMuxer

	cfg audiox.AudioTrackConfig
}

// NewMuxer wraps w for ADTS muxing.
func NewMuxer(w *audiox.Writer) *Muxer {
	return &Muxer{base: audiox.NewBaseMuxer(w)}
}

// AddTrack configures the single output track.
func (m *Muxer) AddTrack(cfg audiox.AudioTrackConfig) (int, error) {
	m.cfg = cfg
	return m.base.SetTrack(cfg), nil
}

// SetMetadata stores meta but never emits it: ADTS carries no in-band
// tagging.
func (m *Muxer) SetMetadata(meta audiox.AudioMetadata) {
	m.base.SetMetadata(meta)
}

// WritePacket emits pkt verbatim if it already starts with an ADTS sync,
// else prepends a constructed header.
func (m *Muxer) WritePacket(pkt audiox.EncodedPacket) error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.CheckWritable(pkt.TrackID); err != nil {
		return err
	}
	m.base.MarkHeaderWritten()
	w := m.base.Writer()

	if adtsSyncPrefix(pkt.Data) {
		return w.WriteBytes(pkt.Data)
	}
	if err := writeHeader(w, len(pkt.Data), m.cfg.SampleRate, m.cfg.Channels); err != nil {
		return err
	}
	return w.WriteBytes(pkt.Data)
}

// Finalize is a no-op: ADTS has no trailing structure.
func (m *Muxer) Finalize() error {
	m.base.Lock()
	defer m.base.Unlock()
	return m.base.MarkFinalized()
}

// Close releases the underlying Writer.
func (m *Muxer) Close() error { return m.base.Close() }
