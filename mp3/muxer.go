package mp3

import "github.com/mewkiz/audiox"

// Muxer is a pass-through MP3 muxer (spec.md §4.5.1): it accepts
// already-formed MP3 frames as opaque packets and concatenates them to the
// writer. ID3 emission is a no-op extension point, same as the spec
// describes it.
type Muxer struct {
	base *audiox.BaseMuxer
}

// NewMuxer wraps w for MP3 muxing.
func NewMuxer(w *audiox.Writer) *Muxer {
	return &Muxer{base: audiox.NewBaseMuxer(w)}
}

// AddTrack configures the single output track.
func (m *Muxer) AddTrack(cfg audiox.AudioTrackConfig) (int, error) {
	return m.base.SetTrack(cfg), nil
}

// SetMetadata stores meta. MP3 muxing never emits it (no-op per spec.md).
func (m *Muxer) SetMetadata(meta audiox.AudioMetadata) {
	m.base.SetMetadata(meta)
}

// WritePacket appends pkt.Data verbatim to the output stream.
func (m *Muxer) WritePacket(pkt audiox.EncodedPacket) error {
	m.base.Lock()
	defer m.base.Unlock()
	if err := m.base.CheckWritable(pkt.TrackID); err != nil {
		return err
	}
	m.base.MarkHeaderWritten() // MP3 has no container header to emit
	return m.base.Writer().WriteBytes(pkt.Data)
}

// Finalize is a no-op beyond the finalized-once bookkeeping: MP3 has no
// trailing structure to patch.
func (m *Muxer) Finalize() error {
	m.base.Lock()
	defer m.base.Unlock()
	return m.base.MarkFinalized()
}

// Close releases the underlying Writer.
func (m *Muxer) Close() error { return m.base.Close() }
