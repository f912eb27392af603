package ogg

import "github.com/mewkiz/audiox"

// Format implements audiox.InputFormat and audiox.OutputFormat for OGG.
type Format struct{}

// Name returns the format's registry key.
func (Format) Name() string { return "ogg" }

// MIME returns the format's canonical content type.
func (Format) MIME() string { return "audio/ogg" }

// Extensions returns the file extensions this format claims.
func (Format) Extensions() []string { return []string{"ogg", "oga", "opus"} }

// CanRead detects an OGG stream by its 4-byte "OggS" magic.
func (Format) CanRead(r *audiox.Reader) (bool, error) {
	b, err := r.Peek(4)
	if err != nil {
		return false, err
	}
	if len(b) < 4 {
		return false, nil
	}
	return string(b) == magic, nil
}

// NewDemuxer constructs (but does not Init) an OGG Demuxer over r.
func (Format) NewDemuxer(r *audiox.Reader) audiox.Demuxer { return NewDemuxer(r) }

// defaultSerial is the stream serial number used by Format.NewMuxer, which
// has no way to accept one through the audiox.OutputFormat interface. A
// caller that needs a specific serial (e.g. to avoid colliding with another
// logical bitstream when concatenating files) should construct an
// ogg.Muxer directly via NewMuxer instead of going through the registry.
const defaultSerial = 1

// NewMuxer constructs an OGG Muxer over w, using a fixed stream serial
// number (see defaultSerial).
func (Format) NewMuxer(w *audiox.Writer) audiox.Muxer { return NewMuxer(w, defaultSerial) }
