package wav

import "github.com/mewkiz/audiox"

// Format implements audiox.InputFormat and audiox.OutputFormat for
// RIFF/WAVE and RF64. NewMuxer always returns the canonical (non-upgrading)
// Muxer; construct an AutoWav directly for the size-adaptive variant.
type Format struct{}

// Name returns the format's registry key.
func (Format) Name() string { return "wav" }

// MIME returns the format's canonical content type.
func (Format) MIME() string { return "audio/wav" }

// Extensions returns the file extensions this format claims.
func (Format) Extensions() []string { return []string{"wav", "wave", "rf64"} }

// CanRead detects a RIFF/RF64 WAVE stream by its 12-byte header.
func (Format) CanRead(r *audiox.Reader) (bool, error) {
	b, err := r.Peek(12)
	if err != nil {
		return false, err
	}
	if len(b) < 12 {
		return false, nil
	}
	magic := string(b[0:4])
	if magic != "RIFF" && magic != "RF64" {
		return false, nil
	}
	return string(b[8:12]) == "WAVE", nil
}

// NewDemuxer constructs (but does not Init) a WAV Demuxer over r.
func (Format) NewDemuxer(r *audiox.Reader) audiox.Demuxer { return NewDemuxer(r) }

// NewMuxer constructs the canonical WAV Muxer over w.
func (Format) NewMuxer(w *audiox.Writer) audiox.Muxer { return NewMuxer(w) }
