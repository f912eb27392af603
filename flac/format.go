package flac

import "github.com/mewkiz/audiox"

// Format implements audiox.InputFormat and audiox.OutputFormat for native
// FLAC streams.
type Format struct{}

// Name returns the format's registry key.
func (Format) Name() string { return "flac" }

// MIME returns the format's canonical content type.
func (Format) MIME() string { return "audio/flac" }

// Extensions returns the file extensions this format claims.
func (Format) Extensions() []string { return []string{"flac"} }

// CanRead detects a FLAC stream by its 4-byte magic.
func (Format) CanRead(r *audiox.Reader) (bool, error) {
	b, err := r.Peek(4)
	if err != nil {
		return false, err
	}
	if len(b) < 4 {
		return false, nil
	}
	return string(b) == Magic, nil
}

// NewDemuxer constructs (but does not Init) a FLAC Demuxer over r.
func (Format) NewDemuxer(r *audiox.Reader) audiox.Demuxer { return NewDemuxer(r) }

// NewMuxer constructs a FLAC Muxer over w.
func (Format) NewMuxer(w *audiox.Writer) audiox.Muxer { return NewMuxer(w) }
