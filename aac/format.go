package aac

import "github.com/mewkiz/audiox"

// Format implements audiox.InputFormat and audiox.OutputFormat for raw
// ADTS AAC streams.
type Format struct{}

// Name returns the format's registry key.
func (Format) Name() string { return "aac" }

// MIME returns the format's canonical content type.
func (Format) MIME() string { return "audio/aac" }

// Extensions returns the file extensions this format claims.
func (Format) Extensions() []string { return []string{"aac"} }

// CanRead detects an ADTS stream by decoding a header at offset 0.
func (Format) CanRead(r *audiox.Reader) (bool, error) {
	save := r.Position()
	defer r.Seek(save)
	if err := r.Seek(0); err != nil {
		return false, err
	}
	_, ok, err := decodeHeader(r)
	return ok, err
}

// NewDemuxer constructs (but does not Init) an AAC Demuxer over r.
func (Format) NewDemuxer(r *audiox.Reader) audiox.Demuxer { return NewDemuxer(r) }

// NewMuxer constructs an AAC Muxer over w.
func (Format) NewMuxer(w *audiox.Writer) audiox.Muxer { return NewMuxer(w) }
