package mp3

import "github.com/mewkiz/audiox"

// Format implements audiox.InputFormat and audiox.OutputFormat for MP3.
type Format struct{}

// Name returns the format's registry key.
func (Format) Name() string { return "mp3" }

// MIME returns the format's canonical content type.
func (Format) MIME() string { return "audio/mpeg" }

// Extensions returns the file extensions this format claims.
func (Format) Extensions() []string { return []string{"mp3"} }

// CanRead detects an MP3 stream: either an ID3v2 tag, or a valid MPEG
// frame sync within the first 16 bytes probed (a plain elementary stream
// with no leading tag).
func (Format) CanRead(r *audiox.Reader) (bool, error) {
	b, err := r.Peek(16)
	if err != nil {
		return false, err
	}
	if len(b) >= 3 && string(b[:3]) == "ID3" {
		return true, nil
	}
	for i := 0; i+4 <= len(b); i++ {
		word := uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3])
		if isHeaderWord(word) {
			return true, nil
		}
	}
	return false, nil
}

// NewDemuxer constructs (but does not Init) an MP3 Demuxer over r.
func (Format) NewDemuxer(r *audiox.Reader) audiox.Demuxer { return NewDemuxer(r) }

// NewMuxer constructs an MP3 Muxer over w.
func (Format) NewMuxer(w *audiox.Writer) audiox.Muxer { return NewMuxer(w) }
