package audiox

// InputFormat is the capability set a format contributes to the registry
// for demuxing (spec.md §4.6/§9): identity, detection, and construction of
// a Demuxer.
type InputFormat interface {
	Name() string
	MIME() string
	Extensions() []string
	// CanRead peeks at most 16 bytes from r (without disturbing its
	// cursor) and reports whether they look like this format's magic.
	CanRead(r *Reader) (bool, error)
	// NewDemuxer constructs (but does not Init) a Demuxer over r.
	NewDemuxer(r *Reader) Demuxer
}

// OutputFormat is the capability set a format contributes to the registry
// for muxing.
type OutputFormat interface {
	Name() string
	MIME() string
	Extensions() []string
	// NewMuxer constructs a Muxer over w.
	NewMuxer(w *Writer) Muxer
}
