package audiox

// Demuxer turns a container byte stream into a track descriptor plus a
// lazy sequence of encoded packets (spec.md §4.5). Every Demuxer in this
// module reduces its container to at most one audio track.
type Demuxer interface {
	// Init parses headers and populates the track descriptor, duration,
	// and metadata. It must be called exactly once, before any other
	// method.
	Init() error
	// Track returns the single demuxed track descriptor. Valid after
	// Init.
	Track() AudioTrack
	// Metadata returns the demuxed metadata record. Valid after Init.
	Metadata() AudioMetadata
	// ReadPacket returns the next packet for trackID, or (nil, nil) once
	// the stream is exhausted. Returns ErrUnknownTrack for any other
	// track id.
	ReadPacket(trackID int) (*EncodedPacket, error)
	// Seek repositions packet iteration at or before t. The frame-indexed
	// demuxers (mp3, flac, aac, ogg) land one packet before the first
	// packet whose timestamp is >= t; wav lands on the frame at t.
	Seek(t float64) error
	// Close releases the Demuxer's Reader.
	Close() error
}
