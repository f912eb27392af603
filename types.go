package audiox

// AudioTrack describes an input track as reported by a Demuxer (spec.md
// §3). id is muxer-assigned and monotonic starting at 1; a Demuxer never
// sets it.
type AudioTrack struct {
	ID                int
	Index             int
	CodecTag          string
	SampleRate        uint32
	Channels          uint8
	ChannelLayout     string
	BitDepth          uint8
	SampleFormat      string
	Bitrate           uint32
	Duration          float64
	IsDefault         bool
	CodecDescription  string
}

// AudioTrackConfig is the output-side counterpart of AudioTrack: the same
// shape minus the demuxer-assigned id/index/duration.
type AudioTrackConfig struct {
	CodecTag      string
	SampleRate    uint32
	Channels      uint8
	ChannelLayout string
	BitDepth      uint8
	SampleFormat  string
	Bitrate       uint32
}

// EncodedPacket is the atomic I/O unit crossing the demuxer/muxer boundary:
// an opaque codec payload plus timing. For every format in this module all
// packets are keyframes, since audio frames here are independently
// decodable.
type EncodedPacket struct {
	Data       []byte
	Timestamp  float64
	Duration   float64
	HasDuration bool
	IsKeyframe bool
	TrackID    int
	PTS        float64
	HasPTS     bool
	DTS        float64
	HasDTS     bool
}

// ReplayGain carries the four ReplayGain fields that appear across ID3v2,
// Vorbis comments, and FLAC tags.
type ReplayGain struct {
	TrackGain float64
	TrackPeak float64
	AlbumGain float64
	AlbumPeak float64
	HasTrackGain bool
	HasTrackPeak bool
	HasAlbumGain bool
	HasAlbumPeak bool
}

// CoverArt is an embedded picture, carried either as an ID3v2 APIC frame, a
// FLAC PICTURE block, or (in principle) an OGG picture comment.
type CoverArt struct {
	Data        []byte
	MimeType    string
	Description string
}

// AudioMetadata is the sparse, format-agnostic metadata record produced by
// every demuxer and consumed by every muxer. All fields are optional; the
// Has* flags distinguish "absent" from "present but zero/empty" for the
// numeric fields that have a meaningful zero value.
type AudioMetadata struct {
	Title         string
	Artist        string
	Album         string
	AlbumArtist   string
	Composer      string
	Genre         string
	Year          int
	HasYear       bool
	TrackNumber   int
	HasTrackNumber bool
	TrackTotal    int
	HasTrackTotal bool
	DiscNumber    int
	HasDiscNumber bool
	DiscTotal     int
	HasDiscTotal  bool
	Comment       string
	Lyrics        string
	Copyright     string
	EncodedBy     string
	Encoder       string
	Date          string
	ISRC          string
	BPM           float64
	HasBPM        bool
	ReplayGain    ReplayGain
	CoverArt      []CoverArt
	Custom        map[string]string
}

// Set stores a custom key/value pair, allocating the Custom map on first
// use.
func (m *AudioMetadata) Set(key, value string) {
	if m.Custom == nil {
		m.Custom = make(map[string]string)
	}
	m.Custom[key] = value
}

// Merge overlays non-empty fields from other on top of m, with other taking
// priority. Used to combine ID3v2 (priority) with ID3v1 (fallback), for
// example. Custom map entries from other overwrite m's on key collision.
func (m *AudioMetadata) Merge(other AudioMetadata) {
	if other.Title != "" {
		m.Title = other.Title
	}
	if other.Artist != "" {
		m.Artist = other.Artist
	}
	if other.Album != "" {
		m.Album = other.Album
	}
	if other.AlbumArtist != "" {
		m.AlbumArtist = other.AlbumArtist
	}
	if other.Composer != "" {
		m.Composer = other.Composer
	}
	if other.Genre != "" {
		m.Genre = other.Genre
	}
	if other.HasYear {
		m.Year = other.Year
		m.HasYear = true
	}
	if other.HasTrackNumber {
		m.TrackNumber = other.TrackNumber
		m.HasTrackNumber = true
	}
	if other.HasTrackTotal {
		m.TrackTotal = other.TrackTotal
		m.HasTrackTotal = true
	}
	if other.HasDiscNumber {
		m.DiscNumber = other.DiscNumber
		m.HasDiscNumber = true
	}
	if other.HasDiscTotal {
		m.DiscTotal = other.DiscTotal
		m.HasDiscTotal = true
	}
	if other.Comment != "" {
		m.Comment = other.Comment
	}
	if other.Lyrics != "" {
		m.Lyrics = other.Lyrics
	}
	if other.Copyright != "" {
		m.Copyright = other.Copyright
	}
	if other.EncodedBy != "" {
		m.EncodedBy = other.EncodedBy
	}
	if other.Encoder != "" {
		m.Encoder = other.Encoder
	}
	if other.Date != "" {
		m.Date = other.Date
	}
	if other.ISRC != "" {
		m.ISRC = other.ISRC
	}
	if other.HasBPM {
		m.BPM = other.BPM
		m.HasBPM = true
	}
	if other.ReplayGain.HasTrackGain {
		m.ReplayGain.TrackGain = other.ReplayGain.TrackGain
		m.ReplayGain.HasTrackGain = true
	}
	if other.ReplayGain.HasTrackPeak {
		m.ReplayGain.TrackPeak = other.ReplayGain.TrackPeak
		m.ReplayGain.HasTrackPeak = true
	}
	if other.ReplayGain.HasAlbumGain {
		m.ReplayGain.AlbumGain = other.ReplayGain.AlbumGain
		m.ReplayGain.HasAlbumGain = true
	}
	if other.ReplayGain.HasAlbumPeak {
		m.ReplayGain.AlbumPeak = other.ReplayGain.AlbumPeak
		m.ReplayGain.HasAlbumPeak = true
	}
	if len(other.CoverArt) > 0 {
		m.CoverArt = append(m.CoverArt, other.CoverArt...)
	}
	for k, v := range other.Custom {
		m.Set(k, v)
	}
}

// ProgressInfo is delivered to a Conversion's progress callback after every
// written packet (spec.md §4.7).
type ProgressInfo struct {
	Percentage  float64
	CurrentTime float64
	TotalTime   float64
	InputBytes  int64
	OutputBytes int64
	SpeedBPS    float64
}
