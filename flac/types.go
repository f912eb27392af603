// Package flac demuxes and muxes native FLAC streams (spec.md §4.5.3):
// STREAMINFO, Vorbis comments, pictures, and the supplemented SEEKTABLE,
// CUESHEET, and APPLICATION metadata blocks, with audio frames carried as
// opaque packets. Grounded on the teacher's meta package, which parses the
// same block set for the same reasons (sample decoding is out of scope
// here as it is there).
package flac

// Magic is the 4-byte FLAC stream marker.
const Magic = "fLaC"

// blockType identifies a metadata block's body shape (spec.md §4.5.3.2).
type blockType uint8

const (
	blockStreamInfo blockType = iota
	blockPadding
	blockApplication
	blockSeekTable
	blockVorbisComment
	blockCueSheet
	blockPicture
)

// StreamInfo is FLAC's mandatory first metadata block (spec.md §3),
// grounded on the teacher's meta.StreamInfo.
type StreamInfo struct {
	MinBlockSize  uint16
	MaxBlockSize  uint16
	MinFrameSize  uint32
	MaxFrameSize  uint32
	SampleRate    uint32
	ChannelCount  uint8
	BitsPerSample uint8
	SampleCount   uint64
	MD5sum        [16]byte
}

// VorbisComment is FLAC's tagging block (spec.md §4.5.3.2), grounded on the
// teacher's meta.VorbisComment.
type VorbisComment struct {
	Vendor  string
	Entries []VorbisEntry
}

// VorbisEntry is one "KEY=value" pair.
type VorbisEntry struct {
	Name  string
	Value string
}

// Picture is an embedded image block (spec.md §4.5.3.2), grounded on the
// teacher's meta.Picture.
type Picture struct {
	Type       uint32
	MIME       string
	Desc       string
	Width      uint32
	Height     uint32
	ColorDepth uint32
	ColorCount uint32
	Data       []byte
}

// SeekTable is the supplemented SEEKTABLE block (SPEC_FULL.md's
// supplemented-features section), grounded on the teacher's
// meta.SeekTable/meta.SeekPoint.
type SeekTable struct {
	Points []SeekPoint
}

// SeekPoint is one seek-table entry.
type SeekPoint struct {
	SampleNum   uint64
	Offset      uint64
	SampleCount uint16
}

// PlaceholderPoint marks an unused seek-table slot.
const PlaceholderPoint = 0xFFFFFFFFFFFFFFFF

// Application is the supplemented APPLICATION block, grounded on the
// teacher's meta.Application (including its registered-ID table).
type Application struct {
	ID   string
	Data []byte
}

// CueSheet is the supplemented CUESHEET block, grounded on the teacher's
// meta.CueSheet/meta.CueSheetTrack/meta.CueSheetTrackIndex.
type CueSheet struct {
	MCN               string
	LeadInSampleCount uint64
	IsCompactDisc     bool
	Tracks            []CueSheetTrack
}

// CueSheetTrack is one track entry within a CueSheet.
type CueSheetTrack struct {
	Offset          uint64
	TrackNum        uint8
	ISRC            string
	IsAudio         bool
	HasPreEmphasis  bool
	TrackIndexes    []CueSheetTrackIndex
}

// CueSheetTrackIndex is one index point within a CueSheetTrack.
type CueSheetTrackIndex struct {
	Offset        uint64
	IndexPointNum uint8
}

// RegisteredApplications maps a registered APPLICATION block ID to its
// description, carried verbatim from the teacher's table (spec.md doesn't
// require validating against it, but Application.Description, and through
// it cmd/audiox's metadata command, uses it to label otherwise-opaque
// 4-byte IDs).
var RegisteredApplications = map[string]string{
	"ATCH": "FlacFile",
	"BSOL": "beSolo",
	"BUGS": "Bugs Player",
	"Cues": "GoldWave cue points",
	"Fica": "CUE Splitter",
	"Ftol": "flac-tools",
	"MOTB": "MOTB MetaCzar",
	"MPSE": "MP3 Stream Editor",
	"MuML": "MusicML: Music Metadata Language",
	"RIFF": "Sound Devices RIFF chunk storage",
	"SFFL": "Sound Font FLAC",
	"SONY": "Sony Creative Software",
	"SQEZ": "flacsqueeze",
	"TtWv": "TwistedWave",
	"UITS": "UITS Embedding tools",
	"aiff": "FLAC AIFF chunk storage",
	"imag": "flac-image application",
	"peem": "Parseable Embedded Extensible Metadata",
	"qfst": "QFLAC Studio",
	"riff": "FLAC RIFF chunk storage",
	"tune": "TagTuner",
	"xbat": "XBAT",
	"xmcd": "xmcd",
}

// Description looks up a's 4-byte ID in RegisteredApplications, returning
// "unknown application" if the ID isn't registered.
func (a Application) Description() string {
	if desc, ok := RegisteredApplications[a.ID]; ok {
		return desc
	}
	return "unknown application"
}
