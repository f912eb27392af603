// Package wav demuxes and muxes RIFF/WAVE and its 64-bit RF64 variant
// (spec.md §4.5.2). Audio samples are opaque packets; this package parses
// chunk framing and the fmt/LIST metadata chunks only.
package wav

// Format codes from the fmt chunk's format_code field.
const (
	formatPCM       = 0x0001
	formatIEEEFloat = 0x0003
	formatALaw      = 0x0006
	formatULaw      = 0x0007
	formatExtensible = 0xFFFE
)

// WavFormat is the decoded fmt chunk (spec.md §3).
type WavFormat struct {
	FormatCode    uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16

	HasExtension bool
	ValidBits    uint16
	ChannelMask  uint32
	SubFormat    [16]byte
}

// Ds64Chunk is the RF64 64-bit size override chunk (spec.md §3/§4.5.2.2).
type Ds64Chunk struct {
	RIFFSize    uint64
	DataSize    uint64
	SampleCount uint64
	TableLength uint32
}

// codecTag maps a fmt format_code to this module's codec tag and sample
// format, per spec.md §4.5.2.4.
func codecTag(f WavFormat) (codec, sampleFormat string) {
	switch f.FormatCode {
	case formatPCM:
		return "pcm", pcmSampleFormat(f.BitsPerSample)
	case formatIEEEFloat:
		if f.BitsPerSample >= 64 {
			return "pcm", "f64"
		}
		return "pcm", "f32"
	case formatALaw:
		return "alaw", "alaw"
	case formatULaw:
		return "ulaw", "ulaw"
	default:
		return "pcm", pcmSampleFormat(f.BitsPerSample)
	}
}

func pcmSampleFormat(bits uint16) string {
	switch {
	case bits <= 8:
		return "u8"
	case bits <= 16:
		return "s16"
	case bits <= 24:
		return "s24"
	default:
		return "s32"
	}
}
