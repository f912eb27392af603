// Package mp3 demuxes and muxes MPEG audio streams wrapped in ID3v1/ID3v2
// tags. Frames are opaque packets; this package parses framing, not sample
// data, following the teacher's demux-metadata-and-leave-samples-opaque
// stance.
package mp3

// mpegVersion identifies the MPEG audio version from the header's 2-bit
// version field.
type mpegVersion uint8

const (
	versionMPEG25 mpegVersion = 0
	versionReserved mpegVersion = 1
	versionMPEG2  mpegVersion = 2
	versionMPEG1  mpegVersion = 3
)

// mpegLayer identifies the layer from the header's 2-bit layer field.
type mpegLayer uint8

const (
	layerReserved mpegLayer = 0
	layer3        mpegLayer = 1
	layer2        mpegLayer = 2
	layer1        mpegLayer = 3
)

// header is a decoded MPEG audio frame header (spec.md §4.5.1.3).
type header struct {
	Version      mpegVersion
	Layer        mpegLayer
	Protected    bool // true iff a CRC follows the header (protection bit == 0)
	BitrateIdx   uint8
	SampleRateIdx uint8
	Padding      bool
	ChannelMode  uint8 // 3 == mono
}

// bitrateTableV1 (MPEG1) and bitrateTableV2 (MPEG2/MPEG2.5) index
// [layer][bitrateIdx] -> kbps. The
// MPEG2/MPEG2.5 row is shared, matching REDESIGN FLAGS' note that
// MPEG2-Layer2 and MPEG2-Layer3 are identical in the source; Layer1 is kept
// distinct per the published ISO/IEC 11172-3 tables.
var bitrateTableV1 = [3][16]int{
	// Layer1
	{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, -1},
	// Layer2
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, -1},
	// Layer3
	{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, -1},
}

var bitrateTableV2 = [3][16]int{
	// Layer1
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, -1},
	// Layer2 (same table as Layer3 per the published MPEG2 tables).
	{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, -1},
	// Layer3
	{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, -1},
}

var sampleRateTableV1 = [4]int{44100, 48000, 32000, -1}
var sampleRateTableV2 = [4]int{22050, 24000, 16000, -1}
var sampleRateTableV25 = [4]int{11025, 12000, 8000, -1}

// bitrate returns the frame's bitrate in kbps, or -1 for a free/invalid
// entry.
func (h header) bitrate() int {
	layerIdx := 3 - int(h.Layer) // layer3=1->idx2, layer2=2->idx1, layer1=3->idx0
	if h.Version == versionMPEG1 {
		return bitrateTableV1[layerIdx][h.BitrateIdx]
	}
	return bitrateTableV2[layerIdx][h.BitrateIdx]
}

// sampleRate returns the frame's sample rate in Hz, or -1 if invalid.
func (h header) sampleRate() int {
	switch h.Version {
	case versionMPEG1:
		return sampleRateTableV1[h.SampleRateIdx]
	case versionMPEG2:
		return sampleRateTableV2[h.SampleRateIdx]
	case versionMPEG25:
		return sampleRateTableV25[h.SampleRateIdx]
	default:
		return -1
	}
}

// channels returns the channel count implied by the channel-mode field.
func (h header) channels() int {
	if h.ChannelMode == 3 {
		return 1
	}
	return 2
}

// samplesPerFrame returns the number of samples this frame decodes to.
func (h header) samplesPerFrame() int {
	switch h.Layer {
	case layer1:
		return 384
	case layer2:
		return 1152
	case layer3:
		if h.Version == versionMPEG1 {
			return 1152
		}
		return 576
	default:
		return 0
	}
}

// frameSize returns the total on-disk size of the frame (header included),
// or -1 if the bitrate/sample-rate combination is invalid.
func (h header) frameSize() int {
	br := h.bitrate()
	sr := h.sampleRate()
	if br <= 0 || sr <= 0 {
		return -1
	}
	pad := 0
	if h.Padding {
		pad = 1
	}
	if h.Layer == layer1 {
		return (12*br*1000/sr + pad) * 4
	}
	slot := 144
	if h.Layer == layer3 && h.Version != versionMPEG1 {
		slot = 72
	}
	return slot*br*1000/sr + pad
}

// isHeaderWord reports whether the 32-bit big-endian word at the current
// cursor looks like a valid MPEG frame header: sync bits set, and no
// reserved version/layer/bitrate/sample-rate field. Grounded on
// other_examples/2d3a43d1_hajimehoshi-go-mp3__read.go.go's isHeader, which
// performs the same sync+reserved-field screen before fully decoding a
// header.
func isHeaderWord(word uint32) bool {
	if word&0xFFE00000 != 0xFFE00000 {
		return false
	}
	version := mpegVersion((word >> 19) & 0x3)
	if version == versionReserved {
		return false
	}
	layer := mpegLayer((word >> 17) & 0x3)
	if layer == layerReserved {
		return false
	}
	bitrateIdx := uint8((word >> 12) & 0xF)
	if bitrateIdx == 0xF {
		return false
	}
	sampleRateIdx := uint8((word >> 10) & 0x3)
	if sampleRateIdx == 0x3 {
		return false
	}
	return true
}

// decodeHeaderWord decodes a 32-bit word already screened by isHeaderWord.
func decodeHeaderWord(word uint32) header {
	return header{
		Version:       mpegVersion((word >> 19) & 0x3),
		Layer:         mpegLayer((word >> 17) & 0x3),
		Protected:     (word>>16)&0x1 == 0,
		BitrateIdx:    uint8((word >> 12) & 0xF),
		SampleRateIdx: uint8((word >> 10) & 0x3),
		Padding:       (word>>9)&0x1 == 1,
		ChannelMode:   uint8((word >> 6) & 0x3),
	}
}
