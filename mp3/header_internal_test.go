package mp3

import "testing"

// buildHeaderWord assembles a 32-bit MPEG frame header word the same way
// decodeHeaderWord disassembles one, for round-trip testing.
func buildHeaderWord(h header) uint32 {
	protectedBit := uint32(0)
	if !h.Protected {
		protectedBit = 1
	}
	paddingBit := uint32(0)
	if h.Padding {
		paddingBit = 1
	}
	return 0xFFE00000 |
		uint32(h.Version)<<19 |
		uint32(h.Layer)<<17 |
		protectedBit<<16 |
		uint32(h.BitrateIdx)<<12 |
		uint32(h.SampleRateIdx)<<10 |
		paddingBit<<9 |
		uint32(h.ChannelMode)<<6
}

func TestHeaderWordRoundTrip(t *testing.T) {
	h := header{
		Version:       versionMPEG1,
		Layer:         layer3,
		Protected:     false,
		BitrateIdx:    9, // 128 kbps
		SampleRateIdx: 0, // 44100 Hz
		Padding:       false,
		ChannelMode:   0, // stereo
	}
	word := buildHeaderWord(h)
	if !isHeaderWord(word) {
		t.Fatal("constructed header word rejected by isHeaderWord")
	}
	got := decodeHeaderWord(word)
	if got != h {
		t.Errorf("decodeHeaderWord(buildHeaderWord(h)) = %+v, want %+v", got, h)
	}
	if got.bitrate() != 128 {
		t.Errorf("bitrate() = %d, want 128", got.bitrate())
	}
	if got.sampleRate() != 44100 {
		t.Errorf("sampleRate() = %d, want 44100", got.sampleRate())
	}
	if got.channels() != 2 {
		t.Errorf("channels() = %d, want 2", got.channels())
	}
	if got.samplesPerFrame() != 1152 {
		t.Errorf("samplesPerFrame() = %d, want 1152", got.samplesPerFrame())
	}
	if want := 417; got.frameSize() != want {
		t.Errorf("frameSize() = %d, want %d", got.frameSize(), want)
	}
}

func TestIsHeaderWordRejectsReservedFields(t *testing.T) {
	h := header{Version: versionMPEG1, Layer: layer3, BitrateIdx: 9, SampleRateIdx: 0}
	base := buildHeaderWord(h)
	if !isHeaderWord(base) {
		t.Fatal("base word should be valid")
	}

	reservedVersion := buildHeaderWord(header{Version: versionReserved, Layer: layer3, BitrateIdx: 9})
	if isHeaderWord(reservedVersion) {
		t.Error("reserved version field should be rejected")
	}

	reservedLayer := buildHeaderWord(header{Version: versionMPEG1, Layer: layerReserved, BitrateIdx: 9})
	if isHeaderWord(reservedLayer) {
		t.Error("reserved layer field should be rejected")
	}

	badBitrate := buildHeaderWord(header{Version: versionMPEG1, Layer: layer3, BitrateIdx: 0xF})
	if isHeaderWord(badBitrate) {
		t.Error("bitrate index 0xF (bad) should be rejected")
	}

	badSampleRate := buildHeaderWord(header{Version: versionMPEG1, Layer: layer3, BitrateIdx: 9, SampleRateIdx: 0x3})
	if isHeaderWord(badSampleRate) {
		t.Error("sample rate index 0x3 (reserved) should be rejected")
	}
}
