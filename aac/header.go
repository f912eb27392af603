// Package aac demuxes and muxes raw ADTS (Audio Data Transport Stream)
// AAC, the framing the spec.md §4.5.4 MODULE covers: self-synchronizing
// 7-byte (9 with CRC) headers in front of opaque codec payload. Grounded
// on the header-field layout in
// other_examples/05c01d66_ausocean-av__codec-aac-lex.go.go; each header
// field is extracted by manual bit shifts over a 7-byte Peek of this
// module's Reader.
package aac

import "github.com/mewkiz/audiox"

// sampleRateTable maps a 4-bit sampling-frequency index to Hz. Indices
// 13-15 are reserved/invalid (spec.md §4.5.4).
var sampleRateTable = [16]uint32{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050,
	16000, 12000, 11025, 8000, 7350, 0, 0, 0,
}

// header is a decoded ADTS frame header.
type header struct {
	mpegID            uint8 // 0 = MPEG-4, 1 = MPEG-2
	protectionAbsent  bool
	profile           uint8 // object type - 1
	sampleRateIdx     uint8
	channelConfig     uint8
	frameLength       uint32 // header + payload
	headerLen         int    // 7 or 9
}

func (h header) sampleRate() uint32 { return sampleRateTable[h.sampleRateIdx] }

// isValidSampleRateIdx reports whether idx names a real sampling frequency.
func isValidSampleRateIdx(idx uint8) bool {
	return idx < 13
}

// decodeHeader parses a 7-byte ADTS fixed+variable header starting at the
// reader's current position (without consuming the CRC, if present, which
// the caller skips separately). Returns ok=false on any field that fails
// the spec's validity constraints, signaling the caller to resync.
func decodeHeader(r *audiox.Reader) (h header, ok bool, err error) {
	b, err := r.Peek(7)
	if err != nil {
		return header{}, false, err
	}
	if len(b) < 7 {
		return header{}, false, nil
	}
	if b[0] != 0xFF || b[1]&0xF0 != 0xF0 {
		return header{}, false, nil
	}
	layer := (b[1] >> 1) & 0x3
	if layer != 0 {
		return header{}, false, nil
	}
	mpegID := (b[1] >> 3) & 0x1
	protectionAbsent := b[1]&0x1 != 0

	profile := (b[2] >> 6) & 0x3
	sampleRateIdx := (b[2] >> 2) & 0xF
	if !isValidSampleRateIdx(sampleRateIdx) {
		return header{}, false, nil
	}
	// bit 1 of b[2] is "private", bit 0 is the MSB of channel_config.
	channelConfig := (b[2]&0x1)<<2 | (b[3] >> 6)

	frameLength := uint32(b[3]&0x3)<<11 | uint32(b[4])<<3 | uint32(b[5]>>5)
	if frameLength < 7 {
		return header{}, false, nil
	}

	hdrLen := 7
	if !protectionAbsent {
		hdrLen = 9
	}

	return header{
		mpegID:           mpegID,
		protectionAbsent: protectionAbsent,
		profile:          profile,
		sampleRateIdx:    sampleRateIdx,
		channelConfig:    channelConfig,
		frameLength:      frameLength,
		headerLen:        hdrLen,
	}, true, nil
}

// adtsSyncPrefix reports whether b starts with an ADTS sync matching the
// muxer's pass-through check (spec.md §4.5.4's muxer section):
// byte0==0xFF and (byte1 & 0xF6) == 0xF0.
func adtsSyncPrefix(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xFF && b[1]&0xF6 == 0xF0
}

// sampleRateIndexFor returns the table index matching rate, or the default
// 44100 index (4) if rate isn't an exact table entry.
func sampleRateIndexFor(rate uint32) uint8 {
	for i, r := range sampleRateTable {
		if r == rate {
			return uint8(i)
		}
	}
	return 4
}

// profileLC is the default encoded profile (object type LC - 1).
const profileLC = 1

// writeHeader constructs and writes a 7-byte ADTS header (protection
// absent) for a frame of the given payload length, sample rate, and
// channel count (spec.md §4.5.4's muxer section).
func writeHeader(w *audiox.Writer, payloadLen int, sampleRate uint32, channels uint8) error {
	frameLength := uint32(7 + payloadLen)
	idx := sampleRateIndexFor(sampleRate)
	chCfg := channels
	if chCfg == 0 {
		chCfg = 2
	}

	b := make([]byte, 7)
	b[0] = 0xFF
	b[1] = 0xF0 | (0 << 3) /* mpegID=0 (MPEG-4) */ | (0 << 1) /* layer=0 */ | 1 /* protection_absent */
	b[2] = (profileLC << 6) | (idx << 2) | (0 << 1) /* private */ | (chCfg >> 2)
	b[3] = (chCfg&0x3)<<6 | byte(frameLength>>11)
	b[4] = byte(frameLength >> 3)
	const bufferFullness = 0x7FF // VBR marker
	b[5] = byte(frameLength<<5) | byte(bufferFullness>>6)
	b[6] = byte(bufferFullness<<2) | 0 /* raw_data_blocks = 0 */
	return w.WriteBytes(b)
}
