package ogg

import "strings"

// codecVorbis, codecOpus, codecFLAC identify the three codecs this module
// recognizes inside an OGG container (spec.md §4.5.5's codec-detection
// rule).
const (
	codecUnknown = ""
	codecVorbis  = "vorbis"
	codecOpus    = "opus"
	codecFLAC    = "flac"
)

// detectCodec inspects a stream's first payload packet and identifies its
// codec, sample rate, and channel count.
func detectCodec(first []byte) (codec string, sampleRate uint32, channels uint8) {
	if len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis" {
		if len(first) >= 16 {
			channels = first[11]
			sampleRate = le32(first[12:16])
		}
		return codecVorbis, sampleRate, channels
	}
	if len(first) >= 8 && string(first[0:8]) == "OpusHead" {
		if len(first) >= 10 {
			channels = first[9]
		}
		return codecOpus, 48000, channels // Opus's internal rate is always 48kHz.
	}
	if len(first) >= 5 && first[0] == 0x7F && string(first[1:5]) == "FLAC" {
		return codecFLAC, 0, 0
	}
	return codecUnknown, 0, 0
}

// isCommentPacket reports whether b is a Vorbis/Opus comment-header packet
// for the given codec, and returns the comment payload with its prefix
// stripped (spec.md §4.5.5's tag-extraction rule).
func isCommentPacket(codec string, b []byte) (payload []byte, ok bool) {
	switch codec {
	case codecVorbis:
		if len(b) >= 7 && b[0] == 0x03 && string(b[1:7]) == "vorbis" {
			return b[7:], true
		}
	case codecOpus:
		if len(b) >= 8 && string(b[0:8]) == "OpusTags" {
			return b[8:], true
		}
	}
	return nil, false
}

// packetAdvance returns the per-packet granule-position step for a codec
// (spec.md §4.5.5's muxer section): 1024 for Vorbis, 960 for Opus.
func packetAdvance(codec string) int64 {
	if strings.EqualFold(codec, codecOpus) {
		return 960
	}
	return 1024
}
