package mp3

import (
	"strconv"
	"strings"

	"github.com/mewkiz/audiox"
)

// id3v1Size is the fixed length of an ID3v1 trailer.
const id3v1Size = 128

// readID3v1 parses the 128-byte ID3v1 trailer already positioned at the
// reader's cursor (spec.md §4.5.1.2): fixed-width Latin-1 fields, with an
// optional track number squeezed into the comment field's last two bytes
// when byte 125 (0-indexed within the tag) is NUL.
func readID3v1(r *audiox.Reader) (audiox.AudioMetadata, error) {
	var m audiox.AudioMetadata

	tag, err := r.String(3, audiox.EncodingLatin1)
	if err != nil {
		return m, err
	}
	if tag != "TAG" {
		return m, audiox.ErrInvalidContainer("ID3v1 trailer missing TAG magic")
	}
	title, err := fixedLatin1(r, 30)
	if err != nil {
		return m, err
	}
	artist, err := fixedLatin1(r, 30)
	if err != nil {
		return m, err
	}
	album, err := fixedLatin1(r, 30)
	if err != nil {
		return m, err
	}
	year, err := fixedLatin1(r, 4)
	if err != nil {
		return m, err
	}
	// The comment field occupies 30 tag bytes (offsets 97-126: 3 magic +
	// 30+30+30+4 fixed fields = 97). Byte 125 (local index 28) doubling as
	// a zero-byte/track-number marker is the ID3v1.1 convention: when it
	// is NUL, byte 126 (local 29) is the track number and the comment
	// text itself is only the first 28 bytes.
	commentBytes, err := r.ReadBytes(30)
	if err != nil {
		return m, err
	}
	if commentBytes == nil {
		return m, audiox.ErrTruncatedInput("ID3v1 comment field")
	}
	if _, err := r.U8(); err != nil { // genre byte, not mapped by spec.md
		return m, err
	}

	m.Title = title
	m.Artist = artist
	m.Album = album
	if y, err := strconv.Atoi(strings.TrimSpace(year)); err == nil && y != 0 {
		m.Year, m.HasYear = y, true
	}

	commentLen := len(commentBytes)
	if commentBytes[28] == 0 {
		if n := int(commentBytes[29]); n != 0 {
			m.TrackNumber, m.HasTrackNumber = n, true
		}
		commentLen = 28
	}
	m.Comment = strings.TrimRight(latin1ToString(commentBytes[:commentLen]), "\x00")

	return m, nil
}

func latin1ToString(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// fixedLatin1 reads n bytes as Latin-1 and trims trailing NULs.
func fixedLatin1(r *audiox.Reader, n int) (string, error) {
	s, err := r.String(n, audiox.EncodingLatin1)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\x00"), nil
}
