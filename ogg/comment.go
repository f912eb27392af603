package ogg

import (
	"strconv"
	"strings"

	"github.com/mewkiz/audiox"
)

// vorbisEntry is one "KEY=value" comment pair.
type vorbisEntry struct {
	name  string
	value string
}

// parseVorbisComment decodes the Vorbis-comment structure (spec.md
// §4.5.5's tag-extraction rule, "the remainder is the Vorbis-comment
// structure (see FLAC)"): an LE-length-prefixed vendor string followed by
// an LE-length-prefixed count of LE-length-prefixed entries. Duplicated
// from flac's identical block-body shape rather than imported, since the
// OGG comment packet has no surrounding block-header framing to share.
func parseVorbisComment(data []byte) (vendor string, entries []vorbisEntry) {
	pos := 0
	read := func() (string, bool) {
		if pos+4 > len(data) {
			return "", false
		}
		n := int(le32(data[pos:]))
		pos += 4
		if n < 0 || pos+n > len(data) {
			return "", false
		}
		s := string(data[pos : pos+n])
		pos += n
		return s, true
	}
	v, ok := read()
	if !ok {
		return "", nil
	}
	vendor = v
	if pos+4 > len(data) {
		return vendor, nil
	}
	count := int(le32(data[pos:]))
	pos += 4
	for i := 0; i < count; i++ {
		entry, ok := read()
		if !ok {
			break
		}
		i := strings.IndexByte(entry, '=')
		if i < 0 {
			entries = append(entries, vorbisEntry{name: entry})
			continue
		}
		entries = append(entries, vorbisEntry{name: entry[:i], value: entry[i+1:]})
	}
	return vendor, entries
}

// metadataFromComments maps recognized Vorbis-comment keys onto an
// AudioMetadata record, using the same key table as the flac package.
func metadataFromComments(entries []vorbisEntry) audiox.AudioMetadata {
	var m audiox.AudioMetadata
	for _, e := range entries {
		switch strings.ToUpper(e.name) {
		case "TITLE":
			m.Title = e.value
		case "ARTIST":
			m.Artist = e.value
		case "ALBUM":
			m.Album = e.value
		case "ALBUMARTIST":
			m.AlbumArtist = e.value
		case "COMPOSER":
			m.Composer = e.value
		case "GENRE":
			m.Genre = e.value
		case "COMMENT", "DESCRIPTION":
			m.Comment = e.value
		case "COPYRIGHT":
			m.Copyright = e.value
		case "ENCODER":
			m.Encoder = e.value
		case "ISRC":
			m.ISRC = e.value
		case "DATE":
			m.Date = e.value
			if len(e.value) >= 4 {
				if y, err := strconv.Atoi(e.value[:4]); err == nil {
					m.Year, m.HasYear = y, true
				}
			}
		case "TRACKNUMBER":
			if n, err := strconv.Atoi(strings.TrimSpace(e.value)); err == nil {
				m.TrackNumber, m.HasTrackNumber = n, true
			}
		case "DISCNUMBER":
			if n, err := strconv.Atoi(strings.TrimSpace(e.value)); err == nil {
				m.DiscNumber, m.HasDiscNumber = n, true
			}
		}
	}
	return m
}
