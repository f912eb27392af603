package mp3_test

import (
	"testing"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/mp3"
)

// mpegFrame builds one valid MPEG1-Layer3, 44100Hz, 128kbps, stereo frame
// of its table-computed size (417 bytes: a 4-byte header plus zero-filled
// payload, which does not form a spurious sync word of its own).
func mpegFrame() []byte {
	frame := make([]byte, 417)
	frame[0] = 0xFF
	frame[1] = 0xFB // version=MPEG1(11), layer=Layer3(01), protected bit set (no CRC)
	frame[2] = 0x90 // bitrateIdx=9(1001), sampleRateIdx=0(00), padding=0
	frame[3] = 0x00 // channelMode=stereo(00)
	return frame
}

func TestMuxDemuxRoundTrip(t *testing.T) {
	w := audiox.NewWriter(audiox.NewBufferTarget())
	m := mp3.NewMuxer(w)
	if _, err := m.AddTrack(audiox.AudioTrackConfig{CodecTag: "mp3"}); err != nil {
		t.Fatalf("AddTrack: %v", err)
	}

	frames := [][]byte{mpegFrame(), mpegFrame()}
	for _, f := range frames {
		if err := m.WritePacket(audiox.EncodedPacket{Data: f, TrackID: 1}); err != nil {
			t.Fatalf("WritePacket: %v", err)
		}
	}
	if err := m.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	out, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := audiox.NewReader(audiox.NewBufferSource(out))
	d := mp3.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	track := d.Track()
	if track.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", track.SampleRate)
	}
	if track.Channels != 2 {
		t.Errorf("Channels = %d, want 2", track.Channels)
	}
	if track.Bitrate != 128 {
		t.Errorf("Bitrate = %d, want 128", track.Bitrate)
	}

	var got int
	for {
		pkt, err := d.ReadPacket(1)
		if err != nil {
			t.Fatalf("ReadPacket: %v", err)
		}
		if pkt == nil {
			break
		}
		if len(pkt.Data) != 417 {
			t.Errorf("packet %d length = %d, want 417", got, len(pkt.Data))
		}
		got++
	}
	if got != len(frames) {
		t.Fatalf("demuxed %d frames, want %d", got, len(frames))
	}
}

func TestDemuxerExtractsID3v1Trailer(t *testing.T) {
	var tag [128]byte
	copy(tag[0:3], "TAG")
	copy(tag[3:33], padRight("Test Title", 30))
	copy(tag[33:63], padRight("Test Artist", 30))
	copy(tag[63:93], padRight("Test Album", 30))
	copy(tag[93:97], "2024")
	// offsets 97-126 (comment) and 127 (genre) are left zero: no track
	// number, no genre byte asserted by this test.

	data := append(mpegFrame(), tag[:]...)
	r := audiox.NewReader(audiox.NewBufferSource(data))
	d := mp3.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	meta := d.Metadata()
	if meta.Title != "Test Title" {
		t.Errorf("Title = %q, want %q", meta.Title, "Test Title")
	}
	if meta.Artist != "Test Artist" {
		t.Errorf("Artist = %q, want %q", meta.Artist, "Test Artist")
	}
	if !meta.HasYear || meta.Year != 2024 {
		t.Errorf("Year = %d (has=%v), want 2024", meta.Year, meta.HasYear)
	}

	pkt, err := d.ReadPacket(1)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if pkt == nil {
		t.Fatal("expected the audio frame preceding the ID3v1 trailer to be demuxed")
	}
}

func padRight(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func TestFormatCanRead(t *testing.T) {
	r := audiox.NewReader(audiox.NewBufferSource(mpegFrame()))
	ok, err := (mp3.Format{}).CanRead(r)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("CanRead() = false for a stream starting with a valid MPEG frame sync")
	}
}
