package flac_test

import (
	"testing"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/flac"
)

// buildStream assembles a minimal valid FLAC stream in memory: magic,
// a STREAMINFO block, a last-block VORBIS_COMMENT block, then the given
// frames, each of whose headers carries a sync word and block-size code.
func buildStream(t *testing.T, frames [][]byte) []byte {
	t.Helper()
	w := audiox.NewWriter(audiox.NewBufferTarget())

	if err := w.String(flac.Magic); err != nil {
		t.Fatalf("magic: %v", err)
	}

	vc := []byte{}
	vendor := "audiox test"
	vc = append(vc, le32(len(vendor))...)
	vc = append(vc, vendor...)
	entry := "TITLE=hello"
	vc = append(vc, le32(1)...)
	vc = append(vc, le32(len(entry))...)
	vc = append(vc, entry...)

	// STREAMINFO, not last.
	if err := w.U8(0x00); err != nil {
		t.Fatal(err)
	}
	if err := w.U24BE(34); err != nil {
		t.Fatal(err)
	}
	si := []byte{
		0x10, 0x00, // min block size 4096
		0x10, 0x00, // max block size 4096
		0x00, 0x00, 0x00, // min frame size
		0x00, 0x00, 0x00, // max frame size
	}
	// sample_rate=44100(20b) channels-1=1(3b) bps-1=15(5b) total_samples=0(36b)
	packed := uint64(44100)<<44 | uint64(1)<<41 | uint64(15)<<36
	var packedBytes [8]byte
	for i := 0; i < 8; i++ {
		packedBytes[i] = byte(packed >> uint(56-8*i))
	}
	si = append(si, packedBytes[:]...)
	si = append(si, make([]byte, 16)...) // MD5
	if err := w.WriteBytes(si); err != nil {
		t.Fatal(err)
	}

	// VORBIS_COMMENT, last block.
	if err := w.U8(0x80 | 0x04); err != nil {
		t.Fatal(err)
	}
	if err := w.U24BE(uint32(len(vc))); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes(vc); err != nil {
		t.Fatal(err)
	}

	for _, f := range frames {
		if err := w.WriteBytes(f); err != nil {
			t.Fatal(err)
		}
	}

	out, err := w.Close()
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	return out
}

func le32(n int) []byte {
	return []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
}

// frameBytes builds a syntactically minimal frame: sync code + reserved bit
// clear in the first 14 bits, a block-size code in byte 2's high nibble,
// then arbitrary payload bytes distinguishable per call.
func frameBytes(blockSizeCode byte, payload byte, payloadLen int) []byte {
	f := []byte{0xFF, 0xF8, blockSizeCode << 4}
	for i := 0; i < payloadLen; i++ {
		f = append(f, payload)
	}
	return f
}

func TestDemuxerReadsStreamInfoAndComments(t *testing.T) {
	data := buildStream(t, [][]byte{
		frameBytes(0xA, 0x11, 10), // code 0xA -> 1024 samples
		frameBytes(0xA, 0x22, 10),
	})
	r := audiox.NewReader(audiox.NewBufferSource(data))
	d := flac.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	track := d.Track()
	if track.CodecTag != "flac" {
		t.Errorf("CodecTag = %q, want flac", track.CodecTag)
	}
	if track.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", track.SampleRate)
	}
	if track.Channels != 2 {
		t.Errorf("Channels = %d, want 2", track.Channels)
	}
	if track.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", track.BitDepth)
	}

	meta := d.Metadata()
	if meta.Title != "hello" {
		t.Errorf("Title = %q, want hello", meta.Title)
	}
}

func TestDemuxerIteratesFrames(t *testing.T) {
	data := buildStream(t, [][]byte{
		frameBytes(0xA, 0x11, 10),
		frameBytes(0xA, 0x22, 10),
	})
	r := audiox.NewReader(audiox.NewBufferSource(data))
	d := flac.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var got [][]byte
	for {
		pkt, err := d.ReadPacket(1)
		if err != nil {
			t.Fatalf("ReadPacket: %v", err)
		}
		if pkt == nil {
			break
		}
		got = append(got, pkt.Data)
	}
	if len(got) != 2 {
		t.Fatalf("got %d frames, want 2", len(got))
	}
	if got[0][3] != 0x11 || got[1][3] != 0x22 {
		t.Errorf("frame payloads out of order or corrupted: %x, %x", got[0], got[1])
	}
}

func TestDemuxerSeekPastEndExhaustsIterator(t *testing.T) {
	data := buildStream(t, [][]byte{frameBytes(0xA, 0x11, 10)})
	r := audiox.NewReader(audiox.NewBufferSource(data))
	d := flac.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := d.Seek(1e9); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	pkt, err := d.ReadPacket(1)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if pkt != nil {
		t.Errorf("ReadPacket after seek-past-end = %+v, want nil", pkt)
	}
}

func TestMuxerWritesMagicAndStreamInfo(t *testing.T) {
	w := audiox.NewWriter(audiox.NewBufferTarget())
	m := flac.NewMuxer(w)
	if _, err := m.AddTrack(audiox.AudioTrackConfig{
		CodecTag: "flac", SampleRate: 44100, Channels: 2, BitDepth: 16,
	}); err != nil {
		t.Fatalf("AddTrack: %v", err)
	}
	if err := m.WritePacket(audiox.EncodedPacket{Data: []byte{0xFF, 0xF8, 0xA0}, TrackID: 1}); err != nil {
		t.Fatalf("WritePacket: %v", err)
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
	if string(out[:4]) != flac.Magic {
		t.Fatalf("magic = %q, want %q", out[:4], flac.Magic)
	}

	r := audiox.NewReader(audiox.NewBufferSource(out))
	d := flac.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("round-trip Init: %v", err)
	}
	if d.Track().SampleRate != 44100 {
		t.Errorf("round-trip SampleRate = %d, want 44100", d.Track().SampleRate)
	}
}
