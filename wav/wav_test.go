package wav_test

import (
	"testing"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/wav"
)

func TestMuxDemuxRoundTrip(t *testing.T) {
	w := audiox.NewWriter(audiox.NewBufferTarget())
	m := wav.NewMuxer(w)
	cfg := audiox.AudioTrackConfig{
		CodecTag: "pcm", SampleRate: 44100, Channels: 2, BitDepth: 16, SampleFormat: "s16",
	}
	if _, err := m.AddTrack(cfg); err != nil {
		t.Fatalf("AddTrack: %v", err)
	}

	payload := make([]byte, 16) // 4 stereo 16-bit frames
	for i := range payload {
		payload[i] = byte(i)
	}
	if err := m.WritePacket(audiox.EncodedPacket{Data: payload, TrackID: 1}); err != nil {
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

	r := audiox.NewReader(audiox.NewBufferSource(out))
	d := wav.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	track := d.Track()
	if track.CodecTag != "pcm" {
		t.Errorf("CodecTag = %q, want pcm", track.CodecTag)
	}
	if track.SampleFormat != "s16" {
		t.Errorf("SampleFormat = %q, want s16", track.SampleFormat)
	}
	if track.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", track.SampleRate)
	}
	if track.Channels != 2 {
		t.Errorf("Channels = %d, want 2", track.Channels)
	}

	pkt, err := d.ReadPacket(1)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if pkt == nil {
		t.Fatal("expected one packet")
	}
	if string(pkt.Data) != string(payload) {
		t.Errorf("packet data = %v, want %v", pkt.Data, payload)
	}
	if pkt2, err := d.ReadPacket(1); err != nil || pkt2 != nil {
		t.Errorf("expected exhausted iterator after one packet, got %v, %v", pkt2, err)
	}
}

func TestAutoWavStaysRIFFBelowThreshold(t *testing.T) {
	w := audiox.NewWriter(audiox.NewBufferTarget())
	m := wav.NewAutoWav(w)
	if _, err := m.AddTrack(audiox.AudioTrackConfig{
		SampleRate: 44100, Channels: 1, BitDepth: 16, SampleFormat: "s16",
	}); err != nil {
		t.Fatalf("AddTrack: %v", err)
	}
	if err := m.WritePacket(audiox.EncodedPacket{Data: []byte{0x01, 0x02}, TrackID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}
	out, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if string(out[:4]) != "RIFF" {
		t.Errorf("magic = %q, want RIFF for a small stream", out[:4])
	}

	r := audiox.NewReader(audiox.NewBufferSource(out))
	d := wav.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if d.Track().SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", d.Track().SampleRate)
	}
}

func TestDemuxerParsesListInfoMetadata(t *testing.T) {
	w := audiox.NewWriter(audiox.NewBufferTarget())
	if err := w.FourCC("RIFF"); err != nil {
		t.Fatal(err)
	}

	listBody := []byte{}
	listBody = append(listBody, []byte("INFO")...)
	listBody = append(listBody, tagChunk("INAM", "Test Song")...)
	listBody = append(listBody, tagChunk("IART", "Test Artist")...)

	fmtChunk := []byte{
		0x01, 0x00, // PCM
		0x02, 0x00, // channels
		0x44, 0xAC, 0x00, 0x00, // 44100
		0x10, 0xB1, 0x02, 0x00, // byte rate
		0x04, 0x00, // block align
		0x10, 0x00, // bits per sample
	}
	dataBody := []byte{0x00, 0x01, 0x02, 0x03}

	body := []byte{}
	body = append(body, []byte("WAVE")...)
	body = append(body, []byte("fmt ")...)
	body = append(body, le32(len(fmtChunk))...)
	body = append(body, fmtChunk...)
	body = append(body, []byte("LIST")...)
	body = append(body, le32(len(listBody))...)
	body = append(body, listBody...)
	body = append(body, []byte("data")...)
	body = append(body, le32(len(dataBody))...)
	body = append(body, dataBody...)

	if err := w.U32LE(uint32(len(body))); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes(body); err != nil {
		t.Fatal(err)
	}
	out, err := w.Close()
	if err != nil {
		t.Fatal(err)
	}

	r := audiox.NewReader(audiox.NewBufferSource(out))
	d := wav.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	meta := d.Metadata()
	if meta.Title != "Test Song" {
		t.Errorf("Title = %q, want %q", meta.Title, "Test Song")
	}
	if meta.Artist != "Test Artist" {
		t.Errorf("Artist = %q, want %q", meta.Artist, "Test Artist")
	}
}

func tagChunk(id, value string) []byte {
	b := []byte{}
	b = append(b, id...)
	b = append(b, le32(len(value))...)
	b = append(b, value...)
	if len(value)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

func le32(n int) []byte {
	v := uint32(n)
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
