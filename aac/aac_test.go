package aac_test

import (
	"testing"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/aac"
)

func TestMuxDemuxRoundTrip(t *testing.T) {
	w := audiox.NewWriter(audiox.NewBufferTarget())
	m := aac.NewMuxer(w)
	if _, err := m.AddTrack(audiox.AudioTrackConfig{
		CodecTag: "aac", SampleRate: 44100, Channels: 2,
	}); err != nil {
		t.Fatalf("AddTrack: %v", err)
	}

	payloads := [][]byte{
		{0x01, 0x02, 0x03, 0x04},
		{0x05, 0x06, 0x07, 0x08, 0x09},
	}
	for _, p := range payloads {
		if err := m.WritePacket(audiox.EncodedPacket{Data: p, TrackID: 1}); err != nil {
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
	d := aac.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	track := d.Track()
	if track.CodecTag != "aac" {
		t.Errorf("CodecTag = %q, want aac", track.CodecTag)
	}
	if track.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", track.SampleRate)
	}
	if track.Channels != 2 {
		t.Errorf("Channels = %d, want 2", track.Channels)
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
		if len(pkt.Data) <= 7 {
			t.Errorf("packet %d too short to carry a header+payload: %d bytes", got, len(pkt.Data))
		}
		got++
	}
	if got != len(payloads) {
		t.Fatalf("demuxed %d packets, want %d", got, len(payloads))
	}
}

func TestDemuxerResyncsOnNoise(t *testing.T) {
	w := audiox.NewWriter(audiox.NewBufferTarget())
	m := aac.NewMuxer(w)
	if _, err := m.AddTrack(audiox.AudioTrackConfig{SampleRate: 44100, Channels: 2}); err != nil {
		t.Fatal(err)
	}
	if err := m.WritePacket(audiox.EncodedPacket{Data: []byte{0xAA, 0xBB, 0xCC}, TrackID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}
	frame, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	noisy := append([]byte{0x00, 0x11, 0x22, 0xFF, 0x00}, frame...)
	r := audiox.NewReader(audiox.NewBufferSource(noisy))
	d := aac.NewDemuxer(r)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	pkt, err := d.ReadPacket(1)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if pkt == nil {
		t.Fatal("expected one frame to be recovered past leading noise")
	}
}
