package convert_test

import (
	"testing"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/convert"
	"github.com/mewkiz/audiox/wav"
)

func buildWAV(t *testing.T, packets [][]byte, meta audiox.AudioMetadata) []byte {
	t.Helper()
	w := audiox.NewWriter(audiox.NewBufferTarget())
	m := wav.NewMuxer(w)
	cfg := audiox.AudioTrackConfig{CodecTag: "pcm", SampleRate: 44100, Channels: 2, BitDepth: 16, SampleFormat: "s16"}
	if _, err := m.AddTrack(cfg); err != nil {
		t.Fatalf("AddTrack: %v", err)
	}
	m.SetMetadata(meta)
	for _, p := range packets {
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
	return out
}

func TestConversionCopiesAllPackets(t *testing.T) {
	in := buildWAV(t, [][]byte{{0, 1, 2, 3}, {4, 5, 6, 7}}, audiox.AudioMetadata{Title: "Song"})

	r := audiox.NewReader(audiox.NewBufferSource(in))
	demux := wav.NewDemuxer(r)
	if err := demux.Init(); err != nil {
		t.Fatalf("demux Init: %v", err)
	}

	outW := audiox.NewWriter(audiox.NewBufferTarget())
	mux := wav.NewMuxer(outW)

	var progressCalls int
	conv := convert.New(demux, mux, convert.Options{
		OnProgress: func(audiox.ProgressInfo) { progressCalls++ },
	})
	if err := conv.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := conv.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if progressCalls == 0 {
		t.Error("expected at least one progress callback")
	}

	out, err := outW.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := mux.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r2 := audiox.NewReader(audiox.NewBufferSource(out))
	verify := wav.NewDemuxer(r2)
	if err := verify.Init(); err != nil {
		t.Fatalf("verify Init: %v", err)
	}
	// The canonical WAV muxer writes no LIST/INFO chunk, so the title
	// handed to SetMetadata does not survive the round trip.
	if verify.Metadata().Title != "" {
		t.Errorf("Title = %q, want empty", verify.Metadata().Title)
	}

	var got [][]byte
	for {
		pkt, err := verify.ReadPacket(1)
		if err != nil {
			t.Fatalf("ReadPacket: %v", err)
		}
		if pkt == nil {
			break
		}
		got = append(got, append([]byte(nil), pkt.Data...))
	}
	// Both 4-byte input packets hold one stereo 16-bit frame each; the WAV
	// demuxer re-chunks the data into packets of up to 4096 frames, so the
	// two frames come back as a single packet.
	if len(got) != 1 {
		t.Fatalf("got %d packets, want 1", len(got))
	}
	if string(got[0]) != "\x00\x01\x02\x03\x04\x05\x06\x07" {
		t.Errorf("packet data mismatch: %v", got)
	}
}

func TestConversionAppliesOverrides(t *testing.T) {
	in := buildWAV(t, [][]byte{{1, 2, 3, 4}}, audiox.AudioMetadata{})

	r := audiox.NewReader(audiox.NewBufferSource(in))
	demux := wav.NewDemuxer(r)
	if err := demux.Init(); err != nil {
		t.Fatalf("demux Init: %v", err)
	}

	outW := audiox.NewWriter(audiox.NewBufferTarget())
	mux := wav.NewMuxer(outW)

	conv := convert.New(demux, mux, convert.Options{SampleRate: 48000, Channels: 1})
	if err := conv.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := conv.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out, err := outW.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := mux.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r2 := audiox.NewReader(audiox.NewBufferSource(out))
	verify := wav.NewDemuxer(r2)
	if err := verify.Init(); err != nil {
		t.Fatalf("verify Init: %v", err)
	}
	if verify.Track().SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000 (override)", verify.Track().SampleRate)
	}
	if verify.Track().Channels != 1 {
		t.Errorf("Channels = %d, want 1 (override)", verify.Track().Channels)
	}
}

func TestConversionStopsAtEndTime(t *testing.T) {
	// Three packets of 4096 stereo 16-bit frames each: the WAV demuxer
	// re-emits them at timestamps 0, 4096/44100 (~0.093s) and 8192/44100
	// (~0.186s).
	frames := make([]byte, 4096*4)
	pkts := [][]byte{frames, frames, frames}
	in := buildWAV(t, pkts, audiox.AudioMetadata{})

	r := audiox.NewReader(audiox.NewBufferSource(in))
	demux := wav.NewDemuxer(r)
	if err := demux.Init(); err != nil {
		t.Fatalf("demux Init: %v", err)
	}

	outW := audiox.NewWriter(audiox.NewBufferTarget())
	mux := wav.NewMuxer(outW)

	// An end time of 0.1s lies between the second and third packets'
	// timestamps, so Run stops before writing the third packet.
	conv := convert.New(demux, mux, convert.Options{EndTime: 0.1})
	if err := conv.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := conv.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out, err := outW.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := mux.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r2 := audiox.NewReader(audiox.NewBufferSource(out))
	verify := wav.NewDemuxer(r2)
	if err := verify.Init(); err != nil {
		t.Fatalf("verify Init: %v", err)
	}
	var count int
	for {
		pkt, err := verify.ReadPacket(1)
		if err != nil {
			t.Fatalf("ReadPacket: %v", err)
		}
		if pkt == nil {
			break
		}
		count++
	}
	if count != len(pkts)-1 {
		t.Errorf("got %d packets, want %d", count, len(pkts)-1)
	}
}

func TestRunBeforeInitializeErrors(t *testing.T) {
	in := buildWAV(t, [][]byte{{1}}, audiox.AudioMetadata{})
	r := audiox.NewReader(audiox.NewBufferSource(in))
	demux := wav.NewDemuxer(r)
	if err := demux.Init(); err != nil {
		t.Fatalf("demux Init: %v", err)
	}
	outW := audiox.NewWriter(audiox.NewBufferTarget())
	mux := wav.NewMuxer(outW)

	conv := convert.New(demux, mux, convert.Options{})
	if err := conv.Run(); err == nil {
		t.Error("expected an error calling Run before Initialize")
	}
}
