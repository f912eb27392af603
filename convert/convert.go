// Package convert implements the conversion orchestrator (spec.md §4.7):
// a state machine pairing one Demuxer with one Muxer, copying packets
// until end_time or EOF, reporting progress. Grounded on the teacher's
// cmd/flac2wav/flac2wav.go and cmd/wav2flac/main.go "open input, open
// output, loop: decode one unit, encode one unit, until io.EOF" shape,
// generalized from FLAC-frame/WAV-sample units to this module's opaque
// EncodedPacket and from a fixed FLAC<->WAV pair to any registered
// Demuxer/Muxer pair.
package convert

import (
	"time"

	"github.com/mewkiz/audiox"
)

// state is the orchestrator's lifecycle position (spec.md §4.7's table).
type state int

const (
	stateInit state = iota
	stateRunning
	stateFinalized
)

// Options carries the per-field overrides and time window a Conversion
// accepts on top of the input track's own values (spec.md §4.7).
type Options struct {
	StartTime float64
	EndTime   float64 // 0 means "no end time" (run to EOF)

	CodecTag      string
	SampleRate    uint32
	Channels      uint8
	BitDepth      uint8
	Bitrate       uint32

	// OnProgress, if non-nil, is invoked after every written packet
	// (spec.md §4.7).
	OnProgress func(audiox.ProgressInfo)
}

// Conversion couples one open Demuxer to one open Muxer and drives packets
// from the former to the latter (spec.md §4.7).
type Conversion struct {
	demux audiox.Demuxer
	mux   audiox.Muxer
	opts  Options

	state   state
	trackID      int
	demuxTrackID int

	effectiveEnd float64
	totalTime    float64
	startedAt    time.Time

	inputBytes  int64
	outputBytes int64
}

// New constructs a Conversion. Initialize must be called before Run.
func New(demux audiox.Demuxer, mux audiox.Muxer, opts Options) *Conversion {
	return &Conversion{demux: demux, mux: mux, opts: opts}
}

// Initialize picks the primary track, computes the effective duration,
// configures the output track from the input track's values with any
// per-field overrides applied, copies metadata, and seeks the input if
// start_time is set (spec.md §4.7's Init state).
func (c *Conversion) Initialize() error {
	if c.state != stateInit {
		return audiox.ErrMuxerState("Initialize called more than once")
	}

	track := c.demux.Track()
	// Every demuxer in this module reduces its container to a single
	// track, always addressed as id 1 (the muxer-assigned id starts at 1
	// too, but the two ids belong to different tracks/objects).
	c.demuxTrackID = 1

	end := track.Duration
	if c.opts.EndTime > 0 && c.opts.EndTime < end {
		end = c.opts.EndTime
	}
	c.effectiveEnd = end
	c.totalTime = end - c.opts.StartTime
	if c.totalTime < 0 {
		c.totalTime = 0
	}

	cfg := audiox.AudioTrackConfig{
		CodecTag:      track.CodecTag,
		SampleRate:    track.SampleRate,
		Channels:      track.Channels,
		ChannelLayout: track.ChannelLayout,
		BitDepth:      track.BitDepth,
		SampleFormat:  track.SampleFormat,
		Bitrate:       track.Bitrate,
	}
	if c.opts.CodecTag != "" {
		cfg.CodecTag = c.opts.CodecTag
	}
	if c.opts.SampleRate != 0 {
		cfg.SampleRate = c.opts.SampleRate
	}
	if c.opts.Channels != 0 {
		cfg.Channels = c.opts.Channels
	}
	if c.opts.BitDepth != 0 {
		cfg.BitDepth = c.opts.BitDepth
	}
	if c.opts.Bitrate != 0 {
		cfg.Bitrate = c.opts.Bitrate
	}

	trackID, err := c.mux.AddTrack(cfg)
	if err != nil {
		return err
	}
	c.trackID = trackID

	c.mux.SetMetadata(c.demux.Metadata())

	if c.opts.StartTime > 0 {
		if err := c.demux.Seek(c.opts.StartTime); err != nil {
			return err
		}
	}

	c.state = stateRunning
	return nil
}

// Run drives packets from the input to the output until EOF or a packet's
// timestamp exceeds end_time (spec.md §4.7's Running state), then
// finalizes the muxer and emits one final progress callback. Packets whose
// timestamp falls before start_time are read and skipped (not written),
// matching the documented "skip but continue" rule for a demuxer whose
// Seek lands on or before the requested time.
func (c *Conversion) Run() error {
	if c.state != stateRunning {
		return audiox.ErrMuxerState("Run called before Initialize or after Finalize")
	}
	c.startedAt = time.Now()

	for {
		pkt, err := c.demux.ReadPacket(c.demuxTrackID)
		if err != nil {
			return err
		}
		if pkt == nil {
			break
		}
		if c.opts.EndTime > 0 && pkt.Timestamp > c.opts.EndTime {
			break
		}
		c.inputBytes += int64(len(pkt.Data))
		if pkt.Timestamp < c.opts.StartTime {
			continue
		}
		pkt.TrackID = c.trackID
		if err := c.mux.WritePacket(*pkt); err != nil {
			return err
		}
		c.outputBytes += int64(len(pkt.Data))
		c.reportProgress(pkt.Timestamp)
	}

	if err := c.mux.Finalize(); err != nil {
		return err
	}
	c.state = stateFinalized
	c.reportProgress(c.effectiveEnd)
	return nil
}

func (c *Conversion) reportProgress(currentTime float64) {
	if c.opts.OnProgress == nil {
		return
	}
	pct := 100.0
	if c.totalTime > 0 {
		pct = (currentTime - c.opts.StartTime) / c.totalTime * 100
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
	}
	elapsed := time.Since(c.startedAt).Seconds()
	speed := 0.0
	if elapsed > 0 {
		speed = float64(c.outputBytes) / elapsed
	}
	c.opts.OnProgress(audiox.ProgressInfo{
		Percentage:  pct,
		CurrentTime: currentTime,
		TotalTime:   c.totalTime,
		InputBytes:  c.inputBytes,
		OutputBytes: c.outputBytes,
		SpeedBPS:    speed,
	})
}
