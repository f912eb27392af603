package audiox

import "sync"

// Muxer turns a track config plus encoded packets into a container byte
// stream (spec.md §4.5). A Muxer must have its single audio track added
// before any packet is written, and rejects further writes after Finalize.
type Muxer interface {
	// AddTrack configures the muxer's single output track. Must be called
	// exactly once, before WritePacket.
	AddTrack(cfg AudioTrackConfig) (trackID int, err error)
	// SetMetadata attaches a metadata record to be emitted with the
	// container header/trailer, as the format supports.
	SetMetadata(meta AudioMetadata)
	// WritePacket appends a packet to the named track.
	WritePacket(pkt EncodedPacket) error
	// Finalize completes the container (trailing structures, patched
	// headers, etc) by writing the remaining bytes to the underlying
	// Writer; it does not close the Writer. Calling it twice is an error.
	Finalize() error
	// Close releases the Muxer's Writer. Idempotent.
	Close() error
}

// BaseMuxer centralizes the state every Muxer implementation in this
// module shares: the output Writer, the single track slot, metadata, and
// the header-written/finalized flags behind a FIFO mutex (spec.md §5). A
// format-specific Muxer holds a *BaseMuxer and delegates the shared state
// to it, implementing the format-specific parts itself (WritePacket's
// payload framing, Finalize's trailer).
//
// The mutex serializes WritePacket and Finalize exactly as spec.md §5
// describes: at most one writer critical section executes at a time,
// queued callers suspend FIFO (Go's sync.Mutex is itself approximately
// FIFO under contention, which is sufficient fidelity for a single-process
// library).
type BaseMuxer struct {
	mu sync.Mutex

	w        *Writer
	track    *AudioTrackConfig
	trackID  int
	meta     AudioMetadata
	headerWritten bool
	finalized     bool
}

// NewBaseMuxer wraps w for embedding in a format-specific Muxer.
func NewBaseMuxer(w *Writer) *BaseMuxer {
	return &BaseMuxer{w: w}
}

// Lock acquires the muxer's critical-section mutex. Format-specific
// WritePacket/Finalize implementations call Lock/Unlock around their body.
func (b *BaseMuxer) Lock() { b.mu.Lock() }

// Unlock releases the muxer's critical-section mutex.
func (b *BaseMuxer) Unlock() { b.mu.Unlock() }

// SetTrack records the single output track configuration and assigns it
// id 1 (muxer-assigned ids start at 1 and are monotonic; since only one
// track is ever added, it is always 1).
func (b *BaseMuxer) SetTrack(cfg AudioTrackConfig) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := cfg
	b.track = &t
	b.trackID = 1
	return b.trackID
}

// HasTrack reports whether AddTrack has been called.
func (b *BaseMuxer) HasTrack() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.track != nil
}

// TrackID returns the assigned track id, or 0 if no track has been added.
func (b *BaseMuxer) TrackID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trackID
}

// SetMetadata stores meta for later emission.
func (b *BaseMuxer) SetMetadata(meta AudioMetadata) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meta = meta
}

// Metadata returns the stored metadata.
func (b *BaseMuxer) Metadata() AudioMetadata {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meta
}

// CheckWritable validates the muxer/track/finalized invariants shared by
// every format (spec.md §3): a track must exist before any packet is
// written, and no write is accepted after Finalize. Callers must hold the
// mutex (via Lock) before calling this.
func (b *BaseMuxer) CheckWritable(trackID int) error {
	if b.finalized {
		return ErrMuxerState("write after finalize")
	}
	if b.track == nil {
		return ErrMuxerState("no track has been added")
	}
	if trackID != b.trackID {
		return ErrUnknownTrack(trackID)
	}
	return nil
}

// MarkHeaderWritten reports whether the header has already been written,
// and marks it written as a side effect — implementing the
// "first packet triggers write_header exactly once" rule (spec.md §5).
// Callers must hold the mutex.
func (b *BaseMuxer) MarkHeaderWritten() (alreadyWritten bool) {
	alreadyWritten = b.headerWritten
	b.headerWritten = true
	return alreadyWritten
}

// MarkFinalized returns an error if Finalize was already called, else
// marks the muxer finalized. Callers must hold the mutex.
func (b *BaseMuxer) MarkFinalized() error {
	if b.finalized {
		return ErrMuxerState("finalize called twice")
	}
	b.finalized = true
	return nil
}

// Writer returns the underlying Writer.
func (b *BaseMuxer) Writer() *Writer { return b.w }

// Close closes the underlying Writer, discarding any Buffer bytes it
// returns (a caller reads a Buffer target's bytes with Writer.Bytes
// before calling Close).
func (b *BaseMuxer) Close() error {
	_, err := b.w.Close()
	return err
}
