package audiox

import "io"

// TargetKind discriminates the tagged-variant Target (spec.md §3).
type TargetKind uint8

const (
	// TargetBuffer accumulates written bytes in memory; Close returns them.
	TargetBuffer TargetKind = iota
	// TargetFile writes to a local file path, created/truncated on first
	// write.
	TargetFile
	// TargetStream writes straight through to a caller-provided
	// io.Writer as bytes arrive.
	TargetStream
)

// Target is an abstract byte endpoint a Writer can be opened against.
type Target struct {
	kind   TargetKind
	path   string
	stream io.Writer
}

// NewBufferTarget returns a Target that accumulates output in memory.
func NewBufferTarget() Target { return Target{kind: TargetBuffer} }

// NewFileTarget returns a Target that writes to a local file path.
func NewFileTarget(path string) Target { return Target{kind: TargetFile, path: path} }

// NewStreamTarget returns a Target that writes straight through to w.
func NewStreamTarget(w io.Writer) Target { return Target{kind: TargetStream, stream: w} }

// Kind reports which Target variant this is.
func (t Target) Kind() TargetKind { return t.kind }
