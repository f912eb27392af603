package audiox

import (
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// SourceKind discriminates the tagged-variant Source (spec.md §3).
type SourceKind uint8

const (
	// SourceBuffer wraps an in-memory byte slice. Random access.
	SourceBuffer SourceKind = iota
	// SourceFile wraps a local file path, opened lazily. Random access.
	SourceFile
	// SourceURL wraps a remote HTTP(S) URL, fetched in ranges. Random
	// access when the server honors Range requests.
	SourceURL
	// SourceStream wraps a lazy, read-once byte sequence. Never seekable.
	SourceStream
)

// Source is an abstract byte endpoint a Reader can be opened against.
// Buffer/File/Url sources guarantee random access; Stream is read-once and
// rejects Seek with ErrNonSeekable.
type Source struct {
	kind    SourceKind
	buf     []byte
	path    string
	url     string
	headers map[string]string
	stream  io.Reader
}

// NewBufferSource wraps an in-memory byte slice as a Source.
func NewBufferSource(data []byte) Source {
	return Source{kind: SourceBuffer, buf: data}
}

// NewFileSource wraps a local file path as a Source. The file is not opened
// until the first Reader operation.
func NewFileSource(path string) Source {
	return Source{kind: SourceFile, path: path}
}

// NewURLSource wraps a remote URL as a Source. Extra request headers (e.g.
// authorization) are sent with every Range request.
func NewURLSource(url string, headers map[string]string) Source {
	return Source{kind: SourceURL, url: url, headers: headers}
}

// NewStreamSource wraps a read-once byte sequence as a Source. Any attempt
// to seek or to read non-sequentially fails with ErrNonSeekable.
func NewStreamSource(r io.Reader) Source {
	return Source{kind: SourceStream, stream: r}
}

// Kind reports which Source variant this is.
func (s Source) Kind() SourceKind { return s.kind }

// Seekable reports whether Reader operations against this Source support
// random access.
func (s Source) Seekable() bool { return s.kind != SourceStream }

// NewSource resolves a plain address string into a Source: a string
// beginning with "http://" or "https://" becomes a URL source, otherwise a
// file-path source (spec.md §6).
func NewSource(address string) Source {
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return NewURLSource(address, nil)
	}
	return NewFileSource(address)
}

// backend is the lazily-initialized random-access byte provider behind a
// Buffer/File/Url Source.
type backend interface {
	// size returns the total byte length, or -1 if unknown (some URL
	// sources without a usable Content-Length).
	size() int64
	// readAt reads up to len(p) bytes starting at offset off. Mirrors
	// io.ReaderAt semantics: returns as many bytes as are available, with
	// io.EOF only once no further bytes remain.
	readAt(p []byte, off int64) (int, error)
	// close releases any held resource (e.g. a file handle).
	close() error
}

type bufferBackend struct{ data []byte }

func (b *bufferBackend) size() int64 { return int64(len(b.data)) }

func (b *bufferBackend) readAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *bufferBackend) close() error { return nil }

type fileBackend struct {
	path string
	f    *os.File
	sz   int64
}

func (b *fileBackend) open() error {
	if b.f != nil {
		return nil
	}
	f, err := os.Open(b.path)
	if err != nil {
		return err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	b.f = f
	b.sz = fi.Size()
	return nil
}

func (b *fileBackend) size() int64 {
	if err := b.open(); err != nil {
		return -1
	}
	return b.sz
}

func (b *fileBackend) readAt(p []byte, off int64) (int, error) {
	if err := b.open(); err != nil {
		return 0, err
	}
	return b.f.ReadAt(p, off)
}

func (b *fileBackend) close() error {
	if b.f == nil {
		return nil
	}
	return b.f.Close()
}

// urlBackend fetches byte ranges over HTTP. The size is learned via a HEAD
// request's Content-Length when possible, else it reports -1 (unknown).
type urlBackend struct {
	url     string
	headers map[string]string
	client  *http.Client
	sz      int64
	szKnown bool
}

func (b *urlBackend) httpClient() *http.Client {
	if b.client == nil {
		b.client = http.DefaultClient
	}
	return b.client
}

func (b *urlBackend) probeSize() {
	if b.szKnown {
		return
	}
	b.szKnown = true
	b.sz = -1
	req, err := http.NewRequest(http.MethodHead, b.url, nil)
	if err != nil {
		return
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	resp, err := b.httpClient().Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.ContentLength > 0 {
		b.sz = resp.ContentLength
	}
}

func (b *urlBackend) size() int64 {
	b.probeSize()
	return b.sz
}

func (b *urlBackend) readAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	req, err := http.NewRequest(http.MethodGet, b.url, nil)
	if err != nil {
		return 0, err
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	end := off + int64(len(p)) - 1
	req.Header.Set("Range", rangeHeader(off, end))
	resp, err := b.httpClient().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := io.ReadFull(resp.Body, p)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return n, io.EOF
	}
	return n, err
}

func (b *urlBackend) close() error { return nil }

func rangeHeader(start, end int64) string {
	return "bytes=" + strconv.FormatInt(start, 10) + "-" + strconv.FormatInt(end, 10)
}

// newBackend constructs the concrete backend for Buffer/File/Url sources.
// Stream sources have no backend: they are read directly and sequentially.
func newBackend(s Source) backend {
	switch s.kind {
	case SourceBuffer:
		return &bufferBackend{data: s.buf}
	case SourceFile:
		return &fileBackend{path: s.path}
	case SourceURL:
		return &urlBackend{url: s.url, headers: s.headers}
	default:
		return nil
	}
}
