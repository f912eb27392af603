package bitstream_test

import (
	"bytes"
	"testing"

	"github.com/mewkiz/audiox/bitstream"
)

func TestReadWriteBits(t *testing.T) {
	w := bitstream.NewWriter()
	if err := w.WriteBits(0x2F, 6); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(0x3, 2); err != nil {
		t.Fatal(err)
	}
	buf, err := w.GetBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 1 {
		t.Fatalf("GetBuffer() len = %d, want 1", len(buf))
	}

	r := bitstream.NewReader(bytes.NewReader(buf))
	v1, err := r.ReadBits(6)
	if err != nil {
		t.Fatal(err)
	}
	if v1 != 0x2F {
		t.Errorf("ReadBits(6) = %#x, want 0x2F", v1)
	}
	v2, err := r.ReadBits(2)
	if err != nil {
		t.Fatal(err)
	}
	if v2 != 0x3 {
		t.Errorf("ReadBits(2) = %#x, want 0x3", v2)
	}
}

func TestReadBitsBigWide(t *testing.T) {
	w := bitstream.NewWriter()
	const want uint64 = 0xFFFFFFFFF // 36 bits set
	if err := w.WriteBitsBig(want, 36); err != nil {
		t.Fatal(err)
	}
	buf, err := w.GetBuffer()
	if err != nil {
		t.Fatal(err)
	}
	r := bitstream.NewReader(bytes.NewReader(buf))
	got, err := r.ReadBitsBig(36)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("ReadBitsBig(36) = %#x, want %#x", got, want)
	}
}

func TestUnaryRoundTrip(t *testing.T) {
	for _, n := range []uint32{0, 1, 5, 31} {
		w := bitstream.NewWriter()
		if err := w.WriteUnary(n); err != nil {
			t.Fatal(err)
		}
		buf, err := w.GetBuffer()
		if err != nil {
			t.Fatal(err)
		}
		r := bitstream.NewReader(bytes.NewReader(buf))
		got, err := r.ReadUnary()
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got != n {
			t.Errorf("ReadUnary() = %d, want %d", got, n)
		}
	}
}

func TestExpGolombUnsignedRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 2, 3, 10, 255, 1000} {
		w := bitstream.NewWriter()
		if err := w.WriteExpGolombUnsigned(v); err != nil {
			t.Fatal(err)
		}
		buf, err := w.GetBuffer()
		if err != nil {
			t.Fatal(err)
		}
		r := bitstream.NewReader(bytes.NewReader(buf))
		got, err := r.ReadExpGolombUnsigned()
		if err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Errorf("ReadExpGolombUnsigned() = %d, want %d", got, v)
		}
	}
}

func TestExpGolombSignedRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2, -2, 100, -100} {
		w := bitstream.NewWriter()
		if err := w.WriteExpGolombSigned(v); err != nil {
			t.Fatal(err)
		}
		buf, err := w.GetBuffer()
		if err != nil {
			t.Fatal(err)
		}
		r := bitstream.NewReader(bytes.NewReader(buf))
		got, err := r.ReadExpGolombSigned()
		if err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Errorf("ReadExpGolombSigned() = %d, want %d", got, v)
		}
	}
}

func TestRiceRoundTrip(t *testing.T) {
	for _, k := range []uint8{0, 1, 4} {
		for _, v := range []int32{0, 1, -1, 7, -7} {
			w := bitstream.NewWriter()
			if err := w.WriteRice(v, k); err != nil {
				t.Fatal(err)
			}
			buf, err := w.GetBuffer()
			if err != nil {
				t.Fatal(err)
			}
			r := bitstream.NewReader(bytes.NewReader(buf))
			got, err := r.ReadRice(k)
			if err != nil {
				t.Fatalf("k=%d v=%d: %v", k, v, err)
			}
			if got != v {
				t.Errorf("k=%d: ReadRice() = %d, want %d", k, got, v)
			}
		}
	}
}

func TestZigZag(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2, -2, 1000, -1000} {
		if got := bitstream.ZigZagDecode(bitstream.ZigZagEncode(v)); got != v {
			t.Errorf("ZigZagDecode(ZigZagEncode(%d)) = %d", v, got)
		}
	}
}

func TestReadUnaryRejectsOverlongRun(t *testing.T) {
	// 40 zero bits with no terminating one, exceeding the 32-run cap.
	w := bitstream.NewWriter()
	for i := 0; i < 40; i++ {
		if err := w.WriteBit(0); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := w.GetBuffer()
	if err != nil {
		t.Fatal(err)
	}
	r := bitstream.NewReader(bytes.NewReader(buf))
	if _, err := r.ReadUnary(); err == nil {
		t.Fatal("expected an error for an overlong unary run")
	}
}
