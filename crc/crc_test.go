package crc_test

import (
	"hash/crc32"
	"testing"

	"github.com/mewkiz/audiox/crc"
)

func TestCRC8FLAC(t *testing.T) {
	// CRC-8 over an empty message is always 0 regardless of polynomial.
	if got := crc.CRC8FLAC(nil); got != 0 {
		t.Errorf("CRC8FLAC(nil) = %d, want 0", got)
	}
	a := crc.CRC8FLAC([]byte("123456789"))
	b := crc.CRC8FLAC([]byte("123456789"))
	if a != b {
		t.Errorf("CRC8FLAC not deterministic: %d != %d", a, b)
	}
}

func TestCRC16Variants(t *testing.T) {
	data := []byte("audiox")
	if got := crc.CRC16MP3(nil); got != 0xFFFF {
		t.Errorf("CRC16MP3(nil) = %#x, want init value 0xFFFF", got)
	}
	if got := crc.CRC16FLAC(nil); got != 0 {
		t.Errorf("CRC16FLAC(nil) = %#x, want 0", got)
	}
	if crc.CRC16MP3(data) == crc.CRC16FLAC(data) {
		t.Errorf("CRC16MP3 and CRC16FLAC should differ on the same input (different init values)")
	}
}

func TestCRC32MatchesStandardLibrary(t *testing.T) {
	data := []byte("the quick brown fox")
	want := crc32.ChecksumIEEE(data)
	if got := crc.CRC32(data); got != want {
		t.Errorf("CRC32(%q) = %#x, want %#x", data, got, want)
	}
}

func TestCRC32EmptyIsZero(t *testing.T) {
	if got := crc.CRC32(nil); got != 0 {
		t.Errorf("CRC32(nil) = %#x, want 0", got)
	}
}

func TestCRC32ReferenceVector(t *testing.T) {
	const want = 0xCBF43926
	if got := crc.CRC32([]byte("123456789")); got != want {
		t.Errorf("CRC32(\"123456789\") = %#x, want %#x", got, want)
	}
}

func TestCRC16ReferenceVector(t *testing.T) {
	const want = 0xFEE8
	if got := crc.CRC16([]byte("123456789"), 0x8005, 0); got != want {
		t.Errorf("CRC16(0x8005, 0, \"123456789\") = %#x, want %#x", got, want)
	}
}

func TestCRC32OGGRoundTrip(t *testing.T) {
	// Checksum a tiny fake "page" whose checksum field is zeroed, then
	// confirm that an identically built page yields the same nonzero
	// value.
	page := make([]byte, 16)
	for i := range page {
		page[i] = byte(i)
	}
	page[4], page[5], page[6], page[7] = 0, 0, 0, 0 // checksum field zeroed

	sum := crc.CRC32OGG(page)
	if sum == 0 {
		t.Fatal("expected a nonzero checksum for nonzero input")
	}

	page2 := make([]byte, 16)
	for i := range page2 {
		page2[i] = byte(i)
	}
	page2[4], page2[5], page2[6], page2[7] = 0, 0, 0, 0
	if got := crc.CRC32OGG(page2); got != sum {
		t.Errorf("CRC32OGG not deterministic: %#x != %#x", got, sum)
	}
}
