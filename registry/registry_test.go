package registry_test

import (
	"testing"

	"github.com/mewkiz/audiox"
	"github.com/mewkiz/audiox/flac"
	"github.com/mewkiz/audiox/registry"
)

func TestDetectFLAC(t *testing.T) {
	w := audiox.NewWriter(audiox.NewBufferTarget())
	if err := w.String(flac.Magic); err != nil {
		t.Fatal(err)
	}
	out, err := w.Close()
	if err != nil {
		t.Fatal(err)
	}

	reg := registry.New()
	r := audiox.NewReader(audiox.NewBufferSource(out))
	f, err := reg.Detect(r)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if f == nil {
		t.Fatal("expected a detected format")
	}
	if f.Name() != "flac" {
		t.Errorf("Name() = %q, want flac", f.Name())
	}
	if r.Position() != 0 {
		t.Errorf("cursor left at %d after Detect, want 0", r.Position())
	}
}

func TestDetectEmptySourceReturnsNoFormat(t *testing.T) {
	reg := registry.New()
	r := audiox.NewReader(audiox.NewBufferSource(nil))
	f, err := reg.Detect(r)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if f != nil {
		t.Errorf("expected no format for an empty source, got %q", f.Name())
	}
}

func TestByNameAndExtension(t *testing.T) {
	reg := registry.New()
	if _, ok := reg.ByName("flac"); !ok {
		t.Error("ByName(flac) not found")
	}
	if _, ok := reg.ByExtension(".flac"); !ok {
		t.Error("ByExtension(.flac) not found")
	}
	if _, ok := reg.ByExtension("FLAC"); !ok {
		t.Error("ByExtension(FLAC) should be case-insensitive")
	}
	if _, ok := reg.ByName("nope"); ok {
		t.Error("ByName(nope) should not be found")
	}
	if _, ok := reg.OutputByName("wav"); !ok {
		t.Error("OutputByName(wav) not found")
	}
	if _, ok := reg.OutputByName("nope"); ok {
		t.Error("OutputByName(nope) should not be found")
	}
}

func TestDescribeListsAllFormats(t *testing.T) {
	reg := registry.New()
	infos := reg.Describe()
	if len(infos) != 5 {
		t.Fatalf("Describe() returned %d formats, want 5", len(infos))
	}
	want := map[string]bool{"mp3": true, "wav": true, "flac": true, "aac": true, "ogg": true}
	for _, info := range infos {
		if !want[info.Name] {
			t.Errorf("unexpected format %q", info.Name)
		}
		delete(want, info.Name)
	}
	if len(want) != 0 {
		t.Errorf("missing formats: %v", want)
	}
}
