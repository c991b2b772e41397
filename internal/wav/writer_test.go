package wav

import (
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/go-audio/wav"
)

func decode(t *testing.T, path string) *gowav.Decoder {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	t.Cleanup(func() { f.Close() })
	return gowav.NewDecoder(f)
}

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := Create(path, 16000, 1, 16)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	samples := []int16{0, 1, -1, 32767, -32767, 100, -200}
	for _, s := range samples {
		if err := w.WriteSample(s); err != nil {
			t.Fatalf("write sample: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	d := decode(t, path)
	if !d.IsValidFile() {
		t.Fatal("decoder rejected file")
	}
	if d.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", d.SampleRate)
	}
	if d.NumChans != 1 {
		t.Errorf("channels = %d, want 1", d.NumChans)
	}
	if d.BitDepth != 16 {
		t.Errorf("bit depth = %d, want 16", d.BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode pcm: %v", err)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}
	for i, want := range samples {
		if buf.Data[i] != int(want) {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], want)
		}
	}
}

func TestWriterBufferedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := Create(path, 16000, 1, 16)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	samples := []int16{5, -5, 10, -10}
	if err := w.WriteSamples(samples); err != nil {
		t.Fatalf("write samples: %v", err)
	}
	if err := w.WriteSamples(nil); err != nil {
		t.Fatalf("empty write should be a no-op, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	buf, err := decode(t, path).FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode pcm: %v", err)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}
	for i, want := range samples {
		if buf.Data[i] != int(want) {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], want)
		}
	}
}

func TestWriterEmptyFileIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	w, err := Create(path, 16000, 1, 16)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	d := decode(t, path)
	if !d.IsValidFile() {
		t.Fatal("empty recording should still be a valid wav file")
	}
}

func TestWriterCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := Create(path, 16000, 1, 16)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestWriterWriteAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := Create(path, 16000, 1, 16)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.WriteSample(42); err == nil {
		t.Error("expected write after close to fail")
	}
}

func TestCreateBadPathFails(t *testing.T) {
	if _, err := Create(filepath.Join(t.TempDir(), "missing", "out.wav"), 16000, 1, 16); err == nil {
		t.Error("expected create in missing directory to fail")
	}
}
