package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatestAudio(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "take1.wav")
	newer := filepath.Join(dir, "take2.MP3")
	for _, p := range []string{old, newer, filepath.Join(dir, "script.txt")} {
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestAudio(dir)
	if err != nil {
		t.Fatalf("FindLatestAudio() error = %v", err)
	}
	if got != newer {
		t.Errorf("FindLatestAudio() = %s, want %s", got, newer)
	}

	if _, err := FindLatestAudio(t.TempDir()); err == nil {
		t.Error("expected error for a directory without audio")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.480000\n", 12.48, false},
		{"  3\n", 3, false},
		{"N/A\n", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHost(t *testing.T) {
	s := Host()
	if s.LogicalCPUs < 1 {
		t.Errorf("LogicalCPUs = %d", s.LogicalCPUs)
	}
	t.Logf("host: %s", s)
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("frame")
	PutBuffer(buf)
	if got := GetBuffer(); got.Len() != 0 {
		t.Errorf("pooled buffer not reset: %q", got.String())
	}
	PutBuffer(nil)
}
