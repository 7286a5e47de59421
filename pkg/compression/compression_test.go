package compression

import (
	"bytes"
	"testing"
)

func TestZstdRoundTrip(t *testing.T) {
	c, err := NewZstdCompressor(LevelDefault)
	if err != nil {
		t.Fatalf("NewZstdCompressor: %v", err)
	}
	defer c.Close()

	original := []byte("{a{b}{c}}{a{b}{d}}{x{y}{z}} a small corpus of bracket trees")
	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	restored, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(original, restored) {
		t.Errorf("round trip mismatch: got %q", restored)
	}
	if c.Name() != "zstd" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestZstdLevels(t *testing.T) {
	for _, level := range []Level{LevelFastest, LevelDefault, LevelBest} {
		c, err := NewZstdCompressor(level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		data := bytes.Repeat([]byte("{node{child}}"), 100)
		compressed, err := c.Compress(data)
		if err != nil {
			t.Fatalf("level %d Compress: %v", level, err)
		}
		if len(compressed) >= len(data) {
			t.Errorf("level %d: repetitive input did not shrink (%d -> %d)", level, len(data), len(compressed))
		}
		c.Close()
	}
}

func TestNoOpPassesThrough(t *testing.T) {
	c := NewNoOpCompressor()
	data := []byte("unchanged")
	out, err := c.Compress(data)
	if err != nil || !bytes.Equal(out, data) {
		t.Errorf("Compress changed data: %q %v", out, err)
	}
	out, err = c.Decompress(data)
	if err != nil || !bytes.Equal(out, data) {
		t.Errorf("Decompress changed data: %q %v", out, err)
	}
}

func TestDefaultIsUsable(t *testing.T) {
	c := Default()
	defer Close(c)

	data := []byte("{q}")
	compressed, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	restored, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(data, restored) {
		t.Errorf("round trip mismatch: %q", restored)
	}
}
