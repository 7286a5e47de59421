// Package compression wraps zstd behind the small Compressor interface
// the storage layer consumes: corpora and join-result blobs are
// compressed before an upload or a local write and transparently
// decompressed on the way back.
package compression

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Level selects the speed/ratio trade-off.
type Level int

const (
	// LevelFastest prioritizes speed over ratio.
	LevelFastest Level = 1
	// LevelDefault balances speed and ratio.
	LevelDefault Level = 3
	// LevelBest prioritizes ratio over speed.
	LevelBest Level = 9
)

// Compressor compresses and decompresses byte blobs.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// ZstdCompressor implements Compressor using zstd. The encoder and
// decoder are reusable and safe for concurrent use.
type ZstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdCompressor creates a zstd compressor at the given level.
func NewZstdCompressor(level Level) (*ZstdCompressor, error) {
	zstdLevel := zstd.SpeedDefault
	switch level {
	case LevelFastest:
		zstdLevel = zstd.SpeedFastest
	case LevelBest:
		zstdLevel = zstd.SpeedBestCompression
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstdLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompressor{encoder: encoder, decoder: decoder}, nil
}

// Compress compresses data using zstd.
func (c *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress decompresses zstd data.
func (c *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	return c.decoder.DecodeAll(data, nil)
}

// Name returns "zstd".
func (c *ZstdCompressor) Name() string { return "zstd" }

// Close releases the encoder/decoder resources.
func (c *ZstdCompressor) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}

// NoOpCompressor passes data through unchanged, for backends or tests
// that want the raw bytes.
type NoOpCompressor struct{}

// NewNoOpCompressor creates a pass-through compressor.
func NewNoOpCompressor() *NoOpCompressor { return &NoOpCompressor{} }

// Compress returns the data unchanged.
func (c *NoOpCompressor) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns the data unchanged.
func (c *NoOpCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name returns "none".
func (c *NoOpCompressor) Name() string { return "none" }

// Default returns the compressor the storage layer uses when nothing
// else is configured: zstd at the default level, pass-through if zstd
// initialization fails.
func Default() Compressor {
	comp, err := NewZstdCompressor(LevelDefault)
	if err != nil {
		return NewNoOpCompressor()
	}
	return comp
}

// Closeable is the optional interface for compressors holding
// resources.
type Closeable interface {
	Close()
}

// Close closes a compressor if it implements Closeable.
func Close(c Compressor) {
	if closer, ok := c.(Closeable); ok {
		closer.Close()
	}
}
