// Package payload handles message payload preparation for the pipeline,
// currently LZ4 compression applied before padding and encryption.
package payload

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var (
	ErrCompressionFailed   = errors.New("payload: compression failed")
	ErrDecompressionFailed = errors.New("payload: decompression failed")
)

// Level controls the speed/ratio tradeoff.
type Level int

const (
	LevelFast    Level = iota // Fastest, lower ratio
	LevelDefault              // Balanced
	LevelBest                 // Best ratio, slower
)

// ParseLevel maps a config string to a Level. Unknown values fall back to
// the default level.
func ParseLevel(s string) Level {
	switch s {
	case "fast":
		return LevelFast
	case "best":
		return LevelBest
	default:
		return LevelDefault
	}
}

// compressorPool reuses LZ4 writers to reduce allocations.
var compressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewWriter(nil)
	},
}

// decompressorPool reuses LZ4 readers.
var decompressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewReader(nil)
	},
}

// Compress compresses a message payload using LZ4. The frame format is
// self-describing, so Decompress needs no metadata beyond the bytes.
func Compress(data []byte, level Level) ([]byte, error) {
	var buf bytes.Buffer
	w := compressorPool.Get().(*lz4.Writer)
	defer compressorPool.Put(w)

	w.Reset(&buf)

	switch level {
	case LevelFast:
		_ = w.Apply(lz4.CompressionLevelOption(lz4.Fast))
	case LevelBest:
		_ = w.Apply(lz4.CompressionLevelOption(lz4.Level9))
	default:
		_ = w.Apply(lz4.CompressionLevelOption(lz4.Level4))
	}

	if _, err := w.Write(data); err != nil {
		return nil, ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompressionFailed
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	r := decompressorPool.Get().(*lz4.Reader)
	defer decompressorPool.Put(r)

	r.Reset(bytes.NewReader(data))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, ErrDecompressionFailed
	}
	return buf.Bytes(), nil
}
