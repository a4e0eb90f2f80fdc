// Package compression holds the codecs used to store post bodies.
package compression

import (
	"fmt"

	"github.com/debemdeboas/postboard/internal/config"
)

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// New returns the compressor registered under name. An empty name means no compression.
func New(name string) (Compressor, error) {
	switch name {
	case config.CompressionZstd:
		return ZstdCompressor{}, nil
	case config.CompressionGzip:
		return GzipCompressor{}, nil
	case config.CompressionNone, "":
		return NoneCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}

type NoneCompressor struct{}

func (NoneCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (NoneCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}
