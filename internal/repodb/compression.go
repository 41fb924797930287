package repodb

import (
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/Cyberx9901/arch-repo-management/internal/defaults"
)

const (
	unsupportedReadCompressionTemplateConstant  = "reading %s compressed databases is not supported"
	unsupportedWriteCompressionTemplateConstant = "writing %s compressed databases is not supported"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

type zstdReadCloser struct {
	decoder *zstd.Decoder
}

func (closer zstdReadCloser) Read(buffer []byte) (int, error) {
	return closer.decoder.Read(buffer)
}

func (closer zstdReadCloser) Close() error {
	closer.decoder.Close()
	return nil
}

func newDecompressor(reader io.Reader, compression defaults.Compression) (io.ReadCloser, error) {
	switch compression {
	case defaults.CompressionGzip:
		return gzip.NewReader(reader)
	case defaults.CompressionBzip2:
		return io.NopCloser(bzip2.NewReader(reader)), nil
	case defaults.CompressionXz:
		xzReader, xzError := xz.NewReader(reader)
		if xzError != nil {
			return nil, xzError
		}
		return io.NopCloser(xzReader), nil
	case defaults.CompressionZstd:
		decoder, decoderError := zstd.NewReader(reader)
		if decoderError != nil {
			return nil, decoderError
		}
		return zstdReadCloser{decoder: decoder}, nil
	case defaults.CompressionNone:
		return io.NopCloser(reader), nil
	default:
		return nil, fmt.Errorf(unsupportedReadCompressionTemplateConstant, compression)
	}
}

func newCompressor(writer io.Writer, compression defaults.Compression) (io.WriteCloser, error) {
	switch compression {
	case defaults.CompressionGzip:
		return gzip.NewWriter(writer), nil
	case defaults.CompressionXz:
		return xz.NewWriter(writer)
	case defaults.CompressionZstd:
		return zstd.NewWriter(writer)
	case defaults.CompressionNone:
		return nopWriteCloser{Writer: writer}, nil
	default:
		return nil, fmt.Errorf(unsupportedWriteCompressionTemplateConstant, compression)
	}
}
