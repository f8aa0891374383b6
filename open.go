package thrdata

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type Compression byte

const (
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

// Lab exports arrive in whatever the instrument software produced, so we sniff
// magic bytes rather than trusting file extensions. Signatures from
// https://stackoverflow.com/a/19127748/199475
var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// DetectCompression reads up to 6 bytes from r and matches them against known
// compressed-stream signatures. The consumed bytes are not replaced; callers
// holding a seekable stream should rewind afterward.
func DetectCompression(r io.Reader) (Compression, error) {
	buff := make([]byte, 6)
	if _, err := r.Read(buff); err != nil {
		return CompressionInvalid, err
	}

Outer:
	for c, sig := range compressionSigs {
		for i := range sig {
			if buff[i] != sig[i] {
				continue Outer
			}
		}
		return c, nil
	}

	return CompressionNone, nil
}

// OpenTable opens path, transparently decompressing gzip, zip, xz, zlib, or
// bzip2 content. Closing the returned ReadCloser closes the underlying file.
func OpenTable(path string) (io.ReadCloser, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, err
	}

	c, err := DetectCompression(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	switch c {
	case CompressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &wrappedFile{gz, f}, nil
	case CompressionZip:
		return &wrappedFile{zipstream.NewReader(f), f}, nil
	case CompressionBZip2:
		return &wrappedFile{bzip2.NewReader(f), f}, nil
	case CompressionXZ:
		reader, err := xz.NewReader(f, 0)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &wrappedFile{reader, f}, nil
	case CompressionZ:
		z, err := zlib.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &wrappedFile{z, f}, nil
	}

	return f, nil
}

// wrappedFile reads from a decompressing reader but closes the file beneath it.
type wrappedFile struct {
	io.Reader
	f *os.File
}

func (w *wrappedFile) Close() error {
	return w.f.Close()
}
