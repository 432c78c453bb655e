package binpatch

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// deflateCompress encodes data as a zlib stream (RFC 1950: a 2-byte header
// and a trailing Adler-32, wrapping the deflate bitstream), at the best
// compression level. This is selector 1 in the compression gate.
func deflateCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deflateDecompress reverses deflateCompress.
func deflateDecompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
