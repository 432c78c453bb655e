package binpatch

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// lzmaHeaderSize is the size of the classic ".lzma" container header that
// github.com/ulikunitz/xz/lzma's Writer/Reader speak: 1 properties byte,
// a 4-byte little-endian dictionary size, and an 8-byte little-endian
// uncompressed size.
const lzmaHeaderSize = 13

// lzmaCompress encodes data as raw LZMA1, returning the compressed body
// separately from its 5-byte properties block (1 properties byte + 4-byte
// dictionary size). The package only exposes the classic .lzma container,
// which bundles those 5 bytes with an 8-byte size field we don't need on
// the wire since the directory/file patch formats carry lengths themselves;
// we encode with the full container and slice the header apart so the
// properties can be stored as their own field, as the format requires.
func lzmaCompress(data []byte) ([]byte, [5]byte, error) {
	var props [5]byte
	var buf bytes.Buffer

	cfg := lzma.WriterConfig{Size: int64(len(data))}
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, props, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, props, err
	}
	if err := w.Close(); err != nil {
		return nil, props, err
	}

	full := buf.Bytes()
	if len(full) < lzmaHeaderSize {
		return nil, props, ErrTruncated
	}
	copy(props[:], full[:5])
	return full[lzmaHeaderSize:], props, nil
}

// lzmaDecompress reverses lzmaCompress: it reconstructs the classic .lzma
// header from the separately-carried properties and the known uncompressed
// length, then decodes normally.
func lzmaDecompress(data []byte, props [5]byte, rawLen int64) ([]byte, error) {
	header := make([]byte, lzmaHeaderSize)
	copy(header[:5], props[:])
	binary.LittleEndian.PutUint64(header[5:13], uint64(rawLen))

	r, err := lzma.NewReader(bytes.NewReader(append(header, data...)))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
