package binpatch

import (
	"fmt"
	"log"
)

// Selector identifies which codec a stored blob was compressed with. It is
// a small closed set — exactly the three values the wire format's selector
// field can hold — not an extensible registry, since the container formats
// in spec.md fix its bit width at exactly what three values need.
type Selector uint8

const (
	SelStore   Selector = 0
	SelDeflate Selector = 1
	SelLZMA    Selector = 2
)

func (s Selector) String() string {
	switch s {
	case SelStore:
		return "store"
	case SelDeflate:
		return "deflate"
	case SelLZMA:
		return "lzma"
	default:
		return fmt.Sprintf("Selector(%d)", uint8(s))
	}
}

// blob is a compressed (or stored) payload together with the bookkeeping
// needed to decompress it again.
type blob struct {
	Selector   Selector
	Data       []byte
	Props      [5]byte // LZMA properties block; unused for other selectors
	RawLen     int     // uncompressed length; needed to decode LZMA and to size the stored-length field
}

// compressBest tries every codec and returns whichever produced the
// smallest output, store included. Ties are resolved in favor of the
// lower-numbered selector: store beats deflate beats LZMA at equal size.
// Both the whole-file-add path and the diff-replacement path route through
// this one function, so they apply the same tie-breaking rule uniformly.
func compressBest(data []byte) (blob, error) {
	best := blob{Selector: SelStore, Data: data, RawLen: len(data)}

	if z, err := deflateCompress(data); err == nil && len(z) < len(best.Data) {
		best = blob{Selector: SelDeflate, Data: z, RawLen: len(data)}
	}

	if l, props, err := lzmaCompress(data); err == nil && len(l) < len(best.Data) {
		best = blob{Selector: SelLZMA, Data: l, Props: props, RawLen: len(data)}
	}

	if best.Selector == SelStore && len(data) > 64 {
		log.Printf("binpatch: %d-byte blob did not shrink under deflate or lzma, storing uncompressed", len(data))
	}

	return best, nil
}

// decompressBlob reverses compressBest's choice.
func decompressBlob(b blob) ([]byte, error) {
	switch b.Selector {
	case SelStore:
		return b.Data, nil
	case SelDeflate:
		return deflateDecompress(b.Data)
	case SelLZMA:
		return lzmaDecompress(b.Data, b.Props, int64(b.RawLen))
	default:
		return nil, ErrUnknownSelector
	}
}
