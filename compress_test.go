package binpatch

import (
	"bytes"
	"testing"
)

func TestSelectorString(t *testing.T) {
	cases := map[Selector]string{
		SelStore:     "store",
		SelDeflate:   "deflate",
		SelLZMA:      "lzma",
		Selector(99): "Selector(99)",
	}
	for sel, want := range cases {
		if got := sel.String(); got != want {
			t.Errorf("Selector(%d).String() = %q, want %q", sel, got, want)
		}
	}
}

func TestCompressBestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		bytes.Repeat([]byte("compressible repeating text "), 200),
		[]byte("short and not very compressible !@#$"),
	}
	for _, in := range inputs {
		b, err := compressBest(in)
		if err != nil {
			t.Fatalf("compressBest error: %s", err)
		}
		out, err := decompressBlob(b)
		if err != nil {
			t.Fatalf("decompressBlob error for selector %s: %s", b.Selector, err)
		}
		if !bytes.Equal(out, in) {
			t.Errorf("round trip under selector %s: got %d bytes, want %d", b.Selector, len(out), len(in))
		}
	}
}

func TestCompressBestPicksSmallest(t *testing.T) {
	// Highly repetitive data should never be stored uncompressed.
	data := bytes.Repeat([]byte("0123456789"), 500)
	b, err := compressBest(data)
	if err != nil {
		t.Fatalf("compressBest error: %s", err)
	}
	if b.Selector == SelStore {
		t.Error("compressBest chose store for highly repetitive data")
	}
	if len(b.Data) >= len(data) {
		t.Errorf("compressed size %d not smaller than input %d", len(b.Data), len(data))
	}
}
