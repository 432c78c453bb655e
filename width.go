package binpatch

// MinBytes returns the number of bytes needed to hold n in a little-endian,
// unsigned, variable-width field. It always returns at least 1: a zero value
// still occupies one byte on the wire, matching the byte-counting loop this
// format was originally specified against (a do-while that runs its body
// once regardless of the input).
func MinBytes(n uint64) int {
	r := 0
	for {
		n >>= 8
		r++
		if n == 0 {
			break
		}
	}
	return r
}

// putUint appends v to dst as width bytes, least-significant byte first.
// Bytes beyond what v needs are zero. Callers are responsible for ensuring
// width is large enough to hold v (via MinBytes) when round-tripping matters;
// putUint itself will silently truncate high-order bytes that don't fit.
func putUint(dst []byte, v uint64, width int) []byte {
	for i := 0; i < width; i++ {
		dst = append(dst, byte(v))
		v >>= 8
	}
	return dst
}

// widthForFlagged returns the field width, in bytes, needed to hold maxVal
// in a little-endian field whose single highest bit is reserved for a flag
// (not available for the value). If the minimal width for maxVal alone would
// leave no room for that flag bit, the width is bumped by one byte.
func widthForFlagged(maxVal uint64) int {
	w := MinBytes(maxVal)
	if maxVal >= uint64(1)<<uint(w*8-1) {
		w++
	}
	return w
}

// getUint reads width bytes from b, least-significant byte first, zero-extending
// if b holds fewer than width bytes. The caller can detect truncation by checking
// len(b) against width directly; getUint itself never errors.
func getUint(b []byte, width int) uint64 {
	var v uint64
	n := width
	if len(b) < n {
		n = len(b)
	}
	for i := n - 1; i >= 0; i-- {
		v <<= 8
		v |= uint64(b[i])
	}
	return v
}
