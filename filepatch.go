package binpatch

import "bytes"

var fileMagic = [4]byte{'X', 'X', 'X', 0x00}
var dirMagic = [4]byte{'X', 'X', 'X', 0x80}

// EncodeFilePatch serializes instrs into the file-patch container format
// described in spec.md §4.E. originalLen is the length of the original file
// the instructions were computed against; it determines the width used for
// og_offset fields, which is not itself stored on the wire. originalCRC is
// the CRC-32 (IEEE) of that original and is always written, even when
// standalone is false: only the 4-byte magic is dropped for file patches
// embedded in a directory patch's blob pool, not the checksum.
//
// Each instruction's descriptor is written immediately followed by its blob
// frame, if it carries a replacement: sequential reading alternates
// descriptor, blob, descriptor, blob, … with a descriptor's own flag bit
// telling the reader whether a blob follows before it needs to parse one.
func EncodeFilePatch(instrs []*Instruction, originalLen int64, originalCRC uint32, standalone bool) []byte {
	wPos := MinBytes(uint64(originalLen))

	var maxOgLen, maxBlob uint64
	blobs := make([]blob, len(instrs))
	for i, instr := range instrs {
		if uint64(instr.OgLength) > maxOgLen {
			maxOgLen = uint64(instr.OgLength)
		}
		if instr.isDeletion() {
			continue
		}
		b, _ := compressBest(instr.Replacement)
		blobs[i] = b
		if uint64(b.RawLen) > maxBlob {
			maxBlob = uint64(b.RawLen)
		}
		if uint64(len(b.Data)) > maxBlob {
			maxBlob = uint64(len(b.Data))
		}
	}

	wLen := widthForFlagged(maxOgLen)
	wBlob := MinBytes(maxBlob)
	replFlag := uint64(1) << uint(wLen*8-1)

	var out []byte
	if standalone {
		out = append(out, fileMagic[:]...)
	}
	out = putUint(out, uint64(originalCRC), 4)
	out = append(out, byte(wBlob<<4)|byte(wLen))
	out = putUint(out, uint64(len(instrs)), 2)

	for i, instr := range instrs {
		out = putUint(out, uint64(instr.OgOffset), wPos)
		lengthField := uint64(instr.OgLength)
		if !instr.isDeletion() {
			lengthField |= replFlag
		}
		out = putUint(out, lengthField, wLen)

		if !instr.isDeletion() {
			out = appendBlobFrame(out, blobs[i], wBlob)
		}
	}

	return out
}

func appendBlobFrame(out []byte, b blob, wBlob int) []byte {
	out = append(out, byte(b.Selector))
	if b.Selector != SelStore {
		out = putUint(out, uint64(b.RawLen), wBlob)
	}
	out = putUint(out, uint64(len(b.Data)), wBlob)
	out = append(out, b.Data...)
	if b.Selector == SelLZMA {
		out = append(out, b.Props[:]...)
	}
	return out
}

func readBlobFrame(c *cursor, wBlob int) (blob, error) {
	selBytes := c.readN(1)
	if len(selBytes) < 1 {
		return blob{}, ErrTruncated
	}
	b := blob{Selector: Selector(selBytes[0])}
	if b.Selector > SelLZMA {
		return blob{}, ErrUnknownSelector
	}
	if b.Selector != SelStore {
		b.RawLen = int(c.readUint(wBlob))
	}
	compLen := int(c.readUint(wBlob))
	b.Data = c.readN(compLen)
	if len(b.Data) < compLen {
		return blob{}, ErrTruncated
	}
	if b.Selector == SelStore {
		b.RawLen = len(b.Data)
	}
	if b.Selector == SelLZMA {
		props := c.readN(5)
		if len(props) < 5 {
			return blob{}, ErrTruncated
		}
		copy(b.Props[:], props)
	}
	return b, nil
}

// DecodeFilePatch parses a file-patch container produced by EncodeFilePatch.
// originalLen must be the true length of the original data the patch is
// being applied against; when standalone is true the returned crc must be
// checked against crc32.ChecksumIEEE(original) before trusting anything
// derived from originalLen, since og_offset's width depends on it. When
// standalone is false (an embedded diff frame inside a directory patch),
// the CRC is still present on the wire and still returned, just without a
// leading magic to verify first.
func DecodeFilePatch(data []byte, originalLen int64, standalone bool) (instrs []*Instruction, crc uint32, err error) {
	c := newCursor(data)

	if standalone {
		magic := c.readN(4)
		if len(magic) < 4 || !bytes.Equal(magic, fileMagic[:]) {
			return nil, 0, ErrBadMagic
		}
	}

	crcBytes := c.readN(4)
	if len(crcBytes) < 4 {
		return nil, 0, ErrTruncated
	}
	crc = uint32(getUint(crcBytes, 4))

	widthByte := c.readN(1)
	if len(widthByte) < 1 {
		return nil, crc, ErrTruncated
	}
	wBlob := int(widthByte[0] >> 4)
	wLen := int(widthByte[0] & 0xF)

	countBytes := c.readN(2)
	if len(countBytes) < 2 {
		return nil, crc, ErrTruncated
	}
	count := int(getUint(countBytes, 2))

	wPos := MinBytes(uint64(originalLen))
	replFlag := uint64(1) << uint(wLen*8-1)

	instrs = make([]*Instruction, 0, count)
	for i := 0; i < count; i++ {
		posBytes := c.readN(wPos)
		lenBytes := c.readN(wLen)
		if len(posBytes) < wPos || len(lenBytes) < wLen {
			return nil, crc, ErrTruncated
		}
		lengthField := getUint(lenBytes, wLen)
		instr := &Instruction{
			OgOffset: int64(getUint(posBytes, wPos)),
			OgLength: int64(lengthField &^ replFlag),
		}

		if lengthField&replFlag != 0 {
			b, berr := readBlobFrame(c, wBlob)
			if berr != nil {
				return nil, crc, berr
			}
			raw, derr := decompressBlob(b)
			if derr != nil {
				return nil, crc, derr
			}
			instr.Replacement = raw
		}

		instrs = append(instrs, instr)
	}

	return instrs, crc, nil
}
