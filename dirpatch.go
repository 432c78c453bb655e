package binpatch

import "bytes"

// Values for a directory patch's per-file type_tag byte.
const (
	tagDiff       = 0x00
	tagAddBase    = 0x01
	tagDelete     = 0x02
	tagAddSelMask = 0x30
)

// EncodeDirPatch serializes a directory tree whose file nodes all carry a
// non-nil Op into the directory-patch container format described in
// spec.md §4.F: a 5-byte prelude, a pre-order header, then a blob pool
// holding whole-file-addition frames and embedded file-patch diff frames.
func EncodeDirPatch(root *Node) []byte {
	// Pass 1: compress every OpAdd payload and find the widest raw/compressed
	// length across all whole-file-add frames, to fix wAck. Frame sizes (and
	// therefore pool offsets) depend on wAck, so this must finish before any
	// offset is assigned.
	addBlobs := map[*Node]blob{}
	var maxAckLen uint64
	var walkCompress func(*Node)
	walkCompress = func(dir *Node) {
		for _, child := range dir.Children {
			if child.Kind == KindDirectory {
				walkCompress(child)
				continue
			}
			if _, ok := child.Op.(OpAdd); ok {
				b, _ := compressBest(child.addData)
				addBlobs[child] = b
				if uint64(b.RawLen) > maxAckLen {
					maxAckLen = uint64(b.RawLen)
				}
				if uint64(len(b.Data)) > maxAckLen {
					maxAckLen = uint64(len(b.Data))
				}
			}
		}
	}
	walkCompress(root)
	wAck := MinBytes(maxAckLen)

	// Pass 2: walk again in the same pre-order, now assigning final pool
	// offsets using the now-fixed wAck, and collecting the blob pool bytes.
	var pool []byte
	var walkAssign func(*Node)
	walkAssign = func(dir *Node) {
		for _, child := range dir.Children {
			if child.Kind == KindDirectory {
				walkAssign(child)
				continue
			}
			switch child.Op.(type) {
			case OpDiff:
				offset := int64(len(pool))
				pool = append(pool, child.diffPayload...)
				child.Op = OpDiff{Offset: offset}
			case OpAdd:
				b := addBlobs[child]
				offset := int64(len(pool))
				pool = appendDirAddFrame(pool, b, wAck)
				child.Op = OpAdd{Offset: offset, Selector: b.Selector}
			case OpDelete:
				// no payload
			}
		}
	}
	walkAssign(root)

	wPos := MinBytes(uint64(len(pool)))

	var header []byte
	header = encodeDirLevel(header, root, wPos)

	out := append([]byte{}, dirMagic[:]...)
	out = append(out, byte(wAck<<4)|byte(wPos))
	out = append(out, header...)
	out = append(out, pool...)

	return out
}

func encodeDirLevel(out []byte, dir *Node, wPos int) []byte {
	out = putUint(out, uint64(len(dir.Children)), 2)
	for _, child := range dir.Children {
		isFile := child.Kind == KindFile
		nameByte := byte(len(child.Name) & 0x7F)
		if isFile {
			nameByte |= 0x80
		}
		out = append(out, nameByte)
		out = append(out, []byte(child.Name)...)

		if !isFile {
			out = encodeDirLevel(out, child, wPos)
			continue
		}

		switch op := child.Op.(type) {
		case OpDiff:
			out = append(out, tagDiff)
			out = putUint(out, uint64(op.Offset), wPos)
		case OpAdd:
			out = append(out, byte(tagAddBase|(byte(op.Selector)<<4)))
			out = putUint(out, uint64(op.Offset), wPos)
		case OpDelete:
			out = append(out, tagDelete)
		}
	}
	return out
}

// DecodeDirPatch parses a directory-patch container produced by
// EncodeDirPatch, returning the tree with each file node's Op populated
// and offsets left relative to the pool (callers add pool_base themselves
// when slicing into the original patch bytes).
func DecodeDirPatch(data []byte) (root *Node, wAck, wPos, poolBase int, err error) {
	c := newCursor(data)

	magic := c.readN(4)
	if len(magic) < 4 || !bytes.Equal(magic, dirMagic[:]) {
		return nil, 0, 0, 0, ErrBadMagic
	}

	widthByte := c.readN(1)
	if len(widthByte) < 1 {
		return nil, 0, 0, 0, ErrTruncated
	}
	wAck = int(widthByte[0] >> 4)
	wPos = int(widthByte[0] & 0xF)

	root = NewRoot()
	if derr := decodeDirLevel(c, root, wPos); derr != nil {
		return nil, 0, 0, 0, derr
	}

	return root, wAck, wPos, c.offset(), nil
}

func decodeDirLevel(c *cursor, dir *Node, wPos int) error {
	countBytes := c.readN(2)
	if len(countBytes) < 2 {
		return ErrTruncated
	}
	count := int(getUint(countBytes, 2))

	for i := 0; i < count; i++ {
		nameByteBuf := c.readN(1)
		if len(nameByteBuf) < 1 {
			return ErrTruncated
		}
		nameByte := nameByteBuf[0]
		isFile := nameByte&0x80 != 0
		nameLen := int(nameByte & 0x7F)
		nameBuf := c.readN(nameLen)
		if len(nameBuf) < nameLen {
			return ErrTruncated
		}
		name := string(nameBuf)

		if !isFile {
			child := &Node{Name: name, Kind: KindDirectory, Parent: dir}
			dir.Children = append(dir.Children, child)
			if err := decodeDirLevel(c, child, wPos); err != nil {
				return err
			}
			continue
		}

		child := &Node{Name: name, Kind: KindFile, Parent: dir}
		dir.Children = append(dir.Children, child)

		tagBuf := c.readN(1)
		if len(tagBuf) < 1 {
			return ErrTruncated
		}
		tag := tagBuf[0]

		switch {
		case tag == tagDelete:
			child.Op = OpDelete{}
		case tag == tagDiff:
			offBuf := c.readN(wPos)
			if len(offBuf) < wPos {
				return ErrTruncated
			}
			child.Op = OpDiff{Offset: int64(getUint(offBuf, wPos))}
		case tag&0x0F == tagAddBase:
			sel := Selector((tag & tagAddSelMask) >> 4)
			offBuf := c.readN(wPos)
			if len(offBuf) < wPos {
				return ErrTruncated
			}
			child.Op = OpAdd{Offset: int64(getUint(offBuf, wPos)), Selector: sel}
		default:
			return ErrTruncated
		}
	}
	return nil
}

// appendDirAddFrame writes a whole-file-addition frame as laid out in
// spec.md §4.F: unlike a diff's embedded blob frame, this carries no leading
// selector byte, since the selector already travels in the entry's
// type_tag. The layout is [ulen?][clen][data][props?], mirrored exactly by
// readDirAddFrame.
func appendDirAddFrame(out []byte, b blob, wAck int) []byte {
	if b.Selector != SelStore {
		out = putUint(out, uint64(b.RawLen), wAck)
	}
	out = putUint(out, uint64(len(b.Data)), wAck)
	out = append(out, b.Data...)
	if b.Selector == SelLZMA {
		out = append(out, b.Props[:]...)
	}
	return out
}

// readDirAddFrame reads the whole-file-addition frame starting at offset
// within data, as laid out in spec.md §4.F, and returns its decompressed bytes.
func readDirAddFrame(data []byte, offset, wAck int, sel Selector) ([]byte, error) {
	c := newCursor(data[offset:])
	var rawLen int
	if sel != SelStore {
		rawLen = int(c.readUint(wAck))
	}
	compLen := int(c.readUint(wAck))
	compData := c.readN(compLen)
	if len(compData) < compLen {
		return nil, ErrTruncated
	}
	b := blob{Selector: sel, Data: compData, RawLen: rawLen}
	if sel == SelStore {
		b.RawLen = len(compData)
	}
	if sel == SelLZMA {
		props := c.readN(5)
		if len(props) < 5 {
			return nil, ErrTruncated
		}
		copy(b.Props[:], props)
	}
	return decompressBlob(b)
}
