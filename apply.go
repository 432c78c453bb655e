package binpatch

import (
	"bytes"
	"hash/crc32"
	"log"
	"os"
	"path/filepath"
)

// ApplyFilePatch replays a standalone file patch against original and
// returns the reconstructed edited bytes. It is fail-fast: the CRC-32
// stored in the patch is verified against original before anything
// derived from original's length (chiefly w_pos) is trusted, and any error
// aborts with no partial output.
func ApplyFilePatch(original, patch []byte) ([]byte, error) {
	if len(patch) < 4 {
		return nil, ErrTruncated
	}
	if !bytes.Equal(patch[:4], fileMagic[:]) {
		return nil, ErrBadMagic
	}
	if len(patch) < 8 {
		return nil, ErrTruncated
	}
	if crc32.ChecksumIEEE(original) != uint32(getUint(patch[4:8], 4)) {
		return nil, ErrCRCMismatch
	}

	instrs, _, err := DecodeFilePatch(patch, int64(len(original)), true)
	if err != nil {
		return nil, err
	}

	return replayInstructions(original, instrs)
}

// replayInstructions implements the copy-segments loop of spec.md §4.G: copy
// everything between consecutive instructions verbatim, then either splice
// in a replacement or skip the deleted span, finishing with whatever
// original bytes remain past the last instruction.
func replayInstructions(original []byte, instrs []*Instruction) ([]byte, error) {
	out := make([]byte, 0, len(original))
	cursor := int64(0)

	for _, instr := range instrs {
		if instr.OgOffset < cursor || instr.OgOffset+instr.OgLength > int64(len(original)) {
			return nil, ErrTruncated
		}
		out = append(out, original[cursor:instr.OgOffset]...)
		if !instr.isDeletion() {
			out = append(out, instr.Replacement...)
		}
		cursor = instr.OgOffset + instr.OgLength
	}
	out = append(out, original[cursor:]...)

	return out, nil
}

// ApplyDirPatch applies a directory patch to the tree rooted at targetRoot
// in place. Unlike ApplyFilePatch, this is best-effort: per-entry failures
// (a missing deletion target, a CRC mismatch on an embedded diff, a failed
// decompression) are counted rather than aborting the whole operation. The
// returned int is that failure count, mirroring the CLI's exit code.
func ApplyDirPatch(targetRoot string, patch []byte, opts ...ApplyOption) (int, error) {
	cfg := newApplyConfig()
	for _, o := range opts {
		o(cfg)
	}

	root, wAck, _, poolBase, err := DecodeDirPatch(patch)
	if err != nil {
		return 0, err
	}
	pool := patch[poolBase:]

	failures := 0

	for _, node := range root.PreOrder() {
		if node.Kind != KindFile {
			continue
		}
		path := filepath.Join(targetRoot, filepath.FromSlash(node.Path()))

		switch op := node.Op.(type) {
		case OpDelete:
			if !cfg.includeDel {
				continue
			}
			if err := os.Remove(path); err != nil {
				log.Printf("binpatch: skipping deletion of %q: %s", path, err)
				failures++
			}

		case OpAdd:
			if !cfg.includeAdd {
				continue
			}
			data, err := readDirAddFrame(pool, int(op.Offset), wAck, op.Selector)
			if err != nil {
				log.Printf("binpatch: skipping addition of %q: %s", path, err)
				failures++
				continue
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				log.Printf("binpatch: skipping addition of %q: %s", path, err)
				failures++
				continue
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				log.Printf("binpatch: skipping addition of %q: %s", path, err)
				failures++
			}

		case OpDiff:
			if !cfg.includeDiff {
				continue
			}
			frame := pool[op.Offset:]
			original, err := os.ReadFile(path)
			if err != nil {
				log.Printf("binpatch: skipping diff of %q: %s", path, err)
				failures++
				continue
			}
			instrs, storedCRC, err := DecodeFilePatch(frame, int64(len(original)), false)
			if err != nil {
				log.Printf("binpatch: skipping diff of %q: %s", path, err)
				failures++
				continue
			}
			if crc32.ChecksumIEEE(original) != storedCRC {
				log.Printf("binpatch: skipping diff of %q: checksum mismatch", path)
				failures++
				continue
			}
			result, err := replayInstructions(original, instrs)
			if err != nil {
				log.Printf("binpatch: skipping diff of %q: %s", path, err)
				failures++
				continue
			}
			if err := os.WriteFile(path, result, 0o644); err != nil {
				log.Printf("binpatch: skipping diff of %q: %s", path, err)
				failures++
			}
		}
	}

	return failures, nil
}
