package binpatch

import (
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFilePatch diffs original against edited and returns the standalone
// patch bytes. If the two are byte-identical, it returns a nil slice and a
// nil error: callers should treat a nil result as "identical, nothing to
// apply" rather than writing an empty file and asking apply to parse it.
func CreateFilePatch(original, edited []byte, opts ...CreateOption) ([]byte, error) {
	cfg := newCreateConfig()
	for _, o := range opts {
		o(cfg)
	}

	origCRC := crc32.ChecksumIEEE(original)

	if cfg.crcShort && origCRC == crc32.ChecksumIEEE(edited) {
		return nil, nil
	}

	o := NewMemSource(original)
	e := NewMemSource(edited)

	instrs, err := Diff(o, e, DiffOptions{ChunkSize: cfg.chunkSize, ProbeSize: cfg.probeSize})
	if err != nil {
		return nil, err
	}
	if len(instrs) == 0 {
		return nil, nil
	}

	return EncodeFilePatch(instrs, int64(len(original)), origCRC, true), nil
}

// CreateFilePatchSources is the streaming counterpart of CreateFilePatch,
// operating on already-opened Sources rather than in-memory buffers. The
// edited side is read in chunk- and probe-sized pieces; the original is still
// read in full, once to compute its CRC-32 and again by the differ, which
// searches the whole remainder of the original after each mismatch.
func CreateFilePatchSources(original, edited Source, opts ...CreateOption) ([]byte, error) {
	cfg := newCreateConfig()
	for _, o := range opts {
		o(cfg)
	}

	origBuf, err := readAt(original, 0, int(original.Len()))
	if err != nil {
		return nil, err
	}
	origCRC := crc32.ChecksumIEEE(origBuf)

	if cfg.crcShort {
		editBuf, err := readAt(edited, 0, int(edited.Len()))
		if err != nil {
			return nil, err
		}
		if origCRC == crc32.ChecksumIEEE(editBuf) {
			return nil, nil
		}
	}

	instrs, err := Diff(original, edited, DiffOptions{ChunkSize: cfg.chunkSize, ProbeSize: cfg.probeSize})
	if err != nil {
		return nil, err
	}
	if len(instrs) == 0 {
		return nil, nil
	}

	return EncodeFilePatch(instrs, original.Len(), origCRC, true), nil
}

// CreateFilePatchPaths is the path-based entry point CLIs use: it opens
// originalPath and editedPath and dispatches to CreateFilePatch's in-memory
// path or CreateFilePatchSources' streaming path depending on WithMemory,
// which defaults to streaming (spec.md §5).
func CreateFilePatchPaths(originalPath, editedPath string, opts ...CreateOption) ([]byte, error) {
	cfg := newCreateConfig()
	for _, o := range opts {
		o(cfg)
	}

	if cfg.memory {
		original, err := os.ReadFile(originalPath)
		if err != nil {
			return nil, ErrNoTarget
		}
		edited, err := os.ReadFile(editedPath)
		if err != nil {
			return nil, ErrNoTarget
		}
		return CreateFilePatch(original, edited, opts...)
	}

	original, err := NewFileSource(originalPath)
	if err != nil {
		return nil, ErrNoTarget
	}
	defer original.Close()
	edited, err := NewFileSource(editedPath)
	if err != nil {
		return nil, ErrNoTarget
	}
	defer edited.Close()

	return CreateFilePatchSources(original, edited, opts...)
}

// BuildTree walks root on disk and returns an in-memory directory tree with
// Size populated on every file node and no Op assigned. It is the starting
// point for CreateDirPatch, which calls it on both of its roots.
func BuildTree(root string) (*Node, error) {
	tree := NewRoot()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		node := tree.Find(filepath.ToSlash(rel), true)
		if d.IsDir() {
			node.Kind = KindDirectory
			return nil
		}
		node.Kind = KindFile
		info, err := d.Info()
		if err != nil {
			return err
		}
		node.Size = info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// CreateDirPatch compares two directory trees rooted at origRoot and
// editRoot on disk and returns the directory-patch container bytes
// describing how to turn the former into the latter: a diff for every file
// present and changed in both, a whole-file addition for every file only
// under editRoot, and a deletion for every file only under origRoot. Any of
// the three op kinds can be suppressed at creation time via
// WithCreateIncludeDiffs/WithCreateIncludeAdds/WithCreateIncludeDeletes, in
// which case the corresponding entries are left out of the patch entirely
// rather than emitted and later skipped at apply time.
func CreateDirPatch(origRoot, editRoot string, opts ...CreateOption) ([]byte, error) {
	cfg := newCreateConfig()
	for _, o := range opts {
		o(cfg)
	}

	origTree, err := BuildTree(origRoot)
	if err != nil {
		return nil, err
	}
	editTree, err := BuildTree(editRoot)
	if err != nil {
		return nil, err
	}

	out := NewRoot()
	origPaths := origTree.WalkList(false)
	editPaths := editTree.WalkList(false)

	seen := map[string]bool{}
	for _, p := range origPaths {
		seen[p] = true
		editNode := editTree.Find(p, false)

		if editNode == nil {
			if !cfg.includeDel {
				continue
			}
			node := out.Find(p, true)
			node.Kind = KindFile
			node.Op = OpDelete{}
			continue
		}

		origData, err := os.ReadFile(filepath.Join(origRoot, filepath.FromSlash(p)))
		if err != nil {
			return nil, err
		}
		editData, err := os.ReadFile(filepath.Join(editRoot, filepath.FromSlash(p)))
		if err != nil {
			return nil, err
		}

		if crc32.ChecksumIEEE(origData) == crc32.ChecksumIEEE(editData) {
			continue
		}
		if !cfg.includeDiff {
			continue
		}

		instrs, err := Diff(NewMemSource(origData), NewMemSource(editData), DiffOptions{
			ChunkSize: cfg.chunkSize,
			ProbeSize: cfg.probeSize,
		})
		if err != nil {
			return nil, err
		}
		if len(instrs) == 0 {
			continue
		}

		node := out.Find(p, true)
		node.Kind = KindFile
		node.diffPayload = EncodeFilePatch(instrs, int64(len(origData)), crc32.ChecksumIEEE(origData), false)
		node.Op = OpDiff{}
	}

	for _, p := range editPaths {
		if seen[p] {
			continue
		}
		if !cfg.includeAdd {
			continue
		}
		data, err := os.ReadFile(filepath.Join(editRoot, filepath.FromSlash(p)))
		if err != nil {
			return nil, err
		}
		node := out.Find(p, true)
		node.Kind = KindFile
		node.addData = data
		node.Op = OpAdd{}
	}

	return EncodeDirPatch(out), nil
}
