package binpatch

import (
	"io"
	"os"
)

// Source is a bounded random-access byte stream. It is the abstraction the
// differ reads both the original and edited data through (the apply engine
// works on byte slices), so that callers can choose between a fully-buffered in-memory
// array (MemSource) and a file-backed stream (FileSource) without either
// side of the library caring which one it got.
//
// Read never errors on short reads at end-of-stream: it returns fewer bytes
// than requested and a nil error. Callers that need to detect truncation
// compare the returned slice's length against what they asked for.
type Source interface {
	// Read returns up to n bytes starting at the current position, advancing
	// the position by the number of bytes returned.
	Read(n int) ([]byte, error)

	// Seek repositions the cursor. whence follows io.Seek* semantics.
	Seek(offset int64, whence int) (int64, error)

	// Len returns the total size of the underlying data.
	Len() int64

	// Pos returns the current cursor position.
	Pos() int64
}

// MemSource is a Source backed by an in-memory byte slice.
type MemSource struct {
	buf []byte
	pos int64
}

// NewMemSource wraps buf as a Source. buf is not copied; callers must not
// mutate it while the Source is in use.
func NewMemSource(buf []byte) *MemSource {
	return &MemSource{buf: buf}
}

func (s *MemSource) Read(n int) ([]byte, error) {
	if n <= 0 || s.pos >= int64(len(s.buf)) {
		return nil, nil
	}
	end := s.pos + int64(n)
	if end > int64(len(s.buf)) {
		end = int64(len(s.buf))
	}
	out := s.buf[s.pos:end]
	s.pos = end
	return out, nil
}

func (s *MemSource) Seek(offset int64, whence int) (int64, error) {
	pos, err := seekPos(s.pos, int64(len(s.buf)), offset, whence)
	if err != nil {
		return s.pos, err
	}
	s.pos = pos
	return s.pos, nil
}

func (s *MemSource) Len() int64 { return int64(len(s.buf)) }
func (s *MemSource) Pos() int64 { return s.pos }

// FileSource is a Source backed by an *os.File, for streaming large inputs
// without buffering them in full.
type FileSource struct {
	f    *os.File
	size int64
	pos  int64
}

// NewFileSource opens path for reading and wraps it as a Source.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileSource{f: f, size: info.Size()}, nil
}

func (s *FileSource) Read(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := s.f.ReadAt(buf, s.pos)
	if err != nil && err != io.EOF {
		return nil, err
	}
	s.pos += int64(read)
	return buf[:read], nil
}

func (s *FileSource) Seek(offset int64, whence int) (int64, error) {
	pos, err := seekPos(s.pos, s.size, offset, whence)
	if err != nil {
		return s.pos, err
	}
	s.pos = pos
	return s.pos, nil
}

func (s *FileSource) Len() int64 { return s.size }
func (s *FileSource) Pos() int64 { return s.pos }

// Close releases the underlying file.
func (s *FileSource) Close() error { return s.f.Close() }

func seekPos(cur, max, offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = cur + offset
	case io.SeekEnd:
		pos = max + offset
	default:
		return cur, os.ErrInvalid
	}
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	return pos, nil
}

// readAt is a convenience used by the differ and codecs: seek to pos then
// read up to n bytes, restoring nothing (callers track their own cursors).
func readAt(s Source, pos int64, n int) ([]byte, error) {
	if _, err := s.Seek(pos, io.SeekStart); err != nil {
		return nil, err
	}
	return s.Read(n)
}
