package binpatch

import "errors"

// Package-specific error variables that can be used with errors.Is() for error handling.
var (
	// ErrBadMagic is returned when a patch container does not start with the expected magic bytes.
	ErrBadMagic = errors.New("binpatch: bad magic")

	// ErrCRCMismatch is returned when a patch's stored CRC-32 of the original does not match
	// the actual original data supplied at apply time. No output is produced when this occurs.
	ErrCRCMismatch = errors.New("binpatch: original data does not match patch checksum")

	// ErrTruncated is returned when a patch container or directory header ends before all
	// fields it describes have been read.
	ErrTruncated = errors.New("binpatch: truncated patch data")

	// ErrUnknownSelector is returned when a compression selector byte does not map to
	// store, deflate, or LZMA.
	ErrUnknownSelector = errors.New("binpatch: unknown compression selector")

	// ErrNotDirectory describes a directory-patch operation attempted against a node
	// that is not a directory. No function in this package returns it.
	ErrNotDirectory = errors.New("binpatch: not a directory")

	// ErrTargetMissing is returned when an apply operation's target path does not exist
	// on disk and the operation requires it to.
	ErrTargetMissing = errors.New("binpatch: apply target not found")

	// ErrNoTarget is returned when creating a patch but the original or edited source
	// could not be opened.
	ErrNoTarget = errors.New("binpatch: source not found")
)
