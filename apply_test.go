package binpatch_test

import (
	"testing"

	"github.com/KarpelesLab/binpatch"
)

func TestApplyFilePatchTruncatedInput(t *testing.T) {
	if _, err := binpatch.ApplyFilePatch([]byte("original"), []byte{0x01}); err == nil {
		t.Error("ApplyFilePatch with a too-short patch should return an error")
	}
}

func TestApplyFilePatchBadMagic(t *testing.T) {
	original := []byte("hello world")
	edited := []byte("hello there world")
	patch, err := binpatch.CreateFilePatch(original, edited)
	if err != nil {
		t.Fatalf("CreateFilePatch error: %s", err)
	}

	corrupted := append([]byte{}, patch...)
	corrupted[0] = 'Y'
	if _, err := binpatch.ApplyFilePatch(original, corrupted); err != binpatch.ErrBadMagic {
		t.Errorf("ApplyFilePatch with corrupted magic = %v, want ErrBadMagic", err)
	}
}

func TestApplyFilePatchNoOutputOnCRCFailure(t *testing.T) {
	original := []byte("patch me please, this is the original content")
	edited := []byte("patch me please, this is the EDITED content")
	patch, err := binpatch.CreateFilePatch(original, edited)
	if err != nil {
		t.Fatalf("CreateFilePatch error: %s", err)
	}

	result, err := binpatch.ApplyFilePatch([]byte("not the right original at all"), patch)
	if err != binpatch.ErrCRCMismatch {
		t.Fatalf("expected ErrCRCMismatch, got %v", err)
	}
	if result != nil {
		t.Error("ApplyFilePatch must return nil output on CRC mismatch")
	}
}
