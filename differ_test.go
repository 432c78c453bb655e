package binpatch_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KarpelesLab/binpatch"
)

// replay is a minimal, test-local reimplementation of the copy-segments
// loop spec.md §4.G describes, used to check round-trip correctness of
// Diff's output independently of the container codecs.
func replay(t *testing.T, original []byte, instrs []*binpatch.Instruction) []byte {
	t.Helper()
	var out []byte
	cursor := int64(0)
	for _, instr := range instrs {
		if instr.OgOffset < cursor {
			t.Fatalf("instruction offsets not monotone: %d < %d", instr.OgOffset, cursor)
		}
		out = append(out, original[cursor:instr.OgOffset]...)
		if instr.Replacement != nil {
			out = append(out, instr.Replacement...)
		}
		cursor = instr.OgOffset + instr.OgLength
	}
	out = append(out, original[cursor:]...)
	return out
}

func diffAndReplay(t *testing.T, o, e []byte) []byte {
	t.Helper()
	instrs, err := binpatch.Diff(binpatch.NewMemSource(o), binpatch.NewMemSource(e), binpatch.DiffOptions{})
	if err != nil {
		t.Fatalf("Diff returned error: %s", err)
	}
	return replay(t, o, instrs)
}

// S1 — identical single file.
func TestDiffIdentical(t *testing.T) {
	data := []byte("hello world")
	instrs, err := binpatch.Diff(binpatch.NewMemSource(data), binpatch.NewMemSource(data), binpatch.DiffOptions{})
	if err != nil {
		t.Fatalf("Diff returned error: %s", err)
	}
	if len(instrs) != 0 {
		t.Errorf("Diff(O, O) produced %d instructions, want 0", len(instrs))
	}
}

// S2 — prefix insertion.
func TestDiffPrefixInsertion(t *testing.T) {
	o := []byte("world")
	e := []byte("hello world")
	got := diffAndReplay(t, o, e)
	if !bytes.Equal(got, e) {
		t.Errorf("round trip = %q, want %q", got, e)
	}
}

// S3 — middle modification with large shared tails.
func TestDiffMiddleModificationLargeTails(t *testing.T) {
	o := append(append(bytes.Repeat([]byte("A"), 4096), []byte("xxxx")...), bytes.Repeat([]byte("B"), 4096)...)
	e := append(append(bytes.Repeat([]byte("A"), 4096), []byte("yyyy")...), bytes.Repeat([]byte("B"), 4096)...)
	got := diffAndReplay(t, o, e)
	if !bytes.Equal(got, e) {
		t.Errorf("round trip failed for large shared tails scenario (lengths: got %d, want %d)", len(got), len(e))
	}
}

// S4 — pure deletion. The probe size is shrunk from the default so that the
// 11-byte remainder after the shared "head-" prefix is long enough to force
// the resync path instead of the short-tail wholesale-replacement branch.
func TestDiffPureDeletion(t *testing.T) {
	o := []byte("head-middle-tail")
	e := []byte("head-tail")
	instrs, err := binpatch.Diff(binpatch.NewMemSource(o), binpatch.NewMemSource(e), binpatch.DiffOptions{ProbeSize: 3})
	if err != nil {
		t.Fatalf("Diff returned error: %s", err)
	}
	found := false
	for _, instr := range instrs {
		if instr.Replacement == nil {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one pure-deletion instruction")
	}
	got := replay(t, o, instrs)
	if !bytes.Equal(got, e) {
		t.Errorf("round trip = %q, want %q", got, e)
	}
}

func TestDiffInstructionsMonotoneAndDisjoint(t *testing.T) {
	o := []byte(strings.Repeat("0123456789", 300))
	e := []byte("PREFIX" + strings.Repeat("0123456789", 150) + "MIDDLE" + strings.Repeat("0123456789", 150) + "SUFFIX")
	instrs, err := binpatch.Diff(binpatch.NewMemSource(o), binpatch.NewMemSource(e), binpatch.DiffOptions{})
	if err != nil {
		t.Fatalf("Diff returned error: %s", err)
	}
	prevEnd := int64(-1)
	for _, instr := range instrs {
		if instr.OgOffset < prevEnd {
			t.Fatalf("instruction spans overlap: offset %d before previous end %d", instr.OgOffset, prevEnd)
		}
		prevEnd = instr.OgOffset + instr.OgLength
	}
	got := replay(t, o, instrs)
	if !bytes.Equal(got, e) {
		t.Errorf("round trip mismatch for monotonicity scenario")
	}
}

func TestDiffEmptyInputs(t *testing.T) {
	got := diffAndReplay(t, nil, nil)
	if len(got) != 0 {
		t.Errorf("round trip of empty inputs = %v, want empty", got)
	}
}

func TestDiffCompleteReplacement(t *testing.T) {
	o := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	e := []byte("completely different content with no shared bytes at all!!")
	got := diffAndReplay(t, o, e)
	if !bytes.Equal(got, e) {
		t.Errorf("round trip = %q, want %q", got, e)
	}
}
