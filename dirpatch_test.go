package binpatch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KarpelesLab/binpatch"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %s", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %s", err)
		}
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %s", root, err)
	}
	return out
}

func sameTree(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// S6 — directory mixed ops.
func TestDirPatchMixedOps(t *testing.T) {
	origRoot := t.TempDir()
	editRoot := t.TempDir()
	applyRoot := t.TempDir()

	writeTree(t, origRoot, map[string]string{
		"a.bin": "original a contents, quite a bit of text to make a real diff worthwhile here",
		"b.bin": "this file will be deleted",
	})
	writeTree(t, editRoot, map[string]string{
		"a.bin": "original a CONTENTS, quite a bit of text to make a real diff worthwhile here",
		"c.bin": "this file is brand new",
	})
	writeTree(t, applyRoot, map[string]string{
		"a.bin": "original a contents, quite a bit of text to make a real diff worthwhile here",
		"b.bin": "this file will be deleted",
	})

	patch, err := binpatch.CreateDirPatch(origRoot, editRoot)
	if err != nil {
		t.Fatalf("CreateDirPatch error: %s", err)
	}

	failures, err := binpatch.ApplyDirPatch(applyRoot, patch)
	if err != nil {
		t.Fatalf("ApplyDirPatch error: %s", err)
	}
	if failures != 0 {
		t.Errorf("ApplyDirPatch reported %d failures, want 0", failures)
	}

	got := readTree(t, applyRoot)
	want := readTree(t, editRoot)
	if !sameTree(got, want) {
		t.Errorf("applied tree = %v, want %v", got, want)
	}
}

func TestDirPatchIncludeMaskSuppressesDeletes(t *testing.T) {
	origRoot := t.TempDir()
	editRoot := t.TempDir()
	applyRoot := t.TempDir()

	writeTree(t, origRoot, map[string]string{"b.bin": "to be deleted"})
	writeTree(t, editRoot, map[string]string{})
	writeTree(t, applyRoot, map[string]string{"b.bin": "to be deleted"})

	patch, err := binpatch.CreateDirPatch(origRoot, editRoot)
	if err != nil {
		t.Fatalf("CreateDirPatch error: %s", err)
	}

	failures, err := binpatch.ApplyDirPatch(applyRoot, patch, binpatch.WithIncludeDeletes(false))
	if err != nil {
		t.Fatalf("ApplyDirPatch error: %s", err)
	}
	if failures != 0 {
		t.Errorf("ApplyDirPatch reported %d failures, want 0", failures)
	}

	if _, err := os.Stat(filepath.Join(applyRoot, "b.bin")); err != nil {
		t.Errorf("b.bin should still exist with includeDeletes=false, stat error: %s", err)
	}
}
