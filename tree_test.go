package binpatch_test

import (
	"testing"

	"github.com/KarpelesLab/binpatch"
)

func TestNodeFindCreatesIntermediateDirs(t *testing.T) {
	root := binpatch.NewRoot()
	node := root.Find("a/b/c.bin", true)
	if node == nil {
		t.Fatal("Find with create=true returned nil")
	}
	if node.Name != "c.bin" {
		t.Errorf("leaf name = %q, want c.bin", node.Name)
	}
	if got := node.Path(); got != "a/b/c.bin" {
		t.Errorf("Path() = %q, want a/b/c.bin", got)
	}

	// Looking it up again without create must return the same node.
	again := root.Find("a/b/c.bin", false)
	if again != node {
		t.Error("second Find(create=false) did not return the same node")
	}
}

func TestNodeFindMissingWithoutCreate(t *testing.T) {
	root := binpatch.NewRoot()
	if n := root.Find("x/y", false); n != nil {
		t.Errorf("Find(create=false) on missing path returned %v, want nil", n)
	}
}

func TestWalkListContents(t *testing.T) {
	root := binpatch.NewRoot()
	root.Find("a.bin", true).Kind = binpatch.KindFile
	root.Find("dir/b.bin", true).Kind = binpatch.KindFile
	root.Find("dir/c.bin", true).Kind = binpatch.KindFile

	files := root.WalkList(false)
	want := map[string]bool{"a.bin": true, "dir/b.bin": true, "dir/c.bin": true}
	if len(files) != len(want) {
		t.Fatalf("WalkList(false) returned %v, want 3 entries", files)
	}
	for _, f := range files {
		if !want[f] {
			t.Errorf("unexpected path %q in WalkList result", f)
		}
	}

	withDirs := root.WalkList(true)
	foundDir := false
	for _, p := range withDirs {
		if p == "dir" {
			foundDir = true
		}
	}
	if !foundDir {
		t.Error("WalkList(true) did not include the directory entry")
	}
}

func TestPreOrderIncludesDirectories(t *testing.T) {
	root := binpatch.NewRoot()
	root.Find("dir/file.bin", true)

	nodes := root.PreOrder()
	if len(nodes) != 2 {
		t.Fatalf("PreOrder returned %d nodes, want 2 (dir + file)", len(nodes))
	}
	if nodes[0].Kind != binpatch.KindDirectory {
		t.Errorf("first PreOrder node is not the directory")
	}
}
