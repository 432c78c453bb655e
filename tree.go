package binpatch

import "strings"

// Kind distinguishes a directory-tree Node that represents a file from one
// that represents a directory.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// EntryOp tags what a directory-tree patch does to a given file entry. It is
// the tagged-union replacement for a single overloaded "file size" field
// that means three different things depending on context: here, a nil Op
// means "no change recorded yet" (used while building a tree from a real
// filesystem), and a non-nil Op always carries exactly the data its case
// needs.
type EntryOp interface{ isEntryOp() }

// OpDiff marks an entry as changed via a file patch, whose blob lives at
// Offset within the directory patch's blob pool.
type OpDiff struct{ Offset int64 }

// OpAdd marks an entry as newly added in the edited tree. Data is the whole
// file, compressed with Selector, stored at Offset in the blob pool.
type OpAdd struct {
	Offset   int64
	Selector Selector
}

// OpDelete marks an entry as removed in the edited tree.
type OpDelete struct{}

func (OpDiff) isEntryOp()   {}
func (OpAdd) isEntryOp()    {}
func (OpDelete) isEntryOp() {}

// Node is one entry in a directory tree: either a file or a directory,
// optionally tagged with the operation a directory patch performs on it.
//
// Parent is a non-owning back-reference used only for Path(); it does not
// participate in traversal and never needs to be nilled out to break a
// cycle, since Children is the only owning edge in the structure.
type Node struct {
	Name     string
	Kind     Kind
	Parent   *Node
	Children []*Node

	// Size is the literal file size, meaningful for KindFile nodes built
	// from a real filesystem (see BuildTree in create.go). It plays no
	// role once Op is set.
	Size int64

	// Op is nil until a directory-patch create or parse assigns it.
	Op EntryOp

	// diffPayload and addData are transient scratch fields used only while
	// CreateDirPatch is assembling a patch: diffPayload holds a pre-encoded
	// embedded file-patch for an OpDiff node, addData holds the raw bytes
	// of a newly added file for an OpAdd node. Neither is populated when a
	// tree is the result of DecodeDirPatch.
	diffPayload []byte
	addData     []byte
}

// NewRoot returns an empty, unnamed root directory node.
func NewRoot() *Node {
	return &Node{Kind: KindDirectory}
}

// Path returns the '/'-separated path from the root to this node, exclusive
// of the root's own (empty) name.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// WalkList returns the paths of every descendant of n, depth-first and
// pre-order. Files are always included; directories are included only when
// includeDirs is true.
func (n *Node) WalkList(includeDirs bool) []string {
	var ret []string
	for _, child := range n.Children {
		if includeDirs || child.Kind != KindDirectory {
			ret = append(ret, child.Path())
		}
		if child.Kind == KindDirectory {
			ret = append(ret, child.WalkList(includeDirs)...)
		}
	}
	return ret
}

// PreOrder returns every descendant of n, depth-first and pre-order,
// directories included. This is the traversal order the directory-patch
// wire format serializes in.
func (n *Node) PreOrder() []*Node {
	var ret []*Node
	for _, child := range n.Children {
		ret = append(ret, child)
		if child.Kind == KindDirectory {
			ret = append(ret, child.PreOrder()...)
		}
	}
	return ret
}

// Find looks up a '/'-separated path relative to n. If create is false and
// no such entry exists, Find returns nil without modifying the tree. If
// create is true, every missing component along the path, the leaf
// included, is created as a KindDirectory node as it is traversed; callers
// that want a file set the returned node's Kind themselves.
func (n *Node) Find(path string, create bool) *Node {
	if path == "" {
		return n
	}
	head, rest, _ := strings.Cut(path, "/")
	for _, child := range n.Children {
		if child.Name == head {
			return child.Find(rest, create)
		}
	}
	if !create {
		return nil
	}
	child := &Node{Name: head, Kind: KindDirectory, Parent: n}
	n.Children = append(n.Children, child)
	return child.Find(rest, create)
}
