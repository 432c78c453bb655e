package binpatch

// Instruction is one step of a file patch: keep everything before OgOffset
// unchanged, then either replace or delete OgLength bytes of the original
// starting there.
//
// Replacement == nil means deletion: OgLength original bytes are dropped
// with nothing put in their place. A non-nil (possibly empty) Replacement
// means those OgLength original bytes are replaced by Replacement's
// content, which need not be the same length.
type Instruction struct {
	OgOffset    int64
	OgLength    int64
	Replacement []byte
}

func (i *Instruction) isDeletion() bool { return i.Replacement == nil }
