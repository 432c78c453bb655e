package binpatch

// CreateOption configures CreateFilePatch and CreateDirPatch, following the
// functional-options shape used throughout this package for anything with
// more than a couple of knobs.
type CreateOption func(*createConfig)

type createConfig struct {
	chunkSize   int
	probeSize   int
	memory      bool
	crcShort    bool
	includeDiff bool
	includeAdd  bool
	includeDel  bool
}

func newCreateConfig() *createConfig {
	return &createConfig{
		chunkSize:   DefaultChunkSize,
		probeSize:   DefaultProbeSize,
		memory:      false,
		includeDiff: true,
		includeAdd:  true,
		includeDel:  true,
	}
}

// WithChunkSize overrides the differ's scanning granularity. Zero or
// negative values are ignored.
func WithChunkSize(n int) CreateOption {
	return func(c *createConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithProbeSize overrides the differ's resynchronization probe length. Zero
// or negative values are ignored.
func WithProbeSize(n int) CreateOption {
	return func(c *createConfig) {
		if n > 0 {
			c.probeSize = n
		}
	}
}

// WithMemory selects whether create slurps its inputs fully into memory
// (true) or reads them as a stream (false, the default for create).
func WithMemory(on bool) CreateOption {
	return func(c *createConfig) { c.memory = on }
}

// WithCRCShortCircuit enables comparing the original and edited CRC-32s
// before running the differ at all, so that identical inputs short-circuit
// to an empty patch without a full scan.
func WithCRCShortCircuit(on bool) CreateOption {
	return func(c *createConfig) { c.crcShort = on }
}

// WithCreateIncludeDiffs toggles whether CreateDirPatch emits an entry for
// files present and changed on both sides. Default true. This mirrors
// WithIncludeDiffs at apply time: the filters apply to both ends of a
// transfer, not just to applying one.
func WithCreateIncludeDiffs(on bool) CreateOption {
	return func(c *createConfig) { c.includeDiff = on }
}

// WithCreateIncludeAdds toggles whether CreateDirPatch emits an entry for
// files only present under the edited root. Default true.
func WithCreateIncludeAdds(on bool) CreateOption {
	return func(c *createConfig) { c.includeAdd = on }
}

// WithCreateIncludeDeletes toggles whether CreateDirPatch emits an entry for
// files only present under the original root. Default true.
func WithCreateIncludeDeletes(on bool) CreateOption {
	return func(c *createConfig) { c.includeDel = on }
}

// ApplyOption configures ApplyDirPatch. ApplyFilePatch takes no options.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	memory      bool
	includeDiff bool
	includeAdd  bool
	includeDel  bool
}

func newApplyConfig() *applyConfig {
	return &applyConfig{
		memory:      true,
		includeDiff: true,
		includeAdd:  true,
		includeDel:  true,
	}
}

// WithApplyMemory records whether apply should slurp the original fully into
// memory (true, the default) or read it as a stream. No apply path reads the
// setting: ApplyFilePatch works on byte slices and ApplyDirPatch always reads
// each target file fully into memory, so passing false has no effect.
func WithApplyMemory(on bool) ApplyOption {
	return func(c *applyConfig) { c.memory = on }
}

// WithIncludeDiffs toggles whether a directory apply processes changed-file
// diff entries. Default true.
func WithIncludeDiffs(on bool) ApplyOption {
	return func(c *applyConfig) { c.includeDiff = on }
}

// WithIncludeAdds toggles whether a directory apply processes added-file
// entries. Default true.
func WithIncludeAdds(on bool) ApplyOption {
	return func(c *applyConfig) { c.includeAdd = on }
}

// WithIncludeDeletes toggles whether a directory apply processes
// removed-file entries. Default true.
func WithIncludeDeletes(on bool) ApplyOption {
	return func(c *applyConfig) { c.includeDel = on }
}
