package binpatch

import "bytes"

const (
	DefaultChunkSize = 0x800
	DefaultProbeSize = 0x200
)

// DiffOptions configures Diff. Zero values fall back to the defaults.
type DiffOptions struct {
	ChunkSize int
	ProbeSize int
}

func (o DiffOptions) resolve() (chunkSize, probeSize int) {
	chunkSize, probeSize = o.ChunkSize, o.ProbeSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if probeSize <= 0 {
		probeSize = DefaultProbeSize
	}
	return
}

// Diff compares the original o against the edited e and returns the
// sequence of instructions that, replayed in order against o, reproduce e.
//
// This is a chunked heuristic, not a minimum-edit-distance differ: it finds
// long shared runs cheaply by fast-forwarding through matching chunks, and
// once a mismatch is found, probes the edited stream against the remainder
// of the original to relocate the next shared run. It is not guaranteed to
// find the smallest possible set of instructions, only a correct one: every
// byte of e not covered by a matched run is captured verbatim in some
// instruction's Replacement, so replay always reproduces e exactly.
func Diff(o, e Source, opts DiffOptions) ([]*Instruction, error) {
	chunkSize, probeSize := opts.resolve()
	oLen, eLen := o.Len(), e.Len()

	var instrs []*Instruction
	oPos, ePos := int64(0), int64(0)

	for ePos < eLen {
		newOPos, newEPos, matched, err := scanForward(o, e, oPos, ePos, chunkSize)
		if err != nil {
			return nil, err
		}
		oPos, ePos = newOPos, newEPos
		if matched {
			break
		}

		loc := oPos
		full, err := readAt(o, loc, int(oLen-loc))
		if err != nil {
			return nil, err
		}

		instr := &Instruction{OgOffset: loc}

		if int64(len(full)) <= int64(probeSize) {
			rest, err := readAt(e, ePos, int(eLen-ePos))
			if err != nil {
				return nil, err
			}
			instr.OgLength = oLen - loc
			instr.Replacement = rest
			oPos, ePos = oLen, eLen
		} else {
			found, dat, newOPos, newEPos, err := resync(e, full, loc, ePos, eLen, chunkSize, probeSize)
			if err != nil {
				return nil, err
			}
			instr.OgLength = found - loc
			instr.Replacement = dat
			oPos, ePos = newOPos, newEPos
		}

		instrs = append(instrs, instr)
	}

	if oPos < oLen {
		instrs = append(instrs, &Instruction{OgOffset: oPos, OgLength: oLen - oPos})
	}

	return instrs, nil
}

// scanForward advances both cursors while chunkSize-sized reads from each
// side are byte-equal, then narrows to the exact first mismatching byte. It
// reports matched=true when the edited stream was exhausted without a
// mismatch ever being found.
func scanForward(o, e Source, oPos, ePos int64, chunkSize int) (newOPos, newEPos int64, matched bool, err error) {
	for {
		ochunk, err := readAt(o, oPos, chunkSize)
		if err != nil {
			return 0, 0, false, err
		}
		echunk, err := readAt(e, ePos, chunkSize)
		if err != nil {
			return 0, 0, false, err
		}

		i := 0
		for i < len(ochunk) && i < len(echunk) && ochunk[i] == echunk[i] {
			i++
		}

		if i == len(echunk) {
			oPos += int64(i)
			ePos += int64(i)
			if len(echunk) < chunkSize {
				return oPos, ePos, true, nil
			}
			continue
		}

		return oPos + int64(i), ePos + int64(i), false, nil
	}
}

// resync searches the edited stream, starting at ePos, for a window of
// probeSize bytes that also occurs somewhere in full (= original[loc:]). It
// accumulates everything read along the way into the eventual replacement
// payload, and once a match is found, refines it by sliding the probe
// window backward up to chunkSize-1 bytes to find an earlier resync point
// if one exists, per the bound spec.md's design notes describe: this is a
// heuristic, not all earlier matches are considered, but the result is
// deterministic and always byte-correct because the replacement is always
// defined as exactly the edited bytes not covered by the verified match.
func resync(e Source, full []byte, loc, ePos, eLen int64, chunkSize, probeSize int) (found int64, dat []byte, newOPos, newEPos int64, err error) {
	var accum []byte
	cur := ePos

	for {
		cmp, rerr := readAt(e, cur, probeSize)
		if rerr != nil {
			return 0, nil, 0, 0, rerr
		}
		if len(cmp) < probeSize {
			accum = append(accum, cmp...)
			end := loc + int64(len(full))
			return end, accum, end, eLen, nil
		}

		idx := bytes.Index(full, cmp)
		if idx < 0 {
			accum = append(accum, cmp...)
			cur += int64(probeSize)
			extra, rerr := readAt(e, cur, chunkSize)
			if rerr != nil {
				return 0, nil, 0, 0, rerr
			}
			accum = append(accum, extra...)
			cur += int64(len(extra))
			if len(extra) < chunkSize {
				end := loc + int64(len(full))
				return end, accum, end, eLen, nil
			}
			continue
		}

		// Found a resync candidate at absolute original offset loc+idx,
		// matched against the edited window starting at cur. Refine by
		// sliding that window backward through the accumulated bytes,
		// looking for an earlier occurrence of the (shifted) window within
		// full[:idx]; stop at the first one found.
		winStart := cur
		winIdx := idx
		chosenK := 0

		maxBack := chunkSize - 1
		if len(accum) < maxBack {
			maxBack = len(accum)
		}
		combined := append(append([]byte(nil), accum...), cmp...)
		for k := 1; k <= maxBack; k++ {
			start := len(accum) - k
			altCmp := combined[start : start+probeSize]
			if idx2 := bytes.Index(full[:idx], altCmp); idx2 >= 0 {
				winIdx = idx2
				chosenK = k
				break
			}
		}

		dat = accum[:len(accum)-chosenK]
		found = loc + int64(winIdx)
		winStart -= int64(chosenK)
		return found, dat, found + int64(probeSize), winStart + int64(probeSize), nil
	}
}
