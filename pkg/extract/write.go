package extract

import (
	"github.com/raymond0/osrm-backend/pkg/binfmt"
)

const maxUint32 = 0xFFFFFFFF

// WriteEdgeFile writes the node-based edge output (.osrm): fingerprint,
// a placeholder edge count, then every valid edge, with the placeholder
// patched to the true count once streaming is done.
func WriteEdgeFile(path string, edges []CandidateEdge) error {
	fp := binfmt.NewFingerprint(binfmt.MagicEdges, 1, 0, 0)
	w, err := binfmt.Create(path, fp)
	if err != nil {
		return err
	}
	countOff, err := w.Offset()
	if err != nil {
		w.Abort()
		return err
	}
	if err := w.WriteU32(0); err != nil {
		w.Abort()
		return err
	}

	var count uint64
	for _, e := range edges {
		if !e.Valid {
			continue
		}
		if count >= maxUint32 {
			w.Abort()
			return ErrTooManyEdges
		}
		if err := writeEdgeRecord(w, e); err != nil {
			w.Abort()
			return err
		}
		count++
	}

	if err := w.PatchU32At(countOff, uint32(count)); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}

func writeEdgeRecord(w *binfmt.Writer, e CandidateEdge) error {
	if err := w.WriteU32(e.Source); err != nil {
		return err
	}
	if err := w.WriteU32(e.Target); err != nil {
		return err
	}
	if err := w.WriteU32(e.Weight); err != nil {
		return err
	}
	if err := w.WriteU32(e.NameID); err != nil {
		return err
	}
	flags := uint32(0)
	if e.Forward {
		flags |= 1
	}
	if e.Backward {
		flags |= 2
	}
	if e.IsSplit {
		flags |= 4
	}
	return w.WriteU32(flags)
}

// WriteRestrictionFile writes the restrictions output
// (.osrm.restrictions): fingerprint, a placeholder count, then every
// restriction, with the placeholder patched to the true count.
func WriteRestrictionFile(path string, restrictions []TurnRestriction) error {
	fp := binfmt.NewFingerprint(binfmt.MagicRestrictions, 1, 0, 0)
	w, err := binfmt.Create(path, fp)
	if err != nil {
		return err
	}
	countOff, err := w.Offset()
	if err != nil {
		w.Abort()
		return err
	}
	if err := w.WriteU32(0); err != nil {
		w.Abort()
		return err
	}
	for _, r := range restrictions {
		if err := w.WriteU32(r.From); err != nil {
			w.Abort()
			return err
		}
		if err := w.WriteU32(r.Via); err != nil {
			w.Abort()
			return err
		}
		if err := w.WriteU32(r.To); err != nil {
			w.Abort()
			return err
		}
		only := uint32(0)
		if r.Only {
			only = 1
		}
		if err := w.WriteU32(only); err != nil {
			w.Abort()
			return err
		}
	}
	if err := w.PatchU32At(countOff, uint32(len(restrictions))); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}

// nameBlockSize is the fixed block size names are written in, matching
// the §6 "write pool bytes in fixed-size blocks" convention.
const nameBlockSize = 1024

// WriteNamePool writes the name file: fingerprint, the length-
// transformed offset/length table, total pool length, then the pool
// bytes in fixed-size blocks. The final, possibly short, block writes
// only its remaining bytes, unpadded, so the on-disk pool length
// matches the recorded total exactly.
func WriteNamePool(path string, pool *NamePool) error {
	fp := binfmt.NewFingerprint(binfmt.MagicNames, 1, 0, 0)
	w, err := binfmt.Create(path, fp)
	if err != nil {
		return err
	}
	lengths := TransformOffsetsToLengths(pool.Offsets())
	if err := w.WriteU32(uint32(len(lengths))); err != nil {
		w.Abort()
		return err
	}
	if err := binfmt.WriteU32Slice(w, lengths); err != nil {
		w.Abort()
		return err
	}
	poolBytes := pool.Pool()
	if err := w.WriteU32(uint32(len(poolBytes))); err != nil {
		w.Abort()
		return err
	}
	for off := 0; off < len(poolBytes); off += nameBlockSize {
		end := off + nameBlockSize
		if end > len(poolBytes) {
			end = len(poolBytes)
		}
		if err := w.WriteBytes(poolBytes[off:end]); err != nil {
			w.Abort()
			return err
		}
	}
	return w.Close()
}
