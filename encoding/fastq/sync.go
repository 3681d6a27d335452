package fastq

import (
	"io"

	"github.com/pkg/errors"
)

// SyncStats are the tallies produced by one SyncPairs run.
type SyncStats struct {
	// TotalA and TotalB are the numbers of reads consumed from the two
	// filtered inputs.
	TotalA, TotalB int64
	// Kept is the number of read pairs present in both filtered inputs.
	Kept int64
	// OrphanedA and OrphanedB are the numbers of reads that survived
	// filtering in only one of the two inputs.
	OrphanedA, OrphanedB int64
	// LeftoverA and LeftoverB record that a filtered input still held reads
	// when the original stream ran out. That means the input was not an
	// order-preserving subset of the original and the results are suspect.
	LeftoverA, LeftoverB bool
}

// cursor holds the one pending read of a filtered input. Once the input is
// exhausted, the cursor matches no identifier.
type cursor struct {
	sc   *Scanner
	read Read
	id   string
	ok   bool
}

func (c *cursor) advance() error {
	if c.ok = c.sc.Scan(&c.read); !c.ok {
		c.id = ""
		return c.sc.Err()
	}
	c.id = c.read.MateID()
	return nil
}

func (c *cursor) at(id string) bool {
	return c.ok && c.id == id
}

// SyncPairs re-pairs two independently filtered paired-end FASTQ streams.
// orig must contain every read that can appear in readsA or readsB, in the
// same relative order; it is walked once as the pairing clock, so no stream
// is ever buffered beyond a single pending read. Reads present in both
// filtered streams are written to syncedA and syncedB, which stay aligned
// record for record; reads surviving in only one stream are salvaged to
// orphans, in the order the original stream discovers them.
//
// SyncPairs does not verify the ordering contract. A filtered stream that
// is not an ordered subset of orig is reported through SyncStats.LeftoverA
// and LeftoverB rather than as an error.
func SyncPairs(orig, readsA, readsB io.Reader, syncedA, syncedB, orphans io.Writer) (SyncStats, error) {
	var (
		stats   SyncStats
		headers = NewHeaderScanner(orig)
		a       = cursor{sc: NewScanner(readsA)}
		b       = cursor{sc: NewScanner(readsB)}
		outA    = NewWriter(syncedA)
		outB    = NewWriter(syncedB)
		orphan  = NewWriter(orphans)
	)
	if err := a.advance(); err != nil {
		return stats, errors.Wrap(err, "reading forward reads")
	}
	if err := b.advance(); err != nil {
		return stats, errors.Wrap(err, "reading reverse reads")
	}
	for headers.Scan() {
		h := headers.ID()

		// Branches re-test the cursors after each advance; with inputs that
		// honor the ordering contract at most one branch fires per header.
		if a.at(h) && !b.at(h) {
			if err := orphan.Write(&a.read); err != nil {
				return stats, errors.Wrap(err, "writing orphans")
			}
			if err := a.advance(); err != nil {
				return stats, errors.Wrap(err, "reading forward reads")
			}
			stats.OrphanedA++
			stats.TotalA++
		}
		if b.at(h) && !a.at(h) {
			if err := orphan.Write(&b.read); err != nil {
				return stats, errors.Wrap(err, "writing orphans")
			}
			if err := b.advance(); err != nil {
				return stats, errors.Wrap(err, "reading reverse reads")
			}
			stats.OrphanedB++
			stats.TotalB++
		}
		if a.at(h) && b.at(h) {
			if err := outA.Write(&a.read); err != nil {
				return stats, errors.Wrap(err, "writing synced forward reads")
			}
			if err := outB.Write(&b.read); err != nil {
				return stats, errors.Wrap(err, "writing synced reverse reads")
			}
			if err := a.advance(); err != nil {
				return stats, errors.Wrap(err, "reading forward reads")
			}
			if err := b.advance(); err != nil {
				return stats, errors.Wrap(err, "reading reverse reads")
			}
			stats.Kept++
			stats.TotalA++
			stats.TotalB++
		}
	}
	if err := headers.Err(); err != nil {
		return stats, errors.Wrap(err, "reading original reads")
	}
	for _, w := range []*Writer{outA, outB, orphan} {
		if err := w.Flush(); err != nil {
			return stats, errors.Wrap(err, "flushing output")
		}
	}
	stats.LeftoverA = a.ok
	stats.LeftoverB = b.ok
	return stats, nil
}
