package fastq_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/tamburinif/bhattlab-workflows/encoding/fastq"
)

// fqRecord builds one read for the given end of the pair (1 for forward, 2
// for reverse). The mate identifier is the same for both ends of a pair.
func fqRecord(name string, side int) string {
	return fmt.Sprintf("@%s %d:N:0:ATCACG\nACGTACGT\n+\nEEEEEEEE\n", name, side)
}

func fqFile(side int, names ...string) string {
	b := strings.Builder{}
	for _, name := range names {
		b.WriteString(fqRecord(name, side))
	}
	return b.String()
}

// orphanRec marks which end of the pair an expected orphan came from.
type orphanRec struct {
	name string
	side int
}

func TestSyncPairs(t *testing.T) {
	tests := []struct {
		name                 string
		orig, a, b           []string
		kept, orphA, orphB   int64
		synced               []string
		orphans              []orphanRec
		leftoverA, leftoverB bool
	}{
		{
			name:   "all matched",
			orig:   []string{"r1", "r2", "r3"},
			a:      []string{"r1", "r2", "r3"},
			b:      []string{"r1", "r2", "r3"},
			kept:   3,
			synced: []string{"r1", "r2", "r3"},
		},
		{
			name:    "one-sided filtering",
			orig:    []string{"r1", "r2", "r3"},
			a:       []string{"r1", "r3"},
			b:       []string{"r1", "r2", "r3"},
			kept:    2,
			orphB:   1,
			synced:  []string{"r1", "r3"},
			orphans: []orphanRec{{"r2", 2}},
		},
		{
			name:    "both sides drop different reads",
			orig:    []string{"r1", "r2", "r3", "r4"},
			a:       []string{"r1", "r3", "r4"},
			b:       []string{"r1", "r2", "r4"},
			kept:    2,
			orphA:   1,
			orphB:   1,
			synced:  []string{"r1", "r4"},
			orphans: []orphanRec{{"r2", 2}, {"r3", 1}},
		},
		{
			name:    "empty forward file",
			orig:    []string{"r1"},
			a:       []string{},
			b:       []string{"r1"},
			orphB:   1,
			orphans: []orphanRec{{"r1", 2}},
		},
		{
			name: "both filtered to nothing",
			orig: []string{"r1", "r2"},
			a:    []string{},
			b:    []string{},
		},
		{
			name:   "reads filtered from both candidates are skipped",
			orig:   []string{"r1", "r2", "r3", "r4", "r5"},
			a:      []string{"r2", "r5"},
			b:      []string{"r2", "r5"},
			kept:   2,
			synced: []string{"r2", "r5"},
		},
		{
			name:      "candidate not a subset of original",
			orig:      []string{"r1"},
			a:         []string{"r1", "rX"},
			b:         []string{"r1"},
			kept:      1,
			synced:    []string{"r1"},
			leftoverA: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var syncedA, syncedB, orphans bytes.Buffer
			stats, err := fastq.SyncPairs(
				strings.NewReader(fqFile(1, test.orig...)),
				strings.NewReader(fqFile(1, test.a...)),
				strings.NewReader(fqFile(2, test.b...)),
				&syncedA, &syncedB, &orphans)
			assert.NoError(t, err)

			expect.EQ(t, stats.Kept, test.kept)
			expect.EQ(t, stats.OrphanedA, test.orphA)
			expect.EQ(t, stats.OrphanedB, test.orphB)
			expect.EQ(t, stats.TotalA, test.kept+test.orphA)
			expect.EQ(t, stats.TotalB, test.kept+test.orphB)
			expect.EQ(t, stats.LeftoverA, test.leftoverA)
			expect.EQ(t, stats.LeftoverB, test.leftoverB)

			expect.EQ(t, syncedA.String(), fqFile(1, test.synced...))
			expect.EQ(t, syncedB.String(), fqFile(2, test.synced...))
			wantOrphans := strings.Builder{}
			for _, o := range test.orphans {
				wantOrphans.WriteString(fqRecord(o.name, o.side))
			}
			expect.EQ(t, orphans.String(), wantOrphans.String())
		})
	}
}

func TestSyncPairsDeterminism(t *testing.T) {
	orig := []string{"r1", "r2", "r3", "r4", "r5", "r6"}
	a := []string{"r1", "r3", "r4", "r6"}
	b := []string{"r2", "r3", "r5", "r6"}
	var first [3]string
	for i := 0; i < 2; i++ {
		var syncedA, syncedB, orphans bytes.Buffer
		stats, err := fastq.SyncPairs(
			strings.NewReader(fqFile(1, orig...)),
			strings.NewReader(fqFile(1, a...)),
			strings.NewReader(fqFile(2, b...)),
			&syncedA, &syncedB, &orphans)
		assert.NoError(t, err)
		expect.EQ(t, stats.Kept, int64(2))
		expect.EQ(t, stats.OrphanedA, int64(2))
		expect.EQ(t, stats.OrphanedB, int64(2))
		if i == 0 {
			first = [3]string{syncedA.String(), syncedB.String(), orphans.String()}
			continue
		}
		expect.EQ(t, syncedA.String(), first[0])
		expect.EQ(t, syncedB.String(), first[1])
		expect.EQ(t, orphans.String(), first[2])
	}
}

func TestSyncPairsKeepsRecordsVerbatim(t *testing.T) {
	// Quality strings, separator-line payloads and header comments must
	// survive untouched.
	origRec := "@r1 1:N:0:ATCACG\nACGT\n+\nEEEE\n"
	aRec := "@r1 1:N:0:ATCACG extra comment\nACGTNNNN\n+r1 keep me\n!!!!EEEE\n"
	bRec := "@r1 2:N:0:ATCACG\nTTTT\n+\nFFFF\n"
	var syncedA, syncedB, orphans bytes.Buffer
	stats, err := fastq.SyncPairs(
		strings.NewReader(origRec),
		strings.NewReader(aRec),
		strings.NewReader(bRec),
		&syncedA, &syncedB, &orphans)
	assert.NoError(t, err)
	expect.EQ(t, stats.Kept, int64(1))
	expect.EQ(t, syncedA.String(), aRec)
	expect.EQ(t, syncedB.String(), bRec)
	expect.EQ(t, orphans.String(), "")
}

func TestSyncPairsTruncatedCandidate(t *testing.T) {
	_, err := fastq.SyncPairs(
		strings.NewReader(fqFile(1, "r1")),
		strings.NewReader("@r1 1:N:0:ATCACG\nACGT\n"),
		strings.NewReader(fqFile(2, "r1")),
		&bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.HasSubstr(t, err.Error(), "forward")
}

func TestSyncPairsInvalidOriginal(t *testing.T) {
	_, err := fastq.SyncPairs(
		strings.NewReader("not a fastq header\n"),
		strings.NewReader(fqFile(1, "r1")),
		strings.NewReader(fqFile(2, "r1")),
		&bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.HasSubstr(t, err.Error(), "original")
}
