package fastq

import "strings"

// A Read is a single FASTQ record: a header line (including the leading
// "@"), a sequence line, a separator line (conventionally "+"), and a
// quality line.
type Read struct {
	ID, Seq, Unk, Qual string
}

// MateID returns the identifier a read shares with its mate: the header
// token up to the first space or tab. Both Illumina old-style ("@id/1") and
// new-style ("@id 1:N:0:...") headers carry the pair-identifying part in
// this token.
func (r *Read) MateID() string {
	return mateID(r.ID)
}

func mateID(header string) string {
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i]
	}
	return header
}
