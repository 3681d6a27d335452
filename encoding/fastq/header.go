package fastq

import (
	"bufio"
	"io"
)

// HeaderScanner walks a FASTQ stream yielding only the mate identifier of
// each record. The sequence, separator and quality lines are skipped
// without being retained, so a full-size original read file can be walked
// with O(1) memory. A HeaderScanner is single-pass and not restartable.
//
// A record truncated by end of stream still has its header yielded; only
// the header line itself is validated.
type HeaderScanner struct {
	b   *bufio.Scanner
	id  string
	err error
}

// NewHeaderScanner returns a HeaderScanner reading raw FASTQ data from r.
func NewHeaderScanner(r io.Reader) *HeaderScanner {
	return &HeaderScanner{b: bufio.NewScanner(r)}
}

// Scan advances to the next record, reporting whether a header was read.
func (s *HeaderScanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		s.err = s.b.Err()
		return false
	}
	header := s.b.Text()
	if len(header) == 0 || header[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	s.id = mateID(header)
	for i := 0; i < 3 && s.b.Scan(); i++ {
	}
	if s.err = s.b.Err(); s.err != nil {
		return false
	}
	return true
}

// ID returns the mate identifier of the current record. It is valid until
// the next call to Scan.
func (s *HeaderScanner) ID() string {
	return s.id
}

// Err returns the scanning error, if any. End of stream is not an error.
func (s *HeaderScanner) Err() error {
	return s.err
}
