package fastq

import (
	"bufio"
	"errors"
	"io"
)

var (
	// ErrShort is returned when a stream ends in the middle of a record.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when a malformed FASTQ record is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when two paired FASTQ streams contain
	// different numbers of records.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

var errEOF = errors.New("eof")

// Scanner reads FASTQ records from a stream, one four-line record at a
// time. It validates that header lines begin with "@" and separator lines
// with "+", and nothing else (in particular, seq and qual lengths are not
// compared). Scanners are not threadsafe.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner returns a Scanner reading raw FASTQ data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan reads the next record into read, reporting whether a full record was
// read. Once Scan returns false, it never returns true again. Call Err to
// distinguish end of stream from failure.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return false
	}
	id := s.b.Text()
	if len(id) == 0 || id[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	read.ID = id
	var ok bool
	if read.Seq, ok = s.line(); !ok {
		return false
	}
	if read.Unk, ok = s.line(); !ok {
		return false
	}
	if len(read.Unk) == 0 || read.Unk[0] != '+' {
		s.err = ErrInvalid
		return false
	}
	read.Qual, ok = s.line()
	return ok
}

// line reads one non-initial line of a record, so running out of input here
// means the record was truncated.
func (s *Scanner) line() (string, bool) {
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = ErrShort
		}
		return "", false
	}
	return s.b.Text(), true
}

// Err returns the scanning error, if any. End of stream is not an error.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// PairScanner scans two parallel FASTQ streams in lockstep, one read pair
// at a time.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a PairScanner from the provided R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{r1: NewScanner(r1), r2: NewScanner(r2)}
}

// Scan reads the next read pair into r1, r2, reporting whether both reads
// succeeded. The streams must end after the same number of records;
// otherwise Err reports ErrDiscordant.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Err returns the scanning error, if any. It should be checked after Scan
// returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
