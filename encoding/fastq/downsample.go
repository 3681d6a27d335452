package fastq

import (
	"context"
	"io"
	"math/rand"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Downsample copies a random subset of the read pairs in the files at
// r1Path and r2Path to r1Out and r2Out. Pairs are selected at the given
// sampling rate with a fixed seed, so repeated runs over the same inputs
// select the same pairs. Inputs are decompressed according to their
// filename.
func Downsample(ctx context.Context, rate float64, r1Path, r2Path string, r1Out, r2Out io.Writer) error {
	if rate < 0.0 || rate > 1.0 {
		return errors.New("rate must be between 0 and 1 (inclusive)")
	}
	random := rand.New(rand.NewSource(0))
	w1, w2 := NewWriter(r1Out), NewWriter(r2Out)
	err := forEachPair(ctx, r1Path, r2Path, func(r1, r2 *Read) error {
		if random.Float64() >= rate {
			return nil
		}
		if err := w1.Write(r1); err != nil {
			return errors.Wrap(err, "writing R1 output")
		}
		if err := w2.Write(r2); err != nil {
			return errors.Wrap(err, "writing R2 output")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := w1.Flush(); err != nil {
		return err
	}
	return w2.Flush()
}

// DownsampleToCount downsamples the read pairs in the files at r1Path and
// r2Path to approximately count pairs. The inputs are read twice, once to
// count the pairs and once to sample them, so the paths must be
// re-openable.
func DownsampleToCount(ctx context.Context, count int64, r1Path, r2Path string, r1Out, r2Out io.Writer) error {
	if count <= 0 {
		return errors.New("count must be positive")
	}
	var n int64
	err := forEachPair(ctx, r1Path, r2Path, func(r1, r2 *Read) error {
		n++
		return nil
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	rate := float64(count) / float64(n)
	if rate > 1.0 {
		rate = 1.0
	}
	return Downsample(ctx, rate, r1Path, r2Path, r1Out, r2Out)
}

// forEachPair calls fn for every read pair in the two files, decompressing
// by filename as needed.
func forEachPair(ctx context.Context, r1Path, r2Path string, fn func(r1, r2 *Read) error) (err error) {
	var in1, in2 file.File
	if in1, err = file.Open(ctx, r1Path); err != nil {
		return err
	}
	defer func() {
		if cerr := in1.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if in2, err = file.Open(ctx, r2Path); err != nil {
		return err
	}
	defer func() {
		if cerr := in2.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	var (
		r1R io.Reader = in1.Reader(ctx)
		r2R io.Reader = in2.Reader(ctx)
	)
	if u := compress.NewReaderPath(r1R, in1.Name()); u != nil {
		r1R = u
	}
	if u := compress.NewReaderPath(r2R, in2.Name()); u != nil {
		r2R = u
	}
	sc := NewPairScanner(r1R, r2R)
	var r1, r2 Read
	for sc.Scan(&r1, &r2) {
		if err = fn(&r1, &r2); err != nil {
			return err
		}
	}
	return sc.Err()
}
