package main

/*
fastq-sync re-syncs two independently filtered paired-end FASTQ files.
Given the two filtered read files and one of the original (unfiltered)
files, reads present in both filtered files are written to the two synced
outputs, and reads that survived filtering in only one of them are salvaged
to an orphans output.

The original file is used as the pairing clock: it contains every possible
read, in the order shared by all files, so all six files can be processed
line by line without holding a single file in memory.
*/

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/tamburinif/bhattlab-workflows/encoding/fastq"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <orig.fq> <reads_1.fq> <reads_2.fq> \
    <reads_1.synced.fq> <reads_2.synced.fq> <orphans.fq>

Re-sync two filtered paired-end FASTQ files. reads_1 and reads_2 are the
filtered files; orig is the unfiltered file for one of the two ends and
must contain every possible read, in the original order. Reads present in
both filtered files are written to reads_1.synced and reads_2.synced, reads
present in only one of them to orphans. Summary counts are printed on
completion.

Any filename ending in .gz is read or written gzip-compressed.
`, os.Args[0])
}

// syncPaths names the six files of one invocation.
type syncPaths struct {
	orig, readsA, readsB      string
	syncedA, syncedB, orphans string
}

// openReads opens path for reading, transparently decompressing by
// filename.
func openReads(ctx context.Context, path string) (io.Reader, func(context.Context) error, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	r := io.Reader(f.Reader(ctx))
	if u := compress.NewReaderPath(r, f.Name()); u != nil {
		r = u
	}
	return r, f.Close, nil
}

// createReads opens path for writing, transparently compressing by
// filename.
func createReads(ctx context.Context, path string) (io.Writer, func(context.Context) error, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if fileio.DetermineType(path) != fileio.Gzip {
		return f.Writer(ctx), f.Close, nil
	}
	gz := gzip.NewWriter(f.Writer(ctx))
	closer := func(ctx context.Context) error {
		e := errors.Once{}
		e.Set(gz.Close())
		e.Set(f.Close(ctx))
		return e.Err()
	}
	return gz, closer, nil
}

func run(ctx context.Context, paths syncPaths, stdout io.Writer) (err error) {
	var closers []func(context.Context) error
	defer func() {
		e := errors.Once{}
		e.Set(err)
		for i := len(closers) - 1; i >= 0; i-- {
			e.Set(closers[i](ctx))
		}
		err = e.Err()
	}()
	openIn := func(path string) (r io.Reader) {
		if err != nil {
			return nil
		}
		var closer func(context.Context) error
		if r, closer, err = openReads(ctx, path); err == nil {
			closers = append(closers, closer)
		}
		return r
	}
	openOut := func(path string) (w io.Writer) {
		if err != nil {
			return nil
		}
		var closer func(context.Context) error
		if w, closer, err = createReads(ctx, path); err == nil {
			closers = append(closers, closer)
		}
		return w
	}
	var (
		orig    = openIn(paths.orig)
		readsA  = openIn(paths.readsA)
		readsB  = openIn(paths.readsB)
		syncedA = openOut(paths.syncedA)
		syncedB = openOut(paths.syncedB)
		orphans = openOut(paths.orphans)
	)
	if err != nil {
		return err
	}
	stats, err := fastq.SyncPairs(orig, readsA, readsB, syncedA, syncedB, orphans)
	if err != nil {
		return err
	}
	if stats.LeftoverA {
		log.Error.Printf("%s still has reads after %s was exhausted; are the files ordered consistently?", paths.readsA, paths.orig)
	}
	if stats.LeftoverB {
		log.Error.Printf("%s still has reads after %s was exhausted; are the files ordered consistently?", paths.readsB, paths.orig)
	}
	fmt.Fprintf(stdout, "Total %d reads from forward read file.\n", stats.TotalA)
	fmt.Fprintf(stdout, "Total %d reads from reverse read file.\n", stats.TotalB)
	fmt.Fprintf(stdout, "Synced read files contain %d reads.\n", stats.Kept)
	fmt.Fprintf(stdout, "Put %d forward reads in the orphans file.\n", stats.OrphanedA)
	fmt.Fprintf(stdout, "Put %d reverse reads in the orphans file.\n", stats.OrphanedB)
	return nil
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 6 {
		flag.Usage()
		os.Exit(1)
	}
	args := flag.Args()
	paths := syncPaths{
		orig:    args[0],
		readsA:  args[1],
		readsB:  args[2],
		syncedA: args[3],
		syncedB: args[4],
		orphans: args[5],
	}
	ctx := vcontext.Background()
	if err := run(ctx, paths, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
