// bio-align-trim trims a known adapter/primer sequence out of every read in
// a FASTQ file, using the banded semi-global aligner in package align to
// locate the adapter in each read.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/seqalign/align"
	"github.com/grailbio/seqalign/encoding/fasta"
	"github.com/grailbio/seqalign/encoding/fastq"
)

type flags struct {
	adapterPath  string
	adapterName  string
	input        string
	output       string
	maxErrorRate float64
	minOverlap   int
	indelCost    int
	wildcardRef  bool
	wildcardSeq  bool
	noIndels     bool
	debug        bool
	debugReads   int
}

// req is a unit of work sent to a worker: the read and its position in the
// input stream, so results can be re-ordered before being written out.
type req struct {
	seq  uint64
	read fastq.Read
}

// res is a trimmed read paired with its input position.
type res struct {
	seq  uint64
	read fastq.Read
	kept bool
}

// trim locates adapter in read.Seq and cuts it out.
//
// --no-indels models a 5' adapter (cutadapt's -g): the adapter is expected
// to anchor the read's start, so the kept sequence is everything after the
// matched prefix. The default indel-tolerant path models a 3' adapter
// (cutadapt's -a): the adapter can start anywhere past some genomic prefix,
// so the kept sequence is everything before the match.
func trim(a *align.Aligner, cmp align.CompareConfig, noIndels bool, read fastq.Read) (fastq.Read, bool) {
	var cut int
	keepPrefix := false
	found := false
	if noIndels {
		result := align.ComparePrefixes(a.Reference(), read.Seq, cmp)
		if result.Errors == 0 && result.Matches > 0 {
			cut = result.QueryStop
			found = true
		}
	} else {
		result, ok := a.Locate(read.Seq)
		if ok {
			cut = result.QueryStart
			keepPrefix = true
			found = true
		}
	}
	if !found {
		return read, false
	}
	if keepPrefix {
		read.Seq = read.Seq[:cut]
		if len(read.Qual) > cut {
			read.Qual = read.Qual[:cut]
		}
	} else {
		read.Seq = read.Seq[cut:]
		if len(read.Qual) > cut {
			read.Qual = read.Qual[cut:]
		}
	}
	return read, true
}

func worker(f flags, adapter string, reqCh <-chan req, resCh chan<- res, wg *sync.WaitGroup, debugBudget *int32) {
	defer wg.Done()
	cfg := align.DefaultConfig
	cfg.MinOverlap = f.minOverlap
	cfg.IndelCost = f.indelCost
	cfg.WildcardRef = f.wildcardRef
	cfg.WildcardQuery = f.wildcardSeq
	cfg.Debug = f.debug
	a, err := align.NewAligner(adapter, f.maxErrorRate, cfg)
	if err != nil {
		log.Fatalf("bio-align-trim: failed to build aligner: %v", err)
	}
	cmpCfg := align.CompareConfig{WildcardRef: f.wildcardRef, WildcardQuery: f.wildcardSeq}
	for r := range reqCh {
		trimmed, found := trim(a, cmpCfg, f.noIndels, r.read)
		if f.debug && found {
			if atomic.AddInt32(debugBudget, -1) >= 0 {
				if m := a.DPMatrix(); m != nil {
					fmt.Fprintf(os.Stderr, "read %s:\n%s\n", r.read.ID, m.String())
				}
			}
		}
		resCh <- res{seq: r.seq, read: trimmed, kept: found}
	}
}

func runTrim(ctx context.Context, f flags) error {
	refFile, err := file.Open(ctx, f.adapterPath)
	if err != nil {
		return errors.E(err, "open adapter fasta", f.adapterPath)
	}
	defer refFile.Close(ctx)
	fa, err := fasta.New(refFile.Reader(ctx), fasta.OptClean)
	if err != nil {
		return errors.E(err, "parse adapter fasta", f.adapterPath)
	}
	names := fa.SeqNames()
	if len(names) == 0 {
		return errors.E("adapter fasta has no sequences", f.adapterPath)
	}
	adapterName := f.adapterName
	if adapterName == "" {
		adapterName = names[0]
	}
	adapterLen, err := fa.Len(adapterName)
	if err != nil {
		return errors.E(err, "adapter sequence not found", adapterName)
	}
	adapter, err := fa.Get(adapterName, 0, adapterLen)
	if err != nil {
		return err
	}

	in, err := file.Open(ctx, f.input)
	if err != nil {
		return errors.E(err, "open input fastq", f.input)
	}
	defer in.Close(ctx)
	out, err := file.Create(ctx, f.output)
	if err != nil {
		return errors.E(err, "create output fastq", f.output)
	}
	defer out.Close(ctx)

	scanner := fastq.NewScanner(in.Reader(ctx), fastq.All)
	writer := fastq.NewWriter(out.Writer(ctx))

	reqCh := make(chan req, 1024)
	resCh := make(chan res, 1024)

	parallelism := runtime.NumCPU()
	debugBudget := int32(f.debugReads)
	var wg sync.WaitGroup
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go worker(f, adapter, reqCh, resCh, &wg, &debugBudget)
	}

	var writerWG sync.WaitGroup
	writerWG.Add(1)
	var (
		nRead, nTrimmed uint64
		pending         = make(map[uint64]res)
		nextSeq         uint64
	)
	go func() {
		defer writerWG.Done()
		for r := range resCh {
			pending[r.seq] = r
			for {
				next, ok := pending[nextSeq]
				if !ok {
					break
				}
				delete(pending, nextSeq)
				nextSeq++
				if err := writer.Write(&next.read); err != nil {
					log.Fatalf("bio-align-trim: write output: %v", err)
				}
				if next.kept {
					nTrimmed++
				}
			}
		}
	}()

	var r fastq.Read
	var seq uint64
	for scanner.Scan(&r) {
		reqCh <- req{seq: seq, read: r}
		seq++
		nRead++
	}
	if err := scanner.Err(); err != nil {
		close(reqCh)
		wg.Wait()
		close(resCh)
		writerWG.Wait()
		return errors.E(err, "scan input fastq", f.input)
	}
	close(reqCh)
	wg.Wait()
	close(resCh)
	writerWG.Wait()

	log.Printf("bio-align-trim: processed %d reads, trimmed %d", nRead, nTrimmed)
	return nil
}

func main() {
	var f flags
	flag.StringVar(&f.adapterPath, "adapter-fasta", "", "FASTA file containing the adapter/primer sequence to trim.")
	flag.StringVar(&f.adapterName, "adapter-name", "", "Sequence name within --adapter-fasta to use. Defaults to the first sequence.")
	flag.StringVar(&f.input, "input", "", "Input FASTQ file.")
	flag.StringVar(&f.output, "output", "", "Output (trimmed) FASTQ file.")
	flag.Float64Var(&f.maxErrorRate, "max-error-rate", 0.1, "Maximum fraction of errors allowed in the matched adapter region.")
	flag.IntVar(&f.minOverlap, "min-overlap", align.DefaultConfig.MinOverlap, "Minimum adapter/read overlap length required for a match.")
	flag.IntVar(&f.indelCost, "indel-cost", align.DefaultConfig.IndelCost, "Cost of a single insertion or deletion, relative to a mismatch cost of 1.")
	flag.BoolVar(&f.wildcardRef, "wildcard-ref", false, "Treat IUPAC ambiguity codes in the adapter as wildcards.")
	flag.BoolVar(&f.wildcardSeq, "wildcard-query", false, "Treat IUPAC ambiguity codes in reads as wildcards.")
	flag.BoolVar(&f.noIndels, "no-indels", false, "Only look for an exact-length prefix match (align.ComparePrefixes); disables indel-tolerant search.")
	flag.BoolVar(&f.debug, "debug", false, "Print the DP matrix for the first --debug-reads trimmed reads to stderr.")
	flag.IntVar(&f.debugReads, "debug-reads", 10, "Number of reads to dump DP matrices for when --debug is set.")
	flag.Parse()

	cleanup := grail.Init()
	defer cleanup()

	if f.adapterPath == "" || f.input == "" || f.output == "" {
		log.Fatal("bio-align-trim: --adapter-fasta, --input, and --output are all required")
	}

	ctx := vcontext.Background()
	if err := runTrim(ctx, f); err != nil {
		log.Fatalf("bio-align-trim: %v", err)
	}
}
