/*
 *	Copyright 2024 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Demo for the codeorg dataset library: generates a small synthetic corpus
// (with --generate), prepares a dataset for one (problem, split) and prints
// corpus statistics and a sample batch.
package main

import (
	"flag"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/codeorg"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

var (
	flagDataDir   = flag.String("data", "~/tmp/codeorg", "Directory with the corpus files.")
	flagCorpus    = flag.String("corpus", "unlabeled", "Corpus to load: unlabeled, annotated or synthetic.")
	flagProblem   = flag.Int("problem", 1, "Id of the problem in the curriculum.")
	flagSplit     = flag.String("split", "train", "Split to load: train, val, test or all.")
	flagMaxSeqLen = flag.Int("max_seq_len", 50, "Maximum number of program tokens kept per sequence.")
	flagMinOcc    = flag.Int("min_occ", 3, "Vocabulary admission threshold (strictly greater than).")
	flagGenerate  = flag.Bool("generate", false, "Generate a synthetic corpus under --data before loading.")
	flagSeed      = flag.Int64("seed", 42, "Seed for --generate.")
	flagBatchSize = flag.Int("batch_size", 4, "Size of the sample batch printed at the end.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	err := exceptions.TryCatch[error](func() { run() })
	if err != nil {
		klog.Fatalf("Failed with error: %+v", err)
	}
}

func run() {
	if *flagGenerate {
		generateCorpus(*flagDataDir, codeorg.Corpus(*flagCorpus), *flagProblem, *flagSeed)
	}

	cfg := codeorg.DefaultConfig()
	cfg.MaxSeqLen = *flagMaxSeqLen
	cfg.MinOcc = *flagMinOcc

	// The vocabulary always comes from the train split; other splits reuse it.
	trainDS := must.M1(codeorg.Load(*flagDataDir, codeorg.Corpus(*flagCorpus), *flagProblem, codeorg.Train, nil, cfg))
	ds := trainDS
	if split := codeorg.Split(*flagSplit); split != codeorg.Train {
		ds = must.M1(codeorg.Load(*flagDataDir, codeorg.Corpus(*flagCorpus), *flagProblem, split, trainDS.Vocab, cfg))
	}

	fmt.Printf("Problem %d, %q split of the %q corpus:\n", ds.Problem, ds.Split, *flagCorpus)
	fmt.Printf("\t%s programs, %s distinct canonical programs\n",
		humanize.Comma(int64(ds.Size())), humanize.Comma(int64(ds.Counts().Len())))
	fmt.Printf("\tvocabulary of %d tokens, sequences of length %d\n", ds.Vocab.Size(), ds.SeqLen())
	fmt.Printf("\tzipf slope: %.3f (ideal Zipf is -1)\n", codeorg.ZipfSlope(ds.Counts(), ds.Ranks()))

	var perClass [3]int
	bar := progressbar.Default(int64(ds.Size()), "scanning records")
	for ii := 0; ii < ds.Size(); ii++ {
		record := must.M1(ds.Get(ii))
		perClass[record.Zipf]++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	for class, count := range perClass {
		fmt.Printf("\t%s: %s programs\n", codeorg.Class(class), humanize.Comma(int64(count)))
	}

	printBatchSample(ds, *flagBatchSize)
}

// printBatchSample yields one batch and prints it, for eyeballing.
func printBatchSample(ds *codeorg.Dataset, batchSize int) {
	batches := must.M1(ds.Batches("sample", batchSize, dtypes.Int32, nil, false))
	_, inputs, labels, err := batches.Yield()
	must.M(err)
	fmt.Printf("\nSample batch of %d:\n", batchSize)
	fmt.Printf("\tsequences=%v\n", inputs[0])
	fmt.Printf("\tlengths=%v\n", inputs[1])
	fmt.Printf("\tlabels=%v\n", labels)
}
