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

package codeorg

import (
	"fmt"
	"path"

	mldata "github.com/gomlx/gomlx/ml/data"
	"github.com/pkg/errors"
)

var (
	// ErrVocabRequiresTrain is returned when a Dataset is created without a
	// vocabulary for any split other than Train: the vocabulary can only be
	// built from training data, other splits must reuse it.
	ErrVocabRequiresTrain = errors.New("vocabulary can only be created for the train split")

	// ErrLabelProcessorRequired is returned when the loaded split carries
	// annotations but Config.Labels is nil. Converting raw annotations to
	// label values is deliberately left to the caller -- an extension point,
	// not something to silently work around.
	ErrLabelProcessorRequired = errors.New("split has annotations but no LabelProcessor was configured")
)

// LabelProcessor converts the raw annotations of an annotated corpus into
// label values usable for training. The core dataset depends only on this
// interface; concrete labeling schemes live with the experiments using them.
type LabelProcessor interface {
	Process(raw []string) ([]float32, error)
}

// Record is the unit returned by Dataset.Get: one program, encoded.
type Record struct {
	// Sequence is the encoded program, exactly MaxSeqLen+2 ids. It is a view
	// into the dataset's storage -- read-only.
	Sequence []int32

	// Length is the unpadded prefix length of Sequence, in [2, MaxSeqLen+2].
	Length int

	// Label is the processed label. Only meaningful when Dataset.Labeled().
	Label float32

	// Zipf is the frequency class of the program.
	Zipf Class
}

// Dataset holds one (problem, split) fully prepared for training: encoded
// sequences, true lengths, frequency classes and optional labels, all
// randomly indexable through Get.
//
// Construction does all the work eagerly -- count aggregation, ranking and
// classification, vocabulary build (train split only) and sequence encoding.
// After New returns the Dataset never changes, so any number of goroutines
// may call Get concurrently without locking.
type Dataset struct {
	// Problem is the id of the exercise in the curriculum.
	Problem int

	// Split is the partition this dataset was loaded from.
	Split Split

	// Vocab is the vocabulary used to encode the sequences: either the one
	// passed to New, or freshly built from this (train) split.
	Vocab *Vocab

	cfg      Config
	programs []string
	seqs     []int32 // row-major, [len(programs), cfg.MaxSeqLen+2]
	lengths  []int32
	labels   []float32 // nil when the split carries no annotations
	counts   *CountMap
	ranks    RankMap
	zipf     ZipfMap
}

// New loads and prepares one (problem, split) from store. A nil vocab is only
// allowed for the Train split, and triggers a vocabulary build; every other
// split must reuse a previously built vocabulary. A nil cfg means
// DefaultConfig.
func New(store Store, problem int, split Split, vocab *Vocab, cfg *Config) (*Dataset, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	raw, err := store.Split(split)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading %q split of problem %d", split, problem)
	}
	if raw.Programs == nil {
		return nil, errors.Wrapf(ErrDataNotFound, "%q split of problem %d has no \"programs\"", split, problem)
	}

	sources, err := store.Sources(problem)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading sources of problem %d", problem)
	}
	counts, err := store.Counts(problem)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading counts of problem %d", problem)
	}

	ds := &Dataset{
		Problem:  problem,
		Split:    split,
		Vocab:    vocab,
		cfg:      *cfg,
		programs: raw.Programs,
	}
	ds.counts = AggregateCounts(sources, counts)
	ds.ranks = BuildRankMap(ds.counts)
	ds.zipf = BuildZipfMap(ds.counts, ds.ranks, cfg)

	if ds.Vocab == nil {
		if split != Train {
			return nil, errors.Wrapf(ErrVocabRequiresTrain, "split is %q", split)
		}
		ds.Vocab = BuildVocab(raw.Programs, cfg)
	}

	rowLen := cfg.MaxSeqLen + 2
	ds.seqs = make([]int32, len(raw.Programs)*rowLen)
	ds.lengths = make([]int32, len(raw.Programs))
	for ii, program := range raw.Programs {
		seq, length := ds.Vocab.Encode(program, cfg.MaxSeqLen)
		copy(ds.seqs[ii*rowLen:], seq)
		ds.lengths[ii] = int32(length)
	}

	if raw.Labels != nil {
		if cfg.Labels == nil {
			return nil, errors.Wrapf(ErrLabelProcessorRequired, "%q split of problem %d", split, problem)
		}
		ds.labels, err = cfg.Labels.Process(raw.Labels)
		if err != nil {
			return nil, errors.WithMessagef(err, "processing labels of %q split of problem %d", split, problem)
		}
		if len(ds.labels) != len(ds.programs) {
			return nil, errors.Errorf("LabelProcessor returned %d labels for %d programs", len(ds.labels), len(ds.programs))
		}
	}
	return ds, nil
}

// Load is a convenience wrapper over New using the conventional directory
// layout `{baseDir}/{corpus}/problem-{problem}` with a DirStore.
func Load(baseDir string, corpus Corpus, problem int, split Split, vocab *Vocab, cfg *Config) (*Dataset, error) {
	if !corpus.valid() {
		return nil, errors.Errorf("unknown corpus %q: choose unlabeled, annotated or synthetic", corpus)
	}
	dir := path.Join(mldata.ReplaceTildeInDir(baseDir), string(corpus), fmt.Sprintf("problem-%d", problem))
	return New(NewDirStore(dir), problem, split, vocab, cfg)
}

// Size returns the number of programs in this split.
func (ds *Dataset) Size() int { return len(ds.programs) }

// Labeled reports whether this split carries labels. It is a property of the
// whole split, decided at load time.
func (ds *Dataset) Labeled() bool { return ds.labels != nil }

// SeqLen returns the constant length of every encoded sequence,
// MaxSeqLen+2.
func (ds *Dataset) SeqLen() int { return ds.cfg.MaxSeqLen + 2 }

// Counts returns the aggregated per-canonical-program occurrence counts.
func (ds *Dataset) Counts() *CountMap { return ds.counts }

// Ranks returns the frequency rank per canonical program.
func (ds *Dataset) Ranks() RankMap { return ds.ranks }

// row returns the encoded sequence of program index -- a view, read-only.
func (ds *Dataset) row(index int) []int32 {
	start := index * ds.SeqLen()
	return ds.seqs[start : start+ds.SeqLen()]
}

// Get returns the record at index. It fails for indices outside [0, Size())
// and for programs whose frequency class is unknown -- the class lookup is
// keyed by the raw program string, which must match a canonical program of
// the count map. See Record for what is returned.
func (ds *Dataset) Get(index int) (Record, error) {
	if index < 0 || index >= ds.Size() {
		return Record{}, errors.Errorf("index %d out of range [0, %d)", index, ds.Size())
	}
	program := ds.programs[index]
	class, found := ds.zipf[program]
	if !found {
		return Record{}, errors.Errorf("program %d (%q) does not match any canonical program of the count map, no frequency class for it", index, program)
	}
	record := Record{
		Sequence: ds.row(index),
		Length:   int(ds.lengths[index]),
		Zipf:     class,
	}
	if ds.labels != nil {
		record.Label = ds.labels[index]
	}
	return record, nil
}
