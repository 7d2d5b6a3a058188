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

// Package codeorg prepares corpora of student programs (Code.org curriculum
// exercises) for training sequence models.
//
// It loads raw program strings (optionally with human annotations), builds a
// token vocabulary from the train split, encodes every program into a
// fixed-length padded sequence of token ids, and tags each program with a
// frequency class -- Head, Body or Tail -- derived from corpus-wide
// occurrence counts ("how Zipfian is this program").
//
// Everything is materialized eagerly and in memory at construction: after
// New returns, a Dataset is immutable and safe for concurrent reads. Use
// Dataset.Batches to plug it into a gomlx train.Loop.
package codeorg

// Split names a partition of a problem's corpus. All splits of one problem
// share the vocabulary built from Train, but not the data.
type Split string

const (
	Train Split = "train"
	Valid Split = "val"
	Test  Split = "test"
	All   Split = "all"
)

// Corpus selects which flavor of data to load for a problem.
type Corpus string

const (
	// Unlabeled is the large pool of raw student submissions.
	Unlabeled Corpus = "unlabeled"

	// Annotated is the small set of submissions with human feedback labels.
	Annotated Corpus = "annotated"

	// Synthetic holds model-generated programs with generated feedback.
	Synthetic Corpus = "synthetic"
)

func (c Corpus) valid() bool {
	return c == Unlabeled || c == Annotated || c == Synthetic
}

// Reserved tokens. They always take the lowest vocabulary ids, in this order:
// padding=0, unknown=1, start-of-sequence=2, end-of-sequence=3.
const (
	PadToken = "<pad>"
	UnkToken = "<unk>"
	SosToken = "<sos>"
	EosToken = "<eos>"
)

// Config collects the tunable knobs of dataset preparation. The zero value is
// not usable; start from DefaultConfig.
type Config struct {
	// MaxSeqLen is the maximum number of program tokens kept per sequence.
	// Encoded sequences are always exactly MaxSeqLen+2 long (room for the
	// start/end markers).
	MaxSeqLen int

	// MinOcc is the vocabulary admission threshold: a token enters the
	// vocabulary only if it occurs strictly more than MinOcc times in the
	// train split.
	MinOcc int

	// TailThreshold: programs observed fewer than TailThreshold times are
	// classified Tail.
	TailThreshold int

	// HeadRank: programs with frequency rank <= HeadRank are classified
	// Head, overriding Tail.
	HeadRank int

	// Reserved lists the special tokens, by role position: padding,
	// unknown, start, end.
	Reserved []string

	// Labels converts raw annotations into label values. Required when
	// loading an annotated corpus, ignored otherwise. See LabelProcessor.
	Labels LabelProcessor
}

// DefaultConfig returns the standard preparation parameters used throughout
// the curriculum experiments.
func DefaultConfig() *Config {
	return &Config{
		MaxSeqLen:     50,
		MinOcc:        3,
		TailThreshold: 3,
		HeadRank:      20,
		Reserved:      []string{PadToken, UnkToken, SosToken, EosToken},
	}
}
