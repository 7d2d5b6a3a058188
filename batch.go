package codeorg

import (
	"io"
	"math/rand"
	"sync"

	"github.com/gomlx/gomlx/ml/train"
	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// BatchDataset adapts a prepared Dataset to gomlx's train.Dataset contract,
// yielding batches of encoded sequences. It can be fed to a train.Loop or
// wrapped in data.CustomParallel.
//
// Yielded inputs are `[sequences (int32)[batch, MaxSeqLen+2],
// lengths (int32)[batch]]`. Yielded labels are `[zipf [batch]]` for
// unlabeled corpora, `[label [batch], zipf [batch]]` for annotated ones,
// cast to the requested label dtype.
type BatchDataset struct {
	ds         *Dataset
	name       string
	batchSize  int
	labelDType dtypes.DType
	infinite   bool
	classes    []int32

	// mu protects the batch cursor, the only mutable state, so Yield can be
	// called concurrently.
	mu      sync.Mutex
	pos     int
	shuffle *rand.Rand
	indices []int
}

var _ train.Dataset = &BatchDataset{}

// Batches creates a train.Dataset yielding batches of batchSize examples.
// A nil shuffle yields examples in order. If infinite, the dataset reshuffles
// and starts over instead of reporting io.EOF at the end of an epoch; only
// full batches are yielded then, so up to batchSize-1 examples are skipped
// per epoch. In finite mode the last batch of the epoch may be shorter.
//
// It fails if batchSize is not in [1, ds.Size()], or if any program of ds
// has no frequency class (see Dataset.Get).
func (ds *Dataset) Batches(name string, batchSize int, labelDType dtypes.DType, shuffle *rand.Rand, infinite bool) (*BatchDataset, error) {
	if batchSize <= 0 || batchSize > ds.Size() {
		return nil, errors.Errorf("batch size must be in [1, %d], got %d", ds.Size(), batchSize)
	}
	classes := make([]int32, ds.Size())
	for ii := range classes {
		record, err := ds.Get(ii)
		if err != nil {
			return nil, errors.WithMessagef(err, "creating batches %q", name)
		}
		classes[ii] = int32(record.Zipf)
	}
	bds := &BatchDataset{
		ds:         ds,
		name:       name,
		batchSize:  batchSize,
		labelDType: labelDType,
		infinite:   infinite,
		classes:    classes,
		shuffle:    shuffle,
	}
	bds.resetLocked()
	return bds, nil
}

// Name implements train.Dataset.
func (bds *BatchDataset) Name() string { return bds.name }

// Yield implements train.Dataset. If not infinite, the last batch of the
// epoch may be shorter than batchSize, and the one after returns io.EOF.
// It can be called concurrently.
func (bds *BatchDataset) Yield() (spec any, inputs, labels []*tensors.Tensor, err error) {
	bds.mu.Lock()
	if bds.infinite {
		// Infinite mode yields only full batches: reshuffle as soon as the
		// remainder of the epoch no longer fits one.
		if bds.pos+bds.batchSize > bds.ds.Size() {
			bds.resetLocked()
		}
	} else if bds.pos >= bds.ds.Size() {
		bds.mu.Unlock()
		return nil, nil, nil, io.EOF
	}
	end := min(bds.pos+bds.batchSize, bds.ds.Size())
	batch := bds.indices[bds.pos:end]
	bds.pos = end
	bds.mu.Unlock()
	// From here on only immutable state is read, safe concurrently.

	n := len(batch)
	rowLen := bds.ds.SeqLen()
	seqs := make([]int32, n*rowLen)
	for bi, di := range batch {
		copy(seqs[bi*rowLen:], bds.ds.row(di))
	}
	inputs = []*tensors.Tensor{
		tensors.FromFlatDataAndDimensions(seqs, n, rowLen),
		tensors.FromFlatDataAndDimensions(gather(bds.ds.lengths, batch), n),
	}
	if bds.ds.Labeled() {
		labels = append(labels, tensors.FromAnyValue(
			shapes.CastAsDType(gather(bds.ds.labels, batch), bds.labelDType)))
	}
	labels = append(labels, tensors.FromAnyValue(
		shapes.CastAsDType(gather(bds.classes, batch), bds.labelDType)))
	return
}

// Reset implements train.Dataset, restarting the epoch. It can be called
// after io.EOF, e.g. to run another evaluation pass.
func (bds *BatchDataset) Reset() {
	bds.mu.Lock()
	defer bds.mu.Unlock()
	bds.resetLocked()
}

func (bds *BatchDataset) resetLocked() {
	if bds.indices == nil {
		bds.indices = make([]int, bds.ds.Size())
	}
	if bds.shuffle != nil {
		copy(bds.indices, bds.shuffle.Perm(bds.ds.Size()))
	} else {
		for ii := range bds.indices {
			bds.indices[ii] = ii
		}
	}
	bds.pos = 0
}

// IsOwnershipTransferred tells the training loop the yielded tensors are
// owned by the caller.
func (bds *BatchDataset) IsOwnershipTransferred() bool { return true }

// gather returns items[idx[0]], items[idx[1]], ... as a new slice.
func gather[T any, I constraints.Integer](items []T, idx []I) []T {
	selected := make([]T, 0, len(idx))
	for _, ii := range idx {
		selected = append(selected, items[ii])
	}
	return selected
}
