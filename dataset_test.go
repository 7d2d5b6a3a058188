package codeorg

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passFailLabels is a trivial LabelProcessor for tests: "pass" -> 1, else 0.
type passFailLabels struct{}

func (passFailLabels) Process(raw []string) ([]float32, error) {
	labels := make([]float32, len(raw))
	for ii, annotation := range raw {
		if annotation == "pass" {
			labels[ii] = 1
		}
	}
	return labels, nil
}

const testProblem = 1

// writeTestCorpus writes a small consistent corpus and returns its store.
// Split programs are canonical strings of the sources, so every program has
// a frequency class.
func writeTestCorpus(t *testing.T) *DirStore {
	t.Helper()
	store := NewDirStore(t.TempDir())

	sources := map[int]*AST{
		0: {Type: "program", Color: "#FFD700", Children: []*AST{
			{Type: "maze_moveForward"}, {Type: "maze_moveForward"},
		}},
		1: {Type: "program", Children: []*AST{
			{Type: "maze_turnLeft"},
		}},
		2: {Type: "program", Children: []*AST{ // same canonical form as 0
			{Type: "maze_moveForward", Color: "#32CD32"}, {Type: "maze_moveForward"},
		}},
	}
	counts := map[int]int{0: 6, 1: 2, 2: 4}
	require.NoError(t, store.SaveSources(testProblem, sources))
	require.NoError(t, store.SaveCounts(testProblem, counts))

	forward := "program maze_moveForward maze_moveForward"
	left := "program maze_turnLeft"
	require.NoError(t, store.SaveSplit(Train, &RawSplit{
		Programs: []string{forward, left, forward, forward},
	}))
	require.NoError(t, store.SaveSplit(Valid, &RawSplit{
		Programs: []string{left, forward},
	}))
	return store
}

func TestNewDataset(t *testing.T) {
	store := writeTestCorpus(t)
	cfg := DefaultConfig()
	cfg.MinOcc = 0
	cfg.MaxSeqLen = 5

	ds, err := New(store, testProblem, Train, nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Size())
	assert.False(t, ds.Labeled())
	// program, maze_moveForward, maze_turnLeft + 4 reserved.
	assert.Equal(t, 7, ds.Vocab.Size())

	record, err := ds.Get(0)
	require.NoError(t, err)
	assert.Len(t, record.Sequence, cfg.MaxSeqLen+2)
	assert.Equal(t, 5, record.Length, "SOS + 3 tokens + EOS")
	// Only 2 distinct programs, both rank <= HeadRank: everything is Head.
	assert.Equal(t, Head, record.Zipf)

	_, err = ds.Get(-1)
	assert.Error(t, err)
	_, err = ds.Get(ds.Size())
	assert.Error(t, err)
}

func TestNewDatasetVocabReuse(t *testing.T) {
	store := writeTestCorpus(t)
	cfg := DefaultConfig()
	cfg.MinOcc = 0

	trainDS, err := New(store, testProblem, Train, nil, cfg)
	require.NoError(t, err)

	validDS, err := New(store, testProblem, Valid, trainDS.Vocab, cfg)
	require.NoError(t, err)
	assert.Same(t, trainDS.Vocab, validDS.Vocab, "other splits reuse the train vocabulary")
	assert.Equal(t, 2, validDS.Size())

	// Without a vocabulary, only the train split can build one.
	_, err = New(store, testProblem, Valid, nil, cfg)
	assert.ErrorIs(t, err, ErrVocabRequiresTrain)
}

func TestNewDatasetMissingStorage(t *testing.T) {
	cfg := DefaultConfig()

	// Nothing at all on disk.
	empty := NewDirStore(t.TempDir())
	_, err := New(empty, testProblem, Train, nil, cfg)
	assert.ErrorIs(t, err, ErrDataNotFound)

	// Split present but sources/counts missing.
	store := NewDirStore(t.TempDir())
	require.NoError(t, store.SaveSplit(Train, &RawSplit{Programs: []string{"a"}}))
	_, err = New(store, testProblem, Train, nil, cfg)
	assert.ErrorIs(t, err, ErrMissingData)

	// Split present but without programs.
	store = writeTestCorpus(t)
	require.NoError(t, store.SaveSplit(Test, &RawSplit{Labels: []string{"pass"}}))
	_, err = New(store, testProblem, Test, NewVocab(cfg.Reserved), cfg)
	assert.ErrorIs(t, err, ErrDataNotFound)
}

func TestNewDatasetLabels(t *testing.T) {
	store := writeTestCorpus(t)
	forward := "program maze_moveForward maze_moveForward"
	left := "program maze_turnLeft"
	require.NoError(t, store.SaveSplit(Train, &RawSplit{
		Programs: []string{forward, left},
		Labels:   []string{"pass", "fail"},
	}))

	// Annotated data without a LabelProcessor is a configuration error.
	cfg := DefaultConfig()
	cfg.MinOcc = 0
	_, err := New(store, testProblem, Train, nil, cfg)
	assert.ErrorIs(t, err, ErrLabelProcessorRequired)

	cfg.Labels = passFailLabels{}
	ds, err := New(store, testProblem, Train, nil, cfg)
	require.NoError(t, err)
	require.True(t, ds.Labeled())

	record, err := ds.Get(0)
	require.NoError(t, err)
	assert.Equal(t, float32(1), record.Label)
	record, err = ds.Get(1)
	require.NoError(t, err)
	assert.Equal(t, float32(0), record.Label)
}

func TestDatasetZipfLookupFailsLoudly(t *testing.T) {
	store := writeTestCorpus(t)
	require.NoError(t, store.SaveSplit(Train, &RawSplit{
		Programs: []string{"program maze_moveForward maze_moveForward", "never seen anywhere"},
	}))
	cfg := DefaultConfig()
	cfg.MinOcc = 0
	ds, err := New(store, testProblem, Train, nil, cfg)
	require.NoError(t, err)

	_, err = ds.Get(0)
	assert.NoError(t, err)
	_, err = ds.Get(1)
	assert.Error(t, err, "a program outside the count map has no class, lookup must fail")
}

func TestLoadValidatesCorpus(t *testing.T) {
	_, err := Load(t.TempDir(), Corpus("bogus"), testProblem, Train, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown corpus")

	// A valid corpus kind with no data underneath fails with ErrDataNotFound.
	_, err = Load(t.TempDir(), Unlabeled, testProblem, Train, nil, nil)
	assert.True(t, errors.Is(err, ErrDataNotFound))
}
