package codeorg

import (
	"encoding/gob"
	"fmt"
	"os"
	"path"

	mldata "github.com/gomlx/gomlx/ml/data"
	"github.com/pkg/errors"
)

var (
	// ErrDataNotFound means the backing storage for a split is missing, or
	// the loaded raw data has no programs. Data is assumed static, so there
	// is no point retrying.
	ErrDataNotFound = errors.New("dataset storage not found")

	// ErrMissingData means the auxiliary sources/counts storage needed to
	// build the frequency-class map is missing.
	ErrMissingData = errors.New("sources or counts storage missing")
)

// RawSplit is the raw content of one split as loaded from storage.
type RawSplit struct {
	// Programs holds one program string per example. Required.
	Programs []string

	// Labels holds the raw human annotations, parallel to Programs. Nil for
	// corpora without annotations -- the presence of labels is a property of
	// the whole split, decided here at load time.
	Labels []string
}

// Store gives access to the three logical collections backing one problem's
// corpus. Implementations own the on-disk format.
type Store interface {
	// Split loads the raw programs (and annotations, if any) of one split.
	Split(split Split) (*RawSplit, error)

	// Sources loads the raw program ASTs, keyed by submission id.
	Sources(problem int) (map[int]*AST, error)

	// Counts loads the observed occurrence count per submission id.
	Counts(problem int) (map[int]int, error)
}

// DirStore is a Store reading gob-encoded files from a single directory:
// `{split}.bin`, `sources-{problem}.bin` and `countMap-{problem}.bin`.
// It also has the writer half, used to generate corpora (and by tests).
type DirStore struct {
	// Dir is the directory holding the corpus files.
	Dir string
}

// NewDirStore returns a DirStore rooted at dir. A leading "~" is expanded.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: mldata.ReplaceTildeInDir(dir)}
}

func (s *DirStore) splitPath(split Split) string {
	return path.Join(s.Dir, fmt.Sprintf("%s.bin", split))
}

func (s *DirStore) sourcesPath(problem int) string {
	return path.Join(s.Dir, fmt.Sprintf("sources-%d.bin", problem))
}

func (s *DirStore) countsPath(problem int) string {
	return path.Join(s.Dir, fmt.Sprintf("countMap-%d.bin", problem))
}

// Split implements Store.
func (s *DirStore) Split(split Split) (*RawSplit, error) {
	raw := &RawSplit{}
	if err := s.load(s.splitPath(split), raw, ErrDataNotFound); err != nil {
		return nil, err
	}
	return raw, nil
}

// Sources implements Store.
func (s *DirStore) Sources(problem int) (map[int]*AST, error) {
	var sources map[int]*AST
	if err := s.load(s.sourcesPath(problem), &sources, ErrMissingData); err != nil {
		return nil, err
	}
	return sources, nil
}

// Counts implements Store.
func (s *DirStore) Counts(problem int) (map[int]int, error) {
	var counts map[int]int
	if err := s.load(s.countsPath(problem), &counts, ErrMissingData); err != nil {
		return nil, err
	}
	return counts, nil
}

// load gob-decodes filePath into value. A missing file is reported as
// notFoundErr, anything else as a decoding failure.
func (s *DirStore) load(filePath string, value any, notFoundErr error) error {
	f, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return errors.Wrapf(notFoundErr, "no file %q", filePath)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", filePath)
	}
	defer func() { _ = f.Close() }()

	if err := gob.NewDecoder(f).Decode(value); err != nil {
		return errors.Wrapf(err, "failed to decode %q", filePath)
	}
	return nil
}

// SaveSplit writes the raw content of one split.
func (s *DirStore) SaveSplit(split Split, raw *RawSplit) error {
	return s.save(s.splitPath(split), raw)
}

// SaveSources writes the raw program ASTs of one problem.
func (s *DirStore) SaveSources(problem int, sources map[int]*AST) error {
	return s.save(s.sourcesPath(problem), sources)
}

// SaveCounts writes the per-submission occurrence counts of one problem.
func (s *DirStore) SaveCounts(problem int, counts map[int]int) error {
	return s.save(s.countsPath(problem), counts)
}

func (s *DirStore) save(filePath string, value any) (err error) {
	if !mldata.FileExists(s.Dir) {
		if err = os.MkdirAll(s.Dir, 0777); err != nil {
			return errors.Wrapf(err, "failed to create directory %q", s.Dir)
		}
	}
	var f *os.File
	f, err = os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", filePath)
	}
	defer func() {
		cErr := f.Close()
		if err == nil && cErr != nil {
			err = errors.Wrapf(cErr, "failed to close %q after writing", filePath)
		}
	}()

	if err := gob.NewEncoder(f).Encode(value); err != nil {
		return errors.Wrapf(err, "failed to encode %q", filePath)
	}
	return nil
}
