package codeorg

import (
	"strings"

	"k8s.io/klog/v2"
)

// Vocab is a bidirectional token <-> id mapping. The reserved tokens always
// occupy the lowest ids (see PadID and friends); corpus tokens follow in the
// order they were first seen in the training data.
//
// A Vocab is built once, from the train split only, and reused read-only for
// every other split.
type Vocab struct {
	// TokenToID maps a token to its id.
	TokenToID map[string]int32

	// Tokens is the inverse mapping: Tokens[id] is the token for id.
	Tokens []string
}

// NewVocab returns a Vocab holding only the reserved tokens, in the given
// role order: padding, unknown, start, end.
func NewVocab(reserved []string) *Vocab {
	v := &Vocab{TokenToID: make(map[string]int32, len(reserved))}
	for _, token := range reserved {
		v.register(token)
	}
	return v
}

// register assigns the next free id to token. Tokens already present keep
// their id.
func (v *Vocab) register(token string) {
	if _, found := v.TokenToID[token]; found {
		return
	}
	v.TokenToID[token] = int32(len(v.Tokens))
	v.Tokens = append(v.Tokens, token)
}

// Size returns the number of tokens in the vocabulary, reserved ones included.
func (v *Vocab) Size() int { return len(v.Tokens) }

// ID returns the id for token, or the unknown-token id if token is not in
// the vocabulary.
func (v *Vocab) ID(token string) int32 {
	if id, found := v.TokenToID[token]; found {
		return id
	}
	return v.UnkID()
}

// The reserved ids, fixed by the role order of Config.Reserved.

func (v *Vocab) PadID() int32 { return 0 }
func (v *Vocab) UnkID() int32 { return 1 }
func (v *Vocab) SosID() int32 { return 2 }
func (v *Vocab) EosID() int32 { return 3 }

// BuildVocab scans the training programs and builds the vocabulary: the
// reserved tokens of cfg first, then every distinct corpus token whose total
// occurrence count is strictly greater than cfg.MinOcc, in first-seen order.
// Rarer tokens are left out entirely and encode to the unknown token.
func BuildVocab(programs []string, cfg *Config) *Vocab {
	w2c := NewCountMap()
	for _, program := range programs {
		for _, token := range strings.Fields(program) {
			w2c.Add(token, 1)
		}
	}

	v := NewVocab(cfg.Reserved)
	for _, token := range w2c.Keys() {
		if count, _ := w2c.Count(token); count > cfg.MinOcc {
			v.register(token)
		}
	}
	klog.V(1).Infof("Vocabulary of %d keys created.", v.Size())
	return v
}
