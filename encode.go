package codeorg

import "strings"

// Encode converts a program string into a fixed-length sequence of token ids,
// always exactly maxSeqLen+2 long:
//
//	[SOS] + first maxSeqLen tokens + [EOS] + PAD...
//
// Excess tokens beyond maxSeqLen are dropped (truncation, not sampling).
// Tokens absent from the vocabulary become the unknown token; encoding never
// fails. The returned length is the unpadded prefix length,
// min(len(tokens), maxSeqLen)+2, so it is always in [2, maxSeqLen+2].
func (v *Vocab) Encode(program string, maxSeqLen int) (seq []int32, length int) {
	tokens := strings.Fields(program)
	if len(tokens) > maxSeqLen {
		tokens = tokens[:maxSeqLen]
	}
	length = len(tokens) + 2

	seq = make([]int32, maxSeqLen+2)
	seq[0] = v.SosID()
	for ii, token := range tokens {
		seq[ii+1] = v.ID(token)
	}
	seq[len(tokens)+1] = v.EosID()
	for ii := length; ii < len(seq); ii++ {
		seq[ii] = v.PadID()
	}
	return
}
