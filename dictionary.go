package minkowski

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// EOS is the synthetic token surfaced for every newline in the corpus.
const EOS = "</s>"

const (
	hashtableSize = 10000000
	maxTableLoad  = 0.75
)

type entry struct {
	word  string
	count int64
}

// Dictionary maps words to ids and ids to occurrence counts, and extracts
// sub-sampled id sequences from the corpus.  Word ids are assigned in order
// of descending occurrence count after min-count filtering, ties broken by
// order of first occurrence in the corpus.
type Dictionary struct {
	args *Args

	// Open-addressed hash table: word2int maps word hashes to indices of
	// words (so most of its entries are -1).  Collisions are resolved by
	// moving to the next available slot.
	word2int []int32
	words    []entry

	retentionProbas []float64

	size    int32
	nwords  int32
	ntokens int64
}

// NewDictionary returns an empty dictionary configured by args.
func NewDictionary(args *Args) *Dictionary {
	d := &Dictionary{
		args:     args,
		word2int: make([]int32, hashtableSize),
	}
	for i := range d.word2int {
		d.word2int[i] = -1
	}
	return d
}

// NWords returns the number of words in the vocabulary.
func (d *Dictionary) NWords() int32 {
	return d.nwords
}

// NTokens returns the total number of corpus tokens seen while determining
// the vocabulary, including occurrences of words later filtered out.
func (d *Dictionary) NTokens() int64 {
	return d.ntokens
}

// Word returns the word string for the given id.
func (d *Dictionary) Word(id int32) string {
	return d.words[id].word
}

// Counts returns the occurrence count of every word, indexed by id.
func (d *Dictionary) Counts() []int64 {
	counts := make([]int64, len(d.words))
	for i, w := range d.words {
		counts[i] = w.count
	}
	return counts
}

func (d *Dictionary) hash(word []byte) uint32 {
	h := uint32(2166136261)
	for _, b := range word {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}

// find returns the index into word2int of the given word, or, if the word
// is not in the dictionary, the index of the next available slot.
func (d *Dictionary) find(word []byte) int32 {
	idx := int32(d.hash(word) % hashtableSize)
	for d.word2int[idx] != -1 && d.words[d.word2int[idx]].word != string(word) {
		idx = (idx + 1) % hashtableSize
	}
	return idx
}

// recordOccurrence counts one occurrence of the given word, adding it to
// the dictionary if it is not already there.
func (d *Dictionary) recordOccurrence(word []byte) {
	h := d.find(word)
	d.ntokens++
	if d.word2int[h] == -1 {
		d.words = append(d.words, entry{word: string(word), count: 1})
		d.word2int[h] = d.size
		d.size++
	} else {
		d.words[d.word2int[h]].count++
	}
}

// ReadWord extracts the next word (a sequence of bytes unbroken by
// whitespace) from the reader into buf, returning the filled buffer.  A
// single EOS token is extracted when a line break is detected; a line break
// terminating a word is pushed back so that the next call yields EOS.
// Returns false only when the stream is exhausted and no bytes remain.
func (d *Dictionary) ReadWord(r *CorpusReader, buf []byte) ([]byte, bool) {
	buf = buf[:0]
	for {
		c, err := r.ReadByte()
		if err != nil {
			return buf, len(buf) > 0
		}
		switch c {
		case ' ', '\n', '\r', '\t', '\v', '\f', 0:
			if len(buf) == 0 {
				if c == '\n' {
					return append(buf, EOS...), true
				}
				continue
			}
			if c == '\n' {
				r.UnreadByte()
			}
			return buf, true
		default:
			buf = append(buf, c)
		}
	}
}

// DetermineVocabulary counts the occurrences of every token in the corpus,
// then applies min-count filtering and computes the retention probabilities
// used for subsampling.
func (d *Dictionary) DetermineVocabulary(r *CorpusReader) error {
	var buf []byte
	var ok bool
	for {
		buf, ok = d.ReadWord(r, buf)
		if !ok {
			break
		}
		d.recordOccurrence(buf)
		if d.ntokens%1000000 == 0 {
			logger.Infof("Read %dM words", d.ntokens/1000000)
		}
		if float64(d.size) >= maxTableLoad*hashtableSize {
			return errors.New("vocabulary getting too large for hash table: try a higher -min-count")
		}
	}
	d.threshold(int64(d.args.MinCount))
	d.calculateRetentionProbas()
	logger.Infof("Read %dM words", d.ntokens/1000000)
	logger.Infof("Number of words: %d", d.nwords)
	if d.size == 0 {
		return errors.New("empty vocabulary: try a smaller -min-count value")
	}
	return nil
}

// threshold discards all words occurring fewer than t times and reassigns
// ids by descending count, preserving first-occurrence order among ties.
func (d *Dictionary) threshold(t int64) {
	sort.SliceStable(d.words, func(i, j int) bool {
		return d.words[i].count > d.words[j].count
	})
	kept := d.words[:0]
	for _, e := range d.words {
		if e.count >= t {
			kept = append(kept, e)
		}
	}
	d.words = kept
	d.size = 0
	d.nwords = 0
	for i := range d.word2int {
		d.word2int[i] = -1
	}
	for _, e := range d.words {
		h := d.find([]byte(e.word))
		d.word2int[h] = d.size
		d.size++
		d.nwords++
	}
}

func (d *Dictionary) calculateRetentionProbas() {
	d.retentionProbas = make([]float64, d.size)
	for i := range d.retentionProbas {
		if d.args.T > 0 {
			f := float64(d.words[i].count) / float64(d.ntokens)
			proba := math.Sqrt(d.args.T/f) + d.args.T/f
			if proba > 1 {
				proba = 1
			}
			d.retentionProbas[i] = proba
		} else {
			d.retentionProbas[i] = 1
		}
	}
}

// Discard reports whether the word with the given id should be dropped by
// subsampling, given a uniform random outcome in [0, 1).
func (d *Dictionary) Discard(id int32, rand float64) bool {
	return rand > d.retentionProbas[id]
}

// GetLine populates line with the ids of the tokens of the next corpus
// line, applying subsampling, and returns the reused slice together with
// the number of dictionary tokens consumed (regardless of whether they were
// subsequently discarded).  Reading stops at the first newline.  If the
// reader is at end of file on entry, it wraps back to offset 0.
func (d *Dictionary) GetLine(r *CorpusReader, line []int32, rng *rand.Rand) ([]int32, int32) {
	if r.EOF() {
		if err := r.Seek(0); err != nil {
			logger.Fatalf("cannot rewind corpus: %v", err)
		}
	}
	line = line[:0]
	var ntokens int32
	var buf []byte
	var ok bool
	for {
		buf, ok = d.ReadWord(r, buf)
		if !ok {
			break
		}
		wid := d.word2int[d.find(buf)]
		if wid < 0 {
			continue
		}
		ntokens++
		if !d.Discard(wid, rng.Float64()) {
			line = append(line, wid)
		}
		if string(buf) == EOS {
			break
		}
	}
	return line, ntokens
}
