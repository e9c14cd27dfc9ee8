package sequence

import (
	"iter"
	"slices"
	"strings"
)

// WindowSize is the length of an extracted sequence.
const WindowSize = 4

// Pair is a unique sequence together with the only word that produced it.
type Pair struct {
	Sequence string `json:"sequence"`
	Word     string `json:"word"`
}

// entry is the aggregation state for one sequence.
type entry struct {
	words    map[string]struct{}
	first    string
	firstPos int
}

// Indexer aggregates sequences over a stream of words.
// It is not safe for concurrent use.
type Indexer struct {
	entries map[string]*entry
	next    int // input position of the next word
	words   int
}

// New creates an empty Indexer.
func New() *Indexer {
	return newIndexerAt(0)
}

// newIndexerAt creates an Indexer whose first word has input position base.
// Used for batches of a larger stream so positions stay globally ordered.
func newIndexerAt(base int) *Indexer {
	return &Indexer{
		entries: make(map[string]*entry),
		next:    base,
	}
}

// ProcessWord records every alphabetic window of raw.
// A trailing line terminator is trimmed. Words shorter than WindowSize and
// windows containing anything other than ASCII letters are skipped.
func (ix *Indexer) ProcessWord(raw string) {
	pos := ix.next
	ix.next++
	ix.words++

	word := strings.TrimRight(raw, "\r\n")
	if len(word) < WindowSize {
		return
	}

	for i := 0; i+WindowSize <= len(word); i++ {
		window := word[i : i+WindowSize]
		if !IsSequence(window) {
			continue
		}
		ix.add(strings.ToLower(window), word, pos)
	}
}

// ProcessAll feeds each word of the stream to ProcessWord in order.
// The stream is consumed lazily.
func (ix *Indexer) ProcessAll(words iter.Seq[string]) {
	for w := range words {
		ix.ProcessWord(w)
	}
}

// add inserts word into the occurrence set of seq, creating the entry on
// first use. The first-word record is only set at creation.
func (ix *Indexer) add(seq, word string, pos int) {
	e, ok := ix.entries[seq]
	if !ok {
		e = &entry{
			words:    make(map[string]struct{}, 1),
			first:    word,
			firstPos: pos,
		}
		ix.entries[seq] = e
	}
	e.words[word] = struct{}{}
}

// UniquePairs returns the sequences that were produced by exactly one
// distinct word, mapped to that word.
func (ix *Indexer) UniquePairs() map[string]string {
	pairs := make(map[string]string)
	for seq, e := range ix.entries {
		if len(e.words) == 1 {
			pairs[seq] = e.first
		}
	}
	return pairs
}

// SortedReport returns UniquePairs ordered by ascending sequence.
func (ix *Indexer) SortedReport() []Pair {
	unique := ix.UniquePairs()

	keys := make([]string, 0, len(unique))
	for seq := range unique {
		keys = append(keys, seq)
	}
	slices.Sort(keys)

	report := make([]Pair, len(keys))
	for i, seq := range keys {
		report[i] = Pair{Sequence: seq, Word: unique[seq]}
	}
	return report
}

// Occurrences returns the distinct words that produced seq, sorted.
// The lookup is case-insensitive. Returns nil if seq was never recorded.
func (ix *Indexer) Occurrences(seq string) []string {
	e, ok := ix.entries[strings.ToLower(seq)]
	if !ok {
		return nil
	}
	words := make([]string, 0, len(e.words))
	for w := range e.words {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

// FirstWord returns the first word recorded for seq.
func (ix *Indexer) FirstWord(seq string) (string, bool) {
	e, ok := ix.entries[strings.ToLower(seq)]
	if !ok {
		return "", false
	}
	return e.first, true
}

// Len returns the number of distinct sequences recorded.
func (ix *Indexer) Len() int {
	return len(ix.entries)
}

// Words returns the number of lines processed, including skipped ones.
func (ix *Indexer) Words() int {
	return ix.words
}

// Merge folds other into ix. Occurrence sets are unioned and the first-word
// record with the lower input position wins, so merging partial indexers in
// any order gives the same result. other must not be used afterwards.
func (ix *Indexer) Merge(other *Indexer) {
	for seq, oe := range other.entries {
		e, ok := ix.entries[seq]
		if !ok {
			ix.entries[seq] = oe
			continue
		}
		for w := range oe.words {
			e.words[w] = struct{}{}
		}
		if oe.firstPos < e.firstPos {
			e.first = oe.first
			e.firstPos = oe.firstPos
		}
	}
	ix.words += other.words
	if other.next > ix.next {
		ix.next = other.next
	}
}

// IsSequence reports whether s is exactly WindowSize ASCII letters.
// Non-ASCII letters do not qualify.
func IsSequence(s string) bool {
	if len(s) != WindowSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
