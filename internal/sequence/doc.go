// Package sequence extracts four-letter alphabetic runs from words and finds
// the runs that occur in exactly one source word.
//
// An Indexer is fed raw lines one at a time. For every four-byte window of a
// line that consists only of ASCII letters, the lowercased window becomes a
// sequence key and the line (with its original casing) joins that key's
// occurrence set. The first word seen for a key is kept as its exemplar.
//
// Once ingestion is finished, UniquePairs and SortedReport return the keys
// whose occurrence set has a single member:
//
//	ix := sequence.New()
//	ix.ProcessAll(slices.Values([]string{"arrows", "carrots"}))
//	for _, p := range ix.SortedReport() {
//	    fmt.Println(p.Sequence, p.Word)
//	}
//
// IndexParallel produces the same result by indexing batches of the input on
// several goroutines and merging the partial indexers by input position.
package sequence
