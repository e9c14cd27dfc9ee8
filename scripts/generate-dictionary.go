//go:build ignore

// Package main generates a synthetic word list for benchmarking wordseq.
// Usage: go run scripts/generate-dictionary.go -words 200000 -output testdata/bench/dictionary.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

var (
	numWords  = flag.Int("words", 200000, "Number of words to generate")
	outputDir = flag.String("output", "testdata/bench/dictionary.txt", "Output file")
	seed      = flag.Uint64("seed", 42, "Random seed for reproducibility")
)

// Stems give the list realistic sharing of sequences between words.
var stems = []string{
	"arrow", "carrot", "stream", "dream", "give", "time", "mean", "light",
	"night", "sound", "ground", "paper", "water", "order", "other", "inter",
	"state", "point", "house", "place",
}

var (
	prefixes = []string{"", "", "", "re", "un", "in", "pre", "over", "out", "sub"}
	suffixes = []string{"", "", "s", "ed", "ing", "er", "ly", "ness", "able", "ment"}
)

// noise makes some words that contain digits, apostrophes or mixed case.
var noise = []func(string) string{
	func(w string) string { return w },
	func(w string) string { return w },
	func(w string) string { return w },
	func(w string) string { return strings.ToUpper(w[:1]) + w[1:] },
	func(w string) string { return w + "'s" },
	func(w string) string { return "2" + w },
}

func main() {
	flag.Parse()

	r := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	if err := os.MkdirAll(filepath.Dir(*outputDir), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < *numWords; i++ {
		fmt.Fprintln(w, word(r))
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d words in %s\n", *numWords, *outputDir)
}

func word(r *rand.Rand) string {
	var b strings.Builder
	b.WriteString(prefixes[r.IntN(len(prefixes))])
	b.WriteString(stems[r.IntN(len(stems))])
	// A random tail keeps most sequences rare.
	for n := r.IntN(4); n > 0; n-- {
		b.WriteByte(byte('a' + r.IntN(26)))
	}
	b.WriteString(suffixes[r.IntN(len(suffixes))])
	return noise[r.IntN(len(noise))](b.String())
}
