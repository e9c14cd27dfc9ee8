// Package main provides the entry point for the wordseq CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/wordseq/cmd/wordseq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
