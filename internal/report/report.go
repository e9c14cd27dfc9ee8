// Package report writes unique sequence reports.
//
// The canonical form is a pair of aligned line-oriented sinks: line N of the
// sequence sink and line N of the word sink describe the same entry.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	wserrors "github.com/Aman-CERP/wordseq/internal/errors"
	"github.com/Aman-CERP/wordseq/internal/sequence"
)

// WriteAligned writes one sequence per line to seqW and the matching word
// per line to wordW, in report order.
func WriteAligned(seqW, wordW io.Writer, pairs []sequence.Pair) error {
	sb := bufio.NewWriter(seqW)
	wb := bufio.NewWriter(wordW)

	for i, p := range pairs {
		if strings.ContainsAny(p.Word, "\r\n") {
			return wserrors.ValidationError(
				fmt.Sprintf("entry %d: word %q contains a line break", i, p.Word), nil)
		}
		if _, err := sb.WriteString(p.Sequence + "\n"); err != nil {
			return wserrors.OutputError("failed to write sequence", err)
		}
		if _, err := wb.WriteString(p.Word + "\n"); err != nil {
			return wserrors.OutputError("failed to write word", err)
		}
	}

	if err := sb.Flush(); err != nil {
		return wserrors.OutputError("failed to flush sequences", err)
	}
	if err := wb.Flush(); err != nil {
		return wserrors.OutputError("failed to flush words", err)
	}
	return nil
}

// WriteJSON writes the report as a JSON array of {"sequence","word"} objects.
func WriteJSON(w io.Writer, pairs []sequence.Pair) error {
	if pairs == nil {
		pairs = []sequence.Pair{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pairs); err != nil {
		return wserrors.OutputError("failed to encode report", err)
	}
	return nil
}
