package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	wserrors "github.com/Aman-CERP/wordseq/internal/errors"
	"github.com/Aman-CERP/wordseq/internal/output"
	"github.com/Aman-CERP/wordseq/internal/pipeline"
	"github.com/Aman-CERP/wordseq/internal/sequence"
)

// lookupResult is the --json shape of `wordseq lookup`.
type lookupResult struct {
	Sequence  string   `json:"sequence"`
	Found     bool     `json:"found"`
	Unique    bool     `json:"unique"`
	FirstWord string   `json:"first_word,omitempty"`
	Words     []string `json:"words"`
}

func newLookupCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "lookup <sequence>",
		Short: "Show which words contain a sequence",
		Long: `Index the word list and show every distinct word containing the given
four-letter sequence, the first of those words in input order, and whether the
sequence is unique (appears in exactly one word).

The sequence is matched case-insensitively.`,
		Example: `  wordseq lookup arro
  wordseq lookup TIME -i /usr/share/dict/words --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runLookup(cmd *cobra.Command, query string, jsonOutput bool) error {
	if !sequence.IsSequence(query) {
		return wserrors.ValidationError(fmt.Sprintf("%q is not a sequence", query), nil).
			WithSuggestion("A sequence is exactly four ASCII letters, e.g. 'arro'")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ix, err := pipeline.Index(cmd.Context(), cfg.Input.Path, cfg.Performance.Workers, cfg.Performance.BatchSize)
	if err != nil {
		return err
	}

	res := lookupResult{
		Sequence: strings.ToLower(query),
		Words:    ix.Occurrences(query),
	}
	res.FirstWord, res.Found = ix.FirstWord(query)
	res.Unique = len(res.Words) == 1
	if res.Words == nil {
		res.Words = []string{}
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), res)
	}

	out := output.NewStyled(cmd.OutOrStdout(), noColor(cmd))
	if !res.Found {
		out.Warningf("%s does not occur in %s", res.Sequence, cfg.Input.Path)
		return nil
	}

	out.Header(res.Sequence)
	out.KeyValue("Words", 10, len(res.Words))
	out.KeyValue("First", 10, res.FirstWord)
	out.KeyValue("Unique", 10, res.Unique)
	out.Newline()
	for _, w := range res.Words {
		out.Status("", w)
	}
	return nil
}
