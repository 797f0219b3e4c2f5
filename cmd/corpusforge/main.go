// Command corpusforge crawls Wikipedia, extracts and cleans article
// text, deduplicates near-identical paragraphs, segments sentences,
// and induces a byte-pair-encoding vocabulary to tokenize the result —
// one subcommand per pipeline stage, plus a pipeline command that
// chains all of them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
