// Command ranker ranks a list of items by asking pairwise questions.
//
// Usage:
//
//	ranker                      Open the item editor
//	ranker --file items.txt     Start ranking the lines of a file
//	ranker --token <token>      Open a shared ranking
//	ranker decode <token>       Print the ranking a token carries
//	ranker explain <token> a b  Explain why a and b are ordered as they are
//	ranker history              List saved sessions
//	ranker resume <id>          Continue a saved session
//	ranker estimate <n>         Upper bound on questions for n items
//	ranker events               JSONL event log viewer
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDirFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "ranker",
	Short: "Rank a list by answering pairwise questions",
	Long: `ranker orders a list of items by asking which of two items is better.

Items are entered one per line. With --tiers, lines prefixed "1." "2." ...
are grouped into tiers and only items sharing a tier are compared. Every
answer is saved, so a session can be resumed later, and a finished ranking
can be shared as a compact token.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDirFlag, "data-dir", "", "Data directory (default $RANKER_HOME or ~/.ranker)")
	pf.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	f := rootCmd.Flags()
	f.StringP("file", "f", "", "Read items from a file, one per line")
	f.BoolP("tiers", "t", false, "Parse \"N.\" prefixes as tiers")
	f.String("token", "", "Open a share token or link")

	rootCmd.AddCommand(decodeCmd, explainCmd, estimateCmd, historyCmd, resumeCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ranker: %v\n", err)
		os.Exit(1)
	}
}
