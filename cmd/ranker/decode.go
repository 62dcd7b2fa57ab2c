package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/infblueocean/ranker/internal/rank"
	"github.com/infblueocean/ranker/internal/share"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <token|link>",
	Short: "Print the ranking a share token carries",
	Long: `Decode a share token (or a link ending in #token) and print the final
ranking. A token that does not order every item yet prints the next
question instead; open it with --token to keep answering.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := share.Decode(args[0])
		if err != nil {
			return err
		}
		printDecoded(cmd.OutOrStdout(), d)
		return nil
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <token|link> <a> <b>",
	Short: "Explain why two items are ordered the way they are",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := share.Decode(args[0])
		if err != nil {
			return err
		}
		steps, err := d.Session().Explain(args[1], args[2])
		if err != nil {
			return err
		}
		printSteps(cmd.OutOrStdout(), steps, args[1], args[2])
		return nil
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate <n>",
	Short: "Print the most questions ranking n items can take",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("estimate: %q is not a non-negative count", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), rank.EstimateQuestions(n))
		return nil
	},
}

func printDecoded(w io.Writer, d *share.Decoded) {
	if !d.Complete {
		q := d.Session().Next().Question
		fmt.Fprintf(w, "Incomplete ranking of %d items after %d answers.\n", len(d.Items), len(d.Log))
		fmt.Fprintf(w, "Next question: %s or %s?\n", q.A, q.B)
		return
	}
	width := len(strconv.Itoa(len(d.Ranking)))
	for i, item := range d.Ranking {
		fmt.Fprintf(w, "%*d. %s", width, i+1, item)
		if tier, ok := d.Tiers.Tier(item); ok {
			fmt.Fprintf(w, "  [tier %d]", tier)
		}
		fmt.Fprintln(w)
	}
}

func printSteps(w io.Writer, steps []rank.Step, a, b string) {
	if len(steps) == 0 {
		fmt.Fprintf(w, "No direct comparison path between %s and %s.\n", a, b)
		return
	}
	for _, s := range steps {
		if s.Kind == rank.StepTier {
			fmt.Fprintf(w, "%s > %s  (different tiers)\n", s.Better, s.Worse)
			continue
		}
		fmt.Fprintf(w, "%s > %s  (answer #%d)\n", s.Better, s.Worse, s.Question)
	}
}
