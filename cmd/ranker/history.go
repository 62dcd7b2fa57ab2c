package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/infblueocean/ranker/internal/model"
	"github.com/infblueocean/ranker/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved sessions, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var resumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Continue a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "Number of sessions to list (default ui.history_limit)")
	historyCmd.Flags().String("delete", "", "Delete the session with this ID")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if id, _ := cmd.Flags().GetString("delete"); id != "" {
		if err := e.st.DeleteSession(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = e.cfg.UI.HistoryLimit
	}
	sessions, err := e.st.ListSessions(limit)
	if err != nil {
		return err
	}
	printHistory(cmd.OutOrStdout(), sessions, time.Now())
	return nil
}

func runResume(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := e.st.GetSession(args[0])
	if err != nil {
		return fmt.Errorf("session %s: %w", args[0], err)
	}
	s, err := model.Restore(rec)
	if err != nil {
		return err
	}

	cfg := e.appConfig()
	cfg.Session = s
	cfg.SessionID = rec.ID
	return e.runApp(cfg)
}

func printHistory(w io.Writer, sessions []store.Session, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No saved sessions.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEMS\tANSWERS\tSTATUS\tUPDATED\tTITLE")
	for _, s := range sessions {
		status := "in progress"
		if s.Complete {
			status = "complete"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\n",
			s.ID, s.ItemCount, s.Cursor, status, formatAgo(now.Sub(s.Updated)), truncate(s.Title, 40))
	}
	tw.Flush()
}

func formatAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncate shortens a string to n runes, appending "..." if truncated.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
