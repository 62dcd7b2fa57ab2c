package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/infblueocean/ranker/internal/input"
	"github.com/infblueocean/ranker/internal/logging"
	"github.com/infblueocean/ranker/internal/otel"
	"github.com/infblueocean/ranker/internal/share"
)

func runRoot(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	tiers, _ := cmd.Flags().GetBool("tiers")
	token, _ := cmd.Flags().GetString("token")
	if file != "" && token != "" {
		return fmt.Errorf("--file and --token cannot be combined")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cfg := e.appConfig()
	if cmd.Flags().Changed("tiers") {
		cfg.TierMode = tiers
	}

	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read items: %w", err)
		}
		parsed, err := input.Parse(string(data), cfg.TierMode)
		if err != nil {
			// Let the user fix the list in the editor.
			cfg.Text = string(data)
			break
		}
		if len(parsed.Duplicates) > 0 {
			logging.Info("ignored duplicate items", "file", file, "count", len(parsed.Duplicates))
		}
		cfg.Items, cfg.Tiers = parsed.Items, parsed.Tiers

	case token != "":
		d, err := share.Decode(token)
		if err != nil {
			e.events.Emit(otel.Event{Kind: otel.KindShareDecodeError, Level: otel.LevelWarn, Comp: "cli", Err: err.Error()})
			return err
		}
		e.events.Emit(otel.Event{Kind: otel.KindShareDecode, Level: otel.LevelInfo, Comp: "cli", Items: len(d.Items), Cursor: len(d.Log)})
		cfg.Session = d.Session()
		cfg.SessionID = e.knownSessionID(cfg.Session)
		if cfg.SessionID == "" {
			cfg.SessionID = uuid.NewString()
		}
	}

	return e.runApp(cfg)
}
