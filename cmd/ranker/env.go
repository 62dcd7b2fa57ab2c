package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/infblueocean/ranker/internal/config"
	"github.com/infblueocean/ranker/internal/logging"
	"github.com/infblueocean/ranker/internal/model"
	"github.com/infblueocean/ranker/internal/otel"
	"github.com/infblueocean/ranker/internal/rank"
	"github.com/infblueocean/ranker/internal/store"
	"github.com/infblueocean/ranker/internal/ui"
)

// clipboardWriteAll is swapped out in tests.
var clipboardWriteAll = clipboard.WriteAll

// loadConfig resolves the data directory and loads config.yaml, applying
// the persistent flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(dataDirFlag)
	if err != nil {
		return nil, err
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// env holds everything a TUI run or a store-backed command needs.
type env struct {
	cfg    *config.Config
	events *otel.Logger
	ring   *otel.RingBuffer
	st     *store.Store
}

// openEnv opens logging, the event journal and the session store.
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.LogDir(), cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	events, err := otel.OpenFile(cfg.EventsPath())
	if err != nil {
		logging.Warn("event journal disabled", "err", err)
		events = otel.NewNullLogger()
	}
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		events.Close()
		logging.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	logging.Info("ranker started", "data_dir", cfg.DataDir, "run", events.RunID())
	return &env{cfg: cfg, events: events, ring: ring, st: st}, nil
}

func (e *env) Close() {
	e.st.Close()
	e.events.Close()
	logging.Close()
}

// appConfig wires the store, clipboard and journal into the TUI.
func (e *env) appConfig() ui.AppConfig {
	return ui.AppConfig{
		TierMode:     e.cfg.TierMode,
		Codec:        e.cfg.Codec(),
		BaseURL:      e.cfg.Share.BaseURL,
		ShowProgress: e.cfg.UI.ShowProgress,
		NewID:        uuid.NewString,
		SaveSession:  e.saveSession,
		CopyText:     copyText,
		Obs:          ui.ObsConfig{Logger: e.events, Ring: e.ring},
	}
}

// saveSession persists a snapshot of s under id.
func (e *env) saveSession(id string, s *rank.Session) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rec := model.Record(id, "", s, e.cfg.Codec())
		if err := e.st.SaveSession(rec); err != nil {
			logging.Error("save session failed", "id", id, "err", err)
			e.events.Emit(otel.Event{Kind: otel.KindStoreError, Level: otel.LevelError, Comp: "store", SessionID: id, Err: err.Error()})
			return ui.SessionSaved{ID: id, Err: err}
		}
		e.events.Emit(otel.Event{
			Kind:      otel.KindStoreSave,
			Level:     otel.LevelDebug,
			Comp:      "store",
			SessionID: id,
			Items:     rec.ItemCount,
			Cursor:    rec.Cursor,
			Dur:       time.Since(start),
		})
		return ui.SessionSaved{ID: id}
	}
}

func copyText(text string) tea.Cmd {
	return func() tea.Msg {
		return ui.LinkCopied{Err: clipboardWriteAll(text)}
	}
}

// knownSessionID returns the ID of a saved session holding the same finished
// ranking as s, so opening a shared link twice does not duplicate it.
func (e *env) knownSessionID(s *rank.Session) string {
	if !s.Next().Complete() {
		return ""
	}
	rec, err := e.st.FindByFingerprint(model.Record("", "", s, e.cfg.Codec()).Fingerprint)
	if errors.Is(err, store.ErrNotFound) {
		return ""
	}
	if err != nil {
		logging.Warn("fingerprint lookup failed", "err", err)
		return ""
	}
	return rec.ID
}

// runApp runs the TUI until the user quits.
func (e *env) runApp(cfg ui.AppConfig) error {
	e.events.Info(otel.KindStartup, "main", "tui")
	app := ui.NewAppWithConfig(cfg)
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err := program.Run()
	if err != nil {
		logging.Error("program failed", "err", err)
		e.events.Error(otel.KindError, "main", err)
	}
	e.events.Info(otel.KindShutdown, "main", "tui")
	return err
}
