package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/infblueocean/ranker/internal/input"
	"github.com/infblueocean/ranker/internal/otel"
	"github.com/infblueocean/ranker/internal/rank"
	"github.com/infblueocean/ranker/internal/share"
)

type screen int

const (
	screenInput screen = iota
	screenQuestion
	screenResults
	screenToken
)

func (s screen) String() string {
	switch s {
	case screenQuestion:
		return "question"
	case screenResults:
		return "results"
	case screenToken:
		return "token"
	}
	return "input"
}

// ObsConfig wires the event journal into the UI. Both fields are optional.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer
}

// AppConfig injects everything the App needs from outside.
// IMPORTANT: App does NOT hold *store.Store. Persistence happens in the
// commands SaveSession returns.
type AppConfig struct {
	// Text pre-fills the item editor.
	Text string
	// Items starts a session immediately when it has two or more entries.
	Items []string
	Tiers rank.Tiers

	// Session resumes a saved or decoded session under SessionID.
	Session   *rank.Session
	SessionID string

	TierMode     bool
	Codec        share.Codec
	BaseURL      string
	ShowProgress bool

	// NewID names fresh sessions. Sessions are not saved when nil.
	NewID func() string
	// SaveSession persists a snapshot and reports back with SessionSaved.
	SaveSession func(id string, s *rank.Session) tea.Cmd
	// CopyText puts text on the clipboard and reports back with LinkCopied.
	CopyText func(text string) tea.Cmd

	Obs ObsConfig
}

// App is the root Bubble Tea model.
type App struct {
	cfg  AppConfig
	keys keyMap
	now  func() time.Time

	help     help.Model
	input    textarea.Model
	token    textinput.Model
	progress progress.Model

	screen    screen
	tierMode  bool
	session   *rank.Session
	sessionID string

	// results screen
	cursor      int
	picked      []string
	explanation []string
	link        string

	notice       string
	err          error
	width        int
	height       int
	ready        bool
	debugVisible bool
}

// NewAppWithConfig creates an App. A preset session or item list skips the
// editor.
func NewAppWithConfig(cfg AppConfig) App {
	ta := textarea.New()
	ta.Placeholder = "One item per line.\nWith tier mode on, prefix lines like \"1. item\"."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(12)
	ta.SetValue(cfg.Text)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "token or link"
	ti.Width = 60

	a := App{
		cfg:      cfg,
		keys:     defaultKeyMap(),
		now:      time.Now,
		help:     help.New(),
		input:    ta,
		token:    ti,
		progress: progress.New(progress.WithGradient("#5A56E0", "#EE6FF8"), progress.WithoutPercentage()),
		tierMode: cfg.TierMode,
	}

	switch {
	case cfg.Session != nil:
		a.session = cfg.Session
		a.sessionID = cfg.SessionID
		a.input.SetValue(input.Format(cfg.Session.Items(), cfg.Session.Tiers()))
		a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSessionResume, Items: len(cfg.Session.Items()), Cursor: cfg.Session.Cursor()})
		a.enterSession()
	case len(cfg.Items) > 0:
		a.input.SetValue(input.Format(cfg.Items, cfg.Tiers))
		a = a.start(cfg.Items, cfg.Tiers)
	}
	return a
}

// Init starts the cursor blink and persists a preset session.
func (a App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.save())
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgHandled, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.input.SetWidth(min(msg.Width-4, 80))
		a.input.SetHeight(max(msg.Height-8, 3))
		a.token.Width = max(msg.Width-6, 10)
		a.progress.Width = min(msg.Width-4, 60)
		a.help.Width = msg.Width
		return a, nil

	case SessionSaved:
		if msg.Err != nil {
			a.err = fmt.Errorf("save session: %w", msg.Err)
		}
		return a, nil

	case LinkCopied:
		if msg.Err != nil {
			a.err = fmt.Errorf("copy link: %w", msg.Err)
		} else {
			a.notice = "Link copied to clipboard"
		}
		return a, nil
	}

	// Cursor blink and other widget messages.
	var cmd tea.Cmd
	switch a.screen {
	case screenInput:
		a.input, cmd = a.input.Update(msg)
	case screenToken:
		a.token, cmd = a.token.Update(msg)
	}
	return a, cmd
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.err = nil
	a.notice = ""

	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}
	if key.Matches(msg, a.keys.Debug) {
		a.debugVisible = !a.debugVisible
		return a, nil
	}
	if a.debugVisible {
		return a, nil
	}

	switch a.screen {
	case screenInput:
		return a.updateInput(msg)
	case screenToken:
		return a.updateToken(msg)
	case screenQuestion:
		return a.updateQuestion(msg)
	case screenResults:
		return a.updateResults(msg)
	}
	return a, nil
}

func (a App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Start):
		parsed, err := input.Parse(a.input.Value(), a.tierMode)
		if err != nil {
			a.err = err
			return a, nil
		}
		a = a.start(parsed.Items, parsed.Tiers)
		if len(parsed.Duplicates) > 0 && a.err == nil {
			a.notice = "Ignored duplicates: " + strings.Join(parsed.Duplicates, ", ")
		}
		return a, a.save()

	case key.Matches(msg, a.keys.ToggleTiers):
		a.tierMode = !a.tierMode
		if a.tierMode {
			a.notice = "Tier mode on"
		} else {
			a.notice = "Tier mode off"
		}
		return a, nil

	case key.Matches(msg, a.keys.OpenToken):
		a.screen = screenToken
		a.input.Blur()
		a.token.Reset()
		return a, a.token.Focus()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateToken(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.screen = screenInput
		a.token.Blur()
		return a, a.input.Focus()

	case key.Matches(msg, a.keys.Submit):
		d, err := share.Decode(a.token.Value())
		if err != nil {
			a.err = err
			a.emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindShareDecodeError, Comp: "ui", Err: err.Error()})
			return a, nil
		}
		a.session = d.Session()
		a.sessionID = a.newID()
		a.input.SetValue(input.Format(d.Items, d.Tiers))
		a.token.Blur()
		a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShareDecode, Items: len(d.Items), Cursor: len(d.Log)})
		a.enterSession()
		return a, a.save()
	}

	var cmd tea.Cmd
	a.token, cmd = a.token.Update(msg)
	return a, cmd
}

func (a App) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.ChooseA):
		return a.answer(true)
	case key.Matches(msg, a.keys.ChooseB):
		return a.answer(false)
	case key.Matches(msg, a.keys.Undo):
		return a.undo()
	case key.Matches(msg, a.keys.Redo):
		return a.redo()
	case key.Matches(msg, a.keys.Share):
		a = a.share()
	}
	return a, nil
}

func (a App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := a.session.Next().Order
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(items)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Select):
		a = a.pick(items[a.cursor])
	case key.Matches(msg, a.keys.Share):
		a = a.share()
	case key.Matches(msg, a.keys.Copy):
		if a.link == "" {
			a = a.share()
		}
		if a.cfg.CopyText != nil {
			return a, a.cfg.CopyText(a.link)
		}
	case key.Matches(msg, a.keys.Undo):
		return a.undo()
	case key.Matches(msg, a.keys.NewRanking):
		a.session = nil
		a.sessionID = ""
		a.screen = screenInput
		a.input.Reset()
		return a, a.input.Focus()
	}
	return a, nil
}

// start begins a fresh session. Errors stay on the input screen.
func (a App) start(items []string, tiers rank.Tiers) App {
	s, err := rank.NewSession(items, tiers)
	if err != nil {
		a.err = err
		return a
	}
	a.session = s
	a.sessionID = a.newID()
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSessionStart, Items: len(items), Extra: map[string]any{"tiers": len(tiers) > 0}})
	a.enterSession()
	return a
}

// enterSession shows the screen matching the session state.
func (a *App) enterSession() {
	a.input.Blur()
	a.cursor = 0
	a.picked = nil
	a.explanation = nil
	a.link = ""
	if !a.session.Next().Complete() {
		a.screen = screenQuestion
		return
	}
	if a.screen != screenResults {
		a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSessionComplete, Items: len(a.session.Items()), Cursor: a.session.Cursor()})
	}
	a.screen = screenResults
}

func (a App) answer(first bool) (tea.Model, tea.Cmd) {
	q := a.session.Next().Question
	if q == nil {
		return a, nil
	}
	better, worse := q.A, q.B
	if !first {
		better, worse = q.B, q.A
	}
	s, err := a.session.Answer(better, worse)
	if err != nil {
		a.err = err
		return a, nil
	}
	a.session = s
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSessionAnswer, Better: better, Worse: worse, Cursor: s.Cursor()})
	a.enterSession()
	return a, a.save()
}

// undo steps back one answer. Before the first answer it returns to the
// editor with the item text intact.
func (a App) undo() (tea.Model, tea.Cmd) {
	s, ok := a.session.Undo()
	if !ok {
		a.screen = screenInput
		return a, a.input.Focus()
	}
	a.session = s
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSessionUndo, Cursor: s.Cursor()})
	a.enterSession()
	return a, a.save()
}

func (a App) redo() (tea.Model, tea.Cmd) {
	s, ok := a.session.Redo()
	if !ok {
		return a, nil
	}
	a.session = s
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSessionRedo, Cursor: s.Cursor()})
	a.enterSession()
	return a, a.save()
}

func (a App) share() App {
	token := a.cfg.Codec.FromSession(a.session)
	a.link = share.Link(a.cfg.BaseURL, token)
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShareEncode, Cursor: a.session.Cursor(), Extra: map[string]any{"length": len(token)}})
	return a
}

// pick toggles item in the explain selection and explains once two are picked.
func (a App) pick(item string) App {
	for i, p := range a.picked {
		if p == item {
			a.picked = append(a.picked[:i:i], a.picked[i+1:]...)
			a.explanation = nil
			return a
		}
	}
	if len(a.picked) == 2 {
		a.picked = nil
	}
	a.picked = append(a.picked, item)
	a.explanation = nil
	if len(a.picked) < 2 {
		return a
	}

	steps, err := a.session.Explain(a.picked[0], a.picked[1])
	if err != nil {
		a.err = err
		return a
	}
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSessionExplain, Comp: "ui", Extra: map[string]any{"steps": len(steps)}})
	a.explanation = formatSteps(steps, a.picked[0], a.picked[1])
	return a
}

// formatSteps renders a justification chain one fact per line.
func formatSteps(steps []rank.Step, a, b string) []string {
	if len(steps) == 0 {
		return []string{fmt.Sprintf("No direct comparison path between %s and %s.", a, b)}
	}
	lines := make([]string, 0, len(steps))
	for _, s := range steps {
		why := "different tiers"
		if s.Kind == rank.StepDecision {
			why = fmt.Sprintf("answer #%d", s.Question)
		}
		lines = append(lines, fmt.Sprintf("%s > %s  (%s)", s.Better, s.Worse, why))
	}
	return lines
}

func (a App) save() tea.Cmd {
	if a.session == nil || a.sessionID == "" || a.cfg.SaveSession == nil {
		return nil
	}
	return a.cfg.SaveSession(a.sessionID, a.session)
}

func (a App) newID() string {
	if a.cfg.NewID == nil {
		return ""
	}
	return a.cfg.NewID()
}

func (a App) emit(e otel.Event) {
	if e.Comp == "" {
		e.Comp = "ui"
	}
	if e.SessionID == "" {
		e.SessionID = a.sessionID
	}
	a.cfg.Obs.Logger.Emit(e)
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.debugVisible {
		return debugOverlay(a.cfg.Obs.Ring, a.width, a.height, a.now()) + "\n" + debugStatusBar(a.width)
	}

	var body string
	switch a.screen {
	case screenInput:
		body = a.viewInput()
	case screenToken:
		body = a.viewToken()
	case screenQuestion:
		body = a.viewQuestion()
	case screenResults:
		body = a.viewResults()
	}

	var status string
	switch {
	case a.err != nil:
		status = ErrorStyle.Render("Error: " + a.err.Error())
	case a.notice != "":
		status = NoticeStyle.Render(a.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, status, a.help.ShortHelpView(a.keys.bindings(a.screen)))
}

func (a App) viewInput() string {
	mode := "off"
	if a.tierMode {
		mode = "on"
	}
	title := TitleStyle.Render("Enter the items to rank")
	return lipgloss.JoinVertical(lipgloss.Left, title, a.input.View(), StatusBarText.Render("tier mode: "+mode))
}

func (a App) viewToken() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("Paste a share token or link"),
		a.token.View())
}

func (a App) viewQuestion() string {
	q := a.session.Next().Question
	if q == nil {
		return ""
	}
	left := lipgloss.JoinVertical(lipgloss.Center, ChoiceStyle.Render(q.A), ChoiceKey.Render("1 / ←"))
	right := lipgloss.JoinVertical(lipgloss.Center, ChoiceStyle.Render(q.B), ChoiceKey.Render("2 / →"))

	asked, total := questionProgress(a.session)
	parts := []string{
		TitleStyle.Render("Which is better?"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		ProgressText.Render(fmt.Sprintf("Question %d of up to %d", asked+1, total)),
	}
	if a.cfg.ShowProgress {
		parts = append(parts, " "+a.progress.ViewAs(float64(asked)/float64(total)))
	}
	if a.session.CanRedo() {
		parts = append(parts, StatusBarText.Render(" r: redo the next answer"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// questionProgress returns how many questions are answered and the upper
// bound to show next to it.
func questionProgress(s *rank.Session) (asked, total int) {
	asked = s.Cursor()
	total = max(s.Estimate(), asked+1)
	return asked, total
}

func (a App) viewResults() string {
	order := a.session.Next().Order
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Final ranking"))
	b.WriteString("\n")
	for i, item := range order {
		style := NormalItem
		switch {
		case i == a.cursor:
			style = SelectedItem
		case a.isPicked(item):
			style = PickedItem
		}
		b.WriteString(RankNumber.Render(fmt.Sprintf("#%d", i+1)))
		b.WriteString(style.Render(item))
		b.WriteString("\n")
	}
	if len(a.explanation) > 0 {
		b.WriteString(ExplainPanel.Render(strings.Join(a.explanation, "\n")))
		b.WriteString("\n")
	}
	if a.link != "" {
		b.WriteString(TokenStyle.Render(a.link))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) isPicked(item string) bool {
	for _, p := range a.picked {
		if p == item {
			return true
		}
	}
	return false
}

// Screen returns the current screen name (for testing).
func (a App) Screen() string { return a.screen.String() }

// Session returns the current session, nil on the editor before starting.
func (a App) Session() *rank.Session { return a.session }

// SessionID returns the ID the current session is saved under.
func (a App) SessionID() string { return a.sessionID }

// Link returns the last generated share link.
func (a App) Link() string { return a.link }

// Err returns the error shown in the status line.
func (a App) Err() error { return a.err }
