package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/vignette-engine/pkg/dog"
	"github.com/jwebster45206/vignette-engine/pkg/level"
	"github.com/jwebster45206/vignette-engine/pkg/session"
)

const (
	// Terminals only report key presses, so a move key keeps the player
	// walking for this long after each press or auto-repeat.
	moveHold = 250 * time.Millisecond

	maxLogLines  = 6
	defaultWidth = 60
)

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	RunLeft  key.Binding
	RunRight key.Binding
	Treat    key.Binding
	Sit      key.Binding
	Stay     key.Binding
	Follow   key.Binding
	Copy     key.Binding
	Restart  key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RunRight, k.Treat, k.Sit, k.Stay, k.Follow, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.RunLeft, k.RunRight},
		{k.Treat, k.Sit, k.Stay, k.Follow},
		{k.Copy, k.Restart, k.Quit},
	}
}

var keys = keyMap{
	Left:     key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),
	RunLeft:  key.NewBinding(key.WithKeys("shift+left", "A"), key.WithHelp("shift+←", "run left")),
	RunRight: key.NewBinding(key.WithKeys("shift+right", "D"), key.WithHelp("shift+→", "run")),
	Treat:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "treat")),
	Sit:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sit")),
	Stay:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "stay")),
	Follow:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "follow")),
	Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy stats")),
	Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dark grey
			Width(10)

	trackStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Italic(true)

	calmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")). // light blue
			Italic(true)

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Bold(true).
			Padding(0, 2)

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true).
			Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal
)

var titleCaser = cases.Title(language.English)

type tickMsg time.Time

// ConsoleUI is the BubbleTea model that plays one level in-process.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config    *ConsoleConfig
	levelName string
	levelCfg  session.Config

	session *session.Session
	snap    session.Snapshot

	pending  []session.Command
	axis     float64
	run      bool
	moveLeft time.Duration

	log    []string
	status string

	fearBar  progress.Model
	trustBar progress.Model
	help     help.Model
	width    int
}

func NewConsoleUI(cfg *ConsoleConfig, levelName string, levelCfg session.Config) (ConsoleUI, error) {
	s, err := session.New(uuid.New(), levelCfg)
	if err != nil {
		return ConsoleUI{}, err
	}

	return ConsoleUI{
		config:    cfg,
		levelName: levelName,
		levelCfg:  levelCfg,
		session:   s,
		snap:      s.Snapshot(),
		fearBar:   progress.New(progress.WithGradient("#FFB347", "#FF3B30"), progress.WithWidth(30)),
		trustBar:  progress.New(progress.WithSolidFill("#34C759"), progress.WithWidth(30)),
		help:      help.New(),
		width:     defaultWidth,
	}, nil
}

func (m ConsoleUI) tick() tea.Cmd {
	return tea.Tick(m.config.TickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.tick()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		barWidth := max(10, min(40, msg.Width-20))
		m.fearBar.Width = barWidth
		m.trustBar.Width = barWidth

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.advance(m.config.TickRate)
		return m, m.tick()
	}

	return m, nil
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.RunLeft):
		m.hold(-1, true)
	case key.Matches(msg, keys.RunRight):
		m.hold(1, true)
	case key.Matches(msg, keys.Left):
		m.hold(-1, false)
	case key.Matches(msg, keys.Right):
		m.hold(1, false)
	case key.Matches(msg, keys.Treat):
		m.pending = append(m.pending, session.CmdTreat)
	case key.Matches(msg, keys.Sit):
		m.pending = append(m.pending, session.CmdSit)
	case key.Matches(msg, keys.Stay):
		m.pending = append(m.pending, session.CmdStay)
	case key.Matches(msg, keys.Follow):
		m.pending = append(m.pending, session.CmdFollow)
	case key.Matches(msg, keys.Copy):
		if err := clipboard.WriteAll(summary(m.levelName, m.snap)); err != nil {
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = "Stats copied to clipboard"
		}
	case key.Matches(msg, keys.Restart):
		if err := m.restart(); err != nil {
			m.status = "Restart failed: " + err.Error()
		}
	}
	return m, nil
}

func (m *ConsoleUI) hold(axis float64, run bool) {
	m.axis = axis
	m.run = run
	m.moveLeft = moveHold
}

func (m *ConsoleUI) restart() error {
	s, err := session.New(uuid.New(), m.levelCfg)
	if err != nil {
		return err
	}
	m.session = s
	m.snap = s.Snapshot()
	m.pending = nil
	m.moveLeft = 0
	m.log = nil
	m.status = "Level restarted"
	return nil
}

// advance runs one fixed step with whatever input has built up since the
// last tick.
func (m *ConsoleUI) advance(dt time.Duration) {
	in := session.Input{Commands: m.pending}
	if m.moveLeft > 0 {
		in.Axis = m.axis
		in.Run = m.run
		m.moveLeft -= dt
	}
	m.pending = nil

	res := m.session.Step(dt.Seconds(), in)
	m.snap = res.Snapshot
	for _, e := range res.Events {
		m.appendLog(describeEvent(e))
	}
}

func (m *ConsoleUI) appendLog(line string) {
	if line == "" {
		return
	}
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m ConsoleUI) View() string {
	var b strings.Builder
	snap := m.snap

	b.WriteString(titleStyle.Render("DOG TRUST · "+levelTitle(m.levelName)) + "\n\n")

	trackWidth := max(20, m.width-6)
	b.WriteString(trackStyle.Render(renderTrack(snap, trackWidth)) + "\n\n")

	b.WriteString(labelStyle.Render("Fear") + m.fearBar.ViewAs(ratio(snap.Fear, m.levelCfg.Fear.Max)))
	if snap.Calming {
		b.WriteString(" " + calmStyle.Render("calming"))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Trust") + m.trustBar.ViewAs(ratio(snap.Trust, m.levelCfg.Trust.Max)) + "\n")
	b.WriteString(labelStyle.Render("Dog") + modeLabel(snap.DogMode, snap.SitVisual) + "\n")
	b.WriteString(labelStyle.Render("Distance") + fmt.Sprintf("%.1fm", snap.Distance) + "\n")
	b.WriteString(labelStyle.Render("Time") + fmt.Sprintf("%.0fs", math.Ceil(snap.TimeRemaining)) + "\n")
	b.WriteString(labelStyle.Render("Treats") + fmt.Sprintf("%d in a row", snap.ConsecutiveTreats))
	if snap.SitUnlocked {
		b.WriteString(" · sit unlocked")
	}
	b.WriteString("\n\n")

	switch snap.Outcome {
	case level.OutcomeWon:
		b.WriteString(winStyle.Render(snap.Message) + "\n\n")
	case level.OutcomeLost:
		b.WriteString(loseStyle.Render(snap.Message) + "\n\n")
	default:
		if snap.Hint != "" {
			b.WriteString(hintStyle.Render(wordwrap.String(snap.Hint, max(20, m.width-2))) + "\n\n")
		}
	}

	for _, line := range m.log {
		b.WriteString(logStyle.Render("• "+line) + "\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(keys))
	return b.String()
}

// renderTrack draws the one-dimensional world: '@' is the player, 'D' the
// dog ('d' while showing a sit), '#' an untouched stimulus and 'x' a spent one.
func renderTrack(snap session.Snapshot, width int) string {
	lo := math.Min(snap.PlayerX, snap.DogX)
	hi := math.Max(snap.PlayerX, snap.DogX)
	for _, st := range snap.Stimuli {
		lo = math.Min(lo, st.X)
		hi = math.Max(hi, st.X)
	}
	lo--
	hi++

	cells := []rune(strings.Repeat("_", width))
	place := func(x float64, r rune) {
		i := int(math.Round((x - lo) / (hi - lo) * float64(width-1)))
		if i >= 0 && i < width {
			cells[i] = r
		}
	}

	for _, st := range snap.Stimuli {
		if st.Fired {
			place(st.X, 'x')
		} else {
			place(st.X, '#')
		}
	}
	if snap.SitVisual {
		place(snap.DogX, 'd')
	} else {
		place(snap.DogX, 'D')
	}
	place(snap.PlayerX, '@')

	return string(cells)
}

func describeEvent(e session.Event) string {
	switch e.Type {
	case session.EventTreatGiven:
		return fmt.Sprintf("Treat given (%v in a row)", e.Data["consecutive_treats"])
	case session.EventTreatMissed:
		return "Too far away to give a treat"
	case session.EventSitUnlocked:
		return "The dog is ready to learn SIT"
	case session.EventSitSucceeded:
		return "The dog sat!"
	case session.EventSitFailed:
		return "The dog didn't sit"
	case session.EventSitLocked:
		return "The dog doesn't know SIT yet"
	case session.EventDogBackOff:
		return "The dog backed away"
	case session.EventDogCommand:
		return fmt.Sprintf("Dog mode: %v", e.Data["mode"])
	case session.EventStimulusContact:
		return fmt.Sprintf("The dog was spooked by the %s", strings.ReplaceAll(fmt.Sprint(e.Data["name"]), "_", " "))
	case session.EventLevelWon, session.EventLevelLost:
		return ""
	}
	return string(e.Type)
}

// summary is the plain text copied to the clipboard.
func summary(levelName string, snap session.Snapshot) string {
	outcome := string(snap.Outcome)
	if snap.LossReason != "" {
		outcome += " (" + string(snap.LossReason) + ")"
	}
	return fmt.Sprintf("Dog Trust · %s\noutcome: %s\nfear: %.0f\ntrust: %.0f\nelapsed: %.1fs\ndistance: %.1fm",
		levelTitle(levelName), outcome, snap.Fear, snap.Trust, snap.Elapsed, snap.Distance)
}

func levelTitle(name string) string {
	if name == "" {
		return "Park"
	}
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

func modeLabel(mode dog.Mode, sitting bool) string {
	if sitting {
		return "Sitting"
	}
	if mode == dog.ModeNone {
		return "Free"
	}
	return titleCaser.String(string(mode))
}

func ratio(v, maxV float64) float64 {
	if maxV <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, v/maxV))
}
