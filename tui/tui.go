package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mbolis/quick-swipe/engine"
	"github.com/mbolis/quick-swipe/log"
)

const (
	// KeyStep is the offset added by one arrow key press.
	KeyStep = 25.0
	// CellUnits is the offset of one terminal column dragged with the mouse.
	CellUnits = 10.0

	cardWidth  = 40
	cardMargin = 12
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).Width(cardWidth)
	yesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	noStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("197")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type decisionMsg struct {
	outcome engine.Outcome
	err     error
}

// Model is the bubbletea model of one respondent answering one survey.
type Model struct {
	ctx     context.Context
	session *engine.Session
	gesture engine.Gesture

	progress progress.Model
	spinner  spinner.Model

	saving bool
	notice string
	lastX  int
}

func New(ctx context.Context, session *engine.Session) Model {
	return Model{
		ctx:      ctx,
		session:  session,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(cardWidth)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Run shows the survey full screen until the respondent finishes or quits.
func Run(ctx context.Context, session *engine.Session) error {
	p := tea.NewProgram(New(ctx, session),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(cardWidth, max(10, msg.Width-4))
		return m, nil

	case decisionMsg:
		m.saving = false
		if msg.err != nil {
			log.Debugf("tui.submit: %s", msg.err)
			m.notice = m.noticeFor(msg.err)
			return m, nil
		}
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	if m.session.State().Complete {
		switch msg.String() {
		case "enter", "esc", " ":
			return m, tea.Quit
		}
		return m, nil
	}
	if m.saving {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.drag(-KeyStep)
	case "right", "l":
		m.drag(KeyStep)
	case "enter", " ":
		if answer, ok := m.gesture.Release(); ok {
			return m.submit(answer)
		}
	case "esc":
		m.gesture.Cancel()
	case "y":
		m.gesture.Cancel()
		return m.submit(true)
	case "n":
		m.gesture.Cancel()
		return m.submit(false)
	}
	return m, nil
}

func (m *Model) drag(dx float64) {
	if !m.gesture.Dragging() {
		m.gesture.Press()
	}
	m.gesture.Move(dx)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.saving || m.session.State().Complete {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.gesture.Press()
			m.lastX = msg.X
		}
	case tea.MouseActionMotion:
		if m.gesture.Dragging() {
			m.gesture.Move(float64(msg.X-m.lastX) * CellUnits)
			m.lastX = msg.X
		}
	case tea.MouseActionRelease:
		if !m.gesture.Dragging() {
			return m, nil
		}
		if answer, ok := m.gesture.Release(); ok {
			return m.submit(answer)
		}
	}
	return m, nil
}

func (m Model) submit(answer bool) (tea.Model, tea.Cmd) {
	m.saving = true
	m.notice = ""
	ctx, session := m.ctx, m.session
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		outcome, err := session.Submit(ctx, answer)
		return decisionMsg{outcome: outcome, err: err}
	})
}

func (m Model) noticeFor(err error) string {
	switch {
	case errors.Is(err, engine.ErrAnswerPending):
		label := "NO"
		if answer, _ := m.session.PendingAnswer(); answer {
			label = "YES"
		}
		return fmt.Sprintf("Your %s may already be saved. Answer %s again to continue.", label, label)
	case errors.Is(err, engine.ErrPersistence):
		return "Your answer could not be saved. Please try again."
	case errors.Is(err, engine.ErrDecisionPending):
		return "Still saving your previous answer..."
	default:
		return err.Error()
	}
}

func (m Model) View() string {
	survey := m.session.Survey()
	state := m.session.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render(survey.Title))
	b.WriteString("\n")

	switch {
	case state.Total == 0:
		b.WriteString("This survey has no questions.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	case state.Complete:
		b.WriteString(m.progress.ViewAs(1))
		b.WriteString("\n\n")
		b.WriteString("Thanks for taking part in the survey!\n\n")
		b.WriteString(helpStyle.Render("enter/q quit"))
		return b.String()
	}

	question, _ := m.session.Question()
	b.WriteString(m.progress.ViewAs(float64(state.Index) / float64(state.Total)))
	b.WriteString(fmt.Sprintf("  %d/%d\n\n", state.Index+1, state.Total))

	a := m.gesture.Affordance()
	b.WriteString(m.renderCard(question, a))
	b.WriteString("\n")
	b.WriteString(m.renderHint(a))
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(m.spinner.View() + " Saving...\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString(helpStyle.Render("←/→ drag · enter release · y yes · n no · esc reset · q quit"))
	return b.String()
}

// renderCard shifts the card by the drag offset and fades it as it moves away.
// A terminal cannot rotate text, so the tilt is shown as a slant marker.
func (m Model) renderCard(question string, a engine.Affordance) string {
	shift := int(math.Round(a.Offset / CellUnits))
	margin := min(2*cardMargin, max(0, cardMargin+shift))

	style := cardStyle.MarginLeft(margin)
	if a.Opacity < 0.8 {
		style = style.Faint(true)
	}

	tilt := ""
	switch {
	case a.Rotation >= 1:
		tilt = fmt.Sprintf(" ⟋ %.0f°", a.Rotation)
	case a.Rotation <= -1:
		tilt = fmt.Sprintf(" ⟍ %.0f°", -a.Rotation)
	}
	return style.Render(question + tilt)
}

func (m Model) renderHint(a engine.Affordance) string {
	pad := strings.Repeat(" ", cardMargin)
	switch {
	case a.Offset >= engine.Threshold:
		return pad + yesStyle.Render("release for YES →")
	case a.Offset <= -engine.Threshold:
		return pad + noStyle.Render("← release for NO")
	case a.Offset != 0:
		return pad + helpStyle.Render(fmt.Sprintf("keep dragging (%.0f/%.0f)", math.Abs(a.Offset), engine.Threshold))
	}
	return pad + noStyle.Render("← NO") + strings.Repeat(" ", cardWidth-10) + yesStyle.Render("YES →")
}
