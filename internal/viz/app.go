package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/convergent/internal/session"
)

var (
	frameStyle = lipgloss.NewStyle().Padding(1, 2)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// App is an interactive view of one session. It subscribes to the session
// on creation; call Close to unsubscribe.
type App struct {
	sess     *session.Session
	selected int
	status   string
	err      error
	height   int
	showHelp bool
}

func NewApp(s *session.Session) *App {
	a := &App{sess: s, height: 24}
	a.refreshStatus()
	s.AddListener(a)
	return a
}

func (a *App) Close() {
	a.sess.RemoveListener(a)
}

func (a *App) OnInputsChanged() {
	if a.selected >= a.sess.Len() {
		a.selected = a.sess.Len() - 1
	}
	a.status = "inputs changed"
}

func (a *App) OnSettingsChanged() {}

func (a *App) OnDataChanged() { a.refreshStatus() }

func (a *App) OnFinished(bool) { a.refreshStatus() }

func (a *App) refreshStatus() {
	if a.sess.Finished() {
		a.status = fmt.Sprintf("finished after %d convergents", a.sess.NumOutputs())
		return
	}
	a.status = fmt.Sprintf("%d convergents", a.sess.NumOutputs())
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.height = msg.Height
	case tea.KeyMsg:
		a.err = nil
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case " ", "enter":
			a.sess.ComputeMore()
		case "p":
			a.sess.SetShowPivot(!a.sess.Settings().ShowPivot)
		case "+", "=":
			a.err = a.sess.SetOutputPrecision(a.sess.Settings().OutputPrecision + 1)
		case "-", "_":
			a.err = a.sess.SetOutputPrecision(a.sess.Settings().OutputPrecision - 1)
		case "left", "h":
			if a.selected > 0 {
				a.selected--
			}
		case "right", "l":
			if a.selected < a.sess.Len()-1 {
				a.selected++
			}
		case "x":
			a.err = a.sess.SetMaskValue(a.selected, !a.sess.Mask()[a.selected])
		case "r":
			a.sess.Restart()
		case "R":
			a.sess.Reset()
		case "e":
			state, err := a.sess.Encode()
			if err != nil {
				a.err = err
				break
			}
			if state == "" {
				state = "(default state)"
			}
			a.status = "state: " + state
		case "t":
			a.status = "theme: " + NextTheme().Name
		case "?":
			a.showHelp = !a.showHelp
		}
	}
	return a, nil
}

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("convergent"))
	b.WriteString(Subtle.Render("  simultaneous integer approximation"))
	b.WriteString("\n\n")

	// title, status and help take about ten lines; two lines per row
	last := max((a.height-10)/2, 1)
	b.WriteString(RenderTable(a.sess, TableOptions{Selected: a.selected, Last: last}))
	b.WriteString("\n")

	settings := a.sess.Settings()
	b.WriteString(MetricLabel.Render("digits "))
	b.WriteString(MetricValue.Render(strconv.Itoa(settings.OutputPrecision)))
	b.WriteString(MetricLabel.Render("  rows "))
	b.WriteString(MetricValue.Render(strconv.Itoa(a.sess.NumOutputs())))
	if n := a.sess.NumOutputs(); n > 0 {
		b.WriteString(MetricLabel.Render("  rel. error "))
		b.WriteString(MetricValue.Render(strconv.FormatFloat(a.sess.RelativeError(n-1), 'e', 2, 64)))
	}
	b.WriteString("\n")

	switch {
	case a.err != nil:
		b.WriteString(ErrorStyle.Render(a.err.Error()))
	case a.sess.Finished():
		b.WriteString(StatusDone.Render(a.status))
	default:
		b.WriteString(StatusRunning.Render(a.status))
	}

	if a.showHelp {
		b.WriteString(helpStyle.Render("\nspace compute more · p pivots · +/- digits · ←/→ select · x toggle mask\nr restart · R reset · e state · t theme · q quit"))
	} else {
		b.WriteString(helpStyle.Render("\n" + KeyHint.Render("? help · q quit")))
	}

	return frameStyle.Render(b.String())
}

// Run starts the interactive view and blocks until the user quits.
func Run(s *session.Session) error {
	app := NewApp(s)
	defer app.Close()
	if s.NumOutputs() == 0 {
		s.Restart()
	}
	_, err := tea.NewProgram(app).Run()
	return err
}
