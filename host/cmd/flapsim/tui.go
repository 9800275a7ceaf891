package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"splitflap/config"
	"splitflap/core"
	"splitflap/sim"
)

const (
	headerHeight = 2 // title + blank line
	cellsHeight  = 5 // flap boxes + state line
	statsHeight  = 2
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border

	sampleSet  = "sample"
	triggerSet = "trigger"
)

var stateColors = map[core.BitState]string{
	core.BitUninitialized: "208", // orange
	core.BitSeeking:       "226", // yellow
	core.BitSettled:       "46",  // green
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	flapStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Bold(true).
			Width(3).
			Align(lipgloss.Center)
)

type simModel struct {
	runner  *sim.Runner
	chart   *streamlinechart.Model
	trigger float64
	width   int // terminal width
	height  int // terminal height
	logs    []string
	state   sim.State
	bit     int // bit whose sensor is plotted
	speed   float64

	quitting bool
}

func (m *simModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the runner
type stateMsg sim.State
type logMsg string

func waitForState(r *sim.Runner) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-r.States())
	}
}

func waitForLog(r *sim.Runner) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-r.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *simModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 12 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - cellsHeight - statsHeight - footerHeight - borderSize
	if height < 6 {
		height = 6
	}
	return width, height
}

func (m *simModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func newChart(w, h int) *streamlinechart.Model {
	chart := streamlinechart.New(w, h,
		streamlinechart.WithYRange(0, float64(core.ADCMax)),
	)
	chart.SetDataSetStyles(sampleSet, runes.ThinLineStyle, lipgloss.NewStyle().Foreground(lipgloss.Color("51")))
	chart.SetDataSetStyles(triggerSet, runes.ThinLineStyle, lipgloss.NewStyle().Foreground(lipgloss.Color("240")))
	return &chart
}

func initialModel(r *sim.Runner, cfg *config.Config) simModel {
	trigger := float64(config.DefaultTrigger)
	if len(cfg.Display.Bits) > 0 && cfg.Display.Bits[0].Calibration != nil {
		trigger = float64(cfg.Display.Bits[0].Calibration.Trigger)
	}

	return simModel{
		runner:  r,
		chart:   newChart(80, 12),
		trigger: trigger,
		speed:   cfg.Sim.Speed,
	}
}

func (m simModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.runner),
		waitForLog(m.runner),
	)
}

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			m.selectBit(m.bit - 1)
		case "right", "l":
			m.selectBit(m.bit + 1)
		}
		return m, nil

	case stateMsg:
		m.state = sim.State(msg)
		if m.bit < len(m.state.Bits) {
			m.chart.PushDataSet(sampleSet, float64(m.state.Bits[m.bit].Sample))
			m.chart.PushDataSet(triggerSet, m.trigger)
			m.chart.DrawAll()
		}
		return m, waitForState(m.runner)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.runner)
	}

	return m, nil
}

// selectBit switches the plotted sensor and restarts the plot
func (m *simModel) selectBit(bit int) {
	n := len(m.state.Bits)
	if n == 0 {
		return
	}
	bit = (bit + n) % n
	if bit == m.bit {
		return
	}
	m.bit = bit
	m.chart = newChart(m.chartSize())
}

func (m simModel) View() string {
	if m.quitting {
		return "Simulator stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Split-flap simulator"))
	sb.WriteString(fmt.Sprintf(" - %.1fx  t=%s", m.speed, m.state.Virtual.Truncate(time.Millisecond)))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(renderCells(m.state, m.bit))
	sb.WriteString("\n")

	st := m.state.Stats
	sb.WriteString(statusStyle.Render(fmt.Sprintf("cycles=%d pulses=%d rows=%d sensor faults=%d output faults=%d",
		st.Cycles, st.Pulses, st.Advances, st.SensorFaults, st.OutputFaults)))
	sb.WriteString("\n")

	// Chart
	sb.WriteString(statusStyle.Render(sensorLabel(m.state, m.bit)))
	sb.WriteString("\n")
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

// sensorLabel titles the chart for the selected bit
func sensorLabel(s sim.State, bit int) string {
	if bit >= len(s.Bits) {
		return fmt.Sprintf("hall sensor, bit %d (left/right to change)", bit)
	}
	return fmt.Sprintf("hall sensor, bit %d, %d steps to go (left/right to change)", bit, s.Bits[bit].Remaining)
}

// renderCells draws one box per cell with the symbol physically showing,
// coloured by the cell's state, and the target underneath
func renderCells(s sim.State, selected int) string {
	var boxes []string
	for i, b := range s.Bits {
		shown := byte(' ')
		if i < len(s.Showing) {
			shown = s.Showing[i]
		}
		color := lipgloss.Color(stateColors[b.State])
		box := flapStyle.BorderForeground(color).Render(symbolText(shown))

		label := symbolText(b.Target)
		if i == selected {
			label = "[" + label + "]"
		}
		caption := statusStyle.Width(5).Align(lipgloss.Center).Render(label)
		boxes = append(boxes, lipgloss.JoinVertical(lipgloss.Center, box, caption))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// symbolText renders glyph flaps as their hex code
func symbolText(b byte) string {
	if core.IsPrintable(b) {
		return string(rune(b))
	}
	return fmt.Sprintf("%02X", b)
}
