package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jvilaplana/holdfolio/internal/services"
)

// SyncUpdate reports a stage transition of the running sync.
type SyncUpdate struct {
	Stage    services.Stage
	Progress float64
	Message  string
}

// EndpointUpdate reports the outcome of one upstream fetch.
type EndpointUpdate struct {
	Endpoint string
	Records  int
	Error    error
}

type LogMessage struct {
	Message string
}

// SyncDone signals that the run finished, successfully or not.
type SyncDone struct {
	Err error
}

type endpointStatus struct {
	records int
	err     error
	done    bool
}

type Model struct {
	endpoints []string
	statuses  map[string]*endpointStatus
	stage     services.Stage
	stageMsg  string
	prog      float64
	logs      []string
	spinner   spinner.Model
	progress  progress.Model
	width     int
	height    int
	quit      bool
	done      bool
	runErr    error
}

func NewModel(endpoints []string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	pr := progress.New(progress.WithDefaultGradient())

	statuses := make(map[string]*endpointStatus)
	for _, endpoint := range endpoints {
		statuses[endpoint] = &endpointStatus{}
	}

	return Model{
		endpoints: endpoints,
		statuses:  statuses,
		stage:     services.StageFetch,
		logs:      []string{},
		spinner:   sp,
		progress:  pr,
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 40

	case SyncUpdate:
		m.stage = msg.Stage
		m.stageMsg = msg.Message
		m.prog = msg.Progress

	case EndpointUpdate:
		if status, exists := m.statuses[msg.Endpoint]; exists {
			status.records = msg.Records
			status.err = msg.Error
			status.done = true
		}

	case LogMessage:
		m.logs = append(m.logs, fmt.Sprintf("[%s] %s",
			time.Now().Format("15:04:05"), msg.Message))
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

	case SyncDone:
		m.done = true
		m.runErr = msg.Err
		m.prog = 1.0

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		if progressModel, ok := progressModel.(progress.Model); ok {
			m.progress = progressModel
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quit {
		return "Shutting down...\n"
	}

	var s strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginBottom(1)

	s.WriteString(headerStyle.Render("Holdfolio Sync Monitor"))
	s.WriteString("\n\n")

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	fetched, failed := 0, 0
	for _, status := range m.statuses {
		if !status.done {
			continue
		}
		if status.err != nil {
			failed++
		} else {
			fetched++
		}
	}

	summary := fmt.Sprintf("Endpoints: %d | Fetched: %d | Failed: %d | Stage: %s",
		len(m.endpoints), fetched, failed, m.stage)
	s.WriteString(summaryStyle.Render(summary))
	s.WriteString("\n\n")

	sectionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1).
		Width(m.width - 2)

	var section strings.Builder
	section.WriteString("Endpoint Status\n")
	section.WriteString(strings.Repeat("─", 60) + "\n")

	for _, endpoint := range m.endpoints {
		status := m.statuses[endpoint]

		var line string
		switch {
		case status.err != nil:
			errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
			line = fmt.Sprintf("✗ %-12s %s", endpoint, errorStyle.Render(fmt.Sprintf("Error: %v", status.err)))
		case status.done:
			line = fmt.Sprintf("✓ %-12s %d records", endpoint, status.records)
		default:
			line = fmt.Sprintf("%s %-12s pending", m.spinner.View(), endpoint)
		}

		section.WriteString(line + "\n")
	}

	section.WriteString("\n")
	if m.done {
		if m.runErr != nil {
			failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
			section.WriteString(failedStyle.Render(fmt.Sprintf("Sync failed: %v", m.runErr)))
		} else {
			doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
			section.WriteString(doneStyle.Render("Sync completed"))
		}
	} else {
		section.WriteString(m.progress.ViewAs(m.prog))
		if m.stageMsg != "" {
			messageStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
			section.WriteString(" " + messageStyle.Render(m.stageMsg))
		}
	}

	s.WriteString(sectionStyle.Render(section.String()))
	s.WriteString("\n\n")

	logSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.width - 2).
		Height(8)

	var logSection strings.Builder
	logSection.WriteString("Recent Logs\n")
	for _, log := range m.logs {
		logSection.WriteString(log + "\n")
	}

	s.WriteString(logSectionStyle.Render(logSection.String()))
	s.WriteString("\n\n")

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	s.WriteString(footerStyle.Render("Press 'q' to quit | Logs: logs/holdfolio_*.log"))

	return s.String()
}
