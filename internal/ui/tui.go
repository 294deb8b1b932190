// Package ui provides the optional terminal dashboard.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/taskfile"
)

// RunDashboard starts a read-only dashboard over the session's tasks.
// It returns when the user quits, handing control back to the menu loop.
func RunDashboard(ctx context.Context, st *store.Store, sess *store.Session) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("dashboard requires a TTY")
	}

	model := newDashboardModel(st, sess)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type dashboardModel struct {
	store        *store.Store
	session      *store.Session
	tasks        []taskfile.Task
	loadErr      error
	hideDone     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newDashboardModel(st *store.Store, sess *store.Session) *dashboardModel {
	return &dashboardModel{
		store:        st,
		session:      sess,
		tickInterval: time.Second,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "c":
			m.hideDone = !m.hideDone
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *dashboardModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.session.Username)

	if m.loadErr != nil {
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	pending, completed := 0, 0
	for _, task := range m.tasks {
		if task.Completed {
			completed++
		} else {
			pending++
		}
	}
	b.WriteString(fmt.Sprintf("  Pending: %d  Completed: %d\n\n", pending, completed))

	if m.hideDone {
		b.WriteString("Pending Tasks (c to show completed)\n\n")
	} else {
		b.WriteString("Tasks\n\n")
	}

	shown := 0
	for i := range m.tasks {
		task := &m.tasks[i]
		if m.hideDone && task.Completed {
			continue
		}
		b.WriteString(formatTask(task))
		b.WriteString("\n")
		shown++
	}
	if shown == 0 {
		b.WriteString("  No tasks to show.\n")
	}
	b.WriteString("\n")

	writeFooter(&b, m.tickInterval)
	return b.String()
}

func (m *dashboardModel) refresh() {
	tasks, err := m.store.List(m.session)
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = tasks
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeTitle(b *strings.Builder, username string) {
	title := fmt.Sprintf("Taskdeck Dashboard (%s)", username)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("r refresh | c toggle completed | q back to menu | Refreshing every %s\n", interval))
}

func formatTask(t *taskfile.Task) string {
	icon := " "
	if t.Completed {
		icon = "x"
	}
	line := fmt.Sprintf("  [%s] #%d %s", icon, t.ID, t.Title)
	if t.Description == "" {
		return line
	}
	desc := t.Description
	if len(desc) > 60 {
		desc = desc[:57] + "..."
	}
	return line + "\n      " + desc
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
