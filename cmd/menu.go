package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/taskfile"
	"github.com/taskdeck/taskdeck/internal/ui"
)

// Shell is the interactive menu loop. It owns the single live session
// reference and renders store results; all rule enforcement lives in the
// store itself.
type Shell struct {
	store   *store.Store
	logger  *log.Logger
	in      *bufio.Scanner
	out     io.Writer
	session *store.Session

	// dashboard is swappable so tests can run the menu without a TTY.
	dashboard func(ctx context.Context, st *store.Store, sess *store.Session) error
}

// NewShell creates a shell reading menu choices from in and printing to out.
func NewShell(st *store.Store, logger *log.Logger, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		store:     st,
		logger:    logger,
		in:        bufio.NewScanner(in),
		out:       out,
		dashboard: ui.RunDashboard,
	}
}

// Run loops over the menu until the user exits or input ends. Operation
// errors are printed and the loop continues; only input errors and context
// cancellation break it.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if s.session == nil {
			done, err := s.loggedOutMenu()
			if done || err != nil {
				return err
			}
		} else {
			done, err := s.loggedInMenu(ctx)
			if done || err != nil {
				return err
			}
		}
	}
}

func (s *Shell) loggedOutMenu() (done bool, err error) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Welcome to Taskdeck!")
	fmt.Fprintln(s.out, "1. Login")
	fmt.Fprintln(s.out, "2. Register")
	fmt.Fprintln(s.out, "3. Exit")

	choice, ok := s.prompt("Select an option: ")
	if !ok {
		return true, s.in.Err()
	}

	switch choice {
	case "1":
		s.handleLogin()
	case "2":
		s.handleRegister()
	case "3":
		fmt.Fprintln(s.out, "Goodbye!")
		return true, nil
	default:
		fmt.Fprintln(s.out, "Invalid choice")
	}
	return false, nil
}

func (s *Shell) loggedInMenu(ctx context.Context) (done bool, err error) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Taskdeck Menu:")
	fmt.Fprintln(s.out, "1. Add Task")
	fmt.Fprintln(s.out, "2. List Tasks")
	fmt.Fprintln(s.out, "3. Complete Task")
	fmt.Fprintln(s.out, "4. Edit Task")
	fmt.Fprintln(s.out, "5. Delete Task")
	fmt.Fprintln(s.out, "6. Logout")
	fmt.Fprintln(s.out, "7. Dashboard")

	choice, ok := s.prompt("Select an option: ")
	if !ok {
		// Input ended; a plain EOF leaves in.Err() nil.
		return true, s.in.Err()
	}

	switch choice {
	case "1":
		s.handleAdd()
	case "2":
		s.handleList()
	case "3":
		s.handleComplete()
	case "4":
		s.handleEdit()
	case "5":
		s.handleDelete()
	case "6":
		// Dropping the reference is the whole logout; repeating it is a no-op.
		s.session = nil
		fmt.Fprintln(s.out, "Logged out successfully!")
	case "7":
		if err := s.dashboard(ctx, s.store, s.session); err != nil {
			s.printError(err)
		}
	default:
		fmt.Fprintln(s.out, "Invalid choice")
	}
	return false, nil
}

func (s *Shell) handleLogin() {
	username, ok := s.prompt("Username: ")
	if !ok {
		return
	}
	password, ok := s.prompt("Password: ")
	if !ok {
		return
	}

	sess, err := s.store.Login(username, password)
	if err != nil {
		s.printError(err)
		return
	}
	s.session = sess
	s.logger.Debug("login", "user", username, "session", sess.ID)
	fmt.Fprintln(s.out, "Login successful!")
}

func (s *Shell) handleRegister() {
	username, ok := s.prompt("Username: ")
	if !ok {
		return
	}
	password, ok := s.prompt("Password: ")
	if !ok {
		return
	}

	if err := s.store.Register(username, password); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Registration successful!")
}

func (s *Shell) handleAdd() {
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	description, ok := s.prompt("Description: ")
	if !ok {
		return
	}

	if _, err := s.store.Add(s.session, title, description); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Task added successfully!")
}

func (s *Shell) handleList() {
	tasks, err := s.store.List(s.session)
	if err != nil {
		s.printError(err)
		return
	}
	for i := range tasks {
		s.printTask(&tasks[i])
	}
}

func (s *Shell) handleComplete() {
	id, ok := s.promptTaskID()
	if !ok {
		return
	}
	if err := s.store.Complete(s.session, id); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Task marked as completed!")
}

func (s *Shell) handleEdit() {
	// All three lines are read before the id is validated, so a bad id
	// still consumes the same amount of input.
	raw, ok := s.prompt("Task ID: ")
	if !ok {
		return
	}
	title, ok := s.prompt("New Title: ")
	if !ok {
		return
	}
	description, ok := s.prompt("New Description: ")
	if !ok {
		return
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid task ID")
		return
	}

	if err := s.store.Edit(s.session, id, title, description); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Task updated successfully!")
}

func (s *Shell) handleDelete() {
	id, ok := s.promptTaskID()
	if !ok {
		return
	}
	if err := s.store.Delete(s.session, id); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Task deleted successfully!")
}

// prompt prints a label and reads one trimmed line. ok is false when input
// has ended.
func (s *Shell) prompt(label string) (value string, ok bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptTaskID reads a task id, printing "Invalid task ID" on bad input.
func (s *Shell) promptTaskID() (uint64, bool) {
	raw, ok := s.prompt("Task ID: ")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid task ID")
		return 0, false
	}
	return id, true
}

func (s *Shell) printTask(t *taskfile.Task) {
	status := "Pending"
	if t.Completed {
		status = "Completed"
	}
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "ID: %d\n", t.ID)
	fmt.Fprintf(s.out, "Title: %s\n", t.Title)
	fmt.Fprintf(s.out, "Description: %s\n", t.Description)
	fmt.Fprintf(s.out, "Status: %s\n", status)
	fmt.Fprintf(s.out, "Created: %s\n", t.CreatedAt.Time().UTC().Format("2006-01-02 15:04:05 UTC"))
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "Error: %v\n", err)
}
