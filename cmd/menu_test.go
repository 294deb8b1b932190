package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/taskfile"
)

func newTestShell(t *testing.T, script string) (*Shell, *bytes.Buffer) {
	t.Helper()
	dir, err := taskfile.Open(t.TempDir(), "", "")
	if err != nil {
		t.Fatalf("taskfile.Open failed: %v", err)
	}
	t.Cleanup(func() { dir.Close() })

	st, err := store.Open(dir)
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}

	var out bytes.Buffer
	logger := logging.New(io.Discard, logging.DefaultOptions())
	shell := NewShell(st, logger, strings.NewReader(script), &out)
	return shell, &out
}

// expectInOrder asserts that each want appears in output after the previous one.
func expectInOrder(t *testing.T, output string, wants []string) {
	t.Helper()
	rest := output
	for _, want := range wants {
		idx := strings.Index(rest, want)
		if idx < 0 {
			t.Fatalf("output missing %q (in order)\nfull output:\n%s", want, output)
		}
		rest = rest[idx+len(want):]
	}
}

func TestShellFullScenario(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "pw1", // register alice
		"2", "alice", "pw2", // duplicate register
		"1", "alice", "wrong", // bad login
		"1", "alice", "pw1", // good login
		"1", "Buy milk", "2%  ", // add task (input is trimmed)
		"2",      // list
		"3", "1", // complete task 1
		"2",                // list again
		"6",                // logout
		"2", "bob", "pwb",  // register bob
		"1", "bob", "pwb",  // login bob
		"2",      // list (empty)
		"3", "1", // complete alice's task
		"6", // logout
		"3", // exit
	}, "\n") + "\n"

	shell, out := newTestShell(t, script)
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expectInOrder(t, out.String(), []string{
		"Registration successful!",
		"Error: username already exists",
		"Error: invalid username or password",
		"Login successful!",
		"Task added successfully!",
		"ID: 1",
		"Title: Buy milk",
		"Description: 2%",
		"Status: Pending",
		"Task marked as completed!",
		"Status: Completed",
		"Logged out successfully!",
		"Registration successful!",
		"Login successful!",
		"Error: not authorized to modify this task",
		"Logged out successfully!",
		"Goodbye!",
	})
}

func TestShellInvalidChoice(t *testing.T) {
	shell, out := newTestShell(t, "9\n3\n")
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid choice") {
		t.Errorf("missing invalid choice message:\n%s", out.String())
	}
}

func TestShellInvalidTaskID(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "pw", // register
		"1", "alice", "pw", // login
		"3", "banana", // complete with non-numeric id
		"6", // logout
		"3", // exit
	}, "\n") + "\n"

	shell, out := newTestShell(t, script)
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid task ID") {
		t.Errorf("missing invalid task id message:\n%s", out.String())
	}
}

func TestShellEditTask(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "pw",
		"1", "alice", "pw",
		"1", "Old title", "old desc",
		"4", "1", "New title", "new desc",
		"2",
		"6",
		"3",
	}, "\n") + "\n"

	shell, out := newTestShell(t, script)
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	expectInOrder(t, out.String(), []string{
		"Task updated successfully!",
		"Title: New title",
		"Description: new desc",
	})
}

func TestShellDeleteTask(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "pw",
		"1", "alice", "pw",
		"1", "Doomed", "",
		"5", "1",
		"6",
		"3",
	}, "\n") + "\n"

	shell, out := newTestShell(t, script)
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Task deleted successfully!") {
		t.Errorf("missing delete confirmation:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Title: Doomed") {
		// List never ran after the add, so the title should only appear
		// if something echoed it back unexpectedly.
		t.Errorf("deleted task leaked into output:\n%s", out.String())
	}
}

func TestShellDashboardSwap(t *testing.T) {
	script := strings.Join([]string{
		"2", "alice", "pw",
		"1", "alice", "pw",
		"7", // dashboard
		"6",
		"3",
	}, "\n") + "\n"

	shell, out := newTestShell(t, script)
	called := false
	shell.dashboard = func(ctx context.Context, st *store.Store, sess *store.Session) error {
		called = true
		if sess == nil || sess.Username != "alice" {
			t.Errorf("dashboard session: got %+v, want alice", sess)
		}
		return nil
	}

	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !called {
		t.Errorf("dashboard not invoked:\n%s", out.String())
	}
}

func TestShellEOFExits(t *testing.T) {
	shell, _ := newTestShell(t, "")
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run on EOF: got %v, want nil", err)
	}
}

func TestShellEOFExitsWhileLoggedIn(t *testing.T) {
	// Input ends right after login; the loop must exit instead of
	// reprinting the menu forever.
	script := strings.Join([]string{
		"2", "alice", "pw",
		"1", "alice", "pw",
	}, "\n") + "\n"

	shell, out := newTestShell(t, script)
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run on logged-in EOF: got %v, want nil", err)
	}
	if n := strings.Count(out.String(), "Taskdeck Menu:"); n != 1 {
		t.Errorf("logged-in menu printed %d times, want 1:\n%s", n, out.String())
	}
}

func TestShellEditInvalidIDConsumesAllPrompts(t *testing.T) {
	// A bad id still consumes the title and description lines, so the
	// following lines stay aligned with the menu.
	script := strings.Join([]string{
		"2", "alice", "pw",
		"1", "alice", "pw",
		"4", "banana", "ignored title", "ignored desc",
		"6", // logout; with desynced input this would be read as a prompt answer
		"3", // exit
	}, "\n") + "\n"

	shell, out := newTestShell(t, script)
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	expectInOrder(t, out.String(), []string{
		"Invalid task ID",
		"Logged out successfully!",
		"Goodbye!",
	})
	if strings.Contains(out.String(), "Invalid choice") {
		t.Errorf("scripted input desynchronized:\n%s", out.String())
	}
}
