package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/taskfile"
)

// doctorCommand checks the data directory and both collection files.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdeck doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return runDoctor(cfg, os.Stdout)
}

func runDoctor(cfg *config.Config, out io.Writer) error {
	fmt.Fprintf(out, "taskdeck doctor\n\n")
	fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)

	dir, err := taskfile.Open(cfg.DataDir, cfg.TasksFile, cfg.UsersFile)
	if err != nil {
		fmt.Fprintf(out, "  FAIL: %v\n", err)
		return fmt.Errorf("doctor found problems")
	}
	defer dir.Close()
	fmt.Fprintf(out, "  ok (lock acquired)\n\n")

	failed := false

	tasks, tasksErr := dir.LoadTasks()
	failed = reportCollection(out, "Tasks", dir.TasksPath, len(tasks), tasksErr) || failed

	users, usersErr := dir.LoadUsers()
	failed = reportCollection(out, "Users", dir.UsersPath, len(users), usersErr) || failed

	// Cross-check the ownership invariant: every task should reference a
	// registered account.
	if tasksErr == nil && usersErr == nil {
		orphans := 0
		for _, task := range tasks {
			if _, ok := users[task.UserID]; !ok {
				orphans++
			}
		}
		if orphans > 0 {
			fmt.Fprintf(out, "\nWARN: %d task(s) reference unknown accounts\n", orphans)
		}
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Fprintf(out, "\nAll checks passed.\n")
	return nil
}

func reportCollection(out io.Writer, label, path string, count int, err error) (failed bool) {
	fmt.Fprintf(out, "%s file: %s\n", label, path)
	if err != nil {
		var corrupt *taskfile.CorruptError
		if errors.As(err, &corrupt) {
			fmt.Fprintf(out, "  FAIL: %v\n", corrupt.Err)
		} else {
			fmt.Fprintf(out, "  FAIL: %v\n", err)
		}
		return true
	}
	fmt.Fprintf(out, "  ok (%d records)\n", count)
	return false
}
