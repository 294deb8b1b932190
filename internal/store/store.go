// Package store implements the account-scoped task store.
//
// The store owns the in-memory task and user collections and enforces the
// session and ownership rules. Every successful mutation rewrites the
// affected collection through the taskfile adapter. Task mutations check
// preconditions in a fixed order: session active, then task existence,
// then ownership, so callers always see a deterministic error kind.
//
// Sessions are explicit values rather than process-wide state: Login
// returns a *Session and every task operation takes one. Callers that want
// the classic single-user behavior (the interactive shell) hold exactly
// one session reference and drop it on logout.
package store

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/taskfile"
)

// Session identifies a logged-in account. A nil session means not logged in.
type Session struct {
	ID       uuid.UUID
	Username string
}

// Store holds the in-memory state backed by a taskfile.Dir.
type Store struct {
	dir        *taskfile.Dir
	tasks      map[uint64]taskfile.Task
	users      map[string]taskfile.User
	nextTaskID uint64
}

// Open loads both collections from dir and derives the id counter as
// max existing task id + 1, so ids stay unique across restarts even though
// the counter itself is never persisted.
func Open(dir *taskfile.Dir) (*Store, error) {
	tasks, err := dir.LoadTasks()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	users, err := dir.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	next := uint64(1)
	for id := range tasks {
		if id >= next {
			next = id + 1
		}
	}

	return &Store{
		dir:        dir,
		tasks:      tasks,
		users:      users,
		nextTaskID: next,
	}, nil
}

// Register creates a new account and persists the user collection.
// Usernames are case-sensitive exact matches. On a persistence failure the
// in-memory insert is kept; memory and disk diverge until the next
// successful save (no rollback).
func (s *Store) Register(username, password string) error {
	if _, ok := s.users[username]; ok {
		return ErrDuplicateUsername
	}

	s.users[username] = taskfile.User{Username: username, Password: password}
	if err := s.dir.SaveUsers(s.users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// Login checks the credentials and returns a fresh session. It does not
// touch persisted state. Passwords compare as plain text, matching the
// stored format.
func (s *Store) Login(username, password string) (*Session, error) {
	user, ok := s.users[username]
	if !ok || user.Password != password {
		return nil, ErrInvalidCredentials
	}
	return &Session{ID: uuid.New(), Username: username}, nil
}

// Add creates a task owned by the session's account and returns its id.
// Ids are allocated monotonically and never reused within a process.
func (s *Store) Add(sess *Session, title, description string) (uint64, error) {
	if sess == nil {
		return 0, ErrNotLoggedIn
	}

	id := s.nextTaskID
	s.tasks[id] = taskfile.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   taskfile.Now(),
		UserID:      sess.Username,
	}
	s.nextTaskID++

	if err := s.dir.SaveTasks(s.tasks); err != nil {
		return 0, fmt.Errorf("save tasks: %w", err)
	}
	return id, nil
}

// Complete marks the task done. Completion is one-way; there is no
// reopen operation.
func (s *Store) Complete(sess *Session, id uint64) error {
	task, err := s.ownedTask(sess, id)
	if err != nil {
		return err
	}

	task.Completed = true
	s.tasks[id] = task

	if err := s.dir.SaveTasks(s.tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Edit rewrites the task's title and description. Completion state and
// creation time are left alone.
func (s *Store) Edit(sess *Session, id uint64, title, description string) error {
	task, err := s.ownedTask(sess, id)
	if err != nil {
		return err
	}

	task.Title = title
	task.Description = description
	s.tasks[id] = task

	if err := s.dir.SaveTasks(s.tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Delete removes the task.
func (s *Store) Delete(sess *Session, id uint64) error {
	if _, err := s.ownedTask(sess, id); err != nil {
		return err
	}

	delete(s.tasks, id)

	if err := s.dir.SaveTasks(s.tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// List returns the session's tasks sorted by ascending id.
func (s *Store) List(sess *Session) ([]taskfile.Task, error) {
	if sess == nil {
		return nil, ErrNotLoggedIn
	}

	var tasks []taskfile.Task
	for _, task := range s.tasks {
		if task.UserID == sess.Username {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

// ownedTask checks session, existence, and ownership in that order. A task
// owned by someone else reports ErrNotAuthorized rather than not-found;
// that distinction is part of the store's contract.
func (s *Store) ownedTask(sess *Session, id uint64) (taskfile.Task, error) {
	if sess == nil {
		return taskfile.Task{}, ErrNotLoggedIn
	}
	task, ok := s.tasks[id]
	if !ok {
		return taskfile.Task{}, ErrTaskNotFound
	}
	if task.UserID != sess.Username {
		return taskfile.Task{}, ErrNotAuthorized
	}
	return task, nil
}
