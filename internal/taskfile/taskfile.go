// Package taskfile loads, validates, and saves the persisted collections.
package taskfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
)

// Default file names inside the data directory.
const (
	DefaultTasksFile = "tasks.json"
	DefaultUsersFile = "users.json"

	lockFile = ".taskdeck.lock"
)

// UnixTime is a time.Time that serializes as integer seconds since the epoch.
// Sub-second precision is dropped on the way out.
type UnixTime time.Time

// Now returns the current time truncated to the second, in UTC.
func Now() UnixTime {
	return UnixTime(time.Now().UTC().Truncate(time.Second))
}

// Time returns the underlying time.Time.
func (u UnixTime) Time() time.Time {
	return time.Time(u)
}

// Equal reports whether two timestamps are the same second.
func (u UnixTime) Equal(other UnixTime) bool {
	return u.Time().Unix() == other.Time().Unix()
}

// MarshalJSON encodes the timestamp as integer seconds.
func (u UnixTime) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, u.Time().Unix(), 10), nil
}

// UnmarshalJSON decodes integer seconds into a UTC timestamp.
func (u *UnixTime) UnmarshalJSON(data []byte) error {
	sec, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parse unix timestamp: %w", err)
	}
	*u = UnixTime(time.Unix(sec, 0).UTC())
	return nil
}

// Task is a single persisted task record.
type Task struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	CreatedAt   UnixTime `json:"created_at"`
	UserID      string   `json:"user_id"`
}

// User is a single persisted account record. The password is stored in
// plain text; see the project notes before reusing this format anywhere.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CorruptError reports a persisted file that exists but cannot be parsed
// or does not match the expected structure. Loading treats it as fatal.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt state in %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Dir is the persistence adapter for a single data directory. It owns the
// task and user files and an exclusive lock on the directory, so two
// processes cannot interleave full-file overwrites.
type Dir struct {
	TasksPath string
	UsersPath string
	lock      *flock.Flock
}

// Open creates the data directory if needed and takes the directory lock.
// It fails immediately if another process holds the lock.
func Open(dataDir, tasksFile, usersFile string) (*Dir, error) {
	if tasksFile == "" {
		tasksFile = DefaultTasksFile
	}
	if usersFile == "" {
		usersFile = DefaultUsersFile
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	lock := flock.New(filepath.Join(dataDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("data dir %s is in use by another process", dataDir)
	}

	return &Dir{
		TasksPath: filepath.Join(dataDir, tasksFile),
		UsersPath: filepath.Join(dataDir, usersFile),
		lock:      lock,
	}, nil
}

// Close releases the directory lock.
func (d *Dir) Close() error {
	if d == nil || d.lock == nil {
		return nil
	}
	return d.lock.Unlock()
}

// LoadTasks reads the task collection. A missing file is an empty
// collection; an unparseable or schema-invalid one is a CorruptError.
func (d *Dir) LoadTasks() (map[uint64]Task, error) {
	data, err := os.ReadFile(d.TasksPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[uint64]Task), nil
		}
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	if err := validateTasks(data); err != nil {
		return nil, &CorruptError{Path: d.TasksPath, Err: err}
	}

	tasks := make(map[uint64]Task)
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &CorruptError{Path: d.TasksPath, Err: err}
	}
	return tasks, nil
}

// SaveTasks writes the full task collection, overwriting the file in one
// shot. There is no atomic rename; a crash mid-write can corrupt the file.
func (d *Dir) SaveTasks(tasks map[uint64]Task) error {
	return writeCollection(d.TasksPath, tasks)
}

// LoadUsers reads the user collection with the same missing/corrupt
// semantics as LoadTasks.
func (d *Dir) LoadUsers() (map[string]User, error) {
	data, err := os.ReadFile(d.UsersPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]User), nil
		}
		return nil, fmt.Errorf("read users file: %w", err)
	}

	if err := validateUsers(data); err != nil {
		return nil, &CorruptError{Path: d.UsersPath, Err: err}
	}

	users := make(map[string]User)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, &CorruptError{Path: d.UsersPath, Err: err}
	}
	return users, nil
}

// SaveUsers writes the full user collection.
func (d *Dir) SaveUsers(users map[string]User) error {
	return writeCollection(d.UsersPath, users)
}

func writeCollection(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write collection file: %w", err)
	}

	return nil
}
