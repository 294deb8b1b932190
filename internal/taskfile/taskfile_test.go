package taskfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestDir(t *testing.T, dataDir string) *Dir {
	t.Helper()
	d, err := Open(dataDir, "", "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestLoadTasksMissingFile(t *testing.T) {
	d := openTestDir(t, t.TempDir())

	tasks, err := d.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks count: got %d, want 0", len(tasks))
	}
}

func TestTasksRoundTrip(t *testing.T) {
	d := openTestDir(t, t.TempDir())

	created := UnixTime(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	original := map[uint64]Task{
		1: {ID: 1, Title: "Buy milk", Description: "2%", Completed: false, CreatedAt: created, UserID: "alice"},
		7: {ID: 7, Title: "Call bank", Description: "", Completed: true, CreatedAt: created, UserID: "bob"},
	}

	if err := d.SaveTasks(original); err != nil {
		t.Fatalf("SaveTasks failed: %v", err)
	}

	loaded, err := d.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("tasks count: got %d, want %d", len(loaded), len(original))
	}
	for id, want := range original {
		got, ok := loaded[id]
		if !ok {
			t.Fatalf("task %d missing after reload", id)
		}
		if got.Title != want.Title || got.Description != want.Description ||
			got.Completed != want.Completed || got.UserID != want.UserID {
			t.Errorf("task %d: got %+v, want %+v", id, got, want)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("task %d created_at: got %v, want %v", id, got.CreatedAt.Time(), want.CreatedAt.Time())
		}
	}
}

func TestUsersRoundTrip(t *testing.T) {
	d := openTestDir(t, t.TempDir())

	original := map[string]User{
		"alice": {Username: "alice", Password: "pw1"},
		"bob":   {Username: "bob", Password: "pwb"},
	}

	if err := d.SaveUsers(original); err != nil {
		t.Fatalf("SaveUsers failed: %v", err)
	}

	loaded, err := d.LoadUsers()
	if err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("users count: got %d, want %d", len(loaded), len(original))
	}
	for name, want := range original {
		if loaded[name] != want {
			t.Errorf("user %s: got %+v, want %+v", name, loaded[name], want)
		}
	}
}

func TestLoadTasksCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated json", `{"1": {"id": 1,`},
		{"wrong shape", `["not", "a", "map"]`},
		{"missing fields", `{"1": {"id": 1, "title": "x"}}`},
		{"wrong field type", `{"1": {"id": 1, "title": "x", "description": "", "completed": "yes", "created_at": 0, "user_id": "a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			d := openTestDir(t, tmpDir)

			if err := os.WriteFile(d.TasksPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			_, err := d.LoadTasks()
			if err == nil {
				t.Fatal("LoadTasks succeeded on corrupt input")
			}
			var corrupt *CorruptError
			if !errors.As(err, &corrupt) {
				t.Errorf("error type: got %T (%v), want *CorruptError", err, err)
			}
		})
	}
}

func TestLoadUsersCorrupt(t *testing.T) {
	d := openTestDir(t, t.TempDir())

	if err := os.WriteFile(d.UsersPath, []byte(`{"alice": {"username": "alice"}}`), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := d.LoadUsers()
	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Errorf("error type: got %T (%v), want *CorruptError", err, err)
	}
}

func TestUnixTimeDropsSubSecond(t *testing.T) {
	u := UnixTime(time.Date(2025, 6, 1, 8, 30, 15, 999999999, time.UTC))

	data, err := u.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	var back UnixTime
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if back.Time().Nanosecond() != 0 {
		t.Errorf("nanoseconds survived round trip: %d", back.Time().Nanosecond())
	}
	if back.Time().Unix() != u.Time().Unix() {
		t.Errorf("seconds: got %d, want %d", back.Time().Unix(), u.Time().Unix())
	}
}

func TestOpenCreatesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	d := openTestDir(t, dataDir)
	if _, err := os.Stat(dataDir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
	if filepath.Dir(d.TasksPath) != dataDir {
		t.Errorf("tasks path %s not inside data dir %s", d.TasksPath, dataDir)
	}
}
