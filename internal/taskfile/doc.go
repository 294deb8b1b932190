// Package taskfile loads, validates, and saves the persisted collections.
//
// Two independent JSON documents live in the data directory:
//
// tasks.json maps task id to task record:
//
//	{
//	  "1": {
//	    "id": 1,
//	    "title": "Buy milk",
//	    "description": "2%",
//	    "completed": false,
//	    "created_at": 1735689600,
//	    "user_id": "alice"
//	  }
//	}
//
// users.json maps username to account record:
//
//	{
//	  "alice": {"username": "alice", "password": "pw1"}
//	}
//
// created_at is integer seconds since the Unix epoch. There is no shared
// schema or versioning field between the two documents.
//
// # Validation
//
// Each document is validated against an embedded JSON Schema before the
// typed decode. A missing file loads as an empty collection; a present but
// invalid file is a CorruptError, which callers treat as fatal at startup.
//
// # File format
//
// Saves rewrite the whole collection in place (no diff, no atomic rename)
// with 2-space indentation and a trailing newline. The adapter holds a
// flock on the data directory for the process lifetime so a second process
// pointed at the same directory fails fast instead of interleaving writes.
package taskfile
