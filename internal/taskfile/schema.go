package taskfile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// The persisted documents are validated against these schemas before the
// typed decode, so a hand-edited or truncated file fails loudly instead of
// being silently reshaped by lenient unmarshalling.

const tasksSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "required": ["id", "title", "description", "completed", "created_at", "user_id"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "title": {"type": "string"},
      "description": {"type": "string"},
      "completed": {"type": "boolean"},
      "created_at": {"type": "integer"},
      "user_id": {"type": "string", "minLength": 1}
    }
  }
}`

const usersSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "required": ["username", "password"],
    "properties": {
      "username": {"type": "string", "minLength": 1},
      "password": {"type": "string"}
    }
  }
}`

var (
	compiledTasksSchema = jsonschema.MustCompileString("tasks.schema.json", tasksSchema)
	compiledUsersSchema = jsonschema.MustCompileString("users.schema.json", usersSchema)
)

func validateTasks(data []byte) error {
	return validateAgainst(compiledTasksSchema, data)
}

func validateUsers(data []byte) error {
	return validateAgainst(compiledUsersSchema, data)
}

func validateAgainst(schema *jsonschema.Schema, data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		return fmt.Errorf("schema violation: %s", flattenSchemaError(ve))
	}

	return nil
}

// flattenSchemaError renders the deepest causes of a validation error as a
// single message with human-readable paths.
func flattenSchemaError(err *jsonschema.ValidationError) string {
	var msgs []string
	collectSchemaErrors(&msgs, err)
	return strings.Join(msgs, "; ")
}

func collectSchemaErrors(msgs *[]string, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		path := jsonPointerToPath(err.InstanceLocation)
		if path == "" {
			*msgs = append(*msgs, err.Message)
		} else {
			*msgs = append(*msgs, fmt.Sprintf("%s: %s", path, err.Message))
		}
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(msgs, cause)
	}
}

// jsonPointerToPath converts a JSON Pointer like "/3/title" to "3.title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
