package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// LoginSuccess is the login body returned by the backend for a bare-email user
func LoginSuccess(token, email string) map[string]interface{} {
	return map[string]interface{}{
		"token": token,
		"user":  email,
	}
}

// LoginSuccessProfile is the login body carrying a profile object
func LoginSuccessProfile(token string, user map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"token": token,
		"user":  user,
	}
}

// ErrorBody is the backend's structured error body
func ErrorBody(message string) map[string]interface{} {
	return map[string]interface{}{"error": message}
}

// ChatReply is the completion endpoint's success body
func ChatReply(text string) map[string]interface{} {
	return map[string]interface{}{"response": text}
}

// CreateStorageFixture creates a persistence database at dbPath holding
// the given key/value pairs
func CreateStorageFixture(t *testing.T, dbPath string, values map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	stmt, err := db.Prepare("INSERT INTO kv (key, value) VALUES (?, ?)")
	if err != nil {
		t.Fatalf("Failed to prepare insert statement: %v", err)
	}
	defer stmt.Close()

	for key, value := range values {
		if _, err := stmt.Exec(key, value); err != nil {
			t.Fatalf("Failed to insert %s: %v", key, err)
		}
	}
}
