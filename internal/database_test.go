package internal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Taycanstar/glancenote/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "new file in existing directory",
			path: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "test.db")
			},
		},
		{
			name: "new file in missing directory",
			path: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "a", "b", "test.db")
			},
		},
		{
			name: "in memory",
			path: func(t *testing.T) string { return ":memory:" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := OpenDatabase(tt.path(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer db.Close()

			var count int
			if err := db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
				t.Errorf("kv table missing: %v", err)
			}
		})
	}
}

func TestKVHelpers(t *testing.T) {
	db, err := OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	if err := UpsertKV(ctx, db,
		KeyValuePair{Key: "a", Value: "1"},
		KeyValuePair{Key: "b", Value: "2"},
	); err != nil {
		t.Fatalf("UpsertKV() error = %v", err)
	}
	if err := UpsertKV(ctx, db, KeyValuePair{Key: "a", Value: "3"}); err != nil {
		t.Fatalf("UpsertKV() overwrite error = %v", err)
	}

	values, err := QueryKV(ctx, db, "a", "b", "missing")
	if err != nil {
		t.Fatalf("QueryKV() error = %v", err)
	}
	if len(values) != 2 || values["a"] != "3" || values["b"] != "2" {
		t.Errorf("QueryKV() = %v", values)
	}

	if err := DeleteKV(ctx, db, "a"); err != nil {
		t.Fatalf("DeleteKV() error = %v", err)
	}
	values, _ = QueryKV(ctx, db, "a", "b")
	if _, ok := values["a"]; ok {
		t.Error("DeleteKV() left key a behind")
	}
	if values["b"] != "2" {
		t.Error("DeleteKV() removed an unrelated key")
	}
}
