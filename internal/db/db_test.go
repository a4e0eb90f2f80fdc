package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

const failedToInitDB = "Failed to initialize database: %v"

const select1 = `SELECT 1`
const insertPost = `INSERT INTO posts (title, body, body_hash) VALUES (?, ?, ?)`

func testDB(t *testing.T) *SQLite {
	t.Helper()
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	db := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := db.InitDB(); err != nil {
		t.Fatalf(failedToInitDB, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewSQLite(t *testing.T) {
	db := NewSQLite("posts.db")

	if db == nil {
		t.Fatal("Expected non-nil SQLite instance")
	}
	if db.conn != nil {
		t.Error("Expected connection to be nil initially")
	}
	if db.path != "posts.db" {
		t.Errorf("Expected path 'posts.db', got %q", db.path)
	}
}

func TestSQLiteInitDB(t *testing.T) {
	db := testDB(t)

	t.Run("Connection is established", func(t *testing.T) {
		if db.Get() == nil {
			t.Fatal("Expected database connection to be established")
		}
		if err := db.Get().Ping(); err != nil {
			t.Errorf("Failed to ping database: %v", err)
		}
	})

	t.Run("Posts table schema", func(t *testing.T) {
		rows, err := db.Query("PRAGMA table_info(posts)")
		if err != nil {
			t.Fatalf("Failed to get posts table info: %v", err)
		}
		defer rows.Close()

		postColumns := make(map[string]bool)
		for rows.Next() {
			var cid int
			var name, dataType string
			var notNull, pk int
			var defaultValue sql.NullString

			if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
				t.Errorf("Failed to scan column info: %v", err)
				continue
			}
			postColumns[name] = true
		}

		for _, col := range []string{"id", "title", "body", "body_hash", "extra", "modified_at", "created_at"} {
			if !postColumns[col] {
				t.Errorf("Expected posts table to have column %s", col)
			}
		}
	})

	t.Run("InitDB is idempotent", func(t *testing.T) {
		again := NewSQLite(db.path)
		defer again.Close()
		if err := again.InitDB(); err != nil {
			t.Errorf("Expected second InitDB to succeed, got %v", err)
		}
	})
}

func TestSQLiteQueryAndExec(t *testing.T) {
	db := testDB(t)

	t.Run("Ids are assigned in insertion order", func(t *testing.T) {
		var ids []int64
		for _, title := range []string{"first", "second", "third"} {
			res, err := db.Exec(insertPost, title, []byte("body"), "hash")
			if err != nil {
				t.Fatalf("Failed to insert post: %v", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				t.Fatalf("Failed to read insert id: %v", err)
			}
			ids = append(ids, id)
		}

		for i := 1; i < len(ids); i++ {
			if ids[i] <= ids[i-1] {
				t.Errorf("Expected increasing ids, got %v", ids)
			}
		}
	})

	t.Run("QueryRow reads a post", func(t *testing.T) {
		res, err := db.Exec(insertPost, "Test Post", []byte("Test Content"), "hash123")
		if err != nil {
			t.Fatalf("Failed to insert post: %v", err)
		}
		id, _ := res.LastInsertId()

		var title string
		var body []byte
		if err := db.QueryRow("SELECT title, body FROM posts WHERE id = ?", id).Scan(&title, &body); err != nil {
			t.Fatalf("Failed to scan post data: %v", err)
		}
		if title != "Test Post" {
			t.Errorf("Expected title 'Test Post', got %s", title)
		}
		if string(body) != "Test Content" {
			t.Errorf("Expected body 'Test Content', got %s", body)
		}
	})

	t.Run("Deleted ids are not reused", func(t *testing.T) {
		res, err := db.Exec(insertPost, "gone", []byte("x"), "h")
		if err != nil {
			t.Fatalf("Failed to insert post: %v", err)
		}
		deleted, _ := res.LastInsertId()

		if _, err := db.Exec("DELETE FROM posts WHERE id = ?", deleted); err != nil {
			t.Fatalf("Failed to delete post: %v", err)
		}

		res, err = db.Exec(insertPost, "next", []byte("y"), "h")
		if err != nil {
			t.Fatalf("Failed to insert post: %v", err)
		}
		next, _ := res.LastInsertId()
		if next <= deleted {
			t.Errorf("Expected id after %d, got %d", deleted, next)
		}
	})

	t.Run("Missing row", func(t *testing.T) {
		var title string
		err := db.QueryRow("SELECT title FROM posts WHERE id = ?", -1).Scan(&title)
		if err != sql.ErrNoRows {
			t.Errorf("Expected sql.ErrNoRows, got %v", err)
		}
	})
}

func TestSQLiteErrorHandling(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	t.Run("Query on uninitialized database", func(t *testing.T) {
		db := NewSQLite(":memory:")
		defer db.Close()

		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when querying uninitialized database")
			}
		}()

		db.Query(select1)
	})

	t.Run("Exec on uninitialized database", func(t *testing.T) {
		db := NewSQLite(":memory:")
		defer db.Close()

		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when executing on uninitialized database")
			}
		}()

		db.Exec(select1)
	})

	t.Run("Invalid SQL", func(t *testing.T) {
		db := testDB(t)

		if _, err := db.Query("INVALID SQL SYNTAX"); err == nil {
			t.Error("Expected error for invalid SQL query")
		}
		if _, err := db.Exec("INVALID SQL SYNTAX"); err == nil {
			t.Error("Expected error for invalid SQL exec")
		}
	})

	t.Run("Close without init", func(t *testing.T) {
		if err := NewSQLite(":memory:").Close(); err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	})
}
