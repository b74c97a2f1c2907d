//go:build integration

package database

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Verifies that the migrated Postgres schema actually enforces the
// uniqueness the repositories rely on. Requires a running Postgres and the
// DATABASE_URL environment variable; run with -tags integration.
func TestMigratedSchemaUniqueConstraints(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatalf("ping postgres: %v", err)
	}

	suffix := time.Now().UnixNano()
	username := fmt.Sprintf("schema_user_%d", suffix)
	email := fmt.Sprintf("schema_%d@example.com", suffix)

	insertUser := `INSERT INTO users (username, email, gender, password, created_at, updated_at)
		VALUES ($1, $2, 'other', 'x', now(), now())`

	if _, err := db.Exec(insertUser, username, email); err != nil {
		t.Fatalf("first user insert failed: %v", err)
	}
	defer db.Exec("DELETE FROM users WHERE username = $1", username)

	if _, err := db.Exec(insertUser, username, email); err == nil {
		t.Fatal("expected unique violation on duplicate username/email, got nil")
	}

	title := fmt.Sprintf("schema title %d", suffix)
	insertPost := `INSERT INTO post (title, content, created_on, author, user_id)
		SELECT $1, 'body', now(), 'author', id FROM users WHERE username = $2`

	if _, err := db.Exec(insertPost, title, username); err != nil {
		t.Fatalf("first post insert failed: %v", err)
	}
	defer db.Exec("DELETE FROM post WHERE title = $1", title)

	if _, err := db.Exec(insertPost, title, username); err == nil {
		t.Fatal("expected unique violation on duplicate title, got nil")
	}
}
