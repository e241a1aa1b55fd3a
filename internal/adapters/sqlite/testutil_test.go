// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the single point where the database schema is loaded for tests.
// setupTestDB uses db.GetSchemaSQL() so tests run against the authoritative
// schema. Do not declare CREATE TABLE statements in test files; use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/pasturize/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// One connection only, so every query sees the same in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedReport inserts a test report and returns its ID.
func seedReport(t *testing.T, db *sql.DB, id, name, createdAt string) string {
	t.Helper()
	if id == "" {
		id = "REPORT-1"
	}
	if name == "" {
		name = "Test Survey"
	}
	if createdAt == "" {
		createdAt = "2025-09-01T08:00:00.000000000Z"
	}
	_, err := db.Exec("INSERT INTO reports (id, name, created_at, status) VALUES (?, ?, ?, 'in_progress')", id, name, createdAt)
	if err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	return id
}

// seedPasture inserts a test pasture and returns its ID.
func seedPasture(t *testing.T, db *sql.DB, id, reportID string, index int, name string) string {
	t.Helper()
	if id == "" {
		id = "PASTURE-1"
	}
	if reportID == "" {
		reportID = "REPORT-1"
	}
	if name == "" {
		name = "Home"
	}
	_, err := db.Exec("INSERT INTO pastures (id, report_id, idx, name, status) VALUES (?, ?, ?, ?, 'in_progress')", id, reportID, index, name)
	if err != nil {
		t.Fatalf("failed to seed pasture: %v", err)
	}
	return id
}
