// cmd/tools/seed-data/main.go
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// fixture mirrors the pipeline tables: each entry is stored verbatim as one
// JSONB payload per row.
type fixture struct {
	Profiles    []json.RawMessage `json:"profiles"`
	AISummaries []json.RawMessage `json:"ai_summaries"`
	JobInfo     []json.RawMessage `json:"job_info"`
}

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	file := flag.String("file", "", "Path to the fixture JSON file (required)")
	truncate := flag.Bool("truncate", false, "Truncate the tables before inserting")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: -file is required.")
		flag.Usage()
		os.Exit(1)
	}
	if *dsn == "" {
		fmt.Println("Error: provide -dsn or set DATABASE_URL.")
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Printf("Error reading fixture file: %v\n", err)
		os.Exit(1)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		fmt.Printf("Error parsing fixture file: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	tables := []struct {
		name string
		rows []json.RawMessage
	}{
		{"profiles", fx.Profiles},
		{"ai_summaries", fx.AISummaries},
		{"job_info", fx.JobInfo},
	}

	for _, t := range tables {
		target := tableName(t.name)
		if err := ensureTable(db, target); err != nil {
			fmt.Printf("Error creating table %s: %v\n", target, err)
			os.Exit(1)
		}
		if *truncate {
			if _, err := db.Exec(fmt.Sprintf("TRUNCATE %s", target)); err != nil {
				fmt.Printf("Error truncating %s: %v\n", target, err)
				os.Exit(1)
			}
		}
		inserted, err := insertPayloads(db, target, t.rows)
		if err != nil {
			fmt.Printf("Error inserting into %s: %v\n", target, err)
			os.Exit(1)
		}
		fmt.Printf("Inserted %d rows into %s\n", inserted, target)
	}
}

func tableName(section string) string {
	switch section {
	case "ai_summaries":
		return "profile_ai_summaries"
	case "job_info":
		return "job_info"
	default:
		return "profiles"
	}
}

func ensureTable(db *sql.DB, table string) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, table)
	_, err := db.Exec(stmt)
	return err
}

func insertPayloads(db *sql.DB, table string, rows []json.RawMessage) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	stmt := fmt.Sprintf("INSERT INTO %s (payload) VALUES ($1)", table)
	for i, row := range rows {
		if _, err := tx.Exec(stmt, []byte(row)); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
