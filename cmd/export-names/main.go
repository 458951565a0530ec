package main

import (
	"flag"
	"fmt"
	"os"

	"namespotter.com/namespotter-go/internal/database"
)

func main() {
	dbPath := flag.String("db", "duplicate_names.db", "path to the name database")
	outPath := flag.String("out", "", "output CSV file (default stdout)")
	flag.Parse()

	if err := run(*dbPath, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, outPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database not found at %s", dbPath)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	store := database.NewNameStore(db)
	if err := store.ExportCSV(out); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}
