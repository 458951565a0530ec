package database

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"namespotter.com/namespotter-go/internal/logging"
)

// NameStore provides the durable record/query contract for tracked names.
// It satisfies the ledger's Store interface. A fresh session ID is minted
// per store instance and stamped on every occurrence row.
type NameStore struct {
	db        *DB
	sessionID string
	logger    *logging.Logger
}

// NewNameStore creates a name store over an open database
func NewNameStore(db *DB) *NameStore {
	return &NameStore{
		db:        db,
		sessionID: uuid.NewString(),
		logger:    logging.NewLogger("database"),
	}
}

// SessionID returns the identifier stamped on this store's occurrence rows
func (s *NameStore) SessionID() string {
	return s.sessionID
}

// AddNameOccurrence records count sightings of a name: the cumulative total
// is incremented (the record is created on first sighting) and one audit row
// is appended. Runs in a single transaction.
func (s *NameStore) AddNameOccurrence(name string, count int) error {
	if count <= 0 {
		count = 1
	}

	return s.db.ExecTx(func(tx *sql.Tx) error {
		var nameID int
		var total int
		err := tx.QueryRow(`SELECT id, total_occurrences FROM names WHERE name = ?`, name).Scan(&nameID, &total)

		switch {
		case err == sql.ErrNoRows:
			result, err := tx.Exec(`
				INSERT INTO names (name, total_occurrences)
				VALUES (?, ?)
			`, name, count)
			if err != nil {
				return fmt.Errorf("failed to insert name: %w", err)
			}
			id, err := result.LastInsertId()
			if err != nil {
				return err
			}
			nameID = int(id)

		case err != nil:
			return fmt.Errorf("failed to look up name: %w", err)

		default:
			_, err = tx.Exec(`
				UPDATE names
				SET last_seen = CURRENT_TIMESTAMP, total_occurrences = ?
				WHERE id = ?
			`, total+count, nameID)
			if err != nil {
				return fmt.Errorf("failed to update name: %w", err)
			}
		}

		_, err = tx.Exec(`
			INSERT INTO occurrences (name_id, count, session_id)
			VALUES (?, ?, ?)
		`, nameID, count, s.sessionID)
		if err != nil {
			return fmt.Errorf("failed to insert occurrence: %w", err)
		}

		return nil
	})
}

// GetNameCount returns the cumulative occurrence count for a name, zero if
// the name has never been seen
func (s *NameStore) GetNameCount(name string) (int, error) {
	var total int
	err := s.db.conn.QueryRow(`SELECT total_occurrences FROM names WHERE name = ?`, name).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get name count: %w", err)
	}
	return total, nil
}

// GetStatistics returns the number of distinct names and the sum of all
// cumulative counts
func (s *NameStore) GetStatistics() (totalNames int, totalOccurrences int, err error) {
	err = s.db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(total_occurrences), 0) FROM names
	`).Scan(&totalNames, &totalOccurrences)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get statistics: %w", err)
	}
	return totalNames, totalOccurrences, nil
}

// ClearAll deletes every name and occurrence record. Irreversible.
func (s *NameStore) ClearAll() error {
	err := s.db.ExecTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM occurrences`); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM names`)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear all data: %w", err)
	}

	s.logger.Info("all durable data cleared")
	return nil
}

// GetAllNames returns every tracked name, most frequent first
func (s *NameStore) GetAllNames() ([]NameRecord, error) {
	return s.queryNames(`
		SELECT id, name, first_seen, last_seen, total_occurrences
		FROM names
		ORDER BY total_occurrences DESC, last_seen DESC
	`)
}

// GetRecentNames returns the most recently seen names
func (s *NameStore) GetRecentNames(limit int) ([]NameRecord, error) {
	return s.queryNames(`
		SELECT id, name, first_seen, last_seen, total_occurrences
		FROM names
		ORDER BY last_seen DESC
		LIMIT ?
	`, limit)
}

// GetDuplicateNames returns names with at least minCount cumulative
// occurrences
func (s *NameStore) GetDuplicateNames(minCount int) ([]NameRecord, error) {
	return s.queryNames(`
		SELECT id, name, first_seen, last_seen, total_occurrences
		FROM names
		WHERE total_occurrences >= ?
		ORDER BY total_occurrences DESC, last_seen DESC
	`, minCount)
}

// SearchNames returns names containing the query substring
func (s *NameStore) SearchNames(query string, limit int) ([]NameRecord, error) {
	return s.queryNames(`
		SELECT id, name, first_seen, last_seen, total_occurrences
		FROM names
		WHERE name LIKE ?
		ORDER BY total_occurrences DESC, last_seen DESC
		LIMIT ?
	`, "%"+query+"%", limit)
}

// DeleteName removes a name and its occurrence history
func (s *NameStore) DeleteName(name string) error {
	return s.db.ExecTx(func(tx *sql.Tx) error {
		var nameID int
		err := tx.QueryRow(`SELECT id FROM names WHERE name = ?`, name).Scan(&nameID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("name %q not found", name)
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM occurrences WHERE name_id = ?`, nameID); err != nil {
			return err
		}
		_, err = tx.Exec(`DELETE FROM names WHERE id = ?`, nameID)
		return err
	})
}

// ExportCSV writes all tracked names as CSV, ordered by first sighting
func (s *NameStore) ExportCSV(w io.Writer) error {
	records, err := s.queryNames(`
		SELECT id, name, first_seen, last_seen, total_occurrences
		FROM names
		ORDER BY first_seen ASC
	`)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Name", "First Seen", "Last Seen", "Total Occurrences"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Name,
			rec.FirstSeen.Format(time.RFC3339),
			rec.LastSeen.Format(time.RFC3339),
			fmt.Sprintf("%d", rec.TotalOccurrences),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (s *NameStore) queryNames(query string, args ...interface{}) ([]NameRecord, error) {
	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query names: %w", err)
	}
	defer rows.Close()

	var records []NameRecord
	for rows.Next() {
		var rec NameRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.FirstSeen, &rec.LastSeen, &rec.TotalOccurrences); err != nil {
			return nil, fmt.Errorf("failed to scan name record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
