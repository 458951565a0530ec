package database

import (
	"time"
)

// NameRecord is the durable record for one normalized name
type NameRecord struct {
	ID               int       `db:"id"`
	Name             string    `db:"name"`
	FirstSeen        time.Time `db:"first_seen"`
	LastSeen         time.Time `db:"last_seen"`
	TotalOccurrences int       `db:"total_occurrences"`
}

// OccurrenceRecord is one entry of the audit log: how many positions a name
// was seen at during a single scan, and under which session
type OccurrenceRecord struct {
	ID        int       `db:"id"`
	NameID    int       `db:"name_id"`
	Timestamp time.Time `db:"timestamp"`
	Count     int       `db:"count"`
	SessionID string    `db:"session_id"`
}
