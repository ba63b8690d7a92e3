package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EntryRow is a workout entry ready for insertion into the workout_entries table.
type EntryRow struct {
	ID          int64
	UserID      int
	ImportID    uuid.UUID
	Fingerprint string
	CreatedAt   time.Time
	Entry       WorkoutEntry
}

// NewEntryRow wraps e for storage, computing its fingerprint.
func NewEntryRow(userID int, importID uuid.UUID, e WorkoutEntry) EntryRow {
	return EntryRow{
		UserID:      userID,
		ImportID:    importID,
		Fingerprint: Fingerprint(e),
		Entry:       e,
	}
}

// Fingerprint identifies a set by date, exercise, load and position within
// its source session, so that re-importing the same file inserts nothing.
func Fingerprint(e WorkoutEntry) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	write(e.Date)
	write(e.Exercise)
	if e.Weight != nil {
		write(strconv.FormatFloat(*e.Weight, 'f', -1, 64))
	} else {
		write("-")
	}
	if e.Reps != nil {
		write(strconv.Itoa(*e.Reps))
	} else {
		write("-")
	}
	write(e.Raw.Source)
	write(e.Raw.StartTime)
	write(e.Raw.Title)
	write(e.Raw.SetType)
	if e.Raw.SetIndex != nil {
		write(strconv.Itoa(*e.Raw.SetIndex))
	}
	return hex.EncodeToString(h.Sum(nil))
}
