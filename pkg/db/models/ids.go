package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the primary key is unset so inserts
// work the same on Postgres and SQLite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
