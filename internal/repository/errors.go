// Package repository provides data access to the users, flights,
// reservations and reservation_ids tables. Methods suffixed with Tx run
// inside a caller-owned transaction; the caller must commit or roll back.
// Repositories surface sql.ErrNoRows untranslated so that the engine can
// decide how each absence maps onto a caller-facing failure.
package repository

import "errors"

// ErrUsernameExists is returned when an insert would violate the unique
// username key.
var ErrUsernameExists = errors.New("username already exists")
