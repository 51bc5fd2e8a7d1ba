package store

import "errors"

var (
	// ErrNotFound covers both a missing row and a row owned by another
	// tenant; stores never distinguish the two.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers uniqueness violations, restricted deletes and
	// optimistic-lock version mismatches.
	ErrConflict = errors.New("conflict")
)
