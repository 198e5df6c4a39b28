package store

import "errors"

// ErrNotFound is returned by updates and lookups on an absent ID.
var ErrNotFound = errors.New("annotation not found")

// ErrInvalidGeometry is returned when an add or update supplies an empty or
// degenerate polygon/line. The store is not mutated.
var ErrInvalidGeometry = errors.New("invalid annotation geometry")
