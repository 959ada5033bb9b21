package repository

import "errors"

var ErrNotFound = errors.New("not found")

// Returned by unique-constraint violations surfaced to usecases.
var ErrConflict = errors.New("conflict")
