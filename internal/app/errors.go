package service

import "errors"

// ErrEntityNotFound is returned by Entity when neither a season profile nor
// any event history exists for the id.
var ErrEntityNotFound = errors.New("entity not found")
