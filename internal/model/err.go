package model

import "github.com/pkg/errors"

// ErrRecordNotFound is returned when no remote record matches a lookup.
var ErrRecordNotFound = errors.New("record not found")
