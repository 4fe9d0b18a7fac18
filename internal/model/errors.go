package model

import "errors"

// ErrNotFound is returned by every store when the requested record is missing or inactive.
var ErrNotFound = errors.New("record not found")
