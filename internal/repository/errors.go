package repository

import "errors"

// ErrNotFound marks a lookup that matched no row. Callers test with
// errors.Is after the contextual wrapping applied by each repository.
var ErrNotFound = errors.New("not found")
