package repository

import "errors"

// These errors let every storage backend report outcomes in a database-agnostic
// way. The service layer translates them into domain errors from internal/errors.

// ErrNotFound is returned when a query for a single entity (e.g. GetRequest)
// matches nothing. It hides the driver's own error (sql.ErrNoRows, redis.Nil,
// mongo.ErrNoDocuments).
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint, such
// as creating a user with a username that is already taken.
var ErrDuplicate = errors.New("repository: duplicate")
