// Package store is the MongoDB data-access layer. All ledger and status
// mutations go through single atomic find-and-modify operations whose
// preconditions live in the query filter, never through separate
// read-then-write round trips.
package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned for a point read that resolves no document.
var ErrNotFound = errors.New("store: document not found")

// ErrNoMatch is returned when a conditional update matched no document,
// either because the document is missing or because its precondition failed.
// Callers disambiguate with a follow-up point read.
var ErrNoMatch = errors.New("store: conditional update matched no document")

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
