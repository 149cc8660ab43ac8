package store

import "errors"

var (
	// ErrDestinationExists indicates a stage-move target already holds a
	// payload for the same post ID. IDs are expected globally unique, so a
	// collision signals storage corruption and is fatal for that item.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrNotFound indicates no post with the requested ID exists in storage.
	ErrNotFound = errors.New("post not found")

	// ErrDuplicateID indicates an insert collided with an existing post ID.
	ErrDuplicateID = errors.New("duplicate post id")
)
