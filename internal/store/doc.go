// Package store persists pipeline posts in SQLite and owns stage moves.
//
// The Store is the only component that touches storage directly: everything
// else consumes posts through load/commit calls. A post's metadata lives in
// a single SQLite row keyed by post ID; its photo payload lives in a
// per-stage directory tree mirroring the pipeline order. Commit rewrites the
// row and relocates the payload in one logical move; interrupted moves are
// detected and repaired idempotently by Repair, so re-running a sync never
// duplicates an item.
//
// The database row is authoritative for an item's stage. Photo directories
// follow the row; a directory found under the wrong stage is a repairable
// condition, while a populated destination directory colliding with a move
// is fatal for that item because post IDs are expected to be globally
// unique.
package store
