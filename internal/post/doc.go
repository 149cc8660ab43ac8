// Package post defines the content item that moves through the publishing
// pipeline and the stage lifecycle it follows.
//
// A Post is the unit of scheduling: a group of photos from one location,
// captioned and ready to publish as a single feed entry. Posts advance
// through draft, approved, scheduled, and published stages; exactly one
// stage holds the authoritative copy at any time. The Schedule record
// carries the suggested slot and the commit timestamps set by the
// scheduling engine and the publisher.
//
// Treat this package as the single source of truth for item semantics; when
// you add new stages or schedule fields, update the store schema alongside.
package post
