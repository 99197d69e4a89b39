// Package store persists a collection of records in a single human readable
// JSON file.
//
// A Collection owns exactly one backing file and one in-memory snapshot of the
// records it contains. Every operation runs under the collection's mutex, so a
// *Collection can be shared freely between HTTP handlers and background jobs.
//
// The file format is a pretty-printed JSON array, written in the order given
// by the collection's Order. Saving is always a whole snapshot rewrite: the
// content goes to "<path>.tmp", is synced to disk, and is then renamed over
// "<path>". A reader of the file therefore sees either the old or the new
// snapshot, never a mix of both.
//
// Mutations are applied to a scratch copy of the snapshot, which only becomes
// visible once the file has been replaced. When saving fails, both the memory
// and the file keep their previous content.
//
// Lookups are linear scans. This is fine for the few thousand records a bank
// account produces per year, and keeps identity and ordering semantics simple.
package store
