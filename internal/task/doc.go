// Package task runs background jobs on a bounded in-memory queue served by a
// fixed pool of workers. Jobs are not persisted: a job still queued when the
// process stops is lost, which is acceptable for the progress records it
// carries.
package task
