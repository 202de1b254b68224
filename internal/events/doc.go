// Package events decouples the components that announce something happened
// from the components that act on it. Study sessions announce completed
// passes; the task package turns those announcements into background jobs.
package events
