// Package tui renders study and match sessions as bubbletea programs for the
// flipcards terminal client.
package tui
