// Package validator is the background validation dispatcher: loads submit an
// owned playlist snapshot and return immediately; a small worker pool checks
// the snapshot and records the outcome, without ever touching the playlist
// the caller keeps.
package validator
