// Package watcher re-triggers a playlist load when the current day's
// playlist file is rewritten on disk.
package watcher
