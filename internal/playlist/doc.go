// Package playlist is the acquisition core: it resolves the playlist source
// for a broadcast date, loads it from disk or a remote endpoint, annotates
// every item with absolute timing, and hands a snapshot to the background
// validator.
//
// Missing sources degrade to a one-clip filler playlist; malformed sources
// abort the load (see ErrMalformed).
package playlist
