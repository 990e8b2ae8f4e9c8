// Package scheduler triggers the daily playlist reload at the channel's
// configured day start.
package scheduler
