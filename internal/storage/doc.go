// Package storage keeps a small history of playlist loads: which source
// served each broadcast day, whether the filler had to stand in, and how
// validation went.
package storage
