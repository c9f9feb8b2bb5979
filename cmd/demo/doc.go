// Package demo implements the demo command: a small persisted application
// that shows lazy restore and write coalescing against a real storage.
package demo
