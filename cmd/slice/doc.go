// Package slice implements the commands working on persisted slices.
package slice
