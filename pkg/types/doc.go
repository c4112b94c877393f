// Package types defines the core types and interfaces used throughout tidydl.
// This includes the FS interface the mover and organizer operate on, as well as
// data structures like File, Outcome and Summary.
package types
