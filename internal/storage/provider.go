// Package storage defines the file-system abstraction used for documents,
// output tables, and the token file.
package storage

import "io"

// Provider is the interface for file operations rooted at the output directory.
// All paths are relative to that root.
type Provider interface {
	// Exists reports whether a regular file is present at path.
	Exists(path string) bool
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// WriteFrom streams r into a temporary sibling and renames it onto path
	// once r is drained. It returns the byte count and SHA-256 of the body.
	WriteFrom(path string, r io.Reader) (int64, string, error)
	// Append adds data to the end of path, writing header first when the
	// file is new or empty.
	Append(path string, header, data []byte) error
	// Abs resolves path against the root.
	Abs(path string) (string, error)
}
