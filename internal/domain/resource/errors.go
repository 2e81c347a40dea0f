package resource

import "errors"

var (
	// ErrResourceNotFound indicates the referenced resource or code does
	// not exist in the tree. Callers translate this into a structured
	// "resource unknown" response, never an internal error.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrTreeCorrupted indicates the parent-pointer graph encodes a cycle.
	ErrTreeCorrupted = errors.New("resource tree is corrupted: cycle detected")
	// ErrCodeExists indicates a duplicate code within one client's forest.
	ErrCodeExists = errors.New("resource code already exists for this client")
)
