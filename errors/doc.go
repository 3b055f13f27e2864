// Package errors provides the error taxonomy for discovery client resolution
// and registration. Every failure carries a machine-readable ErrorCode so
// startup code can tell a misconfiguration from a transient fault.
package errors
