// Package errors provides structured error handling for the identity core.
// Every failure the authentication layer can produce is represented as an
// *AppError carrying a machine-readable code, an HTTP status mapping, and an
// optional cause, so callers branch on error kinds instead of matching
// message strings.
package errors
