// Package middleware holds the HTTP middleware that every request passes
// through before routing: error normalization, request ids, body parsing
// and request logging.
package middleware
