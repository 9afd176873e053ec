// Package shared contains the response envelope, request-context accessors
// and request decoding helpers used by both the middleware chain and the
// resource handlers.
package shared
