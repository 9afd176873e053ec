// Package api is the gateway's HTTP surface: the ordered dispatch table, the
// resource handler sets mounted under /api, the informational routes and the
// catch-all 404. Handlers never write error responses themselves; they
// return tagged apierr values which the error normalizer in the middleware
// package turns into the JSON envelope.
package api
