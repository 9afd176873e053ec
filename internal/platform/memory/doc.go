// Package memory provides process-memory implementations of the storage
// interfaces defined in internal/store. Data lives for the lifetime of the
// process; every store is safe for concurrent use.
package memory
