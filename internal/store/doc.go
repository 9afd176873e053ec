// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage mechanism from the
// resource handlers; the gateway ships process-memory implementations in
// internal/platform/memory.
package store
