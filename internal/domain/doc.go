// Package domain contains the entities served by the gateway's resource
// handlers (users, files and messages) together with their validation rules.
// It is independent of storage and transport.
package domain
