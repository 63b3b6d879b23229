// Package model holds the persisted entities and the request payloads the
// HTTP layer binds into.
package model
