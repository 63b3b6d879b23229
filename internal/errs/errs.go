// Package errs defines the error types the API returns to clients.
//
// Every failure that reaches the client is an *HTTPError so responses share
// one JSON shape, with optional field-level errors for invalid payloads.
package errs
