// Package api implements the HTTP surface of the account service: request
// parsing and validation, handlers for the auth and user endpoints, and
// the mapping from internal error kinds to sanitized HTTP responses.
package api
