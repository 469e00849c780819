// Package shared provides helpers used across API handlers and middleware:
// JSON response writing and request-context keys.
package shared

// ContextKey is a private type for request context keys to avoid
// collisions with other packages' context values.
type ContextKey string

// UserContextKey is the request context key under which the
// authentication middleware stores the resolved *domain.User.
const UserContextKey ContextKey = "current_user"
