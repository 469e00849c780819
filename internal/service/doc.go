// Package service provides the application-level operations of the
// account service: credential login, token refresh, account registration,
// and bearer-token request authentication. Each operation runs its
// repository calls inside one unit of work scope.
package service
