package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/treelinelabs/accounts-api/internal/api"
	apimiddleware "github.com/treelinelabs/accounts-api/internal/api/middleware"
	"github.com/treelinelabs/accounts-api/internal/domain"
	"github.com/treelinelabs/accounts-api/internal/service"
	"github.com/treelinelabs/accounts-api/internal/service/auth"
	"github.com/treelinelabs/accounts-api/internal/testutils/memstore"
)

const testSigningSecret = "test-secret-that-is-long-enough-for-testing"

// testServer wires real services over the in-memory store behind the
// same routes the production router serves.
type testServer struct {
	store  *memstore.Store
	tokens auth.TokenService
	hasher auth.PasswordHasher
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	memStore := memstore.New()
	tokens := auth.NewTestTokenService(testSigningSecret, 30*time.Minute, 24*time.Hour, time.Now)
	hasher := auth.NewBcryptHasher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authService := service.NewAuthService(memStore, tokens, hasher, logger)
	userService := service.NewUserService(memStore, tokens, hasher, logger)

	authHandler := api.NewAuthHandler(authService, logger)
	userHandler := api.NewUserHandler(userService, logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(userService, logger)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.Token)
		r.Post("/refresh-token", authHandler.RefreshToken)
	})
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireScopes("me"))
			r.Get("/me", userHandler.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireScopes("me", "items"))
			r.Get("/me/items", userHandler.MyItems)
		})
	})

	return &testServer{
		store:  memStore,
		tokens: tokens,
		hasher: hasher,
		router: r,
	}
}

// seedUser registers a user with the given plaintext password directly
// into committed store state.
func (s *testServer) seedUser(t *testing.T, email, password string, active bool) *domain.User {
	t.Helper()

	hash, err := s.hasher.Hash(password)
	require.NoError(t, err)

	user, err := domain.NewUser("Ada", "Lovelace", email, hash)
	require.NoError(t, err)
	user.IsActive = active

	return s.store.SeedUser(user)
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

type errorBody struct {
	Error string `json:"error"`
}
