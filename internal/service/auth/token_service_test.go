package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAccessToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	accessTTL := 30 * time.Minute
	svc := NewTestTokenService(testSecret, accessTTL, 24*time.Hour, fixedClock(fixedTime))

	t.Run("round-trips subject and scopes", func(t *testing.T) {
		t.Parallel()

		token, err := svc.IssueAccessToken(context.Background(), "ada@example.com", []string{"me", "items"})
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateAccessToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, "ada@example.com", claims.Subject)
		assert.Equal(t, []string{"me", "items"}, claims.Scopes)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(accessTTL).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("issues unique token IDs", func(t *testing.T) {
		t.Parallel()

		first, err := svc.IssueAccessToken(context.Background(), "ada@example.com", nil)
		require.NoError(t, err)
		second, err := svc.IssueAccessToken(context.Background(), "ada@example.com", nil)
		require.NoError(t, err)

		firstClaims, err := svc.ValidateAccessToken(context.Background(), first)
		require.NoError(t, err)
		secondClaims, err := svc.ValidateAccessToken(context.Background(), second)
		require.NoError(t, err)

		assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
	})
}

func TestIssueRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	refreshTTL := 24 * time.Hour
	svc := NewTestTokenService(testSecret, 30*time.Minute, refreshTTL, fixedClock(fixedTime))

	token, err := svc.IssueRefreshToken(context.Background(), "ada@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Empty(t, claims.Scopes, "refresh tokens must not carry scopes")
	assert.Equal(t, "refresh", claims.TokenType)
	assert.Equal(t, fixedTime.Add(refreshTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestValidateAccessToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	accessTTL := 30 * time.Minute

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (TokenService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (TokenService, string) {
				svc := NewTestTokenService(testSecret, accessTTL, 24*time.Hour, fixedClock(fixedTime))
				token, err := svc.IssueAccessToken(context.Background(), "ada@example.com", []string{"me"})
				require.NoError(t, err)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (TokenService, string) {
				issuer := NewTestTokenService(testSecret, accessTTL, 24*time.Hour, fixedClock(fixedTime))
				token, err := issuer.IssueAccessToken(context.Background(), "ada@example.com", nil)
				require.NoError(t, err)

				// Validate after the TTL has elapsed.
				verifier := NewTestTokenService(testSecret, accessTTL, 24*time.Hour,
					fixedClock(fixedTime.Add(accessTTL+time.Minute)))
				return verifier, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "tampered signature",
			setupFunc: func(t *testing.T) (TokenService, string) {
				issuer := NewTestTokenService("another-secret-that-is-long-enough-here", accessTTL, 24*time.Hour, fixedClock(fixedTime))
				token, err := issuer.IssueAccessToken(context.Background(), "ada@example.com", nil)
				require.NoError(t, err)

				verifier := NewTestTokenService(testSecret, accessTTL, 24*time.Hour, fixedClock(fixedTime))
				return verifier, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (TokenService, string) {
				svc := NewTestTokenService(testSecret, accessTTL, 24*time.Hour, fixedClock(fixedTime))
				return svc, "not.a.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token presented as access token",
			setupFunc: func(t *testing.T) (TokenService, string) {
				svc := NewTestTokenService(testSecret, accessTTL, 24*time.Hour, fixedClock(fixedTime))
				token, err := svc.IssueRefreshToken(context.Background(), "ada@example.com")
				require.NoError(t, err)
				return svc, token
			},
			wantErr: ErrWrongTokenType,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, token := tc.setupFunc(t)
			claims, err := svc.ValidateAccessToken(context.Background(), token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	refreshTTL := 24 * time.Hour

	t.Run("expired refresh token", func(t *testing.T) {
		t.Parallel()

		issuer := NewTestTokenService(testSecret, time.Minute, refreshTTL, fixedClock(fixedTime))
		token, err := issuer.IssueRefreshToken(context.Background(), "ada@example.com")
		require.NoError(t, err)

		verifier := NewTestTokenService(testSecret, time.Minute, refreshTTL,
			fixedClock(fixedTime.Add(refreshTTL+time.Minute)))
		_, err = verifier.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})

	t.Run("tampered refresh token", func(t *testing.T) {
		t.Parallel()

		svc := NewTestTokenService(testSecret, time.Minute, refreshTTL, fixedClock(fixedTime))
		token, err := svc.IssueRefreshToken(context.Background(), "ada@example.com")
		require.NoError(t, err)

		// Flip a character of the signature segment.
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		_, err = svc.ValidateRefreshToken(context.Background(), tampered)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("access token presented as refresh token", func(t *testing.T) {
		t.Parallel()

		svc := NewTestTokenService(testSecret, time.Minute, refreshTTL, fixedClock(fixedTime))
		token, err := svc.IssueAccessToken(context.Background(), "ada@example.com", []string{"me"})
		require.NoError(t, err)

		_, err = svc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secrets", func(t *testing.T) {
		t.Parallel()

		_, err := NewTokenService("too-short", "HS256", time.Minute, time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-HMAC algorithms", func(t *testing.T) {
		t.Parallel()

		_, err := NewTokenService(testSecret, "RS256", time.Minute, time.Hour)
		assert.Error(t, err)
	})

	t.Run("accepts HS256", func(t *testing.T) {
		t.Parallel()

		svc, err := NewTokenService(testSecret, "HS256", time.Minute, time.Hour)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}
