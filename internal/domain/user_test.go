package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("new users start active and unverified", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("Ada", "Lovelace", "ada@example.com", "hashed-password")
		require.NoError(t, err)

		assert.True(t, user.IsActive)
		assert.False(t, user.IsVerified)
		assert.Nil(t, user.VerifiedAt)
		assert.Zero(t, user.ID)
		assert.True(t, user.CreatedAt.IsZero())
	})

	tests := []struct {
		name           string
		firstName      string
		lastName       string
		email          string
		hashedPassword string
		wantErr        error
	}{
		{
			name:           "valid user",
			firstName:      "Ada",
			lastName:       "Lovelace",
			email:          "ada@example.com",
			hashedPassword: "hashed-password",
			wantErr:        nil,
		},
		{
			name:           "empty first name",
			lastName:       "Lovelace",
			email:          "ada@example.com",
			hashedPassword: "hashed-password",
			wantErr:        ErrEmptyFirstName,
		},
		{
			name:           "empty last name",
			firstName:      "Ada",
			email:          "ada@example.com",
			hashedPassword: "hashed-password",
			wantErr:        ErrEmptyLastName,
		},
		{
			name:           "empty email",
			firstName:      "Ada",
			lastName:       "Lovelace",
			hashedPassword: "hashed-password",
			wantErr:        ErrEmptyEmail,
		},
		{
			name:           "email without at sign",
			firstName:      "Ada",
			lastName:       "Lovelace",
			email:          "ada.example.com",
			hashedPassword: "hashed-password",
			wantErr:        ErrInvalidEmail,
		},
		{
			name:           "email without domain dot",
			firstName:      "Ada",
			lastName:       "Lovelace",
			email:          "ada@example",
			hashedPassword: "hashed-password",
			wantErr:        ErrInvalidEmail,
		},
		{
			name:           "email ending at the at sign",
			firstName:      "Ada",
			lastName:       "Lovelace",
			email:          "ada@",
			hashedPassword: "hashed-password",
			wantErr:        ErrInvalidEmail,
		},
		{
			name:      "empty hashed password",
			firstName: "Ada",
			lastName:  "Lovelace",
			email:     "ada@example.com",
			wantErr:   ErrEmptyHashedPassword,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user, err := NewUser(tc.firstName, tc.lastName, tc.email, tc.hashedPassword)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
			}
		})
	}
}

func TestUserJSONNeverExposesHash(t *testing.T) {
	t.Parallel()

	user, err := NewUser("Ada", "Lovelace", "ada@example.com", "super-secret-hash")
	require.NoError(t, err)

	encoded, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(encoded), "super-secret-hash")
	assert.NotContains(t, string(encoded), "hashed_password")
}
