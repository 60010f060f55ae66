package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scouting-system/models"
)

const testSecret = "test-secret"

func newTestAuth(t *testing.T, users ...models.User) (*authService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo(users...)
	svc := NewAuthService(repo, testSecret).(*authService)
	issuedAt := time.Now().Truncate(time.Second)
	svc.now = func() time.Time { return issuedAt }
	return svc, repo
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestAuthService_Login(t *testing.T) {
	hash := mustHash(t, "correct-horse")
	svc, _ := newTestAuth(t,
		models.User{ID: "u1", FullName: "Anna Nowak", Email: "anna@example.com", PasswordHash: hash, Role: models.RoleAdmin, Active: true},
		models.User{ID: "u2", Email: "off@example.com", PasswordHash: hash, Role: models.RoleScout, Active: false},
	)

	tests := []struct {
		name    string
		creds   models.Credentials
		wantErr error
	}{
		{name: "valid", creds: models.Credentials{Email: "Anna@Example.com", Password: "correct-horse"}},
		{name: "wrong password", creds: models.Credentials{Email: "anna@example.com", Password: "nope-nope"}, wantErr: ErrInvalidCredentials},
		{name: "unknown email", creds: models.Credentials{Email: "who@example.com", Password: "correct-horse"}, wantErr: ErrInvalidCredentials},
		{name: "missing fields", creds: models.Credentials{Email: " "}, wantErr: ErrValidationFailed},
		{name: "inactive account", creds: models.Credentials{Email: "off@example.com", Password: "correct-horse"}, wantErr: ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), tt.creds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, res.Token)
			assert.Empty(t, res.User.PasswordHash)
			assert.Equal(t, "u1", res.User.ID)
		})
	}
}

func TestAuthService_IssueTokenClaims(t *testing.T) {
	svc, _ := newTestAuth(t)
	now := svc.now()

	signed, err := svc.IssueToken(models.User{ID: "u1", Email: "anna@example.com", Role: models.RoleScoutAgent})
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)

	assert.Equal(t, "u1", claims["user_id"])
	assert.Equal(t, "scout-agent", claims["role"])
	assert.Equal(t, "anna@example.com", claims["name"])
	assert.Equal(t, float64(now.Add(tokenTTL).Unix()), claims["exp"])
	assert.Equal(t, jwt.SigningMethodHS256.Alg(), token.Method.Alg())
}

func TestHashPasswordRejectsShortPasswords(t *testing.T) {
	_, err := hashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
