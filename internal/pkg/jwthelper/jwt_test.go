package jwthelper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

const testKey = "test-signing-key"

func TestGenerateAndParse(t *testing.T) {
	actor := domain.Actor{
		UserID: 42,
		Email:  "jo@example.com",
		Name:   "Jo",
		Role:   domain.RoleVisitor,
		Roles:  []domain.Role{domain.RoleVisitor, domain.RoleExhibitor},
	}

	token, err := GenerateToken(testKey, actor, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testKey, token)
	require.NoError(t, err)

	got, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestParseToken_Invalid(t *testing.T) {
	actor := domain.Actor{UserID: 1, Role: domain.RoleAdmin, Roles: []domain.Role{domain.RoleAdmin}}

	t.Run("wrong key", func(t *testing.T) {
		token, err := GenerateToken(testKey, actor, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken("another-key", token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateToken(testKey, actor, -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(testKey, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseToken(testKey, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseToken(testKey, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Actor(t *testing.T) {
	tests := []struct {
		name    string
		claims  Claims
		wantErr error
	}{
		{
			name:    "subject is not numeric",
			claims:  Claims{ActiveRole: "ADMIN", Roles: []string{"ADMIN"}, RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}},
			wantErr: ErrInvalidSubject,
		},
		{
			name:    "unknown role",
			claims:  Claims{ActiveRole: "ROOT", Roles: []string{"ROOT"}, RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}},
			wantErr: ErrUnknownRole,
		},
		{
			name:    "active role not granted",
			claims:  Claims{ActiveRole: "ADMIN", Roles: []string{"VISITOR"}, RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}},
			wantErr: ErrRoleNotGranted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.claims.Actor()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
