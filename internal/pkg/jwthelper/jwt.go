package jwthelper

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrInvalidSubject = errors.New("token subject is not a user id")
	ErrUnknownRole    = errors.New("token carries an unknown role")
	ErrRoleNotGranted = errors.New("active role is not among the granted roles")
)

// Claims are issued by the identity provider. Roles lists every role granted
// to the user; ActiveRole is the one the session currently runs under.
type Claims struct {
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Roles      []string `json:"roles"`
	ActiveRole string   `json:"active_role"`
	jwt.RegisteredClaims
}

func GenerateToken(signingKey string, actor domain.Actor, ttl time.Duration) (string, error) {
	roles := make([]string, len(actor.Roles))
	for i, r := range actor.Roles {
		roles[i] = string(r)
	}

	now := time.Now()
	claims := Claims{
		Email:      actor.Email,
		Name:       actor.Name,
		Roles:      roles,
		ActiveRole: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(actor.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

func ParseToken(signingKey, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(signingKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}

// Actor turns verified claims into the caller of a service operation.
func (c *Claims) Actor() (domain.Actor, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return domain.Actor{}, ErrInvalidSubject
	}

	actor := domain.Actor{
		UserID: uint(id),
		Email:  c.Email,
		Name:   c.Name,
		Role:   domain.Role(c.ActiveRole),
	}
	for _, r := range c.Roles {
		role := domain.Role(r)
		if !role.Valid() {
			return domain.Actor{}, ErrUnknownRole
		}
		actor.Roles = append(actor.Roles, role)
	}

	if !actor.Role.Valid() {
		return domain.Actor{}, ErrUnknownRole
	}
	if !actor.User().HasRole(actor.Role) {
		return domain.Actor{}, ErrRoleNotGranted
	}

	return actor, nil
}
