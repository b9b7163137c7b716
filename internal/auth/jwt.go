package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("token invalide")

type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Provider string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// User reconstruit l'identité portée par le jeton.
func (c *Claims) User() models.User {
	return models.User{ID: c.UserID, Email: c.Email, Name: c.Name, Role: c.Role, Provider: c.Provider}
}

type TokenIssuer struct {
	secret     []byte
	ttl        time.Duration
	adminEmail string
	now        func() time.Time
}

func NewTokenIssuer(secret, adminEmail string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, adminEmail: adminEmail, now: time.Now}
}

// RoleFor donne le rôle admin à l'adresse d'administration, client sinon.
func (t *TokenIssuer) RoleFor(email string) string {
	if t.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(t.adminEmail)) {
		return models.RoleAdmin
	}
	return models.RoleCustomer
}

func (t *TokenIssuer) Generate(user models.User) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("JWT_SECRET non configuré")
	}

	now := t.now()
	claims := Claims{
		UserID:   user.ID,
		Email:    strings.ToLower(user.Email),
		Name:     user.Name,
		Role:     t.RoleFor(user.Email),
		Provider: user.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
