package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"aircraft-monitor/internal/config"
)

// AuthManager issues and validates the bearer tokens guarding mutating
// endpoints.
type AuthManager struct {
	cfg config.AuthConfig
}

type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

func NewAuthManager(cfg config.AuthConfig) *AuthManager {
	return &AuthManager{cfg: cfg}
}

// AuthenticateUser checks operator credentials against the configured
// bcrypt hashes.
func (am *AuthManager) AuthenticateUser(username, password string) error {
	for _, user := range am.cfg.Users {
		if user.Username == username {
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				return errors.New("invalid password")
			}
			return nil
		}
	}
	return errors.New("user not found")
}

// GenerateJWT creates a signed token for an authenticated operator.
func (am *AuthManager) GenerateJWT(username string) (string, error) {
	expiry := time.Now().Add(time.Duration(am.cfg.JWTExpirationMinutes) * time.Minute)
	claims := &Claims{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiry.Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    "aircraft-monitor",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(am.cfg.JWTSecret))
}

// ValidateJWT parses and validates a bearer token.
func (am *AuthManager) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(am.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireAuth guards a route group with bearer-token authentication.
func (am *AuthManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
			return
		}

		if _, err := am.ValidateJWT(parts[1]); err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// HashPassword creates a bcrypt hash for seeding operator credentials.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}
