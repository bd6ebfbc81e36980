package middleware

import (
	"errors"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/pkg/config"
	"github.com/my-workj-ob/kelishamiz-backend-sub000/webapi/common"
)

// ErrSecretNotConfigured is returned when an admin token is requested while
// ADMIN_JWT_SECRET is empty.
var ErrSecretNotConfigured = errors.New("admin jwt secret is not configured")

// Protected guards the operator endpoints with an HS256 bearer token. With
// no secret configured every request is rejected.
func Protected(cfg *config.Admin) fiber.Handler {
	if cfg == nil || cfg.JwtSecret == "" {
		return func(c *fiber.Ctx) error {
			return jwtError(c, ErrSecretNotConfigured)
		}
	}
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(cfg.JwtSecret),
		},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return common.ProblemDetailsJSON(c, "Unauthorized", err.Error(), fiber.StatusUnauthorized)
}

// IssueToken signs an operator token for subject valid for cfg.JwtExpiry.
func IssueToken(cfg *config.Admin, subject string, now time.Time) (string, error) {
	if cfg == nil || cfg.JwtSecret == "" {
		return "", ErrSecretNotConfigured
	}
	expiry := cfg.JwtExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	})
	return token.SignedString([]byte(cfg.JwtSecret))
}
