// Package middleware provides HTTP middleware for the FileVault API.
package middleware

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the context key under which JWTAuth stores the caller's id
const UserIDKey = "userID"

// accessTokenCookie is the cookie checked when no Authorization header is set
const accessTokenCookie = "access_token"

// JWTAuth validates a bearer token from the Authorization header or the
// access_token cookie and stores the authenticated user id on the context.
func JWTAuth(secret []byte, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				if logger != nil {
					logger.Warn("missing access token",
						slog.String("ip", c.RealIP()),
						slog.String("path", c.Path()))
				}
				return unauthorized("missing access token")
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				if logger != nil {
					logger.Warn("invalid access token",
						slog.String("ip", c.RealIP()),
						slog.String("path", c.Path()))
				}
				return unauthorized("invalid or expired token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized("invalid token claims")
			}
			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return unauthorized("invalid token claims")
			}
			userID, err := strconv.ParseUint(sub, 10, 64)
			if err != nil {
				return unauthorized("invalid token claims")
			}

			c.Set(UserIDKey, uint(userID))
			return next(c)
		}
	}
}

// bearerToken extracts the token from the Authorization header, falling back
// to the access_token cookie set at login.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

func unauthorized(message string) error {
	return echo.NewHTTPError(401, map[string]string{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}
