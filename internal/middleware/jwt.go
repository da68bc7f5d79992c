package middleware // reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
)

// ContextSessionKey is the echo context key under which SessionAuth
// stores the resolved *booking.Session.
const ContextSessionKey = "session"

// ContextSessionIDKey is the echo context key holding the session ID.
const ContextSessionIDKey = "session_id"

// SessionAuth returns an Echo middleware that validates a Bearer session
// token and resolves its subject against the session registry. The
// provided secret must match the one used when issuing tokens. Handlers
// behind this middleware read the session via c.Get(ContextSessionKey).
func SessionAuth(secret string, reg *booking.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 and our secret; reject any other signing
			// method.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			sid, _ := claims["sub"].(string)
			if sid == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			s, ok := reg.Get(sid)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown session"})
			}
			c.Set(ContextSessionIDKey, sid)
			c.Set(ContextSessionKey, s)
			return next(c)
		}
	}
}
