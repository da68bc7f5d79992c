package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/middleware"
	"github.com/iliyamo/flight-reservation/internal/utils"
)

// AuthHandler bundles dependencies for session and account endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Registry *booking.Registry
}

func NewAuthHandler(cfg config.Config, reg *booking.Registry) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Registry: reg}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerReq struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	InitialBalance int64  `json:"initial_balance"`
}

type sessionResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// OpenSession creates a fresh anonymous session and returns a signed
// token whose subject is the session ID. All other endpoints require
// this token.
func (h *AuthHandler) OpenSession(c echo.Context) error {
	sid := h.Registry.Open()
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, sid, h.Cfg.SessionTTLMin)
	if err != nil {
		h.Registry.Close(sid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, sessionResp{Token: tok.Token, Expires: tok.Exp})
}

// CloseSession discards the current session.
func (h *AuthHandler) CloseSession(c echo.Context) error {
	if sid, ok := c.Get(middleware.ContextSessionIDKey).(string); ok {
		h.Registry.Close(sid)
	}
	return c.NoContent(http.StatusNoContent)
}

// Register creates a new customer account with a starting balance.
func (h *AuthHandler) Register(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := s.CreateCustomer(ctx, req.Username, req.Password, req.InitialBalance); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "created user " + req.Username})
}

// Login binds a user to the current session after verifying credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	s, err := sessionFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := s.Login(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, booking.ErrAlreadyLoggedIn) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged in as " + req.Username})
}

// sessionFrom extracts the *booking.Session placed in the context by the
// SessionAuth middleware.
func sessionFrom(c echo.Context) (*booking.Session, error) {
	if s, ok := c.Get(middleware.ContextSessionKey).(*booking.Session); ok && s != nil {
		return s, nil
	}
	return nil, errors.New("no session in context")
}
