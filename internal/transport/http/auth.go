package httpserver

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/diary/internal/models"
	"github.com/Skotchmaster/diary/internal/tokens"
	"github.com/labstack/echo/v4"
)

type Registrar interface {
	Register(ctx context.Context, username, password string) (models.User, error)
}

type LoginIssuer interface {
	Login(ctx context.Context, username, password string) (tokens.Issued, error)
}

type AuthHTTP struct {
	Credentials Registrar
	Sessions    LoginIssuer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.Credentials.Register(c.Request().Context(), req.Username, req.Password); err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully!"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	issued, err := h.Sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Message:   "Login successful!",
	})
}
