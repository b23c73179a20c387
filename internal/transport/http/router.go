package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Skotchmaster/diary/internal/logging"
	"github.com/Skotchmaster/diary/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/diary/internal/middleware/logging"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store    Pinger
	Verifier auth.Verifier
	Auth     *AuthHTTP
	Diary    *DiaryHTTP
}

// NewEcho builds the server with the shared middleware chain.
func NewEcho(base *slog.Logger, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.RequestID(),
		loggingmw.RequestLogger(base),
		middleware.Recover(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: corsOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}),
	)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	api := e.Group("/api")

	authg := api.Group("/auth")
	authg.POST("/register", d.Auth.Register)
	authg.POST("/login", d.Auth.Login)

	diary := api.Group("/diary", auth.RequireAuth(d.Verifier))
	diary.POST("", d.Diary.Create)
	diary.GET("", d.Diary.List)
	diary.GET("/search", d.Diary.Search)
	diary.GET("/:id", d.Diary.Get)
	diary.PUT("/:id", d.Diary.Update)
	diary.DELETE("/:id", d.Diary.Delete)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		logging.FromContext(ctx).Warn("readiness_failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
