package httpserver

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/diary/internal/middleware/auth"
	"github.com/Skotchmaster/diary/internal/models"
	"github.com/Skotchmaster/diary/internal/service"
	"github.com/Skotchmaster/diary/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Diary interface {
	Create(ctx context.Context, userID, title, content string) (models.DiaryEntry, error)
	List(ctx context.Context, userID string) ([]models.DiaryEntry, error)
	Get(ctx context.Context, userID, id string) (models.DiaryEntry, error)
	Update(ctx context.Context, userID, id, title, content string) (models.DiaryEntry, error)
	Delete(ctx context.Context, userID, id string) error
	SearchEntries(ctx context.Context, userID, query string, from, size int) (service.SearchResult, error)
}

type DiaryHTTP struct {
	Diary Diary
}

func (h *DiaryHTTP) Create(c echo.Context) error {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	entry, err := h.Diary.Create(c.Request().Context(), auth.UserID(c), req.Title, req.Content)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *DiaryHTTP) List(c echo.Context) error {
	entries, err := h.Diary.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *DiaryHTTP) Get(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}

	entry, err := h.Diary.Get(c.Request().Context(), auth.UserID(c), id)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *DiaryHTTP) Update(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}

	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	entry, err := h.Diary.Update(c.Request().Context(), auth.UserID(c), id, req.Title, req.Content)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *DiaryHTTP) Delete(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}

	if err := h.Diary.Delete(c.Request().Context(), auth.UserID(c), id); err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Entry deleted successfully!"})
}

func (h *DiaryHTTP) Search(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	res, err := h.Diary.SearchEntries(c.Request().Context(), auth.UserID(c), c.QueryParam("query"), from, size)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": res.Total, "entries": res.Entries})
}

func entryID(c echo.Context) (string, error) {
	id := c.Param("id")
	if err := uuid.Validate(id); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid entry id")
	}
	return id, nil
}
