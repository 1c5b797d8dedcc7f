package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/runlog/runlog-api/internal/config"
	"github.com/runlog/runlog-api/internal/repository"
	"github.com/runlog/runlog-api/internal/utils"
)

// UserHandler serves user listing, detail and the caller's own profile.
type UserHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	RunRepo *repository.RunRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, runs *repository.RunRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, RunRepo: runs}
}

// List handles GET /api/users. Page and page size fall back silently to
// their defaults when missing or unparseable; a requested page size above
// the configured maximum is clamped, not rejected. Search matches first name
// exactly, or first and last name exactly when two tokens are given.
func (h *UserHandler) List(c echo.Context) error {
	page := int64(1)
	if n, ok := utils.ParseInt(c.QueryParam("page")); ok && n > 0 {
		page = n
	}
	pageSize := int64(h.Cfg.DefaultPageSize)
	if n, ok := utils.ParseInt(c.QueryParam("page_size")); ok && n > 0 {
		pageSize = n
	}
	if pageSize > int64(h.Cfg.MaxPageSize) {
		pageSize = int64(h.Cfg.MaxPageSize)
	}

	filter := repository.UserFilter{Page: int(page), PageSize: int(pageSize)}
	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		tokens := strings.Split(search, " ")
		filter.FirstName = sql.NullString{String: tokens[0], Valid: true}
		if len(tokens) > 1 {
			filter.LastName = sql.NullString{String: tokens[1], Valid: true}
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch users"})
	}

	out := make([]map[string]any, 0, len(users))
	for i := range users {
		out = append(out, users[i].Serialize())
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// Detail handles GET /api/users/:id. Inactive users are returned like any
// other: soft deletion does not hide a user.
func (h *UserHandler) Detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user.Serialize()})
}

// Runs handles GET /api/users/:id/runs, returning the user with their runs
// expanded. Each run embeds the user's own base projection again: the
// serialization contract nests full projections, never bare identifiers.
func (h *UserHandler) Runs(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch user"})
	}

	runs, err := h.RunRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch runs"})
	}
	projections := make([]map[string]any, 0, len(runs))
	for i := range runs {
		projections = append(projections, runs[i].Serialize(user))
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user.SerializeWithRuns(projections)})
}
