package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/runlog/runlog-api/internal/model"
	"github.com/runlog/runlog-api/internal/repository"
	"github.com/runlog/runlog-api/internal/utils"
)

// Profile endpoints operate implicitly on the caller's own row; there is no
// target id to check ownership against, authentication alone suffices.

// Profile handles GET /api/profile.
func (h *UserHandler) Profile(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.caller(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user.Serialize()})
}

// UpdateProfile handles PUT /api/profile. Only supplied keys are applied;
// the merged candidate is re-validated as a whole. When no new password is
// sent the stored hash stands in for the password rule, so the length check
// only ever fires against a freshly supplied clear-text value.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.caller(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	form, err := formValues(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	user.Password = sql.NullString{String: user.PasswordHash, Valid: true}
	patchString(form, "first_name", &user.FirstName)
	patchString(form, "last_name", &user.LastName)
	patchString(form, "email", &user.Email)
	patchString(form, "password", &user.Password)
	patchBool(form, "is_active", &user.IsActive)
	patchBool(form, "metric", &user.Metric)

	if err := user.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if _, ok := form["email"]; ok {
		other, err := h.Users.GetByEmail(ctx, user.Email.String)
		if err == nil && other.ID != user.ID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "That email address is already in use"})
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to update user"})
		}
	}

	if _, ok := form["password"]; ok {
		hash, err := utils.HashPassword(user.Password.String, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to update user"})
		}
		user.PasswordHash = hash
	}

	if err := h.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "That email address is already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to update user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user.Serialize()})
}

// DeleteProfile handles DELETE /api/profile. Users are soft-deleted: the
// active flag flips, the row and its runs stay.
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.caller(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	user.IsActive = sql.NullBool{Bool: false, Valid: true}
	if err := h.Users.Update(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to delete user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deactivated"})
}

// caller resolves the authenticated user's row from the JWT subject.
func (h *UserHandler) caller(c echo.Context, ctx context.Context) (*model.User, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	return h.Users.GetByID(ctx, uid)
}
