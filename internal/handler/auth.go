package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/runlog/runlog-api/internal/config"
	"github.com/runlog/runlog-api/internal/model"
	"github.com/runlog/runlog-api/internal/repository"
	"github.com/runlog/runlog-api/internal/utils"
)

// AuthHandler serves the two anonymous endpoints: registration and login.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// Register handles POST /api/register. The candidate user is validated
// before any write; the duplicate-email pre-check is advisory and the unique
// index catches the race at commit time, both surfacing the same 400.
func (h *AuthHandler) Register(c echo.Context) error {
	form, err := formValues(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	user := model.User{
		IsActive: sql.NullBool{Bool: true, Valid: true},
		Metric:   sql.NullBool{Bool: false, Valid: true},
	}
	patchString(form, "first_name", &user.FirstName)
	patchString(form, "last_name", &user.LastName)
	patchString(form, "email", &user.Email)
	patchString(form, "password", &user.Password)
	patchBool(form, "is_active", &user.IsActive)
	patchBool(form, "metric", &user.Metric)

	if err := user.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, user.Email.String); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "That email address is already in use"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create new user"})
	}

	hash, err := utils.HashPassword(user.Password.String, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create new user"})
	}
	user.PasswordHash = hash

	if err := h.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "That email address is already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create new user"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"user": user.Serialize()})
}

// Login handles POST /api/login, exchanging email and password for a bearer
// token. Inactive users can still log in: the active flag is a business
// marker, not a visibility or access filter.
func (h *AuthHandler) Login(c echo.Context) error {
	form, err := formValues(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := form.Get("email")
	password := form.Get("password")
	if email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Must supply email and password"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to log in"})
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, h.Cfg.TokenTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to log in"})
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": token.Token})
}
