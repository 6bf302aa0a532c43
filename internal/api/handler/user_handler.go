package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/brandshub/user-directory/internal/api/metrics"
	"github.com/brandshub/user-directory/internal/core/domain"
	"github.com/brandshub/user-directory/internal/core/ports"
)

// LoginThrottle abstracts the failed-login counter (Redis). A nil throttle
// disables throttling entirely.
type LoginThrottle interface {
	Blocked(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

// UserHandler translates HTTP requests into identity service calls.
type UserHandler struct {
	users    ports.UserService
	throttle LoginThrottle
	log      zerolog.Logger
}

func NewUserHandler(users ports.UserService, throttle LoginThrottle, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, throttle: throttle, log: log}
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  ports.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userType, _ := domain.ParseUserType(req.UserType)
	profile, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
		PhoneNumber: req.PhoneNumber,
		UserType:    userType,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(profile.UserType)).Inc()
	return c.JSON(http.StatusCreated, profile)
}

// Login authenticates a user and returns a bearer token bundle.
//
// @Summary      Login with username or email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.LoginResult
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	// Throttle failures fail open: availability over strictness.
	if h.throttle != nil {
		blocked, err := h.throttle.Blocked(ctx, req.UsernameOrEmail)
		if err != nil {
			h.log.Warn().Err(err).Msg("login throttle unavailable, continuing")
		} else if blocked {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many failed login attempts")
		}
	}

	result, err := h.users.Authenticate(ctx, req.UsernameOrEmail, req.Password)
	if err != nil {
		if h.throttle != nil {
			if terr := h.throttle.RecordFailure(ctx, req.UsernameOrEmail); terr != nil {
				h.log.Warn().Err(terr).Msg("login throttle record failed")
			}
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	if h.throttle != nil {
		if terr := h.throttle.Reset(ctx, req.UsernameOrEmail); terr != nil {
			h.log.Warn().Err(terr).Msg("login throttle reset failed")
		}
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, result)
}

// GetByID returns one user (self-or-admin).
//
// @Summary      Get user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  ports.UserProfile
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	profile, err := h.users.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetByUsername returns one user by username (admin only).
func (h *UserHandler) GetByUsername(c echo.Context) error {
	profile, err := h.users.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetByEmail returns one user by email (admin only).
func (h *UserHandler) GetByEmail(c echo.Context) error {
	profile, err := h.users.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Update overwrites a user's profile (self-or-admin).
//
// @Summary      Update user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Profile fields"
// @Success      200   {object}  ports.UserProfile
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userType, _ := domain.ParseUserType(req.UserType)
	profile, err := h.users.UpdateProfile(c.Request().Context(), c.Param("id"), ports.UpdateProfileInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
		PhoneNumber: req.PhoneNumber,
		UserType:    userType,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Delete hard-removes a user (admin only).
//
// @Summary      Delete user
// @Tags         users
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAll returns every user (admin only).
func (h *UserHandler) ListAll(c echo.Context) error {
	profiles, err := h.users.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// ListByType returns users filtered by INTERNAL/EXTERNAL (admin only).
func (h *UserHandler) ListByType(c echo.Context) error {
	userType, ok := domain.ParseUserType(c.Param("type"))
	if !ok {
		return domain.ValidationError("type", "must be INTERNAL or EXTERNAL")
	}
	profiles, err := h.users.ListByType(c.Request().Context(), userType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// ListByStatus returns users filtered by account status (admin only).
func (h *UserHandler) ListByStatus(c echo.Context) error {
	status, ok := domain.ParseUserStatus(c.Param("status"))
	if !ok {
		return domain.ValidationError("status", "must be ACTIVE, INACTIVE, SUSPENDED or PENDING")
	}
	profiles, err := h.users.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// SearchByName matches first or last name, case-insensitive substring (admin only).
func (h *UserHandler) SearchByName(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return domain.ValidationError("name", "is required")
	}
	profiles, err := h.users.SearchByName(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// SearchByCompany matches company name, case-insensitive substring (admin only).
func (h *UserHandler) SearchByCompany(c echo.Context) error {
	company := c.QueryParam("company")
	if company == "" {
		return domain.ValidationError("company", "is required")
	}
	profiles, err := h.users.SearchByCompany(c.Request().Context(), company)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// UpdateStatus moves the account to a new status (admin only).
//
// @Summary      Update user status
// @Tags         users
// @Produce      json
// @Param        id      path   string  true  "User id"
// @Param        status  query  string  true  "New status"
// @Success      200  {object}  ports.UserProfile
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/status [patch]
func (h *UserHandler) UpdateStatus(c echo.Context) error {
	status, ok := domain.ParseUserStatus(c.QueryParam("status"))
	if !ok {
		return domain.ValidationError("status", "must be ACTIVE, INACTIVE, SUSPENDED or PENDING")
	}
	profile, err := h.users.UpdateStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// AddRole adds a role to the user's set; idempotent (admin only).
func (h *UserHandler) AddRole(c echo.Context) error {
	profile, err := h.users.AddRole(c.Request().Context(), c.Param("id"), c.QueryParam("role"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// RemoveRole removes a role from the user's set; idempotent (admin only).
func (h *UserHandler) RemoveRole(c echo.Context) error {
	profile, err := h.users.RemoveRole(c.Request().Context(), c.Param("id"), c.QueryParam("role"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateLastLogin stamps last_login for decoupled login bookkeeping (admin only).
func (h *UserHandler) UpdateLastLogin(c echo.Context) error {
	if err := h.users.UpdateLastLogin(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
