package handlers

import (
	"net/http"
	"strings"
	"time"

	"claim_flow_app_go/db"
	"claim_flow_app_go/middleware"
	"claim_flow_app_go/models"
	"claim_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// sessionMaxAge matches the session lifetime used by CreateSession
const sessionMaxAge = int(services.DefaultSessionDuration / time.Second)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginHandler authenticates a user and issues a session cookie
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	var user models.User
	if err := db.DB.First(&user, "email = ?", email).Error; err != nil {
		// Same response for unknown user and bad password
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	if !user.IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	if !services.CheckPassword(req.Password, user.Password) {
		c.Logger().Warnf("[SECURITY] Failed login attempt for %s from %s", email, c.RealIP())
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		c.Logger().Errorf("Failed to create session: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	now := time.Now()
	db.DB.Model(&user).Update("last_login_at", now)

	middleware.SetSessionCookie(c, session.Token, sessionMaxAge)

	services.LogAuditEvent(db.DB, services.ActorContext(&user), models.AuditActionLogin,
		"User", user.ID, user.Email, "User logged in", nil, nil)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// LogoutHandler deletes the session and clears the cookie
func LogoutHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			c.Logger().Errorf("Failed to delete session: %v", err)
		}
	}
	middleware.ClearSessionCookie(c)

	if user != nil {
		services.LogAuditEvent(db.DB, services.ActorContext(user), models.AuditActionLogout,
			"User", user.ID, user.Email, "User logged out", nil, nil)
	}

	return c.NoContent(http.StatusNoContent)
}

// MeHandler returns the authenticated user's profile
func MeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}
