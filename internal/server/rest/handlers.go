package rest

import (
	"net/http"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/labstack/echo/v4"
)

type signupRequest struct {
	UserName string `json:"username" validate:"required,min=3,max=32"`
	FullName string `json:"fullName" validate:"max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	UserName string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	models.Identity
	Token string `json:"token"`
}

type inboxResponse struct {
	Success       bool                `json:"success"`
	Notifications []models.InboxEntry `json:"notifications"`
}

type purgeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type unreadResponse struct {
	Unread int64 `json:"unread"`
}

type followResponse struct {
	Following bool   `json:"following"`
	Message   string `json:"message"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()
	u, err := s.accounts.Register(ctx, req.UserName, req.FullName, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	token, err := s.accounts.IssueToken(u.ID)
	if err != nil {
		return s.writeError(c, err)
	}
	s.setSessionCookie(c, token)

	return c.JSON(http.StatusCreated, u.Identity())
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	id, token, err := s.accounts.Login(c.Request().Context(), req.UserName, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}
	s.setSessionCookie(c, token)

	return c.JSON(http.StatusOK, loginResponse{Identity: id, Token: token})
}

func (s *Server) handleLogout(c echo.Context) error {
	s.clearSessionCookie(c)
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Logged out successfully"})
}

func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, identity(c))
}

func (s *Server) handleFetchNotifications(c echo.Context) error {
	entries, err := s.inbox.FetchInbox(c.Request().Context(), identity(c).ID)
	if err != nil {
		return s.writeError(c, err)
	}
	if entries == nil {
		entries = []models.InboxEntry{}
	}
	return c.JSON(http.StatusOK, inboxResponse{Success: true, Notifications: entries})
}

func (s *Server) handleDeleteNotifications(c echo.Context) error {
	n, err := s.inbox.PurgeInbox(c.Request().Context(), identity(c).ID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, purgeResponse{
		Success: true,
		Message: "Notifications deleted successfully",
		Deleted: n,
	})
}

func (s *Server) handleUnreadCount(c echo.Context) error {
	n, err := s.inbox.UnreadCount(c.Request().Context(), identity(c).ID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, unreadResponse{Unread: n})
}

func (s *Server) handleFollow(c echo.Context) error {
	following, err := s.accounts.ToggleFollow(c.Request().Context(), identity(c).ID, c.Param("id"))
	if err != nil {
		return s.writeError(c, err)
	}

	msg := "User unfollowed successfully"
	if following {
		msg = "User followed successfully"
	}
	return c.JSON(http.StatusOK, followResponse{Following: following, Message: msg})
}

func (s *Server) handleDeleteAccount(c echo.Context) error {
	if err := s.accounts.DeleteAccount(c.Request().Context(), identity(c).ID); err != nil {
		return s.writeError(c, err)
	}
	s.clearSessionCookie(c)
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Account deleted"})
}

func (s *Server) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     common.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokenValidity.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     common.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
