// Package rest exposes the feedhub HTTP API on top of echo.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/dmitrijs2005/feedhub/internal/logging"
	"github.com/dmitrijs2005/feedhub/internal/server/config"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

const shutdownTimeout = 10 * time.Second

// Authenticator resolves a raw session token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (models.Identity, error)
}

// Inbox is the recipient-facing side of the notification ledger.
type Inbox interface {
	FetchInbox(ctx context.Context, userID string) ([]models.InboxEntry, error)
	PurgeInbox(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// Accounts covers the account and follow operations.
type Accounts interface {
	Register(ctx context.Context, username, fullName, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (models.Identity, string, error)
	IssueToken(userID string) (string, error)
	ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type Server struct {
	address       string
	echo          *echo.Echo
	verifier      Authenticator
	inbox         Inbox
	accounts      Accounts
	logger        logging.Logger
	cookieSecure  bool
	tokenValidity time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, v Authenticator, in Inbox, acc Accounts) *Server {
	s := &Server{
		address:       cfg.HTTPAddr,
		verifier:      v,
		inbox:         in,
		accounts:      acc,
		logger:        l.With("module", "http_server"),
		cookieSecure:  cfg.CookieSecure,
		tokenValidity: cfg.AccessTokenValidityDuration,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        newRequestID,
		RequestIDHandler: attachRequestID,
	}))
	e.Use(otelecho.Middleware("feedhub"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogValuesFunc: s.logRequest,
	}))
	e.Use(middleware.Secure())

	s.echo = e
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", s.handleSignup)
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/logout", s.handleLogout)
	authGroup.GET("/me", s.handleMe, s.requireIdentity)

	notifications := api.Group("/notifications", s.requireIdentity)
	notifications.GET("", s.handleFetchNotifications)
	notifications.DELETE("", s.handleDeleteNotifications)
	notifications.GET("/unread", s.handleUnreadCount)

	users := api.Group("/users", s.requireIdentity)
	users.POST("/follow/:id", s.handleFollow)
	users.DELETE("/me", s.handleDeleteAccount)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newRequestID() string {
	id, err := common.MakeRandHexString(16)
	if err != nil {
		return ""
	}
	return id
}

func attachRequestID(c echo.Context, id string) {
	r := c.Request()
	c.SetRequest(r.WithContext(logging.WithRequestID(r.Context(), id)))
}

func (s *Server) logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	s.logger.Info(c.Request().Context(), "request",
		"method", v.Method,
		"uri", v.URI,
		"status", v.Status,
		"latency", v.Latency.String(),
	)
	return nil
}
