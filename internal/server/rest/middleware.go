package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/dmitrijs2005/feedhub/internal/logging"
	"github.com/dmitrijs2005/feedhub/internal/server/auth"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("rest")

// tokenFrom reads the session token from the jwt cookie, falling back to an
// Authorization: Bearer header. It returns "" when neither is usable.
func tokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(common.TokenCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}

	scheme, token, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireIdentity rejects the request unless its token resolves to an
// existing user, and otherwise puts that identity into the request context.
func (s *Server) requireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "rest.requireIdentity")
		defer span.End()

		id, err := s.verifier.Authenticate(ctx, tokenFrom(c))
		if err != nil {
			span.RecordError(err)
			if common.IsAuthRejection(err) {
				s.logger.Info(ctx, "request rejected", "reason", err.Error())
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
			}
			s.logger.Error(ctx, "identity verification failed", "error", err.Error())
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgRetry})
		}
		span.SetAttributes(attribute.String("user.id", id.ID))

		ctx = auth.WithIdentity(c.Request().Context(), id)
		ctx = logging.WithUserID(ctx, id.ID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// identity returns the identity attached by requireIdentity.
func identity(c echo.Context) models.Identity {
	id, _ := auth.IdentityFrom(c.Request().Context())
	return id
}
