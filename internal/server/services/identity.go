// Package services contains server-side business logic: the identity
// verifier that gates every protected request, the notification ledger and
// the account operations that feed it.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/dmitrijs2005/feedhub/internal/logging"
	"github.com/dmitrijs2005/feedhub/internal/server/auth"
	"github.com/dmitrijs2005/feedhub/internal/server/config"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services")

// IdentityVerifier turns a raw session token into the identity of an
// existing user. It never mutates state and never caches identities.
type IdentityVerifier struct {
	store   *repomanager.Store
	secret  []byte
	leeway  time.Duration
	timeout time.Duration
	logger  logging.Logger
}

func NewIdentityVerifier(store *repomanager.Store, cfg *config.Config, logger logging.Logger) *IdentityVerifier {
	return &IdentityVerifier{
		store:   store,
		secret:  []byte(cfg.SecretKey),
		leeway:  cfg.TokenClockSkew,
		timeout: cfg.StoreTimeout,
		logger:  logger.With("module", "identity"),
	}
}

// Authenticate validates rawToken and resolves its subject.
//
// Errors: common.ErrUnauthenticated (no token), common.ErrInvalidCredential
// (bad signature, algorithm, format or expiry), common.ErrUnknownSubject
// (subject is not an existing user) and common.ErrTransientFailure wrapping
// the store error otherwise.
func (v *IdentityVerifier) Authenticate(ctx context.Context, rawToken string) (models.Identity, error) {
	ctx, span := tracer.Start(ctx, "IdentityVerifier.Authenticate")
	defer span.End()

	if rawToken == "" {
		span.RecordError(common.ErrUnauthenticated)
		return models.Identity{}, common.ErrUnauthenticated
	}

	userID, err := auth.ParseToken(rawToken, v.secret, v.leeway)
	if err != nil {
		v.logger.Info(ctx, "credential rejected", "cause", err.Error())
		span.RecordError(err)
		return models.Identity{}, common.ErrInvalidCredential
	}

	if _, err := uuid.Parse(userID); err != nil {
		v.logger.Info(ctx, "credential subject is not a user id", "subject", userID)
		span.RecordError(err)
		return models.Identity{}, common.ErrUnknownSubject
	}

	sctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	user, err := v.store.Repos.Users(v.store.Conn).GetUserByID(sctx, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, common.ErrorNotFound) {
			v.logger.Info(ctx, "credential subject no longer exists", "subject", userID)
			return models.Identity{}, common.ErrUnknownSubject
		}
		v.logger.Error(ctx, "identity lookup failed", "error", err.Error())
		return models.Identity{}, fmt.Errorf("%w: %w", common.ErrTransientFailure, err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user.Identity(), nil
}
