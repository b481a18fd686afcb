package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/common"
	"github.com/dmitrijs2005/feedhub/internal/dbx"
	"github.com/dmitrijs2005/feedhub/internal/logging"
	"github.com/dmitrijs2005/feedhub/internal/server/auth"
	"github.com/dmitrijs2005/feedhub/internal/server/config"
	"github.com/dmitrijs2005/feedhub/internal/server/models"
	"github.com/dmitrijs2005/feedhub/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Notifier records a social event for its target. *NotificationLedger
// implements it.
type Notifier interface {
	RecordEvent(ctx context.Context, fromUserID, toUserID string, kind models.Kind) (string, error)
}

// UserService provides account operations:
// - Register / Login: password accounts and session tokens
// - ToggleFollow: follow graph updates that notify the followee
// - DeleteAccount
type UserService struct {
	store                       *repomanager.Store
	notifier                    Notifier
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	timeout                     time.Duration
	bcryptCost                  int
	logger                      logging.Logger
}

func NewUserService(store *repomanager.Store, notifier Notifier, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		store:                       store,
		notifier:                    notifier,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		timeout:                     cfg.StoreTimeout,
		bcryptCost:                  bcrypt.DefaultCost,
		logger:                      logger.With("module", "users"),
	}
}

// Register creates a password account. A taken username yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, fullName, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user := &models.User{UserName: username, FullName: fullName, PasswordHash: hash}
	u, err := s.store.Repos.Users(s.store.Conn).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the password and returns the identity with a fresh session
// token. Unknown users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (models.Identity, string, error) {
	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.store.Repos.Users(s.store.Conn).GetUserByLogin(sctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Identity{}, "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return models.Identity{}, "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return models.Identity{}, "", common.ErrorUnauthorized
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return models.Identity{}, "", err
	}
	return user.Identity(), token, nil
}

// IssueToken mints a session token for userID.
func (s *UserService) IssueToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// ToggleFollow makes followerID follow followeeID, or stops following if it
// already does. It reports whether followerID follows followeeID afterwards.
// A new follow notifies the followee; a failed notification is logged and
// does not undo the follow.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return false, fmt.Errorf("%w: cannot follow yourself", common.ErrValidation)
	}
	if _, err := uuid.Parse(followeeID); err != nil {
		return false, common.ErrorNotFound
	}

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.store.Repos.Users(s.store.Conn).GetUserByID(sctx, followeeID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, err
		}
		return false, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	var following bool
	err := s.store.Tx.WithTx(sctx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.store.Repos.Follows(tx)
		exists, err := repo.Exists(ctx, followerID, followeeID)
		if err != nil {
			return err
		}
		if exists {
			return repo.Delete(ctx, followerID, followeeID)
		}
		following = true
		return repo.Create(ctx, followerID, followeeID)
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	if following {
		if _, err := s.notifier.RecordEvent(ctx, followerID, followeeID, models.KindFollow); err != nil {
			s.logger.Warn(ctx, "follow notification not recorded", "followee", followeeID, "error", err.Error())
		}
	}

	return following, nil
}

// DeleteAccount removes the user. Tokens already issued for it stop
// resolving on their next use.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Repos.Users(s.store.Conn).Delete(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}
