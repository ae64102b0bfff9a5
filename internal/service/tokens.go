package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/invoicing"
)

type TokenRepo interface {
	SaveToken(ctx context.Context, t entities.IntegrationToken) error
	GetToken(ctx context.Context, realmID string) (entities.IntegrationToken, error)
	ExpiringTokens(ctx context.Context, before time.Time) ([]entities.IntegrationToken, error)
	DeleteToken(ctx context.Context, realmID string) error
}

type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (invoicing.Token, error)
}

type TokenOptions struct {
	// RealmID pins sessions to one company. Empty means the most recently
	// connected one.
	RealmID string
	// Skew is how long before expiry a token is refreshed.
	Skew     time.Duration
	Interval time.Duration
	Now      func() time.Time
}

type tokenService struct {
	logger  *slog.Logger
	repo    TokenRepo
	client  TokenRefresher
	opts    TokenOptions
	flights singleflight.Group
}

func NewTokenService(logger *slog.Logger, repo TokenRepo, client TokenRefresher, opts TokenOptions) *tokenService {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &tokenService{
		logger: logger.With(slog.String("service", "tokens")),
		repo:   repo,
		client: client,
		opts:   opts,
	}
}

// Save stores a freshly exchanged token for its realm.
func (s *tokenService) Save(ctx context.Context, t invoicing.Token) error {
	if t.RealmID == "" {
		return errors.New("token has no realm id")
	}
	err := s.repo.SaveToken(ctx, entities.IntegrationToken{
		RealmID:      t.RealmID,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
	})
	if err != nil {
		return err
	}
	s.logger.Info("integration connected", slog.String("realm_id", t.RealmID))
	return nil
}

// Session returns usable credentials, refreshing them first when they are
// about to expire. ok is false when no integration is connected.
func (s *tokenService) Session(ctx context.Context) (invoicing.Session, bool, error) {
	t, err := s.repo.GetToken(ctx, s.opts.RealmID)
	if errors.Is(err, entities.ErrTokenNotFound) {
		return invoicing.Session{}, false, nil
	}
	if err != nil {
		return invoicing.Session{}, false, err
	}

	if t.ExpiresWithin(s.opts.Now(), s.opts.Skew) {
		t, err = s.refresh(ctx, t)
		if err != nil {
			var authErr *invoicing.AuthError
			if errors.As(err, &authErr) {
				return invoicing.Session{}, false, nil
			}
			return invoicing.Session{}, false, err
		}
	}

	return invoicing.Session{AccessToken: t.AccessToken, RealmID: t.RealmID}, true, nil
}

func (s *tokenService) Disconnect(ctx context.Context) error {
	if err := s.repo.DeleteToken(ctx, s.opts.RealmID); err != nil {
		return err
	}
	s.logger.Info("integration disconnected")
	return nil
}

// refresh exchanges the refresh token once per realm even under concurrent
// callers. A rejected refresh token is dropped.
func (s *tokenService) refresh(ctx context.Context, t entities.IntegrationToken) (entities.IntegrationToken, error) {
	v, err, _ := s.flights.Do(t.RealmID, func() (any, error) {
		fresh, err := s.client.Refresh(ctx, t.RefreshToken)
		if err != nil {
			var authErr *invoicing.AuthError
			if errors.As(err, &authErr) {
				s.logger.Warn("refresh token rejected, dropping integration token",
					slog.String("realm_id", t.RealmID), slog.Any("error", err))
				if delErr := s.repo.DeleteToken(ctx, t.RealmID); delErr != nil {
					s.logger.Error("failed to delete token", slog.Any("error", delErr))
				}
			}
			return nil, err
		}

		updated := entities.IntegrationToken{
			RealmID:      t.RealmID,
			AccessToken:  fresh.AccessToken,
			RefreshToken: fresh.RefreshToken,
			ExpiresAt:    fresh.ExpiresAt,
		}
		if updated.RefreshToken == "" {
			updated.RefreshToken = t.RefreshToken
		}
		if err := s.repo.SaveToken(ctx, updated); err != nil {
			return nil, fmt.Errorf("failed to save refreshed token: %w", err)
		}
		s.logger.Debug("token refreshed", slog.String("realm_id", t.RealmID))
		return updated, nil
	})
	if err != nil {
		return entities.IntegrationToken{}, err
	}
	return v.(entities.IntegrationToken), nil
}

// Start refreshes tokens ahead of expiry until ctx is done.
func (s *tokenService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.RefreshExpiring(ctx)
		}
	}
}

func (s *tokenService) RefreshExpiring(ctx context.Context) {
	tokens, err := s.repo.ExpiringTokens(ctx, s.opts.Now().Add(s.opts.Skew))
	if err != nil {
		s.logger.Error("failed to list expiring tokens", slog.Any("error", err))
		return
	}
	for _, t := range tokens {
		if _, err := s.refresh(ctx, t); err != nil {
			s.logger.Error("failed to refresh token", slog.String("realm_id", t.RealmID), slog.Any("error", err))
		}
	}
}
