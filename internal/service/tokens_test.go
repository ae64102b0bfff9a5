package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/invoicing"
	"github.com/stirlingv/honey-biz/internal/service"
	mocks "github.com/stirlingv/honey-biz/internal/service/mocks"
)

func TestTokenService_Session(t *testing.T) {
	type MockBehavior func(repo *mocks.MockTokenRepo, client *mocks.MockTokenRefresher)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	fresh := entities.IntegrationToken{RealmID: "123", AccessToken: "a1", RefreshToken: "r1", ExpiresAt: now.Add(time.Hour)}
	stale := entities.IntegrationToken{RealmID: "123", AccessToken: "a0", RefreshToken: "r0", ExpiresAt: now.Add(time.Minute)}

	testCases := []struct {
		name         string
		mockBehavior MockBehavior
		wantOK       bool
		wantSession  invoicing.Session
		wantErr      bool
	}{
		{
			name: "not connected",
			mockBehavior: func(repo *mocks.MockTokenRepo, client *mocks.MockTokenRefresher) {
				repo.On("GetToken", mock.Anything, "123").Return(entities.IntegrationToken{}, entities.ErrTokenNotFound).Once()
			},
		},
		{
			name: "valid token",
			mockBehavior: func(repo *mocks.MockTokenRepo, client *mocks.MockTokenRefresher) {
				repo.On("GetToken", mock.Anything, "123").Return(fresh, nil).Once()
			},
			wantOK:      true,
			wantSession: invoicing.Session{AccessToken: "a1", RealmID: "123"},
		},
		{
			name: "expiring token is refreshed",
			mockBehavior: func(repo *mocks.MockTokenRepo, client *mocks.MockTokenRefresher) {
				repo.On("GetToken", mock.Anything, "123").Return(stale, nil).Once()
				client.On("Refresh", mock.Anything, "r0").Return(invoicing.Token{AccessToken: "a2", ExpiresAt: now.Add(time.Hour)}, nil).Once()
				repo.On("SaveToken", mock.Anything, entities.IntegrationToken{
					RealmID: "123", AccessToken: "a2", RefreshToken: "r0", ExpiresAt: now.Add(time.Hour),
				}).Return(nil).Once()
			},
			wantOK:      true,
			wantSession: invoicing.Session{AccessToken: "a2", RealmID: "123"},
		},
		{
			name: "rejected refresh token is dropped",
			mockBehavior: func(repo *mocks.MockTokenRepo, client *mocks.MockTokenRefresher) {
				repo.On("GetToken", mock.Anything, "123").Return(stale, nil).Once()
				client.On("Refresh", mock.Anything, "r0").Return(invoicing.Token{}, &invoicing.AuthError{Op: "refresh", Err: errors.New("invalid_grant")}).Once()
				repo.On("DeleteToken", mock.Anything, "123").Return(nil).Once()
			},
		},
		{
			name: "refresh transport error",
			mockBehavior: func(repo *mocks.MockTokenRepo, client *mocks.MockTokenRefresher) {
				repo.On("GetToken", mock.Anything, "123").Return(stale, nil).Once()
				client.On("Refresh", mock.Anything, "r0").Return(invoicing.Token{}, errors.New("dial tcp: timeout")).Once()
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockTokenRepo(t)
			client := mocks.NewMockTokenRefresher(t)
			tc.mockBehavior(repo, client)

			svc := service.NewTokenService(logger, repo, client, service.TokenOptions{
				RealmID: "123",
				Skew:    10 * time.Minute,
				Now:     func() time.Time { return now },
			})

			s, ok, err := svc.Session(context.Background())

			if tc.wantErr {
				assert.Error(t, err)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantSession, s)
		})
	}
}

func TestTokenService_Save(t *testing.T) {
	repo := mocks.NewMockTokenRepo(t)
	expires := time.Now().Add(time.Hour)
	repo.On("SaveToken", mock.Anything, entities.IntegrationToken{
		RealmID: "123", AccessToken: "a1", RefreshToken: "r1", ExpiresAt: expires,
	}).Return(nil).Once()

	svc := service.NewTokenService(logger, repo, mocks.NewMockTokenRefresher(t), service.TokenOptions{})

	require.NoError(t, svc.Save(context.Background(), invoicing.Token{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: expires, RealmID: "123"}))
	assert.Error(t, svc.Save(context.Background(), invoicing.Token{AccessToken: "a1"}))
}

func TestTokenService_RefreshExpiring(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := mocks.NewMockTokenRepo(t)
	client := mocks.NewMockTokenRefresher(t)

	repo.On("ExpiringTokens", mock.Anything, now.Add(10*time.Minute)).Return([]entities.IntegrationToken{
		{RealmID: "1", RefreshToken: "r1"},
		{RealmID: "2", RefreshToken: "r2"},
	}, nil).Once()
	client.On("Refresh", mock.Anything, "r1").Return(invoicing.Token{AccessToken: "a1", RefreshToken: "n1"}, nil).Once()
	client.On("Refresh", mock.Anything, "r2").Return(invoicing.Token{}, &invoicing.AuthError{Op: "refresh"}).Once()
	repo.On("SaveToken", mock.Anything, mock.MatchedBy(func(tok entities.IntegrationToken) bool {
		return tok.RealmID == "1" && tok.RefreshToken == "n1"
	})).Return(nil).Once()
	repo.On("DeleteToken", mock.Anything, "2").Return(nil).Once()

	svc := service.NewTokenService(logger, repo, client, service.TokenOptions{
		Skew: 10 * time.Minute,
		Now:  func() time.Time { return now },
	})

	svc.RefreshExpiring(context.Background())
}

func TestTokenService_Disconnect(t *testing.T) {
	repo := mocks.NewMockTokenRepo(t)
	repo.On("DeleteToken", mock.Anything, "").Return(nil).Once()

	svc := service.NewTokenService(logger, repo, mocks.NewMockTokenRefresher(t), service.TokenOptions{})

	assert.NoError(t, svc.Disconnect(context.Background()))
}
