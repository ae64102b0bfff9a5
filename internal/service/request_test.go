package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/service"
	mocks "github.com/stirlingv/honey-biz/internal/service/mocks"
)

func TestRequestService_CreateBeeRemovalRequest(t *testing.T) {
	repo := mocks.NewMockRequestRepo(t)
	notifier := mocks.NewMockNotifier(t)

	repo.On("CreateBeeRemovalRequest", mock.Anything, mock.MatchedBy(func(r entities.BeeRemovalRequest) bool {
		return r.Status == entities.RequestPending && r.Urgency == entities.UrgencyMedium
	})).Return(entities.BeeRemovalRequest{ID: 5, Urgency: entities.UrgencyMedium}, nil).Once()
	notifier.On("BeeRemovalRequestCreated", mock.Anything, entities.BeeRemovalRequest{ID: 5, Urgency: entities.UrgencyMedium}).Return().Once()

	svc := service.NewRequestService(logger, repo, notifier)

	got, err := svc.CreateBeeRemovalRequest(context.Background(), entities.BeeRemovalRequest{BeeLocation: "eaves"})

	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
}

func TestRequestService_CreateCallbackRequest(t *testing.T) {
	dbError := errors.New("db error")

	testCases := []struct {
		name         string
		mockBehavior func(repo *mocks.MockRequestRepo, notifier *mocks.MockNotifier)
		wantErr      error
	}{
		{
			name: "OK",
			mockBehavior: func(repo *mocks.MockRequestRepo, notifier *mocks.MockNotifier) {
				repo.On("CreateCallbackRequest", mock.Anything, mock.Anything).Return(entities.CallbackRequest{ID: 1}, nil).Once()
				notifier.On("CallbackRequestCreated", mock.Anything, entities.CallbackRequest{ID: 1}).Return().Once()
			},
		},
		{
			name: "insert fails without notification",
			mockBehavior: func(repo *mocks.MockRequestRepo, notifier *mocks.MockNotifier) {
				repo.On("CreateCallbackRequest", mock.Anything, mock.Anything).Return(entities.CallbackRequest{}, dbError).Once()
			},
			wantErr: dbError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockRequestRepo(t)
			notifier := mocks.NewMockNotifier(t)
			tc.mockBehavior(repo, notifier)

			svc := service.NewRequestService(logger, repo, notifier)

			_, err := svc.CreateCallbackRequest(context.Background(), entities.CallbackRequest{Name: "Pat", Interest: "honey"})

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				notifier.AssertNotCalled(t, "CallbackRequestCreated", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequestService_CreateNucAndPollination(t *testing.T) {
	repo := mocks.NewMockRequestRepo(t)
	notifier := mocks.NewMockNotifier(t)

	repo.On("CreateNucRequest", mock.Anything, mock.MatchedBy(func(r entities.NucRequest) bool {
		return r.Status == entities.RequestPending
	})).Return(entities.NucRequest{ID: 2}, nil).Once()
	repo.On("CreatePollinationRequest", mock.Anything, mock.MatchedBy(func(r entities.PollinationRequest) bool {
		return r.Status == entities.RequestPending
	})).Return(entities.PollinationRequest{ID: 3}, nil).Once()
	notifier.On("NucRequestCreated", mock.Anything, entities.NucRequest{ID: 2}).Return().Once()
	notifier.On("PollinationRequestCreated", mock.Anything, entities.PollinationRequest{ID: 3}).Return().Once()

	svc := service.NewRequestService(logger, repo, notifier)

	_, err := svc.CreateNucRequest(context.Background(), entities.NucRequest{Quantity: 2})
	require.NoError(t, err)
	_, err = svc.CreatePollinationRequest(context.Background(), entities.PollinationRequest{CropType: "Almonds"})
	require.NoError(t, err)
}
