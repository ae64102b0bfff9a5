package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stirlingv/honey-biz/internal/entities"
)

type RequestRepo interface {
	CreateNucRequest(ctx context.Context, r entities.NucRequest) (entities.NucRequest, error)
	CreatePollinationRequest(ctx context.Context, r entities.PollinationRequest) (entities.PollinationRequest, error)
	CreateBeeRemovalRequest(ctx context.Context, r entities.BeeRemovalRequest) (entities.BeeRemovalRequest, error)
	CreateCallbackRequest(ctx context.Context, r entities.CallbackRequest) (entities.CallbackRequest, error)
}

type requestService struct {
	logger   *slog.Logger
	repo     RequestRepo
	notifier Notifier
}

func NewRequestService(logger *slog.Logger, repo RequestRepo, notifier Notifier) *requestService {
	return &requestService{
		logger:   logger.With(slog.String("service", "request")),
		repo:     repo,
		notifier: notifier,
	}
}

func (s *requestService) CreateNucRequest(ctx context.Context, r entities.NucRequest) (entities.NucRequest, error) {
	r.Status = entities.RequestPending
	created, err := s.repo.CreateNucRequest(ctx, r)
	if err != nil {
		return entities.NucRequest{}, fmt.Errorf("failed to create nuc request: %w", err)
	}
	s.logger.Info("nuc request created", slog.Int64("id", created.ID))
	s.notifier.NucRequestCreated(ctx, created)
	return created, nil
}

func (s *requestService) CreatePollinationRequest(ctx context.Context, r entities.PollinationRequest) (entities.PollinationRequest, error) {
	r.Status = entities.RequestPending
	created, err := s.repo.CreatePollinationRequest(ctx, r)
	if err != nil {
		return entities.PollinationRequest{}, fmt.Errorf("failed to create pollination request: %w", err)
	}
	s.logger.Info("pollination request created", slog.Int64("id", created.ID))
	s.notifier.PollinationRequestCreated(ctx, created)
	return created, nil
}

func (s *requestService) CreateBeeRemovalRequest(ctx context.Context, r entities.BeeRemovalRequest) (entities.BeeRemovalRequest, error) {
	r.Status = entities.RequestPending
	if r.Urgency == "" {
		r.Urgency = entities.UrgencyMedium
	}
	created, err := s.repo.CreateBeeRemovalRequest(ctx, r)
	if err != nil {
		return entities.BeeRemovalRequest{}, fmt.Errorf("failed to create bee removal request: %w", err)
	}
	s.logger.Info("bee removal request created",
		slog.Int64("id", created.ID),
		slog.String("urgency", string(created.Urgency)),
	)
	s.notifier.BeeRemovalRequestCreated(ctx, created)
	return created, nil
}

func (s *requestService) CreateCallbackRequest(ctx context.Context, r entities.CallbackRequest) (entities.CallbackRequest, error) {
	r.Status = entities.RequestPending
	created, err := s.repo.CreateCallbackRequest(ctx, r)
	if err != nil {
		return entities.CallbackRequest{}, fmt.Errorf("failed to create callback request: %w", err)
	}
	s.logger.Info("callback request created", slog.Int64("id", created.ID))
	s.notifier.CallbackRequestCreated(ctx, created)
	return created, nil
}
