package service

import (
	"context"

	"slotswap-api/core/errors"
	"slotswap-api/core/params"
	"slotswap-api/modules/activity/dto"
	"slotswap-api/modules/activity/repository"

	"github.com/google/uuid"
)

type ActivityService struct {
	repo repository.ActivityRepositoryInterface
}

func NewActivityService(repo repository.ActivityRepositoryInterface) *ActivityService {
	return &ActivityService{repo: repo}
}

type ActivityServiceInterface interface {
	ListMyActivities(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*dto.ActivityListResponse, *errors.AppError)
}

func (s *ActivityService) ListMyActivities(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*dto.ActivityListResponse, *errors.AppError) {
	activities, total, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list activities", err)
	}
	return &dto.ActivityListResponse{Activities: activities, Total: total}, nil
}
