package repository

import (
	"context"

	"slotswap-api/core/database"
	"slotswap-api/core/logger"
	"slotswap-api/core/params"
	"slotswap-api/modules/activity/entity"

	"github.com/google/uuid"
)

// ActivityRepository handles activity log database operations
type ActivityRepository struct {
	DB database.IDatabase
}

func NewActivityRepository(db database.IDatabase) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

type ActivityRepositoryInterface interface {
	Create(ctx context.Context, activity *entity.Activity) error
	ListByUser(ctx context.Context, userID uuid.UUID, p params.QueryParams) ([]entity.Activity, int, error)
}

func (r *ActivityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	query := `
		INSERT INTO activities (user_id, action, subject_id, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowxContext(ctx, query,
		activity.UserID, activity.Action, activity.SubjectID, activity.Detail,
	).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		logger.Error("ActivityRepository:Create", err)
		return err
	}
	return nil
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, p params.QueryParams) ([]entity.Activity, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM activities WHERE user_id = $1`
	if err := r.DB.GetContext(ctx, &total, countQuery, userID); err != nil {
		logger.Error("ActivityRepository:ListByUser:Count", err)
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, action, subject_id, detail, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var activities []entity.Activity
	err := r.DB.SelectContext(ctx, &activities, query, userID, p.PageSize, p.Offset())
	if err != nil {
		logger.Error("ActivityRepository:ListByUser", err)
		return nil, 0, err
	}
	return activities, total, nil
}
