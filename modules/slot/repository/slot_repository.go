package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"slotswap-api/core/database"
	"slotswap-api/core/logger"
	"slotswap-api/core/params"
	"slotswap-api/modules/slot/entity"

	"github.com/google/uuid"
)

// ErrStatusConflict is returned when a conditional status write finds the slot
// no longer in the expected status: the caller lost a race and must not retry
// blindly.
var ErrStatusConflict = stderrors.New("slot status changed concurrently")

// SlotRepository handles slot database operations
type SlotRepository struct {
	DB database.IDatabase
}

func NewSlotRepository(db database.IDatabase) *SlotRepository {
	return &SlotRepository{DB: db}
}

// SlotRepositoryInterface defines the slot store contract. Status and
// ownership writes take an Executor so the exchange coordinator can run them
// inside a single transaction.
type SlotRepositoryInterface interface {
	Create(ctx context.Context, slot *entity.Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Slot, error)
	ListExchangeable(ctx context.Context, excludeOwner uuid.UUID, p params.QueryParams) ([]entity.SlotWithOwner, int, error)
	UpdateStatus(ctx context.Context, ex database.Executor, id uuid.UUID, newStatus, expectedStatus entity.SlotStatus) error
	TransferOwnership(ctx context.Context, ex database.Executor, id uuid.UUID, newOwner uuid.UUID) error
}

func (r *SlotRepository) Create(ctx context.Context, slot *entity.Slot) error {
	query := `
		INSERT INTO slots (owner_id, title, slug, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowxContext(ctx, query,
		slot.OwnerID, slot.Title, slot.Slug, slot.StartTime, slot.EndTime, slot.Status,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		logger.Error("SlotRepository:Create", err)
		return err
	}
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `
		SELECT id, owner_id, title, slug, start_time, end_time, status, created_at, updated_at
		FROM slots
		WHERE id = $1
	`
	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SlotRepository:GetByID", err)
		return nil, err
	}
	return &slot, nil
}

func (r *SlotRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Slot, error) {
	query := `
		SELECT id, owner_id, title, slug, start_time, end_time, status, created_at, updated_at
		FROM slots
		WHERE owner_id = $1
		ORDER BY start_time ASC
	`
	var slots []entity.Slot
	err := r.DB.SelectContext(ctx, &slots, query, ownerID)
	if err != nil {
		logger.Error("SlotRepository:ListByOwner", err)
		return nil, err
	}
	return slots, nil
}

// ListExchangeable returns the marketplace view: EXCHANGEABLE slots belonging
// to anyone but the caller.
func (r *SlotRepository) ListExchangeable(ctx context.Context, excludeOwner uuid.UUID, p params.QueryParams) ([]entity.SlotWithOwner, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM slots
		WHERE status = $1 AND owner_id <> $2
	`
	var total int
	if err := r.DB.GetContext(ctx, &total, countQuery, entity.SlotStatusExchangeable, excludeOwner); err != nil {
		logger.Error("SlotRepository:ListExchangeable:Count", err)
		return nil, 0, err
	}

	query := `
		SELECT s.id, s.owner_id, s.title, s.slug, s.start_time, s.end_time, s.status,
		       s.created_at, s.updated_at, u.name AS owner_name
		FROM slots s
		JOIN users u ON u.id = s.owner_id
		WHERE s.status = $1 AND s.owner_id <> $2
		ORDER BY s.start_time ASC
		LIMIT $3 OFFSET $4
	`
	var slots []entity.SlotWithOwner
	err := r.DB.SelectContext(ctx, &slots, query,
		entity.SlotStatusExchangeable, excludeOwner, p.PageSize, p.Offset())
	if err != nil {
		logger.Error("SlotRepository:ListExchangeable", err)
		return nil, 0, err
	}
	return slots, total, nil
}

// UpdateStatus is a conditional write: it only applies when the slot is still
// in expectedStatus. Racing writers lose with ErrStatusConflict.
func (r *SlotRepository) UpdateStatus(ctx context.Context, ex database.Executor, id uuid.UUID, newStatus, expectedStatus entity.SlotStatus) error {
	query := `
		UPDATE slots
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`
	result, err := ex.ExecContext(ctx, query, newStatus, id, expectedStatus)
	if err != nil {
		logger.Error("SlotRepository:UpdateStatus", err)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.Error("SlotRepository:UpdateStatus:RowsAffected", err)
		return err
	}
	if rows == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *SlotRepository) TransferOwnership(ctx context.Context, ex database.Executor, id uuid.UUID, newOwner uuid.UUID) error {
	query := `
		UPDATE slots
		SET owner_id = $1, updated_at = now()
		WHERE id = $2
	`
	result, err := ex.ExecContext(ctx, query, newOwner, id)
	if err != nil {
		logger.Error("SlotRepository:TransferOwnership", err)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("slot %s not found", id)
	}
	return nil
}
