package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"slotswap-api/core/database"
	"slotswap-api/core/logger"
	"slotswap-api/modules/exchange/entity"

	"github.com/google/uuid"
)

// ErrResolveConflict is returned when a conditional resolve finds the request
// no longer PENDING: it was already resolved by a racing call.
var ErrResolveConflict = stderrors.New("exchange request already resolved")

// ExchangeRepository handles exchange request database operations
type ExchangeRepository struct {
	DB database.IDatabase
}

func NewExchangeRepository(db database.IDatabase) *ExchangeRepository {
	return &ExchangeRepository{DB: db}
}

// ExchangeRepositoryInterface defines the exchange request store contract.
// Create and Resolve take an Executor so the coordinator can bundle them with
// slot writes in one transaction.
type ExchangeRepositoryInterface interface {
	Create(ctx context.Context, ex database.Executor, req *entity.ExchangeRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExchangeRequest, error)
	Resolve(ctx context.Context, ex database.Executor, id uuid.UUID, newStatus entity.ExchangeStatus) error
	ListIncomingPending(ctx context.Context, userID uuid.UUID) ([]entity.ExchangeRequestDetail, error)
	ListOutgoing(ctx context.Context, userID uuid.UUID) ([]entity.ExchangeRequestDetail, error)
}

func (r *ExchangeRepository) Create(ctx context.Context, ex database.Executor, req *entity.ExchangeRequest) error {
	query := `
		INSERT INTO exchange_requests (requester_id, requestee_id, requester_slot_id, requestee_slot_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := ex.QueryRowxContext(ctx, query,
		req.RequesterID, req.RequesteeID, req.RequesterSlotID, req.RequesteeSlotID, req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		logger.Error("ExchangeRepository:Create", err)
		return err
	}
	return nil
}

func (r *ExchangeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExchangeRequest, error) {
	query := `
		SELECT id, requester_id, requestee_id, requester_slot_id, requestee_slot_id,
		       status, responded_at, created_at, updated_at
		FROM exchange_requests
		WHERE id = $1
	`
	var req entity.ExchangeRequest
	err := r.DB.GetContext(ctx, &req, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ExchangeRepository:GetByID", err)
		return nil, err
	}
	return &req, nil
}

// Resolve is a conditional write enforcing that ACCEPTED and REJECTED are
// terminal: it only applies while the request is still PENDING.
func (r *ExchangeRepository) Resolve(ctx context.Context, ex database.Executor, id uuid.UUID, newStatus entity.ExchangeStatus) error {
	query := `
		UPDATE exchange_requests
		SET status = $1, responded_at = now(), updated_at = now()
		WHERE id = $2 AND status = $3
	`
	result, err := ex.ExecContext(ctx, query, newStatus, id, entity.ExchangeStatusPending)
	if err != nil {
		logger.Error("ExchangeRepository:Resolve", err)
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.Error("ExchangeRepository:Resolve:RowsAffected", err)
		return err
	}
	if rows == 0 {
		return ErrResolveConflict
	}
	return nil
}

const detailSelect = `
	SELECT e.id, e.requester_id, e.requestee_id, e.requester_slot_id, e.requestee_slot_id,
	       e.status, e.responded_at, e.created_at, e.updated_at,
	       ur.name AS requester_name, ue.name AS requestee_name,
	       sr.title AS requester_slot_title, se.title AS requestee_slot_title
	FROM exchange_requests e
	JOIN users ur ON ur.id = e.requester_id
	JOIN users ue ON ue.id = e.requestee_id
	JOIN slots sr ON sr.id = e.requester_slot_id
	JOIN slots se ON se.id = e.requestee_slot_id
`

func (r *ExchangeRepository) ListIncomingPending(ctx context.Context, userID uuid.UUID) ([]entity.ExchangeRequestDetail, error) {
	query := detailSelect + `
		WHERE e.requestee_id = $1 AND e.status = $2
		ORDER BY e.created_at DESC
	`
	var requests []entity.ExchangeRequestDetail
	err := r.DB.SelectContext(ctx, &requests, query, userID, entity.ExchangeStatusPending)
	if err != nil {
		logger.Error("ExchangeRepository:ListIncomingPending", err)
		return nil, err
	}
	return requests, nil
}

func (r *ExchangeRepository) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]entity.ExchangeRequestDetail, error) {
	query := detailSelect + `
		WHERE e.requester_id = $1
		ORDER BY e.created_at DESC
	`
	var requests []entity.ExchangeRequestDetail
	err := r.DB.SelectContext(ctx, &requests, query, userID)
	if err != nil {
		logger.Error("ExchangeRepository:ListOutgoing", err)
		return nil, err
	}
	return requests, nil
}
