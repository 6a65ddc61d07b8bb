package service

import (
	"context"
	stderrors "errors"
	"time"

	"slotswap-api/core/database"
	"slotswap-api/core/errors"
	"slotswap-api/core/logger"
	activityentity "slotswap-api/modules/activity/entity"
	"slotswap-api/modules/activity/worker"
	"slotswap-api/modules/exchange/dto"
	"slotswap-api/modules/exchange/entity"
	"slotswap-api/modules/exchange/repository"
	slotentity "slotswap-api/modules/slot/entity"
	slotrepository "slotswap-api/modules/slot/repository"

	"github.com/google/uuid"
)

// ExchangeService is the exchange coordinator. It is the only writer allowed
// to move slots in and out of EXCHANGE_PENDING, and every multi-record write
// it performs runs as one transaction of conditional writes: a concurrent
// writer invalidating any precondition aborts the whole operation.
type ExchangeService struct {
	db       database.Transactor
	repo     repository.ExchangeRepositoryInterface
	slotRepo slotrepository.SlotRepositoryInterface
	activity worker.Enqueuer
}

func NewExchangeService(
	db database.Transactor,
	repo repository.ExchangeRepositoryInterface,
	slotRepo slotrepository.SlotRepositoryInterface,
	activity worker.Enqueuer,
) *ExchangeService {
	return &ExchangeService{
		db:       db,
		repo:     repo,
		slotRepo: slotRepo,
		activity: activity,
	}
}

type ExchangeServiceInterface interface {
	Propose(ctx context.Context, requesterID, offeredSlotID, requestedSlotID uuid.UUID) (*entity.ExchangeRequest, *errors.AppError)
	Resolve(ctx context.Context, responderID, requestID uuid.UUID, outcome entity.ExchangeOutcome) (*dto.ResolveExchangeResponse, *errors.AppError)
	ListMine(ctx context.Context, userID uuid.UUID) (*dto.MyExchangesResponse, *errors.AppError)
}

// Propose creates a PENDING exchange request and locks both slots. The commit
// is a three-way compare-and-swap: both slot status flips are conditional on
// EXCHANGEABLE, so two proposals racing on the same slot cannot both succeed.
func (s *ExchangeService) Propose(ctx context.Context, requesterID, offeredSlotID, requestedSlotID uuid.UUID) (*entity.ExchangeRequest, *errors.AppError) {
	offered, err := s.slotRepo.GetByID(ctx, offeredSlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load offered slot", err)
	}
	requested, err := s.slotRepo.GetByID(ctx, requestedSlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load requested slot", err)
	}
	if offered == nil || requested == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "one or both slots not found", nil)
	}
	if offered.OwnerID != requesterID {
		return nil, errors.NewAppError(errors.ErrForbidden, "offered slot does not belong to you", nil)
	}
	if requested.OwnerID == requesterID {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "cannot exchange with yourself", nil)
	}
	if offered.Status != slotentity.SlotStatusExchangeable || requested.Status != slotentity.SlotStatusExchangeable {
		return nil, errors.NewAppError(errors.ErrInvalidState, "one or both slots are not exchangeable", nil)
	}

	req := &entity.ExchangeRequest{
		RequesterID:     requesterID,
		RequesteeID:     requested.OwnerID,
		RequesterSlotID: offered.ID,
		RequesteeSlotID: requested.ID,
		Status:          entity.ExchangeStatusPending,
	}

	txErr := s.db.WithinTransaction(ctx, func(ex database.Executor) error {
		if err := s.slotRepo.UpdateStatus(ctx, ex, offered.ID, slotentity.SlotStatusExchangePending, slotentity.SlotStatusExchangeable); err != nil {
			return err
		}
		if err := s.slotRepo.UpdateStatus(ctx, ex, requested.ID, slotentity.SlotStatusExchangePending, slotentity.SlotStatusExchangeable); err != nil {
			return err
		}
		return s.repo.Create(ctx, ex, req)
	})
	if txErr != nil {
		if stderrors.Is(txErr, slotrepository.ErrStatusConflict) {
			return nil, errors.NewAppError(errors.ErrConflict, "a slot was locked or toggled concurrently", txErr)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create exchange request", txErr)
	}

	logger.Info("ExchangeService:Propose:Success",
		"request_id", req.ID.String(),
		"requester_id", requesterID.String(),
		"requestee_id", req.RequesteeID.String(),
	)

	s.record(ctx, requesterID, activityentity.ActionExchangeProposed, req.ID, requested.Title)
	s.record(ctx, req.RequesteeID, activityentity.ActionExchangeReceived, req.ID, offered.Title)

	return req, nil
}

// Resolve accepts or rejects a PENDING request. Only the requestee may
// resolve, resolution is terminal, and all writes (request status, both slot
// statuses, and on accept the ownership swap) commit as one unit or none.
func (s *ExchangeService) Resolve(ctx context.Context, responderID, requestID uuid.UUID, outcome entity.ExchangeOutcome) (*dto.ResolveExchangeResponse, *errors.AppError) {
	if outcome != entity.OutcomeAccept && outcome != entity.OutcomeReject {
		return nil, errors.NewAppError(errors.ErrInvalidOperation, "outcome must be ACCEPT or REJECT", nil)
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load exchange request", err)
	}
	if req == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "exchange request not found", nil)
	}
	if req.RequesteeID != responderID {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the requestee may respond to this request", nil)
	}
	if req.Status != entity.ExchangeStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidState, "request has already been resolved", nil)
	}

	requesterSlot, err := s.slotRepo.GetByID(ctx, req.RequesterSlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load requester slot", err)
	}
	requesteeSlot, err := s.slotRepo.GetByID(ctx, req.RequesteeSlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load requestee slot", err)
	}
	if requesterSlot == nil || requesteeSlot == nil {
		// A PENDING request always references live locked slots; a missing one
		// means the data is corrupt, not that the caller raced anyone.
		return nil, errors.NewAppError(errors.ErrInvalidState, "a slot referenced by this request no longer exists", nil)
	}

	target := entity.ExchangeStatusRejected
	action := activityentity.ActionExchangeRejected
	if outcome == entity.OutcomeAccept {
		target = entity.ExchangeStatusAccepted
		action = activityentity.ActionExchangeAccepted
	}

	txErr := s.db.WithinTransaction(ctx, func(ex database.Executor) error {
		if err := s.repo.Resolve(ctx, ex, req.ID, target); err != nil {
			return err
		}

		if outcome == entity.OutcomeAccept {
			if err := s.slotRepo.TransferOwnership(ctx, ex, requesterSlot.ID, req.RequesteeID); err != nil {
				return err
			}
			if err := s.slotRepo.TransferOwnership(ctx, ex, requesteeSlot.ID, req.RequesterID); err != nil {
				return err
			}
			if err := s.slotRepo.UpdateStatus(ctx, ex, requesterSlot.ID, slotentity.SlotStatusBusy, slotentity.SlotStatusExchangePending); err != nil {
				return err
			}
			return s.slotRepo.UpdateStatus(ctx, ex, requesteeSlot.ID, slotentity.SlotStatusBusy, slotentity.SlotStatusExchangePending)
		}

		if err := s.slotRepo.UpdateStatus(ctx, ex, requesterSlot.ID, slotentity.SlotStatusExchangeable, slotentity.SlotStatusExchangePending); err != nil {
			return err
		}
		return s.slotRepo.UpdateStatus(ctx, ex, requesteeSlot.ID, slotentity.SlotStatusExchangeable, slotentity.SlotStatusExchangePending)
	})
	if txErr != nil {
		if stderrors.Is(txErr, repository.ErrResolveConflict) || stderrors.Is(txErr, slotrepository.ErrStatusConflict) {
			return nil, errors.NewAppError(errors.ErrConflict, "request was resolved concurrently", txErr)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve exchange request", txErr)
	}

	now := time.Now()
	req.Status = target
	req.RespondedAt = &now

	if outcome == entity.OutcomeAccept {
		requesterSlot.OwnerID = req.RequesteeID
		requesteeSlot.OwnerID = req.RequesterID
		requesterSlot.Status = slotentity.SlotStatusBusy
		requesteeSlot.Status = slotentity.SlotStatusBusy
	} else {
		requesterSlot.Status = slotentity.SlotStatusExchangeable
		requesteeSlot.Status = slotentity.SlotStatusExchangeable
	}

	logger.Info("ExchangeService:Resolve:Success",
		"request_id", req.ID.String(),
		"outcome", string(outcome),
	)

	s.record(ctx, req.RequesterID, action, req.ID, requesteeSlot.Title)
	s.record(ctx, req.RequesteeID, action, req.ID, requesterSlot.Title)

	return &dto.ResolveExchangeResponse{
		Request:       req,
		RequesterSlot: requesterSlot,
		RequesteeSlot: requesteeSlot,
	}, nil
}

func (s *ExchangeService) ListMine(ctx context.Context, userID uuid.UUID) (*dto.MyExchangesResponse, *errors.AppError) {
	incoming, err := s.repo.ListIncomingPending(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list incoming requests", err)
	}
	outgoing, err := s.repo.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list outgoing requests", err)
	}
	return &dto.MyExchangesResponse{Incoming: incoming, Outgoing: outgoing}, nil
}

func (s *ExchangeService) record(ctx context.Context, userID uuid.UUID, action string, subjectID uuid.UUID, detail string) {
	if s.activity == nil {
		return
	}
	payload := worker.ActivityPayload{
		UserID:    userID,
		Action:    action,
		SubjectID: subjectID,
		Detail:    detail,
	}
	if err := s.activity.RecordActivity(ctx, payload); err != nil {
		logger.Error("ExchangeService:RecordActivity:Error", err)
	}
}
