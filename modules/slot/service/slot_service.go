package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"slotswap-api/core/database"
	"slotswap-api/core/errors"
	"slotswap-api/core/logger"
	"slotswap-api/core/params"
	"slotswap-api/modules/activity/worker"
	activityentity "slotswap-api/modules/activity/entity"
	"slotswap-api/modules/slot/dto"
	"slotswap-api/modules/slot/entity"
	"slotswap-api/modules/slot/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type SlotService struct {
	repo     repository.SlotRepositoryInterface
	db       database.Transactor
	activity worker.Enqueuer
}

func NewSlotService(repo repository.SlotRepositoryInterface, db database.Transactor, activity worker.Enqueuer) *SlotService {
	return &SlotService{
		repo:     repo,
		db:       db,
		activity: activity,
	}
}

type SlotServiceInterface interface {
	CreateSlot(ctx context.Context, ownerID uuid.UUID, req *dto.CreateSlotRequest) (*entity.Slot, *errors.AppError)
	ListMySlots(ctx context.Context, ownerID uuid.UUID) ([]entity.Slot, *errors.AppError)
	Marketplace(ctx context.Context, callerID uuid.UUID, p params.QueryParams) (*dto.MarketplaceResponse, *errors.AppError)
	SetAvailability(ctx context.Context, ownerID, slotID uuid.UUID, newStatus entity.SlotStatus) (*entity.Slot, *errors.AppError)
}

func (s *SlotService) CreateSlot(ctx context.Context, ownerID uuid.UUID, req *dto.CreateSlotRequest) (*entity.Slot, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}

	slot := &entity.Slot{
		OwnerID:   ownerID,
		Title:     req.Title,
		Slug:      slug.Make(req.Title),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    entity.SlotStatusBusy,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create slot", err)
	}

	s.record(ctx, ownerID, activityentity.ActionSlotCreated, slot.ID, slot.Title)

	logger.Info("SlotService:CreateSlot:Success",
		"slot_id", slot.ID.String(),
		"owner_id", ownerID.String(),
	)
	return slot, nil
}

func (s *SlotService) ListMySlots(ctx context.Context, ownerID uuid.UUID) ([]entity.Slot, *errors.AppError) {
	slots, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list slots", err)
	}
	return slots, nil
}

func (s *SlotService) Marketplace(ctx context.Context, callerID uuid.UUID, p params.QueryParams) (*dto.MarketplaceResponse, *errors.AppError) {
	slots, total, err := s.repo.ListExchangeable(ctx, callerID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list exchangeable slots", err)
	}
	return &dto.MarketplaceResponse{Slots: slots, Total: total}, nil
}

// SetAvailability toggles a slot between BUSY and EXCHANGEABLE. The write is
// conditional on the status observed here, so a slot locked by a concurrently
// created exchange request can never be toggled out from under it.
func (s *SlotService) SetAvailability(ctx context.Context, ownerID, slotID uuid.UUID, newStatus entity.SlotStatus) (*entity.Slot, *errors.AppError) {
	if newStatus != entity.SlotStatusBusy && newStatus != entity.SlotStatusExchangeable {
		return nil, errors.NewAppError(errors.ErrInvalidOperation,
			fmt.Sprintf("status %q cannot be set directly", newStatus), nil)
	}

	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load slot", err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	if slot.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "not the slot owner", nil)
	}
	if slot.Status == entity.SlotStatusExchangePending {
		return nil, errors.NewAppError(errors.ErrInvalidState, "slot is locked by a pending exchange request", nil)
	}
	if slot.Status == newStatus {
		return slot, nil
	}
	if !slot.Status.CanOwnerToggle(newStatus) {
		return nil, errors.NewAppError(errors.ErrInvalidState,
			fmt.Sprintf("cannot change status from %s to %s", slot.Status, newStatus), nil)
	}

	expected := slot.Status
	txErr := s.db.WithinTransaction(ctx, func(ex database.Executor) error {
		return s.repo.UpdateStatus(ctx, ex, slotID, newStatus, expected)
	})
	if txErr != nil {
		if stderrors.Is(txErr, repository.ErrStatusConflict) {
			return nil, errors.NewAppError(errors.ErrConflict, "slot status changed concurrently", txErr)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update slot status", txErr)
	}

	slot.Status = newStatus
	s.record(ctx, ownerID, activityentity.ActionSlotStatusChanged, slot.ID, string(newStatus))

	return slot, nil
}

// record enqueues an activity entry; failures are logged, never surfaced.
func (s *SlotService) record(ctx context.Context, userID uuid.UUID, action string, subjectID uuid.UUID, detail string) {
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
		logger.Error("SlotService:RecordActivity:Error", err)
	}
}
