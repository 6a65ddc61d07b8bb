package service

import (
	"context"
	"testing"
	"time"

	"slotswap-api/core/database"
	"slotswap-api/core/errors"
	"slotswap-api/core/params"
	"slotswap-api/modules/slot/dto"
	"slotswap-api/modules/slot/entity"
	"slotswap-api/modules/slot/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlotRepo struct {
	slots map[uuid.UUID]*entity.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*entity.Slot)}
}

func (r *fakeSlotRepo) add(owner uuid.UUID, title string, status entity.SlotStatus) uuid.UUID {
	id := uuid.New()
	r.slots[id] = &entity.Slot{ID: id, OwnerID: owner, Title: title, Status: status}
	return id
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *entity.Slot) error {
	slot.ID = uuid.New()
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

func (r *fakeSlotRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Slot, error) {
	var out []entity.Slot
	for _, slot := range r.slots {
		if slot.OwnerID == ownerID {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) ListExchangeable(ctx context.Context, excludeOwner uuid.UUID, p params.QueryParams) ([]entity.SlotWithOwner, int, error) {
	var out []entity.SlotWithOwner
	for _, slot := range r.slots {
		if slot.OwnerID != excludeOwner && slot.Status == entity.SlotStatusExchangeable {
			out = append(out, entity.SlotWithOwner{Slot: *slot})
		}
	}
	return out, len(out), nil
}

func (r *fakeSlotRepo) UpdateStatus(ctx context.Context, ex database.Executor, id uuid.UUID, newStatus, expectedStatus entity.SlotStatus) error {
	slot, ok := r.slots[id]
	if !ok || slot.Status != expectedStatus {
		return repository.ErrStatusConflict
	}
	slot.Status = newStatus
	return nil
}

func (r *fakeSlotRepo) TransferOwnership(ctx context.Context, ex database.Executor, id uuid.UUID, newOwner uuid.UUID) error {
	slot, ok := r.slots[id]
	if !ok {
		return repository.ErrStatusConflict
	}
	slot.OwnerID = newOwner
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ex database.Executor) error) error {
	return fn(nil)
}

func newService(repo *fakeSlotRepo) *SlotService {
	return NewSlotService(repo, passthroughTx{}, nil)
}

func TestCreateSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newService(repo)
	owner := uuid.New()
	start := time.Now()

	slot, appErr := svc.CreateSlot(context.Background(), owner, &dto.CreateSlotRequest{
		Title:     "Standup Monday",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.Nil(t, appErr)

	assert.Equal(t, owner, slot.OwnerID)
	assert.Equal(t, entity.SlotStatusBusy, slot.Status)
	assert.Equal(t, "standup-monday", slot.Slug)
	assert.NotEqual(t, uuid.Nil, slot.ID)
}

func TestCreateSlotValidation(t *testing.T) {
	svc := newService(newFakeSlotRepo())
	owner := uuid.New()
	start := time.Now()

	cases := []struct {
		name string
		req  dto.CreateSlotRequest
	}{
		{"missing title", dto.CreateSlotRequest{StartTime: start, EndTime: start.Add(time.Hour)}},
		{"end before start", dto.CreateSlotRequest{Title: "x", StartTime: start, EndTime: start.Add(-time.Hour)}},
		{"zero duration", dto.CreateSlotRequest{Title: "x", StartTime: start, EndTime: start}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, appErr := svc.CreateSlot(context.Background(), owner, &tc.req)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		})
	}
}

func TestSetAvailabilityToggle(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newService(repo)
	owner := uuid.New()
	id := repo.add(owner, "Mon 9-10", entity.SlotStatusBusy)

	slot, appErr := svc.SetAvailability(context.Background(), owner, id, entity.SlotStatusExchangeable)
	require.Nil(t, appErr)
	assert.Equal(t, entity.SlotStatusExchangeable, slot.Status)
	assert.Equal(t, entity.SlotStatusExchangeable, repo.slots[id].Status)

	slot, appErr = svc.SetAvailability(context.Background(), owner, id, entity.SlotStatusBusy)
	require.Nil(t, appErr)
	assert.Equal(t, entity.SlotStatusBusy, slot.Status)
}

func TestSetAvailabilityIsIdempotentForSameStatus(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newService(repo)
	owner := uuid.New()
	id := repo.add(owner, "Mon 9-10", entity.SlotStatusBusy)

	slot, appErr := svc.SetAvailability(context.Background(), owner, id, entity.SlotStatusBusy)
	require.Nil(t, appErr)
	assert.Equal(t, entity.SlotStatusBusy, slot.Status)
}

func TestSetAvailabilityRejectsDirectPendingWrite(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newService(repo)
	owner := uuid.New()
	id := repo.add(owner, "Mon 9-10", entity.SlotStatusBusy)

	_, appErr := svc.SetAvailability(context.Background(), owner, id, entity.SlotStatusExchangePending)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidOperation, appErr.Code)
}

func TestSetAvailabilityNotFound(t *testing.T) {
	svc := newService(newFakeSlotRepo())
	_, appErr := svc.SetAvailability(context.Background(), uuid.New(), uuid.New(), entity.SlotStatusBusy)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestSetAvailabilityOwnerOnly(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newService(repo)
	id := repo.add(uuid.New(), "Mon 9-10", entity.SlotStatusBusy)

	_, appErr := svc.SetAvailability(context.Background(), uuid.New(), id, entity.SlotStatusExchangeable)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestSetAvailabilityLockedSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newService(repo)
	owner := uuid.New()
	id := repo.add(owner, "Mon 9-10", entity.SlotStatusExchangePending)

	for _, target := range []entity.SlotStatus{entity.SlotStatusBusy, entity.SlotStatusExchangeable} {
		_, appErr := svc.SetAvailability(context.Background(), owner, id, target)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidState, appErr.Code)
	}
}

func TestMarketplaceExcludesCaller(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newService(repo)
	alice, bob := uuid.New(), uuid.New()
	repo.add(alice, "Mine", entity.SlotStatusExchangeable)
	theirs := repo.add(bob, "Theirs", entity.SlotStatusExchangeable)
	repo.add(bob, "Busy one", entity.SlotStatusBusy)

	res, appErr := svc.Marketplace(context.Background(), alice, params.QueryParams{})
	require.Nil(t, appErr)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, theirs, res.Slots[0].ID)
	assert.Equal(t, 1, res.Total)
}
